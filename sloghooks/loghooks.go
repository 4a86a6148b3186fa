// Package sloghooks logs molstream transport events with log/slog.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/molstream"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	FieldEvery uint64
	// Optional tag renderer. Defaults to the tag name.
	Describe func(*molstream.Tag) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	fieldCtr atomic.Uint64
}

var _ molstream.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) describe(tag *molstream.Tag) string {
	if h.opts.Describe != nil {
		return h.opts.Describe(tag)
	}
	if tag == nil {
		return ""
	}
	return tag.Name
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Field(op molstream.Op, kind molstream.Kind, tag *molstream.Tag) {
	if h.l == nil || !sample(h.opts.FieldEvery, &h.fieldCtr) {
		return
	}
	h.l.Debug("molstream.field",
		"op", op.String(),
		"kind", kind.String(),
		"tag", h.describe(tag))
}

func (h *Hooks) TransportError(op molstream.Op, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("molstream.transport_error",
		"op", op.String(),
		"err", err)
}
