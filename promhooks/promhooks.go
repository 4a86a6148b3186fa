// Package promhooks counts molstream transport events with Prometheus.
package promhooks

import (
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/molstream"
)

// Hooks exposes
//
//	molstream_fields_total{op,kind}
//	molstream_transport_errors_total{op,reason}
//
// reason is "eof" for io.EOF / io.ErrUnexpectedEOF and "io" otherwise.
type Hooks struct {
	fields *prometheus.CounterVec
	errs   *prometheus.CounterVec
}

var _ molstream.Hooks = (*Hooks)(nil)

// New creates the counters and registers them on reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Hooks, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := &Hooks{
		fields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "molstream",
			Name:      "fields_total",
			Help:      "Typed encode/decode operations by direction and kind.",
		}, []string{"op", "kind"}),
		errs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "molstream",
			Name:      "transport_errors_total",
			Help:      "Byte transport failures seen by the codec.",
		}, []string{"op", "reason"}),
	}
	for _, c := range []prometheus.Collector{h.fields, h.errs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Hooks) Field(op molstream.Op, kind molstream.Kind, _ *molstream.Tag) {
	h.fields.WithLabelValues(op.String(), kind.String()).Inc()
}

func (h *Hooks) TransportError(op molstream.Op, err error) {
	reason := "io"
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		reason = "eof"
	}
	h.errs.WithLabelValues(op.String(), reason).Inc()
}
