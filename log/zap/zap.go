// Package zap adapts a *zap.Logger to molstream.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/molstream"
	"go.uber.org/zap"
)

var _ molstream.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New returns a Logger writing to l under the "molstream" name.
func New(l *zap.Logger) Logger { return Logger{L: l.Named("molstream")} }

func (z Logger) Debug(msg string, f molstream.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f molstream.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f molstream.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f molstream.Fields) { z.L.Error(msg, fields(f)...) }

// fields are emitted in key order so log lines are stable.
func fields(f molstream.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
