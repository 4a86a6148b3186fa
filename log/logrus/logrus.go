// Package logrus adapts a *logrus.Entry to molstream.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/molstream"
)

var _ molstream.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New returns a Logger on l tagged with component=molstream.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "molstream")}
}

func (l Logger) Debug(msg string, f molstream.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f molstream.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f molstream.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f molstream.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f molstream.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}
