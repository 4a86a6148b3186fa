package molstream

// Hooks are lightweight callbacks for transport-level instrumentation.
// Implementations MUST be cheap and non-blocking; they run once per typed
// call on the encode/decode path.
type Hooks interface {
	// A typed operation is about to transfer bytes. tag is the caller's
	// metadata, possibly nil, and must not be mutated.
	Field(op Op, kind Kind, tag *Tag)

	// The wrapped transport failed. err is also returned to the caller.
	TransportError(op Op, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Field(Op, Kind, *Tag)     {}
func (NopHooks) TransportError(Op, error) {}

// ObserveSink wraps s so that an Encoder on it reports to h. A nil h
// returns s unchanged.
func ObserveSink(s Sink, h Hooks) Sink {
	if h == nil {
		return s
	}
	return &observedSink{s: s, h: h}
}

// ObserveSource wraps s so that a Decoder on it reports to h. A nil h
// returns s unchanged.
func ObserveSource(s Source, h Hooks) Source {
	if h == nil {
		return s
	}
	return &observedSource{s: s, h: h}
}

type observedSink struct {
	s Sink
	h Hooks
}

var (
	_ Sink        = (*observedSink)(nil)
	_ TagObserver = (*observedSink)(nil)
)

func (o *observedSink) WriteByte(c byte) error {
	err := o.s.WriteByte(c)
	if err != nil {
		o.h.TransportError(OpWrite, err)
	}
	return err
}

func (o *observedSink) ObserveTag(op Op, kind Kind, tag *Tag) {
	o.h.Field(op, kind, tag)
	if inner, ok := o.s.(TagObserver); ok {
		inner.ObserveTag(op, kind, tag)
	}
}

type observedSource struct {
	s Source
	h Hooks
}

var (
	_ Source      = (*observedSource)(nil)
	_ TagObserver = (*observedSource)(nil)
)

func (o *observedSource) ReadByte() (byte, error) {
	b, err := o.s.ReadByte()
	if err != nil {
		o.h.TransportError(OpRead, err)
	}
	return b, err
}

func (o *observedSource) ObserveTag(op Op, kind Kind, tag *Tag) {
	o.h.Field(op, kind, tag)
	if inner, ok := o.s.(TagObserver); ok {
		inner.ObserveTag(op, kind, tag)
	}
}
