package molstream

import (
	"encoding/binary"
	"math"
)

// Marshaler is implemented by values that can write themselves as a
// sequence of typed Encoder calls.
type Marshaler interface {
	MarshalStream(e *Encoder) error
}

// Encoder writes typed values to a Sink. It holds no state besides a
// scratch buffer; errors come from the Sink and are returned unchanged.
// An Encoder must not be shared between goroutines.
type Encoder struct {
	sink Sink
	obs  TagObserver
	tmp  [8]byte
}

// NewEncoder returns an Encoder writing to s. If s implements TagObserver
// it is notified of every typed call.
func NewEncoder(s Sink) *Encoder {
	e := &Encoder{sink: s}
	e.obs, _ = s.(TagObserver)
	return e
}

// Sink returns the transport the Encoder writes to.
func (e *Encoder) Sink() Sink { return e.sink }

// Encode lets m write itself to e.
func (e *Encoder) Encode(m Marshaler) error { return m.MarshalStream(e) }

func (e *Encoder) observe(k Kind, tag *Tag) {
	if e.obs != nil {
		e.obs.ObserveTag(OpWrite, k, tag)
	}
}

func (e *Encoder) Uint8(v uint8, tag *Tag) error {
	e.observe(KindUint8, tag)
	return e.sink.WriteByte(v)
}

func (e *Encoder) Int8(v int8, tag *Tag) error {
	e.observe(KindInt8, tag)
	return e.sink.WriteByte(uint8(v))
}

func (e *Encoder) Uint16(v uint16, tag *Tag) error {
	e.observe(KindUint16, tag)
	return e.putUint16(v)
}

func (e *Encoder) Int16(v int16, tag *Tag) error {
	e.observe(KindInt16, tag)
	return e.putUint16(uint16(v))
}

func (e *Encoder) Uint32(v uint32, tag *Tag) error {
	e.observe(KindUint32, tag)
	return e.putUint32(v)
}

func (e *Encoder) Int32(v int32, tag *Tag) error {
	e.observe(KindInt32, tag)
	return e.putUint32(uint32(v))
}

func (e *Encoder) Uint64(v uint64, tag *Tag) error {
	e.observe(KindUint64, tag)
	return e.putUint64(v)
}

func (e *Encoder) Int64(v int64, tag *Tag) error {
	e.observe(KindInt64, tag)
	return e.putUint64(uint64(v))
}

// Float32 writes the IEEE-754 binary32 bit pattern of v as a uint32.
func (e *Encoder) Float32(v float32, tag *Tag) error {
	e.observe(KindFloat32, tag)
	return e.putUint32(math.Float32bits(v))
}

// Float64 writes the IEEE-754 binary64 bit pattern of v as a uint64.
func (e *Encoder) Float64(v float64, tag *Tag) error {
	e.observe(KindFloat64, tag)
	return e.putUint64(math.Float64bits(v))
}

// Bool writes 0xFF for true and 0x00 for false.
func (e *Encoder) Bool(v bool, tag *Tag) error {
	e.observe(KindBool, tag)
	if v {
		return e.sink.WriteByte(BoolTrue)
	}
	return e.sink.WriteByte(BoolFalse)
}

// String writes the bytes of s followed by a single 0x00. s must not
// contain 0x00 itself; this is not checked.
func (e *Encoder) String(s string, tag *Tag) error {
	e.observe(KindString, tag)
	for i := 0; i < len(s); i++ {
		if err := e.sink.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return e.sink.WriteByte(Terminator)
}

// Bytes writes p as-is. The length is not recorded; the reader must know it.
func (e *Encoder) Bytes(p []byte, tag *Tag) error {
	e.observe(KindBytes, tag)
	return e.put(p)
}

// Int writes v narrowed to the width selected by precision (see IntWidth).
// Out of range values are truncated.
func (e *Encoder) Int(v int, precision int, tag *Tag) error {
	e.observe(KindInt, tag)
	switch IntWidth(precision) {
	case 4:
		return e.putUint32(uint32(int32(v)))
	case 2:
		return e.putUint16(uint16(int16(v)))
	default:
		return e.sink.WriteByte(uint8(int8(v)))
	}
}

func (e *Encoder) putUint16(v uint16) error {
	binary.NativeEndian.PutUint16(e.tmp[:2], v)
	return e.put(e.tmp[:2])
}

func (e *Encoder) putUint32(v uint32) error {
	binary.NativeEndian.PutUint32(e.tmp[:4], v)
	return e.put(e.tmp[:4])
}

func (e *Encoder) putUint64(v uint64) error {
	binary.NativeEndian.PutUint64(e.tmp[:8], v)
	return e.put(e.tmp[:8])
}

func (e *Encoder) put(p []byte) error {
	for _, b := range p {
		if err := e.sink.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}
