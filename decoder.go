package molstream

import (
	"encoding/binary"
	"math"
)

// Unmarshaler is implemented by values that can read themselves back with
// the same sequence of typed calls their MarshalStream used.
type Unmarshaler interface {
	UnmarshalStream(d *Decoder) error
}

// Decoder reads typed values from a Source. It has no end-of-data or
// corruption detection of its own: whatever error the Source returns is
// returned unchanged, together with the zero value of the type.
// A Decoder must not be shared between goroutines.
type Decoder struct {
	src Source
	obs TagObserver
	tmp [8]byte
}

// NewDecoder returns a Decoder reading from s. If s implements TagObserver
// it is notified of every typed call.
func NewDecoder(s Source) *Decoder {
	d := &Decoder{src: s}
	d.obs, _ = s.(TagObserver)
	return d
}

// Source returns the transport the Decoder reads from.
func (d *Decoder) Source() Source { return d.src }

// Decode lets u read itself from d.
func (d *Decoder) Decode(u Unmarshaler) error { return u.UnmarshalStream(d) }

func (d *Decoder) observe(k Kind, tag *Tag) {
	if d.obs != nil {
		d.obs.ObserveTag(OpRead, k, tag)
	}
}

func (d *Decoder) Uint8(tag *Tag) (uint8, error) {
	d.observe(KindUint8, tag)
	return d.src.ReadByte()
}

func (d *Decoder) Int8(tag *Tag) (int8, error) {
	d.observe(KindInt8, tag)
	b, err := d.src.ReadByte()
	if err != nil {
		return 0, err
	}
	return int8(b), nil
}

func (d *Decoder) Uint16(tag *Tag) (uint16, error) {
	d.observe(KindUint16, tag)
	return d.getUint16()
}

func (d *Decoder) Int16(tag *Tag) (int16, error) {
	d.observe(KindInt16, tag)
	v, err := d.getUint16()
	return int16(v), err
}

func (d *Decoder) Uint32(tag *Tag) (uint32, error) {
	d.observe(KindUint32, tag)
	return d.getUint32()
}

func (d *Decoder) Int32(tag *Tag) (int32, error) {
	d.observe(KindInt32, tag)
	v, err := d.getUint32()
	return int32(v), err
}

func (d *Decoder) Uint64(tag *Tag) (uint64, error) {
	d.observe(KindUint64, tag)
	return d.getUint64()
}

func (d *Decoder) Int64(tag *Tag) (int64, error) {
	d.observe(KindInt64, tag)
	v, err := d.getUint64()
	return int64(v), err
}

func (d *Decoder) Float32(tag *Tag) (float32, error) {
	d.observe(KindFloat32, tag)
	v, err := d.getUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (d *Decoder) Float64(tag *Tag) (float64, error) {
	d.observe(KindFloat64, tag)
	v, err := d.getUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Bool reads one byte; any non-zero value is true.
func (d *Decoder) Bool(tag *Tag) (bool, error) {
	d.observe(KindBool, tag)
	b, err := d.src.ReadByte()
	if err != nil {
		return false, err
	}
	return b != BoolFalse, nil
}

// String reads bytes up to and excluding the next 0x00. There is no length
// limit: an unterminated stream is read until the Source fails. Wrap the
// Source with transport.Limit when the input is untrusted.
func (d *Decoder) String(tag *Tag) (string, error) {
	d.observe(KindString, tag)
	var acc []byte
	for {
		b, err := d.src.ReadByte()
		if err != nil {
			return "", err
		}
		if b == Terminator {
			return string(acc), nil
		}
		acc = append(acc, b)
	}
}

// Bytes fills p from the Source. len(p) is the number of bytes read;
// an empty p performs no transport calls.
func (d *Decoder) Bytes(p []byte, tag *Tag) error {
	d.observe(KindBytes, tag)
	return d.get(p)
}

// Int reads a value written by Encoder.Int with the same precision and
// sign-extends it to int.
func (d *Decoder) Int(precision int, tag *Tag) (int, error) {
	d.observe(KindInt, tag)
	switch IntWidth(precision) {
	case 4:
		v, err := d.getUint32()
		return int(int32(v)), err
	case 2:
		v, err := d.getUint16()
		return int(int16(v)), err
	default:
		b, err := d.src.ReadByte()
		if err != nil {
			return 0, err
		}
		return int(int8(b)), nil
	}
}

func (d *Decoder) getUint16() (uint16, error) {
	if err := d.get(d.tmp[:2]); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint16(d.tmp[:2]), nil
}

func (d *Decoder) getUint32() (uint32, error) {
	if err := d.get(d.tmp[:4]); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(d.tmp[:4]), nil
}

func (d *Decoder) getUint64() (uint64, error) {
	if err := d.get(d.tmp[:8]); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(d.tmp[:8]), nil
}

func (d *Decoder) get(p []byte) error {
	for i := range p {
		b, err := d.src.ReadByte()
		if err != nil {
			return err
		}
		p[i] = b
	}
	return nil
}
