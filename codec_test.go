package molstream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/unkn0wn-root/molstream/transport"
	"github.com/unkn0wn-root/molstream/transport/memory"
)

func pair() (*memory.Buffer, *Encoder, *Decoder) {
	buf := memory.New(nil)
	return buf, NewEncoder(buf), NewDecoder(buf)
}

func mustNil(t *testing.T, what string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", what, err)
	}
}

// ==============================
// Round-trip identity
// ==============================

func TestRoundTripIntegers(t *testing.T) {
	buf, enc, dec := pair()

	i8 := []int8{0, -1, 1, math.MinInt8, math.MaxInt8}
	u8 := []uint8{0, 1, 0x7F, 0x80, math.MaxUint8}
	i16 := []int16{0, -1, math.MinInt16, math.MaxInt16}
	u16 := []uint16{0, 1, 0x0102, math.MaxUint16}
	i32 := []int32{0, -1, math.MinInt32, math.MaxInt32}
	u32 := []uint32{0, 1, 0x01020304, math.MaxUint32}
	i64 := []int64{0, -1, math.MinInt64, math.MaxInt64}
	u64 := []uint64{0, 1, 0x0102030405060708, math.MaxUint64}

	for _, v := range i8 {
		mustNil(t, "Int8", enc.Int8(v, nil))
	}
	for _, v := range u8 {
		mustNil(t, "Uint8", enc.Uint8(v, nil))
	}
	for _, v := range i16 {
		mustNil(t, "Int16", enc.Int16(v, nil))
	}
	for _, v := range u16 {
		mustNil(t, "Uint16", enc.Uint16(v, nil))
	}
	for _, v := range i32 {
		mustNil(t, "Int32", enc.Int32(v, nil))
	}
	for _, v := range u32 {
		mustNil(t, "Uint32", enc.Uint32(v, nil))
	}
	for _, v := range i64 {
		mustNil(t, "Int64", enc.Int64(v, nil))
	}
	for _, v := range u64 {
		mustNil(t, "Uint64", enc.Uint64(v, nil))
	}

	wantLen := len(i8) + len(u8) + 2*(len(i16)+len(u16)) + 4*(len(i32)+len(u32)) + 8*(len(i64)+len(u64))
	if buf.Len() != wantLen {
		t.Fatalf("encoded length: got %d want %d", buf.Len(), wantLen)
	}

	for _, want := range i8 {
		if got, err := dec.Int8(nil); err != nil || got != want {
			t.Fatalf("Int8: got %d err=%v want %d", got, err, want)
		}
	}
	for _, want := range u8 {
		if got, err := dec.Uint8(nil); err != nil || got != want {
			t.Fatalf("Uint8: got %d err=%v want %d", got, err, want)
		}
	}
	for _, want := range i16 {
		if got, err := dec.Int16(nil); err != nil || got != want {
			t.Fatalf("Int16: got %d err=%v want %d", got, err, want)
		}
	}
	for _, want := range u16 {
		if got, err := dec.Uint16(nil); err != nil || got != want {
			t.Fatalf("Uint16: got %d err=%v want %d", got, err, want)
		}
	}
	for _, want := range i32 {
		if got, err := dec.Int32(nil); err != nil || got != want {
			t.Fatalf("Int32: got %d err=%v want %d", got, err, want)
		}
	}
	for _, want := range u32 {
		if got, err := dec.Uint32(nil); err != nil || got != want {
			t.Fatalf("Uint32: got %d err=%v want %d", got, err, want)
		}
	}
	for _, want := range i64 {
		if got, err := dec.Int64(nil); err != nil || got != want {
			t.Fatalf("Int64: got %d err=%v want %d", got, err, want)
		}
	}
	for _, want := range u64 {
		if got, err := dec.Uint64(nil); err != nil || got != want {
			t.Fatalf("Uint64: got %d err=%v want %d", got, err, want)
		}
	}
	if buf.Remaining() != 0 {
		t.Fatalf("decoder left %d bytes", buf.Remaining())
	}
}

func TestRoundTripFloatsBitIdentical(t *testing.T) {
	_, enc, dec := pair()

	f32 := []float32{0, float32(math.Copysign(0, -1)), 1, -1.5, math.MaxFloat32, math.SmallestNonzeroFloat32,
		float32(math.Inf(1)), float32(math.Inf(-1)), float32(math.NaN()), math.Float32frombits(0x7FC00001)}
	f64 := []float64{0, math.Copysign(0, -1), 1, -1.5, math.MaxFloat64, math.SmallestNonzeroFloat64,
		math.Inf(1), math.Inf(-1), math.NaN(), math.Float64frombits(0x7FF8000000000001)}

	for _, v := range f32 {
		mustNil(t, "Float32", enc.Float32(v, nil))
	}
	for _, v := range f64 {
		mustNil(t, "Float64", enc.Float64(v, nil))
	}
	for i, want := range f32 {
		got, err := dec.Float32(nil)
		mustNil(t, "Float32", err)
		if math.Float32bits(got) != math.Float32bits(want) {
			t.Fatalf("float32[%d]: got bits %#x want %#x", i, math.Float32bits(got), math.Float32bits(want))
		}
	}
	for i, want := range f64 {
		got, err := dec.Float64(nil)
		mustNil(t, "Float64", err)
		if math.Float64bits(got) != math.Float64bits(want) {
			t.Fatalf("float64[%d]: got bits %#x want %#x", i, math.Float64bits(got), math.Float64bits(want))
		}
	}
}

func TestFloatIsUintBitPattern(t *testing.T) {
	buf, enc, _ := pair()
	mustNil(t, "Float32", enc.Float32(1, nil))
	mustNil(t, "Float64", enc.Float64(-2, nil))

	want := binary.NativeEndian.AppendUint32(nil, math.Float32bits(1))
	want = binary.NativeEndian.AppendUint64(want, math.Float64bits(-2))
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got %x want %x", buf.Bytes(), want)
	}
}

func TestNativeByteOrder(t *testing.T) {
	buf, enc, _ := pair()
	mustNil(t, "Int16", enc.Int16(-2, nil))
	mustNil(t, "Uint32", enc.Uint32(0x01020304, nil))
	mustNil(t, "Int64", enc.Int64(-1, nil))

	want := binary.NativeEndian.AppendUint16(nil, 0xFFFE)
	want = binary.NativeEndian.AppendUint32(want, 0x01020304)
	want = append(want, bytes.Repeat([]byte{0xFF}, 8)...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got %x want %x", buf.Bytes(), want)
	}
}

func TestRoundTripStrings(t *testing.T) {
	buf, enc, dec := pair()
	cases := []string{"", "abc", "héllo, 世界", "a b\tc\n"}
	for _, s := range cases {
		mustNil(t, "String", enc.String(s, nil))
	}
	wantLen := 0
	for _, s := range cases {
		wantLen += len(s) + 1
	}
	if buf.Len() != wantLen {
		t.Fatalf("encoded length: got %d want %d", buf.Len(), wantLen)
	}
	for _, want := range cases {
		if got, err := dec.String(nil); err != nil || got != want {
			t.Fatalf("String: got %q err=%v want %q", got, err, want)
		}
	}
}

func TestStringWireLayout(t *testing.T) {
	buf, enc, _ := pair()
	mustNil(t, "String", enc.String("abc", nil))
	if !bytes.Equal(buf.Bytes(), []byte{'a', 'b', 'c', 0}) {
		t.Fatalf("got %x", buf.Bytes())
	}
}

// ==============================
// Variable precision integers
// ==============================

func TestPrecisionWidthSelection(t *testing.T) {
	cases := []struct {
		precision int
		value     int
		width     int
	}{
		{1, -1, 1},
		{1, 100, 1},
		{8, math.MinInt8, 1},
		{8, math.MaxInt8, 1},
		{9, 300, 2},
		{16, math.MinInt16, 2},
		{16, math.MaxInt16, 2},
		{17, 70000, 4},
		{32, math.MinInt32, 4},
		{32, math.MaxInt32, 4},
		{0, -5, 1},
		{64, -70000, 4},
	}
	for _, tc := range cases {
		buf, enc, dec := pair()
		mustNil(t, "Int", enc.Int(tc.value, tc.precision, nil))
		if buf.Len() != tc.width || IntWidth(tc.precision) != tc.width {
			t.Fatalf("p=%d: width got %d (IntWidth %d) want %d", tc.precision, buf.Len(), IntWidth(tc.precision), tc.width)
		}
		got, err := dec.Int(tc.precision, nil)
		mustNil(t, "Int", err)
		if got != tc.value {
			t.Fatalf("p=%d: got %d want %d", tc.precision, got, tc.value)
		}
	}
}

func TestPrecisionTruncates(t *testing.T) {
	cases := []struct {
		precision int
		value     int
		want      int
	}{
		{8, 300, 44},        // 0x12C -> 0x2C
		{8, 200, -56},       // 0xC8 as int8
		{8, -129, 127},      // 0xFF7F -> 0x7F
		{16, 70000, 4464},   // 0x11170 -> 0x1170
		{16, 40000, -25536}, // 0x9C40 as int16
	}
	for _, tc := range cases {
		_, enc, dec := pair()
		mustNil(t, "Int", enc.Int(tc.value, tc.precision, nil))
		got, err := dec.Int(tc.precision, nil)
		mustNil(t, "Int", err)
		if got != tc.want {
			t.Fatalf("Int(%d, p=%d): got %d want %d", tc.value, tc.precision, got, tc.want)
		}
	}
}

func TestPrecisionMatchesFixedWidth(t *testing.T) {
	buf, enc, dec := pair()
	mustNil(t, "Int", enc.Int(-2, 16, nil))
	want := binary.NativeEndian.AppendUint16(nil, 0xFFFE)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got %x want %x", buf.Bytes(), want)
	}
	if v, err := dec.Int16(nil); err != nil || v != -2 {
		t.Fatalf("Int16 read of Int(p=16): got %d err=%v", v, err)
	}
}

// ==============================
// Booleans
// ==============================

func TestBoolSentinels(t *testing.T) {
	buf, enc, _ := pair()
	mustNil(t, "Bool", enc.Bool(true, nil))
	mustNil(t, "Bool", enc.Bool(false, nil))
	if !bytes.Equal(buf.Bytes(), []byte{0xFF, 0x00}) {
		t.Fatalf("got %x want ff00", buf.Bytes())
	}
}

func TestBoolReaderIsPermissive(t *testing.T) {
	for _, b := range []byte{0x01, 0x7F, 0x80, 0xFE, 0xFF} {
		dec := NewDecoder(memory.New([]byte{b}))
		if v, err := dec.Bool(nil); err != nil || !v {
			t.Fatalf("byte %#x: got %v err=%v want true", b, v, err)
		}
	}
	dec := NewDecoder(memory.New([]byte{0x00}))
	if v, err := dec.Bool(nil); err != nil || v {
		t.Fatalf("byte 0x00: got %v err=%v want false", v, err)
	}
}

// ==============================
// Raw byte ranges
// ==============================

func TestBytesZeroLengthNoTransportCalls(t *testing.T) {
	buf := memory.New(nil)
	w := &transport.CountingSink{S: buf}
	r := &transport.CountingSource{S: buf}

	mustNil(t, "Bytes write", NewEncoder(w).Bytes(nil, nil))
	mustNil(t, "Bytes read", NewDecoder(r).Bytes([]byte{}, nil))
	if w.Calls != 0 || r.Calls != 0 {
		t.Fatalf("expected no transport calls, got write=%d read=%d", w.Calls, r.Calls)
	}
}

func TestBytesPassThrough(t *testing.T) {
	buf, enc, dec := pair()
	in := make([]byte, 257)
	for i := range in {
		in[i] = byte(i * 7)
	}
	mustNil(t, "Bytes", enc.Bytes(in, nil))
	if !bytes.Equal(buf.Bytes(), in) {
		t.Fatalf("raw range must not be framed")
	}
	out := make([]byte, len(in))
	mustNil(t, "Bytes", dec.Bytes(out, nil))
	if !bytes.Equal(out, in) {
		t.Fatalf("payload mismatch")
	}
}

// ==============================
// Terminator discipline / transport failures
// ==============================

func TestStringCorruptTerminatorReadsUntilTransportFails(t *testing.T) {
	buf, enc, dec := pair()
	mustNil(t, "String", enc.String("abc", nil))
	mustNil(t, "Bytes", enc.Bytes([]byte("def"), nil))

	raw := buf.Bytes()
	raw[3] = 'X' // overwrite the terminator

	_, err := dec.String(nil)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF from transport, got %v", err)
	}
	if buf.Pos() != buf.Len() {
		t.Fatalf("decoder should consume everything: pos=%d len=%d", buf.Pos(), buf.Len())
	}
}

func TestStringLimitGuard(t *testing.T) {
	src := transport.Limit(memory.New(bytes.Repeat([]byte{'a'}, 100)), 16)
	_, err := NewDecoder(src).String(nil)
	if !errors.Is(err, transport.ErrLimit) {
		t.Fatalf("expected ErrLimit, got %v", err)
	}
}

var errSinkBroken = errors.New("sink broken")

type failingSink struct{ after int }

func (f *failingSink) WriteByte(byte) error {
	if f.after == 0 {
		return errSinkBroken
	}
	f.after--
	return nil
}

func TestTransportErrorsPropagate(t *testing.T) {
	enc := NewEncoder(&failingSink{after: 2})
	if err := enc.Uint64(1, nil); !errors.Is(err, errSinkBroken) {
		t.Fatalf("Uint64: expected sink error, got %v", err)
	}
	if err := enc.String("x", nil); !errors.Is(err, errSinkBroken) {
		t.Fatalf("String: expected sink error, got %v", err)
	}

	dec := NewDecoder(memory.New([]byte{1, 2, 3}))
	if v, err := dec.Uint32(nil); !errors.Is(err, io.EOF) || v != 0 {
		t.Fatalf("Uint32 on short data: got %d err=%v", v, err)
	}
	if _, err := dec.Float64(nil); !errors.Is(err, io.EOF) {
		t.Fatalf("Float64 on empty data: got %v", err)
	}
	if _, err := dec.Bool(nil); !errors.Is(err, io.EOF) {
		t.Fatalf("Bool on empty data: got %v", err)
	}
}

func TestTypeMismatchIsSilent(t *testing.T) {
	_, enc, dec := pair()
	mustNil(t, "Int", enc.Int(-1, 32, nil))
	// Reading with a narrower precision consumes 1 byte and succeeds.
	v, err := dec.Int(8, nil)
	if err != nil {
		t.Fatalf("mismatched read must not error: %v", err)
	}
	if v != -1 {
		t.Fatalf("got %d; first byte of -1 is 0xFF in either order", v)
	}
}

// ==============================
// End-to-end
// ==============================

func TestEndToEndScenario(t *testing.T) {
	buf := memory.New(nil)
	w := &transport.CountingSink{S: buf}
	enc := NewEncoder(w)
	mustNil(t, "Int32", enc.Int32(-1, nil))
	mustNil(t, "Float32", enc.Float32(1.0, nil))
	mustNil(t, "String", enc.String("ok", nil))
	if w.N != 11 || buf.Len() != 11 {
		t.Fatalf("write cursor advanced %d (len %d), want 11", w.N, buf.Len())
	}

	dec := NewDecoder(buf)
	i, err := dec.Int32(nil)
	mustNil(t, "Int32", err)
	f, err := dec.Float32(nil)
	mustNil(t, "Float32", err)
	s, err := dec.String(nil)
	mustNil(t, "String", err)
	if i != -1 || f != 1.0 || s != "ok" {
		t.Fatalf("got %d %v %q", i, f, s)
	}
	if buf.Pos() != 11 {
		t.Fatalf("read cursor at %d, want 11", buf.Pos())
	}
}

// ==============================
// Tags
// ==============================

type seen struct {
	op   Op
	kind Kind
	tag  *Tag
}

type observingBuffer struct {
	*memory.Buffer
	events []seen
}

func (o *observingBuffer) ObserveTag(op Op, kind Kind, tag *Tag) {
	o.events = append(o.events, seen{op, kind, tag})
}

func TestTagForwardedUnchanged(t *testing.T) {
	ob := &observingBuffer{Buffer: memory.New(nil)}
	tag := &Tag{Name: "roughness", Unit: "ratio", Attrs: map[string]string{"min": "0"}}

	enc := NewEncoder(ob)
	mustNil(t, "Bool", enc.Bool(true, tag))
	mustNil(t, "Float32", enc.Float32(0.5, tag))
	mustNil(t, "Int", enc.Int(3, 8, nil))

	dec := NewDecoder(ob)
	_, _ = dec.Bool(tag)
	_, _ = dec.Float32(tag)
	_, _ = dec.Int(8, nil)

	want := []seen{
		{OpWrite, KindBool, tag},
		{OpWrite, KindFloat32, tag},
		{OpWrite, KindInt, nil},
		{OpRead, KindBool, tag},
		{OpRead, KindFloat32, tag},
		{OpRead, KindInt, nil},
	}
	if len(ob.events) != len(want) {
		t.Fatalf("events: got %d want %d (%v)", len(ob.events), len(want), ob.events)
	}
	for i := range want {
		if ob.events[i] != want[i] {
			t.Fatalf("event %d: got %+v want %+v", i, ob.events[i], want[i])
		}
	}
	if tag.Name != "roughness" || tag.Attrs["min"] != "0" || len(tag.Attrs) != 1 {
		t.Fatalf("tag was mutated: %+v", tag)
	}
}

type marshalPoint struct{ X, Y float32 }

func (p *marshalPoint) MarshalStream(e *Encoder) error {
	if err := e.Float32(p.X, nil); err != nil {
		return err
	}
	return e.Float32(p.Y, nil)
}

func (p *marshalPoint) UnmarshalStream(d *Decoder) error {
	var err error
	if p.X, err = d.Float32(nil); err != nil {
		return err
	}
	p.Y, err = d.Float32(nil)
	return err
}

func TestMarshalerComposition(t *testing.T) {
	buf, enc, dec := pair()
	mustNil(t, "Encode", enc.Encode(&marshalPoint{X: 1, Y: -2}))
	if buf.Len() != 8 {
		t.Fatalf("got %d bytes want 8", buf.Len())
	}
	var p marshalPoint
	mustNil(t, "Decode", dec.Decode(&p))
	if p.X != 1 || p.Y != -2 {
		t.Fatalf("got %+v", p)
	}
}
