package material

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/unkn0wn-root/molstream"
	"github.com/unkn0wn-root/molstream/hash"
	"github.com/unkn0wn-root/molstream/transport/memory"
)

func sampleMaterial() *Material {
	m := New("brick")
	m.Set("diffuseColor", Vec3Var(0.5, 0.25, 0.125))
	m.Set("shininess", FloatVar(32))
	m.Set("illuminationModel", IntVar(-2))
	m.Set("twoSided", BoolVar(true))
	m.Set("shader", StringVar("phong"))
	m.Set("diffuseTexture", TextureVar("brick.png"))
	m.Set("tint", Vec4Var(1, 1, 1, 0.5))
	m.Set("uv", Vec2Var(2, 2))
	return m
}

func TestMaterialStreamRoundTrip(t *testing.T) {
	in := sampleMaterial()
	buf := memory.New(nil)
	if err := molstream.NewEncoder(buf).Encode(in); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out := new(Material)
	if err := molstream.NewDecoder(buf).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if buf.Remaining() != 0 {
		t.Fatalf("%d bytes left", buf.Remaining())
	}
	if out.Name != in.Name || out.Hash != in.Hash || out.Len() != in.Len() {
		t.Fatalf("header mismatch: %+v", out)
	}
	for _, h := range in.Keys() {
		want, _ := in.Lookup(h)
		got, ok := out.Lookup(h)
		if !ok || got != want {
			t.Fatalf("%s: got %v want %v", in.KeyName(h), got, want)
		}
		if out.KeyName(h) != in.KeyName(h) {
			t.Fatalf("name lost for %s", h)
		}
	}
}

func TestMaterialEncodingIsDeterministic(t *testing.T) {
	a, b := memory.New(nil), memory.New(nil)
	if err := molstream.NewEncoder(a).Encode(sampleMaterial()); err != nil {
		t.Fatal(err)
	}
	if err := molstream.NewEncoder(b).Encode(sampleMaterial()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("equal materials encoded differently")
	}
}

func TestMaterialLayout(t *testing.T) {
	m := New("m")
	m.Set("k", FloatVar(1))

	buf := memory.New(nil)
	if err := molstream.NewEncoder(buf).Encode(m); err != nil {
		t.Fatal(err)
	}

	ne := binary.NativeEndian
	var want []byte
	want = append(want, 'm', 0)
	want = ne.AppendUint32(want, 1)
	want = ne.AppendUint64(want, uint64(hash.Of("k")))
	want = append(want, 'k', 0, byte(KindFloat))
	want = ne.AppendUint32(want, math.Float32bits(1))
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("layout mismatch:\n got %x\nwant %x", buf.Bytes(), want)
	}
}

func TestMaterialDecodeErrors(t *testing.T) {
	buf := memory.New(nil)
	if err := molstream.NewEncoder(buf).Encode(sampleMaterial()); err != nil {
		t.Fatal(err)
	}
	full := buf.Bytes()

	// truncated stream surfaces the transport error
	err := molstream.NewDecoder(memory.New(full[:len(full)-1])).Decode(new(Material))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}

	// unknown variable kind
	bad := memory.New(nil)
	e := molstream.NewEncoder(bad)
	_ = e.String("m", nil)
	_ = e.Int(1, 32, nil)
	_ = e.Uint64(uint64(hash.Of("k")), nil)
	_ = e.String("k", nil)
	_ = e.Uint8(200, nil)
	if err := molstream.NewDecoder(bad).Decode(new(Material)); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData for kind, got %v", err)
	}

	// name that does not hash to its key
	bad = memory.New(nil)
	e = molstream.NewEncoder(bad)
	_ = e.String("m", nil)
	_ = e.Int(1, 32, nil)
	_ = e.Uint64(1, nil)
	_ = e.String("k", nil)
	_ = e.Uint8(uint8(KindBool), nil)
	_ = e.Bool(true, nil)
	if err := molstream.NewDecoder(bad).Decode(new(Material)); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData for key, got %v", err)
	}

	// negative count
	bad = memory.New(nil)
	e = molstream.NewEncoder(bad)
	_ = e.String("m", nil)
	_ = e.Int(-1, 32, nil)
	if err := molstream.NewDecoder(bad).Decode(new(Material)); !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData for count, got %v", err)
	}
}

func TestSetHashKeepsNamelessVariables(t *testing.T) {
	m := New("m")
	m.SetHash(42, IntVar(7))

	buf := memory.New(nil)
	if err := molstream.NewEncoder(buf).Encode(m); err != nil {
		t.Fatal(err)
	}
	out := new(Material)
	if err := molstream.NewDecoder(buf).Decode(out); err != nil {
		t.Fatal(err)
	}
	if v, ok := out.Lookup(42); !ok || v != IntVar(7) || out.KeyName(42) != "" {
		t.Fatalf("got %v ok=%v name=%q", v, ok, out.KeyName(42))
	}
}
