package codec

import (
	"fmt"

	"github.com/unkn0wn-root/molstream"
	"github.com/unkn0wn-root/molstream/transport/memory"
)

// Streamable is a pointer type that writes and reads itself with the
// molstream Encoder/Decoder.
type Streamable[T any] interface {
	*T
	molstream.Marshaler
	molstream.Unmarshaler
}

// Stream is a Codec for PT using the molstream wire format. The zero value
// is ready to use:
//
//	var c codec.Stream[material.Material, *material.Material]
type Stream[T any, PT Streamable[T]] struct{}

func (Stream[T, PT]) Encode(v PT) ([]byte, error) {
	buf := memory.New(nil)
	if err := v.MarshalStream(molstream.NewEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads one value and rejects input with bytes left over.
func (Stream[T, PT]) Decode(b []byte) (PT, error) {
	buf := memory.New(b)
	v := PT(new(T))
	if err := v.UnmarshalStream(molstream.NewDecoder(buf)); err != nil {
		return nil, err
	}
	if n := buf.Remaining(); n > 0 {
		return nil, fmt.Errorf("%w: %d", ErrTrailingBytes, n)
	}
	return v, nil
}
