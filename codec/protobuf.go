package codec

import "google.golang.org/protobuf/proto"

// Protobuf is a Codec for generated protobuf messages. Encoding is
// deterministic so equal messages store equal bytes.
type Protobuf[T proto.Message] struct {
	ctor func() T // e.g. func() *mypb.Material { return &mypb.Material{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{ctor: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.ctor()
	if err := proto.Unmarshal(b, m); err != nil {
		var zero T
		return zero, err
	}
	return m, nil
}
