// Package codec turns whole values into []byte for storage providers.
// Stream uses the molstream binary format; the others delegate to
// general purpose serialisers.
package codec

import "errors"

var (
	ErrTrailingBytes = errors.New("codec: trailing bytes after value")
	ErrTooLarge      = errors.New("codec: payload too large")
)

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
