// Package transport holds wrappers shared by every byte transport: a read
// limit (the external guard for unterminated strings) and call counters.
//
// Concrete transports live in the sub-packages memory, stream, compress and
// websocket.
package transport

import (
	"errors"
	"io"
)

var ErrLimit = errors.New("transport: read limit exceeded")

// LimitedSource fails with ErrLimit once N bytes were read from it.
type LimitedSource struct {
	S io.ByteReader
	N int64 // bytes still allowed
}

// Limit returns a Source that reads at most n bytes from s.
func Limit(s io.ByteReader, n int64) *LimitedSource {
	return &LimitedSource{S: s, N: n}
}

func (l *LimitedSource) ReadByte() (byte, error) {
	if l.N <= 0 {
		return 0, ErrLimit
	}
	c, err := l.S.ReadByte()
	if err != nil {
		return 0, err
	}
	l.N--
	return c, nil
}

// CountingSink counts calls and successfully written bytes.
type CountingSink struct {
	S     io.ByteWriter
	Calls int
	N     int64
}

func (c *CountingSink) WriteByte(b byte) error {
	c.Calls++
	if err := c.S.WriteByte(b); err != nil {
		return err
	}
	c.N++
	return nil
}

// CountingSource counts calls and successfully read bytes.
type CountingSource struct {
	S     io.ByteReader
	Calls int
	N     int64
}

func (c *CountingSource) ReadByte() (byte, error) {
	c.Calls++
	b, err := c.S.ReadByte()
	if err != nil {
		return 0, err
	}
	c.N++
	return b, nil
}
