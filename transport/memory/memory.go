// Package memory provides an in-memory byte transport.
package memory

import (
	"errors"
	"io"
)

var ErrSeek = errors.New("memory: seek out of range")

// Buffer is a growable byte slice with an append-only write side and an
// independent read cursor. It implements molstream.Sink and molstream.Source
// (io.ByteWriter / io.ByteReader). The zero value is an empty buffer ready
// to use. Not safe for concurrent use.
type Buffer struct {
	b   []byte
	off int // read cursor
}

// New returns a Buffer whose contents are b. Reading starts at b[0];
// writes append after len(b). The Buffer takes ownership of b.
func New(b []byte) *Buffer { return &Buffer{b: b} }

func (m *Buffer) WriteByte(c byte) error {
	m.b = append(m.b, c)
	return nil
}

// Write appends p. Provided so a Buffer can also back io.Writer based code.
func (m *Buffer) Write(p []byte) (int, error) {
	m.b = append(m.b, p...)
	return len(p), nil
}

// ReadByte returns io.EOF once the cursor reaches the end of written data.
func (m *Buffer) ReadByte() (byte, error) {
	if m.off >= len(m.b) {
		return 0, io.EOF
	}
	c := m.b[m.off]
	m.off++
	return c, nil
}

// Pos is the read cursor.
func (m *Buffer) Pos() int { return m.off }

// Len is the number of bytes written so far.
func (m *Buffer) Len() int { return len(m.b) }

// Remaining is the number of unread bytes.
func (m *Buffer) Remaining() int { return len(m.b) - m.off }

// Bytes returns the written data (aliasing the internal slice).
func (m *Buffer) Bytes() []byte { return m.b }

// Seek moves the read cursor to pos, 0 <= pos <= Len().
func (m *Buffer) Seek(pos int) error {
	if pos < 0 || pos > len(m.b) {
		return ErrSeek
	}
	m.off = pos
	return nil
}

// Reset drops all data and rewinds the cursor, keeping the capacity.
func (m *Buffer) Reset() {
	m.b = m.b[:0]
	m.off = 0
}
