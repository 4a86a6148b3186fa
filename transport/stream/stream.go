// Package stream adapts io.Writer / io.Reader (files, sockets, pipes) into
// buffered byte transports.
package stream

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// Writer is a buffered Sink over an io.Writer. Bytes reach the underlying
// writer on Flush or Close.
type Writer struct {
	bw *bufio.Writer
	c  io.Closer // nil if the underlying writer is not ours to close
}

// NewWriter buffers w. Close closes w only if it implements io.Closer.
func NewWriter(w io.Writer) *Writer {
	c, _ := w.(io.Closer)
	return &Writer{bw: bufio.NewWriter(w), c: c}
}

func (w *Writer) WriteByte(c byte) error { return w.bw.WriteByte(c) }

// Write lets io.Writer based producers share the same buffer.
func (w *Writer) Write(p []byte) (int, error) { return w.bw.Write(p) }

func (w *Writer) Flush() error { return w.bw.Flush() }

// Close flushes and closes the underlying writer when it is closable.
func (w *Writer) Close() error {
	ferr := w.bw.Flush()
	if w.c == nil {
		return ferr
	}
	return errors.Join(ferr, w.c.Close())
}

// Reader is a buffered Source over an io.Reader.
type Reader struct {
	br *bufio.Reader
	c  io.Closer
}

func NewReader(r io.Reader) *Reader {
	c, _ := r.(io.Closer)
	return &Reader{br: bufio.NewReader(r), c: c}
}

func (r *Reader) ReadByte() (byte, error) { return r.br.ReadByte() }

func (r *Reader) Read(p []byte) (int, error) { return r.br.Read(p) }

func (r *Reader) Close() error {
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}

// Create opens path for writing (truncating it) and returns a file transport.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewWriter(f), nil
}

// Open opens path for reading and returns a file transport.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(f), nil
}
