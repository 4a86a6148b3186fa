// Package compress provides byte transports that compress on write and
// decompress on read. The compressed stream carries the encoded values
// unchanged; the codec is unaware of the compression.
package compress

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

type Algorithm uint8

const (
	None Algorithm = iota
	Gzip
	Snappy
	Zstd
	LZ4
	Brotli
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	case Brotli:
		return "brotli"
	default:
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
}

var ErrUnknownAlgorithm = errors.New("compress: unknown algorithm")

// Writer is a Sink that compresses into an underlying io.Writer.
// Close must be called to flush the compressor; it does not close the
// underlying writer.
type Writer struct {
	bw *bufio.Writer
	zw io.WriteCloser
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter returns a compressing Sink writing to w.
func NewWriter(w io.Writer, algo Algorithm) (*Writer, error) {
	var zw io.WriteCloser
	switch algo {
	case None:
		zw = nopWriteCloser{w}
	case Gzip:
		zw = gzip.NewWriter(w)
	case Snappy:
		zw = snappy.NewBufferedWriter(w)
	case Zstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
		zw = enc
	case LZ4:
		zw = lz4.NewWriter(w)
	case Brotli:
		zw = brotli.NewWriterLevel(w, brotli.BestCompression)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, algo)
	}
	return &Writer{bw: bufio.NewWriter(zw), zw: zw}, nil
}

func (w *Writer) WriteByte(c byte) error { return w.bw.WriteByte(c) }

// Flush pushes buffered bytes into the compressor. The compressor itself
// may still hold data until Close.
func (w *Writer) Flush() error { return w.bw.Flush() }

func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		_ = w.zw.Close()
		return err
	}
	return w.zw.Close()
}

// Reader is a Source that decompresses an underlying io.Reader.
type Reader struct {
	br    *bufio.Reader
	close func() error
}

// NewReader returns a decompressing Source reading from r.
func NewReader(r io.Reader, algo Algorithm) (*Reader, error) {
	var (
		zr      io.Reader
		closeFn = func() error { return nil }
	)
	switch algo {
	case None:
		zr = r
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		zr, closeFn = gr, gr.Close
	case Snappy:
		zr = snappy.NewReader(r)
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		zr = dec
		closeFn = func() error { dec.Close(); return nil }
	case LZ4:
		zr = lz4.NewReader(r)
	case Brotli:
		zr = brotli.NewReader(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, algo)
	}
	return &Reader{br: bufio.NewReader(zr), close: closeFn}, nil
}

func (r *Reader) ReadByte() (byte, error) { return r.br.ReadByte() }

// Close releases decompressor resources. The underlying reader is not closed.
func (r *Reader) Close() error { return r.close() }
