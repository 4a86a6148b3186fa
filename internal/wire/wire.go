// Package wire frames stored payloads. The molstream codec has no magic,
// version or length of its own; entries written to a provider get them here.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version    byte = 1
	kindSingle byte = 1
	kindBulk   byte = 2
)

var (
	ErrCorrupt = errors.New("molstream: corrupt entry")
	ErrTooLong = errors.New("molstream: payload too long for entry")
	magic4     = [...]byte{'M', 'O', 'L', 'S'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

const maxPayload = 0xFFFFFFFF

// Single: magic(4) | ver(1) | kind(1=single) | hash(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeSingle(hash uint64, payload []byte) ([]byte, error) {
	if uint64(len(payload)) > maxPayload {
		return nil, ErrTooLong
	}
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindSingle)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], hash)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes(), nil
}

// DecodeSingle returns the payload as a sub-slice of b (no copy).
func DecodeSingle(b []byte) (hash uint64, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindSingle {
		return 0, nil, ErrCorrupt
	}

	off := 6
	hash = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off { // exact: no truncation, no trailing bytes
		return 0, nil, ErrCorrupt
	}

	return hash, b[off : off+vlen], nil
}

// Bulk:
//
//	magic(4) | ver(1) | kind(2=bulk) | n(u32 be)
//	hash(u64 be) | vlen(u32 be) | payload(vlen) * n
type BulkItem struct {
	Hash    uint64
	Payload []byte
}

func EncodeBulk(items []BulkItem) ([]byte, error) {
	total := 4 + 1 + 1 + 4
	for _, it := range items {
		if uint64(len(it.Payload)) > maxPayload {
			return nil, ErrTooLong
		}
		total += 8 + 4 + len(it.Payload)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBulk)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint32(u4[:], uint32(len(items)))
	buf.Write(u4[:])

	for _, it := range items {
		binary.BigEndian.PutUint64(u8[:], it.Hash)
		buf.Write(u8[:])

		binary.BigEndian.PutUint32(u4[:], uint32(len(it.Payload)))
		buf.Write(u4[:])
		buf.Write(it.Payload)
	}

	return buf.Bytes(), nil
}

func DecodeBulk(b []byte) ([]BulkItem, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindBulk {
		return nil, ErrCorrupt
	}

	off := 6
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// every item needs at least 12 bytes; reject absurd counts before allocating
	if n < 0 || n > (len(b)-off)/12 {
		return nil, ErrCorrupt
	}

	items := make([]BulkItem, 0, n)
	for i := 0; i < n; i++ {
		if off+12 > len(b) {
			return nil, ErrCorrupt
		}
		hash := binary.BigEndian.Uint64(b[off : off+8])
		off += 8

		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return nil, ErrCorrupt
		}

		items = append(items, BulkItem{Hash: hash, Payload: b[off : off+vlen]})
		off += vlen
	}
	if off != len(b) {
		return nil, ErrCorrupt
	}

	return items, nil
}
