// Package molstream implements a typed binary stream codec: an Encoder that
// turns primitive values into single-byte writes on a Sink, and a Decoder
// that reads them back from a Source.
//
// Components:
//   - Sink / Source: byte transport with an implicit cursor (io.ByteWriter /
//     io.ByteReader). Supplied by the caller (memory, file, socket).
//   - Encoder / Decoder: fixed encoding per type, no framing, no tagging.
//   - Tag: opaque per-field metadata forwarded to transports that implement
//     TagObserver. The codec never looks inside it.
//
// Wire format (host byte order):
//
//	uint8/int8    1 byte
//	uint16/int16  2 bytes
//	uint32/int32  4 bytes
//	uint64/int64  8 bytes
//	float32       IEEE-754 bits as uint32
//	float64       IEEE-754 bits as uint64
//	bool          0xFF | 0x00 (reader accepts any non-zero byte as true)
//	string        bytes | 0x00
//	bytes         len(p) raw bytes
//	Int(v, p)     int32 if p > 16, int16 if p > 8, else int8
//
// The format is not self-describing. A value must be read back with the
// same type (and precision) it was written with; a mismatch is not detected.
//
// Typical use:
//
//	buf := memory.New(nil)
//	enc := molstream.NewEncoder(buf)
//	_ = enc.Int32(-1, nil)
//	_ = enc.Float32(1, nil)
//	_ = enc.String("ok", nil)
//
//	dec := molstream.NewDecoder(buf)
//	i, _ := dec.Int32(nil)
//	f, _ := dec.Float32(nil)
//	s, _ := dec.String(nil)
package molstream
