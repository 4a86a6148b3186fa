package util

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// HashKey returns "<prefix>:<16 hex digits>".
func HashKey(prefix string, h uint64) string {
	return fmt.Sprintf("%s:%016x", prefix, h)
}

// BulkKeySorted returns a deterministic composite key for a set of hashes.
// hashes must be sorted ascending and deduplicated.
func BulkKeySorted(prefix string, hashes []uint64) string {
	d := sha256.New()
	var u8 [8]byte
	for _, h := range hashes {
		binary.BigEndian.PutUint64(u8[:], h)
		d.Write(u8[:])
	}
	sum := d.Sum(nil)
	return fmt.Sprintf("%s:%x", prefix, sum[:8]) // prefix + ":" + first 16 hex chars
}
