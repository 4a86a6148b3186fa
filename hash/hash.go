// Package hash names materials and variables by a 64-bit digest of their
// UTF-8 name. Equal names always produce equal hashes, in every process.
package hash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hash is the xxhash64 of a name.
type Hash uint64

// Of returns the hash of s.
func Of(s string) Hash { return Hash(xxhash.Sum64String(s)) }

// OfBytes returns the hash of b. It matches Of(string(b)).
func OfBytes(b []byte) Hash { return Hash(xxhash.Sum64(b)) }

// String returns h as 16 lower-case hex digits.
func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// Sorted is a slice of hashes ordered ascending.
type Sorted []Hash

func (s Sorted) Len() int           { return len(s) }
func (s Sorted) Less(i, j int) bool { return s[i] < s[j] }
func (s Sorted) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
