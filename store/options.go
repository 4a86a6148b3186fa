package store

import (
	"time"

	"github.com/unkn0wn-root/molstream"
	c "github.com/unkn0wn-root/molstream/codec"
	pr "github.com/unkn0wn-root/molstream/provider"
)

// SetCostFunc returns the cost passed to Provider.Set for one entry.
type SetCostFunc func(key string, raw []byte, isBulk bool, bulkCount int) int64

// Options configure a Store. Namespace, Provider and Codec are required.
type Options[V any] struct {
	Namespace string // isolates keys, e.g. "material"
	Provider  pr.Provider
	Codec     c.Codec[V]

	Logger         molstream.Logger // if nil, NopLogger is used
	DefaultTTL     time.Duration    // singles; 0 => no expiry
	BulkTTL        time.Duration    // bulks; 0 => DefaultTTL
	ComputeSetCost SetCostFunc      // default 1
	Disabled       bool             // every read misses, every write is dropped
}
