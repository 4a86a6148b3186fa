// Package store persists codec-encoded values in a provider.Provider under
// their name hash. Entries are framed by internal/wire so that corrupt or
// foreign bytes are detected and deleted on read.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/unkn0wn-root/molstream"
	c "github.com/unkn0wn-root/molstream/codec"
	"github.com/unkn0wn-root/molstream/hash"
	"github.com/unkn0wn-root/molstream/internal/util"
	"github.com/unkn0wn-root/molstream/internal/wire"
	pr "github.com/unkn0wn-root/molstream/provider"
)

// Store is safe for concurrent use when its Provider is.
type Store[V any] struct {
	ns             string
	provider       pr.Provider
	codec          c.Codec[V]
	log            molstream.Logger
	enabled        bool
	defaultTTL     time.Duration
	bulkTTL        time.Duration
	computeSetCost SetCostFunc

	mu    sync.Mutex
	bulks map[hash.Hash]map[string]struct{} // hash -> bulk keys written by this Store that contain it
}

func New[V any](opts Options[V]) (*Store[V], error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("molstream: provider is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("molstream: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("molstream: namespace is required")
	}

	s := &Store[V]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		enabled:  !opts.Disabled,
		bulks:    make(map[hash.Hash]map[string]struct{}),
	}

	s.log = util.Coalesce[molstream.Logger](opts.Logger, molstream.NopLogger{})
	s.defaultTTL = opts.DefaultTTL
	s.bulkTTL = util.Coalesce(opts.BulkTTL, opts.DefaultTTL)

	if opts.ComputeSetCost != nil {
		s.computeSetCost = opts.ComputeSetCost
	} else {
		s.computeSetCost = func(_ string, _ []byte, _ bool, _ int) int64 { return 1 }
	}
	return s, nil
}

func (s *Store[V]) Enabled() bool { return s.enabled }

// Close closes the provider.
func (s *Store[V]) Close(ctx context.Context) error {
	s.mu.Lock()
	s.bulks = make(map[hash.Hash]map[string]struct{})
	s.mu.Unlock()
	return s.provider.Close(ctx)
}

// Get returns the value stored under h. Entries that fail to decode or
// carry a different hash are deleted and reported as a miss.
func (s *Store[V]) Get(ctx context.Context, h hash.Hash) (V, bool, error) {
	var zero V
	if !s.enabled {
		return zero, false, nil
	}
	k := s.singleKey(h)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	got, payload, err := wire.DecodeSingle(raw)
	if err != nil {
		s.heal(ctx, k, "corrupt entry", err)
		return zero, false, nil
	}
	if hash.Hash(got) != h {
		s.heal(ctx, k, "hash mismatch", nil)
		return zero, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.heal(ctx, k, "decode failed", err)
		return zero, false, nil
	}
	return v, true, nil
}

// Put stores v under h. ttl 0 uses Options.DefaultTTL.
func (s *Store[V]) Put(ctx context.Context, h hash.Hash, v V, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	payload, err := s.codec.Encode(v)
	if err != nil {
		return err
	}
	wireb, err := wire.EncodeSingle(uint64(h), payload)
	if err != nil {
		return err
	}
	k := s.singleKey(h)
	ok, err := s.provider.Set(ctx, k, wireb, s.computeSetCost(k, wireb, false, 1), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("Put rejected by provider (pressure)", molstream.Fields{"hash": h.String()})
	}
	return nil
}

// Delete removes h and every bulk entry this Store wrote that contains it.
func (s *Store[V]) Delete(ctx context.Context, h hash.Hash) error {
	if !s.enabled {
		return nil
	}
	singleErr := s.provider.Del(ctx, s.singleKey(h))

	s.mu.Lock()
	keys := s.bulks[h]
	delete(s.bulks, h)
	for bk := range keys {
		for other, set := range s.bulks {
			delete(set, bk)
			if len(set) == 0 {
				delete(s.bulks, other)
			}
		}
	}
	s.mu.Unlock()

	var bulkErrs []error
	for bk := range keys {
		if err := s.provider.Del(ctx, bk); err != nil {
			bulkErrs = append(bulkErrs, err)
		}
	}

	if singleErr != nil || len(bulkErrs) > 0 {
		return &DeleteError{Hash: h, SingleErr: singleErr, BulkErr: errors.Join(bulkErrs...)}
	}
	s.log.Debug("deleted entry", molstream.Fields{"hash": h.String(), "bulks": len(keys)})
	return nil
}

// GetBulk returns the values stored for hs and the hashes that missed, in
// the order given, each at most once. A bulk entry for exactly this set of hashes is tried
// first; when it is absent or unusable each hash is read on its own.
func (s *Store[V]) GetBulk(ctx context.Context, hs []hash.Hash) (map[hash.Hash]V, []hash.Hash, error) {
	out := make(map[hash.Hash]V, len(hs))
	if !s.enabled {
		missing := make([]hash.Hash, 0, len(hs))
		missing = append(missing, hs...)
		return out, missing, nil
	}
	if len(hs) == 0 {
		return out, nil, nil
	}

	sorted := sortedUnique(hs)
	bk := s.bulkKeySorted(sorted)
	if raw, ok, err := s.provider.Get(ctx, bk); err == nil && ok {
		if byHash, ok := s.decodeBulk(raw, sorted); ok {
			var missing []hash.Hash
			for _, h := range hs {
				if v, ok := byHash[h]; ok {
					out[h] = v
				} else {
					missing = append(missing, h)
				}
			}
			return out, missing, nil
		}
		s.heal(ctx, bk, "corrupt bulk", nil)
	}

	var missing []hash.Hash
	seen := make(map[hash.Hash]struct{}, len(hs))
	for _, h := range hs {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		v, ok, err := s.Get(ctx, h)
		if err != nil {
			return out, nil, err
		}
		if ok {
			out[h] = v
		} else {
			missing = append(missing, h)
		}
	}
	return out, missing, nil
}

// PutBulk stores items as one bulk entry and seeds a single entry for each.
// If the provider rejects the bulk entry only the singles are written.
func (s *Store[V]) PutBulk(ctx context.Context, items map[hash.Hash]V, ttl time.Duration) error {
	if !s.enabled || len(items) == 0 {
		return nil
	}
	if ttl == 0 {
		ttl = s.bulkTTL
	}

	hs := make([]hash.Hash, 0, len(items))
	for h := range items {
		hs = append(hs, h)
	}
	sort.Sort(hash.Sorted(hs))

	wireItems := make([]wire.BulkItem, 0, len(items))
	for _, h := range hs {
		payload, err := s.codec.Encode(items[h])
		if err != nil {
			return err
		}
		wireItems = append(wireItems, wire.BulkItem{Hash: uint64(h), Payload: payload})
	}
	wireb, err := wire.EncodeBulk(wireItems)
	if err != nil {
		return err
	}

	bk := s.bulkKeySorted(hs)
	ok, err := s.provider.Set(ctx, bk, wireb, s.computeSetCost(bk, wireb, true, len(items)), ttl)
	if err != nil {
		return err
	}
	if ok {
		s.mu.Lock()
		for _, h := range hs {
			set := s.bulks[h]
			if set == nil {
				set = make(map[string]struct{})
				s.bulks[h] = set
			}
			set[bk] = struct{}{}
		}
		s.mu.Unlock()
	} else {
		s.log.Debug("bulk Put rejected; seeding singles", molstream.Fields{"bulkKey": bk})
	}

	for _, h := range hs {
		if err := s.Put(ctx, h, items[h], s.defaultTTL); err != nil {
			return err
		}
	}
	return nil
}

// decodeBulk accepts a bulk entry only if it holds exactly the requested
// hashes and every payload decodes.
func (s *Store[V]) decodeBulk(raw []byte, sorted []hash.Hash) (map[hash.Hash]V, bool) {
	items, err := wire.DecodeBulk(raw)
	if err != nil || len(items) != len(sorted) {
		return nil, false
	}
	byHash := make(map[hash.Hash]V, len(items))
	for i, it := range items {
		if hash.Hash(it.Hash) != sorted[i] {
			return nil, false
		}
		v, err := s.codec.Decode(it.Payload)
		if err != nil {
			return nil, false
		}
		byHash[sorted[i]] = v
	}
	return byHash, true
}

func (s *Store[V]) heal(ctx context.Context, key, reason string, cause error) {
	f := molstream.Fields{"key": key, "reason": reason}
	if cause != nil {
		f["err"] = cause
	}
	if err := s.provider.Del(ctx, key); err != nil {
		f["delErr"] = err
	}
	s.log.Warn("dropped unreadable entry", f)
}

func (s *Store[V]) singleKey(h hash.Hash) string {
	return util.HashKey("single:"+s.ns, uint64(h))
}

func (s *Store[V]) bulkKeySorted(sorted []hash.Hash) string {
	u := make([]uint64, len(sorted))
	for i, h := range sorted {
		u[i] = uint64(h)
	}
	return util.BulkKeySorted("bulk:"+s.ns, u)
}

func sortedUnique(hs []hash.Hash) []hash.Hash {
	out := make([]hash.Hash, len(hs))
	copy(out, hs)
	sort.Sort(hash.Sorted(out))
	n := 0
	for i, h := range out {
		if i == 0 || h != out[n-1] {
			out[n] = h
			n++
		}
	}
	return out[:n]
}
