// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{FieldEvery: 100})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	enc := molstream.NewEncoder(molstream.ObserveSink(file, hooks))
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/molstream"
)

// Hooks moves hook calls off the encode/decode path. Events are dropped
// when the queue is full.
type Hooks struct {
	inner molstream.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
	mu    sync.RWMutex
	done  bool
}

var _ molstream.Hooks = (*Hooks)(nil)

func New(inner molstream.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events arriving after
// Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.done = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.done {
		return
	}
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Field(op molstream.Op, k molstream.Kind, tag *molstream.Tag) {
	h.try(func() { h.inner.Field(op, k, tag) })
}

func (h *Hooks) TransportError(op molstream.Op, err error) {
	h.try(func() { h.inner.TransportError(op, err) })
}
