// Trampoline cleanup registry.
//
// Every output handler or delegate attached to a stream is backed by a
// native trampoline object that must be disposed explicitly. The native
// session does not know how many Go handles alias it, so the registry
// carries its own reference count: each Stream clone retains, each
// Close releases, and the teardown of all trampolines runs exactly
// once, on the release that observes the last reference.

package sck

import (
	"math"
	"sync"
	"sync/atomic"
)

// trampoline pairs a native callback-adapter object with the context
// token that routes its callbacks back into Go.
type trampoline struct {
	ptr uintptr
	ctx uintptr
}

func (t *trampoline) dispose() {
	if t == nil {
		return
	}
	if t.ptr != 0 && shimTrampolineDispose != nil {
		shimTrampolineDispose(t.ptr)
	}
	if t.ctx != 0 {
		dropTrampolineCtx(t.ctx)
	}
}

type cleanup struct {
	mu       sync.Mutex
	delegate *trampoline
	handlers []*trampoline

	// rc mirrors the number of live Stream handles aliasing the native
	// session. Go's atomics are sequentially consistent, which subsumes
	// the release-decrement/acquire-fence pattern this registry needs:
	// the decrement that reaches zero happens-after every other
	// handle's release.
	rc atomic.Int64
}

func newCleanup(delegate *trampoline) *cleanup {
	c := &cleanup{delegate: delegate}
	c.rc.Store(1)
	return c
}

// retain registers one more handle aliasing the session.
func (c *cleanup) retain() {
	if c.rc.Add(1) > math.MaxInt64/2 {
		// A count this high can only come from a retain/release
		// imbalance; continuing risks a wrap to zero and a premature
		// teardown.
		panic("sck: cleanup refcount overflow")
	}
}

func (c *cleanup) addHandler(t *trampoline) {
	c.mu.Lock()
	c.handlers = append(c.handlers, t)
	c.mu.Unlock()
}

// takeHandler removes t from the registry without disposing it,
// reporting whether it was present. Used when a handler is detached
// before the stream is torn down.
func (c *cleanup) takeHandler(t *trampoline) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, h := range c.handlers {
		if h == t {
			c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
			return true
		}
	}
	return false
}

// dropHandlers releases one reference. Only the call that observes the
// last reference tears down the delegate and handler trampolines, in
// registration order, and it does so at most once.
func (c *cleanup) dropHandlers() {
	if c.rc.Add(-1) != 0 {
		return
	}

	c.mu.Lock()
	delegate := c.delegate
	handlers := c.handlers
	c.delegate = nil
	c.handlers = nil
	c.mu.Unlock()

	delegate.dispose()
	for _, h := range handlers {
		h.dispose()
	}
}
