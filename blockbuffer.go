package sck

import "sync/atomic"

// BlockBuffer wraps one native block allocation, such as the backing
// store of an audio sample or a compressed data buffer.
type BlockBuffer struct {
	ptr atomic.Uintptr
}

// BlockBufferFromRaw takes ownership of a +1 native reference (create
// rule).
func BlockBufferFromRaw(ptr uintptr) (*BlockBuffer, error) {
	if err := ensureShim(); err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, ErrNilPointer
	}
	b := &BlockBuffer{}
	b.ptr.Store(ptr)
	return b, nil
}

// blockBufferOwned wraps a pointer the shim has already retained for
// us. Returns nil for a null pointer.
func blockBufferOwned(ptr uintptr) *BlockBuffer {
	if ptr == 0 {
		return nil
	}
	b := &BlockBuffer{}
	b.ptr.Store(ptr)
	return b
}

// Raw returns the native pointer, or 0 after Close.
func (b *BlockBuffer) Raw() uintptr {
	return b.ptr.Load()
}

// Close releases the native reference, once.
func (b *BlockBuffer) Close() error {
	if p := b.ptr.Swap(0); p != 0 {
		shimBlockBufferRelease(p)
	}
	return nil
}
