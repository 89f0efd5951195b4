// PixelBuffer wraps the native engine's reference-counted video frame
// buffer. Geometry queries are lock-free; pixel memory is only
// reachable through a LockGuard (see lockguard.go).

package sck

import "sync/atomic"

type PixelBuffer struct {
	ptr atomic.Uintptr
}

// PixelBufferFromRaw takes ownership of a +1 native reference the
// caller already holds (create rule). Returns ErrNilPointer for a null
// pointer; the only expected failure.
func PixelBufferFromRaw(ptr uintptr) (*PixelBuffer, error) {
	if err := ensureShim(); err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, ErrNilPointer
	}
	b := &PixelBuffer{}
	b.ptr.Store(ptr)
	return b, nil
}

// pixelBufferFromBorrowed wraps a borrowed pointer and retains it
// explicitly (get rule). Used for pointers read off other native
// objects, which keep their own reference.
func pixelBufferFromBorrowed(ptr uintptr) *PixelBuffer {
	if ptr == 0 {
		return nil
	}
	b := &PixelBuffer{}
	b.ptr.Store(shimPixelBufferRetain(ptr))
	return b
}

// Raw returns the native pointer, or 0 after Close. For handing the
// buffer back to native APIs; do not release it.
func (b *PixelBuffer) Raw() uintptr {
	return b.ptr.Load()
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int {
	if p := b.ptr.Load(); p != 0 {
		return int(shimPixelBufferWidth(p))
	}
	return 0
}

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int {
	if p := b.ptr.Load(); p != 0 {
		return int(shimPixelBufferHeight(p))
	}
	return 0
}

// BytesPerRow returns the stride of the buffer in bytes.
func (b *PixelBuffer) BytesPerRow() int {
	if p := b.ptr.Load(); p != 0 {
		return int(shimPixelBufferBytesPerRow(p))
	}
	return 0
}

// DataSize returns the total allocation size in bytes.
func (b *PixelBuffer) DataSize() int {
	if p := b.ptr.Load(); p != 0 {
		return int(shimPixelBufferDataSize(p))
	}
	return 0
}

// PixelFormat returns the buffer's FourCC pixel format.
func (b *PixelBuffer) PixelFormat() FourCC {
	if p := b.ptr.Load(); p != 0 {
		return FourCC(shimPixelBufferPixelFormat(p))
	}
	return 0
}

// IsPlanar reports whether the image data is split across planes.
func (b *PixelBuffer) IsPlanar() bool {
	if p := b.ptr.Load(); p != 0 {
		return shimPixelBufferIsPlanar(p) != 0
	}
	return false
}

// PlaneCount returns the number of planes. Packed (single-plane)
// buffers report 0, matching the native model.
func (b *PixelBuffer) PlaneCount() int {
	if p := b.ptr.Load(); p != 0 {
		return int(shimPixelBufferPlaneCount(p))
	}
	return 0
}

// Surface returns the GPU-shareable surface backing this buffer, or
// nil if the buffer is not surface-backed. The returned Surface owns
// its own native reference.
func (b *PixelBuffer) Surface() *Surface {
	p := b.ptr.Load()
	if p == 0 {
		return nil
	}
	return surfaceFromBorrowed(shimPixelBufferSurface(p))
}

// Clone returns a new handle aliasing the same native buffer. The
// native reference count is incremented; both handles must be closed.
func (b *PixelBuffer) Clone() *PixelBuffer {
	p := b.ptr.Load()
	if p == 0 {
		return &PixelBuffer{}
	}
	c := &PixelBuffer{}
	c.ptr.Store(shimPixelBufferRetain(p))
	return c
}

// Close releases this handle's native reference. Safe to call more
// than once; only the first call releases.
func (b *PixelBuffer) Close() error {
	if p := b.ptr.Swap(0); p != 0 {
		shimPixelBufferRelease(p)
	}
	return nil
}
