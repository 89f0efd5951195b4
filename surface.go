// Surface wraps the engine's GPU-shareable framebuffer object. Capture
// frames are usually surface-backed; locking a Surface gives direct
// access to the shared memory without copying it out of the GPU path.

package sck

import (
	"sync/atomic"
	"unsafe"
)

type Surface struct {
	ptr atomic.Uintptr
}

// SurfaceLockOptions is the bitmask passed to the native surface lock.
type SurfaceLockOptions uint32

const (
	// SurfaceLockReadOnly declares read-only access, letting the
	// engine keep GPU caches valid.
	SurfaceLockReadOnly SurfaceLockOptions = 0x1
	// SurfaceLockAvoidSync skips the GPU synchronization barrier.
	SurfaceLockAvoidSync SurfaceLockOptions = 0x2
)

// SurfaceFromRaw takes ownership of a +1 native reference (create
// rule).
func SurfaceFromRaw(ptr uintptr) (*Surface, error) {
	if err := ensureShim(); err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, ErrNilPointer
	}
	s := &Surface{}
	s.ptr.Store(ptr)
	return s, nil
}

func surfaceFromBorrowed(ptr uintptr) *Surface {
	if ptr == 0 {
		return nil
	}
	s := &Surface{}
	s.ptr.Store(shimSurfaceRetain(ptr))
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	if p := s.ptr.Load(); p != 0 {
		return int(shimSurfaceWidth(p))
	}
	return 0
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	if p := s.ptr.Load(); p != 0 {
		return int(shimSurfaceHeight(p))
	}
	return 0
}

// BytesPerRow returns the surface stride in bytes.
func (s *Surface) BytesPerRow() int {
	if p := s.ptr.Load(); p != 0 {
		return int(shimSurfaceBytesPerRow(p))
	}
	return 0
}

// PixelFormat returns the surface's FourCC format.
func (s *Surface) PixelFormat() FourCC {
	if p := s.ptr.Load(); p != 0 {
		return FourCC(shimSurfacePixelFormat(p))
	}
	return 0
}

// InUse reports whether another process or the GPU currently holds the
// surface.
func (s *Surface) InUse() bool {
	if p := s.ptr.Load(); p != 0 {
		return shimSurfaceInUse(p) != 0
	}
	return false
}

// Clone returns a new handle aliasing the same native surface.
func (s *Surface) Clone() *Surface {
	p := s.ptr.Load()
	if p == 0 {
		return &Surface{}
	}
	c := &Surface{}
	c.ptr.Store(shimSurfaceRetain(p))
	return c
}

// Close releases this handle's native reference, once.
func (s *Surface) Close() error {
	if p := s.ptr.Swap(0); p != 0 {
		shimSurfaceRelease(p)
	}
	return nil
}

// SurfaceLockGuard holds one native lock on a Surface; the matching
// unlock runs exactly once, from Unlock.
type SurfaceLockGuard struct {
	ptr     uintptr
	options SurfaceLockOptions

	base        uintptr
	width       int
	height      int
	bytesPerRow int

	unlocked atomic.Bool
}

// Lock locks the surface memory for the given options. Geometry is
// cached at lock time; a null base address fails with
// ErrNullBaseAddress after rolling the lock back.
func (s *Surface) Lock(options SurfaceLockOptions) (*SurfaceLockGuard, error) {
	p := s.ptr.Load()
	if p == 0 {
		return nil, ErrNilPointer
	}
	p = shimSurfaceRetain(p)

	if status := shimSurfaceLock(p, uint32(options)); status != shimOK {
		shimSurfaceRelease(p)
		return nil, &LockError{Code: status}
	}

	base := shimSurfaceBaseAddress(p)
	if base == 0 {
		if status := shimSurfaceUnlock(p, uint32(options)); status != shimOK {
			logger.Warn().Int32("status", status).Msg("surface unlock after null base address failed")
		}
		shimSurfaceRelease(p)
		return nil, ErrNullBaseAddress
	}

	return &SurfaceLockGuard{
		ptr:         p,
		options:     options,
		base:        base,
		width:       int(shimSurfaceWidth(p)),
		height:      int(shimSurfaceHeight(p)),
		bytesPerRow: int(shimSurfaceBytesPerRow(p)),
	}, nil
}

// Width returns the width cached at lock time.
func (g *SurfaceLockGuard) Width() int { return g.width }

// Height returns the height cached at lock time.
func (g *SurfaceLockGuard) Height() int { return g.height }

// BytesPerRow returns the stride cached at lock time.
func (g *SurfaceLockGuard) BytesPerRow() int { return g.bytesPerRow }

// Bytes returns the locked surface memory, valid until Unlock.
func (g *SurfaceLockGuard) Bytes() []byte {
	if g.unlocked.Load() {
		return nil
	}
	n := g.height * g.bytesPerRow
	if n == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(g.base)), n)
}

// Row returns row i, or nil if out of range.
func (g *SurfaceLockGuard) Row(i int) []byte {
	if g.unlocked.Load() || i < 0 || i >= g.height {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(g.base+uintptr(i*g.bytesPerRow))), g.bytesPerRow)
}

// MutableBytes returns the memory for writing; nil on read-only locks.
func (g *SurfaceLockGuard) MutableBytes() []byte {
	if g.options&SurfaceLockReadOnly != 0 {
		return nil
	}
	return g.Bytes()
}

// Unlock unlocks the surface with the lock-time options, exactly once.
func (g *SurfaceLockGuard) Unlock() {
	if !g.unlocked.CompareAndSwap(false, true) {
		return
	}
	if status := shimSurfaceUnlock(g.ptr, uint32(g.options)); status != shimOK {
		logger.Warn().Int32("status", status).Msg("surface unlock failed")
	}
	shimSurfaceRelease(g.ptr)
}
