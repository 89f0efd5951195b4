// LockGuard gives scoped, bounds-checked access to locked pixel
// memory. All geometry is cached at lock time and every accessor is
// validated against that cache, so a slice is never built from
// geometry other than the one its index was checked against.

package sck

import (
	"sync/atomic"
	"unsafe"
)

// LockFlags selects the access mode of a lock. The zero value is a
// read-write lock, matching the native flag encoding.
type LockFlags uint32

const (
	LockFlagsReadWrite LockFlags = 0
	LockFlagsReadOnly  LockFlags = 0x1
)

// ReadOnly reports whether the flags request read-only access.
func (f LockFlags) ReadOnly() bool {
	return f&LockFlagsReadOnly != 0
}

type lockedPlane struct {
	desc PlaneDescriptor
	base uintptr
}

// LockGuard holds one native lock on a PixelBuffer. The matching
// unlock is issued exactly once, with the same flags, by Unlock —
// typically deferred right after a successful Lock.
type LockGuard struct {
	ptr   uintptr // native buffer, retained for the guard's lifetime
	flags LockFlags

	base        uintptr
	width       int
	height      int
	bytesPerRow int
	format      FourCC
	dataSize    int
	planes      []lockedPlane

	unlocked atomic.Bool
}

// Lock locks the buffer's base address for the given access mode and
// returns a guard over the locked memory. A non-zero native status is
// returned as *LockError; success with a null base address is rolled
// back and returned as ErrNullBaseAddress. No guard exists on failure,
// so there is nothing to unlock.
func (b *PixelBuffer) Lock(flags LockFlags) (*LockGuard, error) {
	p := b.ptr.Load()
	if p == 0 {
		return nil, ErrNilPointer
	}

	// The guard holds its own native reference so the buffer cannot be
	// released out from under the locked memory.
	p = shimPixelBufferRetain(p)

	if status := shimPixelBufferLock(p, uint32(flags)); status != shimOK {
		shimPixelBufferRelease(p)
		return nil, &LockError{Code: status}
	}

	base := shimPixelBufferBaseAddress(p)
	if base == 0 {
		// Observed with some surface-backed buffers: the lock call
		// succeeds but reports no base address. Treat as failure, not
		// as a zero-length buffer, and balance the lock immediately.
		if status := shimPixelBufferUnlock(p, uint32(flags)); status != shimOK {
			logger.Warn().Int32("status", status).Msg("unlock after null base address failed")
		}
		shimPixelBufferRelease(p)
		return nil, ErrNullBaseAddress
	}

	g := &LockGuard{
		ptr:         p,
		flags:       flags,
		base:        base,
		width:       int(shimPixelBufferWidth(p)),
		height:      int(shimPixelBufferHeight(p)),
		bytesPerRow: int(shimPixelBufferBytesPerRow(p)),
		format:      FourCC(shimPixelBufferPixelFormat(p)),
		dataSize:    int(shimPixelBufferDataSize(p)),
	}
	g.planes = capturePlanes(p, base, g.format, g.dataSize)
	return g, nil
}

// capturePlanes snapshots per-plane geometry while the lock is held.
// Planes whose native geometry is inconsistent are left without a base
// address and become unreachable through the guard.
func capturePlanes(p, base uintptr, format FourCC, dataSize int) []lockedPlane {
	count := int(shimPixelBufferPlaneCount(p))
	if count == 0 {
		return nil
	}
	planes := make([]lockedPlane, count)
	for i := range planes {
		idx := uint64(i)
		planeBase := shimPixelBufferPlaneBaseAddress(p, idx)
		desc := PlaneDescriptor{
			Width:           uint(shimPixelBufferPlaneWidth(p, idx)),
			Height:          uint(shimPixelBufferPlaneHeight(p, idx)),
			BytesPerRow:     uint(shimPixelBufferPlaneBytesPerRow(p, idx)),
			BytesPerElement: format.planeBytesPerElement(i),
		}
		desc.ByteSize = desc.Height * desc.BytesPerRow
		if planeBase >= base {
			desc.ByteOffset = uint(planeBase - base)
		}
		if planeBase == 0 {
			logger.Warn().Int("plane", i).Msg("plane has null base address")
			planes[i] = lockedPlane{desc: desc}
			continue
		}
		if err := desc.Validate(uint(dataSize)); err != nil {
			logger.Warn().Int("plane", i).Err(err).Msg("inconsistent plane geometry")
			planes[i] = lockedPlane{desc: desc}
			continue
		}
		planes[i] = lockedPlane{desc: desc, base: planeBase}
	}
	return planes
}

// planeBytesPerElement returns the element width of one plane of the
// format.
func (f FourCC) planeBytesPerElement(plane int) uint {
	switch f {
	case PixelFormat420VideoRange, PixelFormat420FullRange:
		if plane == 0 {
			return 1 // luma
		}
		return 2 // interleaved chroma
	default:
		return 4
	}
}

// Width returns the width cached at lock time.
func (g *LockGuard) Width() int { return g.width }

// Height returns the height cached at lock time.
func (g *LockGuard) Height() int { return g.height }

// BytesPerRow returns the stride cached at lock time.
func (g *LockGuard) BytesPerRow() int { return g.bytesPerRow }

// PixelFormat returns the format cached at lock time.
func (g *LockGuard) PixelFormat() FourCC { return g.format }

// PlaneCount returns the number of planes; 0 for packed buffers.
func (g *LockGuard) PlaneCount() int { return len(g.planes) }

// ReadOnly reports whether the guard holds a read-only lock.
func (g *LockGuard) ReadOnly() bool { return g.flags.ReadOnly() }

// Bytes returns the full locked allocation as a byte slice, valid only
// until Unlock. Returns nil after Unlock.
func (g *LockGuard) Bytes() []byte {
	if g.unlocked.Load() {
		return nil
	}
	n := g.height * g.bytesPerRow
	if n == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(g.base)), n)
}

// Row returns row i of a packed buffer, or nil if i is out of range.
func (g *LockGuard) Row(i int) []byte {
	if g.unlocked.Load() || i < 0 || i >= g.height {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(g.base+uintptr(i*g.bytesPerRow))), g.bytesPerRow)
}

// PlaneDescriptor returns the cached geometry of plane i.
func (g *LockGuard) PlaneDescriptor(i int) (PlaneDescriptor, bool) {
	if i < 0 || i >= len(g.planes) {
		return PlaneDescriptor{}, false
	}
	return g.planes[i].desc, true
}

// Plane returns the data of plane i. For packed buffers (PlaneCount
// 0) every index returns nil; index 0 is not an alias for the whole
// buffer.
func (g *LockGuard) Plane(i int) []byte {
	if g.unlocked.Load() || i < 0 || i >= len(g.planes) {
		return nil
	}
	pl := g.planes[i]
	if pl.base == 0 {
		return nil
	}
	if pl.desc.ByteSize == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(pl.base)), pl.desc.ByteSize)
}

// PlaneRow returns row r of plane i, or nil if either index is out of
// range.
func (g *LockGuard) PlaneRow(i, r int) []byte {
	if g.unlocked.Load() || i < 0 || i >= len(g.planes) {
		return nil
	}
	pl := g.planes[i]
	if pl.base == 0 || r < 0 || uint(r) >= pl.desc.Height {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(pl.base+uintptr(uint(r)*pl.desc.BytesPerRow))), pl.desc.BytesPerRow)
}

// MutableBytes returns the locked allocation for writing. Returns nil
// on a read-only guard: the native side still considers the memory
// immutable.
func (g *LockGuard) MutableBytes() []byte {
	if g.flags.ReadOnly() {
		return nil
	}
	return g.Bytes()
}

// MutablePtr returns the base address for writing, or nil on a
// read-only guard.
func (g *LockGuard) MutablePtr() unsafe.Pointer {
	if g.flags.ReadOnly() || g.unlocked.Load() {
		return nil
	}
	return unsafe.Pointer(g.base)
}

// Unlock issues the native unlock with the exact flags used at lock
// time and drops the guard's buffer reference. The first call wins;
// later calls are no-ops. An unlock failure has no safe error channel
// and is logged.
func (g *LockGuard) Unlock() {
	if !g.unlocked.CompareAndSwap(false, true) {
		return
	}
	if status := shimPixelBufferUnlock(g.ptr, uint32(g.flags)); status != shimOK {
		logger.Warn().Int32("status", status).Msg("pixel buffer unlock failed")
	}
	shimPixelBufferRelease(g.ptr)
}
