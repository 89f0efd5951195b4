// Native function table for libsck_shim.
//
// The variables below mirror the shim's C ABI one to one. They are
// populated either by the purego loader (native_purego.go) or by the
// CGO wrappers (native_cgo.go); tests install a counting mock instead.
// All object arguments are opaque native pointers carried as uintptr.

package sck

import (
	"sync/atomic"
	"unsafe"
)

// Shim status codes.
const (
	shimOK int32 = 0
)

// Pixel buffer calls.
var (
	shimPixelBufferRetain      func(buf uintptr) uintptr
	shimPixelBufferRelease     func(buf uintptr)
	shimPixelBufferLock        func(buf uintptr, flags uint32) int32
	shimPixelBufferUnlock      func(buf uintptr, flags uint32) int32
	shimPixelBufferBaseAddress func(buf uintptr) uintptr
	shimPixelBufferWidth       func(buf uintptr) uint64
	shimPixelBufferHeight      func(buf uintptr) uint64
	shimPixelBufferBytesPerRow func(buf uintptr) uint64
	shimPixelBufferDataSize    func(buf uintptr) uint64
	shimPixelBufferPixelFormat func(buf uintptr) uint32
	shimPixelBufferIsPlanar    func(buf uintptr) int32
	shimPixelBufferPlaneCount  func(buf uintptr) uint64

	shimPixelBufferPlaneWidth       func(buf uintptr, plane uint64) uint64
	shimPixelBufferPlaneHeight      func(buf uintptr, plane uint64) uint64
	shimPixelBufferPlaneBytesPerRow func(buf uintptr, plane uint64) uint64
	shimPixelBufferPlaneBaseAddress func(buf uintptr, plane uint64) uintptr

	shimPixelBufferSurface func(buf uintptr) uintptr
)

// Surface calls.
var (
	shimSurfaceRetain      func(surface uintptr) uintptr
	shimSurfaceRelease     func(surface uintptr)
	shimSurfaceLock        func(surface uintptr, options uint32) int32
	shimSurfaceUnlock      func(surface uintptr, options uint32) int32
	shimSurfaceBaseAddress func(surface uintptr) uintptr
	shimSurfaceWidth       func(surface uintptr) uint64
	shimSurfaceHeight      func(surface uintptr) uint64
	shimSurfaceBytesPerRow func(surface uintptr) uint64
	shimSurfacePixelFormat func(surface uintptr) uint32
	shimSurfaceInUse       func(surface uintptr) int32
)

// Block buffer calls.
var (
	shimBlockBufferRetain  func(block uintptr) uintptr
	shimBlockBufferRelease func(block uintptr)
)

// Sample buffer calls.
var (
	shimSampleBufferRetain      func(sample uintptr) uintptr
	shimSampleBufferRelease     func(sample uintptr)
	shimSampleBufferImageBuffer func(sample uintptr) uintptr
	shimSampleBufferDataBuffer  func(sample uintptr) uintptr
	shimSampleBufferIsValid     func(sample uintptr) int32
	shimSampleBufferNumSamples  func(sample uintptr) uint64

	// Fills count, a shim-allocated descriptor array and a +1 block
	// buffer reference through the out pointers.
	shimSampleBufferAudioBufferList     func(sample, outCount, outBuffers, outBlock uintptr) int32
	shimSampleBufferAudioBufferListFree func(buffers uintptr)

	shimSampleBufferPTS         func(sample, outValue, outTimescale, outFlags, outEpoch uintptr)
	shimSampleBufferDuration    func(sample, outValue, outTimescale, outFlags, outEpoch uintptr)
	shimSampleBufferFrameStatus func(sample uintptr) int32
	shimSampleBufferDisplayTime func(sample, outValue uintptr) int32
	shimSampleBufferScaleFactor func(sample, outValue uintptr) int32
	shimSampleBufferContentRect func(sample, outX, outY, outW, outH uintptr) int32
)

// Stream calls. Completion-based entry points take a callback function
// pointer and an opaque context token; the shim guarantees exactly one
// callback invocation per call.
var (
	shimStreamCreate func(filter uintptr, width, height, fps int32, pixelFormat uint32,
		showsCursor, capturesAudio, queueDepth int32) uintptr
	shimStreamRetain         func(stream uintptr) uintptr
	shimStreamRelease        func(stream uintptr)
	shimStreamAttachDelegate func(stream, callback, ctx uintptr) uintptr
	shimStreamAddOutput      func(stream uintptr, outputType int32, callback, ctx uintptr) uintptr
	shimStreamRemoveOutput   func(stream, trampoline uintptr) int32
	shimTrampolineDispose    func(trampoline uintptr)

	shimStreamStart               func(stream, callback, ctx uintptr)
	shimStreamStop                func(stream, callback, ctx uintptr)
	shimStreamUpdateConfiguration func(stream uintptr, width, height, fps int32,
		pixelFormat uint32, showsCursor, capturesAudio, queueDepth int32,
		callback, ctx uintptr)

	shimLastError func() uintptr
)

// shimReady is set once the table above has been populated, by a
// loader or by the test mock.
var shimReady atomic.Bool

// ensureShim populates the native table on first use.
func ensureShim() error {
	if shimReady.Load() {
		return nil
	}
	return loadShim()
}

// lastShimError returns the shim's thread-local error message, if any.
func lastShimError() string {
	if shimLastError == nil {
		return ""
	}
	return goStringFromPtr(shimLastError())
}

// goStringFromPtr converts a C string pointer to a Go string.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	var length int
	for *(*byte)(unsafe.Pointer(uintptr(p) + uintptr(length))) != 0 {
		length++
		if length > 4096 { // safety limit
			break
		}
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}
