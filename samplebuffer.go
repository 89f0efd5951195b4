// SampleBuffer wraps one delivered capture sample: a video frame, an
// audio chunk, or both, plus the engine's per-frame metadata.

package sck

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

type SampleBuffer struct {
	ptr atomic.Uintptr
}

// SampleBufferFromRaw takes ownership of a +1 native reference (create
// rule).
func SampleBufferFromRaw(ptr uintptr) (*SampleBuffer, error) {
	if err := ensureShim(); err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, ErrNilPointer
	}
	s := &SampleBuffer{}
	s.ptr.Store(ptr)
	return s, nil
}

// sampleBufferFromBorrowed wraps a borrowed pointer and retains it (get
// rule). Delivery callbacks use this: the engine's reference only lasts
// until the callback returns.
func sampleBufferFromBorrowed(ptr uintptr) *SampleBuffer {
	if ptr == 0 {
		return nil
	}
	s := &SampleBuffer{}
	s.ptr.Store(shimSampleBufferRetain(ptr))
	return s
}

// Raw returns the native pointer, or 0 after Close.
func (s *SampleBuffer) Raw() uintptr {
	return s.ptr.Load()
}

// IsValid reports whether the native sample is usable.
func (s *SampleBuffer) IsValid() bool {
	if p := s.ptr.Load(); p != 0 {
		return shimSampleBufferIsValid(p) != 0
	}
	return false
}

// NumSamples returns the number of media samples in the buffer.
func (s *SampleBuffer) NumSamples() int {
	if p := s.ptr.Load(); p != 0 {
		return int(shimSampleBufferNumSamples(p))
	}
	return 0
}

// ImageBuffer returns the sample's pixel buffer, or nil if the sample
// carries no video. The returned buffer owns its own reference.
func (s *SampleBuffer) ImageBuffer() *PixelBuffer {
	p := s.ptr.Load()
	if p == 0 {
		return nil
	}
	return pixelBufferFromBorrowed(shimSampleBufferImageBuffer(p))
}

// DataBuffer returns the sample's block buffer, or nil. The returned
// buffer owns its own reference.
func (s *SampleBuffer) DataBuffer() *BlockBuffer {
	p := s.ptr.Load()
	if p == 0 {
		return nil
	}
	raw := shimSampleBufferDataBuffer(p)
	if raw == 0 {
		return nil
	}
	b := &BlockBuffer{}
	b.ptr.Store(shimBlockBufferRetain(raw))
	return b
}

// AudioBufferList materializes the sample's audio into an owned list.
// Returns nil, nil for samples without audio; the caller must Close a
// non-nil list. Out parameters live on the Go heap so the native side
// writes into pinned memory.
func (s *SampleBuffer) AudioBufferList() (*AudioBufferList, error) {
	p := s.ptr.Load()
	if p == 0 {
		return nil, ErrNilPointer
	}

	outCount := new(uint32)
	outBuffers := new(uintptr)
	outBlock := new(uintptr)
	status := shimSampleBufferAudioBufferList(p,
		uintptr(unsafe.Pointer(outCount)),
		uintptr(unsafe.Pointer(outBuffers)),
		uintptr(unsafe.Pointer(outBlock)))
	if status != shimOK {
		return nil, fmt.Errorf("audio buffer list: status %d", status)
	}
	if *outCount == 0 || *outBuffers == 0 {
		// No audio in this sample. Balance the block reference if the
		// shim handed one out anyway.
		if *outBlock != 0 {
			shimBlockBufferRelease(*outBlock)
		}
		if *outBuffers != 0 {
			shimSampleBufferAudioBufferListFree(*outBuffers)
		}
		return nil, nil
	}

	return &AudioBufferList{
		buffers: *outBuffers,
		count:   int(*outCount),
		block:   blockBufferOwned(*outBlock),
	}, nil
}

// PTS returns the sample's presentation timestamp.
func (s *SampleBuffer) PTS() MediaTime {
	return s.mediaTime(shimSampleBufferPTS)
}

// Duration returns the sample's duration.
func (s *SampleBuffer) Duration() MediaTime {
	return s.mediaTime(shimSampleBufferDuration)
}

func (s *SampleBuffer) mediaTime(query func(sample, outValue, outTimescale, outFlags, outEpoch uintptr)) MediaTime {
	p := s.ptr.Load()
	if p == 0 || query == nil {
		return MediaTime{}
	}
	value := new(int64)
	timescale := new(int32)
	flags := new(uint32)
	epoch := new(int64)
	query(p,
		uintptr(unsafe.Pointer(value)),
		uintptr(unsafe.Pointer(timescale)),
		uintptr(unsafe.Pointer(flags)),
		uintptr(unsafe.Pointer(epoch)))
	return MediaTime{Value: *value, Timescale: *timescale, Flags: *flags, Epoch: *epoch}
}

// FrameStatus returns the engine's per-frame status and whether the
// sample carries one. Audio samples do not.
func (s *SampleBuffer) FrameStatus() (FrameStatus, bool) {
	p := s.ptr.Load()
	if p == 0 {
		return 0, false
	}
	v := shimSampleBufferFrameStatus(p)
	if v < 0 {
		return 0, false
	}
	return FrameStatus(v), true
}

// DisplayTime returns the machine-time the frame was displayed, in
// nanoseconds, and whether the attachment is present.
func (s *SampleBuffer) DisplayTime() (uint64, bool) {
	p := s.ptr.Load()
	if p == 0 {
		return 0, false
	}
	out := new(uint64)
	if shimSampleBufferDisplayTime(p, uintptr(unsafe.Pointer(out))) != shimOK {
		return 0, false
	}
	return *out, true
}

// ScaleFactor returns the frame's content scale factor and whether the
// attachment is present.
func (s *SampleBuffer) ScaleFactor() (float64, bool) {
	p := s.ptr.Load()
	if p == 0 {
		return 0, false
	}
	out := new(float64)
	if shimSampleBufferScaleFactor(p, uintptr(unsafe.Pointer(out))) != shimOK {
		return 0, false
	}
	return *out, true
}

// ContentRect returns the rectangle of meaningful pixels within the
// frame and whether the attachment is present.
func (s *SampleBuffer) ContentRect() (Rect, bool) {
	p := s.ptr.Load()
	if p == 0 {
		return Rect{}, false
	}
	x := new(float64)
	y := new(float64)
	w := new(float64)
	h := new(float64)
	if shimSampleBufferContentRect(p,
		uintptr(unsafe.Pointer(x)),
		uintptr(unsafe.Pointer(y)),
		uintptr(unsafe.Pointer(w)),
		uintptr(unsafe.Pointer(h))) != shimOK {
		return Rect{}, false
	}
	return Rect{X: *x, Y: *y, Width: *w, Height: *h}, true
}

// Clone returns a new handle aliasing the same native sample.
func (s *SampleBuffer) Clone() *SampleBuffer {
	p := s.ptr.Load()
	if p == 0 {
		return &SampleBuffer{}
	}
	c := &SampleBuffer{}
	c.ptr.Store(shimSampleBufferRetain(p))
	return c
}

// Close releases this handle's native reference, once.
func (s *SampleBuffer) Close() error {
	if p := s.ptr.Swap(0); p != 0 {
		shimSampleBufferRelease(p)
	}
	return nil
}
