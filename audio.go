// Audio buffer list access.
//
// The shim materializes a sample's audio as a descriptor array plus one
// block buffer holding the PCM bytes. AudioBufferList owns both and
// frees them exactly once; AudioBuffer values are views into memory the
// list keeps alive.

package sck

import (
	"sync/atomic"
	"unsafe"
)

// audioBufferRaw mirrors the shim's descriptor layout: two 32-bit
// fields then a pointer, so the pointer lands on an 8-byte boundary.
type audioBufferRaw struct {
	NumberChannels uint32
	DataBytesSize  uint32
	Data           uintptr
}

// AudioBuffer is a read-only view of one buffer in an AudioBufferList.
// It is valid only while the list is open.
type AudioBuffer struct {
	raw *audioBufferRaw
}

// Channels returns the number of interleaved channels in the buffer.
func (a AudioBuffer) Channels() int {
	if a.raw == nil {
		return 0
	}
	return int(a.raw.NumberChannels)
}

// ByteSize returns the size of the buffer's data in bytes.
func (a AudioBuffer) ByteSize() int {
	if a.raw == nil {
		return 0
	}
	return int(a.raw.DataBytesSize)
}

// Data returns the PCM bytes. A buffer with no data or a zero size
// yields an empty slice, never nil dereference.
func (a AudioBuffer) Data() []byte {
	if a.raw == nil || a.raw.Data == 0 || a.raw.DataBytesSize == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(a.raw.Data)), a.raw.DataBytesSize)
}

// AudioBufferList owns the descriptor array and the block buffer
// backing one sample's audio. It is not cloneable; the shim allocation
// has a single owner.
type AudioBufferList struct {
	buffers uintptr // shim-allocated audioBufferRaw array
	count   int
	block   *BlockBuffer

	closed atomic.Bool
}

// Len returns the number of buffers in the list.
func (l *AudioBufferList) Len() int {
	if l.closed.Load() {
		return 0
	}
	return l.count
}

// Get returns buffer i, or a zero AudioBuffer and false if i is out of
// range or the list is closed.
func (l *AudioBufferList) Get(i int) (AudioBuffer, bool) {
	if l.closed.Load() || i < 0 || i >= l.count {
		return AudioBuffer{}, false
	}
	raw := (*audioBufferRaw)(unsafe.Pointer(l.buffers + uintptr(i)*unsafe.Sizeof(audioBufferRaw{})))
	return AudioBuffer{raw: raw}, true
}

// Buffers returns the current views as a slice. The views share the
// list's lifetime; the slice itself may be iterated any number of
// times.
func (l *AudioBufferList) Buffers() []AudioBuffer {
	if l.closed.Load() {
		return nil
	}
	out := make([]AudioBuffer, 0, l.count)
	for i := 0; i < l.count; i++ {
		b, ok := l.Get(i)
		if !ok {
			break
		}
		out = append(out, b)
	}
	return out
}

// Close frees the descriptor array and releases the block buffer, in
// that order, exactly once. Views obtained earlier must not be used
// after Close.
func (l *AudioBufferList) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	if l.buffers != 0 {
		shimSampleBufferAudioBufferListFree(l.buffers)
		l.buffers = 0
	}
	if l.block != nil {
		return l.block.Close()
	}
	return nil
}
