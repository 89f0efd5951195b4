package sck

// StreamConfiguration describes the capture a Stream performs. Zero
// values are not meaningful; start from DefaultStreamConfiguration.
type StreamConfiguration struct {
	Width         int
	Height        int
	FPS           int
	PixelFormat   FourCC
	ShowsCursor   bool
	CapturesAudio bool
	// QueueDepth bounds how many frames the engine buffers before it
	// starts dropping with FrameStatusComplete samples held back.
	QueueDepth int
}

// DefaultStreamConfiguration returns a 1080p60 BGRA configuration with
// the cursor composited in.
func DefaultStreamConfiguration() StreamConfiguration {
	return StreamConfiguration{
		Width:       1920,
		Height:      1080,
		FPS:         60,
		PixelFormat: PixelFormatBGRA,
		ShowsCursor: true,
		QueueDepth:  8,
	}
}

// ContentFilter selects what a stream captures: a display, a window,
// or a display with exclusions. It is an opaque handle built by the
// native side.
type ContentFilter struct {
	ptr uintptr
}

// ContentFilterFromRaw wraps a native filter pointer the caller owns.
func ContentFilterFromRaw(ptr uintptr) (*ContentFilter, error) {
	if ptr == 0 {
		return nil, ErrNilPointer
	}
	return &ContentFilter{ptr: ptr}, nil
}

// Raw returns the native filter pointer.
func (f *ContentFilter) Raw() uintptr {
	if f == nil {
		return 0
	}
	return f.ptr
}
