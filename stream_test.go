package sck

import (
	"context"
	"errors"
	"sync"
	"testing"
	"unsafe"
)

type recordingHandler struct {
	mu      sync.Mutex
	samples []uintptr
	types   []OutputType
}

func (h *recordingHandler) DidOutputSampleBuffer(sample *SampleBuffer, outputType OutputType) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = append(h.samples, sample.Raw())
	h.types = append(h.types, outputType)
}

func newTestStream(t *testing.T, m *mockShim, delegate StreamDelegate) *Stream {
	t.Helper()
	filter, err := ContentFilterFromRaw(0xF117)
	if err != nil {
		t.Fatalf("ContentFilterFromRaw: %v", err)
	}
	s, err := NewStream(filter, DefaultStreamConfiguration(), delegate)
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	return s
}

func TestStreamStartStop(t *testing.T) {
	m := newMockShim()
	m.install(t)

	s := newTestStream(t, m, nil)
	defer s.Close()

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.UpdateConfiguration(ctx, DefaultStreamConfiguration()); err != nil {
		t.Fatalf("UpdateConfiguration: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestStreamStartFailure(t *testing.T) {
	m := newMockShim()
	m.install(t)

	s := newTestStream(t, m, nil)
	defer s.Close()
	m.streams[s.ptr.Load()].startErr = "permission denied"

	err := s.Start(context.Background())
	var ce *CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("Start error = %v, want *CompletionError", err)
	}
	if ce.Message != "permission denied" {
		t.Errorf("error message = %q, want %q", ce.Message, "permission denied")
	}
}

func TestStreamDelivery(t *testing.T) {
	m := newMockShim()
	m.install(t)

	s := newTestStream(t, m, nil)
	defer s.Close()

	handler := &recordingHandler{}
	reg, err := s.AddOutput(OutputTypeScreen, handler)
	if err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	pb := m.newPixelBuffer(64, 64, 256, PixelFormatBGRA)
	sampleH := m.newSample(&mockSample{image: pb, frameStatus: int32(FrameStatusComplete)})

	// Drive the delivery trampoline the way the engine would.
	handleDelivery(reg.tramp.ctx, sampleH, int32(OutputTypeScreen))

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if len(handler.samples) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(handler.samples))
	}
	if handler.samples[0] != sampleH {
		t.Errorf("delivered sample = %#x, want %#x", handler.samples[0], sampleH)
	}
	if handler.types[0] != OutputTypeScreen {
		t.Errorf("delivered type = %v, want screen", handler.types[0])
	}
	// The wrapper was closed after the handler returned, balancing the
	// retain taken before delivery.
	if got := m.samples[sampleH].refs; got != 1 {
		t.Errorf("sample refs after delivery = %d, want 1", got)
	}
}

func TestStreamDeliveryClone(t *testing.T) {
	m := newMockShim()
	m.install(t)

	s := newTestStream(t, m, nil)
	defer s.Close()

	var kept *SampleBuffer
	reg, err := s.AddOutput(OutputTypeScreen, OutputHandlerFunc(func(sample *SampleBuffer, _ OutputType) {
		kept = sample.Clone()
	}))
	if err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	sampleH := m.newSample(&mockSample{})
	handleDelivery(reg.tramp.ctx, sampleH, int32(OutputTypeScreen))

	if kept == nil {
		t.Fatal("handler did not run")
	}
	// The clone's reference survives the delivery wrapper's close.
	if got := m.samples[sampleH].refs; got != 2 {
		t.Fatalf("sample refs after cloned delivery = %d, want 2", got)
	}
	kept.Close()
	if got := m.samples[sampleH].refs; got != 1 {
		t.Errorf("sample refs after clone Close = %d, want 1", got)
	}
}

func TestStreamRemoveOutput(t *testing.T) {
	m := newMockShim()
	m.install(t)

	s := newTestStream(t, m, nil)
	defer s.Close()

	handler := &recordingHandler{}
	reg, err := s.AddOutput(OutputTypeAudio, handler)
	if err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	trampPtr := reg.tramp.ptr

	if err := s.RemoveOutput(reg); err != nil {
		t.Fatalf("RemoveOutput: %v", err)
	}
	if len(m.disposedTramps) != 1 || m.disposedTramps[0] != trampPtr {
		t.Fatalf("disposed trampolines = %v, want [%#x]", m.disposedTramps, trampPtr)
	}
	// The registration's context is gone; a stale delivery is dropped.
	handleDelivery(reg.tramp.ctx, m.newSample(&mockSample{}), int32(OutputTypeAudio))
	handler.mu.Lock()
	defer handler.mu.Unlock()
	if len(handler.samples) != 0 {
		t.Errorf("deliveries after RemoveOutput = %d, want 0", len(handler.samples))
	}
}

func TestStreamCloneCloseTeardown(t *testing.T) {
	m := newMockShim()
	m.install(t)

	s := newTestStream(t, m, nil)
	streamH := s.ptr.Load()

	if _, err := s.AddOutput(OutputTypeScreen, &recordingHandler{}); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}
	if _, err := s.AddOutput(OutputTypeAudio, &recordingHandler{}); err != nil {
		t.Fatalf("AddOutput: %v", err)
	}

	clone := s.Clone()
	if clone.ID() != s.ID() {
		t.Error("clone should share the stream identifier")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(m.disposedTramps) != 0 {
		t.Fatalf("trampolines disposed with a clone still open: %v", m.disposedTramps)
	}
	if m.streams[streamH].released {
		t.Fatal("native stream released with a clone still open")
	}

	if err := clone.Close(); err != nil {
		t.Fatalf("clone Close: %v", err)
	}
	if got := len(m.disposedTramps); got != 2 {
		t.Errorf("disposed trampolines = %d, want 2", got)
	}
	if !m.streams[streamH].released {
		t.Error("native stream not released after last handle closed")
	}

	if err := s.Start(context.Background()); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Start after Close error = %v, want ErrStreamClosed", err)
	}
	if _, err := s.AddOutput(OutputTypeScreen, &recordingHandler{}); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("AddOutput after Close error = %v, want ErrStreamClosed", err)
	}
}

type recordingDelegate struct {
	mu   sync.Mutex
	errs []error
}

func (d *recordingDelegate) DidStopWithError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs = append(d.errs, err)
}

func TestStreamDelegate(t *testing.T) {
	m := newMockShim()
	m.install(t)

	delegate := &recordingDelegate{}
	s := newTestStream(t, m, delegate)
	defer s.Close()

	var delegateCtx uintptr
	for _, tr := range m.tramps {
		if tr.delegate {
			delegateCtx = tr.ctx
		}
	}
	if delegateCtx == 0 {
		t.Fatal("no delegate trampoline attached")
	}

	msg := append([]byte("window closed"), 0)
	handleDelegateEvent(delegateCtx, -3817, uintptr(unsafe.Pointer(&msg[0])))

	delegate.mu.Lock()
	defer delegate.mu.Unlock()
	if len(delegate.errs) != 1 {
		t.Fatalf("delegate calls = %d, want 1", len(delegate.errs))
	}
	var ce *CompletionError
	if !errors.As(delegate.errs[0], &ce) {
		t.Fatalf("delegate error = %v, want *CompletionError", delegate.errs[0])
	}
	if ce.Code != -3817 || ce.Message != "window closed" {
		t.Errorf("delegate error = %+v, want code -3817, message %q", ce, "window closed")
	}
}

func TestStreamShutdown(t *testing.T) {
	m := newMockShim()
	m.install(t)

	s := newTestStream(t, m, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	// Shutdown after close is a no-op.
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}
