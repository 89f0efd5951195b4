// Stream drives one native capture session. Output handlers receive
// sample buffers on engine-owned threads; start/stop/reconfigure block
// the calling goroutine through the completion bridge.

package sck

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// OutputType selects which media a handler receives.
type OutputType int32

const (
	OutputTypeScreen OutputType = 0
	OutputTypeAudio  OutputType = 1
)

func (t OutputType) String() string {
	switch t {
	case OutputTypeScreen:
		return "screen"
	case OutputTypeAudio:
		return "audio"
	default:
		return fmt.Sprintf("OutputType(%d)", int32(t))
	}
}

// OutputHandler receives delivered samples. The sample is valid only
// for the duration of the call; Clone it to keep it longer. Calls
// arrive on a thread owned by the engine, never concurrently for one
// registration.
type OutputHandler interface {
	DidOutputSampleBuffer(sample *SampleBuffer, outputType OutputType)
}

// OutputHandlerFunc adapts a function to OutputHandler.
type OutputHandlerFunc func(sample *SampleBuffer, outputType OutputType)

func (f OutputHandlerFunc) DidOutputSampleBuffer(sample *SampleBuffer, outputType OutputType) {
	f(sample, outputType)
}

// StreamDelegate is notified when the engine stops the stream on its
// own, for example when the captured window closes.
type StreamDelegate interface {
	DidStopWithError(err error)
}

// OutputRegistration is the context object a delivery trampoline
// routes back to.
type OutputRegistration struct {
	handler    OutputHandler
	outputType OutputType
	streamID   uuid.UUID
	tramp      *trampoline
}

// delegateRegistration is the context object a delegate trampoline
// routes back to.
type delegateRegistration struct {
	delegate StreamDelegate
	streamID uuid.UUID
}

// handleDelivery is the Go side of the sample delivery trampoline. The
// engine's reference to the sample lasts only until this returns, so
// the handler gets a retained wrapper that is closed afterwards unless
// the handler cloned it.
func handleDelivery(ctx uintptr, sample uintptr, outputType int32) {
	v := resolveTrampolineCtx(ctx)
	reg, ok := v.(*OutputRegistration)
	if !ok {
		logger.Error().Uint64("ctx", uint64(ctx)).Msg("delivery for unknown registration")
		return
	}
	sb := sampleBufferFromBorrowed(sample)
	if sb == nil {
		logger.Warn().Stringer("stream", reg.streamID).Msg("delivery with null sample")
		return
	}
	defer sb.Close()
	reg.handler.DidOutputSampleBuffer(sb, OutputType(outputType))
}

// handleDelegateEvent is the Go side of the delegate trampoline.
func handleDelegateEvent(ctx uintptr, errCode int32, errMsg uintptr) {
	v := resolveTrampolineCtx(ctx)
	reg, ok := v.(*delegateRegistration)
	if !ok {
		logger.Error().Uint64("ctx", uint64(ctx)).Msg("delegate event for unknown registration")
		return
	}
	var err error
	if errCode != 0 || errMsg != 0 {
		err = &CompletionError{Code: errCode, Message: goStringFromPtr(errMsg)}
	}
	logger.Debug().Stringer("stream", reg.streamID).Err(err).Msg("stream stopped by engine")
	reg.delegate.DidStopWithError(err)
}

// Stream is a handle on one native capture session. Clones alias the
// session; the trampoline teardown runs when the last handle closes.
type Stream struct {
	id      uuid.UUID
	ptr     atomic.Uintptr
	cleanup *cleanup
}

// NewStream creates a capture session over filter with the given
// configuration. A non-nil delegate receives engine-initiated stop
// events for the session's lifetime.
func NewStream(filter *ContentFilter, cfg StreamConfiguration, delegate StreamDelegate) (*Stream, error) {
	if err := ensureShim(); err != nil {
		return nil, err
	}
	if filter == nil || filter.Raw() == 0 {
		return nil, ErrNilPointer
	}

	id := uuid.New()
	p := shimStreamCreate(filter.Raw(),
		int32(cfg.Width), int32(cfg.Height), int32(cfg.FPS), uint32(cfg.PixelFormat),
		boolToInt32(cfg.ShowsCursor), boolToInt32(cfg.CapturesAudio), int32(cfg.QueueDepth))
	if p == 0 {
		if msg := lastShimError(); msg != "" {
			return nil, fmt.Errorf("create stream: %s", msg)
		}
		return nil, fmt.Errorf("create stream: %w", ErrNilPointer)
	}

	var delegateTramp *trampoline
	if delegate != nil {
		ctx := saveTrampolineCtx(&delegateRegistration{delegate: delegate, streamID: id})
		tp := shimStreamAttachDelegate(p, delegateCallbackPtr(), ctx)
		if tp == 0 {
			dropTrampolineCtx(ctx)
			shimStreamRelease(p)
			return nil, fmt.Errorf("attach delegate: %s", lastShimError())
		}
		delegateTramp = &trampoline{ptr: tp, ctx: ctx}
	}

	s := &Stream{id: id, cleanup: newCleanup(delegateTramp)}
	s.ptr.Store(p)
	logger.Debug().Stringer("stream", id).
		Int("width", cfg.Width).Int("height", cfg.Height).Int("fps", cfg.FPS).
		Msg("stream created")
	return s, nil
}

// ID returns the handle family's identifier, shared by clones.
func (s *Stream) ID() uuid.UUID { return s.id }

// AddOutput registers handler for samples of the given type and
// returns a registration usable with RemoveOutput. The registration is
// torn down automatically when the last stream handle closes.
func (s *Stream) AddOutput(outputType OutputType, handler OutputHandler) (*OutputRegistration, error) {
	p := s.ptr.Load()
	if p == 0 {
		return nil, ErrStreamClosed
	}
	if handler == nil {
		return nil, ErrNilPointer
	}

	reg := &OutputRegistration{handler: handler, outputType: outputType, streamID: s.id}
	ctx := saveTrampolineCtx(reg)
	tp := shimStreamAddOutput(p, int32(outputType), deliveryCallbackPtr(), ctx)
	if tp == 0 {
		dropTrampolineCtx(ctx)
		return nil, fmt.Errorf("add %s output: %s", outputType, lastShimError())
	}
	reg.tramp = &trampoline{ptr: tp, ctx: ctx}
	s.cleanup.addHandler(reg.tramp)
	return reg, nil
}

// RemoveOutput detaches a registration before the stream closes. After
// it returns no further deliveries reach the handler.
func (s *Stream) RemoveOutput(reg *OutputRegistration) error {
	if reg == nil || reg.tramp == nil {
		return nil
	}
	p := s.ptr.Load()
	if p == 0 {
		return ErrStreamClosed
	}
	if status := shimStreamRemoveOutput(p, reg.tramp.ptr); status != shimOK {
		return fmt.Errorf("remove %s output: status %d", reg.outputType, status)
	}
	if s.cleanup.takeHandler(reg.tramp) {
		reg.tramp.dispose()
	}
	return nil
}

// Start begins capture and blocks until the engine reports the start
// completed or ctx is done. A context cancellation abandons the wait;
// the native operation itself cannot be cancelled.
func (s *Stream) Start(ctx context.Context) error {
	p := s.ptr.Load()
	if p == 0 {
		return ErrStreamClosed
	}
	w, token := newCompletion[unit]()
	shimStreamStart(p, unitCompletionCallbackPtr(), uintptr(token))
	return s.await(ctx, w, "start")
}

// Stop halts capture and blocks until the engine reports the stop
// completed or ctx is done.
func (s *Stream) Stop(ctx context.Context) error {
	p := s.ptr.Load()
	if p == 0 {
		return ErrStreamClosed
	}
	w, token := newCompletion[unit]()
	shimStreamStop(p, unitCompletionCallbackPtr(), uintptr(token))
	return s.await(ctx, w, "stop")
}

// UpdateConfiguration applies cfg to a running stream and blocks until
// the engine acknowledges it or ctx is done.
func (s *Stream) UpdateConfiguration(ctx context.Context, cfg StreamConfiguration) error {
	p := s.ptr.Load()
	if p == 0 {
		return ErrStreamClosed
	}
	w, token := newCompletion[unit]()
	shimStreamUpdateConfiguration(p,
		int32(cfg.Width), int32(cfg.Height), int32(cfg.FPS), uint32(cfg.PixelFormat),
		boolToInt32(cfg.ShowsCursor), boolToInt32(cfg.CapturesAudio), int32(cfg.QueueDepth),
		unitCompletionCallbackPtr(), uintptr(token))
	return s.await(ctx, w, "update configuration")
}

func (s *Stream) await(ctx context.Context, w *Waiter[unit], op string) error {
	select {
	case <-w.Done():
		_, err := w.Wait()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
		logger.Warn().Stringer("stream", s.id).Str("op", op).Msg("abandoning wait on context cancellation")
		return ctx.Err()
	}
}

// Clone returns a new handle aliasing the same session. Trampoline
// teardown waits for every handle to close.
func (s *Stream) Clone() *Stream {
	p := s.ptr.Load()
	if p == 0 {
		return &Stream{id: s.id, cleanup: newCleanup(nil)}
	}
	s.cleanup.retain()
	c := &Stream{id: s.id, cleanup: s.cleanup}
	c.ptr.Store(shimStreamRetain(p))
	return c
}

// Close releases this handle. The last handle to close disposes every
// trampoline registered on the session and drops the native session
// reference. Safe to call more than once.
func (s *Stream) Close() error {
	p := s.ptr.Swap(0)
	if p == 0 {
		return nil
	}
	s.cleanup.dropHandlers()
	shimStreamRelease(p)
	logger.Debug().Stringer("stream", s.id).Msg("stream handle closed")
	return nil
}

// Shutdown stops the stream and closes the handle, reporting every
// failure encountered along the way.
func (s *Stream) Shutdown(ctx context.Context) error {
	var result *multierror.Error
	if err := s.Stop(ctx); err != nil && err != ErrStreamClosed {
		result = multierror.Append(result, err)
	}
	if err := s.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
