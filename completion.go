// Completion bridge for asynchronous native operations.
//
// The shim's long-running entry points (start, stop, configuration
// updates) report their result through a callback fired exactly once
// from a native thread. newCompletion pairs a Waiter the calling
// goroutine can block on with an integer token that is safe to hand
// across the FFI boundary; completing the token records the result and
// wakes the waiter.

package sck

import "sync"

// CompletionToken is the opaque context value passed to a native
// completion callback. It is a registry key, never a Go pointer.
type CompletionToken uintptr

type completionState[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Waiter blocks on the single completion of one native operation.
type Waiter[T any] struct {
	st    *completionState[T]
	token CompletionToken
}

var (
	completionMu  sync.Mutex
	completions   = make(map[CompletionToken]any)
	completionSeq CompletionToken
)

// newCompletion creates a waiter/token pair for one native operation.
// The registry keeps the shared state alive until the token is
// completed, so the native side may outlive the caller's frame.
func newCompletion[T any]() (*Waiter[T], CompletionToken) {
	st := &completionState[T]{done: make(chan struct{})}

	completionMu.Lock()
	completionSeq++
	token := completionSeq
	completions[token] = st
	completionMu.Unlock()

	return &Waiter[T]{st: st, token: token}, token
}

// Wait blocks until the native side completes the token and returns
// the recorded result. There is deliberately no timeout: the wrapped
// native operations have no cancellation protocol, so bounded waits
// must be layered above via Done.
func (w *Waiter[T]) Wait() (T, error) {
	<-w.st.done
	return w.st.value, w.st.err
}

// Done is closed once the completion has been recorded. It allows
// select-based waiting without consuming the result.
func (w *Waiter[T]) Done() <-chan struct{} {
	return w.st.done
}

// takeCompletion consumes the token. The removal happens under the
// registry mutex, so of two racing completions exactly one observes
// the state; the other gets nil.
func takeCompletion[T any](token CompletionToken) *completionState[T] {
	completionMu.Lock()
	defer completionMu.Unlock()
	v, ok := completions[token]
	if !ok {
		return nil
	}
	delete(completions, token)
	st, ok := v.(*completionState[T])
	if !ok {
		// Token of a different result type; treat as consumed.
		logger.Error().Uint64("token", uint64(token)).Msg("completion token type mismatch")
		return nil
	}
	return st
}

// completeOK records a successful result and wakes the waiter. A second
// completion of the same token is a shim bug; it is logged and ignored.
func completeOK[T any](token CompletionToken, value T) {
	st := takeCompletion[T](token)
	if st == nil {
		logger.Warn().Uint64("token", uint64(token)).Msg("duplicate or unknown completion (ok)")
		return
	}
	st.value = value
	close(st.done)
}

// completeErr records a failure and wakes the waiter.
func completeErr[T any](token CompletionToken, err error) {
	st := takeCompletion[T](token)
	if st == nil {
		logger.Warn().Uint64("token", uint64(token)).Err(err).Msg("duplicate or unknown completion (err)")
		return
	}
	st.err = err
	close(st.done)
}

// unit is the result type of completions that carry no value.
type unit = struct{}

// completeUnitCallback adapts the shim's void completion callback
// (success flag plus optional error message) onto the bridge. It is
// invoked on a thread owned by the native runtime.
func completeUnitCallback(ctx uintptr, success int32, errMsg uintptr) {
	token := CompletionToken(ctx)
	if success != 0 {
		completeOK(token, unit{})
		return
	}
	msg := goStringFromPtr(errMsg)
	if msg == "" {
		msg = "unknown error"
	}
	completeErr[unit](token, &CompletionError{Message: msg})
}
