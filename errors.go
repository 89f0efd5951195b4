package sck

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNilPointer is returned when a constructor receives a null
	// native pointer where a valid object was required.
	ErrNilPointer = errors.New("nil native pointer")

	// ErrNullBaseAddress is returned when the native lock call reports
	// success but the buffer's base address is null. The lock is rolled
	// back and no guard is constructed.
	ErrNullBaseAddress = errors.New("locked buffer has null base address")

	// ErrStreamClosed is returned from operations on a closed Stream
	// handle.
	ErrStreamClosed = errors.New("stream closed")

	// ErrShimNotLoaded is returned when libsck_shim could not be
	// located or loaded on this system.
	ErrShimNotLoaded = errors.New("libsck_shim not loaded")
)

// LockError reports a non-zero status from a native lock or unlock
// call.
type LockError struct {
	Code int32
}

func (e *LockError) Error() string {
	return fmt.Sprintf("native lock failed (status %d)", e.Code)
}

// CompletionError reports a failure delivered through an asynchronous
// native completion callback.
type CompletionError struct {
	Code    int32
	Message string
}

func (e *CompletionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("native operation failed (code %d)", e.Code)
	}
	if e.Code == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}
