//go:build (linux && cgo) || (!darwin && !linux)

// Stub loader for platforms without a shim binding. The package still
// compiles so its pure-Go pieces (completion bridge, cleanup registry)
// stay testable everywhere; any call that needs the native library
// fails with ErrShimNotLoaded.

package sck

import (
	"fmt"
	"runtime"
)

func loadShim() error {
	return fmt.Errorf("%w: no binding for %s/%s",
		ErrShimNotLoaded, runtime.GOOS, runtime.GOARCH)
}

func deliveryCallbackPtr() uintptr       { return 0 }
func unitCompletionCallbackPtr() uintptr { return 0 }
func delegateCallbackPtr() uintptr       { return 0 }
