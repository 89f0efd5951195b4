// Package sck provides safe Go bindings for a native screen- and
// audio-capture engine reached through the C ABI of libsck_shim.
//
// The package is the lifetime- and concurrency-safety layer between Go
// and the native engine. The native objects it wraps are reference
// counted, mutated behind the caller's back, and in some cases shared
// across process and GPU boundaries, so the bindings are built around
// three ideas:
//
//   - Handles and guards: PixelBuffer, Surface, SampleBuffer and
//     BlockBuffer own exactly one native reference each; pixel memory
//     is only reachable through a LockGuard obtained from Lock, and the
//     guard issues the matching native unlock exactly once no matter
//     how it goes out of scope.
//   - Completion bridging: the engine reports start/stop/configuration
//     results through one-shot callbacks on its own threads. Waiter
//     turns a callback into a value the calling goroutine can block on.
//   - Trampoline cleanup: output handlers and delegates attached to a
//     Stream are backed by native trampoline objects. A per-stream
//     registry with an atomic reference count tears them down exactly
//     once, when the last Stream handle aliasing the native session is
//     closed.
//
// # Native Library
//
// Bindings load libsck_shim built from the shim/ sources. Set
// SCK_SHIM_LIB_PATH to the directory containing the library. By default
// the package uses purego (CGO_ENABLED=0); with CGO enabled it links
// against the same shim for lower call overhead.
//
// # Ownership
//
// Constructors ending in FromRaw take ownership of a +1 native
// reference the caller already holds. Buffers delivered to output
// handlers are retained by the package before the native delivery call
// returns and released when the handler returns; handlers that need a
// sample beyond the callback must Clone it.
package sck
