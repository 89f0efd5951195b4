//go:build !(darwin && cgo)

// Context tokens handed to native trampolines.
//
// Without CGO a Go pointer must never cross the FFI boundary, so
// registrations are parked in a table keyed by a plain integer and the
// key travels through the shim as the callback context.

package sck

import "sync"

var (
	trampolineCtxMu  sync.RWMutex
	trampolineCtx    = make(map[uintptr]any)
	trampolineCtxSeq uintptr
)

func saveTrampolineCtx(v any) uintptr {
	trampolineCtxMu.Lock()
	defer trampolineCtxMu.Unlock()
	trampolineCtxSeq++
	trampolineCtx[trampolineCtxSeq] = v
	return trampolineCtxSeq
}

func resolveTrampolineCtx(ctx uintptr) any {
	trampolineCtxMu.RLock()
	defer trampolineCtxMu.RUnlock()
	return trampolineCtx[ctx]
}

func dropTrampolineCtx(ctx uintptr) {
	trampolineCtxMu.Lock()
	defer trampolineCtxMu.Unlock()
	delete(trampolineCtx, ctx)
}
