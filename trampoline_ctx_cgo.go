//go:build darwin && cgo

// Context tokens handed to native trampolines, CGO variant. The
// go-pointer registry produces C-safe handles for Go values without a
// hand-rolled table.

package sck

import (
	"unsafe"

	pointer "github.com/mattn/go-pointer"
)

func saveTrampolineCtx(v any) uintptr {
	return uintptr(pointer.Save(v))
}

func resolveTrampolineCtx(ctx uintptr) any {
	if ctx == 0 {
		return nil
	}
	return pointer.Restore(unsafe.Pointer(ctx))
}

func dropTrampolineCtx(ctx uintptr) {
	if ctx == 0 {
		return
	}
	pointer.Unref(unsafe.Pointer(ctx))
}
