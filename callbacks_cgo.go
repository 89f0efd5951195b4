//go:build darwin && cgo

// Exported bridges the shim's C trampolines call back into.

package sck

/*
#include <stdint.h>
*/
import "C"

import "unsafe"

//export sckgoDeliveryBridge
func sckgoDeliveryBridge(ctx unsafe.Pointer, sample unsafe.Pointer, outputType C.int32_t) {
	handleDelivery(uintptr(ctx), uintptr(sample), int32(outputType))
}

//export sckgoCompletionBridge
func sckgoCompletionBridge(ctx unsafe.Pointer, success C.int32_t, errorMessage *C.char) {
	completeUnitCallback(uintptr(ctx), int32(success), uintptr(unsafe.Pointer(errorMessage)))
}

//export sckgoDelegateBridge
func sckgoDelegateBridge(ctx unsafe.Pointer, errorCode C.int32_t, errorMessage *C.char) {
	handleDelegateEvent(uintptr(ctx), int32(errorCode), uintptr(unsafe.Pointer(errorMessage)))
}
