//go:build darwin && cgo

// CGO binding for libsck_shim. Fills the same function table the
// purego loader does, so the rest of the package is identical across
// the two link modes.

package sck

/*
#cgo CFLAGS: -I${SRCDIR}/shim/include
#cgo LDFLAGS: -L${SRCDIR}/shim/build -lsck_shim

#include <sck_shim.h>

extern void sckgoDeliveryBridge(void *ctx, void *sample, int32_t output_type);
extern void sckgoCompletionBridge(void *ctx, int32_t success, char *error_message);
extern void sckgoDelegateBridge(void *ctx, int32_t error_code, char *error_message);

static void *sck_delivery_bridge_ptr(void) {
	return (void *)sckgoDeliveryBridge;
}
static void *sck_completion_bridge_ptr(void) {
	return (void *)sckgoCompletionBridge;
}
static void *sck_delegate_bridge_ptr(void) {
	return (void *)sckgoDelegateBridge;
}
*/
import "C"

import "unsafe"

func loadShim() error {
	// Linked at build time; the table is filled in init.
	return nil
}

func deliveryCallbackPtr() uintptr {
	return uintptr(C.sck_delivery_bridge_ptr())
}

func unitCompletionCallbackPtr() uintptr {
	return uintptr(C.sck_completion_bridge_ptr())
}

func delegateCallbackPtr() uintptr {
	return uintptr(C.sck_delegate_bridge_ptr())
}

func init() {
	shimPixelBufferRetain = func(buf uintptr) uintptr {
		return uintptr(C.sck_pixel_buffer_retain(C.sck_pixel_buffer_t(buf)))
	}
	shimPixelBufferRelease = func(buf uintptr) {
		C.sck_pixel_buffer_release(C.sck_pixel_buffer_t(buf))
	}
	shimPixelBufferLock = func(buf uintptr, flags uint32) int32 {
		return int32(C.sck_pixel_buffer_lock(C.sck_pixel_buffer_t(buf), C.uint32_t(flags)))
	}
	shimPixelBufferUnlock = func(buf uintptr, flags uint32) int32 {
		return int32(C.sck_pixel_buffer_unlock(C.sck_pixel_buffer_t(buf), C.uint32_t(flags)))
	}
	shimPixelBufferBaseAddress = func(buf uintptr) uintptr {
		return uintptr(C.sck_pixel_buffer_base_address(C.sck_pixel_buffer_t(buf)))
	}
	shimPixelBufferWidth = func(buf uintptr) uint64 {
		return uint64(C.sck_pixel_buffer_width(C.sck_pixel_buffer_t(buf)))
	}
	shimPixelBufferHeight = func(buf uintptr) uint64 {
		return uint64(C.sck_pixel_buffer_height(C.sck_pixel_buffer_t(buf)))
	}
	shimPixelBufferBytesPerRow = func(buf uintptr) uint64 {
		return uint64(C.sck_pixel_buffer_bytes_per_row(C.sck_pixel_buffer_t(buf)))
	}
	shimPixelBufferDataSize = func(buf uintptr) uint64 {
		return uint64(C.sck_pixel_buffer_data_size(C.sck_pixel_buffer_t(buf)))
	}
	shimPixelBufferPixelFormat = func(buf uintptr) uint32 {
		return uint32(C.sck_pixel_buffer_pixel_format(C.sck_pixel_buffer_t(buf)))
	}
	shimPixelBufferIsPlanar = func(buf uintptr) int32 {
		return int32(C.sck_pixel_buffer_is_planar(C.sck_pixel_buffer_t(buf)))
	}
	shimPixelBufferPlaneCount = func(buf uintptr) uint64 {
		return uint64(C.sck_pixel_buffer_plane_count(C.sck_pixel_buffer_t(buf)))
	}
	shimPixelBufferPlaneWidth = func(buf uintptr, plane uint64) uint64 {
		return uint64(C.sck_pixel_buffer_plane_width(C.sck_pixel_buffer_t(buf), C.uint64_t(plane)))
	}
	shimPixelBufferPlaneHeight = func(buf uintptr, plane uint64) uint64 {
		return uint64(C.sck_pixel_buffer_plane_height(C.sck_pixel_buffer_t(buf), C.uint64_t(plane)))
	}
	shimPixelBufferPlaneBytesPerRow = func(buf uintptr, plane uint64) uint64 {
		return uint64(C.sck_pixel_buffer_plane_bytes_per_row(C.sck_pixel_buffer_t(buf), C.uint64_t(plane)))
	}
	shimPixelBufferPlaneBaseAddress = func(buf uintptr, plane uint64) uintptr {
		return uintptr(C.sck_pixel_buffer_plane_base_address(C.sck_pixel_buffer_t(buf), C.uint64_t(plane)))
	}
	shimPixelBufferSurface = func(buf uintptr) uintptr {
		return uintptr(C.sck_pixel_buffer_surface(C.sck_pixel_buffer_t(buf)))
	}

	shimSurfaceRetain = func(surface uintptr) uintptr {
		return uintptr(C.sck_surface_retain(C.sck_surface_t(surface)))
	}
	shimSurfaceRelease = func(surface uintptr) {
		C.sck_surface_release(C.sck_surface_t(surface))
	}
	shimSurfaceLock = func(surface uintptr, options uint32) int32 {
		return int32(C.sck_surface_lock(C.sck_surface_t(surface), C.uint32_t(options)))
	}
	shimSurfaceUnlock = func(surface uintptr, options uint32) int32 {
		return int32(C.sck_surface_unlock(C.sck_surface_t(surface), C.uint32_t(options)))
	}
	shimSurfaceBaseAddress = func(surface uintptr) uintptr {
		return uintptr(C.sck_surface_base_address(C.sck_surface_t(surface)))
	}
	shimSurfaceWidth = func(surface uintptr) uint64 {
		return uint64(C.sck_surface_width(C.sck_surface_t(surface)))
	}
	shimSurfaceHeight = func(surface uintptr) uint64 {
		return uint64(C.sck_surface_height(C.sck_surface_t(surface)))
	}
	shimSurfaceBytesPerRow = func(surface uintptr) uint64 {
		return uint64(C.sck_surface_bytes_per_row(C.sck_surface_t(surface)))
	}
	shimSurfacePixelFormat = func(surface uintptr) uint32 {
		return uint32(C.sck_surface_pixel_format(C.sck_surface_t(surface)))
	}
	shimSurfaceInUse = func(surface uintptr) int32 {
		return int32(C.sck_surface_in_use(C.sck_surface_t(surface)))
	}

	shimBlockBufferRetain = func(block uintptr) uintptr {
		return uintptr(C.sck_block_buffer_retain(C.sck_block_buffer_t(block)))
	}
	shimBlockBufferRelease = func(block uintptr) {
		C.sck_block_buffer_release(C.sck_block_buffer_t(block))
	}

	shimSampleBufferRetain = func(sample uintptr) uintptr {
		return uintptr(C.sck_sample_buffer_retain(C.sck_sample_buffer_t(sample)))
	}
	shimSampleBufferRelease = func(sample uintptr) {
		C.sck_sample_buffer_release(C.sck_sample_buffer_t(sample))
	}
	shimSampleBufferImageBuffer = func(sample uintptr) uintptr {
		return uintptr(C.sck_sample_buffer_image_buffer(C.sck_sample_buffer_t(sample)))
	}
	shimSampleBufferDataBuffer = func(sample uintptr) uintptr {
		return uintptr(C.sck_sample_buffer_data_buffer(C.sck_sample_buffer_t(sample)))
	}
	shimSampleBufferIsValid = func(sample uintptr) int32 {
		return int32(C.sck_sample_buffer_is_valid(C.sck_sample_buffer_t(sample)))
	}
	shimSampleBufferNumSamples = func(sample uintptr) uint64 {
		return uint64(C.sck_sample_buffer_num_samples(C.sck_sample_buffer_t(sample)))
	}
	shimSampleBufferAudioBufferList = func(sample, outCount, outBuffers, outBlock uintptr) int32 {
		return int32(C.sck_sample_buffer_audio_buffer_list(
			C.sck_sample_buffer_t(sample),
			(*C.uint32_t)(unsafe.Pointer(outCount)),
			(*unsafe.Pointer)(unsafe.Pointer(outBuffers)),
			(*C.sck_block_buffer_t)(unsafe.Pointer(outBlock))))
	}
	shimSampleBufferAudioBufferListFree = func(buffers uintptr) {
		C.sck_sample_buffer_audio_buffer_list_free(unsafe.Pointer(buffers))
	}
	shimSampleBufferPTS = func(sample, outValue, outTimescale, outFlags, outEpoch uintptr) {
		C.sck_sample_buffer_pts(C.sck_sample_buffer_t(sample),
			(*C.int64_t)(unsafe.Pointer(outValue)),
			(*C.int32_t)(unsafe.Pointer(outTimescale)),
			(*C.uint32_t)(unsafe.Pointer(outFlags)),
			(*C.int64_t)(unsafe.Pointer(outEpoch)))
	}
	shimSampleBufferDuration = func(sample, outValue, outTimescale, outFlags, outEpoch uintptr) {
		C.sck_sample_buffer_duration(C.sck_sample_buffer_t(sample),
			(*C.int64_t)(unsafe.Pointer(outValue)),
			(*C.int32_t)(unsafe.Pointer(outTimescale)),
			(*C.uint32_t)(unsafe.Pointer(outFlags)),
			(*C.int64_t)(unsafe.Pointer(outEpoch)))
	}
	shimSampleBufferFrameStatus = func(sample uintptr) int32 {
		return int32(C.sck_sample_buffer_frame_status(C.sck_sample_buffer_t(sample)))
	}
	shimSampleBufferDisplayTime = func(sample, outValue uintptr) int32 {
		return int32(C.sck_sample_buffer_display_time(C.sck_sample_buffer_t(sample),
			(*C.uint64_t)(unsafe.Pointer(outValue))))
	}
	shimSampleBufferScaleFactor = func(sample, outValue uintptr) int32 {
		return int32(C.sck_sample_buffer_scale_factor(C.sck_sample_buffer_t(sample),
			(*C.double)(unsafe.Pointer(outValue))))
	}
	shimSampleBufferContentRect = func(sample, outX, outY, outW, outH uintptr) int32 {
		return int32(C.sck_sample_buffer_content_rect(C.sck_sample_buffer_t(sample),
			(*C.double)(unsafe.Pointer(outX)),
			(*C.double)(unsafe.Pointer(outY)),
			(*C.double)(unsafe.Pointer(outW)),
			(*C.double)(unsafe.Pointer(outH))))
	}

	shimStreamCreate = func(filter uintptr, width, height, fps int32, pixelFormat uint32,
		showsCursor, capturesAudio, queueDepth int32) uintptr {
		return uintptr(C.sck_stream_create(C.sck_filter_t(filter),
			C.int32_t(width), C.int32_t(height), C.int32_t(fps), C.uint32_t(pixelFormat),
			C.int32_t(showsCursor), C.int32_t(capturesAudio), C.int32_t(queueDepth)))
	}
	shimStreamRetain = func(stream uintptr) uintptr {
		return uintptr(C.sck_stream_retain(C.sck_stream_t(stream)))
	}
	shimStreamRelease = func(stream uintptr) {
		C.sck_stream_release(C.sck_stream_t(stream))
	}
	shimStreamAttachDelegate = func(stream, callback, ctx uintptr) uintptr {
		return uintptr(C.sck_stream_attach_delegate(C.sck_stream_t(stream),
			C.sck_delegate_cb(unsafe.Pointer(callback)), unsafe.Pointer(ctx)))
	}
	shimStreamAddOutput = func(stream uintptr, outputType int32, callback, ctx uintptr) uintptr {
		return uintptr(C.sck_stream_add_output(C.sck_stream_t(stream), C.int32_t(outputType),
			C.sck_delivery_cb(unsafe.Pointer(callback)), unsafe.Pointer(ctx)))
	}
	shimStreamRemoveOutput = func(stream, trampoline uintptr) int32 {
		return int32(C.sck_stream_remove_output(C.sck_stream_t(stream), C.sck_trampoline_t(trampoline)))
	}
	shimTrampolineDispose = func(trampoline uintptr) {
		C.sck_trampoline_dispose(C.sck_trampoline_t(trampoline))
	}
	shimStreamStart = func(stream, callback, ctx uintptr) {
		C.sck_stream_start(C.sck_stream_t(stream),
			C.sck_completion_cb(unsafe.Pointer(callback)), unsafe.Pointer(ctx))
	}
	shimStreamStop = func(stream, callback, ctx uintptr) {
		C.sck_stream_stop(C.sck_stream_t(stream),
			C.sck_completion_cb(unsafe.Pointer(callback)), unsafe.Pointer(ctx))
	}
	shimStreamUpdateConfiguration = func(stream uintptr, width, height, fps int32,
		pixelFormat uint32, showsCursor, capturesAudio, queueDepth int32,
		callback, ctx uintptr) {
		C.sck_stream_update_configuration(C.sck_stream_t(stream),
			C.int32_t(width), C.int32_t(height), C.int32_t(fps), C.uint32_t(pixelFormat),
			C.int32_t(showsCursor), C.int32_t(capturesAudio), C.int32_t(queueDepth),
			C.sck_completion_cb(unsafe.Pointer(callback)), unsafe.Pointer(ctx))
	}
	shimLastError = func() uintptr {
		return uintptr(unsafe.Pointer(C.sck_last_error()))
	}

	shimReady.Store(true)
}
