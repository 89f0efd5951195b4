//go:build (darwin || linux) && !cgo

// purego-based loader for libsck_shim.

package sck

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	shimOnce    sync.Once
	shimHandle  uintptr
	shimInitErr error
)

func loadShim() error {
	shimOnce.Do(func() {
		shimInitErr = loadShimLib()
		if shimInitErr == nil {
			shimReady.Store(true)
		}
	})
	if shimInitErr != nil {
		return fmt.Errorf("%w: %w", ErrShimNotLoaded, shimInitErr)
	}
	return nil
}

func loadShimLib() error {
	paths := shimLibPaths()

	var lastErr error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			shimHandle = handle
			registerShimSymbols()
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to load libsck_shim: %w", lastErr)
	}
	return fmt.Errorf("libsck_shim not found in any standard location")
}

func shimLibPaths() []string {
	var paths []string

	libName := "libsck_shim.so"
	if runtime.GOOS == "darwin" {
		libName = "libsck_shim.dylib"
	}

	// Environment variable overrides (highest priority)
	if envPath := os.Getenv("SCK_SHIM_LIB_PATH"); envPath != "" {
		paths = append(paths, filepath.Join(envPath, libName))
	}

	// Search relative to executable location
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, libName),
			filepath.Join(exeDir, "..", "lib", libName),
		)
	}

	paths = append(paths,
		filepath.Join("shim", "build", libName),
		filepath.Join("..", "shim", "build", libName),
		filepath.Join("/usr/local/lib", libName),
		libName, // system default search
	)

	return paths
}

func registerShimSymbols() {
	purego.RegisterLibFunc(&shimPixelBufferRetain, shimHandle, "sck_pixel_buffer_retain")
	purego.RegisterLibFunc(&shimPixelBufferRelease, shimHandle, "sck_pixel_buffer_release")
	purego.RegisterLibFunc(&shimPixelBufferLock, shimHandle, "sck_pixel_buffer_lock")
	purego.RegisterLibFunc(&shimPixelBufferUnlock, shimHandle, "sck_pixel_buffer_unlock")
	purego.RegisterLibFunc(&shimPixelBufferBaseAddress, shimHandle, "sck_pixel_buffer_base_address")
	purego.RegisterLibFunc(&shimPixelBufferWidth, shimHandle, "sck_pixel_buffer_width")
	purego.RegisterLibFunc(&shimPixelBufferHeight, shimHandle, "sck_pixel_buffer_height")
	purego.RegisterLibFunc(&shimPixelBufferBytesPerRow, shimHandle, "sck_pixel_buffer_bytes_per_row")
	purego.RegisterLibFunc(&shimPixelBufferDataSize, shimHandle, "sck_pixel_buffer_data_size")
	purego.RegisterLibFunc(&shimPixelBufferPixelFormat, shimHandle, "sck_pixel_buffer_pixel_format")
	purego.RegisterLibFunc(&shimPixelBufferIsPlanar, shimHandle, "sck_pixel_buffer_is_planar")
	purego.RegisterLibFunc(&shimPixelBufferPlaneCount, shimHandle, "sck_pixel_buffer_plane_count")
	purego.RegisterLibFunc(&shimPixelBufferPlaneWidth, shimHandle, "sck_pixel_buffer_plane_width")
	purego.RegisterLibFunc(&shimPixelBufferPlaneHeight, shimHandle, "sck_pixel_buffer_plane_height")
	purego.RegisterLibFunc(&shimPixelBufferPlaneBytesPerRow, shimHandle, "sck_pixel_buffer_plane_bytes_per_row")
	purego.RegisterLibFunc(&shimPixelBufferPlaneBaseAddress, shimHandle, "sck_pixel_buffer_plane_base_address")
	purego.RegisterLibFunc(&shimPixelBufferSurface, shimHandle, "sck_pixel_buffer_surface")

	purego.RegisterLibFunc(&shimSurfaceRetain, shimHandle, "sck_surface_retain")
	purego.RegisterLibFunc(&shimSurfaceRelease, shimHandle, "sck_surface_release")
	purego.RegisterLibFunc(&shimSurfaceLock, shimHandle, "sck_surface_lock")
	purego.RegisterLibFunc(&shimSurfaceUnlock, shimHandle, "sck_surface_unlock")
	purego.RegisterLibFunc(&shimSurfaceBaseAddress, shimHandle, "sck_surface_base_address")
	purego.RegisterLibFunc(&shimSurfaceWidth, shimHandle, "sck_surface_width")
	purego.RegisterLibFunc(&shimSurfaceHeight, shimHandle, "sck_surface_height")
	purego.RegisterLibFunc(&shimSurfaceBytesPerRow, shimHandle, "sck_surface_bytes_per_row")
	purego.RegisterLibFunc(&shimSurfacePixelFormat, shimHandle, "sck_surface_pixel_format")
	purego.RegisterLibFunc(&shimSurfaceInUse, shimHandle, "sck_surface_in_use")

	purego.RegisterLibFunc(&shimBlockBufferRetain, shimHandle, "sck_block_buffer_retain")
	purego.RegisterLibFunc(&shimBlockBufferRelease, shimHandle, "sck_block_buffer_release")

	purego.RegisterLibFunc(&shimSampleBufferRetain, shimHandle, "sck_sample_buffer_retain")
	purego.RegisterLibFunc(&shimSampleBufferRelease, shimHandle, "sck_sample_buffer_release")
	purego.RegisterLibFunc(&shimSampleBufferImageBuffer, shimHandle, "sck_sample_buffer_image_buffer")
	purego.RegisterLibFunc(&shimSampleBufferDataBuffer, shimHandle, "sck_sample_buffer_data_buffer")
	purego.RegisterLibFunc(&shimSampleBufferIsValid, shimHandle, "sck_sample_buffer_is_valid")
	purego.RegisterLibFunc(&shimSampleBufferNumSamples, shimHandle, "sck_sample_buffer_num_samples")
	purego.RegisterLibFunc(&shimSampleBufferAudioBufferList, shimHandle, "sck_sample_buffer_audio_buffer_list")
	purego.RegisterLibFunc(&shimSampleBufferAudioBufferListFree, shimHandle, "sck_sample_buffer_audio_buffer_list_free")
	purego.RegisterLibFunc(&shimSampleBufferPTS, shimHandle, "sck_sample_buffer_pts")
	purego.RegisterLibFunc(&shimSampleBufferDuration, shimHandle, "sck_sample_buffer_duration")
	purego.RegisterLibFunc(&shimSampleBufferFrameStatus, shimHandle, "sck_sample_buffer_frame_status")
	purego.RegisterLibFunc(&shimSampleBufferDisplayTime, shimHandle, "sck_sample_buffer_display_time")
	purego.RegisterLibFunc(&shimSampleBufferScaleFactor, shimHandle, "sck_sample_buffer_scale_factor")
	purego.RegisterLibFunc(&shimSampleBufferContentRect, shimHandle, "sck_sample_buffer_content_rect")

	purego.RegisterLibFunc(&shimStreamCreate, shimHandle, "sck_stream_create")
	purego.RegisterLibFunc(&shimStreamRetain, shimHandle, "sck_stream_retain")
	purego.RegisterLibFunc(&shimStreamRelease, shimHandle, "sck_stream_release")
	purego.RegisterLibFunc(&shimStreamAttachDelegate, shimHandle, "sck_stream_attach_delegate")
	purego.RegisterLibFunc(&shimStreamAddOutput, shimHandle, "sck_stream_add_output")
	purego.RegisterLibFunc(&shimStreamRemoveOutput, shimHandle, "sck_stream_remove_output")
	purego.RegisterLibFunc(&shimTrampolineDispose, shimHandle, "sck_trampoline_dispose")
	purego.RegisterLibFunc(&shimStreamStart, shimHandle, "sck_stream_start")
	purego.RegisterLibFunc(&shimStreamStop, shimHandle, "sck_stream_stop")
	purego.RegisterLibFunc(&shimStreamUpdateConfiguration, shimHandle, "sck_stream_update_configuration")
	purego.RegisterLibFunc(&shimLastError, shimHandle, "sck_last_error")
}

// Callback pointers handed to the shim. Created once; purego callbacks
// are never released.
var (
	deliveryCallbackOnce   = sync.OnceValue(func() uintptr { return purego.NewCallback(handleDelivery) })
	completionCallbackOnce = sync.OnceValue(func() uintptr { return purego.NewCallback(completeUnitCallback) })
	delegateCallbackOnce   = sync.OnceValue(func() uintptr { return purego.NewCallback(handleDelegateEvent) })
)

func deliveryCallbackPtr() uintptr       { return deliveryCallbackOnce() }
func unitCompletionCallbackPtr() uintptr { return completionCallbackOnce() }
func delegateCallbackPtr() uintptr       { return delegateCallbackOnce() }
