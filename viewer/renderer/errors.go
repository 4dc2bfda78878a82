package renderer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFrameAcquisitionFailed is returned by BeginFrame when the surface texture
// could not be acquired even after reconfiguring the surface and retrying once.
// The frame should be skipped; subsequent frames may succeed.
var ErrFrameAcquisitionFailed = errors.New("failed to acquire surface texture")

// ErrDeviceLost is returned when the GPU device has been lost. The renderer
// cannot recover from this on its own — the caller must release it and build a
// new one against the same window surface.
var ErrDeviceLost = errors.New("gpu device lost")

// SurfaceConfigError is returned when the surface could not be configured for
// a given size, typically after a resize or present-mode change.
type SurfaceConfigError struct {
	Width  int
	Height int
	Err    error
}

func (e *SurfaceConfigError) Error() string {
	return fmt.Sprintf("failed to configure surface at %dx%d: %v", e.Width, e.Height, e.Err)
}

func (e *SurfaceConfigError) Unwrap() error {
	return e.Err
}

// ShaderCompileError is returned when a WGSL shader module failed to compile
// during pipeline registration.
type ShaderCompileError struct {
	ShaderKey string
	Err       error
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("failed to compile shader %q: %v", e.ShaderKey, e.Err)
}

func (e *ShaderCompileError) Unwrap() error {
	return e.Err
}

// isDeviceLost reports whether the backend error indicates the GPU device has
// been lost rather than a transient surface failure.
func isDeviceLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDeviceLost) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "device lost")
}
