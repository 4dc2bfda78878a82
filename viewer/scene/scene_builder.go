package scene

import (
	"github.com/Carmen-Shannon/facet-go/viewer/camera"
	"github.com/Carmen-Shannon/facet-go/viewer/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(*scene)

// WithCamera sets the scene's camera.
//
// Parameters:
//   - cam: the camera to attach
//
// Returns:
//   - SceneBuilderOption: functional option to set the camera
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithLight sets the scene's directional light.
//
// Parameters:
//   - l: the light to attach
//
// Returns:
//   - SceneBuilderOption: functional option to set the light
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lgt = l
	}
}

// WithAmbientColor sets the scene's ambient light color.
//
// Parameters:
//   - r, g, b: the ambient color components
//
// Returns:
//   - SceneBuilderOption: functional option to set the ambient color
func WithAmbientColor(r, g, b float32) SceneBuilderOption {
	return func(s *scene) {
		s.ambient = [3]float32{r, g, b}
	}
}

// WithLayoutWorkers sets the number of worker goroutines used to build GPU
// buffer layouts in parallel. Defaults to runtime.NumCPU()-1. Higher values
// may improve throughput with many models; lower values reduce scheduling
// overhead for single-model scenes.
//
// Parameters:
//   - n: the worker count, clamped to at least 1
//
// Returns:
//   - SceneBuilderOption: functional option to set the worker count
func WithLayoutWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.layoutWorkers = n
	}
}
