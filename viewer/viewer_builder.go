package viewer

import (
	"github.com/Carmen-Shannon/facet-go/viewer/input"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer"
	"github.com/Carmen-Shannon/facet-go/viewer/scene"
	"github.com/Carmen-Shannon/facet-go/viewer/window"
	"github.com/sirupsen/logrus"
)

// ViewerBuilderOption is a functional option used to configure a Viewer during construction.
type ViewerBuilderOption func(*viewer)

// WithWindow supplies an existing window instead of creating a default one.
//
// Parameters:
//   - win: the window to render into
//
// Returns:
//   - ViewerBuilderOption: a function that sets the window for this viewer
func WithWindow(win window.Window) ViewerBuilderOption {
	return func(v *viewer) {
		v.win = win
	}
}

// WithScene supplies an existing scene instead of creating an empty default.
//
// Parameters:
//   - scn: the scene to display
//
// Returns:
//   - ViewerBuilderOption: a function that sets the scene for this viewer
func WithScene(scn scene.Scene) ViewerBuilderOption {
	return func(v *viewer) {
		v.scn = scn
	}
}

// WithRenderer supplies an existing renderer instead of creating one. An
// injected renderer is not rebuilt on device loss; device loss becomes a fatal
// Tick error the caller must handle.
//
// Parameters:
//   - rnd: the renderer to draw with
//
// Returns:
//   - ViewerBuilderOption: a function that sets the renderer for this viewer
func WithRenderer(rnd renderer.Renderer) ViewerBuilderOption {
	return func(v *viewer) {
		v.rnd = rnd
	}
}

// WithInputAdapter supplies a custom input adapter, e.g. one with different
// queue or clamp settings.
//
// Parameters:
//   - adapter: the input adapter to attach to the window
//
// Returns:
//   - ViewerBuilderOption: a function that sets the input adapter for this viewer
func WithInputAdapter(adapter input.Adapter) ViewerBuilderOption {
	return func(v *viewer) {
		v.adapter = adapter
	}
}

// WithLogger sets the logger used for render loop warnings and profiler output.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - ViewerBuilderOption: a function that sets the logger for this viewer
func WithLogger(log *logrus.Logger) ViewerBuilderOption {
	return func(v *viewer) {
		if log == nil {
			return
		}
		v.log = log
	}
}

// WithDrawConfig sets the initial draw pass selection. The default draws the
// filled model without the wireframe overlay.
//
// Parameters:
//   - cfg: the draw configuration to start with
//
// Returns:
//   - ViewerBuilderOption: a function that sets the draw configuration for this viewer
func WithDrawConfig(cfg DrawConfig) ViewerBuilderOption {
	return func(v *viewer) {
		v.drawModel = cfg.DrawModel
		v.drawMesh = cfg.DrawMesh
	}
}

// WithProfiling enables frame stat logging from construction.
//
// Returns:
//   - ViewerBuilderOption: a function that enables the profiler for this viewer
func WithProfiling() ViewerBuilderOption {
	return func(v *viewer) {
		v.profilingEnabled = true
	}
}

// WithRendererOptions forwards options to the renderer the viewer creates, and
// to any replacement renderer built after device loss. Ignored when a renderer
// is injected via WithRenderer.
//
// Parameters:
//   - options: renderer builder options to apply
//
// Returns:
//   - ViewerBuilderOption: a function that stores the renderer options for this viewer
func WithRendererOptions(options ...renderer.RendererBuilderOption) ViewerBuilderOption {
	return func(v *viewer) {
		v.rendererOptions = options
	}
}
