package viewer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/facet-go/viewer/input"
	"github.com/Carmen-Shannon/facet-go/viewer/profiler"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer/pipeline"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer/shader"
	"github.com/Carmen-Shannon/facet-go/viewer/scene"
	"github.com/Carmen-Shannon/facet-go/viewer/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/sirupsen/logrus"
)

const (
	// meshPipelineKey identifies the filled triangle pipeline in the renderer cache.
	meshPipelineKey = "mesh"

	// edgePipelineKey identifies the wireframe line-list pipeline in the renderer cache.
	edgePipelineKey = "mesh_edges"

	// panPixelScale converts pointer pixels into pan units before the
	// controller applies its radius-proportional pan speed.
	panPixelScale = 0.002
)

// DrawConfig selects which passes are drawn each frame. Both flags off renders
// an empty (cleared) frame, which is valid.
type DrawConfig struct {
	// DrawModel draws the filled, lit triangle pass.
	DrawModel bool

	// DrawMesh draws the wireframe edge overlay pass.
	DrawMesh bool
}

// Viewer is the top-level orchestrator. It owns the window, scene, renderer,
// and input adapter, and runs the per-frame lifecycle: drain input, apply
// camera commands, upload stale mesh buffers, write frame uniforms, and issue
// draw calls.
type Viewer interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the displayed scene.
	//
	// Returns:
	//   - scene.Scene: the scene instance
	Scene() scene.Scene

	// Renderer returns the underlying renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// DrawConfig returns the current draw pass selection.
	//
	// Returns:
	//   - DrawConfig: the active draw configuration
	DrawConfig() DrawConfig

	// SetDrawConfig replaces the draw pass selection.
	//
	// Parameters:
	//   - cfg: the draw configuration to apply
	SetDrawConfig(cfg DrawConfig)

	// Focus refits the camera so every model in the scene is framed.
	// Does nothing for an empty scene.
	Focus()

	// Tick runs a single frame: drains queued input commands, applies them to
	// the camera and viewer state, uploads stale mesh buffers, writes the frame
	// uniforms, and renders. A transient frame acquisition failure skips the
	// frame and returns nil; a lost GPU device triggers a renderer rebuild
	// against the same window, keeping the scene intact.
	//
	// Returns:
	//   - error: an unrecoverable render error
	Tick() error

	// Run drives Tick from the window message loop. Blocks until the window
	// closes or Tick returns an unrecoverable error.
	Run()

	// EnableProfiler enables frame stat output to the log.
	EnableProfiler()

	// DisableProfiler disables frame stat output.
	DisableProfiler()

	// Close tears down the viewer: GPU providers and renderer are released and
	// the window is closed. Safe to call multiple times.
	//
	// Returns:
	//   - error: an error if the window close fails
	Close() error
}

// viewer is the implementation of the Viewer interface.
type viewer struct {
	mu *sync.Mutex

	win     window.Window
	scn     scene.Scene
	rnd     renderer.Renderer
	adapter input.Adapter
	log     *logrus.Logger

	prof             *profiler.Profiler
	profilingEnabled bool

	drawModel bool
	drawMesh  bool

	// frameProvider holds the per-frame uniform buffer at group 0.
	frameProvider bind_group_provider.BindGroupProvider

	// modelProviders holds the geometry and per-model uniform resources for
	// each scene model, keyed by model ID.
	modelProviders map[string]bind_group_provider.BindGroupProvider

	// pendingWidth/pendingHeight hold a resize that must be applied before the
	// next frame is acquired. Zero means no resize is pending.
	pendingWidth  int
	pendingHeight int

	// rendererOptions are kept so the renderer can be rebuilt after device loss.
	// Empty when the renderer was injected, in which case device loss is fatal.
	rendererOptions []renderer.RendererBuilderOption
	ownsRenderer    bool

	closed bool
}

var _ Viewer = &viewer{}

// NewViewer creates a Viewer with the provided options. A window, scene, input
// adapter, and renderer are created with defaults for anything not supplied.
// The render pipelines are registered and the frame uniform buffer is
// initialized before returning.
//
// Parameters:
//   - options: functional options for viewer configuration
//
// Returns:
//   - Viewer: the configured viewer
//   - error: an error if window or GPU setup fails
func NewViewer(options ...ViewerBuilderOption) (Viewer, error) {
	v := &viewer{
		mu:             &sync.Mutex{},
		log:            logrus.StandardLogger(),
		drawModel:      true,
		drawMesh:       false,
		modelProviders: make(map[string]bind_group_provider.BindGroupProvider),
	}

	for _, opt := range options {
		opt(v)
	}

	if v.win == nil {
		win, err := window.NewWindow()
		if err != nil {
			return nil, err
		}
		v.win = win
	}
	if v.scn == nil {
		v.scn = scene.NewScene()
	}
	if v.adapter == nil {
		v.adapter = input.NewAdapter()
	}
	if v.prof == nil {
		v.prof = profiler.NewProfiler(v.log)
	}
	if v.rnd == nil {
		rnd, err := renderer.NewRenderer(renderer.BackendTypeWGPU, v.win, v.rendererOptions...)
		if err != nil {
			return nil, err
		}
		v.rnd = rnd
		v.ownsRenderer = true
	}

	v.adapter.Attach(v.win)
	v.scn.Camera().SetAspect(float32(v.win.Width()) / float32(v.win.Height()))

	if err := v.initGPUResources(); err != nil {
		return nil, err
	}

	return v, nil
}

// initGPUResources registers the render pipelines and creates the frame
// uniform provider. Called at construction and again after a renderer rebuild.
func (v *viewer) initGPUResources() error {
	meshPipeline := pipeline.NewPipeline(meshPipelineKey,
		pipeline.WithVertexShader(shader.MeshVertexShader()),
		pipeline.WithFragmentShader(shader.MeshFragmentShader()),
	)
	// The edge overlay draws on top of coplanar triangles: line-list topology,
	// a negative depth bias so lines win the depth test, and no depth writes so
	// lines never occlude the fill pass.
	edgePipeline := pipeline.NewPipeline(edgePipelineKey,
		pipeline.WithVertexShader(shader.MeshVertexShader()),
		pipeline.WithFragmentShader(shader.LineFragmentShader()),
		pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
		pipeline.WithDepthBias(-2, -2.0),
		pipeline.WithDepthWriteEnabled(false),
	)
	if err := v.rnd.RegisterPipelines(meshPipeline, edgePipeline); err != nil {
		return err
	}

	v.frameProvider = bind_group_provider.NewBindGroupProvider("frame_data")
	frameData := scene.GPUFrameData{}
	return v.rnd.InitBindGroup(
		v.frameProvider,
		shader.FrameBindGroupLayoutDescriptor(),
		nil,
		map[int]uint64{0: uint64(frameData.Size())},
	)
}

func (v *viewer) Window() window.Window {
	return v.win
}

func (v *viewer) Scene() scene.Scene {
	return v.scn
}

func (v *viewer) Renderer() renderer.Renderer {
	return v.rnd
}

func (v *viewer) DrawConfig() DrawConfig {
	v.mu.Lock()
	defer v.mu.Unlock()
	return DrawConfig{DrawModel: v.drawModel, DrawMesh: v.drawMesh}
}

func (v *viewer) SetDrawConfig(cfg DrawConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drawModel = cfg.DrawModel
	v.drawMesh = cfg.DrawMesh
}

func (v *viewer) Focus() {
	radius := v.scn.BoundingRadius()
	if radius <= 0 {
		return
	}
	v.scn.Camera().FocusOn(0, 0, 0, radius)
}

func (v *viewer) EnableProfiler() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.profilingEnabled = true
}

func (v *viewer) DisableProfiler() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.profilingEnabled = false
}

func (v *viewer) Run() {
	v.win.SetUpdateCallback(func() {
		if err := v.Tick(); err != nil {
			v.log.WithError(err).Error("render loop stopped")
			_ = v.Close()
		}
	})
	v.win.ProcessMessages()
}

func (v *viewer) Tick() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	if closing := v.applyCommands(v.adapter.Drain()); closing {
		return v.Close()
	}

	// Apply any pending resize before acquiring the next frame, so the
	// swapchain never presents at a stale size.
	v.mu.Lock()
	width, height := v.pendingWidth, v.pendingHeight
	v.pendingWidth, v.pendingHeight = 0, 0
	v.mu.Unlock()
	if width > 0 && height > 0 {
		if err := v.rnd.Resize(width, height); err != nil {
			return err
		}
	}

	if err := v.syncModelBuffers(); err != nil {
		return err
	}

	snapshots := v.scn.Models()
	if err := v.writeUniforms(snapshots); err != nil {
		return err
	}

	if err := v.rnd.BeginFrame(); err != nil {
		if errors.Is(err, renderer.ErrDeviceLost) {
			return v.rebuildRenderer()
		}
		// Transient acquisition failure — skip this frame.
		v.log.WithError(err).Warn("skipping frame")
		return nil
	}

	cfg := v.DrawConfig()
	for _, snap := range snapshots {
		provider := v.modelProviders[snap.ID]
		if provider == nil {
			continue
		}
		bindGroups := []bind_group_provider.BindGroupProvider{v.frameProvider, provider}
		if cfg.DrawModel {
			if err := v.rnd.DrawCall(meshPipelineKey, provider, 1, bindGroups); err != nil {
				return err
			}
		}
		if cfg.DrawMesh {
			if err := v.rnd.DrawEdges(edgePipelineKey, provider, 1, bindGroups); err != nil {
				return err
			}
		}
	}

	v.rnd.EndFrame()
	v.rnd.Present()

	v.mu.Lock()
	profile := v.profilingEnabled
	v.mu.Unlock()
	if profile && v.prof != nil {
		v.prof.Tick()
	}

	return nil
}

// applyCommands applies drained input commands to the camera and viewer state.
// Returns true when a close was requested.
func (v *viewer) applyCommands(cmds []input.Command) bool {
	cam := v.scn.Camera()
	ctrl := cam.Controller()

	for _, cmd := range cmds {
		switch cmd.Type {
		case input.CommandOrbit:
			if ctrl == nil {
				continue
			}
			sens := ctrl.MouseSensitivity()
			// Screen y grows downward; dragging up raises the camera.
			ctrl.Orbit(cmd.DeltaX*sens, -cmd.DeltaY*sens)
		case input.CommandPan:
			if ctrl == nil {
				continue
			}
			// Dragging moves the model with the cursor, so the target shifts
			// the opposite way.
			ctrl.Pan(-cmd.DeltaX*panPixelScale, cmd.DeltaY*panPixelScale)
		case input.CommandZoom:
			if ctrl == nil {
				continue
			}
			ctrl.Zoom(cmd.Zoom)
		case input.CommandResize:
			if cmd.Width <= 0 || cmd.Height <= 0 {
				continue
			}
			v.mu.Lock()
			v.pendingWidth, v.pendingHeight = cmd.Width, cmd.Height
			v.mu.Unlock()
			cam.SetAspect(float32(cmd.Width) / float32(cmd.Height))
		case input.CommandFocus:
			v.Focus()
		case input.CommandToggleModel:
			v.mu.Lock()
			v.drawModel = !v.drawModel
			v.mu.Unlock()
		case input.CommandToggleMesh:
			v.mu.Lock()
			v.drawMesh = !v.drawMesh
			v.mu.Unlock()
		case input.CommandClose:
			return true
		}
	}
	return false
}

// syncModelBuffers uploads geometry for models whose generation differs from
// the one their GPU buffers were built from, and releases providers whose
// models left the scene.
func (v *viewer) syncModelBuffers() error {
	snapshots := v.scn.Models()

	live := make(map[string]bool, len(snapshots))
	var staleIDs []string
	for _, snap := range snapshots {
		live[snap.ID] = true
		provider := v.modelProviders[snap.ID]
		if provider == nil || provider.Generation() != snap.Generation {
			staleIDs = append(staleIDs, snap.ID)
		}
	}

	for id, provider := range v.modelProviders {
		if !live[id] {
			provider.Release()
			delete(v.modelProviders, id)
		}
	}

	if len(staleIDs) == 0 {
		return nil
	}

	layouts, err := v.scn.BuildLayouts(staleIDs...)
	if err != nil {
		return err
	}

	for _, result := range layouts {
		provider := v.modelProviders[result.ID]
		if provider == nil {
			provider = bind_group_provider.NewBindGroupProvider("model " + result.ID)
			modelData := scene.GPUModelData{}
			if err := v.rnd.InitBindGroup(
				provider,
				shader.ModelBindGroupLayoutDescriptor(),
				nil,
				map[int]uint64{0: uint64(modelData.Size())},
			); err != nil {
				provider.Release()
				return err
			}
			v.modelProviders[result.ID] = provider
		}

		if err := v.rnd.InitMeshBuffers(
			provider,
			result.Layout.VertexData,
			result.Layout.IndexData,
			result.Layout.EdgeIndexData,
			result.Layout.IndexCount,
			result.Layout.EdgeIndexCount,
			result.Generation,
		); err != nil {
			return err
		}
	}
	return nil
}

// writeUniforms stages the frame and per-model uniform blocks and writes them
// to the GPU queue in a single batch.
func (v *viewer) writeUniforms(snapshots []scene.ModelSnapshot) error {
	frame := v.scn.FrameData()
	writes := []bind_group_provider.BufferWrite{
		{Provider: v.frameProvider, Binding: 0, Data: frame.Marshal()},
	}

	for _, snap := range snapshots {
		provider := v.modelProviders[snap.ID]
		if provider == nil {
			continue
		}
		modelData, ok := v.scn.ModelData(snap.ID)
		if !ok {
			continue
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: provider,
			Binding:  0,
			Data:     modelData.Marshal(),
		})
	}

	v.rnd.WriteBuffers(writes)
	return nil
}

// rebuildRenderer tears down the lost renderer and creates a fresh one against
// the same window surface. The scene is untouched; model providers are
// released so the next Tick re-uploads every mesh to the new device.
func (v *viewer) rebuildRenderer() error {
	if !v.ownsRenderer {
		return fmt.Errorf("%w: renderer was injected and cannot be rebuilt", renderer.ErrDeviceLost)
	}

	v.log.Warn("gpu device lost, rebuilding renderer")

	for id, provider := range v.modelProviders {
		provider.Release()
		delete(v.modelProviders, id)
	}
	if v.frameProvider != nil {
		v.frameProvider.Release()
		v.frameProvider = nil
	}
	v.rnd.Release()

	rnd, err := renderer.NewRenderer(renderer.BackendTypeWGPU, v.win, v.rendererOptions...)
	if err != nil {
		return err
	}
	v.rnd = rnd

	return v.initGPUResources()
}

func (v *viewer) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	for id, provider := range v.modelProviders {
		provider.Release()
		delete(v.modelProviders, id)
	}
	if v.frameProvider != nil {
		v.frameProvider.Release()
		v.frameProvider = nil
	}
	if v.rnd != nil {
		v.rnd.Release()
	}
	return v.win.Close()
}
