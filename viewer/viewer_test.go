package viewer

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/facet-go/common"
	"github.com/Carmen-Shannon/facet-go/viewer/input"
	"github.com/Carmen-Shannon/facet-go/viewer/mesh"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer/pipeline"
	"github.com/Carmen-Shannon/facet-go/viewer/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow satisfies window.Window without touching GLFW.
type fakeWindow struct {
	width, height int
	closed        bool
	onUpdate      func()
}

var _ window.Window = &fakeWindow{}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{width: 800, height: 600}
}

func (w *fakeWindow) SetUpdateCallback(callback func())          { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(func(width, height int))  {}
func (w *fakeWindow) SetScrollCallback(func(delta float32))      {}
func (w *fakeWindow) SetKeyDownCallback(func(keyCode uint32))    {}
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))      {}
func (w *fakeWindow) SetMouseButtonCallback(func(button window.MouseButton, pressed bool, x, y int32)) {
}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y int32))      {}
func (w *fakeWindow) SetCloseCallback(func())                    {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) IsRunning() bool                            { return !w.closed }
func (w *fakeWindow) Close() error                               { w.closed = true; return nil }
func (w *fakeWindow) ProcessMessages()                           {}
func (w *fakeWindow) Width() int                                 { return w.width }
func (w *fakeWindow) Height() int                                { return w.height }

// meshUpload records one InitMeshBuffers call on the fake renderer.
type meshUpload struct {
	label          string
	indexCount     int
	edgeIndexCount int
	generation     uint64
}

// fakeRenderer satisfies renderer.Renderer, recording every call. BeginFrame
// errors are consumed FIFO from beginFrameErrs. InitMeshBuffers mirrors the
// real backend's bookkeeping so generation-skip logic behaves the same.
type fakeRenderer struct {
	pipelines map[string]pipeline.Pipeline

	resizes       [][2]int
	uploads       []meshUpload
	bindGroups    int
	writes        [][]bind_group_provider.BufferWrite
	beginFrameErrs []error
	beginFrames   int
	draws         []string
	endFrames     int
	presents      int
	released      bool

	// ops records the relative order of Resize and BeginFrame calls.
	ops []string
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{pipelines: make(map[string]pipeline.Pipeline)}
}

func (r *fakeRenderer) Pipeline(key string) pipeline.Pipeline      { return r.pipelines[key] }
func (r *fakeRenderer) Pipelines() map[string]pipeline.Pipeline    { return r.pipelines }
func (r *fakeRenderer) SetPipeline(key string, p pipeline.Pipeline) { r.pipelines[key] = p }
func (r *fakeRenderer) SetPipelines(p map[string]pipeline.Pipeline) { r.pipelines = p }

func (r *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		r.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (r *fakeRenderer) Resize(width, height int) error {
	r.resizes = append(r.resizes, [2]int{width, height})
	r.ops = append(r.ops, "resize")
	return nil
}

func (r *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData, edgeIndexData []byte, indexCount, edgeIndexCount int, generation uint64) error {
	if generation != 0 && provider.Generation() == generation {
		return nil
	}
	r.uploads = append(r.uploads, meshUpload{
		label:          provider.Label(),
		indexCount:     indexCount,
		edgeIndexCount: edgeIndexCount,
		generation:     generation,
	})
	provider.SetIndexCount(indexCount)
	provider.SetEdgeIndexCount(edgeIndexCount)
	provider.SetGeneration(generation)
	return nil
}

func (r *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	r.bindGroups++
	return nil
}

func (r *fakeRenderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return nil
}

func (r *fakeRenderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return nil
}

func (r *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.writes = append(r.writes, writes)
}

func (r *fakeRenderer) BeginFrame() error {
	r.beginFrames++
	r.ops = append(r.ops, "beginFrame")
	if len(r.beginFrameErrs) == 0 {
		return nil
	}
	err := r.beginFrameErrs[0]
	r.beginFrameErrs = r.beginFrameErrs[1:]
	return err
}

func (r *fakeRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	if _, ok := r.pipelines[pipelineKey]; !ok {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	r.draws = append(r.draws, pipelineKey)
	return nil
}

func (r *fakeRenderer) DrawEdges(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	if _, ok := r.pipelines[pipelineKey]; !ok {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	r.draws = append(r.draws, pipelineKey)
	return nil
}

func (r *fakeRenderer) EndFrame()                             { r.endFrames++ }
func (r *fakeRenderer) Present()                              { r.presents++ }
func (r *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}
func (r *fakeRenderer) Release()                              { r.released = true }

func newTestViewer(t *testing.T) (*viewer, *fakeWindow, *fakeRenderer) {
	t.Helper()
	win := newFakeWindow()
	rnd := newFakeRenderer()
	v, err := NewViewer(WithWindow(win), WithRenderer(rnd))
	require.NoError(t, err)
	return v.(*viewer), win, rnd
}

func TestTickUploadsAndDrawsModel(t *testing.T) {
	v, _, rnd := newTestViewer(t)

	require.NoError(t, v.Scene().SetModel("cube", mesh.UnitCube([4]float32{1, 0, 0, 1})))

	require.NoError(t, v.Tick())

	require.Len(t, rnd.uploads, 1)
	assert.Equal(t, "model cube", rnd.uploads[0].label)
	assert.Equal(t, 36, rnd.uploads[0].indexCount)
	assert.Equal(t, 72, rnd.uploads[0].edgeIndexCount)
	assert.Equal(t, uint64(1), rnd.uploads[0].generation)
	assert.Equal(t, []string{meshPipelineKey}, rnd.draws)
	assert.Equal(t, 1, rnd.endFrames)
	assert.Equal(t, 1, rnd.presents)

	// A second tick with unchanged geometry draws again without re-uploading.
	require.NoError(t, v.Tick())
	assert.Len(t, rnd.uploads, 1)
	assert.Equal(t, []string{meshPipelineKey, meshPipelineKey}, rnd.draws)
}

func TestTickReuploadsWhenMeshReplaced(t *testing.T) {
	v, _, rnd := newTestViewer(t)

	require.NoError(t, v.Scene().SetModel("cube", mesh.UnitCube([4]float32{1, 0, 0, 1})))
	require.NoError(t, v.Tick())
	require.NoError(t, v.Scene().SetModel("cube", mesh.UnitCube([4]float32{0, 1, 0, 1})))
	require.NoError(t, v.Tick())

	require.Len(t, rnd.uploads, 2)
	assert.Equal(t, uint64(1), rnd.uploads[0].generation)
	assert.Equal(t, uint64(2), rnd.uploads[1].generation)
}

func TestTickWritesFrameAndModelUniforms(t *testing.T) {
	v, _, rnd := newTestViewer(t)

	require.NoError(t, v.Scene().SetModel("cube", mesh.UnitCube([4]float32{1, 1, 1, 1})))
	require.NoError(t, v.Tick())

	require.Len(t, rnd.writes, 1)
	batch := rnd.writes[0]
	require.Len(t, batch, 2)
	assert.Equal(t, "frame_data", batch[0].Provider.Label())
	assert.Len(t, batch[0].Data, 176)
	assert.Equal(t, "model cube", batch[1].Provider.Label())
	assert.Len(t, batch[1].Data, 64)
}

func TestResizeCommandAppliesBeforeFrameAcquisition(t *testing.T) {
	v, _, rnd := newTestViewer(t)

	v.adapter.Push(input.Command{Type: input.CommandResize, Width: 1600, Height: 1200})
	require.NoError(t, v.Tick())

	require.Len(t, rnd.resizes, 1)
	assert.Equal(t, [2]int{1600, 1200}, rnd.resizes[0])
	assert.Equal(t, []string{"resize", "beginFrame"}, rnd.ops)
	assert.InDelta(t, 1600.0/1200.0, float64(v.Scene().Camera().Aspect()), 1e-6)

	// The resize is consumed; the next tick does not reconfigure again.
	require.NoError(t, v.Tick())
	assert.Len(t, rnd.resizes, 1)
}

func TestToggleCommandsFlipDrawPasses(t *testing.T) {
	v, _, rnd := newTestViewer(t)
	require.NoError(t, v.Scene().SetModel("cube", mesh.UnitCube([4]float32{1, 0, 0, 1})))

	v.adapter.Push(input.Command{Type: input.CommandToggleModel})
	v.adapter.Push(input.Command{Type: input.CommandToggleMesh})
	require.NoError(t, v.Tick())

	assert.Equal(t, DrawConfig{DrawModel: false, DrawMesh: true}, v.DrawConfig())
	assert.Equal(t, []string{edgePipelineKey}, rnd.draws)
}

func TestCloseCommandTearsDown(t *testing.T) {
	v, win, rnd := newTestViewer(t)
	require.NoError(t, v.Scene().SetModel("cube", mesh.UnitCube([4]float32{1, 0, 0, 1})))
	require.NoError(t, v.Tick())

	v.adapter.Push(input.Command{Type: input.CommandClose})
	require.NoError(t, v.Tick())

	assert.True(t, win.closed)
	assert.True(t, rnd.released)
	assert.Empty(t, v.modelProviders)

	// Ticking a closed viewer is a no-op.
	frames := rnd.beginFrames
	require.NoError(t, v.Tick())
	assert.Equal(t, frames, rnd.beginFrames)
}

func TestTransientAcquisitionFailureSkipsFrame(t *testing.T) {
	v, _, rnd := newTestViewer(t)
	rnd.beginFrameErrs = []error{fmt.Errorf("%w: surface texture is outdated", renderer.ErrFrameAcquisitionFailed)}

	require.NoError(t, v.Tick())
	assert.Equal(t, 0, rnd.endFrames)
	assert.Equal(t, 0, rnd.presents)

	// The next tick renders normally.
	require.NoError(t, v.Tick())
	assert.Equal(t, 1, rnd.endFrames)
}

func TestDeviceLostWithInjectedRendererIsFatal(t *testing.T) {
	v, _, rnd := newTestViewer(t)
	rnd.beginFrameErrs = []error{fmt.Errorf("%w: the GPU went away", renderer.ErrDeviceLost)}

	err := v.Tick()
	require.Error(t, err)
	assert.ErrorIs(t, err, renderer.ErrDeviceLost)
}

func TestRemovedModelReleasesItsProvider(t *testing.T) {
	v, _, rnd := newTestViewer(t)
	require.NoError(t, v.Scene().SetModel("cube", mesh.UnitCube([4]float32{1, 0, 0, 1})))
	require.NoError(t, v.Tick())
	require.Len(t, v.modelProviders, 1)

	drawsBefore := len(rnd.draws)
	v.Scene().RemoveModel("cube")
	require.NoError(t, v.Tick())

	assert.Empty(t, v.modelProviders)
	assert.Len(t, rnd.draws, drawsBefore)
}

func TestOrbitCommandMovesCamera(t *testing.T) {
	v, _, _ := newTestViewer(t)
	ctrl := v.Scene().Camera().Controller()
	x0, _, _ := ctrl.Position()

	v.adapter.Push(input.Command{Type: input.CommandOrbit, DeltaX: 50, DeltaY: 0})
	require.NoError(t, v.Tick())

	x1, _, _ := ctrl.Position()
	assert.NotEqual(t, x0, x1)
}

func TestFocusCommandFitsCameraToScene(t *testing.T) {
	v, _, _ := newTestViewer(t)
	require.NoError(t, v.Scene().SetModel("cube", mesh.UnitCube([4]float32{1, 0, 0, 1})))
	ctrl := v.Scene().Camera().Controller()
	before := ctrl.Radius()

	v.adapter.Push(input.Command{Type: input.CommandFocus})
	require.NoError(t, v.Tick())

	assert.NotEqual(t, before, ctrl.Radius())
}

func TestNewViewerRegistersBothPipelines(t *testing.T) {
	_, _, rnd := newTestViewer(t)

	require.Contains(t, rnd.pipelines, meshPipelineKey)
	require.Contains(t, rnd.pipelines, edgePipelineKey)
	assert.Equal(t, 1, rnd.bindGroups) // frame uniform provider

	edge := rnd.pipelines[edgePipelineKey]
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, edge.Topology())
	assert.False(t, edge.DepthWriteEnabled())
	assert.Negative(t, edge.DepthBias())
}
