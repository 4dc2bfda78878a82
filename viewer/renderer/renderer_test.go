package renderer

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/facet-go/common"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/facet-go/viewer/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type meshUpload struct {
	label          string
	vertexBytes    int
	indexBytes     int
	edgeIndexBytes int
	indexCount     int
	edgeIndexCount int
	generation     uint64
}

// fakeBackend is a scriptable wgpuRendererBackend used to exercise the
// renderer's retry and caching behavior without a GPU.
type fakeBackend struct {
	beginFrameErrs  []error
	beginFrameCalls int
	configureCalls  [][2]int
	configureErr    error
	registeredKeys  []string
	meshUploads     []meshUpload
	drawCalls       []string
	released        bool
}

var _ wgpuRendererBackend = &fakeBackend{}

func (f *fakeBackend) Device() *wgpu.Device            { return nil }
func (f *fakeBackend) Queue() *wgpu.Queue              { return nil }
func (f *fakeBackend) Instance() *wgpu.Instance        { return nil }
func (f *fakeBackend) Adapter() *wgpu.Adapter          { return nil }
func (f *fakeBackend) Surface() *wgpu.Surface          { return nil }
func (f *fakeBackend) SetDevice(_ *wgpu.Device)        {}
func (f *fakeBackend) SetQueue(_ *wgpu.Queue)          {}
func (f *fakeBackend) SetInstance(_ *wgpu.Instance)    {}
func (f *fakeBackend) SetAdapter(_ *wgpu.Adapter)      {}
func (f *fakeBackend) SetSurface(_ *wgpu.Surface)      {}
func (f *fakeBackend) SetPresentMode(_ PresentMode)    {}
func (f *fakeBackend) EndFrame()                       {}
func (f *fakeBackend) Present()                        {}
func (f *fakeBackend) Release()                        { f.released = true }

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.configureCalls = append(f.configureCalls, [2]int{width, height})
	return f.configureErr
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.registeredKeys = append(f.registeredKeys, p.PipelineKey())
	return nil
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData, edgeIndexData []byte, indexCount, edgeIndexCount int, generation uint64) error {
	f.meshUploads = append(f.meshUploads, meshUpload{
		label:          provider.Label(),
		vertexBytes:    len(vertexData),
		indexBytes:     len(indexData),
		edgeIndexBytes: len(edgeIndexData),
		indexCount:     indexCount,
		edgeIndexCount: edgeIndexCount,
		generation:     generation,
	})
	provider.SetIndexCount(indexCount)
	provider.SetEdgeIndexCount(edgeIndexCount)
	provider.SetGeneration(generation)
	return nil
}

func (f *fakeBackend) InitBindGroup(_ bind_group_provider.BindGroupProvider, _ wgpu.BindGroupLayoutDescriptor, _ map[int]wgpu.BufferUsage, _ map[int]uint64) error {
	return nil
}

func (f *fakeBackend) InitTextureView(_ bind_group_provider.BindGroupProvider, _ int, _ common.TextureStagingData) error {
	return nil
}

func (f *fakeBackend) InitSampler(_ bind_group_provider.BindGroupProvider, _ int, _ common.SamplerStagingData) error {
	return nil
}

func (f *fakeBackend) WriteBuffers(_ []bind_group_provider.BufferWrite) {}

func (f *fakeBackend) BeginFrame() error {
	f.beginFrameCalls++
	if len(f.beginFrameErrs) == 0 {
		return nil
	}
	err := f.beginFrameErrs[0]
	f.beginFrameErrs = f.beginFrameErrs[1:]
	return err
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, _ bind_group_provider.BindGroupProvider, _ uint32, _ []bind_group_provider.BindGroupProvider) {
	f.drawCalls = append(f.drawCalls, p.PipelineKey())
}

func (f *fakeBackend) DrawEdges(p pipeline.Pipeline, _ bind_group_provider.BindGroupProvider, _ uint32, _ []bind_group_provider.BindGroupProvider) {
	f.drawCalls = append(f.drawCalls, p.PipelineKey()+" edges")
}

func newTestRenderer(backend *fakeBackend) *renderer {
	return &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   BackendTypeWGPU,
		backend:       backend,
		surfaceWidth:  800,
		surfaceHeight: 600,
	}
}

func TestBeginFrameRetriesAfterOutdatedSurface(t *testing.T) {
	backend := &fakeBackend{
		beginFrameErrs: []error{errors.New("Surface texture is outdated")},
	}
	r := newTestRenderer(backend)

	require.NoError(t, r.BeginFrame())
	assert.Equal(t, 2, backend.beginFrameCalls)
	require.Len(t, backend.configureCalls, 1)
	assert.Equal(t, [2]int{800, 600}, backend.configureCalls[0])
}

func TestBeginFrameFailsAfterSingleRetry(t *testing.T) {
	acquireErr := errors.New("Surface texture is outdated")
	backend := &fakeBackend{
		beginFrameErrs: []error{acquireErr, acquireErr, acquireErr},
	}
	r := newTestRenderer(backend)

	err := r.BeginFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFrameAcquisitionFailed)
	// One initial attempt plus exactly one retry — never a loop.
	assert.Equal(t, 2, backend.beginFrameCalls)
	assert.Len(t, backend.configureCalls, 1)
}

func TestBeginFrameDeviceLostIsNotRetried(t *testing.T) {
	backend := &fakeBackend{
		beginFrameErrs: []error{errors.New("Device lost: the GPU went away")},
	}
	r := newTestRenderer(backend)

	err := r.BeginFrame()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceLost)
	assert.Equal(t, 1, backend.beginFrameCalls)
	assert.Empty(t, backend.configureCalls)
}

func TestBeginFrameRetryUsesResizedSurfaceSize(t *testing.T) {
	backend := &fakeBackend{
		beginFrameErrs: []error{errors.New("Surface texture is outdated")},
	}
	r := newTestRenderer(backend)

	require.NoError(t, r.Resize(1600, 1200))
	require.NoError(t, r.BeginFrame())

	require.Len(t, backend.configureCalls, 2)
	assert.Equal(t, [2]int{1600, 1200}, backend.configureCalls[0])
	assert.Equal(t, [2]int{1600, 1200}, backend.configureCalls[1])
}

func TestRegisterPipelinesSkipsDuplicateKeys(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)

	meshPipeline := pipeline.NewPipeline("mesh")
	linePipeline := pipeline.NewPipeline("mesh_edges")

	require.NoError(t, r.RegisterPipelines(meshPipeline, linePipeline))
	require.NoError(t, r.RegisterPipelines(meshPipeline))

	assert.Equal(t, []string{"mesh", "mesh_edges"}, backend.registeredKeys)
	assert.Same(t, meshPipeline, r.Pipeline("mesh"))
	assert.Same(t, linePipeline, r.Pipeline("mesh_edges"))
}

func TestDrawCallRequiresRegisteredPipeline(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)

	provider := bind_group_provider.NewBindGroupProvider("model 1")

	err := r.DrawCall("missing", provider, 1, nil)
	require.Error(t, err)
	assert.Empty(t, backend.drawCalls)

	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("mesh")))
	require.NoError(t, r.DrawCall("mesh", provider, 1, nil))
	require.NoError(t, r.DrawEdges("mesh", provider, 1, nil))
	assert.Equal(t, []string{"mesh", "mesh edges"}, backend.drawCalls)
}

func TestInitMeshBuffersDelegatesGeometryAndGeneration(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)

	provider := bind_group_provider.NewBindGroupProvider("model 7")
	vertexData := make([]byte, 8*40)
	indexData := make([]byte, 36*4)
	edgeIndexData := make([]byte, 72*4)

	require.NoError(t, r.InitMeshBuffers(provider, vertexData, indexData, edgeIndexData, 36, 72, 3))

	require.Len(t, backend.meshUploads, 1)
	upload := backend.meshUploads[0]
	assert.Equal(t, "model 7", upload.label)
	assert.Equal(t, len(vertexData), upload.vertexBytes)
	assert.Equal(t, len(indexData), upload.indexBytes)
	assert.Equal(t, len(edgeIndexData), upload.edgeIndexBytes)
	assert.Equal(t, 36, upload.indexCount)
	assert.Equal(t, 72, upload.edgeIndexCount)
	assert.Equal(t, uint64(3), upload.generation)
	assert.Equal(t, uint64(3), provider.Generation())
}

func TestReleaseReleasesBackend(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)

	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("mesh")))
	r.Release()

	assert.True(t, backend.released)
	assert.Empty(t, r.Pipelines())
}
