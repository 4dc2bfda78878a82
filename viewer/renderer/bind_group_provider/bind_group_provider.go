package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed. They are populated by the Renderer during initialization, not by user-creation.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized with the Renderer.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the GPU bind group layout created for this provider, or nil if not initialized with the Renderer.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the GPU uniform buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// textureViews holds the GPU texture views created for this provider, keyed by binding index.
	textureViews map[int]*wgpu.TextureView
	// samplers holds the GPU samplers created for this provider, keyed by binding index.
	samplers map[int]*wgpu.Sampler

	// The following fields hold the mesh geometry buffers and their occupancy bookkeeping.

	// vertexBuffer is the GPU vertex buffer created for this provider, or nil if not initialized with the Renderer.
	vertexBuffer *wgpu.Buffer
	// vertexCapacity is the allocated byte size of vertexBuffer. Uploads smaller
	// than the capacity reuse the buffer instead of reallocating.
	vertexCapacity int
	// indexBuffer is the GPU triangle index buffer, or nil if not initialized with the Renderer.
	indexBuffer *wgpu.Buffer
	// indexCapacity is the allocated byte size of indexBuffer.
	indexCapacity int
	// indexCount is the number of indices for draw calls, used by the Renderer to issue drawIndexed calls for this provider.
	indexCount int
	// edgeIndexBuffer is the GPU line-list index buffer for the wireframe overlay, or nil.
	edgeIndexBuffer *wgpu.Buffer
	// edgeIndexCapacity is the allocated byte size of edgeIndexBuffer.
	edgeIndexCapacity int
	// edgeIndexCount is the number of line-list indices for wireframe draw calls.
	edgeIndexCount int

	// generation records which mesh revision the geometry buffers hold, so the
	// render layer can tell stale buffers from current ones.
	generation uint64
}

// BindGroupProvider defines the interface for components that require GPU bind
// group resources. Components hold a BindGroupProvider to describe their GPU
// binding requirements. The Renderer then uses this provider to initialize and
// update GPU resources.
//
// Usage pattern:
//  1. Component creates a BindGroupProvider with a unique label
//  2. Renderer.InitBindGroup(provider, ...) creates the GPU resources
//  3. Renderer.WriteBuffers(...) updates uniform contents
//  4. Renderer.InitMeshBuffers(provider, ...) uploads geometry
//  5. The render loop reads BindGroup()/VertexBuffer()/IndexBuffer() for draw calls
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider.
	// It will clean up all buffers and bind groups, and remove them from the map or slice they belonged to.
	Release()

	// Label returns the debug label for this provider.
	// Used for debugging and profiling purposes.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout for this provider.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the created uniform buffer for data writes.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Buffers returns a map of all buffers associated with this provider, keyed by binding index.
	//
	// Returns:
	//   - map[int]*wgpu.Buffer: a map of buffers keyed by binding index
	Buffers() map[int]*wgpu.Buffer

	// TextureView returns the GPU texture view for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the GPU sampler for a specific binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the GPU vertex buffer, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer or nil
	VertexBuffer() *wgpu.Buffer

	// VertexCapacity returns the allocated byte size of the vertex buffer.
	//
	// Returns:
	//   - int: the vertex buffer capacity in bytes
	VertexCapacity() int

	// IndexBuffer returns the GPU triangle index buffer, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer or nil
	IndexBuffer() *wgpu.Buffer

	// IndexCapacity returns the allocated byte size of the index buffer.
	//
	// Returns:
	//   - int: the index buffer capacity in bytes
	IndexCapacity() int

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// EdgeIndexBuffer returns the GPU line-list index buffer for the wireframe
	// overlay, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the edge index buffer or nil
	EdgeIndexBuffer() *wgpu.Buffer

	// EdgeIndexCapacity returns the allocated byte size of the edge index buffer.
	//
	// Returns:
	//   - int: the edge index buffer capacity in bytes
	EdgeIndexCapacity() int

	// EdgeIndexCount returns the number of line-list indices for wireframe draw calls.
	//
	// Returns:
	//   - int: the edge index count
	EdgeIndexCount() int

	// Generation returns the mesh revision the geometry buffers currently hold.
	//
	// Returns:
	//   - uint64: the buffer generation, 0 before the first upload
	Generation() uint64

	// SetBindGroup sets the bind group after GPU initialization.
	// Called by Renderer.InitBindGroup().
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout after GPU initialization.
	// Called by Renderer.InitBindGroup().
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer sets a uniform buffer after GPU initialization.
	// Called by Renderer.InitBindGroup().
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView stores a GPU texture view for a specific binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to store
	SetTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler stores a GPU sampler for a specific binding.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to store
	SetSampler(binding int, s *wgpu.Sampler)

	// SetVertexBuffer stores the GPU vertex buffer and its allocated capacity
	// after creation by InitMeshBuffers.
	//
	// Parameters:
	//   - buf: the created vertex buffer
	//   - capacity: the allocated byte size
	SetVertexBuffer(buf *wgpu.Buffer, capacity int)

	// SetIndexBuffer stores the GPU index buffer and its allocated capacity
	// after creation by InitMeshBuffers.
	//
	// Parameters:
	//   - buf: the created index buffer
	//   - capacity: the allocated byte size
	SetIndexBuffer(buf *wgpu.Buffer, capacity int)

	// SetIndexCount sets the number of indices for draw calls.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)

	// SetEdgeIndexBuffer stores the GPU edge index buffer and its allocated
	// capacity after creation by InitMeshBuffers.
	//
	// Parameters:
	//   - buf: the created edge index buffer
	//   - capacity: the allocated byte size
	SetEdgeIndexBuffer(buf *wgpu.Buffer, capacity int)

	// SetEdgeIndexCount sets the number of line-list indices for wireframe draw calls.
	//
	// Parameters:
	//   - count: the edge index count
	SetEdgeIndexCount(count int)

	// SetGeneration records the mesh revision the geometry buffers hold.
	//
	// Parameters:
	//   - generation: the mesh revision
	SetGeneration(generation uint64)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: a debug label for the provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]*wgpu.Buffer {
	return p.buffers
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) VertexCapacity() int {
	return p.vertexCapacity
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCapacity() int {
	return p.indexCapacity
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) EdgeIndexBuffer() *wgpu.Buffer {
	return p.edgeIndexBuffer
}

func (p *bindGroupProvider) EdgeIndexCapacity() int {
	return p.edgeIndexCapacity
}

func (p *bindGroupProvider) EdgeIndexCount() int {
	return p.edgeIndexCount
}

func (p *bindGroupProvider) Generation() uint64 {
	return p.generation
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	if p.textureViews == nil {
		p.textureViews = make(map[int]*wgpu.TextureView)
	}
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	if p.samplers == nil {
		p.samplers = make(map[int]*wgpu.Sampler)
	}
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer, capacity int) {
	p.vertexBuffer = buf
	p.vertexCapacity = capacity
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer, capacity int) {
	p.indexBuffer = buf
	p.indexCapacity = capacity
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) SetEdgeIndexBuffer(buf *wgpu.Buffer, capacity int) {
	p.edgeIndexBuffer = buf
	p.edgeIndexCapacity = capacity
}

func (p *bindGroupProvider) SetEdgeIndexCount(count int) {
	p.edgeIndexCount = count
}

func (p *bindGroupProvider) SetGeneration(generation uint64) {
	p.generation = generation
}

func (p *bindGroupProvider) Release() {
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
			delete(p.textureViews, i)
		}
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
			delete(p.samplers, i)
		}
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
			delete(p.buffers, i)
		}
	}

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
		p.vertexCapacity = 0
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
		p.indexCapacity = 0
	}
	if p.edgeIndexBuffer != nil {
		p.edgeIndexBuffer.Release()
		p.edgeIndexBuffer = nil
		p.edgeIndexCapacity = 0
	}
	p.indexCount = 0
	p.edgeIndexCount = 0
	p.generation = 0
}
