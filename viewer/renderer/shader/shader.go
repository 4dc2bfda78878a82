// package shader holds the WGSL sources used by the render pipelines together
// with the layout metadata the pipelines need: vertex buffer layouts and bind
// group layout descriptors. The layouts are declared explicitly in Go rather
// than reflected out of the WGSL; the shader surface is a single fixed vertex
// schema and two uniform blocks, so reflection would cost more than it saves.
// The WGSL sources are embedded at build time.
package shader

import (
	_ "embed"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/mesh.wgsl
var meshWGSL string

// ShaderType identifies the pipeline stage a shader entry point targets.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// FrameDataGroup is the bind group index of the per-frame uniform block.
const FrameDataGroup = 0

// ModelDataGroup is the bind group index of the per-model uniform block.
const ModelDataGroup = 1

// shader is the implementation of the Shader interface.
// It holds the persistent shader data required for pipeline creation.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	module     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a shader entry point. It exposes the
// shader's unique key, source code, entry point, and module descriptor needed
// for pipeline creation.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the type of the shader (vertex or fragment).
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType
}

var _ Shader = &shader{}

// NewShader creates a new Shader instance from WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the type of shader (vertex or fragment)
//   - source: the WGSL source code
//   - entryPoint: the entry point function name within the source
//
// Returns:
//   - Shader: a new Shader instance with the provided configuration
func NewShader(key string, shaderType ShaderType, source, entryPoint string) Shader {
	return &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
		entryPoint: entryPoint,
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		},
	}
}

// MeshVertexShader returns the vertex shader for the mesh render pipelines.
//
// Returns:
//   - Shader: the vs_main entry point of the embedded mesh shader
func MeshVertexShader() Shader {
	return NewShader("mesh_vs", ShaderTypeVertex, meshWGSL, "vs_main")
}

// MeshFragmentShader returns the lit fragment shader for the filled mesh pass.
//
// Returns:
//   - Shader: the fs_main entry point of the embedded mesh shader
func MeshFragmentShader() Shader {
	return NewShader("mesh_fs", ShaderTypeFragment, meshWGSL, "fs_main")
}

// LineFragmentShader returns the flat fragment shader for the wireframe
// overlay pass.
//
// Returns:
//   - Shader: the fs_line entry point of the embedded mesh shader
func LineFragmentShader() Shader {
	return NewShader("line_fs", ShaderTypeFragment, meshWGSL, "fs_line")
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

// MeshVertexLayout returns the vertex buffer layout matching the mesh
// package's GPUVertex schema: position, normal, and color, tightly packed at a
// 40-byte stride.
//
// Returns:
//   - []wgpu.VertexBufferLayout: the single vertex buffer layout
func MeshVertexLayout() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: 40,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
			},
		},
	}
}

// FrameBindGroupLayoutDescriptor returns the bind group layout descriptor for
// the per-frame uniform block at group 0.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the frame uniform layout
func FrameBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "frame_data",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	}
}

// ModelBindGroupLayoutDescriptor returns the bind group layout descriptor for
// the per-model uniform block at group 1.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the model uniform layout
func ModelBindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "model_data",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	}
}
