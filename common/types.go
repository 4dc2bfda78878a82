// package common contains common types that are used throughout the viewer. They are not
// interface-wrapped structs, just plain structs that express commonly used data-types.
package common

import "github.com/cogentcore/webgpu/wgpu"

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// Pixels are raw decoded RGBA8 supplied by an external image-decode collaborator; the
// viewer core never parses compressed image formats itself.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture.
	// It must be in RGBA format, 4 bytes per pixel, row-major order.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero-valued fields fall back to linear/repeat defaults during GPU initialization.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture
	// coordinates outside the [0, 1] range in each dimension.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}
