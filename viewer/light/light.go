// package light holds the scene's light source model. The viewer shades with a
// single directional light plus a flat ambient term; the light either has a
// fixed world-space direction or tracks the camera as a headlight.
package light

import (
	"math"
	"sync"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	direction [3]float32
	color     [3]float32
	intensity float32
	headlight bool
	enabled   bool
}

// Light defines the interface for the scene's directional light source.
//
// The light contributes the diffuse term of the shading model: each fragment
// is lit by max(dot(normal, -direction), 0) scaled by color and intensity.
// When the light is a headlight its direction is overwritten every frame with
// the camera's view direction, so the model is always lit from the viewer's
// side regardless of orbiting.
type Light interface {
	// Direction returns the normalized world-space direction the light shines in.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Headlight returns whether the light tracks the camera's view direction.
	//
	// Returns:
	//   - bool: true if the light is a headlight
	Headlight() bool

	// Enabled returns whether this light contributes to shading. A disabled
	// light leaves only the ambient term.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetDirection sets the direction of the light and normalizes it.
	// A zero vector is ignored.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetHeadlight sets whether the light tracks the camera.
	//
	// Parameters:
	//   - headlight: true to track the camera's view direction
	SetHeadlight(headlight bool)

	// SetEnabled sets whether the light contributes to shading.
	//
	// Parameters:
	//   - enabled: true to enable the light
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new directional light. The default is an enabled white
// headlight at full intensity.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		direction: [3]float32{0, 0, -1},
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		headlight: true,
		enabled:   true,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Headlight() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.headlight
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if d, ok := normalize3(x, y, z); ok {
		l.direction = d
	}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetHeadlight(headlight bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.headlight = headlight
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// normalize3 returns the unit vector of (x, y, z). The second return is false
// for a near-zero input, which cannot be normalized.
func normalize3(x, y, z float32) ([3]float32, bool) {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if l < 1e-8 {
		return [3]float32{}, false
	}
	return [3]float32{x / l, y / l, z / l}, true
}
