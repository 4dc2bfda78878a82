package light

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection is an option builder that sets the direction of the light and
// disables headlight tracking, since an explicit direction implies a fixed
// world-space light. The direction is normalized before storing; a zero vector
// is ignored.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		if d, ok := normalize3(x, y, z); ok {
			l.direction = d
			l.headlight = false
		}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithHeadlight is an option builder that sets whether the light tracks the
// camera's view direction each frame.
//
// Parameters:
//   - headlight: true to track the camera
//
// Returns:
//   - LightBuilderOption: a function that applies the headlight option to a lightImpl
func WithHeadlight(headlight bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.headlight = headlight
	}
}

// WithEnabled is an option builder that sets whether the light contributes to
// shading.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
