package camera

// CameraController defines the union interface for camera control systems.
// Controllers own positional state (position, target). Camera reads from the
// controller and computes view/projection matrices. Embeds both
// orbitCameraController and planarCameraController, enabling orbit and planar
// controls to work simultaneously from a single controller instance.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at/pivot point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the look-at/pivot point and recomputes position from
	// spherical coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Zoom adjusts the orbit radius multiplicatively: each unit of delta scales
	// the radius by a constant factor, so zoom steps feel uniform at any
	// distance. Positive delta zooms in (closer to target). The radius is
	// clamped to the [MinRadius, MaxRadius] bounds and can never reach zero or
	// go negative.
	//
	// Parameters:
	//   - delta: signed zoom amount, typically scroll wheel steps
	Zoom(delta float32)
}

// orbitCameraController defines orbit-specific control methods.
// Provides third-person orbit controls using spherical coordinates (radius,
// azimuth, elevation) relative to the target/pivot point.
type orbitCameraController interface {
	// Orbit rotates the camera around the target. Azimuth accumulates without
	// bound (full horizontal revolutions are allowed); elevation is clamped to
	// the [MinElevation, MaxElevation] bounds. Applying a huge elevation delta
	// twice lands on the same clamped pose as applying it once.
	//
	// Parameters:
	//   - deltaAzimuth: horizontal rotation in radians (positive = counterclockwise viewed from above)
	//   - deltaElevation: vertical rotation in radians (positive = upward)
	Orbit(deltaAzimuth, deltaElevation float32)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// MinRadius returns the minimum allowed orbit radius. Always positive.
	//
	// Returns:
	//   - float32: minimum zoom distance
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	//
	// Returns:
	//   - float32: maximum zoom distance
	MaxRadius() float32

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)

	// MinElevation returns the minimum allowed elevation angle.
	//
	// Returns:
	//   - float32: minimum elevation in radians
	MinElevation() float32

	// MaxElevation returns the maximum allowed elevation angle.
	//
	// Returns:
	//   - float32: maximum elevation in radians
	MaxElevation() float32

	// MouseSensitivity returns the mouse drag sensitivity multiplier applied to
	// pointer deltas before they become orbit radians.
	//
	// Returns:
	//   - float32: multiplier for mouse movement
	MouseSensitivity() float32

	// ZoomBase returns the multiplicative zoom factor per unit of zoom delta.
	//
	// Returns:
	//   - float32: zoom base, always > 1
	ZoomBase() float32
}

// planarCameraController defines planar translation control methods.
// Panning shifts both position and target by the same offset along the
// camera's local axes, preserving the orbit relationship. Pan offsets are
// scaled by the current radius so a given pointer drag moves the model by the
// same apparent screen distance regardless of zoom level.
type planarCameraController interface {
	// Pan translates the camera and target along the camera's local right and
	// up axes. Positive dx moves the view right, positive dy moves it up; the
	// model appears to move in the opposite direction, which matches dragging
	// the scene with the pointer.
	//
	// Parameters:
	//   - dx: horizontal pan amount in screen-relative units
	//   - dy: vertical pan amount in screen-relative units
	Pan(dx, dy float32)

	// PanSpeed returns the pan speed multiplier applied on top of the
	// radius-proportional scaling.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32
}
