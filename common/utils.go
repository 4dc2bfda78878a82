package common

// Coalesce returns value if it differs from the zero value of T, otherwise fallback.
//
// Parameters:
//   - value: the value to test
//   - fallback: the value returned when value is the zero value
//
// Returns:
//   - T: value or fallback
func Coalesce[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

// Clamp limits v to the inclusive range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - float32: the clamped value
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
