package input

// AdapterBuilderOption is a functional option used to configure an Adapter during construction.
type AdapterBuilderOption func(*inputAdapter)

// WithQueueCapacity sets the maximum number of queued commands. When the queue
// is full the oldest command is dropped. Values below 1 are ignored.
//
// Parameters:
//   - capacity: the maximum queue length
//
// Returns:
//   - AdapterBuilderOption: a function that sets the queue capacity for this adapter
func WithQueueCapacity(capacity int) AdapterBuilderOption {
	return func(a *inputAdapter) {
		if capacity < 1 {
			return
		}
		a.capacity = capacity
	}
}

// WithMaxPointerDelta sets the per-event clamp for cursor movement deltas in
// pixels. Large deltas from cursor warps are truncated to this limit so a
// single event can never fling the camera. Values at or below 0 are ignored.
//
// Parameters:
//   - limit: the maximum absolute pointer delta per event
//
// Returns:
//   - AdapterBuilderOption: a function that sets the pointer delta clamp for this adapter
func WithMaxPointerDelta(limit float32) AdapterBuilderOption {
	return func(a *inputAdapter) {
		if limit <= 0 {
			return
		}
		a.maxPointerDelta = limit
	}
}

// WithMaxZoomDelta sets the per-event clamp for scroll wheel deltas.
// Values at or below 0 are ignored.
//
// Parameters:
//   - limit: the maximum absolute zoom delta per event
//
// Returns:
//   - AdapterBuilderOption: a function that sets the zoom delta clamp for this adapter
func WithMaxZoomDelta(limit float32) AdapterBuilderOption {
	return func(a *inputAdapter) {
		if limit <= 0 {
			return
		}
		a.maxZoomDelta = limit
	}
}
