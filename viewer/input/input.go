package input

import (
	"sync"

	"github.com/Carmen-Shannon/facet-go/common"
	"github.com/Carmen-Shannon/facet-go/viewer/window"
)

// CommandType identifies the kind of viewer command produced from a raw input event.
type CommandType int

const (
	// CommandOrbit rotates the camera around its target by the command's pointer deltas.
	CommandOrbit CommandType = iota

	// CommandPan translates the camera target parallel to the view plane by the command's pointer deltas.
	CommandPan

	// CommandZoom moves the camera toward or away from its target by the command's zoom delta.
	CommandZoom

	// CommandResize resizes the render surface to the command's width and height.
	CommandResize

	// CommandFocus refits the camera to frame the current model.
	CommandFocus

	// CommandToggleModel toggles drawing of the filled model surfaces.
	CommandToggleModel

	// CommandToggleMesh toggles drawing of the wireframe mesh overlay.
	CommandToggleMesh

	// CommandClose requests the viewer to shut down.
	CommandClose
)

// Command is a single camera or viewer operation translated from a raw window event.
// Only the fields relevant to the command's Type are populated.
type Command struct {
	Type CommandType

	// DeltaX and DeltaY are pointer deltas in pixels for Orbit and Pan commands,
	// clamped per event so cursor warps never produce violent camera jumps.
	DeltaX float32
	DeltaY float32

	// Zoom is the scroll delta for Zoom commands, positive toward the target.
	Zoom float32

	// Width and Height are the new surface size in pixels for Resize commands.
	Width  int
	Height int
}

// Adapter translates raw window events into an ordered queue of viewer commands.
// Events are queued as they arrive on the window's event callbacks and consumed
// in order by the render loop via Drain, so input handling never blocks the
// windowing thread.
type Adapter interface {
	// Attach wires the adapter to a window's input callbacks. Any previously
	// attached callbacks on the window are replaced.
	//
	// Parameters:
	//   - win: the window whose events should feed this adapter
	Attach(win window.Window)

	// Drain removes and returns all queued commands in arrival order.
	// Returns nil when no commands are pending.
	//
	// Returns:
	//   - []Command: the pending commands, oldest first
	Drain() []Command

	// Push appends a command to the queue directly, bypassing the window
	// callbacks. When the queue is full the oldest command is dropped so the
	// most recent input always survives.
	//
	// Parameters:
	//   - cmd: the command to queue
	Push(cmd Command)
}

// inputAdapter is the implementation of the Adapter interface.
type inputAdapter struct {
	mu *sync.Mutex

	queue    []Command
	capacity int

	// maxPointerDelta clamps per-event cursor deltas in pixels.
	maxPointerDelta float32
	// maxZoomDelta clamps per-event scroll deltas.
	maxZoomDelta float32

	// Drag state. Left button drags orbit, right or middle button drags pan.
	orbitDragging bool
	panDragging   bool
	haveCursor    bool
	lastX, lastY  int32
}

var _ Adapter = &inputAdapter{}

// NewAdapter creates a new input Adapter with the provided options.
//
// Parameters:
//   - options: a variadic list of AdapterBuilderOption functions to configure the adapter
//
// Returns:
//   - Adapter: a new Adapter instance with the specified configuration
func NewAdapter(options ...AdapterBuilderOption) Adapter {
	a := &inputAdapter{
		mu:              &sync.Mutex{},
		capacity:        256,
		maxPointerDelta: 100.0,
		maxZoomDelta:    10.0,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *inputAdapter) Attach(win window.Window) {
	win.SetMouseButtonCallback(a.handleMouseButton)
	win.SetMouseMoveCallback(a.handleMouseMove)
	win.SetScrollCallback(a.handleScroll)
	win.SetKeyDownCallback(a.handleKeyDown)
	win.SetResizeCallback(a.handleResize)
	win.SetCloseCallback(func() {
		a.Push(Command{Type: CommandClose})
	})
}

func (a *inputAdapter) Drain() []Command {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.queue) == 0 {
		return nil
	}
	drained := a.queue
	a.queue = nil
	return drained
}

func (a *inputAdapter) Push(cmd Command) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pushLocked(cmd)
}

func (a *inputAdapter) pushLocked(cmd Command) {
	if len(a.queue) >= a.capacity {
		a.queue = a.queue[1:]
	}
	a.queue = append(a.queue, cmd)
}

func (a *inputAdapter) handleMouseButton(button window.MouseButton, pressed bool, x, y int32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch button {
	case window.MouseButtonLeft:
		a.orbitDragging = pressed
	case window.MouseButtonRight, window.MouseButtonMiddle:
		a.panDragging = pressed
	default:
		return
	}

	if pressed {
		a.lastX, a.lastY = x, y
		a.haveCursor = true
	}
}

func (a *inputAdapter) handleMouseMove(x, y int32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.haveCursor {
		a.lastX, a.lastY = x, y
		a.haveCursor = true
		return
	}

	dx := common.Clamp(float32(x-a.lastX), -a.maxPointerDelta, a.maxPointerDelta)
	dy := common.Clamp(float32(y-a.lastY), -a.maxPointerDelta, a.maxPointerDelta)
	a.lastX, a.lastY = x, y

	if dx == 0 && dy == 0 {
		return
	}

	// Orbit wins when both buttons are held, matching the drag that started first
	// is not tracked — a simultaneous orbit+pan drag is not a meaningful gesture.
	switch {
	case a.orbitDragging:
		a.pushLocked(Command{Type: CommandOrbit, DeltaX: dx, DeltaY: dy})
	case a.panDragging:
		a.pushLocked(Command{Type: CommandPan, DeltaX: dx, DeltaY: dy})
	}
}

func (a *inputAdapter) handleScroll(delta float32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if delta == 0 {
		return
	}
	a.pushLocked(Command{Type: CommandZoom, Zoom: common.Clamp(delta, -a.maxZoomDelta, a.maxZoomDelta)})
}

func (a *inputAdapter) handleKeyDown(keyCode uint32) {
	switch keyCode {
	case common.KeyEsc:
		a.Push(Command{Type: CommandClose})
	case common.KeySpace:
		a.Push(Command{Type: CommandFocus})
	case common.Key1:
		a.Push(Command{Type: CommandToggleModel})
	case common.Key2, common.KeyM:
		a.Push(Command{Type: CommandToggleMesh})
	}
}

func (a *inputAdapter) handleResize(width, height int) {
	a.Push(Command{Type: CommandResize, Width: width, Height: height})
}
