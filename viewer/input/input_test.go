package input

import (
	"testing"

	"github.com/Carmen-Shannon/facet-go/common"
	"github.com/Carmen-Shannon/facet-go/viewer/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeftDragProducesOrbitCommands(t *testing.T) {
	a := NewAdapter().(*inputAdapter)

	a.handleMouseButton(window.MouseButtonLeft, true, 100, 100)
	a.handleMouseMove(110, 95)
	a.handleMouseMove(112, 95)
	a.handleMouseButton(window.MouseButtonLeft, false, 112, 95)
	a.handleMouseMove(200, 200) // no drag in progress

	cmds := a.Drain()
	require.Len(t, cmds, 2)
	assert.Equal(t, CommandOrbit, cmds[0].Type)
	assert.Equal(t, float32(10), cmds[0].DeltaX)
	assert.Equal(t, float32(-5), cmds[0].DeltaY)
	assert.Equal(t, CommandOrbit, cmds[1].Type)
	assert.Equal(t, float32(2), cmds[1].DeltaX)

	assert.Nil(t, a.Drain())
}

func TestRightAndMiddleDragProducePanCommands(t *testing.T) {
	a := NewAdapter().(*inputAdapter)

	a.handleMouseButton(window.MouseButtonRight, true, 50, 50)
	a.handleMouseMove(45, 60)
	a.handleMouseButton(window.MouseButtonRight, false, 45, 60)

	a.handleMouseButton(window.MouseButtonMiddle, true, 45, 60)
	a.handleMouseMove(46, 60)
	a.handleMouseButton(window.MouseButtonMiddle, false, 46, 60)

	cmds := a.Drain()
	require.Len(t, cmds, 2)
	assert.Equal(t, CommandPan, cmds[0].Type)
	assert.Equal(t, float32(-5), cmds[0].DeltaX)
	assert.Equal(t, float32(10), cmds[0].DeltaY)
	assert.Equal(t, CommandPan, cmds[1].Type)
	assert.Equal(t, float32(1), cmds[1].DeltaX)
}

func TestPointerDeltaClampedPerEvent(t *testing.T) {
	a := NewAdapter(WithMaxPointerDelta(100)).(*inputAdapter)

	// A cursor warp across the screen must not fling the camera.
	a.handleMouseButton(window.MouseButtonLeft, true, 0, 0)
	a.handleMouseMove(1500, -900)

	cmds := a.Drain()
	require.Len(t, cmds, 1)
	assert.Equal(t, float32(100), cmds[0].DeltaX)
	assert.Equal(t, float32(-100), cmds[0].DeltaY)
}

func TestScrollProducesClampedZoom(t *testing.T) {
	a := NewAdapter(WithMaxZoomDelta(10)).(*inputAdapter)

	a.handleScroll(1.5)
	a.handleScroll(-80)
	a.handleScroll(0) // no-op

	cmds := a.Drain()
	require.Len(t, cmds, 2)
	assert.Equal(t, CommandZoom, cmds[0].Type)
	assert.Equal(t, float32(1.5), cmds[0].Zoom)
	assert.Equal(t, float32(-10), cmds[1].Zoom)
}

func TestKeyBindings(t *testing.T) {
	a := NewAdapter().(*inputAdapter)

	a.handleKeyDown(common.KeyEsc)
	a.handleKeyDown(common.KeySpace)
	a.handleKeyDown(common.Key1)
	a.handleKeyDown(common.Key2)
	a.handleKeyDown(common.KeyM)
	a.handleKeyDown(65) // unbound key

	cmds := a.Drain()
	require.Len(t, cmds, 5)
	assert.Equal(t, CommandClose, cmds[0].Type)
	assert.Equal(t, CommandFocus, cmds[1].Type)
	assert.Equal(t, CommandToggleModel, cmds[2].Type)
	assert.Equal(t, CommandToggleMesh, cmds[3].Type)
	assert.Equal(t, CommandToggleMesh, cmds[4].Type)
}

func TestResizeCommandCarriesSize(t *testing.T) {
	a := NewAdapter().(*inputAdapter)

	a.handleResize(1600, 1200)

	cmds := a.Drain()
	require.Len(t, cmds, 1)
	assert.Equal(t, CommandResize, cmds[0].Type)
	assert.Equal(t, 1600, cmds[0].Width)
	assert.Equal(t, 1200, cmds[0].Height)
}

func TestFullQueueDropsOldestCommand(t *testing.T) {
	a := NewAdapter(WithQueueCapacity(2))

	a.Push(Command{Type: CommandOrbit})
	a.Push(Command{Type: CommandPan})
	a.Push(Command{Type: CommandZoom})

	cmds := a.Drain()
	require.Len(t, cmds, 2)
	assert.Equal(t, CommandPan, cmds[0].Type)
	assert.Equal(t, CommandZoom, cmds[1].Type)
}
