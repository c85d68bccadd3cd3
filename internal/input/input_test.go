package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestKeyEdges(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyM, glfw.Press)
	if !im.JustPressed(ActionToggleMode) || !im.IsActive(ActionToggleMode) {
		t.Fatalf("M press not seen as toggle-mode")
	}
	im.PostUpdate()
	if im.JustPressed(ActionToggleMode) {
		t.Errorf("JustPressed survived PostUpdate")
	}

	im.HandleKeyEvent(glfw.KeyM, glfw.Repeat)
	if im.JustPressed(ActionToggleMode) {
		t.Errorf("key repeat reported as a new press")
	}

	im.HandleKeyEvent(glfw.KeyM, glfw.Release)
	if !im.JustReleased(ActionToggleMode) || im.IsActive(ActionToggleMode) {
		t.Errorf("release not recorded")
	}
}

func TestQuitBindings(t *testing.T) {
	for _, key := range []glfw.Key{glfw.KeyEscape, glfw.KeyQ} {
		im := NewInputManager()
		im.HandleKeyEvent(key, glfw.Press)
		if !im.JustPressed(ActionQuit) {
			t.Errorf("key %v does not quit", key)
		}
	}
}

func TestArrowAndLetterKeysShareActions(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyLeft, glfw.Press)
	im.HandleKeyEvent(glfw.KeyS, glfw.Press)
	if !im.IsActive(ActionRotateLeft) || !im.IsActive(ActionRotateDown) {
		t.Errorf("rotation keys not active")
	}
	im.UnbindKey(glfw.KeyS)
	im.HandleKeyEvent(glfw.KeyS, glfw.Release)
	if !im.IsActive(ActionRotateDown) {
		t.Errorf("unbound key changed state")
	}
}

func TestDragDelta(t *testing.T) {
	im := NewInputManager()
	im.HandleMouseButtonEvent(glfw.MouseButtonLeft, glfw.Press)
	if !im.IsActive(ActionDrag) {
		t.Fatalf("left button does not start a drag")
	}

	im.HandleCursorPos(10, 10)
	im.HandleCursorPos(15, 7)
	im.HandleCursorPos(20, 4)
	if dx, dy := im.CursorDelta(); dx != 10 || dy != -6 {
		t.Errorf("CursorDelta() = %v, %v, want 10, -6", dx, dy)
	}
	im.PostUpdate()
	if dx, dy := im.CursorDelta(); dx != 0 || dy != 0 {
		t.Errorf("delta not cleared: %v, %v", dx, dy)
	}
}

func TestOutOfRangeAction(t *testing.T) {
	im := NewInputManager()
	im.SetActionState(ActionCount, true)
	if im.IsActive(ActionCount) || im.JustPressed(-1) {
		t.Errorf("out of range action reported active")
	}
	if ActionCount.String() != "unknown" || ActionQuit.String() != "quit" {
		t.Errorf("unexpected action names")
	}
}
