package input

import (
	"slices"
	"testing"

	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/app/apptest"
	"github.com/dodorz/xroagwem/internal/config"
)

const (
	buttonLeft  = 1
	buttonRight = 3
	button1Mask = 1 << 8
	button3Mask = 1 << 10
)

func press(button uint8, state uint16, x, y int) Event {
	return Event{Button: button, State: state, X: x, Y: y}
}

func motion(state uint16, x, y int) Event {
	return Event{State: state, X: x, Y: y}
}

func enter(w app.Window) Event {
	return Event{Window: w}
}

// =============================================================================
// Press and Release
// =============================================================================

func TestPressStartsGestureAndLocksFocus(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1, 2)

	if !h.HandleButtonPress(press(buttonLeft, config.Mod1, 500, 400)) {
		t.Fatal("mod1+left should start a move")
	}
	d := m.ActiveWorkspace().Drag
	if d.Window != 2 || d.Grab != app.GrabMove {
		t.Errorf("drag = %+v, want a move of window 2", d)
	}
	if d.AnchorX != 500 || d.AnchorY != 400 {
		t.Errorf("anchor = (%d,%d), want (500,400)", d.AnchorX, d.AnchorY)
	}
	r, _ := m.Geometry(2)
	if d.OffsetX != 500-r.X || d.OffsetY != 400-r.Y {
		t.Errorf("offset = (%d,%d), want pointer relative to %+v", d.OffsetX, d.OffsetY, r)
	}
	if !m.Active.FocusLocked {
		t.Error("focus should be locked during a gesture")
	}

	if !h.HandleButtonRelease(press(buttonLeft, config.Mod1|button1Mask, 500, 400)) {
		t.Fatal("release should fire")
	}
	if m.ActiveWorkspace().Drag.Active() {
		t.Error("release should clear the drag")
	}
	if m.Active.FocusLocked {
		t.Error("release should unlock focus")
	}
}

func TestPressModifierSubset(t *testing.T) {
	tests := []struct {
		name  string
		state uint16
		want  bool
	}{
		{"exact", config.Mod1, true},
		{"extra shift", config.Mod1 | config.ModShift, true},
		{"with numlock", config.Mod1 | config.Mod2, true},
		{"missing mod1", config.ModShift, false},
		{"none", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m, s, _ := newHandler(t, config.DefaultConfig())
			apptest.Manage(m, s, 1)

			got := h.HandleButtonPress(press(buttonLeft, tt.state, 10, 10))
			if got != tt.want {
				t.Errorf("fired = %v, want %v", got, tt.want)
			}
			if m.Active.FocusLocked != tt.want {
				t.Errorf("FocusLocked = %v, want %v", m.Active.FocusLocked, tt.want)
			}
		})
	}
}

func TestPressWithoutActiveWindow(t *testing.T) {
	h, m, _, _ := newHandler(t, config.DefaultConfig())
	h.HandleButtonPress(press(buttonLeft, config.Mod1, 10, 10))
	if m.Active.FocusLocked || m.ActiveWorkspace().Drag.Active() {
		t.Error("a gesture needs an active window")
	}
}

// =============================================================================
// Motion
// =============================================================================

// TestFloatingMoveHysteresis verifies that pointer travel within the
// threshold leaves the window alone and that crossing it moves the window
// once, by the full distance since the last applied point.
func TestFloatingMoveHysteresis(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1)
	m.ToggleFloating()
	start, _ := m.FloatRect(1)
	s.Reset()

	h.HandleButtonPress(press(buttonLeft, config.Mod1, 500, 400))
	h.HandleMotion(motion(config.Mod1|button1Mask, 530, 420))
	h.HandleMotion(motion(config.Mod1|button1Mask, 550, 450))
	if n := s.Count("configure", 1); n != 0 {
		t.Fatalf("%d configure requests within the threshold, want 0", n)
	}

	h.HandleMotion(motion(config.Mod1|button1Mask, 560, 400))
	if n := s.Count("configure", 1); n != 1 {
		t.Fatalf("%d configure requests after crossing the threshold, want 1", n)
	}
	r, _ := m.FloatRect(1)
	if want := start.Translate(60, 0); r != want {
		t.Errorf("rect = %+v, want %+v", r, want)
	}

	// The threshold is measured from the last applied point.
	h.HandleMotion(motion(config.Mod1|button1Mask, 600, 400))
	if n := s.Count("configure", 1); n != 1 {
		t.Errorf("%d configure requests, want still 1", n)
	}
}

func TestFloatingResize(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1)
	m.ToggleFloating()
	start, _ := m.FloatRect(1)

	h.HandleButtonPress(press(buttonRight, config.Mod1, 500, 400))
	h.HandleMotion(motion(button3Mask, 600, 470))
	r, _ := m.FloatRect(1)
	if want := start.Grow(100, 70); r != want {
		t.Errorf("rect = %+v, want %+v", r, want)
	}
}

func TestTiledResizeDragsSplit(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1, 2)
	k := m.ActiveWorkspace()
	if k.Split != 500 {
		t.Fatalf("initial split = %d, want 500", k.Split)
	}

	h.HandleButtonPress(press(buttonRight, config.Mod1, 500, 300))
	steps := []struct {
		x, y  int
		split int
	}{
		{540, 300, 500}, // within threshold
		{500, 500, 500}, // vertical travel is ignored
		{560, 300, 560},
		{580, 300, 560},
		{500, 300, 500},
	}
	for _, st := range steps {
		h.HandleMotion(motion(button3Mask, st.x, st.y))
		if k.Split != st.split {
			t.Errorf("after motion to (%d,%d) split = %d, want %d", st.x, st.y, k.Split, st.split)
		}
	}
}

func TestTiledMoveChangesNoGeometry(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1, 2)

	h.HandleButtonPress(press(buttonLeft, config.Mod1, 500, 300))
	h.HandleMotion(motion(button1Mask, 900, 700))
	if n := s.Count("configure", app.None); n != 0 {
		t.Errorf("%d configure requests, want 0", n)
	}
}

func TestMotionWithoutGesture(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1)
	m.ToggleFloating()
	s.Reset()

	h.HandleMotion(motion(0, 900, 700))
	if len(s.Calls) != 0 {
		t.Errorf("motion without a gesture issued %d requests", len(s.Calls))
	}
}

// =============================================================================
// Enter
// =============================================================================

func TestDragReorder(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1, 2, 3)

	h.HandleButtonPress(press(buttonLeft, config.Mod1, 100, 100))
	h.HandleEnter(enter(1))
	if got := m.ActiveWorkspace().Windows; !slices.Equal(got, []app.Window{3, 2, 1}) {
		t.Errorf("windows = %v, want [3 2 1]", got)
	}
	if m.Active.Window != 3 {
		t.Errorf("active = %d, focus must stay locked on the dragged window", m.Active.Window)
	}
}

func TestDragReorderSuppressed(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *app.WM)
		grab  uint8
		enter app.Window
	}{
		{"floating target", func(m *app.WM) {
			m.Focus(2)
			m.ToggleFloating()
			m.Focus(3)
		}, buttonLeft, 2},
		{"fullscreen target", func(m *app.WM) {
			m.Focus(1)
			m.ToggleFullscreen()
			m.Focus(3)
		}, buttonLeft, 1},
		{"unmanaged target", func(*app.WM) {}, buttonLeft, 99},
		{"resize grab", func(*app.WM) {}, buttonRight, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m, s, _ := newHandler(t, config.DefaultConfig())
			apptest.Manage(m, s, 1, 2, 3)
			tt.setup(m)

			h.HandleButtonPress(press(tt.grab, config.Mod1, 100, 100))
			h.HandleEnter(enter(tt.enter))
			if got := m.ActiveWorkspace().Windows; !slices.Equal(got, []app.Window{1, 2, 3}) {
				t.Errorf("windows = %v, want [1 2 3]", got)
			}
		})
	}
}

func TestEnterFocusesWhenUnlocked(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1, 2)

	h.HandleEnter(enter(1))
	if m.Active.Window != 1 {
		t.Errorf("active = %d, want 1", m.Active.Window)
	}
	if got := m.ActiveWorkspace().Windows; !slices.Equal(got, []app.Window{1, 2}) {
		t.Errorf("enter without a gesture reordered windows: %v", got)
	}
}

func TestButtonGrabs(t *testing.T) {
	h, _, _, _ := newHandler(t, config.DefaultConfig())
	grabs := h.ButtonGrabs()
	if len(grabs) != 8 {
		t.Errorf("got %d grabs, want 2 buttons x 4 lock variants", len(grabs))
	}
	for _, want := range []ButtonGrab{
		{Mods: config.Mod1, Button: buttonLeft},
		{Mods: config.Mod1 | config.ModLock | config.Mod2, Button: buttonRight},
	} {
		if !slices.Contains(grabs, want) {
			t.Errorf("missing grab %+v", want)
		}
	}
}
