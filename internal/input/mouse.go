package input

import (
	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/config"
)

type pointerBinding struct {
	mods   uint16
	button uint8
	action string
}

// ButtonGrab is one passive button grab the server must install on the root
// window.
type ButtonGrab struct {
	Mods   uint16
	Button uint8
}

// loadPointerBindings fills the per-phase tables, in config order. Bindings
// that do not parse are skipped; ValidateConfig reports them.
func (h *Handler) loadPointerBindings(bindings []config.PointerConfig) {
	for _, p := range bindings {
		mods, err := config.ParseModifiers(p.Mods)
		if err != nil {
			continue
		}
		button, err := config.ParseButton(p.Button)
		if err != nil {
			continue
		}
		phase, err := config.ParsePhase(p.Phase)
		if err != nil {
			continue
		}
		h.pointer[phase] = append(h.pointer[phase], pointerBinding{mods: mods, button: button, action: p.Action})
	}
}

// ButtonGrabs returns the grabs needed for every press binding that names a
// button, once per lock variant.
func (h *Handler) ButtonGrabs() []ButtonGrab {
	var grabs []ButtonGrab
	seen := make(map[ButtonGrab]bool)
	for _, b := range h.pointer[config.PhasePress] {
		if b.button == 0 {
			continue
		}
		for _, v := range lockVariants {
			g := ButtonGrab{Mods: b.mods | v, Button: b.button}
			if !seen[g] {
				seen[g] = true
				grabs = append(grabs, g)
			}
		}
	}
	return grabs
}

// HandleButtonPress runs the first press binding whose button matches and
// whose modifiers are all held.
func (h *Handler) HandleButtonPress(ev Event) bool {
	return h.firstButton(config.PhasePress, ev)
}

// HandleButtonRelease runs the first release binding whose button matches
// and whose modifiers are all held.
func (h *Handler) HandleButtonRelease(ev Event) bool {
	return h.firstButton(config.PhaseRelease, ev)
}

func (h *Handler) firstButton(phase config.Phase, ev Event) bool {
	mods := CleanMask(ev.State)
	for _, b := range h.pointer[phase] {
		if b.button == ev.Button && mods&b.mods == b.mods {
			return h.dispatcher.Dispatch(b.action, h, Trigger{Event: ev})
		}
	}
	return false
}

// HandleMotion runs every move binding whose modifiers are held.
func (h *Handler) HandleMotion(ev Event) {
	h.every(config.PhaseMove, ev)
}

// HandleEnter applies focus-follows-pointer for ev.Window, then runs every
// enter binding whose modifiers are held.
func (h *Handler) HandleEnter(ev Event) {
	h.wm.HandleEnter(ev.Window)
	h.every(config.PhaseEnter, ev)
}

func (h *Handler) every(phase config.Phase, ev Event) {
	mods := CleanMask(ev.State)
	for _, b := range h.pointer[phase] {
		if mods&b.mods == b.mods {
			h.dispatcher.Dispatch(b.action, h, Trigger{Event: ev})
		}
	}
}

// =============================================================================
// Gestures
// =============================================================================

// beginGrab starts a gesture on the active window and locks focus until the
// gesture is released.
func (h *Handler) beginGrab(t Trigger, grab app.Grab) {
	m := h.wm
	w := m.Active.Window
	k := m.ActiveWorkspace()
	if w == app.None || !k.Contains(w) {
		return
	}
	r, _ := m.Geometry(w)
	k.Drag = app.DragState{
		Window:  w,
		Grab:    grab,
		AnchorX: t.X,
		AnchorY: t.Y,
		OffsetX: t.X - r.X,
		OffsetY: t.Y - r.Y,
		LastX:   t.X,
		LastY:   t.Y,
	}
	m.Active.FocusLocked = true
}

// dragMotion applies pointer travel to the gesture in progress once it
// exceeds the drag threshold, measured from the last applied position.
// Floating windows move or resize; a tiled resize drags the split; a tiled
// move only reorders, on enter.
func (h *Handler) dragMotion(t Trigger) {
	m := h.wm
	k := m.ActiveWorkspace()
	d := &k.Drag
	if !d.Active() {
		return
	}
	dx, dy := t.X-d.LastX, t.Y-d.LastY

	if r, ok := m.FloatRect(d.Window); ok {
		if abs(dx) <= h.threshold && abs(dy) <= h.threshold {
			return
		}
		if d.Grab == app.GrabMove {
			r = r.Translate(dx, dy)
		} else {
			r = r.Grow(dx, dy)
		}
		d.LastX, d.LastY = t.X, t.Y
		m.SetFloatRect(d.Window, r)
		return
	}

	if d.Grab != app.GrabResize || k.ClassOf(d.Window) != app.Tiled {
		return
	}
	if abs(dx) <= h.threshold {
		return
	}
	d.LastX, d.LastY = t.X, t.Y
	m.AdjustSplit(dx)
}

// dragReorder swaps the dragged tiled window with the tiled window the
// pointer entered.
func (h *Handler) dragReorder(t Trigger) {
	m := h.wm
	d := m.ActiveWorkspace().Drag
	if !d.Active() || d.Grab != app.GrabMove {
		return
	}
	if m.Swap(d.Window, t.Window) {
		m.Retile()
	}
}

// dragRelease ends the gesture and unlocks focus.
func (h *Handler) dragRelease(Trigger) {
	h.wm.ActiveWorkspace().Drag = app.DragState{}
	h.wm.Active.FocusLocked = false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
