package app

import "github.com/dodorz/xroagwem/internal/layout"

// ToggleFullscreen toggles the active window in and out of fullscreen.
func (m *WM) ToggleFullscreen() {
	if m.ToggleMembership(m.Active.Window, Fullscreen) {
		m.Retile()
	}
}

// ToggleFloating toggles the active window between tiled and floating.
func (m *WM) ToggleFloating() {
	if m.ToggleMembership(m.Active.Window, Floating) {
		m.Retile()
	}
}

// AdjustSplit moves the active workspace's split by delta pixels, within
// the split margin.
func (m *WM) AdjustSplit(delta int) {
	k := m.ActiveWorkspace()
	split := layout.ClampSplit(k.Split+delta, m.Bounds.W, m.SplitMargin)
	if split == k.Split {
		return
	}
	k.Split = split
	m.Retile()
}

// MoveActiveToWorkspace sends the active window to workspace i and focuses
// the master of the active workspace.
func (m *WM) MoveActiveToWorkspace(i int) {
	if !m.MoveWindowToWorkspace(m.Active.Window, i) {
		return
	}
	next := None
	if k := m.ActiveWorkspace(); len(k.Windows) > 0 {
		next = k.Windows[len(k.Windows)-1]
	}
	m.Retile()
	m.Focus(next)
}

// CloseActive asks the active window to close.
func (m *WM) CloseActive() {
	w := m.Active.Window
	if w == None || !m.Manages(w) {
		return
	}
	m.call("close", w, m.server.Close(w))
}

// NudgeFloating moves the active window by (dx, dy) if it is floating.
func (m *WM) NudgeFloating(dx, dy int) {
	if r, ok := m.FloatRect(m.Active.Window); ok {
		m.SetFloatRect(m.Active.Window, r.Translate(dx, dy))
	}
}

// ResizeFloating grows the active window by (dw, dh) if it is floating.
func (m *WM) ResizeFloating(dw, dh int) {
	if r, ok := m.FloatRect(m.Active.Window); ok {
		m.SetFloatRect(m.Active.Window, r.Grow(dw, dh))
	}
}

// FloatRect returns the floating rectangle of w. ok is false unless w is
// rendered as a floating window.
func (m *WM) FloatRect(w Window) (r layout.Rect, ok bool) {
	ws := m.WorkspaceOf(w)
	if ws < 0 {
		return layout.Rect{}, false
	}
	c := m.Workspaces[ws].clients[w]
	if c.Class != Floating {
		return layout.Rect{}, false
	}
	return c.Rect, true
}

// SetFloatRect stores r as the floating rectangle of w and places the
// window there. It does nothing unless w is rendered as floating.
func (m *WM) SetFloatRect(w Window, r layout.Rect) bool {
	ws := m.WorkspaceOf(w)
	if ws < 0 {
		m.LogWarn("placement skipped", "window", w, "err", ErrStaleWindow)
		return false
	}
	c := m.Workspaces[ws].clients[w]
	if c.Class != Floating {
		return false
	}
	c.Rect = r
	if ws != m.Active.Workspace {
		return true
	}
	return m.Place(w, r, m.Border)
}
