package app

import "github.com/dodorz/xroagwem/internal/layout"

// Retile places every window of the active workspace: tiled windows by the
// master/stack layout, floating windows at their own rectangle and fullscreen
// windows over the whole screen. Tiled windows are lowered to the bottom of
// the stack so floating ones stay above them, and fullscreen windows are
// raised above everything.
func (m *WM) Retile() {
	k := m.ActiveWorkspace()
	rects := layout.Compute(k.Tiled(), k.Split, m.Bounds, m.Gap, m.Border)

	for _, w := range k.Tiled() {
		m.Place(w, rects[w], m.Border)
	}
	for _, w := range k.Floating() {
		m.Place(w, k.clients[w].Rect, m.Border)
	}
	for _, w := range k.Fullscreen() {
		m.Place(w, m.Screen, 0)
	}

	for _, w := range k.Windows {
		if m.hidden[w] {
			delete(m.hidden, w)
			m.call("map", w, m.server.Map(w))
		}
	}
	for _, w := range k.Tiled() {
		m.call("lower", w, m.server.Lower(w))
	}
	for _, w := range k.Fullscreen() {
		m.call("raise", w, m.server.Raise(w))
	}

	if m.OnChange != nil {
		m.OnChange()
	}
}

// Place configures w to r and paints its border. Windows that are no longer
// managed are skipped with a warning, so a late notification can never make
// us touch a window that is gone.
func (m *WM) Place(w Window, r layout.Rect, border int) bool {
	if !m.Manages(w) {
		m.LogWarn("placement skipped", "window", w, "err", ErrStaleWindow)
		return false
	}
	m.call("configure", w, m.server.Configure(w, r, border))
	m.placed[w] = r

	token := BorderNormal
	if w == m.Active.Window {
		token = BorderFocused
	}
	m.call("border", w, m.server.SetBorderColor(w, token))
	return true
}
