package app

import "github.com/dodorz/xroagwem/internal/layout"

// HandleMapRequest starts managing w when a client asks for it to be
// mapped. Windows whose attributes cannot be read and override-redirect
// windows are left alone.
func (m *WM) HandleMapRequest(w Window) {
	if k := m.WorkspaceOf(w); k >= 0 {
		if k == m.Active.Workspace {
			m.call("map", w, m.server.Map(w))
		}
		return
	}
	m.manage(w, false)
}

// ManageExisting adopts windows that were already mapped when the window
// manager started.
func (m *WM) ManageExisting(windows []Window) {
	for _, w := range windows {
		if !m.Manages(w) {
			m.manage(w, true)
		}
	}
}

func (m *WM) manage(w Window, mapped bool) {
	attrs, err := m.server.Attributes(w)
	if err != nil {
		m.LogDebug("ignoring window", "window", w, "err", err)
		return
	}
	if attrs.OverrideRedirect {
		return
	}
	m.call("select input", w, m.server.SelectInput(w))

	if !m.AddWindow(m.Active.Workspace, w) {
		return
	}
	k := m.ActiveWorkspace()
	c := k.clients[w]
	c.Rect = layout.Center(attrs.Width, attrs.Height, m.Bounds)
	if attrs.Transient && !k.TilingOnly {
		c.Class = Floating
	}
	if !mapped {
		m.hidden[w] = true
	}
	m.LogDebug("managing window", "window", w, "class", c.Class, "tag", k.Tag)

	m.Retile()
	m.Focus(w)
}

// HandleUnmapNotify treats a client unmapping its window as the window going
// away. Unmaps caused by hiding a workspace are swallowed.
func (m *WM) HandleUnmapNotify(w Window) {
	if n := m.ignoreUnmap[w]; n > 0 {
		if n == 1 {
			delete(m.ignoreUnmap, w)
		} else {
			m.ignoreUnmap[w] = n - 1
		}
		return
	}
	m.unmanage(w)
}

// HandleDestroyNotify forgets a destroyed window.
func (m *WM) HandleDestroyNotify(w Window) {
	delete(m.ignoreUnmap, w)
	m.unmanage(w)
}

func (m *WM) unmanage(w Window) {
	ws, idx, ok := m.remove(w)
	if !ok {
		return
	}
	m.LogDebug("unmanaged window", "window", w)

	if m.Active.Window == w {
		k := m.Workspaces[ws]
		next := None
		if n := len(k.Windows); n > 0 && ws == m.Active.Workspace {
			next = k.Windows[idx%n]
		}
		m.Focus(next)
	}
	m.Retile()
}

// HandleEnter focuses w when the pointer enters it, unless a gesture holds
// the focus lock.
func (m *WM) HandleEnter(w Window) {
	if m.Active.FocusLocked || w == m.Active.Window {
		return
	}
	if !m.ActiveWorkspace().Contains(w) {
		return
	}
	m.Focus(w)
	m.Retile()
}

// ConfigureRequest is a client's request to change its own geometry. Only
// the fields flagged by the Has* members were requested.
type ConfigureRequest struct {
	Window     Window
	Rect       layout.Rect
	HasX, HasY bool
	HasW, HasH bool
}

// HandleConfigureRequest answers a geometry request from a managed client.
// Floating windows get what they ask for; tiled and fullscreen windows are
// told their current geometry. It returns false for windows we do not
// manage, whose requests the caller forwards unchanged.
func (m *WM) HandleConfigureRequest(req ConfigureRequest) bool {
	ws := m.WorkspaceOf(req.Window)
	if ws < 0 {
		return false
	}
	k := m.Workspaces[ws]
	c := k.clients[req.Window]

	if c.Class == Floating {
		r := c.Rect
		if req.HasX {
			r.X = req.Rect.X
		}
		if req.HasY {
			r.Y = req.Rect.Y
		}
		if req.HasW {
			r.W = max(req.Rect.W, 1)
		}
		if req.HasH {
			r.H = max(req.Rect.H, 1)
		}
		c.Rect = r
		if ws == m.Active.Workspace {
			m.Place(req.Window, r, m.Border)
		}
		return true
	}

	r, border := m.placed[req.Window], m.Border
	if c.Class == Fullscreen {
		border = 0
	}
	m.call("configure notify", req.Window, m.server.SendConfigureNotify(req.Window, r, border))
	return true
}
