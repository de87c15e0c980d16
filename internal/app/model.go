package app

import "slices"

// AddWindow appends w to workspace ws as a tiled window. It is a no-op if w
// is already managed anywhere or ws is out of range.
func (m *WM) AddWindow(ws int, w Window) bool {
	if w == None || ws < 0 || ws >= len(m.Workspaces) || m.Manages(w) {
		return false
	}
	k := m.Workspaces[ws]
	k.Windows = append(k.Windows, w)
	k.clients[w] = &Client{Class: Tiled}
	return true
}

// RemoveWindow drops w from whichever workspace holds it. It is a no-op if
// w is not managed. If w was the active window the active window becomes
// None and the caller has to focus something else.
func (m *WM) RemoveWindow(w Window) bool {
	_, _, ok := m.remove(w)
	if ok && m.Active.Window == w {
		m.Active.Window = None
	}
	return ok
}

// remove drops w and returns the workspace index and list position it had.
func (m *WM) remove(w Window) (ws, idx int, ok bool) {
	ws = m.WorkspaceOf(w)
	if ws < 0 {
		return -1, -1, false
	}
	k := m.Workspaces[ws]
	idx = slices.Index(k.Windows, w)
	k.Windows = slices.Delete(k.Windows, idx, idx+1)
	delete(k.clients, w)
	delete(m.placed, w)
	delete(m.hidden, w)

	if k.Drag.Window == w {
		k.Drag = DragState{}
		if ws == m.Active.Workspace {
			m.Active.FocusLocked = false
		}
	}
	return ws, idx, true
}

// MoveWindowToWorkspace moves w to the end of the target workspace's list,
// keeping its class and floating rectangle. If w was the active window the
// active window becomes None and the caller has to focus something else.
func (m *WM) MoveWindowToWorkspace(w Window, target int) bool {
	src := m.WorkspaceOf(w)
	if src < 0 || target < 0 || target >= len(m.Workspaces) || src == target {
		return false
	}
	from, to := m.Workspaces[src], m.Workspaces[target]
	c := from.clients[w]
	idx := slices.Index(from.Windows, w)
	from.Windows = slices.Delete(from.Windows, idx, idx+1)
	delete(from.clients, w)
	if from.Drag.Window == w {
		from.Drag = DragState{}
		m.Active.FocusLocked = false
	}

	to.Windows = append(to.Windows, w)
	to.clients[w] = c
	if to.TilingOnly {
		c.Class, c.restore = Tiled, Tiled
	}

	if target != m.Active.Workspace {
		m.hide(w)
	}
	if m.Active.Window == w {
		m.Active.Window = None
	}
	return true
}

// ToggleMembership adds w to, or removes it from, the selected class.
// Toggling Floating on a fullscreen window changes the class it returns to
// when it leaves fullscreen. Windows on tiling-only workspaces are left
// alone.
func (m *WM) ToggleMembership(w Window, sel Class) bool {
	ws := m.WorkspaceOf(w)
	if ws < 0 || sel == Tiled {
		return false
	}
	k := m.Workspaces[ws]
	if k.TilingOnly {
		return false
	}
	c := k.clients[w]
	switch sel {
	case Fullscreen:
		if c.Class == Fullscreen {
			c.Class, c.restore = c.restore, Tiled
		} else {
			c.Class, c.restore = Fullscreen, c.Class
		}
	case Floating:
		switch c.Class {
		case Fullscreen:
			c.restore = flip(c.restore)
		default:
			c.Class = flip(c.Class)
		}
	}
	return true
}

func flip(c Class) Class {
	if c == Floating {
		return Tiled
	}
	return Floating
}

// InClass reports whether w is a member of the selected class. A fullscreen
// window that was floating before going fullscreen is a member of both
// Fullscreen and Floating; for rendering, fullscreen wins.
func (m *WM) InClass(w Window, sel Class) bool {
	ws := m.WorkspaceOf(w)
	if ws < 0 {
		return false
	}
	c := m.Workspaces[ws].clients[w]
	switch sel {
	case Floating:
		return c.Class == Floating || (c.Class == Fullscreen && c.restore == Floating)
	default:
		return c.Class == sel
	}
}

// ClassOf returns the rendering class of w. Unmanaged windows report Tiled.
func (m *WM) ClassOf(w Window) Class {
	if ws := m.WorkspaceOf(w); ws >= 0 {
		return m.Workspaces[ws].ClassOf(w)
	}
	return Tiled
}

// Swap exchanges the list positions of a and b on the active workspace.
// Both must be tiled members of that workspace.
func (m *WM) Swap(a, b Window) bool {
	k := m.ActiveWorkspace()
	if a == b || !k.Contains(a) || !k.Contains(b) {
		return false
	}
	if k.ClassOf(a) != Tiled || k.ClassOf(b) != Tiled {
		return false
	}
	i, j := slices.Index(k.Windows, a), slices.Index(k.Windows, b)
	k.Windows[i], k.Windows[j] = k.Windows[j], k.Windows[i]
	return true
}
