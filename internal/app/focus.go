package app

import "slices"

// Focus makes w the active window, raises it and gives it input focus.
// Focusing None hands input focus to the root. A window that is not managed
// is logged and ignored.
func (m *WM) Focus(w Window) {
	if w != None && !m.Manages(w) {
		m.LogWarn("focus skipped", "window", w, "err", ErrStaleWindow)
		return
	}
	prev := m.Active.Window
	m.Active.Window = w

	if prev != w && m.Manages(prev) {
		m.call("border", prev, m.server.SetBorderColor(prev, BorderNormal))
	}
	if w == None {
		m.call("focus", None, m.server.SetInputFocus(None))
		return
	}
	m.call("border", w, m.server.SetBorderColor(w, BorderFocused))
	m.call("raise", w, m.server.Raise(w))
	m.call("focus", w, m.server.SetInputFocus(w))
}

// FocusNext focuses the window after the active one, wrapping around. If the
// active window is not on the active workspace the last window is focused.
func (m *WM) FocusNext() {
	m.cycle(1)
}

// FocusPrevious focuses the window before the active one, wrapping around.
// If the active window is not on the active workspace the first window is
// focused.
func (m *WM) FocusPrevious() {
	m.cycle(-1)
}

func (m *WM) cycle(dir int) {
	k := m.ActiveWorkspace()
	n := len(k.Windows)
	if n == 0 {
		return
	}
	next := 0
	switch i := slices.Index(k.Windows, m.Active.Window); {
	case i >= 0:
		next = (i + dir + n) % n
	case dir > 0:
		next = n - 1
	}
	m.Focus(k.Windows[next])
	m.Retile()
}

// SwitchWorkspace hides the current workspace and shows workspace i. The
// master of the new workspace becomes the active window, or None if it is
// empty. Out of range indices and the current index are ignored.
func (m *WM) SwitchWorkspace(i int) {
	if i < 0 || i >= len(m.Workspaces) || i == m.Active.Workspace {
		return
	}
	cur := m.ActiveWorkspace()
	for _, w := range cur.Windows {
		m.hide(w)
	}
	cur.Drag = DragState{}
	m.Active.FocusLocked = false

	m.lastWorkspace = m.Active.Workspace
	m.Active.Workspace = i
	m.LogDebug("switched workspace", "tag", m.Workspaces[i].Tag)

	m.Retile()
	next := None
	if k := m.Workspaces[i]; len(k.Windows) > 0 {
		next = k.Windows[len(k.Windows)-1]
	}
	m.Focus(next)
}

// SwitchToNextWorkspace shows the workspace after the active one, wrapping.
func (m *WM) SwitchToNextWorkspace() {
	n := len(m.Workspaces)
	m.SwitchWorkspace((m.Active.Workspace + 1) % n)
}

// SwitchToPreviousWorkspace shows the workspace before the active one,
// wrapping.
func (m *WM) SwitchToPreviousWorkspace() {
	n := len(m.Workspaces)
	m.SwitchWorkspace((m.Active.Workspace - 1 + n) % n)
}

// SwitchToLastWorkspace shows the workspace that was active before the
// current one.
func (m *WM) SwitchToLastWorkspace() {
	m.SwitchWorkspace(m.lastWorkspace)
}

// hide unmaps w and remembers that the resulting UnmapNotify is ours.
func (m *WM) hide(w Window) {
	if m.hidden[w] {
		return
	}
	m.hidden[w] = true
	m.ignoreUnmap[w]++
	if err := m.server.Unmap(w); err != nil {
		m.ignoreUnmap[w]--
		m.call("unmap", w, err)
	}
}
