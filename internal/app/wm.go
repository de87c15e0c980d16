// Package app holds the window manager's model: workspaces and their
// windows, the focus state, the retile pass and the reactions to window
// lifecycle notifications.
//
// A WM is owned by a single goroutine. Nothing in this package locks.
package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dodorz/xroagwem/internal/layout"
)

// ErrStaleWindow is logged when a placement targets a window that is no
// longer managed.
var ErrStaleWindow = errors.New("window is not managed")

// Active is the process-wide focus state.
type Active struct {
	Workspace int
	Window    Window
	// FocusLocked suppresses focus-follows-pointer while a gesture is in
	// progress.
	FocusLocked bool
}

// Options configures a WM.
type Options struct {
	Tags []string
	// TilingOnly lists tags whose workspaces ignore floating and fullscreen
	// toggles.
	TilingOnly []string
	// Screen is the whole root window. Fullscreen windows cover it.
	Screen layout.Rect
	// Bounds is the tiling area, the screen minus the bar.
	Bounds layout.Rect
	Gap    int
	Border int
	// SplitDefault is the initial split of every workspace. Zero means half
	// of the tiling width.
	SplitDefault int
	SplitMargin  int
	Logger       *log.Logger
}

// WM is the window manager state.
type WM struct {
	Workspaces []*Workspace
	Active     Active
	Screen     layout.Rect // full screen, used for fullscreen windows
	Bounds     layout.Rect // tiling area
	Gap        int
	Border     int
	// SplitMargin bounds every workspace's split to
	// [SplitMargin, Bounds.W-SplitMargin].
	SplitMargin int
	// OnChange is called after every retile so collaborators such as the
	// bar can redraw.
	OnChange func()

	server        Server
	logger        *log.Logger
	lastWorkspace int
	placed        map[Window]layout.Rect // last geometry sent to the server
	hidden        map[Window]bool        // unmapped by us or not yet mapped
	ignoreUnmap   map[Window]int         // unmaps we caused and must not treat as withdrawals
}

// New creates a WM with one workspace per tag. There is always at least one
// workspace.
func New(server Server, opts Options) *WM {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tags := opts.Tags
	if len(tags) == 0 {
		tags = []string{"1"}
	}

	m := &WM{
		Screen:      opts.Screen,
		Bounds:      opts.Bounds,
		Gap:         opts.Gap,
		Border:      opts.Border,
		SplitMargin: opts.SplitMargin,
		server:      server,
		logger:      logger,
		placed:      make(map[Window]layout.Rect),
		hidden:      make(map[Window]bool),
		ignoreUnmap: make(map[Window]int),
	}

	split := opts.SplitDefault
	if split <= 0 {
		split = opts.Bounds.W / 2
	}
	split = layout.ClampSplit(split, opts.Bounds.W, opts.SplitMargin)

	tilingOnly := make(map[string]bool, len(opts.TilingOnly))
	for _, t := range opts.TilingOnly {
		tilingOnly[t] = true
	}
	for _, tag := range tags {
		m.Workspaces = append(m.Workspaces, newWorkspace(tag, split, tilingOnly[tag]))
	}
	return m
}

// Logger returns the logger the WM writes to.
func (m *WM) Logger() *log.Logger {
	return m.logger
}

// LogInfo logs an informational message.
func (m *WM) LogInfo(msg string, keyvals ...any) {
	m.logger.Info(msg, keyvals...)
}

// LogWarn logs a warning message.
func (m *WM) LogWarn(msg string, keyvals ...any) {
	m.logger.Warn(msg, keyvals...)
}

// LogError logs an error message.
func (m *WM) LogError(msg string, keyvals ...any) {
	m.logger.Error(msg, keyvals...)
}

// LogDebug logs a debug message.
func (m *WM) LogDebug(msg string, keyvals ...any) {
	m.logger.Debug(msg, keyvals...)
}

// call logs a failed server request. Server errors are never fatal.
func (m *WM) call(op string, w Window, err error) {
	if err != nil {
		m.LogWarn("server request failed", "op", op, "window", fmt.Sprintf("%#x", uint32(w)), "err", err)
	}
}

// ActiveWorkspace returns the workspace being displayed.
func (m *WM) ActiveWorkspace() *Workspace {
	return m.Workspaces[m.Active.Workspace]
}

// WorkspaceOf returns the index of the workspace holding w, or -1.
func (m *WM) WorkspaceOf(w Window) int {
	if w == None {
		return -1
	}
	for i, ws := range m.Workspaces {
		if ws.Contains(w) {
			return i
		}
	}
	return -1
}

// Manages reports whether w is in some workspace's window list.
func (m *WM) Manages(w Window) bool {
	return m.WorkspaceOf(w) >= 0
}

// Occupied reports, per workspace, whether it holds any windows.
func (m *WM) Occupied() []bool {
	out := make([]bool, len(m.Workspaces))
	for i, ws := range m.Workspaces {
		out[i] = len(ws.Windows) > 0
	}
	return out
}

// Tags returns the workspace tags in order.
func (m *WM) Tags() []string {
	out := make([]string, len(m.Workspaces))
	for i, ws := range m.Workspaces {
		out[i] = ws.Tag
	}
	return out
}

// Geometry returns the last rectangle sent to the server for w.
func (m *WM) Geometry(w Window) (layout.Rect, bool) {
	r, ok := m.placed[w]
	return r, ok
}
