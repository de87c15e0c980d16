package app

import (
	"fmt"

	"github.com/dodorz/xroagwem/internal/layout"
)

// Window is a window handle assigned by the X server.
type Window uint32

// None is the no-window sentinel. Focusing None focuses the root window.
const None Window = 0

// Class is the rendering class of a managed window.
type Class int

const (
	// Tiled windows take part in the master/stack layout.
	Tiled Class = iota
	// Floating windows keep their own rectangle above the tiled ones.
	Floating
	// Fullscreen windows cover the whole screen above everything else.
	Fullscreen
)

func (c Class) String() string {
	switch c {
	case Floating:
		return "floating"
	case Fullscreen:
		return "fullscreen"
	default:
		return "tiled"
	}
}

// Client is the per-window state kept by a workspace.
type Client struct {
	Class Class
	// Rect is the floating rectangle: the last explicit move or resize, or
	// the window's requested size centered on screen.
	Rect layout.Rect

	// restore is the class a fullscreen window returns to.
	restore Class
}

// Grab identifies the pointer gesture in progress on a workspace.
type Grab int

const (
	// GrabNone means no gesture is in progress.
	GrabNone Grab = iota
	// GrabMove moves floating windows and reorders tiled ones.
	GrabMove
	// GrabResize resizes floating windows and drags the split of tiled ones.
	GrabResize
)

// DragState is the transient state of a pointer gesture.
type DragState struct {
	Window Window
	Grab   Grab
	// AnchorX, AnchorY is where the gesture started.
	AnchorX, AnchorY int
	// OffsetX, OffsetY is the grab point relative to the window's top-left
	// corner.
	OffsetX, OffsetY int
	// LastX, LastY is the pointer position at the last applied change.
	LastX, LastY int
}

// Active reports whether a gesture is in progress.
func (d DragState) Active() bool {
	return d.Grab != GrabNone && d.Window != None
}

// Workspace is one tag's ordered window list and layout parameters.
// The last window of Windows is the master.
type Workspace struct {
	Tag     string
	Windows []Window
	// Split is the master/stack boundary, as an offset from the left edge
	// of the tiling bounds.
	Split int
	// TilingOnly workspaces ignore floating and fullscreen toggles.
	TilingOnly bool
	Drag       DragState

	clients map[Window]*Client
}

func newWorkspace(tag string, split int, tilingOnly bool) *Workspace {
	return &Workspace{
		Tag:        tag,
		Split:      split,
		TilingOnly: tilingOnly,
		clients:    make(map[Window]*Client),
	}
}

// Client returns the state of w, or nil if w is not on this workspace.
func (ws *Workspace) Client(w Window) *Client {
	return ws.clients[w]
}

// ClassOf returns the rendering class of w on this workspace.
func (ws *Workspace) ClassOf(w Window) Class {
	if c := ws.clients[w]; c != nil {
		return c.Class
	}
	return Tiled
}

// Contains reports whether w is in the window list.
func (ws *Workspace) Contains(w Window) bool {
	_, ok := ws.clients[w]
	return ok
}

// Tiled returns the tiled windows in list order.
func (ws *Workspace) Tiled() []Window {
	return ws.filter(Tiled)
}

// Floating returns the floating windows in list order.
func (ws *Workspace) Floating() []Window {
	return ws.filter(Floating)
}

// Fullscreen returns the fullscreen windows in list order.
func (ws *Workspace) Fullscreen() []Window {
	return ws.filter(Fullscreen)
}

func (ws *Workspace) filter(class Class) []Window {
	var out []Window
	for _, w := range ws.Windows {
		if ws.ClassOf(w) == class {
			out = append(out, w)
		}
	}
	return out
}

func (ws *Workspace) String() string {
	return fmt.Sprintf("%s%v", ws.Tag, ws.Windows)
}
