package app

import "github.com/dodorz/xroagwem/internal/layout"

// ColorToken names a border color role. The concrete pixel is resolved by the
// server implementation from the active theme.
type ColorToken int

const (
	// BorderNormal is the border of every window that does not have focus.
	BorderNormal ColorToken = iota
	// BorderFocused is the border of the active window.
	BorderFocused
)

func (c ColorToken) String() string {
	if c == BorderFocused {
		return "focused"
	}
	return "normal"
}

// Attributes is the subset of a window's server-side attributes the window
// manager cares about when deciding whether and how to manage it.
type Attributes struct {
	Width            int
	Height           int
	OverrideRedirect bool
	// Transient is set when the window names another window in
	// WM_TRANSIENT_FOR. Such windows start out floating.
	Transient bool
}

// Server is the windowing-server side of the window manager. Every call
// that targets a window is issued only for windows the model manages.
type Server interface {
	Attributes(w Window) (Attributes, error)
	SelectInput(w Window) error
	Configure(w Window, r layout.Rect, border int) error
	SetBorderColor(w Window, c ColorToken) error
	Map(w Window) error
	Unmap(w Window) error
	Raise(w Window) error
	Lower(w Window) error
	// SetInputFocus gives keyboard focus to w, or to the root when w is None.
	SetInputFocus(w Window) error
	// Close asks the client to close w, killing it if it does not speak
	// WM_DELETE_WINDOW.
	Close(w Window) error
	// SendConfigureNotify tells the client its window's geometry without
	// moving it.
	SendConfigureNotify(w Window, r layout.Rect, border int) error
}
