// Package apptest provides a recording app.Server for tests.
package apptest

import (
	"errors"

	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/layout"
)

// ErrGone is returned for windows registered with Gone.
var ErrGone = errors.New("bad window")

// Call is one recorded server request.
type Call struct {
	Op     string
	Window app.Window
	Rect   layout.Rect
	Border int
	Color  app.ColorToken
}

// Server records every request and answers attribute queries from Attrs.
// Windows without an Attrs entry get a 640x480 plain window.
type Server struct {
	Calls []Call
	Attrs map[app.Window]app.Attributes

	gone map[app.Window]bool
}

// NewServer returns an empty recording server.
func NewServer() *Server {
	return &Server{
		Attrs: make(map[app.Window]app.Attributes),
		gone:  make(map[app.Window]bool),
	}
}

// Gone makes every request on w fail, like a window destroyed behind our back.
func (s *Server) Gone(w app.Window) {
	s.gone[w] = true
}

// Reset forgets the recorded calls.
func (s *Server) Reset() {
	s.Calls = nil
}

// Count returns how many op requests targeted w. None matches any window.
func (s *Server) Count(op string, w app.Window) int {
	n := 0
	for _, c := range s.Calls {
		if c.Op == op && (w == app.None || c.Window == w) {
			n++
		}
	}
	return n
}

// Last returns the most recent op request on w.
func (s *Server) Last(op string, w app.Window) (Call, bool) {
	for i := len(s.Calls) - 1; i >= 0; i-- {
		if c := s.Calls[i]; c.Op == op && c.Window == w {
			return c, true
		}
	}
	return Call{}, false
}

// Touched reports whether any request targeted w.
func (s *Server) Touched(w app.Window) bool {
	for _, c := range s.Calls {
		if c.Window == w {
			return true
		}
	}
	return false
}

func (s *Server) record(c Call) error {
	s.Calls = append(s.Calls, c)
	if s.gone[c.Window] {
		return ErrGone
	}
	return nil
}

func (s *Server) Attributes(w app.Window) (app.Attributes, error) {
	if s.gone[w] {
		return app.Attributes{}, ErrGone
	}
	if a, ok := s.Attrs[w]; ok {
		return a, nil
	}
	return app.Attributes{Width: 640, Height: 480}, nil
}

func (s *Server) SelectInput(w app.Window) error {
	return s.record(Call{Op: "select", Window: w})
}

func (s *Server) Configure(w app.Window, r layout.Rect, border int) error {
	return s.record(Call{Op: "configure", Window: w, Rect: r, Border: border})
}

func (s *Server) SetBorderColor(w app.Window, c app.ColorToken) error {
	return s.record(Call{Op: "border", Window: w, Color: c})
}

func (s *Server) Map(w app.Window) error {
	return s.record(Call{Op: "map", Window: w})
}

func (s *Server) Unmap(w app.Window) error {
	return s.record(Call{Op: "unmap", Window: w})
}

func (s *Server) Raise(w app.Window) error {
	return s.record(Call{Op: "raise", Window: w})
}

func (s *Server) Lower(w app.Window) error {
	return s.record(Call{Op: "lower", Window: w})
}

func (s *Server) SetInputFocus(w app.Window) error {
	return s.record(Call{Op: "focus", Window: w})
}

func (s *Server) Close(w app.Window) error {
	return s.record(Call{Op: "close", Window: w})
}

func (s *Server) SendConfigureNotify(w app.Window, r layout.Rect, border int) error {
	return s.record(Call{Op: "notify", Window: w, Rect: r, Border: border})
}

// NewWM returns a WM on a 1000x800 screen with four workspaces, gap 5,
// border 5 and a split margin of 100, backed by a fresh recording server.
func NewWM() (*app.WM, *Server) {
	s := NewServer()
	screen := layout.Rect{W: 1000, H: 800}
	m := app.New(s, app.Options{
		Tags:        []string{"1", "2", "3", "4"},
		Screen:      screen,
		Bounds:      screen,
		Gap:         5,
		Border:      5,
		SplitMargin: 100,
	})
	return m, s
}

// Manage maps the given windows through the map-request path and clears the
// recorded calls.
func Manage(m *app.WM, s *Server, windows ...app.Window) {
	for _, w := range windows {
		m.HandleMapRequest(w)
	}
	s.Reset()
}
