package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/layout"
	"github.com/dodorz/xroagwem/internal/theme"
)

type checker interface {
	Check() error
}

type pending struct {
	op     string
	window xproto.Window
	c      checker
}

// Server implements app.Server. Requests are issued checked and their
// errors collected by Flush, so a burst of placements costs no round trips.
type Server struct {
	*Conn
	borders  [2]uint32
	pending  []pending
	lastTime xproto.Timestamp
}

var _ app.Server = (*Server)(nil)

// NewServer returns a server drawing borders in the palette's colors.
func NewServer(c *Conn, palette theme.Palette) *Server {
	s := &Server{Conn: c}
	s.SetPalette(palette)
	return s
}

// SetPalette changes the border colors used from now on.
func (s *Server) SetPalette(p theme.Palette) {
	s.borders[app.BorderNormal] = theme.Pixel(p.BorderNormal)
	s.borders[app.BorderFocused] = theme.Pixel(p.BorderFocused)
}

// SetTime records the timestamp of the event being handled.
func (s *Server) SetTime(t xproto.Timestamp) {
	if t != 0 {
		s.lastTime = t
	}
}

func (s *Server) check(op string, w xproto.Window, c checker) {
	s.pending = append(s.pending, pending{op: op, window: w, c: c})
}

// Flush waits for every queued request and logs the failures.
func (s *Server) Flush() {
	for i, p := range s.pending {
		if err := p.c.Check(); err != nil {
			s.logger.Warn("server request failed", "op", p.op, "window", fmt.Sprintf("%#x", uint32(p.window)), "err", err)
		}
		s.pending[i] = pending{}
	}
	s.pending = s.pending[:0]
}

// Attributes implements app.Server.
func (s *Server) Attributes(w app.Window) (app.Attributes, error) {
	xw := xproto.Window(w)
	attrs, err := xproto.GetWindowAttributes(s.conn, xw).Reply()
	if err != nil {
		return app.Attributes{}, fmt.Errorf("failed to get window attributes: %w", err)
	}
	geom, err := xproto.GetGeometry(s.conn, xproto.Drawable(xw)).Reply()
	if err != nil {
		return app.Attributes{}, fmt.Errorf("failed to get window geometry: %w", err)
	}
	out := app.Attributes{
		Width:            int(geom.Width),
		Height:           int(geom.Height),
		OverrideRedirect: attrs.OverrideRedirect,
	}
	if parent, err := icccm.WmTransientForGet(s.xu, xw); err == nil && parent != 0 {
		out.Transient = true
	}
	return out, nil
}

// SelectInput implements app.Server.
func (s *Server) SelectInput(w app.Window) error {
	xw := xproto.Window(w)
	s.check("select input", xw, xproto.ChangeWindowAttributesChecked(s.conn, xw,
		xproto.CwEventMask, []uint32{clientEventMask}))
	return nil
}

// Configure implements app.Server.
func (s *Server) Configure(w app.Window, r layout.Rect, border int) error {
	xw := xproto.Window(w)
	mask, values := rectValues(r, border)
	s.check("configure", xw, xproto.ConfigureWindowChecked(s.conn, xw, mask, values))
	return nil
}

// rectValues is the ConfigureWindow value list placing a window at r.
func rectValues(r layout.Rect, border int) (uint16, []uint32) {
	mask := uint16(xproto.ConfigWindowX |
		xproto.ConfigWindowY |
		xproto.ConfigWindowWidth |
		xproto.ConfigWindowHeight |
		xproto.ConfigWindowBorderWidth)
	return mask, []uint32{
		uint32(int32(r.X)),
		uint32(int32(r.Y)),
		uint32(max(r.W, 1)),
		uint32(max(r.H, 1)),
		uint32(max(border, 0)),
	}
}

// SetBorderColor implements app.Server.
func (s *Server) SetBorderColor(w app.Window, c app.ColorToken) error {
	xw := xproto.Window(w)
	pixel := s.borders[app.BorderNormal]
	if c == app.BorderFocused {
		pixel = s.borders[app.BorderFocused]
	}
	s.check("border", xw, xproto.ChangeWindowAttributesChecked(s.conn, xw,
		xproto.CwBorderPixel, []uint32{pixel}))
	return nil
}

// Map implements app.Server.
func (s *Server) Map(w app.Window) error {
	xw := xproto.Window(w)
	s.check("map", xw, xproto.MapWindowChecked(s.conn, xw))
	return nil
}

// Unmap implements app.Server.
func (s *Server) Unmap(w app.Window) error {
	xw := xproto.Window(w)
	s.check("unmap", xw, xproto.UnmapWindowChecked(s.conn, xw))
	return nil
}

// Raise implements app.Server.
func (s *Server) Raise(w app.Window) error {
	return s.stack(w, xproto.StackModeAbove)
}

// Lower implements app.Server.
func (s *Server) Lower(w app.Window) error {
	return s.stack(w, xproto.StackModeBelow)
}

func (s *Server) stack(w app.Window, mode uint32) error {
	xw := xproto.Window(w)
	s.check("restack", xw, xproto.ConfigureWindowChecked(s.conn, xw,
		xproto.ConfigWindowStackMode, []uint32{mode}))
	return nil
}

// SetInputFocus implements app.Server.
func (s *Server) SetInputFocus(w app.Window) error {
	xw := xproto.Window(w)
	if w == app.None {
		s.check("focus", s.root, xproto.SetInputFocusChecked(s.conn,
			xproto.InputFocusPointerRoot, xproto.InputFocusPointerRoot, s.lastTime))
		return ewmh.ActiveWindowSet(s.xu, 0)
	}
	s.check("focus", xw, xproto.SetInputFocusChecked(s.conn,
		xproto.InputFocusPointerRoot, xw, s.lastTime))
	return ewmh.ActiveWindowSet(s.xu, xw)
}

// Close implements app.Server. Clients that speak WM_DELETE_WINDOW are
// asked to close; the others are killed.
func (s *Server) Close(w app.Window) error {
	xw := xproto.Window(w)
	protocols, err := icccm.WmProtocolsGet(s.xu, xw)
	if err != nil || !slices.Contains(protocols, "WM_DELETE_WINDOW") {
		s.check("kill", xw, xproto.KillClientChecked(s.conn, uint32(xw)))
		return nil
	}

	typ, err := xprop.Atm(s.xu, "WM_PROTOCOLS")
	if err != nil {
		return fmt.Errorf("failed to intern WM_PROTOCOLS: %w", err)
	}
	del, err := xprop.Atm(s.xu, "WM_DELETE_WINDOW")
	if err != nil {
		return fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xw,
		Type:   typ,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(del),
			uint32(s.lastTime),
			0,
			0,
			0,
		}),
	}
	s.check("close", xw, xproto.SendEventChecked(s.conn, false, xw,
		xproto.EventMaskNoEvent, string(ev.Bytes())))
	return nil
}

// SendConfigureNotify implements app.Server.
func (s *Server) SendConfigureNotify(w app.Window, r layout.Rect, border int) error {
	xw := xproto.Window(w)
	ev := xproto.ConfigureNotifyEvent{
		Event:            xw,
		Window:           xw,
		X:                int16(r.X),
		Y:                int16(r.Y),
		Width:            uint16(max(r.W, 1)),
		Height:           uint16(max(r.H, 1)),
		BorderWidth:      uint16(max(border, 0)),
		OverrideRedirect: false,
	}
	s.check("configure notify", xw, xproto.SendEventChecked(s.conn, false, xw,
		xproto.EventMaskStructureNotify, string(ev.Bytes())))
	return nil
}

// ForwardConfigure grants an unmanaged window's configure request as is.
func (s *Server) ForwardConfigure(e xproto.ConfigureRequestEvent) {
	mask, values := forwardValues(e)
	s.check("forward configure", e.Window, xproto.ConfigureWindowChecked(s.conn, e.Window, mask, values))
}

// forwardValues copies the fields a ConfigureRequest asked for into a
// ConfigureWindow value list, in the protocol's bit order.
func forwardValues(e xproto.ConfigureRequestEvent) (uint16, []uint32) {
	fields := []struct {
		bit   uint16
		value uint32
	}{
		{xproto.ConfigWindowX, uint32(int32(e.X))},
		{xproto.ConfigWindowY, uint32(int32(e.Y))},
		{xproto.ConfigWindowWidth, uint32(e.Width)},
		{xproto.ConfigWindowHeight, uint32(e.Height)},
		{xproto.ConfigWindowBorderWidth, uint32(e.BorderWidth)},
		{xproto.ConfigWindowSibling, uint32(e.Sibling)},
		{xproto.ConfigWindowStackMode, uint32(e.StackMode)},
	}
	var mask uint16
	var values []uint32
	for _, f := range fields {
		if e.ValueMask&f.bit != 0 {
			mask |= f.bit
			values = append(values, f.value)
		}
	}
	return mask, values
}

// configureRequest converts a ConfigureRequest to the model's form.
func configureRequest(e xproto.ConfigureRequestEvent) app.ConfigureRequest {
	return app.ConfigureRequest{
		Window: app.Window(e.Window),
		Rect:   layout.Rect{X: int(e.X), Y: int(e.Y), W: int(e.Width), H: int(e.Height)},
		HasX:   e.ValueMask&xproto.ConfigWindowX != 0,
		HasY:   e.ValueMask&xproto.ConfigWindowY != 0,
		HasW:   e.ValueMask&xproto.ConfigWindowWidth != 0,
		HasH:   e.ValueMask&xproto.ConfigWindowHeight != 0,
	}
}
