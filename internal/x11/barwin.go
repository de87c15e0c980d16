package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"
	"github.com/dodorz/xroagwem/internal/layout"
)

// BarWindow is the override-redirect window the bar is painted into.
type BarWindow struct {
	win  *xwindow.Window
	rect layout.Rect
	img  *xgraphics.Image
}

// CreateBar creates and maps the bar window at r.
func (c *Conn) CreateBar(r layout.Rect) (*BarWindow, error) {
	win, err := xwindow.Generate(c.xu)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate bar window: %w", err)
	}
	err = win.CreateChecked(c.root, r.X, r.Y, r.W, r.H,
		xproto.CwOverrideRedirect|xproto.CwEventMask,
		1, xproto.EventMaskExposure|xproto.EventMaskButtonPress)
	if err != nil {
		return nil, fmt.Errorf("failed to create bar window: %w", err)
	}
	win.Map()
	return &BarWindow{win: win, rect: r}, nil
}

// ID returns the bar's window id.
func (b *BarWindow) ID() xproto.Window {
	return b.win.Id
}

// Rect returns where the bar is on screen.
func (b *BarWindow) Rect() layout.Rect {
	return b.rect
}

// Paint shows img as the bar's contents. img is converted to the server's
// pixel format and installed as the window background, so exposures
// repaint without a redraw.
func (b *BarWindow) Paint(img image.Image) error {
	next := xgraphics.NewConvert(b.win.X, img)
	if err := next.XSurfaceSet(b.win.Id); err != nil {
		next.Destroy()
		return fmt.Errorf("failed to set bar surface: %w", err)
	}
	next.XDraw()
	next.XPaint(b.win.Id)

	if b.img != nil {
		b.img.Destroy()
	}
	b.img = next
	return nil
}

// Destroy removes the bar window.
func (b *BarWindow) Destroy() {
	if b.img != nil {
		b.img.Destroy()
		b.img = nil
	}
	b.win.Destroy()
}
