// Package x11 binds the window manager to an X server: it implements
// app.Server over xgb, owns the event loop and draws the bar window.
package x11

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/charmbracelet/log"
	"github.com/dodorz/xroagwem/internal/layout"
)

// ErrAnotherWM is returned when another client already redirects the
// root window's substructure.
var ErrAnotherWM = errors.New("another window manager is already running")

// rootEventMask is what the window manager selects on the root window.
// Map and configure requests are redirected to us; client unmaps and
// destroys are seen through each client's StructureNotify instead of
// SubstructureNotify so every one arrives exactly once.
const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskPropertyChange

// clientEventMask is selected on every managed window.
const clientEventMask = xproto.EventMaskEnterWindow |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange

// Conn is a connection to the X server.
type Conn struct {
	xu     *xgbutil.XUtil
	conn   *xgb.Conn
	root   xproto.Window
	logger *log.Logger
}

// Connect opens display, or $DISPLAY when it is empty.
func Connect(display string, logger *log.Logger) (*Conn, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	xu, err := xgbutil.NewConnXgb(c)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to set up X connection: %w", err)
	}
	return &Conn{
		xu:     xu,
		conn:   c,
		root:   xu.RootWin(),
		logger: logger,
	}, nil
}

// Close closes the connection.
func (c *Conn) Close() {
	c.conn.Close()
}

// Root returns the root window.
func (c *Conn) Root() xproto.Window {
	return c.root
}

// BecomeWM redirects the root window's substructure to us. Only one client
// can do so; an AccessError means another window manager holds it.
func (c *Conn) BecomeWM() error {
	err := xproto.ChangeWindowAttributesChecked(c.conn, c.root, xproto.CwEventMask,
		[]uint32{rootEventMask}).Check()
	if err == nil {
		return nil
	}
	if _, ok := err.(xproto.AccessError); ok {
		return ErrAnotherWM
	}
	return fmt.Errorf("failed to select root events: %w", err)
}

// Screen returns the rectangle windows are laid out on: the first Xinerama
// head, or the whole root window without Xinerama.
func (c *Conn) Screen() layout.Rect {
	s := c.xu.Screen()
	full := layout.Rect{W: int(s.WidthInPixels), H: int(s.HeightInPixels)}
	if !c.xu.ExtInitialized("XINERAMA") {
		return full
	}
	reply, err := xinerama.QueryScreens(c.conn).Reply()
	if err != nil || len(reply.ScreenInfo) == 0 {
		return full
	}
	if len(reply.ScreenInfo) > 1 {
		c.logger.Info("using the first of several heads", "heads", len(reply.ScreenInfo))
	}
	head := reply.ScreenInfo[0]
	return layout.Rect{
		X: int(head.XOrg),
		Y: int(head.YOrg),
		W: int(head.Width),
		H: int(head.Height),
	}
}

// TopLevel returns the root's children that should be managed at startup:
// viewable and not override-redirect.
func (c *Conn) TopLevel() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.conn, c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}
	var out []xproto.Window
	for _, w := range tree.Children {
		if w == c.xu.Dummy() {
			continue
		}
		attrs, err := xproto.GetWindowAttributes(c.conn, w).Reply()
		if err != nil {
			continue
		}
		if attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// LoadKeymap fetches the keyboard and modifier mappings.
func (c *Conn) LoadKeymap() *Keymap {
	k := &Keymap{xu: c.xu}
	k.Refresh()
	return k
}

// Keymap implements input.Keymap over the server's keyboard mapping.
type Keymap struct {
	xu *xgbutil.XUtil
}

// Refresh reloads the mappings after a MappingNotify.
func (k *Keymap) Refresh() {
	keyMap, modMap := keybind.MapsGet(k.xu)
	keybind.KeyMapSet(k.xu, keyMap)
	keybind.ModMapSet(k.xu, modMap)
}

func (k *Keymap) bounds() (lo, hi int) {
	setup := k.xu.Setup()
	return int(setup.MinKeycode), int(setup.MaxKeycode)
}

// Keysym implements input.Keymap.
func (k *Keymap) Keysym(code uint8, shifted bool) uint32 {
	lo, hi := k.bounds()
	if int(code) < lo || int(code) > hi {
		return 0
	}
	var col byte
	if shifted {
		col = 1
	}
	return uint32(keybind.KeysymGet(k.xu, xproto.Keycode(code), col))
}

// Keycodes implements input.Keymap.
func (k *Keymap) Keycodes(sym uint32) []uint8 {
	lo, hi := k.bounds()
	var out []uint8
	for code := lo; code <= hi; code++ {
		if k.Keysym(uint8(code), false) == sym {
			out = append(out, uint8(code))
		}
	}
	return out
}
