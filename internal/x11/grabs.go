package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/dodorz/xroagwem/internal/input"
)

// pointerGrabMask is reported to us while a grabbed button is held.
const pointerGrabMask = xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// GrabKeys replaces the root window's key grabs.
func (s *Server) GrabKeys(grabs []input.KeyGrab) {
	s.check("ungrab keys", s.root, xproto.UngrabKeyChecked(s.conn, xproto.GrabAny, s.root, xproto.ModMaskAny))
	for _, g := range grabs {
		s.check("grab key", s.root, xproto.GrabKeyChecked(s.conn, true, s.root,
			g.Mods, xproto.Keycode(g.Code), xproto.GrabModeAsync, xproto.GrabModeAsync))
	}
}

// GrabButtons replaces the root window's button grabs. Owner events stay on
// so clients still see EnterNotify while a drag is in progress.
func (s *Server) GrabButtons(grabs []input.ButtonGrab) {
	s.check("ungrab buttons", s.root, xproto.UngrabButtonChecked(s.conn, xproto.ButtonIndexAny, s.root, xproto.ModMaskAny))
	for _, g := range grabs {
		s.check("grab button", s.root, xproto.GrabButtonChecked(s.conn, true, s.root,
			pointerGrabMask, xproto.GrabModeAsync, xproto.GrabModeAsync,
			xproto.WindowNone, xproto.CursorNone, g.Button, g.Mods))
	}
}
