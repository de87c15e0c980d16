package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WMName is advertised through _NET_WM_NAME on the supporting window.
const WMName = "xroagwem"

var supportedHints = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
}

// Announce publishes the EWMH hints identifying a compliant window manager
// and its desktops, which pagers and toolkits read.
func (c *Conn) Announce(desktops []string) error {
	check, err := xwindow.Create(c.xu, c.root)
	if err != nil {
		return fmt.Errorf("failed to create supporting window: %w", err)
	}
	for _, set := range []func() error{
		func() error { return ewmh.SupportingWmCheckSet(c.xu, c.root, check.Id) },
		func() error { return ewmh.SupportingWmCheckSet(c.xu, check.Id, check.Id) },
		func() error { return ewmh.WmNameSet(c.xu, check.Id, WMName) },
		func() error { return ewmh.SupportedSet(c.xu, supportedHints) },
		func() error { return ewmh.NumberOfDesktopsSet(c.xu, uint(len(desktops))) },
		func() error { return ewmh.DesktopNamesSet(c.xu, desktops) },
		func() error { return ewmh.CurrentDesktopSet(c.xu, 0) },
	} {
		if err := set(); err != nil {
			return fmt.Errorf("failed to set EWMH hints: %w", err)
		}
	}
	return nil
}

// Publish updates the desktop and client list hints.
func (c *Conn) Publish(current int, clients []xproto.Window) {
	if err := ewmh.CurrentDesktopSet(c.xu, uint(current)); err != nil {
		c.logger.Debug("failed to set current desktop", "err", err)
	}
	if err := ewmh.ClientListSet(c.xu, clients); err != nil {
		c.logger.Debug("failed to set client list", "err", err)
	}
}
