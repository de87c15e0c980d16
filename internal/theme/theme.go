// Package theme provides color themes for window borders and the status bar.
package theme

import (
	"errors"
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	tint "github.com/lrstanley/bubbletint/v2"
)

// ErrUnknownTheme is returned by Initialize when no theme has the given ID.
var ErrUnknownTheme = errors.New("unknown theme")

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at startup. An empty name disables theming, leaving the
// configured colors in effect.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	// Load custom themes from user's themes directory
	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Warn("error loading custom themes", "err", err)
		}
	}

	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("%w %q", ErrUnknownTheme, themeName)
	}
	return nil
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme, or nil if theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// IDs lists every registered theme, custom themes included.
func IDs() []string {
	if err := Initialize("default"); err != nil {
		return nil
	}
	return tint.TintIDs()
}

// Palette holds every color the window manager draws with.
type Palette struct {
	BorderNormal  color.Color
	BorderFocused color.Color
	BarBackground color.Color
	BarForeground color.Color
	BarAccent     color.Color
}

// FromTint maps a theme onto a palette.
func FromTint(t *tint.Tint) Palette {
	return Palette{
		BorderNormal:  t.Red,
		BorderFocused: t.BrightCyan,
		BarBackground: t.Bg,
		BarForeground: t.Fg,
		BarAccent:     t.Blue,
	}
}

// FromHex builds a palette from hex color strings, in field order. Invalid
// colors come out black.
func FromHex(normal, focused, barBg, barFg, accent string) Palette {
	return Palette{
		BorderNormal:  Parse(normal),
		BorderFocused: Parse(focused),
		BarBackground: Parse(barBg),
		BarForeground: Parse(barFg),
		BarAccent:     Parse(accent),
	}
}

// Parse converts a #rgb or #rrggbb string to a color.
func Parse(hex string) color.Color {
	c := lipgloss.Color(hex)
	if _, ok := c.(lipgloss.NoColor); ok {
		return color.Black
	}
	return c
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	// RGBA returns values in range 0-65535, convert to 0-255
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Pixel converts a color to a 24-bit TrueColor pixel value, 0xRRGGBB.
func Pixel(c color.Color) uint32 {
	if c == nil {
		return 0
	}
	r, g, b, _ := c.RGBA()
	return (r>>8)<<16 | (g>>8)<<8 | b>>8
}
