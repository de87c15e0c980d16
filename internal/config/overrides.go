package config

import (
	"github.com/charmbracelet/log"
	"github.com/dodorz/xroagwem/internal/theme"
)

// Overrides contains CLI flag values that can override user config.
// Zero values, and negative numbers, indicate the flag was not set.
type Overrides struct {
	// ThemeName is the bubbletint theme to load
	ThemeName string

	// Gap overrides the tiling gap
	Gap int

	// Border overrides the border width
	Border int

	// NoBar disables the status bar
	NoBar bool

	// Debug forces debug logging
	Debug bool
}

// NoOverrides is an Overrides value that changes nothing.
var NoOverrides = Overrides{Gap: -1, Border: -1}

// ApplyOverrides applies CLI flag overrides to cfg. A theme, from the flag or
// else from the config, replaces the configured colors with its own.
func ApplyOverrides(overrides Overrides, cfg *UserConfig) {
	if overrides.Gap >= 0 {
		cfg.Layout.Gap = overrides.Gap
	}
	if overrides.Border >= 0 {
		cfg.Layout.Border = overrides.Border
	}
	if overrides.NoBar {
		cfg.Bar.Enabled = false
	}
	if overrides.Debug {
		cfg.Log.Level = "debug"
	}

	// Theme - CLI flag takes precedence, otherwise use user config
	themeName := overrides.ThemeName
	if themeName == "" {
		themeName = cfg.Appearance.Theme
	}
	if themeName == "" {
		return
	}
	if err := theme.Initialize(themeName); err != nil {
		log.Warn("failed to load theme, keeping configured colors", "theme", themeName, "err", err)
		return
	}
	cfg.Appearance.Theme = themeName
	ApplyPalette(cfg, theme.FromTint(theme.Current()))
}

// ApplyPalette writes the palette colors into cfg.
func ApplyPalette(cfg *UserConfig, p theme.Palette) {
	a := &cfg.Appearance
	a.BorderNormal = theme.ColorToString(p.BorderNormal)
	a.BorderFocused = theme.ColorToString(p.BorderFocused)
	a.BarBackground = theme.ColorToString(p.BarBackground)
	a.BarForeground = theme.ColorToString(p.BarForeground)
	a.BarAccent = theme.ColorToString(p.BarAccent)
}

// Palette returns the colors cfg configures.
func (c *UserConfig) Palette() theme.Palette {
	a := c.Appearance
	return theme.FromHex(a.BorderNormal, a.BorderFocused, a.BarBackground, a.BarForeground, a.BarAccent)
}
