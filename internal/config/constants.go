// Package config provides configuration constants, keybinding management, and user settings.
package config

import "time"

// =============================================================================
// Files
// =============================================================================

const (
	// AppName names the XDG config directory and prefixes the logger.
	AppName = "xroagwem"

	// ConfigFile is the config file path relative to the XDG config home.
	ConfigFile = AppName + "/config.toml"

	// ThemesDir is the custom themes directory relative to the XDG config home.
	ThemesDir = AppName + "/themes"
)

// =============================================================================
// Workspaces
// =============================================================================

// MaxWorkspaces is the number of workspaces reachable by numbered bindings.
const MaxWorkspaces = 9

// DefaultTags are the workspace tags used when the config names none.
var DefaultTags = []string{"一", "二", "三", "四"}

// =============================================================================
// Layout Defaults
// =============================================================================

const (
	// DefaultGap is the empty space around every tiled window, in pixels
	DefaultGap = 5

	// DefaultBorder is the window border width, in pixels
	DefaultBorder = 5

	// DefaultSplitMargin keeps the master/stack split this far from both
	// screen edges
	DefaultSplitMargin = 100

	// DefaultSplitStep is how far split_grow and split_shrink move the split
	DefaultSplitStep = 50

	// DefaultDragThreshold is the pointer travel, in pixels along either
	// axis, that a drag needs before it changes any geometry
	DefaultDragThreshold = 50

	// DefaultFloatStep is how far the floating nudge and resize actions move
	DefaultFloatStep = 20
)

// =============================================================================
// Appearance Defaults
// =============================================================================

const (
	// DefaultBorderNormal is the border color of unfocused windows
	DefaultBorderNormal = "#ff0000"

	// DefaultBorderFocused is the border color of the focused window
	DefaultBorderFocused = "#222222"

	// DefaultBarBackground is the bar background color
	DefaultBarBackground = "#222222"

	// DefaultBarForeground is the bar text color
	DefaultBarForeground = "#bbbbbb"

	// DefaultBarAccent is the background of the active workspace tag
	DefaultBarAccent = "#005577"
)

// =============================================================================
// Bar Defaults
// =============================================================================

const (
	// DefaultBarHeight is the bar height, in pixels
	DefaultBarHeight = 18

	// DefaultBarRefresh is how often the bar samples system stats and redraws
	DefaultBarRefresh = time.Second

	// DefaultFontSize is the point size used for TrueType bar fonts
	DefaultFontSize = 11.0

	// MinBarRefresh is the fastest allowed bar refresh
	MinBarRefresh = 100 * time.Millisecond
)

// =============================================================================
// Logging
// =============================================================================

// DefaultLogLevel is the log level used when neither the config nor a flag
// sets one.
const DefaultLogLevel = "info"

// ValidLogLevels are the accepted [log] level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
