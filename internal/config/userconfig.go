package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Workspaces  WorkspacesConfig    `toml:"workspaces"`
	Layout      LayoutConfig        `toml:"layout"`
	Appearance  AppearanceConfig    `toml:"appearance"`
	Bar         BarConfig           `toml:"bar"`
	Keybindings KeybindingsConfig   `toml:"keybindings"`
	Spawn       map[string][]string `toml:"spawn"` // command line -> keys that launch it
	Pointer     []PointerConfig     `toml:"pointer"`
	Autostart   AutostartConfig     `toml:"autostart"`
	Log         LogConfig           `toml:"log"`
}

// WorkspacesConfig holds the fixed set of workspaces
type WorkspacesConfig struct {
	Tags       []string `toml:"tags"`        // One workspace per tag, in order (max 9 reachable by number keys)
	TilingOnly []string `toml:"tiling_only"` // Tags whose workspaces ignore floating/fullscreen toggles
}

// LayoutConfig holds tiling geometry settings, all in pixels
type LayoutConfig struct {
	Gap           int `toml:"gap"`            // Space around every tiled window
	Border        int `toml:"border"`         // Window border width
	SplitDefault  int `toml:"split_default"`  // Initial master width; 0 means half the screen
	SplitMargin   int `toml:"split_margin"`   // Closest the split may get to either screen edge
	SplitStep     int `toml:"split_step"`     // Split change per split_grow/split_shrink
	DragThreshold int `toml:"drag_threshold"` // Pointer travel before a drag changes geometry
	FloatStep     int `toml:"float_step"`     // Step of the floating nudge/resize actions
}

// AppearanceConfig holds color settings
type AppearanceConfig struct {
	Theme         string `toml:"theme"`          // Color theme name (e.g., dracula, nord, my-custom-theme); overrides the colors below
	BorderNormal  string `toml:"border_normal"`  // Border of unfocused windows
	BorderFocused string `toml:"border_focused"` // Border of the focused window
	BarBackground string `toml:"bar_background"`
	BarForeground string `toml:"bar_foreground"`
	BarAccent     string `toml:"bar_accent"` // Background of the active tag
}

// BarConfig holds status bar settings
type BarConfig struct {
	Enabled   bool    `toml:"enabled"`
	Height    int     `toml:"height"`
	RefreshMS int     `toml:"refresh_ms"` // Stats sampling and redraw interval
	Font      string  `toml:"font"`       // Path to a TTF/OTF font; empty uses the built-in 7x13 bitmap font
	FontSize  float64 `toml:"font_size"`
	ShowStats bool    `toml:"show_stats"` // Show CPU and memory usage
}

// KeybindingsConfig holds all keybinding configurations, action -> keys
type KeybindingsConfig struct {
	Window     map[string][]string `toml:"window"`
	Workspaces map[string][]string `toml:"workspaces"`
	Layout     map[string][]string `toml:"layout"`
	Floating   map[string][]string `toml:"floating"`
	System     map[string][]string `toml:"system"`
}

// PointerConfig is one pointer gesture binding
type PointerConfig struct {
	Mods   string `toml:"mods"`   // e.g. "mod1", "" for none
	Button string `toml:"button"` // left, middle, right, 1-5, or "" for none
	Phase  string `toml:"phase"`  // press, release, move, enter
	Action string `toml:"action"`
}

// AutostartConfig lists programs started once the window manager is running
type AutostartConfig struct {
	Commands []string `toml:"commands"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error, fatal
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Workspaces: WorkspacesConfig{
			Tags:       append([]string(nil), DefaultTags...),
			TilingOnly: []string{},
		},
		Layout: LayoutConfig{
			Gap:           DefaultGap,
			Border:        DefaultBorder,
			SplitDefault:  0,
			SplitMargin:   DefaultSplitMargin,
			SplitStep:     DefaultSplitStep,
			DragThreshold: DefaultDragThreshold,
			FloatStep:     DefaultFloatStep,
		},
		Appearance: AppearanceConfig{
			BorderNormal:  DefaultBorderNormal,
			BorderFocused: DefaultBorderFocused,
			BarBackground: DefaultBarBackground,
			BarForeground: DefaultBarForeground,
			BarAccent:     DefaultBarAccent,
		},
		Bar: BarConfig{
			Enabled:   true,
			Height:    DefaultBarHeight,
			RefreshMS: int(DefaultBarRefresh / time.Millisecond),
			FontSize:  DefaultFontSize,
			ShowStats: true,
		},
		Keybindings: KeybindingsConfig{
			Window: map[string][]string{
				"focus_next":        {"mod1+j"},
				"focus_prev":        {"mod1+k"},
				"close_window":      {"mod1+shift+c"},
				"toggle_fullscreen": {"mod1+f"},
				"toggle_floating":   {"mod1+shift+space"},
			},
			Workspaces: getDefaultWorkspaceKeybinds(),
			Layout: map[string][]string{
				"split_grow":   {"mod1+l"},
				"split_shrink": {"mod1+h"},
			},
			Floating: map[string][]string{
				"float_move_left":     {"mod1+left"},
				"float_move_right":    {"mod1+right"},
				"float_move_up":       {"mod1+up"},
				"float_move_down":     {"mod1+down"},
				"float_grow_width":    {"mod1+shift+right"},
				"float_shrink_width":  {"mod1+shift+left"},
				"float_grow_height":   {"mod1+shift+down"},
				"float_shrink_height": {"mod1+shift+up"},
			},
			System: map[string][]string{
				"quit": {"mod1+shift+q"},
			},
		},
		Spawn: map[string][]string{
			"xterm":     {"mod1+shift+return"},
			"dmenu_run": {"mod1+p"},
		},
		Pointer: []PointerConfig{
			{Mods: "mod1", Button: "left", Phase: "press", Action: "move_grab"},
			{Mods: "mod1", Button: "right", Phase: "press", Action: "resize_grab"},
			{Button: "left", Phase: "release", Action: "drag_release"},
			{Button: "right", Phase: "release", Action: "drag_release"},
			{Phase: "move", Action: "drag_motion"},
			{Phase: "enter", Action: "drag_reorder"},
		},
		Autostart: AutostartConfig{
			Commands: []string{},
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// getDefaultWorkspaceKeybinds returns mod1+N to switch and mod1+shift+N to
// move the focused window, for every numbered workspace
func getDefaultWorkspaceKeybinds() map[string][]string {
	binds := map[string][]string{
		"switch_workspace_next": {"mod1+period"},
		"switch_workspace_prev": {"mod1+comma"},
		"switch_workspace_last": {"mod1+tab"},
	}
	for i := 1; i <= MaxWorkspaces; i++ {
		n := strconv.Itoa(i)
		binds["switch_workspace_"+n] = []string{"mod1+" + n}
		binds["move_to_workspace_"+n] = []string{"mod1+shift+" + n}
	}
	return binds
}

// RefreshInterval returns the bar refresh interval.
func (c *UserConfig) RefreshInterval() time.Duration {
	d := time.Duration(c.Bar.RefreshMS) * time.Millisecond
	return max(d, MinBarRefresh)
}

// LoadUserConfig loads the user configuration from XDG config directory
func LoadUserConfig() (*UserConfig, error) {
	// Try to find existing config file
	configPath, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		// Config doesn't exist, create default
		return createDefaultConfig()
	}
	return LoadFile(configPath)
}

// LoadFile loads and validates the configuration at path. Settings the file
// does not mention keep their defaults.
func LoadFile(path string) (*UserConfig, error) {
	// #nosec G304 - path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Validate configuration
	validation := ValidateConfig(cfg)
	if validation.HasErrors() {
		for _, e := range validation.Errors {
			log.Error("config error", "section", e.Field, "key", e.Key, "msg", e.Message)
		}
		return nil, fmt.Errorf("configuration has %d error(s), please fix and restart", len(validation.Errors))
	}

	// Log warnings (non-fatal)
	for _, w := range validation.Warnings {
		log.Warn("config warning", "section", w.Field, "key", w.Key, "msg", w.Message)
	}

	return cfg, nil
}

// Parse decodes TOML config data on top of the defaults without validating
// it. Lists and binding tables named in data replace the defaults entirely;
// actions a binding table leaves out keep their default keys.
func Parse(data []byte) (*UserConfig, error) {
	cfg := DefaultConfig()
	cfg.Workspaces.Tags = nil
	cfg.Workspaces.TilingOnly = nil
	cfg.Keybindings = KeybindingsConfig{}
	cfg.Spawn = nil
	cfg.Pointer = nil
	cfg.Autostart.Commands = nil

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaultCfg := DefaultConfig()
	fillMissingWorkspaces(cfg, defaultCfg)
	fillMissingKeybinds(cfg, defaultCfg)
	if cfg.Spawn == nil {
		cfg.Spawn = defaultCfg.Spawn
	}
	if cfg.Pointer == nil {
		cfg.Pointer = defaultCfg.Pointer
	}
	if cfg.Autostart.Commands == nil {
		cfg.Autostart.Commands = []string{}
	}
	return cfg, nil
}

// createDefaultConfig creates a default config file in the user's config directory
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()

	configPath, err := xdg.ConfigFile(ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	if err := WriteDefaultConfig(configPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefaultConfig writes the commented default configuration to path,
// creating its directory if needed.
func WriteDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Build config file with header comments and marshaled data
	var sb strings.Builder
	sb.WriteString("# xroagwem Configuration File\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + configPath + "\n")
	sb.WriteString("# For keybindings documentation, run: xroagwem keybinds list\n")
	sb.WriteString("# Changes take effect the next time the window manager starts.\n\n")

	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# WORKSPACES\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# tags: One workspace per tag. The built-in bar font only has ASCII glyphs;\n")
	sb.WriteString("#   set [bar] font to a TTF with CJK coverage to see the default tags,\n")
	sb.WriteString("#   otherwise the bar shows workspace numbers.\n")
	sb.WriteString("# tiling_only: Tags whose workspaces never float or fullscreen windows\n")
	sb.WriteString("#\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# KEYS AND POINTER\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# Keys are written as modifiers and a key joined by '+', e.g. mod1+shift+j.\n")
	sb.WriteString("#   Modifiers: shift, ctrl, mod1 (alt), mod2, mod3, mod4 (super), mod5\n")
	sb.WriteString("#   Set an action to [] to unbind it.\n")
	sb.WriteString("# [spawn] maps a command line to the keys that launch it.\n")
	sb.WriteString("# [[pointer]] phases: press, release, move, enter\n")
	sb.WriteString("#   Actions: move_grab, resize_grab, drag_motion, drag_release, drag_reorder\n")
	sb.WriteString("#\n")
	sb.WriteString("# theme: Color theme name (e.g., dracula, nord, my-custom-theme)\n")
	sb.WriteString("#   CLI flag --theme overrides this. Custom themes: ~/.config/" + ThemesDir + "/*.json\n")
	sb.WriteString("# ============================================================================\n\n")

	if _, err := sb.Write(data); err != nil {
		return fmt.Errorf("failed to write config data: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// fillMissingWorkspaces fills in missing workspace settings with defaults
func fillMissingWorkspaces(cfg, defaultCfg *UserConfig) {
	if cfg.Workspaces.Tags == nil {
		cfg.Workspaces.Tags = defaultCfg.Workspaces.Tags
	}
	if cfg.Workspaces.TilingOnly == nil {
		cfg.Workspaces.TilingOnly = []string{}
	}
}

// fillMissingKeybinds fills in any missing keybindings with defaults
func fillMissingKeybinds(cfg, defaultCfg *UserConfig) {
	for _, s := range cfg.Keybindings.sections() {
		if *s.binds == nil {
			*s.binds = make(map[string][]string)
		}
	}
	fillMapDefaults(cfg.Keybindings.Window, defaultCfg.Keybindings.Window)
	fillMapDefaults(cfg.Keybindings.Workspaces, defaultCfg.Keybindings.Workspaces)
	fillMapDefaults(cfg.Keybindings.Layout, defaultCfg.Keybindings.Layout)
	fillMapDefaults(cfg.Keybindings.Floating, defaultCfg.Keybindings.Floating)
	fillMapDefaults(cfg.Keybindings.System, defaultCfg.Keybindings.System)
}

func fillMapDefaults(target, defaults map[string][]string) {
	for k, v := range defaults {
		if _, exists := target[k]; !exists {
			target[k] = v
		}
	}
}

type keybindSection struct {
	name  string
	binds *map[string][]string
}

// sections returns the binding tables in the order they are registered.
func (k *KeybindingsConfig) sections() []keybindSection {
	return []keybindSection{
		{"window", &k.Window},
		{"workspaces", &k.Workspaces},
		{"layout", &k.Layout},
		{"floating", &k.Floating},
		{"system", &k.System},
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		// Return where it would be created
		return xdg.ConfigFile(ConfigFile)
	}
	return path, nil
}
