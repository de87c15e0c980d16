package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/dodorz/xroagwem/internal/config"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	v := config.ValidateConfig(cfg)
	for _, e := range v.Errors {
		t.Errorf("error: %s.%s: %s", e.Field, e.Key, e.Message)
	}
	for _, w := range v.Warnings {
		t.Errorf("warning: %s.%s: %s", w.Field, w.Key, w.Message)
	}
}

func TestDefaultKeybindings(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	required := []string{
		"focus_next", "focus_prev", "close_window", "toggle_fullscreen", "toggle_floating",
		"split_grow", "split_shrink", "switch_workspace_1", "move_to_workspace_9", "quit",
	}
	for _, action := range required {
		if len(registry.GetKeys(action)) == 0 {
			t.Errorf("expected %s to have at least one key bound", action)
		}
	}
}

// =============================================================================
// Parsing Tests
// =============================================================================

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[layout]
gap = 10

[keybindings.window]
focus_next = ["mod4+j"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Layout.Gap != 10 {
		t.Errorf("gap = %d, want 10", cfg.Layout.Gap)
	}
	if cfg.Layout.Border != config.DefaultBorder {
		t.Errorf("border = %d, want default %d", cfg.Layout.Border, config.DefaultBorder)
	}
	if got := cfg.Keybindings.Window["focus_next"]; !slices.Equal(got, []string{"mod4+j"}) {
		t.Errorf("focus_next = %v", got)
	}
	if got := cfg.Keybindings.Window["focus_prev"]; !slices.Equal(got, []string{"mod1+k"}) {
		t.Errorf("focus_prev should keep its default, got %v", got)
	}
	if len(cfg.Keybindings.Workspaces) == 0 || len(cfg.Pointer) == 0 || len(cfg.Spawn) == 0 {
		t.Error("tables absent from the file should keep their defaults")
	}
	if !slices.Equal(cfg.Workspaces.Tags, config.DefaultTags) {
		t.Errorf("tags = %v, want defaults", cfg.Workspaces.Tags)
	}
}

func TestParseReplacesLists(t *testing.T) {
	cfg, err := config.Parse([]byte(`
[workspaces]
tags = ["web", "code"]

[[pointer]]
mods = "mod4"
button = "left"
phase = "press"
action = "move_grab"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !slices.Equal(cfg.Workspaces.Tags, []string{"web", "code"}) {
		t.Errorf("tags = %v", cfg.Workspaces.Tags)
	}
	if len(cfg.Pointer) != 1 || cfg.Pointer[0].Mods != "mod4" {
		t.Errorf("pointer = %+v, want the single configured binding", cfg.Pointer)
	}
	if cfg.Workspaces.TilingOnly == nil || cfg.Autostart.Commands == nil {
		t.Error("absent lists should be empty, not nil")
	}
}

func TestParseInvalidTOML(t *testing.T) {
	if _, err := config.Parse([]byte("[layout\ngap = ")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestWriteDefaultConfigLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := config.WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig: %v", err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Layout.SplitStep != config.DefaultSplitStep {
		t.Errorf("split step = %d", cfg.Layout.SplitStep)
	}
	if got := cfg.Keybindings.System["quit"]; !slices.Equal(got, []string{"mod1+shift+q"}) {
		t.Errorf("quit = %v", got)
	}
}

func TestLoadFileRejectsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout]\nsplit_step = 0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFile(path); err == nil {
		t.Error("expected a validation error")
	}
	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected a read error")
	}
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *config.UserConfig)
		wantErr  bool
		wantWarn bool
	}{
		{"no tags", func(c *config.UserConfig) { c.Workspaces.Tags = nil }, true, false},
		{"duplicate tag", func(c *config.UserConfig) { c.Workspaces.Tags = []string{"a", "a"} }, true, false},
		{"too many tags", func(c *config.UserConfig) {
			c.Workspaces.Tags = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
		}, false, true},
		{"unknown tiling-only tag", func(c *config.UserConfig) { c.Workspaces.TilingOnly = []string{"zzz"} }, false, true},
		{"negative gap", func(c *config.UserConfig) { c.Layout.Gap = -1 }, true, false},
		{"zero float step", func(c *config.UserConfig) { c.Layout.FloatStep = 0 }, true, false},
		{"bad color", func(c *config.UserConfig) { c.Appearance.BorderFocused = "red" }, true, false},
		{"short color", func(c *config.UserConfig) { c.Appearance.BarAccent = "#abc" }, false, false},
		{"fast refresh", func(c *config.UserConfig) { c.Bar.RefreshMS = 10 }, false, true},
		{"missing font", func(c *config.UserConfig) { c.Bar.Font = "/nonexistent/font.ttf" }, false, true},
		{"disabled bar skips checks", func(c *config.UserConfig) {
			c.Bar.Enabled = false
			c.Bar.Height = 0
		}, false, false},
		{"unknown action", func(c *config.UserConfig) { c.Keybindings.Window["teleport"] = []string{"mod1+t"} }, false, true},
		{"invalid key", func(c *config.UserConfig) { c.Keybindings.Window["focus_next"] = []string{"hyper+j"} }, true, false},
		{"duplicate chord", func(c *config.UserConfig) { c.Keybindings.System["quit"] = []string{"mod1+j"} }, false, true},
		{"empty spawn command", func(c *config.UserConfig) { c.Spawn[" "] = []string{"mod1+o"} }, true, false},
		{"press without button", func(c *config.UserConfig) {
			c.Pointer = append(c.Pointer, config.PointerConfig{Mods: "mod1", Phase: "press", Action: "move_grab"})
		}, true, false},
		{"unknown pointer action", func(c *config.UserConfig) {
			c.Pointer = append(c.Pointer, config.PointerConfig{Phase: "move", Action: "wiggle"})
		}, true, false},
		{"unknown phase", func(c *config.UserConfig) {
			c.Pointer = append(c.Pointer, config.PointerConfig{Phase: "hover", Action: "drag_motion"})
		}, true, false},
		{"bad log level", func(c *config.UserConfig) { c.Log.Level = "verbose" }, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			v := config.ValidateConfig(cfg)
			if v.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors = %v, want %v (%+v)", v.HasErrors(), tt.wantErr, v.Errors)
			}
			if v.HasWarnings() != tt.wantWarn {
				t.Errorf("HasWarnings = %v, want %v (%+v)", v.HasWarnings(), tt.wantWarn, v.Warnings)
			}
		})
	}
}

// =============================================================================
// Key Parsing Tests
// =============================================================================

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want config.KeyChord
	}{
		{"mod1+j", config.KeyChord{Mods: config.Mod1, Sym: 'j'}},
		{"Alt+Shift+J", config.KeyChord{Mods: config.Mod1 | config.ModShift, Sym: 'j'}},
		{"mod1+J", config.KeyChord{Mods: config.Mod1 | config.ModShift, Sym: 'j'}},
		{"super+Return", config.KeyChord{Mods: config.Mod4, Sym: 0xff0d}},
		{"ctrl+F5", config.KeyChord{Mods: config.ModControl, Sym: 0xffc2}},
		{"mod1++", config.KeyChord{Mods: config.Mod1, Sym: '+'}},
		{"space", config.KeyChord{Sym: ' '}},
	}
	for _, tt := range tests {
		got, err := config.ParseKey(tt.in)
		if err != nil {
			t.Errorf("ParseKey(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "mod1+", "hyper+a", "mod1+nosuchkey"} {
		if _, err := config.ParseKey(bad); !errors.Is(err, config.ErrInvalidKey) {
			t.Errorf("ParseKey(%q) error = %v, want ErrInvalidKey", bad, err)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Alt+Shift+J":   "mod1+shift+j",
		"shift+ctrl+up": "ctrl+shift+up",
		"mod1++":        "mod1++",
		"win+Enter":     "mod4+return",
		"mod1+F12":      "mod1+f12",
	}
	for in, want := range tests {
		if got := config.NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseButtonAndPhase(t *testing.T) {
	buttons := map[string]uint8{"": 0, "none": 0, "left": 1, "Right": 3, "2": 2, "5": 5}
	for in, want := range buttons {
		got, err := config.ParseButton(in)
		if err != nil || got != want {
			t.Errorf("ParseButton(%q) = %d, %v, want %d", in, got, err, want)
		}
	}
	for _, bad := range []string{"6", "0", "side"} {
		if _, err := config.ParseButton(bad); err == nil {
			t.Errorf("ParseButton(%q) should fail", bad)
		}
	}

	if p, err := config.ParsePhase("Release"); err != nil || p != config.PhaseRelease {
		t.Errorf("ParsePhase(Release) = %v, %v", p, err)
	}
	if config.Phase(-1).String() != "unknown" {
		t.Error("out-of-range phase should format as unknown")
	}
}

// =============================================================================
// KeybindRegistry Tests
// =============================================================================

func TestKeybindRegistryLookup(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	if got := registry.GetAction("Mod1+j"); got != "focus_next" {
		t.Errorf("GetAction(Mod1+j) = %q, want focus_next", got)
	}
	if got := registry.GetAction("mod1+shift+j"); got != "" {
		t.Errorf("unbound chord resolved to %q", got)
	}
	if got := registry.GetKeysForDisplay("split_grow"); got != "mod1+l" {
		t.Errorf("display = %q", got)
	}
	if keys := registry.GetKeys("nonexistent_action"); len(keys) != 0 {
		t.Errorf("unknown action has keys %v", keys)
	}

	chord, _ := config.ParseKey("mod1+p")
	b, ok := registry.Lookup(chord)
	if !ok || b.Action != config.ActionSpawn || b.Arg != "dmenu_run" {
		t.Errorf("mod1+p = %+v, %v, want spawn dmenu_run", b, ok)
	}
}

func TestKeybindRegistryFirstWins(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings.System["quit"] = []string{"mod1+j"}
	cfg.Spawn["xterm"] = []string{"mod1+k"}
	registry := config.NewKeybindRegistry(cfg)

	if got := registry.GetAction("mod1+j"); got != "focus_next" {
		t.Errorf("mod1+j = %q, want focus_next", got)
	}
	if got := registry.GetAction("mod1+k"); got != "focus_prev" {
		t.Errorf("mod1+k = %q, want focus_prev", got)
	}
	if keys := registry.GetKeys("quit"); len(keys) != 0 {
		t.Errorf("shadowed quit binding still listed: %v", keys)
	}
}

func TestGetKeybindings(t *testing.T) {
	sections := config.GetKeybindings(config.NewKeybindRegistry(config.DefaultConfig()))
	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
		if len(s.Bindings) == 0 {
			t.Errorf("section %s is empty", s.Title)
		}
	}
	want := []string{"WINDOWS", "WORKSPACES", "LAYOUT", "FLOATING", "SYSTEM", "SPAWN"}
	if !slices.Equal(titles, want) {
		t.Errorf("sections = %v, want %v", titles, want)
	}
}

func TestCustomizedActions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings.Window["focus_next"] = []string{"Alt+J"}
	cfg.Keybindings.Layout["split_grow"] = []string{"MOD1+l"}
	got := config.CustomizedActions(cfg)
	if !slices.Equal(got["window"], []string{"focus_next"}) {
		t.Errorf("window = %v, want [focus_next]", got["window"])
	}
	if len(got["layout"]) != 0 {
		t.Errorf("respelled default reported as customized: %v", got["layout"])
	}
}

func TestWorkspaceIndex(t *testing.T) {
	tests := []struct {
		action string
		prefix string
		index  int
		ok     bool
	}{
		{"switch_workspace_1", "switch_workspace_", 0, true},
		{"move_to_workspace_9", "move_to_workspace_", 8, true},
		{"switch_workspace_10", "", 0, false},
		{"switch_workspace_next", "", 0, false},
		{"focus_next", "", 0, false},
	}
	for _, tt := range tests {
		prefix, index, ok := config.WorkspaceIndex(tt.action)
		if prefix != tt.prefix || index != tt.index || ok != tt.ok {
			t.Errorf("WorkspaceIndex(%q) = %q, %d, %v", tt.action, prefix, index, ok)
		}
	}
}

// =============================================================================
// Override Tests
// =============================================================================

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	config.ApplyOverrides(config.NoOverrides, cfg)
	if cfg.Layout.Gap != config.DefaultGap || !cfg.Bar.Enabled {
		t.Error("NoOverrides changed the config")
	}

	config.ApplyOverrides(config.Overrides{Gap: 0, Border: 2, NoBar: true, Debug: true}, cfg)
	if cfg.Layout.Gap != 0 || cfg.Layout.Border != 2 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Bar.Enabled {
		t.Error("bar should be disabled")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}
