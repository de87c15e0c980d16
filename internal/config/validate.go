package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
)

// ValidationIssue describes one problem found in a configuration
type ValidationIssue struct {
	Field   string // config section, e.g. "layout" or "keybindings.window"
	Key     string
	Message string
}

// ValidationResult collects the problems found by ValidateConfig.
// Errors prevent the window manager from starting; warnings do not.
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether validation found any errors.
func (v *ValidationResult) HasErrors() bool {
	return len(v.Errors) > 0
}

// HasWarnings reports whether validation found any warnings.
func (v *ValidationResult) HasWarnings() bool {
	return len(v.Warnings) > 0
}

func (v *ValidationResult) errorf(field, key, format string, args ...any) {
	v.Errors = append(v.Errors, ValidationIssue{field, key, fmt.Sprintf(format, args...)})
}

func (v *ValidationResult) warnf(field, key, format string, args ...any) {
	v.Warnings = append(v.Warnings, ValidationIssue{field, key, fmt.Sprintf(format, args...)})
}

// ValidateConfig checks cfg for values the window manager cannot use.
func ValidateConfig(cfg *UserConfig) *ValidationResult {
	v := &ValidationResult{}
	validateWorkspaces(cfg, v)
	validateLayout(cfg, v)
	validateAppearance(cfg, v)
	validateBar(cfg, v)
	validateKeybindings(cfg, v)
	validatePointer(cfg, v)

	if !slices.Contains(ValidLogLevels, strings.ToLower(cfg.Log.Level)) {
		v.errorf("log", "level", "unknown level %q, expected one of %s", cfg.Log.Level, strings.Join(ValidLogLevels, ", "))
	}
	return v
}

func validateWorkspaces(cfg *UserConfig, v *ValidationResult) {
	tags := cfg.Workspaces.Tags
	if len(tags) == 0 {
		v.errorf("workspaces", "tags", "at least one workspace tag is required")
	}
	if len(tags) > MaxWorkspaces {
		v.warnf("workspaces", "tags", "only the first %d workspaces are reachable by number keys", MaxWorkspaces)
	}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			v.errorf("workspaces", "tags", "workspace tags must not be empty")
		}
		if seen[tag] {
			v.errorf("workspaces", "tags", "duplicate tag %q", tag)
		}
		seen[tag] = true
	}
	for _, tag := range cfg.Workspaces.TilingOnly {
		if !seen[tag] {
			v.warnf("workspaces", "tiling_only", "unknown tag %q", tag)
		}
	}
}

func validateLayout(cfg *UserConfig, v *ValidationResult) {
	l := cfg.Layout
	nonNegative := []struct {
		key string
		val int
	}{
		{"gap", l.Gap},
		{"border", l.Border},
		{"split_default", l.SplitDefault},
		{"split_margin", l.SplitMargin},
		{"drag_threshold", l.DragThreshold},
	}
	for _, f := range nonNegative {
		if f.val < 0 {
			v.errorf("layout", f.key, "must not be negative, got %d", f.val)
		}
	}
	if l.SplitStep <= 0 {
		v.errorf("layout", "split_step", "must be positive, got %d", l.SplitStep)
	}
	if l.FloatStep <= 0 {
		v.errorf("layout", "float_step", "must be positive, got %d", l.FloatStep)
	}
}

func validateAppearance(cfg *UserConfig, v *ValidationResult) {
	a := cfg.Appearance
	colors := []struct {
		key, val string
	}{
		{"border_normal", a.BorderNormal},
		{"border_focused", a.BorderFocused},
		{"bar_background", a.BarBackground},
		{"bar_foreground", a.BarForeground},
		{"bar_accent", a.BarAccent},
	}
	for _, c := range colors {
		if !IsHexColor(c.val) {
			v.errorf("appearance", c.key, "expected a #rgb or #rrggbb color, got %q", c.val)
		}
	}
}

// IsHexColor reports whether s is a #rgb or #rrggbb color.
func IsHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") || (len(s) != 4 && len(s) != 7) {
		return false
	}
	_, invalid := lipgloss.Color(s).(lipgloss.NoColor)
	return !invalid
}

func validateBar(cfg *UserConfig, v *ValidationResult) {
	b := cfg.Bar
	if !b.Enabled {
		return
	}
	if b.Height <= 0 {
		v.errorf("bar", "height", "must be positive, got %d", b.Height)
	}
	if b.FontSize <= 0 {
		v.errorf("bar", "font_size", "must be positive, got %g", b.FontSize)
	}
	if b.RefreshMS < int(MinBarRefresh.Milliseconds()) {
		v.warnf("bar", "refresh_ms", "%d is below the minimum, using %d", b.RefreshMS, MinBarRefresh.Milliseconds())
	}
	if b.Font != "" {
		if _, err := os.Stat(b.Font); err != nil {
			v.warnf("bar", "font", "cannot read %q, using the built-in font", b.Font)
		}
	}
}

func validateKeybindings(cfg *UserConfig, v *ValidationResult) {
	owners := make(map[KeyChord]string)
	check := func(field, owner string, keys []string) {
		for _, key := range keys {
			chord, err := ParseKey(key)
			if err != nil {
				v.errorf(field, owner, "%v", err)
				continue
			}
			if prev, ok := owners[chord]; ok && prev != owner {
				v.warnf(field, owner, "%s is also bound to %s, which takes precedence", chord, prev)
				continue
			}
			owners[chord] = owner
		}
	}

	for _, s := range cfg.Keybindings.sections() {
		field := "keybindings." + s.name
		for _, action := range sortedKeys(*s.binds) {
			if !IsKeyAction(action) {
				v.warnf(field, action, "unknown action")
			}
			check(field, action, (*s.binds)[action])
		}
	}
	for _, command := range sortedKeys(cfg.Spawn) {
		if strings.TrimSpace(command) == "" {
			v.errorf("spawn", command, "empty command")
			continue
		}
		check("spawn", command, cfg.Spawn[command])
	}
}

func validatePointer(cfg *UserConfig, v *ValidationResult) {
	for i, p := range cfg.Pointer {
		key := fmt.Sprintf("pointer[%d]", i)
		if _, err := ParseModifiers(p.Mods); err != nil {
			v.errorf("pointer", key, "%v", err)
		}
		button, err := ParseButton(p.Button)
		if err != nil {
			v.errorf("pointer", key, "%v", err)
		}
		phase, err := ParsePhase(p.Phase)
		if err != nil {
			v.errorf("pointer", key, "%v", err)
			continue
		}
		if (phase == PhasePress || phase == PhaseRelease) && button == 0 {
			v.errorf("pointer", key, "%s bindings need a button", phase)
		}
		if !slices.Contains(PointerActions, p.Action) {
			v.errorf("pointer", key, "unknown action %q", p.Action)
		}
	}
}
