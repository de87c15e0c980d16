package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// Pointer actions.
const (
	ActionMoveGrab    = "move_grab"
	ActionResizeGrab  = "resize_grab"
	ActionDragMotion  = "drag_motion"
	ActionDragRelease = "drag_release"
	ActionDragReorder = "drag_reorder"
)

// PointerActions are the actions a [[pointer]] binding may name.
var PointerActions = []string{
	ActionMoveGrab,
	ActionResizeGrab,
	ActionDragMotion,
	ActionDragRelease,
	ActionDragReorder,
}

// ActionDescriptions describes every key action for help output.
var ActionDescriptions = map[string]string{
	"focus_next":            "Focus next window",
	"focus_prev":            "Focus previous window",
	"close_window":          "Close window",
	"toggle_fullscreen":     "Toggle fullscreen",
	"toggle_floating":       "Toggle floating",
	"split_grow":            "Widen the master area",
	"split_shrink":          "Narrow the master area",
	"switch_workspace_next": "Next workspace",
	"switch_workspace_prev": "Previous workspace",
	"switch_workspace_last": "Last used workspace",
	"float_move_left":       "Move floating window left",
	"float_move_right":      "Move floating window right",
	"float_move_up":         "Move floating window up",
	"float_move_down":       "Move floating window down",
	"float_grow_width":      "Widen floating window",
	"float_shrink_width":    "Narrow floating window",
	"float_grow_height":     "Heighten floating window",
	"float_shrink_height":   "Shorten floating window",
	"quit":                  "Quit",
}

func init() {
	for i := 1; i <= MaxWorkspaces; i++ {
		n := strconv.Itoa(i)
		ActionDescriptions["switch_workspace_"+n] = "Switch to workspace " + n
		ActionDescriptions["move_to_workspace_"+n] = "Move window to workspace " + n
	}
}

// IsKeyAction reports whether action can be bound in a keybindings table.
func IsKeyAction(action string) bool {
	_, ok := ActionDescriptions[action]
	return ok
}

// WorkspaceIndex returns the zero-based workspace index of a numbered
// workspace action such as "switch_workspace_3", and the action prefix.
func WorkspaceIndex(action string) (prefix string, index int, ok bool) {
	for _, p := range []string{"switch_workspace_", "move_to_workspace_"} {
		rest, found := strings.CutPrefix(action, p)
		if !found {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > MaxWorkspaces {
			return "", 0, false
		}
		return p, n - 1, true
	}
	return "", 0, false
}

var sectionTitles = map[string]string{
	"window":     "WINDOWS",
	"workspaces": "WORKSPACES",
	"layout":     "LAYOUT",
	"floating":   "FLOATING",
	"system":     "SYSTEM",
	"spawn":      "SPAWN",
}

// GetKeybindings returns all keybinding sections for help output, generated
// from the effective bindings in registry.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	var sections []KeybindingSection
	index := make(map[string]int)
	seen := make(map[string]bool)

	for _, b := range registry.Bindings() {
		name := b.Action
		desc := ActionDescriptions[b.Action]
		if b.Action == ActionSpawn {
			name = b.Arg
			desc = "Run " + b.Arg
		}
		if seen[b.Section+"\x00"+name] {
			continue
		}
		seen[b.Section+"\x00"+name] = true
		if desc == "" {
			desc = name
		}

		i, ok := index[b.Section]
		if !ok {
			i = len(sections)
			index[b.Section] = i
			sections = append(sections, KeybindingSection{Title: sectionTitles[b.Section]})
		}
		sections[i].Bindings = append(sections[i].Bindings, Keybinding{
			Key:         registry.GetKeysForDisplay(name),
			Description: desc,
		})
	}
	return sections
}

// GetPointerBindings returns the pointer bindings of cfg for help output.
func GetPointerBindings(cfg *UserConfig) KeybindingSection {
	section := KeybindingSection{Title: "POINTER"}
	for _, p := range cfg.Pointer {
		var parts []string
		if p.Mods != "" {
			parts = append(parts, p.Mods)
		}
		if p.Button != "" {
			parts = append(parts, p.Button)
		}
		parts = append(parts, p.Phase)
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         strings.Join(parts, "+"),
			Description: p.Action,
		})
	}
	return section
}

// CustomizedActions returns, per keybindings table, the actions whose keys
// differ from the defaults.
func CustomizedActions(cfg *UserConfig) map[string][]string {
	defaults := DefaultConfig()
	defSections := defaults.Keybindings.sections()
	out := make(map[string][]string)
	for i, s := range cfg.Keybindings.sections() {
		def := *defSections[i].binds
		for _, action := range sortedKeys(*s.binds) {
			if !slices.Equal(normalizeAll((*s.binds)[action]), normalizeAll(def[action])) {
				out[s.name] = append(out[s.name], action)
			}
		}
	}
	return out
}

func normalizeAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = NormalizeKey(k)
	}
	return out
}

// DescribeAction returns the help text for action.
func DescribeAction(action string) string {
	if d, ok := ActionDescriptions[action]; ok {
		return d
	}
	return fmt.Sprintf("unknown action %q", action)
}
