package config

import (
	"maps"
	"slices"
	"strings"
)

// ActionSpawn is the action of every [spawn] binding. The command line is
// carried in Binding.Arg.
const ActionSpawn = "spawn"

// Binding is one resolved key binding.
type Binding struct {
	Section string // keybindings table, or "spawn"
	Action  string
	Arg     string // command line for spawn bindings
	Chord   KeyChord
}

// KeybindRegistry resolves key chords to actions. When several actions claim
// the same chord the first one registered wins: tables in the order window,
// workspaces, layout, floating, system, then spawn, and actions within a
// table in name order.
type KeybindRegistry struct {
	bindings []Binding
	byAction map[string][]string
	byChord  map[KeyChord]int
}

// NewKeybindRegistry builds a registry from cfg. Keys that do not parse are
// skipped; ValidateConfig reports them.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		byAction: make(map[string][]string),
		byChord:  make(map[KeyChord]int),
	}
	for _, s := range cfg.Keybindings.sections() {
		for _, action := range sortedKeys(*s.binds) {
			for _, key := range (*s.binds)[action] {
				r.register(Binding{Section: s.name, Action: action}, key)
			}
		}
	}
	for _, command := range sortedKeys(cfg.Spawn) {
		for _, key := range cfg.Spawn[command] {
			r.register(Binding{Section: "spawn", Action: ActionSpawn, Arg: command}, key)
		}
	}
	return r
}

func (r *KeybindRegistry) register(b Binding, key string) {
	chord, err := ParseKey(key)
	if err != nil {
		return
	}
	if _, taken := r.byChord[chord]; taken {
		return
	}
	b.Chord = chord
	r.byChord[chord] = len(r.bindings)
	r.bindings = append(r.bindings, b)

	name := b.Action
	if b.Arg != "" {
		name = b.Arg
	}
	r.byAction[name] = append(r.byAction[name], chord.String())
}

// GetKeys returns the canonical keys bound to action, or to the spawn
// command line action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.byAction[action]
}

// GetAction returns the action bound to key, or "" if none is.
func (r *KeybindRegistry) GetAction(key string) string {
	chord, err := ParseKey(key)
	if err != nil {
		return ""
	}
	b, ok := r.Lookup(chord)
	if !ok {
		return ""
	}
	return b.Action
}

// Lookup returns the binding for chord.
func (r *KeybindRegistry) Lookup(chord KeyChord) (Binding, bool) {
	i, ok := r.byChord[chord]
	if !ok {
		return Binding{}, false
	}
	return r.bindings[i], true
}

// Bindings returns every effective binding in registration order.
func (r *KeybindRegistry) Bindings() []Binding {
	return slices.Clone(r.bindings)
}

// GetKeysForDisplay returns the keys bound to action formatted for display.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	return strings.Join(r.byAction[action], ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
