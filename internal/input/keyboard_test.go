package input

import (
	"slices"
	"testing"

	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/app/apptest"
	"github.com/dodorz/xroagwem/internal/config"
)

// keymap is a US-layout fragment: keycode -> unshifted keysym.
type keymap map[uint8]uint32

var usKeys = keymap{10: '1', 11: '2', 24: 'q', 33: 'p', 44: 'j', 45: 'k', 65: ' '}

const (
	codeJ = 44
	codeK = 45
	codeQ = 24
	codeP = 33
	code2 = 11
)

func (k keymap) Keysym(code uint8, _ bool) uint32 {
	return k[code]
}

func (k keymap) Keycodes(sym uint32) []uint8 {
	var out []uint8
	for code, s := range k {
		if s == sym {
			out = append(out, code)
		}
	}
	slices.Sort(out)
	return out
}

type recorder struct {
	spawned []string
	quits   int
}

func newHandler(t *testing.T, cfg *config.UserConfig) (*Handler, *app.WM, *apptest.Server, *recorder) {
	t.Helper()
	m, s := apptest.NewWM()
	rec := &recorder{}
	h := NewHandler(m, usKeys, cfg, Options{
		Spawn: func(cmd string) { rec.spawned = append(rec.spawned, cmd) },
		Quit:  func() { rec.quits++ },
	})
	return h, m, s, rec
}

func key(code uint8, state uint16) Event {
	return Event{Code: code, State: state}
}

// =============================================================================
// Key Matching
// =============================================================================

func TestKeyPressRunsBoundAction(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1, 2, 3)

	if !h.HandleKeyPress(key(codeJ, config.Mod1)) {
		t.Fatal("mod1+j should fire")
	}
	if m.Active.Window != 1 {
		t.Errorf("active = %d, want 1 after focus_next wraps", m.Active.Window)
	}

	h.HandleKeyPress(key(codeK, config.Mod1))
	if m.Active.Window != 3 {
		t.Errorf("active = %d, want 3 after focus_prev", m.Active.Window)
	}

	h.HandleKeyPress(key(code2, config.Mod1))
	if m.Active.Workspace != 1 {
		t.Errorf("workspace = %d, want 1", m.Active.Workspace)
	}
}

func TestKeyPressIgnoresLockModifiers(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1, 2)

	state := config.Mod1 | config.ModLock | config.Mod2 | 1<<8 // button 1 held too
	if !h.HandleKeyPress(key(codeJ, state)) {
		t.Error("CapsLock and NumLock should not prevent a match")
	}
}

func TestKeyPressRequiresExactModifiers(t *testing.T) {
	h, m, s, _ := newHandler(t, config.DefaultConfig())
	apptest.Manage(m, s, 1, 2)

	tests := []struct {
		name  string
		state uint16
	}{
		{"extra shift", config.Mod1 | config.ModShift},
		{"extra ctrl", config.Mod1 | config.ModControl},
		{"no modifier", 0},
		{"different modifier", config.Mod4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h.HandleKeyPress(key(codeJ, tt.state)) {
				t.Error("binding fired with the wrong modifiers")
			}
			if m.Active.Window != 2 {
				t.Errorf("active changed to %d", m.Active.Window)
			}
		})
	}
}

func TestKeyPressFirstBindingWins(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings.System["quit"] = []string{"mod1+j"}
	h, m, s, rec := newHandler(t, cfg)
	apptest.Manage(m, s, 1, 2)

	h.HandleKeyPress(key(codeJ, config.Mod1))
	if rec.quits != 0 {
		t.Error("shadowed quit binding fired")
	}
	if m.Active.Window != 1 {
		t.Errorf("active = %d, want focus_next to have run", m.Active.Window)
	}
}

func TestSpawnAndQuit(t *testing.T) {
	h, _, _, rec := newHandler(t, config.DefaultConfig())

	h.HandleKeyPress(key(codeP, config.Mod1))
	if !slices.Equal(rec.spawned, []string{"dmenu_run"}) {
		t.Errorf("spawned = %v, want [dmenu_run]", rec.spawned)
	}

	h.HandleKeyPress(key(codeQ, config.Mod1|config.ModShift))
	if rec.quits != 1 {
		t.Errorf("quits = %d, want 1", rec.quits)
	}
}

func TestNilCallbacksAreSafe(t *testing.T) {
	m, _ := apptest.NewWM()
	h := NewHandler(m, usKeys, config.DefaultConfig(), Options{})
	h.HandleKeyPress(key(codeP, config.Mod1))
	h.HandleKeyPress(key(codeQ, config.Mod1|config.ModShift))
}

// =============================================================================
// Grabs
// =============================================================================

func TestKeyGrabs(t *testing.T) {
	h, _, _, _ := newHandler(t, config.DefaultConfig())
	grabs := h.KeyGrabs()

	for _, want := range []KeyGrab{
		{Mods: config.Mod1, Code: codeJ},
		{Mods: config.Mod1 | config.ModLock, Code: codeJ},
		{Mods: config.Mod1 | config.Mod2, Code: codeJ},
		{Mods: config.Mod1 | config.ModLock | config.Mod2, Code: codeJ},
		{Mods: config.Mod1 | config.ModShift, Code: codeQ},
	} {
		if !slices.Contains(grabs, want) {
			t.Errorf("missing grab %+v", want)
		}
	}

	seen := make(map[KeyGrab]bool)
	for _, g := range grabs {
		if seen[g] {
			t.Errorf("duplicate grab %+v", g)
		}
		seen[g] = true
	}
}

func TestCleanMask(t *testing.T) {
	tests := []struct {
		state, want uint16
	}{
		{config.Mod1, config.Mod1},
		{config.Mod1 | config.ModLock, config.Mod1},
		{config.Mod4 | config.Mod2 | config.ModShift, config.Mod4 | config.ModShift},
		{config.ModControl | 1<<8 | 1<<10, config.ModControl},
	}
	for _, tt := range tests {
		if got := CleanMask(tt.state); got != tt.want {
			t.Errorf("CleanMask(%#x) = %#x, want %#x", tt.state, got, tt.want)
		}
	}
}

// =============================================================================
// Dispatcher
// =============================================================================

func TestDispatcherCoversEveryAction(t *testing.T) {
	d := NewActionDispatcher()
	for action := range config.ActionDescriptions {
		if !d.HasAction(action) {
			t.Errorf("key action %s has no handler", action)
		}
	}
	for _, action := range config.PointerActions {
		if !d.HasAction(action) {
			t.Errorf("pointer action %s has no handler", action)
		}
	}
	if !d.HasAction(config.ActionSpawn) {
		t.Error("spawn has no handler")
	}
	if !slices.IsSorted(d.Actions()) {
		t.Error("Actions should be sorted")
	}
}

func TestDispatcherRegister(t *testing.T) {
	h, _, _, _ := newHandler(t, config.DefaultConfig())
	called := ""
	h.Dispatcher().Register("custom", func(_ *Handler, tr Trigger) { called = tr.Arg })

	if !h.Dispatcher().Dispatch("custom", h, Trigger{Arg: "x"}) || called != "x" {
		t.Error("registered action did not run")
	}
	if h.Dispatcher().Dispatch("nope", h, Trigger{}) {
		t.Error("unknown action reported as dispatched")
	}
}
