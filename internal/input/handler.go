// Package input turns key and pointer events into window manager actions.
//
// Key bindings come from the config's keybind registry, pointer bindings
// from its [[pointer]] tables. Both resolve to named actions run by an
// ActionDispatcher.
package input

import (
	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/config"
)

// Keymap translates between keycodes and keysyms.
type Keymap interface {
	// Keysym returns the keysym of code, from the shifted column if
	// shifted is set.
	Keysym(code uint8, shifted bool) uint32
	// Keycodes returns every keycode whose unshifted keysym is sym.
	Keycodes(sym uint32) []uint8
}

// Event is one key or pointer event, reduced to what bindings look at.
type Event struct {
	// Window is the window the pointer is in, for pointer events.
	Window app.Window
	// Code is the keycode of key events.
	Code uint8
	// Button is the pointer button of press and release events.
	Button uint8
	// State is the raw modifier and button state of the event.
	State uint16
	// X, Y is the pointer position relative to the root window.
	X, Y int
}

// Trigger is what an action handler receives: the event that fired it and
// the binding's argument.
type Trigger struct {
	Event
	Arg string
}

// Options configures the side effects actions can have outside the model.
type Options struct {
	// Spawn runs a command line. Nil disables spawn bindings.
	Spawn func(command string)
	// Quit stops the window manager. Nil disables the quit action.
	Quit func()
}

// Handler owns the binding tables and applies events to a WM.
type Handler struct {
	wm         *app.WM
	keymap     Keymap
	registry   *config.KeybindRegistry
	pointer    [4][]pointerBinding
	dispatcher *ActionDispatcher
	opts       Options

	splitStep int
	floatStep int
	threshold int
}

// NewHandler builds the binding tables of cfg for m.
func NewHandler(m *app.WM, keymap Keymap, cfg *config.UserConfig, opts Options) *Handler {
	h := &Handler{
		wm:         m,
		keymap:     keymap,
		registry:   config.NewKeybindRegistry(cfg),
		dispatcher: NewActionDispatcher(),
		opts:       opts,
		splitStep:  cfg.Layout.SplitStep,
		floatStep:  cfg.Layout.FloatStep,
		threshold:  cfg.Layout.DragThreshold,
	}
	h.loadPointerBindings(cfg.Pointer)
	return h
}

// Registry returns the key binding registry.
func (h *Handler) Registry() *config.KeybindRegistry {
	return h.registry
}

// Dispatcher returns the action dispatcher, for registering extra actions.
func (h *Handler) Dispatcher() *ActionDispatcher {
	return h.dispatcher
}

// WM returns the window manager the handler drives.
func (h *Handler) WM() *app.WM {
	return h.wm
}

// Modifier bits that never take part in binding matches: Lock, NumLock
// (Mod2) and the pointer button state bits.
const ignoredMods = config.ModLock | config.Mod2

// CleanMask strips Lock, NumLock and the button state bits from an event
// state.
func CleanMask(state uint16) uint16 {
	return state &^ ignoredMods & 0xff
}

// lockVariants are the ignored modifier combinations every grab is repeated
// with so bindings work with CapsLock or NumLock on.
var lockVariants = []uint16{0, config.ModLock, config.Mod2, config.ModLock | config.Mod2}
