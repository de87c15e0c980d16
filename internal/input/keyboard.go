package input

import (
	"github.com/dodorz/xroagwem/internal/config"
)

// KeyGrab is one passive key grab the server must install on the root
// window.
type KeyGrab struct {
	Mods uint16
	Code uint8
}

// HandleKeyPress runs the action bound to the pressed chord. The keysym is
// taken from the unshifted column of the keycode so that shift+1 matches a
// "shift+1" binding, and the cleaned modifier mask must equal the binding's
// exactly. It reports whether a binding fired.
func (h *Handler) HandleKeyPress(ev Event) bool {
	chord := config.KeyChord{
		Mods: CleanMask(ev.State),
		Sym:  h.keymap.Keysym(ev.Code, false),
	}
	b, ok := h.registry.Lookup(chord)
	if !ok {
		return false
	}
	if !h.dispatcher.Dispatch(b.Action, h, Trigger{Event: ev, Arg: b.Arg}) {
		h.wm.LogDebug("key bound to unknown action", "key", chord, "action", b.Action)
		return false
	}
	return true
}

// KeyGrabs returns the grabs needed for every bound key: each keycode that
// produces the binding's keysym, once per lock variant.
func (h *Handler) KeyGrabs() []KeyGrab {
	var grabs []KeyGrab
	seen := make(map[KeyGrab]bool)
	for _, b := range h.registry.Bindings() {
		for _, code := range h.keymap.Keycodes(b.Chord.Sym) {
			for _, v := range lockVariants {
				g := KeyGrab{Mods: b.Chord.Mods | v, Code: code}
				if !seen[g] {
					seen[g] = true
					grabs = append(grabs, g)
				}
			}
		}
	}
	return grabs
}
