package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidKey is returned when a key or pointer binding cannot be parsed.
var ErrInvalidKey = errors.New("invalid key")

// Modifier masks as defined by the X11 core protocol.
const (
	ModShift   uint16 = 1 << 0
	ModLock    uint16 = 1 << 1
	ModControl uint16 = 1 << 2
	Mod1       uint16 = 1 << 3
	Mod2       uint16 = 1 << 4
	Mod3       uint16 = 1 << 5
	Mod4       uint16 = 1 << 6
	Mod5       uint16 = 1 << 7
)

// modifierNames maps every accepted modifier spelling to its mask.
// modifierOrder gives the spelling and order used when formatting.
var modifierNames = map[string]uint16{
	"shift":   ModShift,
	"lock":    ModLock,
	"ctrl":    ModControl,
	"control": ModControl,
	"mod1":    Mod1,
	"alt":     Mod1,
	"mod2":    Mod2,
	"mod3":    Mod3,
	"mod4":    Mod4,
	"super":   Mod4,
	"win":     Mod4,
	"mod5":    Mod5,
}

var modifierOrder = []struct {
	name string
	mask uint16
}{
	{"ctrl", ModControl},
	{"mod1", Mod1},
	{"mod2", Mod2},
	{"mod3", Mod3},
	{"mod4", Mod4},
	{"mod5", Mod5},
	{"lock", ModLock},
	{"shift", ModShift},
}

// Keysyms from X11/keysymdef.h and XF86keysym.h for keys that do not have a
// one-character name.
var namedKeysyms = map[string]uint32{
	"space":        0x0020,
	"exclam":       0x0021,
	"apostrophe":   0x0027,
	"comma":        0x002c,
	"minus":        0x002d,
	"period":       0x002e,
	"slash":        0x002f,
	"semicolon":    0x003b,
	"equal":        0x003d,
	"bracketleft":  0x005b,
	"backslash":    0x005c,
	"bracketright": 0x005d,
	"grave":        0x0060,
	"backspace":    0xff08,
	"tab":          0xff09,
	"return":       0xff0d,
	"enter":        0xff0d,
	"escape":       0xff1b,
	"esc":          0xff1b,
	"home":         0xff50,
	"left":         0xff51,
	"up":           0xff52,
	"right":        0xff53,
	"down":         0xff54,
	"pageup":       0xff55,
	"prior":        0xff55,
	"pagedown":     0xff56,
	"next":         0xff56,
	"end":          0xff57,
	"print":        0xff61,
	"insert":       0xff63,
	"delete":       0xffff,

	"xf86audiolowervolume": 0x1008ff11,
	"xf86audiomute":        0x1008ff12,
	"xf86audioraisevolume": 0x1008ff13,
}

// keysymNames is the reverse of namedKeysyms. Keys with several spellings
// format with the one used in the default config.
var keysymNames = map[uint32]string{}

func init() {
	for name, sym := range namedKeysyms {
		keysymNames[sym] = name
	}
	keysymNames[0xff0d] = "return"
	keysymNames[0xff1b] = "escape"
	keysymNames[0xff55] = "pageup"
	keysymNames[0xff56] = "pagedown"
	for i := range 12 {
		name := "f" + strconv.Itoa(i+1)
		namedKeysyms[name] = 0xffbe + uint32(i)
		keysymNames[0xffbe+uint32(i)] = name
	}
}

// KeyChord is a parsed key binding: a modifier mask and a keysym.
type KeyChord struct {
	Mods uint16
	Sym  uint32
}

// String formats the chord in canonical form, e.g. "mod1+shift+j".
func (k KeyChord) String() string {
	parts := modifierParts(k.Mods)
	return strings.Join(append(parts, KeysymName(k.Sym)), "+")
}

// ParseKey parses a binding such as "mod1+shift+Return". Modifier and key
// names are case-insensitive, except that a single upper-case letter implies
// shift.
func ParseKey(s string) (KeyChord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyChord{}, fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	parts := strings.Split(s, "+")
	// "mod1++" binds the plus key itself.
	if strings.HasSuffix(s, "++") {
		parts = append(parts[:len(parts)-2], "+")
	}

	var chord KeyChord
	mods, err := parseModifiers(parts[:len(parts)-1])
	if err != nil {
		return KeyChord{}, fmt.Errorf("%w %q: %w", ErrInvalidKey, s, err)
	}
	chord.Mods = mods

	key := parts[len(parts)-1]
	if key == "" {
		return KeyChord{}, fmt.Errorf("%w %q: missing key", ErrInvalidKey, s)
	}
	sym, shifted, ok := lookupKeysym(key)
	if !ok {
		return KeyChord{}, fmt.Errorf("%w %q: unknown key %q", ErrInvalidKey, s, key)
	}
	chord.Sym = sym
	if shifted {
		chord.Mods |= ModShift
	}
	return chord, nil
}

// ParseModifiers parses a "+"-separated modifier list such as "mod1+shift".
// The empty string means no modifiers.
func ParseModifiers(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return 0, nil
	}
	mods, err := parseModifiers(strings.Split(s, "+"))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidKey, s, err)
	}
	return mods, nil
}

func parseModifiers(names []string) (uint16, error) {
	var mods uint16
	for _, name := range names {
		m, ok := modifierNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", name)
		}
		mods |= m
	}
	return mods, nil
}

// FormatModifiers formats a modifier mask, e.g. "mod1+shift". A zero mask
// formats as the empty string.
func FormatModifiers(mods uint16) string {
	return strings.Join(modifierParts(mods), "+")
}

func modifierParts(mods uint16) []string {
	var parts []string
	for _, m := range modifierOrder {
		if mods&m.mask != 0 {
			parts = append(parts, m.name)
		}
	}
	return parts
}

func lookupKeysym(key string) (sym uint32, shifted bool, ok bool) {
	if r := []rune(key); len(r) == 1 && r[0] >= 0x20 && r[0] < 0x7f {
		c := r[0]
		if c >= 'A' && c <= 'Z' {
			return uint32(c - 'A' + 'a'), true, true
		}
		return uint32(c), false, true
	}
	sym, ok = namedKeysyms[strings.ToLower(key)]
	return sym, false, ok
}

// KeysymName returns the config spelling of a keysym.
func KeysymName(sym uint32) string {
	if name, ok := keysymNames[sym]; ok {
		return name
	}
	if sym > 0x20 && sym < 0x7f {
		return string(rune(sym))
	}
	return fmt.Sprintf("0x%x", sym)
}

// NormalizeKey returns the canonical spelling of a binding, or the trimmed
// lower-case input if it does not parse.
func NormalizeKey(s string) string {
	chord, err := ParseKey(s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return chord.String()
}

// =============================================================================
// Pointer Bindings
// =============================================================================

// Phase is the pointer event phase a pointer binding reacts to.
type Phase int

const (
	PhasePress Phase = iota
	PhaseRelease
	PhaseMove
	PhaseEnter
)

var phaseNames = []string{"press", "release", "move", "enter"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// ParsePhase parses a pointer binding phase.
func ParsePhase(s string) (Phase, error) {
	i := slices.Index(phaseNames, strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return 0, fmt.Errorf("%w: unknown phase %q", ErrInvalidKey, s)
	}
	return Phase(i), nil
}

var buttonNames = map[string]uint8{
	"":       0,
	"none":   0,
	"left":   1,
	"middle": 2,
	"right":  3,
	"up":     4,
	"down":   5,
}

// ParseButton parses a pointer button name or number. Zero means no button.
func ParseButton(s string) (uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if b, ok := buttonNames[s]; ok {
		return b, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 5 {
		return 0, fmt.Errorf("%w: unknown button %q", ErrInvalidKey, s)
	}
	return uint8(n), nil
}

// ButtonName returns the config spelling of a button.
func ButtonName(b uint8) string {
	switch b {
	case 0:
		return "none"
	case 1:
		return "left"
	case 2:
		return "middle"
	case 3:
		return "right"
	}
	return strconv.Itoa(int(b))
}
