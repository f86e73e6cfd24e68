package hotkeys

import (
	"fmt"
	"strings"
)

// Keymap is the part of the windowing system the resolver needs.
type Keymap interface {
	// ModifierMapping returns a fresh snapshot of the modifier mapping.
	ModifierMapping() (ModifierMapping, error)
	// KeysymToKeycode reports the key code producing sym on the current
	// keyboard, or false when no key does.
	KeysymToKeycode(sym Keysym) (Keycode, bool)
}

// ModifierMapping is a snapshot of the X11 modifier mapping: eight rows
// (Shift, Lock, Control, Mod1..Mod5) of KeycodesPerModifier slots each,
// stored flat. Zero slots are unused.
type ModifierMapping struct {
	KeycodesPerModifier int
	Keycodes            []Keycode
}

// ModifierFor returns the mask bit of the first row holding code.
func (m ModifierMapping) ModifierFor(code Keycode) (ModMask, bool) {
	if code == 0 || m.KeycodesPerModifier <= 0 {
		return 0, false
	}
	for slot, held := range m.slots() {
		if held == code {
			return modifierMasks[slot/m.KeycodesPerModifier], true
		}
	}
	return 0, false
}

// MaskOf ORs together the mask bits of every row holding any of codes.
func (m ModifierMapping) MaskOf(codes ...Keycode) ModMask {
	if m.KeycodesPerModifier <= 0 {
		return 0
	}
	var mask ModMask
	for slot, held := range m.slots() {
		if held == 0 {
			continue
		}
		for _, code := range codes {
			if code != 0 && held == code {
				mask |= modifierMasks[slot/m.KeycodesPerModifier]
			}
		}
	}
	return mask
}

func (m ModifierMapping) slots() []Keycode {
	n := 8 * m.KeycodesPerModifier
	if n > len(m.Keycodes) {
		n = len(m.Keycodes)
	}
	return m.Keycodes[:n]
}

// modifierKeyNames maps user-facing modifier names to the left-hand key that
// defines them. A keyboard with only Control_R will not resolve "ctrl".
var modifierKeyNames = map[string]string{
	"alt":     "Alt_L",
	"ctrl":    "Control_L",
	"control": "Control_L",
	"shift":   "Shift_L",
	"meta":    "Meta_L",
	"super":   "Super_L",
}

// ResolveModifier maps a modifier name such as "Ctrl" to the mask bit that
// its key occupies in the current modifier mapping. ok is false when name is
// not a modifier or its key is absent from this keyboard.
func ResolveModifier(km Keymap, name string) (mask ModMask, ok bool, err error) {
	keyName, known := modifierKeyNames[strings.ToLower(name)]
	if !known {
		return 0, false, nil
	}
	sym, found := LookupKeysym(keyName)
	if !found {
		return 0, false, nil
	}
	code, found := km.KeysymToKeycode(sym)
	if !found {
		return 0, false, nil
	}
	mapping, err := km.ModifierMapping()
	if err != nil {
		return 0, false, fmt.Errorf("query modifier mapping: %w", err)
	}
	mask, ok = mapping.ModifierFor(code)
	return mask, ok, nil
}

// modifierDisplayName returns the name used in normalized bindings.
func modifierDisplayName(name string) string {
	switch strings.ToLower(name) {
	case "ctrl", "control":
		return "Ctrl"
	case "alt":
		return "Alt"
	case "shift":
		return "Shift"
	case "meta":
		return "Meta"
	case "super":
		return "Super"
	default:
		return name
	}
}
