package hotkeys

import (
	"fmt"
	"math/bits"
	"slices"
)

// DefaultIgnorableKeysyms are the lock keys whose modifier state should not
// affect whether a hotkey fires or whether keys count as held.
var DefaultIgnorableKeysyms = []Keysym{XKCapsLock, XKNumLock, XKScrollLock, XKModeSwitch}

// Ignorable is the set of "don't care" modifiers for one run.
type Ignorable struct {
	Mask    ModMask
	Keysyms []Keysym
}

// Contains reports whether sym is one of the ignorable keysyms.
func (ig Ignorable) Contains(sym Keysym) bool {
	return sym != NoSymbol && slices.Contains(ig.Keysyms, sym)
}

// IgnorableModifiers computes the modifier bits occupied by any of keysyms in
// the current modifier mapping. Keysyms with no key on this keyboard are
// skipped.
func IgnorableModifiers(km Keymap, keysyms []Keysym) (Ignorable, error) {
	ig := Ignorable{Keysyms: slices.Clone(keysyms)}
	codes := make([]Keycode, 0, len(keysyms))
	for _, sym := range keysyms {
		if code, ok := km.KeysymToKeycode(sym); ok {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return ig, nil
	}
	mapping, err := km.ModifierMapping()
	if err != nil {
		return ig, fmt.Errorf("query modifier mapping: %w", err)
	}
	ig.Mask = mapping.MaskOf(codes...)
	return ig, nil
}

// Subsets returns every subset of mask in ascending order, including 0 and
// mask itself. The result has 2^popcount(mask) entries.
func Subsets(mask ModMask) []ModMask {
	out := make([]ModMask, 0, 1<<bits.OnesCount16(uint16(mask)))
	for i := 0; i <= int(mask); i++ {
		if ModMask(i)&mask == ModMask(i) {
			out = append(out, ModMask(i))
		}
	}
	return out
}

// KeyVector is the X11 pressed-key bit vector: bit j of byte i is set when
// keycode 8*i+j is down.
type KeyVector [32]byte

// Pressed returns the key codes that are down, in ascending order.
func (v KeyVector) Pressed() []Keycode {
	var out []Keycode
	for i, b := range v {
		for j := 0; j < 8; j++ {
			if b&(1<<j) != 0 {
				out = append(out, Keycode(i*8+j))
			}
		}
	}
	return out
}

// Set marks code as pressed.
func (v *KeyVector) Set(code Keycode) {
	v[code/8] |= 1 << (code % 8)
}
