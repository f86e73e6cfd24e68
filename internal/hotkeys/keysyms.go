package hotkeys

//go:generate go run gen_keysyms.go -dir /usr/include/X11

import (
	"fmt"
	"strconv"
	"strings"
)

// NoSymbol is the keysym X11 reports for an empty keyboard-mapping slot.
const NoSymbol Keysym = 0

// Well-known keysyms referenced by the resolver and the ignorable calculator.
const (
	XKShiftL      Keysym = 0xffe1
	XKShiftR      Keysym = 0xffe2
	XKControlL    Keysym = 0xffe3
	XKControlR    Keysym = 0xffe4
	XKCapsLock    Keysym = 0xffe5
	XKShiftLock   Keysym = 0xffe6
	XKMetaL       Keysym = 0xffe7
	XKMetaR       Keysym = 0xffe8
	XKAltL        Keysym = 0xffe9
	XKAltR        Keysym = 0xffea
	XKSuperL      Keysym = 0xffeb
	XKSuperR      Keysym = 0xffec
	XKHyperL      Keysym = 0xffed
	XKHyperR      Keysym = 0xffee
	XKNumLock     Keysym = 0xff7f
	XKScrollLock  Keysym = 0xff14
	XKModeSwitch  Keysym = 0xff7e
	XKLevel3Shift Keysym = 0xfe03
)

type keysymEntry struct {
	name string
	sym  Keysym
}

const (
	// unicodeKeysymBase marks a keysym as a Unicode code point (U+0100 and up).
	unicodeKeysymBase Keysym = 0x01000000
	maxKeysym         Keysym = 0x1fffffff
)

var (
	keysymByName     map[string]Keysym
	keysymByFoldName map[string]Keysym
	nameByKeysym     map[Keysym]string
)

// The first entry for a keysym is its canonical name, and the first entry
// for a case-folded name wins case-insensitive lookups.
func init() {
	keysymByName = make(map[string]Keysym, len(generatedKeysyms))
	keysymByFoldName = make(map[string]Keysym, len(generatedKeysyms))
	nameByKeysym = make(map[Keysym]string, len(generatedKeysyms))
	for _, e := range generatedKeysyms {
		keysymByName[e.name] = e.sym
		fold := strings.ToLower(e.name)
		if _, exists := keysymByFoldName[fold]; !exists {
			keysymByFoldName[fold] = e.sym
		}
		if _, exists := nameByKeysym[e.sym]; !exists {
			nameByKeysym[e.sym] = e.name
		}
	}
}

// LookupKeysym maps an X11 keysym name to its keysym. Lookup order:
//   - an exact name from keysymdef.h or XF86keysym.h ("eacute", "XF86Mail");
//   - a single printable ASCII character, which maps to itself ("+");
//   - "U" followed by a hex code point ("U20AC");
//   - "0x" followed by a hex keysym value ("0xff");
//   - the name matched case-insensitively ("f6").
func LookupKeysym(name string) (Keysym, bool) {
	if name == "" {
		return NoSymbol, false
	}
	if sym, ok := keysymByName[name]; ok {
		return sym, true
	}
	if len(name) == 1 && name[0] >= 0x20 && name[0] <= 0x7e {
		return Keysym(name[0]), true
	}
	if sym, matched := parseNumericKeysym(name); matched {
		return sym, sym != NoSymbol
	}
	if sym, ok := keysymByFoldName[strings.ToLower(name)]; ok {
		return sym, true
	}
	return NoSymbol, false
}

// parseNumericKeysym handles the "U<hex>" and "0x<hex>" forms. matched is
// true when name has one of those shapes; sym is NoSymbol when the value is
// out of range.
func parseNumericKeysym(name string) (sym Keysym, matched bool) {
	switch {
	case len(name) > 1 && name[0] == 'U':
		cp, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return NoSymbol, false
		}
		return unicodeKeysym(cp), true
	case len(name) > 2 && name[0] == '0' && (name[1] == 'x' || name[1] == 'X'):
		v, err := strconv.ParseUint(name[2:], 16, 32)
		if err != nil {
			return NoSymbol, false
		}
		if v > uint64(maxKeysym) {
			return NoSymbol, true
		}
		return Keysym(v), true
	}
	return NoSymbol, false
}

// unicodeKeysym maps a code point to its keysym. Latin-1 code points are
// their own keysyms; control characters and values past U+10FFFF have none.
func unicodeKeysym(cp uint64) Keysym {
	switch {
	case cp < 0x20:
		return NoSymbol
	case cp < 0x7f, cp >= 0xa0 && cp < 0x100:
		return Keysym(cp)
	case cp > 0x10ffff:
		return NoSymbol
	}
	return unicodeKeysymBase | Keysym(cp)
}

// KeysymName returns the canonical name of sym. Unnamed Unicode keysyms are
// written as "U<hex>"; any other unknown keysym yields "".
func KeysymName(sym Keysym) string {
	if name, ok := nameByKeysym[sym]; ok {
		return name
	}
	if sym >= unicodeKeysymBase+0x100 && sym <= unicodeKeysymBase+0x10ffff {
		return fmt.Sprintf("U%04X", uint32(sym-unicodeKeysymBase))
	}
	return ""
}
