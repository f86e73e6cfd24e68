package x11

import "hk/internal/hotkeys"

// keyboardMapping is the keycode→keysym table of one keyboard, laid out as
// X11 returns it: perKeycode keysyms for each keycode starting at minKeycode.
type keyboardMapping struct {
	minKeycode hotkeys.Keycode
	perKeycode int
	keysyms    []hotkeys.Keysym
}

func (m keyboardMapping) keycodeCount() int {
	if m.perKeycode <= 0 {
		return 0
	}
	return len(m.keysyms) / m.perKeycode
}

// keysym returns the keysym at column col of code. A single-case letter in
// column 0 with an empty column 1 yields its upper-case form there, matching
// the core protocol's keysym interpretation rules. Column 1 reads as empty
// when the server sends a single keysym per keycode.
func (m keyboardMapping) keysym(code hotkeys.Keycode, col int) hotkeys.Keysym {
	if code < m.minKeycode || col < 0 || col >= m.columns() {
		return hotkeys.NoSymbol
	}
	row := int(code - m.minKeycode)
	if row >= m.keycodeCount() {
		return hotkeys.NoSymbol
	}
	base := row * m.perKeycode
	sym := hotkeys.NoSymbol
	if col < m.perKeycode {
		sym = m.keysyms[base+col]
	}
	if col == 1 && sym == hotkeys.NoSymbol {
		if lower := m.keysyms[base]; lower >= 'a' && lower <= 'z' {
			return lower - 'a' + 'A'
		}
	}
	return sym
}

// columns is the number of columns keysym and keycodeFor consult.
func (m keyboardMapping) columns() int {
	if m.perKeycode == 1 {
		return 2
	}
	return m.perKeycode
}

// keycodeFor scans column by column, then keycode by keycode, and returns
// the first key producing sym.
func (m keyboardMapping) keycodeFor(sym hotkeys.Keysym) (hotkeys.Keycode, bool) {
	if sym == hotkeys.NoSymbol {
		return 0, false
	}
	count := m.keycodeCount()
	for col := 0; col < m.columns(); col++ {
		for row := 0; row < count; row++ {
			code := m.minKeycode + hotkeys.Keycode(row)
			if m.keysym(code, col) == sym {
				return code, true
			}
		}
	}
	return 0, false
}
