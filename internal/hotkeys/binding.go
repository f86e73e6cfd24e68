package hotkeys

// ModMask is an X11 modifier bitmask (Shift, Lock, Control, Mod1..Mod5).
type ModMask uint16

// Keycode is an X11 physical key code. Valid codes are 8..255.
type Keycode uint8

// Keysym is an X11 symbolic key identifier.
type Keysym uint32

const (
	ModShift   ModMask = 1 << 0
	ModLock    ModMask = 1 << 1
	ModControl ModMask = 1 << 2
	Mod1       ModMask = 1 << 3
	Mod2       ModMask = 1 << 4
	Mod3       ModMask = 1 << 5
	Mod4       ModMask = 1 << 6
	Mod5       ModMask = 1 << 7
)

// modifierMasks maps a modifier-mapping row to its grab mask bit.
var modifierMasks = [8]ModMask{
	ModShift, ModLock, ModControl, Mod1, Mod2, Mod3, Mod4, Mod5,
}

// Binding describes a parsed global hotkey.
// Construct only via ParseBinding to guarantee invariant consistency.
type Binding struct {
	mask       ModMask
	key        Keycode
	normalized string
}

// Mask returns the modifier bitmask.
func (b Binding) Mask() ModMask { return b.mask }

// Key returns the physical key code.
func (b Binding) Key() Keycode { return b.key }

// Normalized returns the canonical human-readable binding string.
func (b Binding) Normalized() string { return b.normalized }
