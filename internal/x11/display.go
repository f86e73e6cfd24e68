// Package x11 is the X11 core-protocol backend of a grab session.
package x11

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"hk/internal/hotkeys"
)

// ErrConnectionClosed is returned when the X server goes away while waiting
// for events.
var ErrConnectionClosed = errors.New("x11 connection closed")

// Display is a connection to the X server's default screen.
type Display struct {
	conn     *xgb.Conn
	root     xproto.Window
	keyboard keyboardMapping
	selected bool
	closed   bool
}

// Open connects to $DISPLAY and loads the keyboard mapping.
func Open() (*Display, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("cannot open display: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)
	count := int(setup.MaxKeycode) - int(setup.MinKeycode) + 1

	reply, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, byte(count)).Reply()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("get keyboard mapping: %w", err)
	}
	keysyms := make([]hotkeys.Keysym, len(reply.Keysyms))
	for i, sym := range reply.Keysyms {
		keysyms[i] = hotkeys.Keysym(sym)
	}

	d := &Display{
		conn: conn,
		root: screen.Root,
		keyboard: keyboardMapping{
			minKeycode: hotkeys.Keycode(setup.MinKeycode),
			perKeycode: int(reply.KeysymsPerKeycode),
			keysyms:    keysyms,
		},
	}
	slog.Debug("[x11] display opened", "root", d.root,
		"minKeycode", setup.MinKeycode, "maxKeycode", setup.MaxKeycode,
		"keysymsPerKeycode", reply.KeysymsPerKeycode)
	return d, nil
}

// ModifierMapping queries the server's current modifier mapping.
func (d *Display) ModifierMapping() (hotkeys.ModifierMapping, error) {
	reply, err := xproto.GetModifierMapping(d.conn).Reply()
	if err != nil {
		return hotkeys.ModifierMapping{}, err
	}
	codes := make([]hotkeys.Keycode, len(reply.Keycodes))
	for i, code := range reply.Keycodes {
		codes[i] = hotkeys.Keycode(code)
	}
	return hotkeys.ModifierMapping{
		KeycodesPerModifier: int(reply.KeycodesPerModifier),
		Keycodes:            codes,
	}, nil
}

// KeysymToKeycode returns the first key producing sym.
func (d *Display) KeysymToKeycode(sym hotkeys.Keysym) (hotkeys.Keycode, bool) {
	return d.keyboard.keycodeFor(sym)
}

// KeycodeToKeysym returns the unshifted keysym of code.
func (d *Display) KeycodeToKeysym(code hotkeys.Keycode) hotkeys.Keysym {
	return d.keyboard.keysym(code, 0)
}

// GrabKey registers an asynchronous passive grab of key+mods on the root
// window.
func (d *Display) GrabKey(key hotkeys.Keycode, mods hotkeys.ModMask) error {
	return xproto.GrabKeyChecked(
		d.conn,
		false,
		d.root,
		uint16(mods),
		xproto.Keycode(key),
		xproto.GrabModeAsync,
		xproto.GrabModeAsync).Check()
}

// WaitKeyPress selects key presses on the root window and blocks until one
// arrives. Other events and asynchronous X errors are skipped.
func (d *Display) WaitKeyPress() error {
	if !d.selected {
		err := xproto.ChangeWindowAttributesChecked(d.conn, d.root,
			xproto.CwEventMask, []uint32{xproto.EventMaskKeyPress}).Check()
		if err != nil {
			return fmt.Errorf("select key press events: %w", err)
		}
		d.selected = true
	}
	for {
		ev, xerr := d.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return ErrConnectionClosed
		}
		if xerr != nil {
			slog.Debug("[x11] ignoring X error while waiting", "error", xerr)
			continue
		}
		if press, ok := ev.(xproto.KeyPressEvent); ok {
			slog.Debug("[x11] key press", "keycode", press.Detail, "state", press.State)
			return nil
		}
	}
}

// QueryKeymap returns the pressed state of every key.
func (d *Display) QueryKeymap() (hotkeys.KeyVector, error) {
	var v hotkeys.KeyVector
	reply, err := xproto.QueryKeymap(d.conn).Reply()
	if err != nil {
		return v, err
	}
	copy(v[:], reply.Keys)
	return v, nil
}

// Close closes the connection. Calling it again is a no-op.
func (d *Display) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.conn.Close()
	return nil
}
