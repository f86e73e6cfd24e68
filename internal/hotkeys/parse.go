package hotkeys

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIllegalToken reports a token that is neither a modifier nor a key.
	ErrIllegalToken = errors.New("illegal modifier or key")
	// ErrRepeatedModifier reports a modifier bit named twice.
	ErrRepeatedModifier = errors.New("repeated modifier")
	// ErrRepeatedKey reports a second non-modifier key.
	ErrRepeatedKey = errors.New("repeated key")
	// ErrKeyNotMapped reports a known key name that no key on this keyboard produces.
	ErrKeyNotMapped = errors.New("key not on this keyboard")
	// ErrNoKey reports a descriptor made only of modifiers.
	ErrNoKey = errors.New("hotkey has no key")
)

// ParseError describes the offending token of a hotkey descriptor.
type ParseError struct {
	Spec   string
	Token  string
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrNoKey) {
		return fmt.Sprintf("%v: %q", e.Err, e.Spec)
	}
	return fmt.Sprintf("%v %q (%d bytes at offset %d of %q)", e.Err, e.Token, len(e.Token), e.Offset, e.Spec)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseBinding parses a descriptor like "Ctrl+Alt+F6" against the current
// keyboard. Tokens are separated by '+'; a '+' at the start of the string or
// right after another '+' is itself a token, so "Ctrl++" binds the plus key.
func ParseBinding(km Keymap, spec string) (Binding, error) {
	var (
		mask     ModMask
		key      Keycode
		haveKey  bool
		keyName  string
		modNames []string
	)

	i := 0
	for i < len(spec) {
		var token string
		switch next := strings.IndexByte(spec[i:], '+'); {
		case next == 0:
			token = spec[i : i+1]
		case next < 0:
			token = spec[i:]
		default:
			token = spec[i : i+next]
		}
		tokenErr := func(err error) error {
			return &ParseError{Spec: spec, Token: token, Offset: i, Err: err}
		}

		bit, isMod, err := ResolveModifier(km, token)
		if err != nil {
			return Binding{}, err
		}
		if isMod {
			if mask&bit != 0 {
				return Binding{}, tokenErr(ErrRepeatedModifier)
			}
			mask |= bit
			modNames = append(modNames, modifierDisplayName(token))
			i += len(token) + 1
			continue
		}

		sym, isKey := LookupKeysym(token)
		if !isKey {
			return Binding{}, tokenErr(ErrIllegalToken)
		}
		if haveKey {
			return Binding{}, tokenErr(ErrRepeatedKey)
		}
		code, mapped := km.KeysymToKeycode(sym)
		if !mapped {
			return Binding{}, tokenErr(ErrKeyNotMapped)
		}
		key, haveKey = code, true
		keyName = KeysymName(sym)
		if keyName == "" {
			keyName = token
		}
		i += len(token) + 1
	}

	if !haveKey {
		return Binding{}, &ParseError{Spec: spec, Offset: len(spec), Err: ErrNoKey}
	}
	return Binding{
		mask:       mask,
		key:        key,
		normalized: strings.Join(append(modNames, keyName), "+"),
	}, nil
}
