package hotkeys

import (
	"errors"
	"strings"
	"testing"
)

func TestParseBindingSuccess(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		wantNorm string
		wantMask ModMask
		wantKey  Keycode
	}{
		{
			name:     "Ctrl+Alt+F6",
			spec:     "Ctrl+Alt+F6",
			wantNorm: "Ctrl+Alt+F6",
			wantMask: ModControl | Mod1,
			wantKey:  kcF6,
		},
		{
			name:     "lower-case function key",
			spec:     "ctrl+alt+f6",
			wantNorm: "Ctrl+Alt+F6",
			wantMask: ModControl | Mod1,
			wantKey:  kcF6,
		},
		{
			name:     "plus key",
			spec:     "Ctrl++",
			wantNorm: "Ctrl+plus",
			wantMask: ModControl,
			wantKey:  kcEqual,
		},
		{
			name:     "leading plus is a key",
			spec:     "+",
			wantNorm: "plus",
			wantMask: 0,
			wantKey:  kcEqual,
		},
		{
			name:     "plus key before modifier",
			spec:     "++Shift",
			wantNorm: "Shift+plus",
			wantMask: ModShift,
			wantKey:  kcEqual,
		},
		{
			name:     "key without modifiers",
			spec:     "Return",
			wantNorm: "Return",
			wantMask: 0,
			wantKey:  kcReturn,
		},
		{
			name:     "key first",
			spec:     "t+Ctrl+Alt",
			wantNorm: "Ctrl+Alt+t",
			wantMask: ModControl | Mod1,
			wantKey:  kcT,
		},
		{
			name:     "all rows",
			spec:     "shift+control+alt+super+a",
			wantNorm: "Shift+Ctrl+Alt+Super+a",
			wantMask: ModShift | ModControl | Mod1 | Mod4,
			wantKey:  kcA,
		},
		{
			name:     "trailing separator is ignored",
			spec:     "Ctrl+a+",
			wantNorm: "Ctrl+a",
			wantMask: ModControl,
			wantKey:  kcA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBinding(newUSKeymap(), tt.spec)
			if err != nil {
				t.Fatalf("ParseBinding(%q) error = %v", tt.spec, err)
			}
			if got.Mask() != tt.wantMask {
				t.Fatalf("Mask() = %#x, want %#x", got.Mask(), tt.wantMask)
			}
			if got.Key() != tt.wantKey {
				t.Fatalf("Key() = %d, want %d", got.Key(), tt.wantKey)
			}
			if got.Normalized() != tt.wantNorm {
				t.Fatalf("Normalized() = %q, want %q", got.Normalized(), tt.wantNorm)
			}
		})
	}
}

func TestParseBindingCaseInsensitive(t *testing.T) {
	a, err := ParseBinding(newUSKeymap(), "ctrl+alt+F6")
	if err != nil {
		t.Fatalf("ParseBinding(ctrl+alt+F6) error = %v", err)
	}
	b, err := ParseBinding(newUSKeymap(), "Ctrl+Alt+f6")
	if err != nil {
		t.Fatalf("ParseBinding(Ctrl+Alt+f6) error = %v", err)
	}
	if a.Mask() != b.Mask() || a.Key() != b.Key() {
		t.Fatalf("bindings differ: (%#x, %d) vs (%#x, %d)", a.Mask(), a.Key(), b.Mask(), b.Key())
	}
}

func TestParseBindingPlusDiffersFromF6(t *testing.T) {
	plus, err := ParseBinding(newUSKeymap(), "Ctrl++")
	if err != nil {
		t.Fatalf("ParseBinding(Ctrl++) error = %v", err)
	}
	f6, err := ParseBinding(newUSKeymap(), "Ctrl+F6")
	if err != nil {
		t.Fatalf("ParseBinding(Ctrl+F6) error = %v", err)
	}
	if plus.Mask() != f6.Mask() {
		t.Fatalf("masks differ: %#x vs %#x", plus.Mask(), f6.Mask())
	}
	if plus.Key() == f6.Key() {
		t.Fatalf("Ctrl++ and Ctrl+F6 share key %d", plus.Key())
	}
}

func TestParseBindingErrors(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		wantErr   error
		wantToken string
	}{
		{name: "repeated key", spec: "a+a", wantErr: ErrRepeatedKey, wantToken: "a"},
		{name: "repeated modifier", spec: "ctrl+ctrl+F6", wantErr: ErrRepeatedModifier, wantToken: "ctrl"},
		{name: "repeated modifier via alias", spec: "Ctrl+Control+a", wantErr: ErrRepeatedModifier, wantToken: "Control"},
		{name: "alt and meta share a row", spec: "alt+meta+a", wantErr: ErrRepeatedModifier, wantToken: "meta"},
		{name: "unknown token", spec: "Ctrl+Foo", wantErr: ErrIllegalToken, wantToken: "Foo"},
		{name: "misspelled modifier", spec: "Ctlr+a", wantErr: ErrIllegalToken, wantToken: "Ctlr"},
		{name: "plus then key", spec: "Ctrl++F6", wantErr: ErrRepeatedKey, wantToken: "F6"},
		{name: "key missing from keyboard", spec: "Ctrl+F30", wantErr: ErrKeyNotMapped, wantToken: "F30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBinding(newUSKeymap(), tt.spec)
			if err == nil {
				t.Fatalf("ParseBinding(%q) expected error", tt.spec)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseBinding(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("ParseBinding(%q) error type = %T, want *ParseError", tt.spec, err)
			}
			if perr.Token != tt.wantToken {
				t.Fatalf("ParseError.Token = %q, want %q", perr.Token, tt.wantToken)
			}
			if !strings.Contains(err.Error(), `"`+tt.wantToken+`"`) {
				t.Fatalf("error message %q does not name token %q", err.Error(), tt.wantToken)
			}
		})
	}
}

func TestParseBindingErrorReportsOffsetAndLength(t *testing.T) {
	_, err := ParseBinding(newUSKeymap(), "Ctrl+Bogus+a")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("ParseBinding() error = %v, want *ParseError", err)
	}
	if perr.Offset != 5 {
		t.Fatalf("ParseError.Offset = %d, want 5", perr.Offset)
	}
	if !strings.Contains(err.Error(), "5 bytes at offset 5") {
		t.Fatalf("error message = %q, want byte length and offset", err.Error())
	}
}

func TestParseBindingRejectsModifierOnlyDescriptors(t *testing.T) {
	specs := []string{
		"",
		"Ctrl",
		"Ctrl+Alt",
		"ctrl+alt+shift+super",
		"Ctrl+",
	}
	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseBinding(newUSKeymap(), spec)
			if !errors.Is(err, ErrNoKey) {
				t.Fatalf("ParseBinding(%q) error = %v, want ErrNoKey", spec, err)
			}
		})
	}
}

func TestParseBindingPropagatesMappingError(t *testing.T) {
	km := newUSKeymap()
	km.mappingErr = errors.New("broken pipe")

	_, err := ParseBinding(km, "Ctrl+a")
	if !errors.Is(err, km.mappingErr) {
		t.Fatalf("ParseBinding() error = %v, want %v", err, km.mappingErr)
	}
}

func TestParseBindingAcceptsLayoutAndMediaKeys(t *testing.T) {
	const kcExtra Keycode = 120
	tests := []struct {
		name     string
		sym      Keysym
		wantNorm string
	}{
		{name: "eacute", sym: 0xe9, wantNorm: "Ctrl+eacute"},
		{name: "odiaeresis", sym: 0xf6, wantNorm: "Ctrl+odiaeresis"},
		{name: "section", sym: 0xa7, wantNorm: "Ctrl+section"},
		{name: "Cyrillic_a", sym: 0x6c1, wantNorm: "Ctrl+Cyrillic_a"},
		{name: "XF86Calculator", sym: 0x1008ff1d, wantNorm: "Ctrl+XF86Calculator"},
		{name: "XF86Mail", sym: 0x1008ff19, wantNorm: "Ctrl+XF86Mail"},
		{name: "XF86Sleep", sym: 0x1008ff2f, wantNorm: "Ctrl+XF86Sleep"},
		{name: "0xff", sym: 0xff, wantNorm: "Ctrl+ydiaeresis"},
		{name: "U20AC", sym: 0x10020ac, wantNorm: "Ctrl+U20AC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km := newUSKeymap()
			km.codes[tt.sym] = kcExtra

			got, err := ParseBinding(km, "Ctrl+"+tt.name)
			if err != nil {
				t.Fatalf("ParseBinding(%q) error = %v", "Ctrl+"+tt.name, err)
			}
			if got.Key() != kcExtra || got.Mask() != ModControl {
				t.Fatalf("ParseBinding() = (key %d, mask %#x), want (%d, %#x)", got.Key(), got.Mask(), kcExtra, ModControl)
			}
			if got.Normalized() != tt.wantNorm {
				t.Fatalf("Normalized() = %q, want %q", got.Normalized(), tt.wantNorm)
			}
		})
	}
}
