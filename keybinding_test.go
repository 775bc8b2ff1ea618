package main

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestSplitBinding(t *testing.T) {
	tests := []struct {
		input string
		mods  Modifiers
		name  string
		valid bool
	}{
		{"KeyQ", Modifiers{}, "KeyQ", true},
		{"Ctrl+Shift+KeyR", Modifiers{Shift: true, Ctrl: true}, "KeyR", true},
		{"ALT+ctrl+WheelUp", Modifiers{Ctrl: true, Alt: true}, "WheelUp", true},
		{"", Modifiers{}, "", false},
		{"Ctrl+", Modifiers{}, "", false},
		{"Meta+KeyQ", Modifiers{}, "", false},
		{"KeyQ+Ctrl", Modifiers{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mods, name, err := splitBinding(tt.input)
			if (err == nil) != tt.valid {
				t.Fatalf("splitBinding(%q) err = %v, want valid %t", tt.input, err, tt.valid)
			}
			if tt.valid && (mods != tt.mods || name != tt.name) {
				t.Errorf("splitBinding(%q) = %+v %q, want %+v %q", tt.input, mods, name, tt.mods, tt.name)
			}
		})
	}
}

func TestParseKeyBinding(t *testing.T) {
	tests := []struct {
		input    string
		valid    bool
		expected KeyCombination
	}{
		{"KeyQ", true, KeyCombination{Key: ebiten.KeyQ}},
		{"Key0", true, KeyCombination{Key: ebiten.Key0}},
		{"Ctrl+Shift+KeyR", true, KeyCombination{Modifiers: Modifiers{Shift: true, Ctrl: true}, Key: ebiten.KeyR}},
		{"alt+Enter", true, KeyCombination{Modifiers: Modifiers{Alt: true}, Key: ebiten.KeyEnter}},
		{"F11", true, KeyCombination{Key: ebiten.KeyF11}},
		{"Delete", true, KeyCombination{Key: ebiten.KeyDelete}},
		{"NumpadAdd", true, KeyCombination{Key: ebiten.KeyNumpadAdd}},
		{"Meta+KeyQ", false, KeyCombination{}},
		{"Ctrl+", false, KeyCombination{}},
		{"KeyQQ", false, KeyCombination{}},
		{"Q", false, KeyCombination{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseKeyBinding(tt.input)
			if (err == nil) != tt.valid {
				t.Fatalf("parseKeyBinding(%q) err = %v, want valid %t", tt.input, err, tt.valid)
			}
			if tt.valid && got != tt.expected {
				t.Errorf("parseKeyBinding(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseMouseBinding(t *testing.T) {
	tests := []struct {
		input    string
		valid    bool
		expected MouseCombination
	}{
		{"MiddleClick", true, MouseCombination{Button: ebiten.MouseButtonMiddle}},
		{"DoubleLeftClick", true, MouseCombination{Button: ebiten.MouseButtonLeft, IsDoubleClick: true}},
		{"Ctrl+WheelUp", true, MouseCombination{Modifiers: Modifiers{Ctrl: true}, IsWheel: true, WheelDeltaY: 1}},
		{"Shift+WheelLeft", true, MouseCombination{Modifiers: Modifiers{Shift: true}, IsWheel: true, WheelDeltaX: -1}},
		{"Forward", true, MouseCombination{Button: ebiten.MouseButton4}},
		{"WheelSideways", false, MouseCombination{}},
		{"DoubleWheelUp", false, MouseCombination{}},
		{"Hyper+LeftClick", false, MouseCombination{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseMouseBinding(tt.input)
			if (err == nil) != tt.valid {
				t.Fatalf("parseMouseBinding(%q) err = %v, want valid %t", tt.input, err, tt.valid)
			}
			if tt.valid && got != tt.expected {
				t.Errorf("parseMouseBinding(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestKeybindingManagerSkipsInvalid(t *testing.T) {
	km := NewKeybindingManager(map[string][]string{
		"quit": {"Hyper+KeyQ", "KeyQ"},
		"help": {"NoSuchKey"},
	})

	if got := km.bindings["quit"]; len(got) != 1 || got[0].Key != ebiten.KeyQ {
		t.Errorf("quit bindings = %+v, want only KeyQ", got)
	}
	if got := km.bindings["help"]; len(got) != 0 {
		t.Errorf("help bindings = %+v, want none", got)
	}
}

func TestValidateKeybindingsConflicts(t *testing.T) {
	err := validateKeybindings(map[string][]string{
		"quit":  {"ctrl+KeyQ"},
		"close": {"Ctrl+KeyQ"},
	})
	if err == nil || !strings.Contains(err.Error(), "key conflict") {
		t.Errorf("expected a key conflict, got %v", err)
	}

	if err := validateKeybindings(map[string][]string{"quit": {"Ctrl+Nope"}}); err == nil {
		t.Error("unknown key should be rejected")
	}
	if err := validateMousebindings(map[string][]string{"zoom_in": {"Hyper+WheelUp"}}); err == nil {
		t.Error("unknown modifier should be rejected")
	}
}

func TestIsWheelAction(t *testing.T) {
	mm := NewMousebindingManager(GetDefaultMousebindings(), GetDefaultMouseSettings())

	if !mm.IsWheelAction("zoom_in") {
		t.Error("zoom_in should be a wheel action")
	}
	if mm.IsWheelAction("zoom_auto") {
		t.Error("zoom_auto should not be a wheel action")
	}
}

func TestActionDefinitions(t *testing.T) {
	h := newHarness(t)
	descriptions := GetActionDescriptions()
	seen := make(map[string]bool)

	for _, name := range GetActionNames() {
		if seen[name] {
			t.Errorf("duplicate action %q", name)
		}
		seen[name] = true

		if descriptions[name] == "" {
			t.Errorf("action %q has no description", name)
		}
		if !globalActionExecutor.ExecuteAction(name, h.v, h.v) {
			t.Errorf("action %q is not handled by the executor", name)
		}
		h.v.ExitPrompt()
	}

	if globalActionExecutor.ExecuteAction("no_such_action", h.v, h.v) {
		t.Error("unknown action should not be handled")
	}
}

func TestExceedsThreshold(t *testing.T) {
	if exceedsThreshold(3, 4, 5) {
		t.Error("distance 5 should not exceed threshold 5")
	}
	if !exceedsThreshold(4, 4, 5) {
		t.Error("distance ~5.7 should exceed threshold 5")
	}
}

func TestTrimLastRune(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"150", "15"},
		{"写真.png", "写真.pn"},
		{"写", ""},
	}
	for _, tt := range tests {
		if got := trimLastRune(tt.in); got != tt.want {
			t.Errorf("trimLastRune(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
