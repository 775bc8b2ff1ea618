package main

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyCombination is a key plus the modifiers that must be held with it.
type KeyCombination struct {
	Modifiers
	Key ebiten.Key
}

func (c KeyCombination) String() string {
	var b strings.Builder
	if c.Ctrl {
		b.WriteString("Ctrl+")
	}
	if c.Shift {
		b.WriteString("Shift+")
	}
	if c.Alt {
		b.WriteString("Alt+")
	}
	b.WriteString(c.Key.String())
	return b.String()
}

// keyByName resolves a binding key name. Letters and digits carry a "Key"
// prefix ("KeyA", "Key0"); other keys use ebiten's names ("ArrowUp",
// "NumpadAdd", "F12"), matched case-insensitively.
func keyByName(name string) (ebiten.Key, bool) {
	if len(name) == 1 {
		return 0, false
	}
	if rest, ok := strings.CutPrefix(name, "Key"); ok && len(rest) == 1 {
		name = rest
	}
	var key ebiten.Key
	if err := key.UnmarshalText([]byte(name)); err != nil {
		return 0, false
	}
	return key, true
}

// parseKeyBinding parses a key string like "Ctrl+Shift+KeyR".
func parseKeyBinding(s string) (KeyCombination, error) {
	mods, name, err := splitBinding(s)
	if err != nil {
		return KeyCombination{}, err
	}
	key, ok := keyByName(name)
	if !ok {
		return KeyCombination{}, fmt.Errorf("unknown key: %s", name)
	}
	return KeyCombination{Modifiers: mods, Key: key}, nil
}

// KeybindingManager resolves actions against the keyboard state of the
// current frame. Bindings are parsed once, up front.
type KeybindingManager struct {
	bindings map[string][]KeyCombination
}

func NewKeybindingManager(keybindings map[string][]string) *KeybindingManager {
	return &KeybindingManager{
		bindings: compileBindings(keybindings, parseKeyBinding, func(action, input string, err error) {
			logger.Warn().Err(err).Str("action", action).Str("key", input).Msg("ignoring key binding")
		}),
	}
}

func (c KeyCombination) justPressed() bool {
	return inpututil.IsKeyJustPressed(c.Key) && c.held()
}

// CheckAction reports whether any key bound to action was pressed this frame.
func (km *KeybindingManager) CheckAction(action string) bool {
	for _, c := range km.bindings[action] {
		if c.justPressed() {
			return true
		}
	}
	return false
}

// ExecuteAction runs action if one of its keys was pressed this frame.
func (km *KeybindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !km.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}
