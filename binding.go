package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Modifiers are the modifier keys a binding requires. A binding fires only
// when exactly these are held.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

func (m Modifiers) held() bool {
	return m.Shift == ebiten.IsKeyPressed(ebiten.KeyShift) &&
		m.Ctrl == ebiten.IsKeyPressed(ebiten.KeyControl) &&
		m.Alt == ebiten.IsKeyPressed(ebiten.KeyAlt)
}

var errEmptyBinding = errors.New("empty binding")

// splitBinding separates "Ctrl+Shift+KeyR" into its modifiers and the
// trailing input name. Modifier names are case-insensitive.
func splitBinding(s string) (Modifiers, string, error) {
	var mods Modifiers
	if s == "" {
		return mods, "", errEmptyBinding
	}
	for {
		head, rest, found := strings.Cut(s, "+")
		if !found {
			break
		}
		switch strings.ToLower(head) {
		case "shift":
			mods.Shift = true
		case "ctrl":
			mods.Ctrl = true
		case "alt":
			mods.Alt = true
		default:
			return mods, "", fmt.Errorf("unknown modifier: %s", head)
		}
		s = rest
	}
	if s == "" {
		return mods, "", errors.New("missing input after modifiers")
	}
	return mods, s, nil
}

// compileBindings parses the bindings of every action. Entries that fail to
// parse are passed to bad and left out.
func compileBindings[C any](bindings map[string][]string, parse func(string) (C, error), bad func(action, input string, err error)) map[string][]C {
	out := make(map[string][]C, len(bindings))
	for action, inputs := range bindings {
		for _, s := range inputs {
			c, err := parse(s)
			if err != nil {
				if bad != nil {
					bad(action, s, err)
				}
				continue
			}
			out[action] = append(out[action], c)
		}
	}
	return out
}
