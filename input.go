package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler handles all keyboard and mouse input processing
type InputHandler struct {
	inputActions        InputActions
	inputState          InputState
	keybindingManager   *KeybindingManager
	mousebindingManager *MousebindingManager

	// scratch buffer for ebiten.AppendInputChars
	chars []rune
}

// NewInputHandler creates a new InputHandler
func NewInputHandler(inputActions InputActions, inputState InputState, keybindingManager *KeybindingManager, mousebindingManager *MousebindingManager) *InputHandler {
	return &InputHandler{
		inputActions:        inputActions,
		inputState:          inputState,
		keybindingManager:   keybindingManager,
		mousebindingManager: mousebindingManager,
	}
}

// HandleInput processes all input for the current frame
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput() bool {
	inputProcessed := h.handleDrop()

	// The prompt owns the keyboard while it is open
	if h.inputState.IsInPromptMode() {
		return h.handlePromptMode() || inputProcessed
	}

	for _, action := range GetActionNames() {
		if h.keybindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
		}
	}

	inputProcessed = h.handleMouse() || inputProcessed

	return inputProcessed
}

func (h *InputHandler) handleDrop() bool {
	files := ebiten.DroppedFiles()
	if files == nil {
		return false
	}
	h.inputActions.HandleDrop(files)
	return true
}

func (h *InputHandler) handleMouse() bool {
	inputProcessed := false
	claimedWheel := false

	for _, action := range GetActionNames() {
		if h.mousebindingManager.ExecuteAction(action, h.inputActions, h.inputState) {
			inputProcessed = true
			if h.mousebindingManager.IsWheelAction(action) {
				claimedWheel = true
			}
		}
	}

	if !claimedWheel && h.mousebindingManager.HandleWheel(h.inputActions, h.inputState) {
		inputProcessed = true
	}

	if h.mousebindingManager.HandleDragPan(h.inputActions) {
		inputProcessed = true
	}

	return inputProcessed
}

func (h *InputHandler) handlePromptMode() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		h.inputActions.ExitPrompt()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		h.inputActions.SubmitPrompt()
		return true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		h.inputActions.UpdatePromptBuffer(trimLastRune(h.inputState.PromptBuffer()))
		return true
	}

	h.chars = ebiten.AppendInputChars(h.chars[:0])
	if len(h.chars) > 0 {
		h.inputActions.UpdatePromptBuffer(h.inputState.PromptBuffer() + string(h.chars))
		return true
	}

	return false
}

// trimLastRune drops the final character of s, respecting UTF-8.
func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
