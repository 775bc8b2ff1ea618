package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	DoubleClickTime  int     `json:"double_click_time"` // milliseconds
	DragThreshold    int     `json:"drag_threshold"`    // pixels
	EnableMouse      bool    `json:"enable_mouse"`
	WheelInverted    bool    `json:"wheel_inverted"`
	EnableDragPan    bool    `json:"enable_drag_pan"`  // Enable drag to pan
	DragSensitivity  float64 `json:"drag_sensitivity"` // Drag movement sensitivity
}

// DoubleClickTracker tracks double-click state
type DoubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// MouseCombination is a click, double click or wheel direction plus the
// modifiers that must be held with it.
type MouseCombination struct {
	Modifiers
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaX   float64
	WheelDeltaY   float64
	IsDoubleClick bool
}

// DragTracker follows a left-button drag used for panning.
type DragTracker struct {
	pressed  bool
	dragging bool
	startX   int
	startY   int
}

// MousebindingManager resolves actions against the mouse state of the
// current frame.
type MousebindingManager struct {
	bindings           map[string][]MouseCombination
	settings           MouseSettings
	doubleClickTracker DoubleClickTracker
	dragTracker        DragTracker
}

func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	return &MousebindingManager{
		bindings: compileBindings(mousebindings, parseMouseBinding, func(action, input string, err error) {
			logger.Warn().Err(err).Str("action", action).Str("mouse", input).Msg("ignoring mouse binding")
		}),
		settings: settings,
		doubleClickTracker: DoubleClickTracker{
			lastClickTime: time.Now(),
		},
	}
}

var mouseButtons = map[string]ebiten.MouseButton{
	"LeftClick":   ebiten.MouseButtonLeft,
	"RightClick":  ebiten.MouseButtonRight,
	"MiddleClick": ebiten.MouseButtonMiddle,
	"Back":        ebiten.MouseButton3,
	"Forward":     ebiten.MouseButton4,
}

var wheelDirections = map[string][2]float64{
	"WheelUp":    {0, 1},
	"WheelDown":  {0, -1},
	"WheelLeft":  {-1, 0},
	"WheelRight": {1, 0},
}

// parseMouseBinding parses a mouse string like "Shift+LeftClick",
// "DoubleLeftClick" or "Ctrl+WheelUp".
func parseMouseBinding(s string) (MouseCombination, error) {
	mods, name, err := splitBinding(s)
	if err != nil {
		return MouseCombination{}, err
	}
	c := MouseCombination{Modifiers: mods}
	if d, ok := wheelDirections[name]; ok {
		c.IsWheel = true
		c.WheelDeltaX, c.WheelDeltaY = d[0], d[1]
		return c, nil
	}
	if base, ok := strings.CutPrefix(name, "Double"); ok {
		c.IsDoubleClick = true
		name = base
	}
	button, ok := mouseButtons[name]
	if !ok {
		return MouseCombination{}, fmt.Errorf("unknown mouse input: %s", s)
	}
	c.Button = button
	return c, nil
}

// isMouseActionTriggered checks if a mouse combination is currently being triggered
func (mm *MousebindingManager) isMouseActionTriggered(combination MouseCombination) bool {
	if !mm.settings.EnableMouse {
		return false
	}

	if !combination.held() {
		return false
	}

	// Handle wheel actions
	if combination.IsWheel {
		wheelX, wheelY := ebiten.Wheel()

		// Apply sensitivity and inversion
		if mm.settings.WheelInverted {
			wheelY = -wheelY
		}
		wheelX *= mm.settings.WheelSensitivity
		wheelY *= mm.settings.WheelSensitivity

		// Check if wheel movement matches the expected direction
		if combination.WheelDeltaX != 0 {
			return (combination.WheelDeltaX > 0 && wheelX > 0) || (combination.WheelDeltaX < 0 && wheelX < 0)
		}
		if combination.WheelDeltaY != 0 {
			return (combination.WheelDeltaY > 0 && wheelY > 0) || (combination.WheelDeltaY < 0 && wheelY < 0)
		}
		return false
	}

	// Handle double-click actions
	if combination.IsDoubleClick {
		return mm.checkDoubleClick(combination.Button)
	}

	// Handle regular mouse button actions
	return inpututil.IsMouseButtonJustPressed(combination.Button)
}

// checkDoubleClick checks if a double-click occurred for the given button
func (mm *MousebindingManager) checkDoubleClick(button ebiten.MouseButton) bool {
	if !inpututil.IsMouseButtonJustPressed(button) {
		return false
	}

	now := time.Now()
	timeSinceLastClick := now.Sub(mm.doubleClickTracker.lastClickTime)

	// Check if this is the same button and within double-click time
	if mm.doubleClickTracker.lastClickButton == button &&
		timeSinceLastClick <= time.Duration(mm.settings.DoubleClickTime)*time.Millisecond {
		mm.doubleClickTracker.clickCount++
		if mm.doubleClickTracker.clickCount == 2 {
			// Reset for next potential double-click
			mm.doubleClickTracker.clickCount = 0
			mm.doubleClickTracker.lastClickTime = now
			return true
		}
	} else {
		// First click or different button
		mm.doubleClickTracker.clickCount = 1
		mm.doubleClickTracker.lastClickButton = button
	}

	mm.doubleClickTracker.lastClickTime = now
	return false
}

// CheckAction reports whether any mouse input bound to action fired this
// frame.
func (mm *MousebindingManager) CheckAction(action string) bool {
	for _, c := range mm.bindings[action] {
		if mm.isMouseActionTriggered(c) {
			return true
		}
	}
	return false
}

// ExecuteAction executes the given action using the InputActions interface
func (mm *MousebindingManager) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	if !mm.CheckAction(action) {
		return false
	}

	return globalActionExecutor.ExecuteAction(action, inputActions, inputState)
}

// IsWheelAction reports whether any binding of action uses the wheel.
func (mm *MousebindingManager) IsWheelAction(action string) bool {
	for _, c := range mm.bindings[action] {
		if c.IsWheel {
			return true
		}
	}
	return false
}

// HandleDragPan pans the viewport while the left button is dragged. The drag
// only starts once the cursor has moved past DragThreshold.
func (mm *MousebindingManager) HandleDragPan(inputActions InputActions) bool {
	if !mm.settings.EnableMouse || !mm.settings.EnableDragPan {
		return false
	}

	x, y := ebiten.CursorPosition()
	dt := &mm.dragTracker

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		dt.pressed = true
		dt.dragging = false
		dt.startX, dt.startY = x, y
		return false
	}

	if !dt.pressed {
		return false
	}

	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		wasDragging := dt.dragging
		*dt = DragTracker{}
		if wasDragging {
			inputActions.EndPan()
		}
		return wasDragging
	}

	if !dt.dragging {
		if !exceedsThreshold(x-dt.startX, y-dt.startY, mm.settings.DragThreshold) {
			return false
		}
		// The anchor is the press position so the threshold does not jump.
		if !inputActions.BeginPan(dt.startX, dt.startY) {
			dt.pressed = false
			return false
		}
		dt.dragging = true
	}

	sens := mm.settings.DragSensitivity
	if sens <= 0 {
		sens = 1
	}
	px := dt.startX + int(float64(x-dt.startX)*sens)
	py := dt.startY + int(float64(y-dt.startY)*sens)
	inputActions.PanTo(px, py)
	return true
}

func exceedsThreshold(dx, dy, threshold int) bool {
	return dx*dx+dy*dy > threshold*threshold
}

// HandleWheel handles wheel motion not claimed by a binding: it zooms when
// wheel zoom is enabled and otherwise scrolls the image.
func (mm *MousebindingManager) HandleWheel(inputActions InputActions, inputState InputState) bool {
	if !mm.settings.EnableMouse || !(Modifiers{}).held() {
		return false
	}
	wheelX, wheelY := ebiten.Wheel()
	if wheelX == 0 && wheelY == 0 {
		return false
	}
	if mm.settings.WheelInverted {
		wheelY = -wheelY
	}
	wheelX *= mm.settings.WheelSensitivity
	wheelY *= mm.settings.WheelSensitivity

	if inputState.IsWheelZoom() {
		inputActions.WheelZoom(wheelY)
		return true
	}
	inputActions.PanBy(-int(wheelX*wheelScrollStep), -int(wheelY*wheelScrollStep))
	return true
}

// wheelScrollStep is the scroll distance in pixels per wheel notch.
const wheelScrollStep = 40

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300, // milliseconds
		DragThreshold:    5,   // pixels
		EnableMouse:      true,
		WheelInverted:    false,
		EnableDragPan:    true, // Enable drag to pan by default
		DragSensitivity:  1.0,  // 1:1 mouse movement to pan ratio
	}
}
