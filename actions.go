package main

// ActionDefinition defines an action with its default keybindings, mouse bindings, and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all action definitions with default keybindings, mouse bindings, and descriptions
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"KeyQ"}, []string{}, "Quit application"},
	{"help", []string{"F1"}, []string{}, "Show/hide help"},
	{"info", []string{"Ctrl+KeyI"}, []string{}, "Show/hide file info"},
	{"next", []string{"ArrowRight"}, []string{"Forward"}, "Next image in folder"},
	{"previous", []string{"ArrowLeft"}, []string{"Back"}, "Previous image in folder"},
	{"jump_first", []string{"Home"}, []string{}, "First image in folder"},
	{"jump_last", []string{"End"}, []string{}, "Last image in folder"},
	{"fullscreen", []string{"KeyF", "F11", "Alt+Enter"}, []string{"DoubleLeftClick"}, "Toggle fullscreen"},
	{"exit_fullscreen", []string{"Escape"}, []string{}, "Leave fullscreen"},
	{"always_on_top", []string{"Ctrl+KeyT"}, []string{}, "Toggle always on top"},
	{"checkerboard", []string{"Ctrl+Shift+KeyC"}, []string{}, "Toggle checkerboard background"},
	{"slideshow", []string{"F5"}, []string{}, "Start/stop slideshow"},
	{"cycle_sort", []string{"Shift+KeyS"}, []string{}, "Cycle sort method (Entry/Natural/Simple)"},

	// File actions
	{"open", []string{"Ctrl+KeyO"}, []string{}, "Open path"},
	{"save_as", []string{"Ctrl+KeyS"}, []string{}, "Save as"},
	{"save", []string{"Ctrl+Shift+KeyS"}, []string{}, "Save over current file"},
	{"delete", []string{"Delete"}, []string{}, "Move file to trash"},
	{"close", []string{"Ctrl+KeyW"}, []string{}, "Close image"},
	{"copy", []string{"Ctrl+KeyC"}, []string{}, "Copy image"},
	{"copy_path", []string{"Ctrl+Alt+KeyC"}, []string{}, "Copy file path"},
	{"paste", []string{"Ctrl+KeyV"}, []string{}, "Paste image or open pasted path"},
	{"screenshot", []string{"F12"}, []string{}, "Capture the screen"},

	// Transformations
	{"rotate_left", []string{"Ctrl+Shift+KeyR"}, []string{}, "Rotate left 90 degrees"},
	{"rotate_right", []string{"Ctrl+KeyR"}, []string{}, "Rotate right 90 degrees"},
	{"flip_horizontal", []string{"Ctrl+KeyH"}, []string{}, "Flip horizontally"},
	{"flip_vertical", []string{"Ctrl+Shift+KeyH"}, []string{}, "Flip vertically"},

	// Zoom actions
	{"zoom_in", []string{"ArrowUp", "Ctrl+Equal", "Ctrl+Shift+Equal"}, []string{"Ctrl+WheelUp"}, "Zoom in"},
	{"zoom_out", []string{"ArrowDown", "Ctrl+Minus"}, []string{"Ctrl+WheelDown"}, "Zoom out"},
	{"zoom_auto", []string{"Ctrl+KeyA"}, []string{"MiddleClick"}, "Toggle auto zoom"},
	{"zoom_input", []string{"Ctrl+KeyZ"}, []string{}, "Enter zoom percentage"},

	// Pan actions (fixed zoom only)
	{"pan_up", []string{"Shift+ArrowUp"}, []string{}, "Pan up"},
	{"pan_down", []string{"Shift+ArrowDown"}, []string{}, "Pan down"},
	{"pan_left", []string{"Shift+ArrowLeft"}, []string{}, "Pan left"},
	{"pan_right", []string{"Shift+ArrowRight"}, []string{}, "Pan right"},
}

// ActionExecutor maps action names to InputActions calls for both the
// keyboard and the mouse binding managers.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction executes the given action using the InputActions interface
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		inputActions.Exit()
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "next":
		inputActions.NavigateNext()
	case "previous":
		inputActions.NavigatePrevious()
	case "jump_first":
		inputActions.JumpFirst()
	case "jump_last":
		inputActions.JumpLast()
	case "fullscreen":
		inputActions.ToggleFullscreen()
	case "exit_fullscreen":
		inputActions.ExitFullscreen()
	case "always_on_top":
		inputActions.ToggleAlwaysOnTop()
	case "checkerboard":
		inputActions.ToggleCheckerboard()
	case "slideshow":
		inputActions.ToggleSlideshow()
	case "cycle_sort":
		inputActions.CycleSortMethod()

	case "open":
		if !inputState.IsInPromptMode() {
			inputActions.EnterPrompt(PromptOpen)
		}
	case "save_as":
		if !inputState.IsInPromptMode() {
			inputActions.EnterPrompt(PromptSaveAs)
		}
	case "save":
		inputActions.SaveCurrent()
	case "delete":
		inputActions.DeleteCurrent()
	case "close":
		inputActions.Close()
	case "copy":
		inputActions.CopyImage()
	case "copy_path":
		inputActions.CopyPath()
	case "paste":
		inputActions.Paste()
	case "screenshot":
		inputActions.CaptureScreen()

	case "rotate_left":
		inputActions.RotateLeft()
	case "rotate_right":
		inputActions.RotateRight()
	case "flip_horizontal":
		inputActions.FlipHorizontal()
	case "flip_vertical":
		inputActions.FlipVertical()

	case "zoom_in":
		inputActions.ZoomIn()
	case "zoom_out":
		inputActions.ZoomOut()
	case "zoom_auto":
		inputActions.ToggleAutoZoom()
	case "zoom_input":
		if !inputState.IsInPromptMode() {
			inputActions.EnterPrompt(PromptZoom)
		}
	case "pan_up":
		inputActions.PanUp()
	case "pan_down":
		inputActions.PanDown()
	case "pan_left":
		inputActions.PanLeft()
	case "pan_right":
		inputActions.PanRight()

	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetActionNames returns action names in definition order.
func GetActionNames() []string {
	names := make([]string, len(actionDefinitions))
	for i, action := range actionDefinitions {
		names[i] = action.Name
	}
	return names
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action names to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		mousebindings[action.Name] = action.MouseActions
	}
	return mousebindings
}
