package main

import (
	"io/fs"
	"time"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// RenderState provides read-only access to viewer state for the renderer
type RenderState interface {
	// Content
	Document() *Document
	Viewport() *Viewport
	FileInfo() *FileInfo
	PositionLabel() string
	SlideshowCounter() (string, bool)

	// Display modes
	IsFullscreen() bool
	IsCheckerboard() bool

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	Prompt() PromptKind
	PromptBuffer() string
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time

	// Display data
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
	GetMousebindings() map[string][]string
	GetMouseSettings() MouseSettings
}

// RenderStateSnapshot captures the state that can change without input, so
// the game loop can skip redrawing identical frames.
type RenderStateSnapshot struct {
	// Overlay state as seen at the snapshot's frame time
	OverlayMessage     string
	OverlayMessageTime time.Time
	OverlayActive      bool

	// Window dimensions for resize detection
	WindowWidth  int
	WindowHeight int

	// Document identity and pixel version
	Document        *Document
	DocumentVersion int
	Position        string
}

// NewRenderStateSnapshot creates a lightweight snapshot of non-input state at
// frame time now.
func NewRenderStateSnapshot(state RenderState, windowWidth, windowHeight int, now time.Time) *RenderStateSnapshot {
	s := &RenderStateSnapshot{
		OverlayMessage:     state.GetOverlayMessage(),
		OverlayMessageTime: state.GetOverlayMessageTime(),
		WindowWidth:        windowWidth,
		WindowHeight:       windowHeight,
		Document:           state.Document(),
		Position:           state.PositionLabel(),
	}
	s.OverlayActive = s.OverlayMessage != "" && now.Sub(s.OverlayMessageTime) < overlayMessageDuration
	if s.Document != nil {
		s.DocumentVersion = s.Document.Version()
	}
	return s
}

// Equals checks if two snapshots would draw the same frame.
func (s *RenderStateSnapshot) Equals(other *RenderStateSnapshot) bool {
	if other == nil {
		return false
	}

	if s.OverlayActive != other.OverlayActive {
		return false
	}
	if s.OverlayActive && (s.OverlayMessage != other.OverlayMessage ||
		!s.OverlayMessageTime.Equal(other.OverlayMessageTime)) {
		return false
	}

	return s.WindowWidth == other.WindowWidth &&
		s.WindowHeight == other.WindowHeight &&
		s.Document == other.Document &&
		s.DocumentVersion == other.DocumentVersion &&
		s.Position == other.Position
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()
	ExitFullscreen()
	ToggleAlwaysOnTop()
	ToggleCheckerboard()
	ToggleSlideshow()

	// Text prompt
	EnterPrompt(kind PromptKind)
	ExitPrompt()
	SubmitPrompt()
	UpdatePromptBuffer(buffer string)

	// Settings
	CycleSortMethod()

	// Navigation
	NavigateNext()
	NavigatePrevious()
	JumpFirst()
	JumpLast()

	// File operations
	DeleteCurrent()
	Close()
	SaveCurrent()
	CopyImage()
	CopyPath()
	Paste()
	CaptureScreen()
	HandleDrop(fsys fs.FS)

	// Transformations
	RotateLeft()
	RotateRight()
	FlipHorizontal()
	FlipVertical()

	// Zoom and pan actions
	ZoomIn()
	ZoomOut()
	ToggleAutoZoom()
	WheelZoom(delta float64)
	PanUp()
	PanDown()
	PanLeft()
	PanRight()
	PanBy(dx, dy int)
	BeginPan(x, y int) bool
	PanTo(x, y int)
	EndPan()

	// Messages
	ShowOverlayMessage(message string)
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsInPromptMode() bool
	PromptBuffer() string
	IsWheelZoom() bool
}
