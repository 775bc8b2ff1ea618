package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Zoom bounds and step, in percent.
const (
	MinZoomPercent  = 5
	MaxZoomPercent  = 500
	ZoomStepPercent = 5
	baseZoomPercent = 100
)

// ZoomMode represents how the displayed size is derived.
type ZoomMode int

const (
	ZoomModeAuto  ZoomMode = iota // Stretch to fill the viewport
	ZoomModeFixed                 // Literal percentage of the intrinsic size
)

func (m ZoomMode) String() string {
	if m == ZoomModeAuto {
		return "Auto"
	}
	return "Fixed"
}

// Point is an integer position or offset in viewport pixels.
type Point struct {
	X, Y int
}

// Size is an integer extent in pixels.
type Size struct {
	W, H int
}

// Geometry is where and how large the bitmap is drawn inside the viewport.
type Geometry struct {
	Offset Point // top-left of the displayed bitmap relative to the viewport
	Size   Size  // displayed bitmap size
}

// Viewport tracks zoom mode, percent and scroll offset for a single image.
type Viewport struct {
	mode    ZoomMode
	percent int

	viewport Size
	content  Size // intrinsic image size

	scroll Point

	panning   bool
	panAnchor Point // cursor + scroll at mouse-down
}

// NewViewport returns a viewport in Auto mode.
func NewViewport() *Viewport {
	return &Viewport{mode: ZoomModeAuto, percent: baseZoomPercent}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampZoom limits n to [MinZoomPercent, MaxZoomPercent].
func ClampZoom(n int) int {
	return clampInt(n, MinZoomPercent, MaxZoomPercent)
}

func (v *Viewport) Mode() ZoomMode { return v.mode }

// Percent returns the effective percent; Auto reports the 100% baseline used
// for stepping.
func (v *Viewport) Percent() int {
	if v.mode == ZoomModeAuto {
		return baseZoomPercent
	}
	return v.percent
}

func (v *Viewport) IsAuto() bool { return v.mode == ZoomModeAuto }

func (v *Viewport) Scroll() Point { return v.scroll }

func (v *Viewport) ViewportSize() Size { return v.viewport }

func (v *Viewport) ContentSize() Size { return v.content }

// SetContent records the intrinsic size of a newly shown image and returns to Auto.
func (v *Viewport) SetContent(w, h int) {
	v.content = Size{W: w, H: h}
	v.ResetAuto()
}

// Resize updates the viewport size and re-clamps the scroll offset.
func (v *Viewport) Resize(w, h int) {
	v.viewport = Size{W: w, H: h}
	v.clampScroll()
}

// SetZoom enters Fixed mode at clamp(n).
func (v *Viewport) SetZoom(n int) {
	old := v.DisplayedSize()
	v.mode = ZoomModeFixed
	v.percent = ClampZoom(n)
	v.rescaleScroll(old)
}

func (v *Viewport) ZoomIn() {
	v.SetZoom(v.Percent() + ZoomStepPercent)
}

func (v *Viewport) ZoomOut() {
	v.SetZoom(v.Percent() - ZoomStepPercent)
}

// ResetAuto switches to Auto mode; used whenever content is replaced.
func (v *Viewport) ResetAuto() {
	v.mode = ZoomModeAuto
	v.percent = baseZoomPercent
	v.scroll = Point{}
	v.panning = false
}

// ToggleAuto switches Auto to Fixed(100) and Fixed to Auto.
func (v *Viewport) ToggleAuto() {
	if v.mode == ZoomModeAuto {
		v.SetZoom(baseZoomPercent)
		return
	}
	v.ResetAuto()
}

// WheelZoom steps zoom by one increment in the direction of delta. A zero
// delta is ignored.
func (v *Viewport) WheelZoom(delta float64) {
	switch {
	case delta > 0:
		v.ZoomIn()
	case delta < 0:
		v.ZoomOut()
	}
}

// TryParseZoom parses free-form zoom text such as "150", "150%" or " 75 % ".
// It reports false for anything that is not an integer percentage. Integers
// too large for int saturate, so they still clamp to the zoom bounds.
func TryParseZoom(text string) (int, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return n, true
}

// ApplyZoomText applies typed zoom text. "Auto" (any case) selects Auto mode;
// a parsable percentage is clamped and applied. Invalid input leaves the state
// untouched and returns false.
func (v *Viewport) ApplyZoomText(text string) bool {
	if strings.EqualFold(strings.TrimSpace(text), "auto") {
		v.ResetAuto()
		return true
	}
	n, ok := TryParseZoom(text)
	if !ok {
		return false
	}
	v.SetZoom(n)
	return true
}

// Label is the status-bar text for the current zoom.
func (v *Viewport) Label() string {
	if v.mode == ZoomModeAuto {
		return "Zoom: Auto"
	}
	return fmt.Sprintf("Zoom: %d%%", v.percent)
}

// DisplayedSize is the bitmap size on screen. In Auto mode it equals the
// viewport regardless of the image.
func (v *Viewport) DisplayedSize() Size {
	if v.mode == ZoomModeAuto {
		return v.viewport
	}
	return ScaledSize(v.content, v.percent)
}

// ScaledSize returns round(W*p/100) x round(H*p/100).
func ScaledSize(s Size, percent int) Size {
	return Size{
		W: int(math.Round(float64(s.W) * float64(percent) / 100)),
		H: int(math.Round(float64(s.H) * float64(percent) / 100)),
	}
}

// CenterOffset positions content of length content inside a viewport of
// length view: centered when it fits, pinned at 0 otherwise.
func CenterOffset(view, content int) int {
	if content < view {
		return (view - content) / 2
	}
	return 0
}

// MaxScroll returns the scroll range upper bound on each axis.
func (v *Viewport) MaxScroll() Point {
	if v.mode == ZoomModeAuto {
		return Point{}
	}
	d := v.DisplayedSize()
	return Point{
		X: max(0, d.W-v.viewport.W),
		Y: max(0, d.H-v.viewport.H),
	}
}

// Geometry returns the on-screen rectangle of the bitmap.
func (v *Viewport) Geometry() Geometry {
	d := v.DisplayedSize()
	if v.mode == ZoomModeAuto {
		return Geometry{Size: d}
	}
	return Geometry{
		Offset: Point{
			X: CenterOffset(v.viewport.W, d.W) - v.scroll.X,
			Y: CenterOffset(v.viewport.H, d.H) - v.scroll.Y,
		},
		Size: d,
	}
}

func (v *Viewport) clampScroll() {
	m := v.MaxScroll()
	v.scroll.X = clampInt(v.scroll.X, 0, m.X)
	v.scroll.Y = clampInt(v.scroll.Y, 0, m.Y)
}

// rescaleScroll keeps the scroll position proportional when the displayed
// size changes between two fixed zoom levels.
func (v *Viewport) rescaleScroll(old Size) {
	d := v.DisplayedSize()
	if old.W > 0 {
		v.scroll.X = v.scroll.X * d.W / old.W
	}
	if old.H > 0 {
		v.scroll.Y = v.scroll.Y * d.H / old.H
	}
	v.clampScroll()
}

// SetScroll moves the scroll offset, clamped to the valid range.
func (v *Viewport) SetScroll(x, y int) {
	v.scroll = Point{X: x, Y: y}
	v.clampScroll()
}

// BeginPan records the drag anchor. It reports false in Auto mode, where
// there is nothing to scroll.
func (v *Viewport) BeginPan(cursorX, cursorY int) bool {
	if v.mode == ZoomModeAuto {
		return false
	}
	v.panning = true
	v.panAnchor = Point{X: cursorX + v.scroll.X, Y: cursorY + v.scroll.Y}
	return true
}

// PanTo scrolls so the point under the cursor at BeginPan follows the cursor.
func (v *Viewport) PanTo(cursorX, cursorY int) {
	if !v.panning || v.mode == ZoomModeAuto {
		return
	}
	v.SetScroll(v.panAnchor.X-cursorX, v.panAnchor.Y-cursorY)
}

func (v *Viewport) EndPan() {
	v.panning = false
}

func (v *Viewport) IsPanning() bool { return v.panning }

// PanBy scrolls by a relative amount (keyboard panning).
func (v *Viewport) PanBy(dx, dy int) {
	if v.mode == ZoomModeAuto {
		return
	}
	v.SetScroll(v.scroll.X+dx, v.scroll.Y+dy)
}
