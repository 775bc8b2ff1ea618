package main

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorLightGray = color.RGBA{192, 192, 192, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}

	// Window backgrounds
	bgWindowed   = color.RGBA{40, 40, 40, 255}
	bgFullscreen = color.RGBA{0, 0, 0, 255}
	bgStatusBar  = color.RGBA{24, 24, 24, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128} // Light semi-transparent
	bgColorMedium = color.RGBA{0, 0, 0, 160} // Medium semi-transparent
	bgColorDark   = color.RGBA{0, 0, 0, 200} // Dark semi-transparent
)

const (
	statusBarHeight = 28
	statusFontSize  = 14.0
	minHelpFontSize = 12.0
)

// imageAreaHeight is the height left for the image below the window chrome.
func imageAreaHeight(windowHeight int, fullscreen bool) int {
	if fullscreen {
		return windowHeight
	}
	return max(1, windowHeight-statusBarHeight)
}

// Renderer handles all drawing operations. It owns the GPU texture of the
// current document and frees it when the document is released.
type Renderer struct {
	renderState RenderState
	fontSource  *text.GoTextFaceSource
	checker     *ebiten.Image

	texture        *ebiten.Image
	textureDoc     *Document
	textureVersion int
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState) (*Renderer, error) {
	s, err := newFontSource()
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}

	return &Renderer{
		renderState: renderState,
		fontSource:  s,
		checker:     ebiten.NewImageFromImage(checkerboardTile()),
	}, nil
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: r.fontSource, Size: size}
}

// syncTexture uploads the document pixels when the document or its version
// changed since the last frame.
func (r *Renderer) syncTexture(doc *Document) *ebiten.Image {
	if doc == nil || doc.Released() {
		return nil
	}
	if doc == r.textureDoc && doc.Version() == r.textureVersion && r.texture != nil {
		return r.texture
	}

	r.releaseTexture()
	r.texture = ebiten.NewImageFromImage(doc.Image())
	r.textureDoc = doc
	r.textureVersion = doc.Version()
	doc.OnRelease(func() {
		if r.textureDoc == doc {
			r.releaseTexture()
		}
	})
	debugLog("uploaded texture %dx%d for %s", doc.Width(), doc.Height(), doc.Title())
	return r.texture
}

func (r *Renderer) releaseTexture() {
	if r.texture != nil {
		r.texture.Deallocate()
		r.texture = nil
	}
	r.textureDoc = nil
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	fullscreen := r.renderState.IsFullscreen()
	if fullscreen {
		screen.Fill(bgFullscreen)
	} else {
		screen.Fill(bgWindowed)
	}

	doc := r.renderState.Document()
	if tex := r.syncTexture(doc); tex != nil {
		r.drawDocument(screen, tex)
	} else {
		r.drawEmptyHint(screen)
	}

	if !fullscreen {
		r.drawStatusBar(screen)
	}

	if label, ok := r.renderState.SlideshowCounter(); ok {
		r.drawCounter(screen, label)
	}

	if r.renderState.IsShowingInfo() {
		r.drawInfoPanel(screen)
	}

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.renderState.Prompt() != PromptNone {
		r.drawPromptOverlay(screen)
	}

	// Draw overlay message if active
	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

// drawDocument places tex according to the viewport geometry. In auto mode
// the geometry is the whole viewport and the image is fitted inside it
// keeping its aspect ratio.
func (r *Renderer) drawDocument(screen *ebiten.Image, tex *ebiten.Image) {
	vp := r.renderState.Viewport()
	geom := vp.Geometry()
	iw, ih := float64(tex.Bounds().Dx()), float64(tex.Bounds().Dy())
	if iw == 0 || ih == 0 {
		return
	}

	var x, y, w, h float64
	if vp.IsAuto() {
		scale := math.Min(float64(geom.Size.W)/iw, float64(geom.Size.H)/ih)
		w, h = iw*scale, ih*scale
		x = float64(geom.Offset.X) + (float64(geom.Size.W)-w)/2
		y = float64(geom.Offset.Y) + (float64(geom.Size.H)-h)/2
	} else {
		x, y = float64(geom.Offset.X), float64(geom.Offset.Y)
		w, h = float64(geom.Size.W), float64(geom.Size.H)
	}

	view := vp.ViewportSize()
	area := screen.SubImage(imageRect(0, 0, view.W, view.H)).(*ebiten.Image)

	if r.renderState.IsCheckerboard() {
		cx, cy := max(0, int(x)), max(0, int(y))
		cw := min(view.W, int(math.Ceil(x+w))) - cx
		ch := min(view.H, int(math.Ceil(y+h))) - cy
		DrawCheckerboard(area, r.checker, cx, cy, cw, ch)
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	if !vp.IsAuto() && vp.Percent() >= 200 {
		// Keep pixels crisp when inspecting up close
		op.Filter = ebiten.FilterNearest
	}
	op.GeoM.Scale(w/iw, h/ih)
	op.GeoM.Translate(x, y)
	area.DrawImage(tex, op)
}

func (r *Renderer) drawEmptyHint(screen *ebiten.Image) {
	vp := r.renderState.Viewport().ViewportSize()
	font := r.face(r.renderState.GetFontSize())
	hint := "Drop an image here or press Ctrl+O to open"
	tw, th := text.Measure(hint, font, 0)
	DrawText(screen, hint, font, (float64(vp.W)-tw)/2, (float64(vp.H)-th)/2, colorGray)
}

// statusFields are the labels of the status bar, left to right.
func (r *Renderer) statusFields() []string {
	doc := r.renderState.Document()
	if doc == nil {
		return []string{"File: Empty", "Folder: Empty", "Size: 0 x 0 px"}
	}

	fields := []string{"File: " + doc.Title()}
	folder := doc.Dir()
	if folder == "" {
		folder = "Not exists"
	}
	fields = append(fields, "Folder: "+folder)

	size := fmt.Sprintf("Size: %d x %d px", doc.Width(), doc.Height())
	if info := r.renderState.FileInfo(); info != nil {
		size += " (" + BytesToSize(info.Size) + ")"
	}
	fields = append(fields, size)

	if pos := r.renderState.PositionLabel(); pos != "" {
		fields = append(fields, pos)
	}
	fields = append(fields, r.renderState.Viewport().Label())
	if doc.Dirty() {
		fields = append(fields, "Unsaved changes")
	}
	return fields
}

func (r *Renderer) drawStatusBar(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	top := float64(h - statusBarHeight)
	DrawFilledRect(screen, 0, top, float64(w), statusBarHeight, bgStatusBar)

	font := r.face(statusFontSize)
	x := 8.0
	for i, field := range r.statusFields() {
		if i > 0 {
			DrawText(screen, "|", font, x, top+6, colorGray)
			x += 14
		}
		c := colorLightGray
		if field == "Unsaved changes" {
			c = colorOrange
		}
		DrawText(screen, field, font, x, top+6, c)
		fw, _ := text.Measure(field, font, 0)
		x += fw + 10
	}
}

func (r *Renderer) drawCounter(screen *ebiten.Image, label string) {
	font := r.face(r.renderState.GetFontSize())
	tw, th := text.Measure(label, font, 0)
	padding := 10.0
	x := float64(screen.Bounds().Dx()) - tw - padding*2
	DrawFilledRect(screen, x-5, padding-5, tw+10, th+10, bgColorLight)
	DrawText(screen, label, font, x, padding, colorWhite)
}

// infoLines builds the info panel contents.
func (r *Renderer) infoLines() []string {
	doc := r.renderState.Document()
	if doc == nil {
		return []string{"No image loaded"}
	}
	lines := r.statusFields()
	if info := r.renderState.FileInfo(); info != nil {
		if !info.Created.IsZero() {
			lines = append(lines, "Created: "+info.Created.Format(dateTimeLayout))
		}
		lines = append(lines, "Modified: "+info.Modified.Format(dateTimeLayout))

		keys := make([]string, 0, len(info.EXIF))
		for k := range info.EXIF {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, k+": "+info.EXIF[k])
		}
	}
	return lines
}

func (r *Renderer) drawInfoPanel(screen *ebiten.Image) {
	font := r.face(r.renderState.GetFontSize())
	lines := r.infoLines()
	lineHeight := r.renderState.GetFontSize() * 1.4

	maxW := 0.0
	for _, l := range lines {
		lw, _ := text.Measure(l, font, 0)
		maxW = math.Max(maxW, lw)
	}

	padding := 12.0
	boxW := maxW + padding*2
	boxH := float64(len(lines))*lineHeight + padding*2
	DrawFilledRect(screen, 10, 10, boxW, boxH, bgColorDark)

	y := 10 + padding
	for _, l := range lines {
		DrawText(screen, l, font, 10+padding, y, colorWhite)
		y += lineHeight
	}
}

// helpRow is one line of the help table.
type helpRow struct {
	action string
	keys   string
	mouse  string
	desc   string
}

func (row helpRow) input() string {
	switch {
	case row.keys != "" && row.mouse != "":
		return row.keys + " | " + row.mouse
	case row.keys != "":
		return row.keys
	default:
		return row.mouse
	}
}

// helpRows lists bound actions in definition order.
func (r *Renderer) helpRows() []helpRow {
	keybindings := r.renderState.GetKeybindings()
	mousebindings := r.renderState.GetMousebindings()
	descriptions := GetActionDescriptions()

	var rows []helpRow
	for _, action := range GetActionNames() {
		keys := keybindings[action]
		mouse := mousebindings[action]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		desc := descriptions[action]
		if desc == "" {
			desc = "No description available"
		}
		rows = append(rows, helpRow{
			action: action,
			keys:   strings.Join(keys, ", "),
			mouse:  strings.Join(mouse, ", "),
			desc:   desc,
		})
	}
	return rows
}

func (r *Renderer) configLines() []string {
	status := r.renderState.GetConfigStatus()
	lines := []string{"Config Status: " + status.Status}
	for i, warning := range status.Warnings {
		if i >= 2 { // Limit to first 2 warnings to avoid clutter
			break
		}
		if len(warning) > 50 {
			warning = warning[:47] + "..."
		}
		lines = append(lines, "• "+warning)
	}
	return lines
}

// helpColumns measures the action and input columns.
func (r *Renderer) helpColumns(rows []helpRow, font *text.GoTextFace) (actionW, inputW, descW float64) {
	for _, row := range rows {
		aw, _ := text.Measure(row.action, font, 0)
		iw, _ := text.Measure(row.input(), font, 0)
		dw, _ := text.Measure(row.desc, font, 0)
		actionW = math.Max(actionW, aw)
		inputW = math.Max(inputW, iw)
		descW = math.Max(descW, dw)
	}
	return actionW, inputW, descW
}

// helpSize returns the width and height the help overlay needs at fontSize.
func (r *Renderer) helpSize(rows []helpRow, config []string, fontSize float64) (float64, float64) {
	font := r.face(fontSize)
	lineHeight := fontSize * 1.5

	height := fontSize*2 + lineHeight*1.5 + float64(len(rows))*lineHeight
	height += lineHeight*2 + float64(len(config))*lineHeight

	actionW, inputW, descW := r.helpColumns(rows, font)
	width := 40 + actionW + 20 + 30 + inputW + 20 + descW + 20
	for _, l := range config {
		lw, _ := text.Measure(l, font, 0)
		width = math.Max(width, lw+60)
	}
	return width, height
}

// helpFontSize finds the largest font size that fits, by binary search.
func (r *Renderer) helpFontSize(rows []helpRow, config []string, availW, availH float64) (float64, bool) {
	fits := func(size float64) bool {
		w, h := r.helpSize(rows, config, size)
		return w <= availW && h <= availH
	}

	maxSize := r.renderState.GetFontSize()
	if !fits(minHelpFontSize) {
		return minHelpFontSize, false
	}
	if fits(maxSize) {
		return maxSize, true
	}

	low, high := minHelpFontSize, maxSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if fits(mid) {
			low = mid
		} else {
			high = mid
		}
	}
	return low, true
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	padding := 40.0

	rows := r.helpRows()
	config := r.configLines()
	fontSize, canFit := r.helpFontSize(rows, config, w-padding*2, h-padding*2)
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, padding, padding, w-padding*2, h-padding*2, bgColorMedium)

	font := r.face(fontSize)
	lineHeight := fontSize * 1.5

	y := padding + 20
	DrawText(screen, "HELP:", font, padding+20, y, colorWhite)
	y += fontSize * 2
	DrawText(screen, "Controls (Keyboard | Mouse):", font, padding+20, y, colorWhite)
	y += lineHeight * 1.5

	actionW, inputW, _ := r.helpColumns(rows, font)
	actionX := padding + 40
	arrowX := actionX + actionW + 20
	inputX := arrowX + 30
	descX := inputX + inputW + 20

	for _, row := range rows {
		DrawText(screen, row.action, font, actionX, y, colorLightBlue)
		DrawText(screen, "→", font, arrowX, y, colorWhite)

		x := inputX
		if row.keys != "" {
			DrawText(screen, row.keys, font, x, y, colorYellow)
			kw, _ := text.Measure(row.keys, font, 0)
			x += kw
		}
		if row.keys != "" && row.mouse != "" {
			DrawText(screen, " | ", font, x, y, colorWhite)
			sw, _ := text.Measure(" | ", font, 0)
			x += sw
		}
		if row.mouse != "" {
			DrawText(screen, row.mouse, font, x, y, colorCyan)
		}

		DrawText(screen, row.desc, font, descX, y, colorGray)
		y += lineHeight
	}

	y += lineHeight
	DrawText(screen, "System:", font, padding+20, y, colorWhite)
	y += lineHeight
	for i, l := range config {
		c := colorLightRed
		if i == 0 {
			c = colorGreen
			if st := r.renderState.GetConfigStatus().Status; st == "Warning" || st == "Error" {
				c = colorOrange
			}
		}
		DrawText(screen, l, font, padding+40, y, c)
		y += lineHeight
	}
}

// drawMarginTooSmallMessage displays Fermat's margin joke when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	font := r.face(16.0)
	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	mw, mh := text.Measure(message, font, 0)
	sw, _ := text.Measure(subtitle, font, 0)
	my := h/2 - mh/2

	DrawText(screen, message, font, w/2-mw/2, my, colorWhite)
	DrawText(screen, subtitle, font, w/2-sw/2, my+mh+10, colorGray)
}

func (r *Renderer) drawPromptOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	inputFont := r.face(r.renderState.GetFontSize())
	hintFont := r.face(r.renderState.GetFontSize() * 0.8)

	inputText := fmt.Sprintf("%s: %s_", r.renderState.Prompt().Label(), r.renderState.PromptBuffer())
	hintText := "Enter to apply, Esc to cancel"

	inputW, inputH := text.Measure(inputText, inputFont, 0)
	hintW, hintH := text.Measure(hintText, hintFont, 0)

	padding := 20.0
	boxW := math.Max(inputW, hintW) + padding*2
	boxH := inputH + hintH + 10 + padding*2
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	DrawFilledRect(screen, boxX, boxY, boxW, boxH, bgColorDark)
	DrawText(screen, inputText, inputFont, boxX+(boxW-inputW)/2, boxY+padding, colorWhite)
	DrawText(screen, hintText, hintFont, boxX+(boxW-hintW)/2, boxY+padding+inputH+10, colorLightGray)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	font := r.face(r.renderState.GetFontSize())
	message := r.renderState.GetOverlayMessage()
	tw, th := text.Measure(message, font, 0)

	padding := 20.0
	boxW := tw + padding*2
	boxH := th + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxW) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxH) / 2

	DrawFilledRect(screen, boxX, boxY, boxW, boxH, bgColorDark)
	DrawText(screen, message, font, boxX+padding, boxY+padding, colorWhite)
}
