package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const appName = "Quick Picture Viewer"

// confirmWindow is how long an armed confirmation stays valid.
const confirmWindow = 3 * time.Second

// captureDelay gives the minimised window time to leave the screen.
const captureDelay = 300 * time.Millisecond

// User-facing messages.
const (
	msgOpenFailed     = "Unable to open this file"
	msgDirectoryEmpty = "Directory is empty"
	msgFileNotFound   = "File not found"
	msgInvalidZoom    = "Invalid zoom"
	msgUnsaved        = "Unsaved changes will be lost. Repeat to continue"
	msgConfirmDelete  = "Press again to move this file to the trash"
)

var (
	ErrNoFolder          = errors.New("image has no folder")
	ErrEmptyFolder       = errors.New("folder contains no images")
	ErrUnsavedChanges    = errors.New("unsaved changes")
	ErrNeedsConfirmation = errors.New("confirmation required")
)

// PromptKind selects what the text prompt edits.
type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptZoom
	PromptSaveAs
	PromptOpen
)

func (k PromptKind) Label() string {
	switch k {
	case PromptZoom:
		return "Zoom (e.g. 150%, Auto)"
	case PromptSaveAs:
		return "Save as"
	case PromptOpen:
		return "Open"
	default:
		return ""
	}
}

type imageSource interface {
	Load(p ImagePath) (image.Image, error)
	Invalidate(p ImagePath)
	Preload(paths []ImagePath)
}

type trasher interface {
	Move(path string) (string, error)
}

// windowController is the part of the window the viewer drives.
type windowController interface {
	SetFullscreen(bool)
	IsFullscreen() bool
	SetFloating(bool)
	SetTitle(string)
	SetCursorVisible(bool)
	Minimize()
	Restore()
}

// ViewerDeps are the collaborators of a Viewer.
type ViewerDeps struct {
	Images    imageSource
	Trash     trasher
	Window    windowController
	Clipboard clipboardAccess
	Screen    screenCapturer
	Persist   func(Config)
	Now       func() time.Time
}

// Viewer holds the whole application state and implements InputActions,
// InputState and RenderState. It must only be used from the ebiten update
// goroutine.
type Viewer struct {
	config       *Config
	configStatus ConfigLoadResult

	images    imageSource
	trash     trasher
	window    windowController
	clipboard clipboardAccess
	screen    screenCapturer
	persist   func(Config)
	now       func() time.Time

	doc      *Document
	viewport *Viewport
	info     *FileInfo

	// position within the folder, 1-based; 0 when unknown
	position int
	total    int

	showHelp bool
	showInfo bool

	overlayMessage     string
	overlayMessageTime time.Time

	prompt       PromptKind
	promptBuffer string

	pendingConfirm     string
	pendingConfirmTime time.Time

	slideshow   bool
	lastAdvance time.Time

	// set while the window is minimised for a screenshot
	captureAt time.Time

	exitRequested bool
}

// NewViewer creates a viewer with no document loaded.
func NewViewer(config *Config, status ConfigLoadResult, deps ViewerDeps) *Viewer {
	v := &Viewer{
		config:       config,
		configStatus: status,
		images:       deps.Images,
		trash:        deps.Trash,
		window:       deps.Window,
		clipboard:    deps.Clipboard,
		screen:       deps.Screen,
		persist:      deps.Persist,
		now:          deps.Now,
		viewport:     NewViewport(),
	}
	if v.clipboard == nil {
		v.clipboard = systemClipboard{}
	}
	if v.screen == nil {
		v.screen = primaryScreen{}
	}
	if v.persist == nil {
		v.persist = saveConfig
	}
	if v.now == nil {
		v.now = time.Now
	}
	v.window.SetFloating(config.AlwaysOnTop)
	v.window.SetTitle(appName)
	return v
}

// Document returns the loaded document, or nil.
func (v *Viewer) Document() *Document { return v.doc }

func (v *Viewer) Viewport() *Viewport { return v.viewport }

func (v *Viewer) FileInfo() *FileInfo { return v.info }

func (v *Viewer) ExitRequested() bool { return v.exitRequested }

func (v *Viewer) listOptions() ListOptions {
	return ListOptions{
		CaseInsensitive: v.config.CaseInsensitiveExtensions,
		SortMethod:      v.config.SortMethod,
	}
}

// Open loads a file, a directory (its first image) or an archive (its first
// entry). On failure the current document is kept.
func (v *Viewer) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	st, err := os.Stat(abs)
	if err != nil {
		v.ShowOverlayMessage(msgOpenFailed)
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if st.IsDir() {
		return v.OpenFolder(abs)
	}
	if isArchiveExt(abs) {
		return v.openArchive(abs)
	}
	return v.load(NewFileImagePath(abs), "open")
}

// OpenFolder shows the first image of dir.
func (v *Viewer) OpenFolder(dir string) error {
	paths, err := ListSiblingImages(dir, v.listOptions())
	if err != nil {
		v.ShowOverlayMessage(msgOpenFailed)
		return err
	}
	if len(paths) == 0 {
		v.ShowOverlayMessage(msgDirectoryEmpty)
		return fmt.Errorf("%s: %w", dir, ErrEmptyFolder)
	}
	return v.load(NewFileImagePath(paths[0]), "open")
}

func (v *Viewer) openArchive(archivePath string) error {
	entries, err := ListArchiveImages(archivePath, v.listOptions())
	if err != nil {
		v.ShowOverlayMessage(msgOpenFailed)
		return err
	}
	if len(entries) == 0 {
		v.ShowOverlayMessage(msgDirectoryEmpty)
		return fmt.Errorf("%s: %w", archivePath, ErrEmptyFolder)
	}
	return v.load(entries[0], "open")
}

// load decodes p and installs it. guard names the action for the unsaved
// changes confirmation; an empty guard skips it.
func (v *Viewer) load(p ImagePath, guard string) error {
	if guard != "" && !v.confirmDiscard(guard) {
		return ErrUnsavedChanges
	}
	img, err := v.images.Load(p)
	if err != nil {
		logger.Warn().Err(err).Str("path", p.Path).Msg("open failed")
		v.ShowOverlayMessage(msgOpenFailed)
		return fmt.Errorf("opening %s: %w", p.Path, err)
	}
	v.install(NewDocument(img, p, ""))
	v.refreshFolder(true)
	return nil
}

// install releases the current document before taking ownership of doc.
// A nil doc leaves the viewer with no document.
func (v *Viewer) install(doc *Document) {
	if v.doc != nil {
		v.doc.Release()
	}
	v.doc = doc
	v.info = nil
	v.position, v.total = 0, 0
	v.pendingConfirm = ""

	if doc == nil {
		v.viewport.SetContent(0, 0)
		v.window.SetTitle(appName)
		return
	}

	v.viewport.SetContent(doc.Width(), doc.Height())
	if src, ok := doc.Source(); ok && !src.InArchive() {
		info, err := ReadFileInfo(src.Path)
		if err != nil {
			debugLog("file info for %s: %v", src.Path, err)
		} else {
			v.info = info
		}
	}
	v.window.SetTitle(doc.Title() + " - " + appName)
}

// folder lists the images next to src, read fresh from disk.
func (v *Viewer) folder(src ImagePath) ([]ImagePath, error) {
	if src.InArchive() {
		return ListArchiveImages(src.ArchivePath, v.listOptions())
	}
	paths, err := ListSiblingImages(filepath.Dir(src.Path), v.listOptions())
	if err != nil {
		return nil, err
	}
	images := make([]ImagePath, len(paths))
	for i, p := range paths {
		images[i] = NewFileImagePath(p)
	}
	return images, nil
}

// refreshFolder updates the position counter and optionally schedules
// preloading of the neighbours.
func (v *Viewer) refreshFolder(preload bool) {
	v.position, v.total = 0, 0
	if v.doc == nil {
		return
	}
	src, ok := v.doc.Source()
	if !ok {
		return
	}
	siblings, err := v.folder(src)
	if err != nil {
		debugLog("listing folder of %s: %v", src.Path, err)
		return
	}
	v.total = len(siblings)
	if idx := IndexOf(src.Path, imagePathKeys(siblings)); idx >= 0 {
		v.position = idx + 1
	}
	if preload {
		v.images.Preload(neighbours(src, siblings, v.config.PreloadCount))
	}
}

// neighbours returns up to n images on each side of current, nearest first.
func neighbours(current ImagePath, siblings []ImagePath, n int) []ImagePath {
	if len(siblings) < 2 {
		return nil
	}
	seen := map[string]bool{current.Path: true}
	var out []ImagePath
	next, prev := current, current
	for i := 0; i < n; i++ {
		next, _ = NextImagePath(next, siblings)
		prev, _ = PreviousImagePath(prev, siblings)
		for _, p := range []ImagePath{next, prev} {
			if !seen[p.Path] {
				seen[p.Path] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// navigate moves to the image chosen by step from the current folder.
func (v *Viewer) navigate(step func(ImagePath, []ImagePath) (ImagePath, bool), guard string) error {
	if v.doc == nil {
		return ErrNoDocument
	}
	src, ok := v.doc.Source()
	if !ok {
		return ErrNoFolder
	}
	siblings, err := v.folder(src)
	if err != nil {
		v.ShowOverlayMessage(msgOpenFailed)
		return err
	}
	if len(siblings) == 0 {
		v.ShowOverlayMessage(msgDirectoryEmpty)
		return ErrEmptyFolder
	}
	if IndexOf(src.Path, imagePathKeys(siblings)) < 0 {
		debugLog("%s is no longer in its folder, continuing from the first image", src.Path)
	}
	target, _ := step(src, siblings)
	if target.Path == src.Path {
		return nil
	}
	return v.load(target, guard)
}

func firstImagePath(_ ImagePath, siblings []ImagePath) (ImagePath, bool) {
	return siblings[0], true
}

func lastImagePath(_ ImagePath, siblings []ImagePath) (ImagePath, bool) {
	return siblings[len(siblings)-1], true
}

func (v *Viewer) NavigateNext() {
	v.logActionError("next", v.navigate(NextImagePath, "next"))
}

func (v *Viewer) NavigatePrevious() {
	v.logActionError("previous", v.navigate(PreviousImagePath, "previous"))
}

func (v *Viewer) JumpFirst() {
	v.logActionError("jump_first", v.navigate(firstImagePath, "jump_first"))
}

func (v *Viewer) JumpLast() {
	v.logActionError("jump_last", v.navigate(lastImagePath, "jump_last"))
}

func (v *Viewer) logActionError(action string, err error) {
	if err == nil || errors.Is(err, ErrUnsavedChanges) || errors.Is(err, ErrNeedsConfirmation) {
		return
	}
	debugLog("%s: %v", action, err)
}

// DeleteCurrent moves the current file to the trash after a confirmation.
func (v *Viewer) DeleteCurrent() {
	v.logActionError("delete", v.deleteCurrent())
}

func (v *Viewer) deleteCurrent() error {
	if v.doc == nil {
		return ErrNoDocument
	}
	src, ok := v.doc.Source()
	if !ok || src.InArchive() {
		return ErrNoPath
	}
	if _, err := os.Stat(src.Path); err != nil {
		v.ShowOverlayMessage(msgFileNotFound)
		return fmt.Errorf("deleting %s: %w", src.Path, err)
	}
	if !v.confirm("delete", msgConfirmDelete) {
		return ErrNeedsConfirmation
	}

	siblings, err := v.folder(src)
	if err != nil {
		return err
	}

	// Trash first: on failure the document and position stay as they are.
	if _, err := v.trash.Move(src.Path); err != nil {
		logger.Error().Err(err).Str("path", src.Path).Msg("move to trash failed")
		v.ShowOverlayMessage("Unable to delete this file")
		return err
	}
	v.images.Invalidate(src)

	// The file is gone; its edits go with it.
	v.doc.MarkClean()
	if len(siblings) <= 1 {
		v.install(nil)
	} else {
		target, _ := NextImagePath(src, siblings)
		if err := v.load(target, ""); err != nil {
			v.install(nil)
		}
	}
	v.ShowOverlayMessage("Moved to trash: " + src.Name())
	return nil
}

// Close drops the current document.
func (v *Viewer) Close() {
	if v.doc == nil || !v.confirmDiscard("close") {
		return
	}
	v.install(nil)
	v.stopSlideshow()
}

// Transformations. Each resets the viewport to Auto.

func (v *Viewer) applyTransform(t Transform) {
	if v.doc == nil {
		return
	}
	v.doc.Apply(t)
	v.viewport.SetContent(v.doc.Width(), v.doc.Height())
}

func (v *Viewer) RotateLeft()     { v.applyTransform(TransformRotateLeft) }
func (v *Viewer) RotateRight()    { v.applyTransform(TransformRotateRight) }
func (v *Viewer) FlipHorizontal() { v.applyTransform(TransformFlipHorizontal) }
func (v *Viewer) FlipVertical()   { v.applyTransform(TransformFlipVertical) }

// Zoom and pan

func (v *Viewer) ZoomIn() {
	if v.doc != nil {
		v.viewport.ZoomIn()
	}
}

func (v *Viewer) ZoomOut() {
	if v.doc != nil {
		v.viewport.ZoomOut()
	}
}

func (v *Viewer) ToggleAutoZoom() {
	if v.doc != nil {
		v.viewport.ToggleAuto()
	}
}

func (v *Viewer) WheelZoom(delta float64) {
	if v.doc != nil {
		v.viewport.WheelZoom(delta)
	}
}

func (v *Viewer) PanBy(dx, dy int) {
	v.viewport.PanBy(dx, dy)
}

func (v *Viewer) PanUp()    { v.PanBy(0, -v.config.PanStep) }
func (v *Viewer) PanDown()  { v.PanBy(0, v.config.PanStep) }
func (v *Viewer) PanLeft()  { v.PanBy(-v.config.PanStep, 0) }
func (v *Viewer) PanRight() { v.PanBy(v.config.PanStep, 0) }

func (v *Viewer) BeginPan(x, y int) bool { return v.viewport.BeginPan(x, y) }
func (v *Viewer) PanTo(x, y int)         { v.viewport.PanTo(x, y) }
func (v *Viewer) EndPan()                { v.viewport.EndPan() }

// Saving

// SaveCurrent overwrites the source file with the edited pixels.
func (v *Viewer) SaveCurrent() {
	v.logActionError("save", v.saveCurrent())
}

func (v *Viewer) saveCurrent() error {
	if v.doc == nil {
		return ErrNoDocument
	}
	src, ok := v.doc.Source()
	if !ok || src.InArchive() {
		// Nowhere to write back to; ask for a name instead.
		v.EnterPrompt(PromptSaveAs)
		return ErrNoPath
	}
	return v.saveAs(src.Path)
}

// SaveAs writes the document to name, resolved against the current folder,
// and reopens the written file.
func (v *Viewer) SaveAs(name string) error {
	return v.saveAs(name)
}

func (v *Viewer) saveAs(name string) error {
	if v.doc == nil {
		return ErrNoDocument
	}
	if name == "" {
		return ErrNoPath
	}
	path := name
	if !filepath.IsAbs(path) {
		base := v.defaultSaveDir()
		path = filepath.Join(base, path)
	}

	if err := SaveImage(path, v.doc.Image()); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("save failed")
		if errors.Is(err, ErrUnsupportedFormat) {
			v.ShowOverlayMessage("Unsupported file type: " + filepath.Ext(path))
		} else {
			v.ShowOverlayMessage("Unable to save this file")
		}
		return err
	}

	saved := NewFileImagePath(path)
	v.images.Invalidate(saved)
	v.doc.MarkClean()
	if err := v.load(saved, ""); err != nil {
		return err
	}
	v.ShowOverlayMessage("Saved " + filepath.Base(path))
	return nil
}

func (v *Viewer) defaultSaveDir() string {
	if v.doc != nil {
		if src, ok := v.doc.Source(); ok {
			if src.InArchive() {
				return filepath.Dir(src.ArchivePath)
			}
			return filepath.Dir(src.Path)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Clipboard and screen capture

// CopyImage puts the current pixels on the clipboard as PNG.
func (v *Viewer) CopyImage() {
	if v.doc == nil {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, v.doc.Image()); err != nil {
		logger.Error().Err(err).Msg("encoding clipboard image")
		return
	}
	if err := v.clipboard.WriteImage(buf.Bytes()); err != nil {
		logger.Warn().Err(err).Msg("clipboard write failed")
		v.ShowOverlayMessage("Clipboard unavailable")
		return
	}
	v.ShowOverlayMessage("Copied image")
}

// CopyPath puts the current file path on the clipboard.
func (v *Viewer) CopyPath() {
	if v.doc == nil {
		return
	}
	src, ok := v.doc.Source()
	if !ok {
		return
	}
	if err := v.clipboard.WriteText(src.Path); err != nil {
		logger.Warn().Err(err).Msg("clipboard write failed")
		v.ShowOverlayMessage("Clipboard unavailable")
		return
	}
	v.ShowOverlayMessage("Copied path")
}

// Paste opens the clipboard image as an unsaved document. Without an image
// it opens the path or file:// URI held as text.
func (v *Viewer) Paste() {
	v.logActionError("paste", v.paste())
}

func (v *Viewer) paste() error {
	data, err := v.clipboard.ReadImage()
	if err != nil {
		logger.Warn().Err(err).Msg("clipboard read failed")
		v.ShowOverlayMessage("Clipboard unavailable")
		return err
	}
	if len(data) > 0 {
		img, err := decodeImage(bytes.NewReader(data), "clipboard")
		if err == nil {
			return v.installUnsaved(img, "From clipboard", "paste")
		}
		debugLog("clipboard image: %v", err)
	}

	text, err := v.clipboard.ReadText()
	if err != nil {
		logger.Warn().Err(err).Msg("clipboard read failed")
		v.ShowOverlayMessage("Clipboard unavailable")
		return err
	}
	path := clipboardPath(text)
	if path == "" {
		return nil
	}
	return v.Open(path)
}

// clipboardPath takes the first line of text, decoding file:// URIs.
func clipboardPath(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "file://") {
		if u, err := url.Parse(line); err == nil {
			return u.Path
		}
	}
	return line
}

// installUnsaved shows pixels that exist only in memory, marked dirty. An
// empty guard skips the unsaved changes confirmation.
func (v *Viewer) installUnsaved(img image.Image, title, guard string) error {
	if guard != "" && !v.confirmDiscard(guard) {
		return ErrUnsavedChanges
	}
	doc := NewDocument(img, ImagePath{}, title)
	doc.MarkDirty()
	v.install(doc)
	v.stopSlideshow()
	return nil
}

// CaptureScreen minimises the window and grabs the screen once it is out of
// the way; Tick finishes the capture.
func (v *Viewer) CaptureScreen() {
	if !v.captureAt.IsZero() || !v.confirmDiscard("screenshot") {
		return
	}
	v.window.Minimize()
	v.captureAt = v.now().Add(captureDelay)
}

func (v *Viewer) finishCapture(now time.Time) {
	if v.captureAt.IsZero() || now.Before(v.captureAt) {
		return
	}
	v.captureAt = time.Time{}
	img, err := v.screen.Capture()
	v.window.Restore()
	if err != nil {
		logger.Error().Err(err).Msg("screen capture failed")
		v.ShowOverlayMessage("Unable to capture the screen")
		return
	}
	// The discard was confirmed when the capture was requested.
	v.logActionError("screenshot", v.installUnsaved(img, "Captured screen", ""))
}

// HandleDrop opens the first decodable file of a drop. Dropped files carry
// no path on disk, so the document has no folder.
func (v *Viewer) HandleDrop(fsys fs.FS) {
	if fsys == nil {
		return
	}
	v.logActionError("drop", v.openDropped(fsys))
}

func (v *Viewer) openDropped(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading dropped files: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, err := fsys.Open(e.Name())
		if err != nil {
			continue
		}
		img, err := decodeImage(f, e.Name())
		f.Close()
		if err != nil {
			debugLog("dropped file %s: %v", e.Name(), err)
			continue
		}
		if !v.confirmDiscard("open") {
			return ErrUnsavedChanges
		}
		v.install(NewDocument(img, ImagePath{}, e.Name()))
		v.stopSlideshow()
		return nil
	}
	v.ShowOverlayMessage(msgOpenFailed)
	return fmt.Errorf("dropped files: %w", ErrUnsupportedFormat)
}

// Toggles

func (v *Viewer) IsFullscreen() bool { return v.window.IsFullscreen() }

func (v *Viewer) ToggleFullscreen() {
	v.setFullscreen(!v.window.IsFullscreen())
}

// ExitFullscreen leaves fullscreen; outside fullscreen it does nothing.
func (v *Viewer) ExitFullscreen() {
	if v.window.IsFullscreen() {
		v.setFullscreen(false)
	}
}

func (v *Viewer) setFullscreen(on bool) {
	v.window.SetFullscreen(on)
	v.window.SetCursorVisible(!on || v.config.ShowCursorFullscreen)
	if on && v.config.AlwaysOnTop {
		v.setAlwaysOnTop(false)
	}
}

func (v *Viewer) ToggleAlwaysOnTop() {
	v.setAlwaysOnTop(!v.config.AlwaysOnTop)
}

func (v *Viewer) setAlwaysOnTop(on bool) {
	v.config.AlwaysOnTop = on
	v.window.SetFloating(on)
	if on && v.window.IsFullscreen() {
		v.setFullscreen(false)
	}
	v.persist(*v.config)
}

func (v *Viewer) ToggleCheckerboard() {
	v.config.CheckerboardBackground = !v.config.CheckerboardBackground
	v.persist(*v.config)
}

func (v *Viewer) ToggleHelp() { v.showHelp = !v.showHelp }

func (v *Viewer) ToggleInfo() { v.showInfo = !v.showInfo }

// CycleSortMethod switches to the next sort strategy and refreshes the
// position counter.
func (v *Viewer) CycleSortMethod() {
	v.config.SortMethod = nextSortMethod(v.config.SortMethod)
	v.persist(*v.config)
	v.refreshFolder(false)
	v.ShowOverlayMessage("Sort: " + GetSortStrategy(v.config.SortMethod).Name())
}

// Exit asks the game loop to stop, after confirmation when there are
// unsaved changes.
func (v *Viewer) Exit() {
	if !v.confirmDiscard("exit") {
		return
	}
	v.exitRequested = true
}

// Slideshow

func (v *Viewer) IsSlideshowRunning() bool { return v.slideshow }

func (v *Viewer) ToggleSlideshow() {
	if v.slideshow {
		v.stopSlideshow()
		v.ShowOverlayMessage("Slideshow stopped")
		return
	}
	if v.doc == nil {
		return
	}
	if _, ok := v.doc.Source(); !ok {
		return
	}
	v.slideshow = true
	v.lastAdvance = v.now()
	v.ShowOverlayMessage(fmt.Sprintf("Slideshow: every %ds", v.config.SlideshowSeconds))
}

func (v *Viewer) stopSlideshow() {
	v.slideshow = false
}

// Tick advances the slideshow when its interval has elapsed.
func (v *Viewer) Tick(now time.Time) {
	v.finishCapture(now)
	if !v.slideshow {
		return
	}
	interval := time.Duration(v.config.SlideshowSeconds) * time.Second
	if now.Sub(v.lastAdvance) < interval {
		return
	}
	v.lastAdvance = now
	if v.doc == nil {
		v.stopSlideshow()
		return
	}
	if v.doc.Dirty() {
		v.stopSlideshow()
		v.ShowOverlayMessage("Slideshow stopped: unsaved changes")
		return
	}
	if err := v.navigate(NextImagePath, ""); err != nil {
		debugLog("slideshow: %v", err)
		v.stopSlideshow()
	}
}

// SlideshowCounter returns "3 / 12" while a counted slideshow runs.
func (v *Viewer) SlideshowCounter() (string, bool) {
	if !v.slideshow || !v.config.SlideshowCounter || v.position == 0 {
		return "", false
	}
	return v.PositionLabel(), true
}

func (v *Viewer) PositionLabel() string {
	if v.position == 0 {
		return ""
	}
	return strconv.Itoa(v.position) + " / " + strconv.Itoa(v.total)
}

// Confirmation

// confirm reports true when action was armed within confirmWindow. Otherwise
// it arms action and shows prompt.
func (v *Viewer) confirm(action, prompt string) bool {
	now := v.now()
	if v.pendingConfirm == action && now.Sub(v.pendingConfirmTime) < confirmWindow {
		v.pendingConfirm = ""
		return true
	}
	v.pendingConfirm = action
	v.pendingConfirmTime = now
	v.ShowOverlayMessage(prompt)
	return false
}

func (v *Viewer) confirmDiscard(action string) bool {
	if v.doc == nil || !v.doc.Dirty() {
		return true
	}
	return v.confirm(action, msgUnsaved)
}

// Text prompt

func (v *Viewer) EnterPrompt(kind PromptKind) {
	if kind != PromptOpen && v.doc == nil {
		return
	}
	v.prompt = kind
	v.promptBuffer = ""
	if kind == PromptSaveAs && v.doc != nil {
		if src, ok := v.doc.Source(); ok {
			v.promptBuffer = src.Name()
		}
	}
}

func (v *Viewer) ExitPrompt() {
	v.prompt = PromptNone
	v.promptBuffer = ""
}

func (v *Viewer) UpdatePromptBuffer(buffer string) { v.promptBuffer = buffer }

// SubmitPrompt applies the prompt text and leaves prompt mode.
func (v *Viewer) SubmitPrompt() {
	kind, text := v.prompt, v.promptBuffer
	v.ExitPrompt()
	switch kind {
	case PromptZoom:
		if v.doc == nil {
			return
		}
		if !v.viewport.ApplyZoomText(text) {
			v.ShowOverlayMessage(msgInvalidZoom)
		}
	case PromptSaveAs:
		v.logActionError("save_as", v.saveAs(text))
	case PromptOpen:
		v.logActionError("open", v.Open(text))
	}
}

func (v *Viewer) Prompt() PromptKind { return v.prompt }

func (v *Viewer) IsInPromptMode() bool { return v.prompt != PromptNone }

func (v *Viewer) PromptBuffer() string { return v.promptBuffer }

// Overlay messages

func (v *Viewer) ShowOverlayMessage(message string) {
	v.overlayMessage = message
	v.overlayMessageTime = v.now()
}

func (v *Viewer) GetOverlayMessage() string { return v.overlayMessage }

func (v *Viewer) GetOverlayMessageTime() time.Time { return v.overlayMessageTime }

// Render state

func (v *Viewer) IsShowingHelp() bool { return v.showHelp }

func (v *Viewer) IsShowingInfo() bool { return v.showInfo }

func (v *Viewer) IsCheckerboard() bool { return v.config.CheckerboardBackground }

func (v *Viewer) GetFontSize() float64 { return v.config.HelpFontSize }

func (v *Viewer) GetConfigStatus() ConfigLoadResult { return v.configStatus }

func (v *Viewer) GetKeybindings() map[string][]string { return v.config.Keybindings }

func (v *Viewer) GetMousebindings() map[string][]string { return v.config.Mousebindings }

func (v *Viewer) GetMouseSettings() MouseSettings { return v.config.MouseSettings }

func (v *Viewer) IsWheelZoom() bool { return v.config.WheelZoom }
