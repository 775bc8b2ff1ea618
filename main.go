package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenWindow drives the real window.
type ebitenWindow struct{}

func (ebitenWindow) SetFullscreen(on bool) { ebiten.SetFullscreen(on) }

func (ebitenWindow) IsFullscreen() bool { return ebiten.IsFullscreen() }

func (ebitenWindow) SetFloating(on bool) { ebiten.SetWindowFloating(on) }

func (ebitenWindow) SetTitle(title string) { ebiten.SetWindowTitle(title) }

func (ebitenWindow) Minimize() { ebiten.MinimizeWindow() }

func (ebitenWindow) Restore() { ebiten.RestoreWindow() }

func (ebitenWindow) SetCursorVisible(visible bool) {
	if visible {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
}

type Game struct {
	viewer   *Viewer
	renderer *Renderer
	input    *InputHandler
	config   *Config

	savedWinW int
	savedWinH int

	width  int
	height int

	lastSnapshot *RenderStateSnapshot
	redraw       bool
}

func (g *Game) trackWindowSize() {
	if !ebiten.IsFullscreen() {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
	}
}

func (g *Game) saveCurrentWindowSize() {
	// Outside fullscreen this is the current size; in fullscreen, the size
	// from before it was entered.
	if g.savedWinW > 0 && g.savedWinH > 0 {
		g.config.WindowWidth = g.savedWinW
		g.config.WindowHeight = g.savedWinH
	}
	saveConfig(*g.config)
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.viewer.Exit()
	}

	inputProcessed := g.input.HandleInput()
	g.viewer.Tick(time.Now())
	g.trackWindowSize()

	if g.viewer.ExitRequested() {
		g.saveCurrentWindowSize()
		return ebiten.Termination
	}

	snapshot := NewRenderStateSnapshot(g.viewer, g.width, g.height, time.Now())
	if inputProcessed || !snapshot.Equals(g.lastSnapshot) {
		g.redraw = true
	}
	g.lastSnapshot = snapshot
	return nil
}

// Draw repaints only when something changed; the screen is not cleared
// between frames.
func (g *Game) Draw(screen *ebiten.Image) {
	if !g.redraw {
		return
	}
	g.renderer.Draw(screen)
	g.redraw = false
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.redraw = true
	}
	g.width, g.height = outsideWidth, outsideHeight
	g.viewer.Viewport().Resize(outsideWidth, imageAreaHeight(outsideHeight, g.viewer.IsFullscreen()))
	return outsideWidth, outsideHeight
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging (also QPV_DEBUG=1)")
	configPath := flag.String("config", "", "path to the config file (default ~/.qpv.json)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-debug] [-config path] [file|dir|archive]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	initLogging(os.Stderr, *debug)
	configPathOverride = *configPath

	result := loadConfig()
	for _, w := range result.Warnings {
		logger.Warn().Str("config", getConfigPath()).Msg(w)
	}
	config := result.Config

	store := NewImageStore(config.CacheSize, config.PreloadEnabled)
	defer store.Close()

	trash, err := DefaultTrash()
	if err != nil {
		logger.Fatal().Err(err).Msg("no trash directory")
	}

	viewer := NewViewer(&config, result, ViewerDeps{
		Images: store,
		Trash:  trash,
		Window: ebitenWindow{},
	})

	if flag.NArg() > 0 {
		if err := viewer.Open(flag.Arg(0)); err != nil {
			logger.Error().Err(err).Str("path", flag.Arg(0)).Msg("cannot open")
		}
	}

	renderer, err := NewRenderer(viewer)
	if err != nil {
		logger.Fatal().Err(err).Msg("renderer setup failed")
	}

	g := &Game{
		viewer:   viewer,
		renderer: renderer,
		input: NewInputHandler(viewer, viewer,
			NewKeybindingManager(config.Keybindings),
			NewMousebindingManager(config.Mousebindings, config.MouseSettings)),
		config: &config,
		redraw: true,
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowSizeLimits(minWidth, minHeight, -1, -1)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetScreenClearedEveryFrame(false)

	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal().Err(err).Msg("game loop failed")
	}
}
