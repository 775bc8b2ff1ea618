package main

import (
	"bytes"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Checkerboard colours and cell size, light theme.
var (
	checkerLight = color.RGBA{255, 255, 255, 255}
	checkerDark  = color.RGBA{204, 204, 204, 255}
)

const checkerCell = 8

// newFontSource loads the built-in Go Regular face used by every overlay.
func newFontSource() (*text.GoTextFaceSource, error) {
	return text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// checkerboardTile returns one 2x2-cell tile of the transparency pattern.
func checkerboardTile() *image.RGBA {
	size := checkerCell * 2
	tile := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := checkerLight
			if (x/checkerCell+y/checkerCell)%2 == 1 {
				c = checkerDark
			}
			tile.SetRGBA(x, y, c)
		}
	}
	return tile
}

// DrawCheckerboard tiles pattern over the rectangle (x, y, w, h) of screen.
func DrawCheckerboard(screen, pattern *ebiten.Image, x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	area := screen.SubImage(imageRect(x, y, w, h)).(*ebiten.Image)
	ps := pattern.Bounds().Dx()
	for ty := y; ty < y+h; ty += ps {
		for tx := x; tx < x+w; tx += ps {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(tx), float64(ty))
			area.DrawImage(pattern, op)
		}
	}
}

func imageRect(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}
