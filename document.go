package main

import (
	"image"
	"image/draw"
	"path/filepath"
)

// Transform is an in-place flip or quarter-turn rotation.
type Transform int

const (
	TransformFlipHorizontal Transform = iota
	TransformFlipVertical
	TransformRotateLeft
	TransformRotateRight
)

// Document is the currently loaded image. The viewer owns it exclusively and
// must Release it before installing a replacement.
type Document struct {
	img     image.Image
	source  ImagePath // zero for pathless sources
	title   string
	dirty   bool
	version int

	released  bool
	onRelease func()
}

// NewDocument wraps decoded pixels. source may be the zero ImagePath for images
// that did not come from a file; title is then used for display.
func NewDocument(img image.Image, source ImagePath, title string) *Document {
	if title == "" && source.Path != "" {
		title = source.Name()
	}
	return &Document{img: img, source: source, title: title}
}

func (d *Document) Image() image.Image { return d.img }

func (d *Document) Width() int { return d.img.Bounds().Dx() }

func (d *Document) Height() int { return d.img.Bounds().Dy() }

// Source returns the origin path, if any.
func (d *Document) Source() (ImagePath, bool) {
	return d.source, d.source.Path != ""
}

// Dir returns the folder used for sibling navigation: the containing directory
// for files, the archive itself for archive entries, "" for pathless images.
func (d *Document) Dir() string {
	switch {
	case d.source.InArchive():
		return d.source.ArchivePath
	case d.source.Path != "":
		return filepath.Dir(d.source.Path)
	default:
		return ""
	}
}

func (d *Document) Title() string { return d.title }

func (d *Document) Dirty() bool { return d.dirty }

func (d *Document) MarkClean() { d.dirty = false }

// MarkDirty flags pixels that exist nowhere on disk yet.
func (d *Document) MarkDirty() { d.dirty = true }

// Version increments on every pixel change so textures can be rebuilt.
func (d *Document) Version() int { return d.version }

// OnRelease registers a hook run once when the document is released.
func (d *Document) OnRelease(fn func()) {
	d.onRelease = fn
}

// Release drops the pixel buffer. It is safe to call more than once.
func (d *Document) Release() {
	if d.released {
		return
	}
	d.released = true
	d.img = nil
	if d.onRelease != nil {
		d.onRelease()
	}
}

func (d *Document) Released() bool { return d.released }

// Apply mutates the document with t and marks it dirty. Straight-alpha
// (NRGBA) sources stay NRGBA; everything else becomes RGBA.
func (d *Document) Apply(t Transform) {
	src := pixelsOf(d.img)
	var dst *pixelBuffer
	switch t {
	case TransformFlipHorizontal:
		dst = flipHorizontal(src)
	case TransformFlipVertical:
		dst = flipVertical(src)
	case TransformRotateLeft:
		dst = rotate(src, false)
	case TransformRotateRight:
		dst = rotate(src, true)
	default:
		return
	}
	d.img = dst.image()
	d.dirty = true
	d.version++
}

// pixelBuffer is a zero-origin view of 4 bytes per pixel, either
// premultiplied RGBA or straight NRGBA.
type pixelBuffer struct {
	pix      []uint8
	stride   int
	w, h     int
	straight bool
}

func newPixelBuffer(w, h int, straight bool) *pixelBuffer {
	return &pixelBuffer{pix: make([]uint8, w*h*4), stride: w * 4, w: w, h: h, straight: straight}
}

// pixelsOf views RGBA and NRGBA images in place and copies anything else
// into RGBA.
func pixelsOf(img image.Image) *pixelBuffer {
	b := img.Bounds()
	if b.Empty() {
		return newPixelBuffer(0, 0, false)
	}
	switch m := img.(type) {
	case *image.NRGBA:
		return &pixelBuffer{pix: m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], stride: m.Stride, w: b.Dx(), h: b.Dy(), straight: true}
	case *image.RGBA:
		return &pixelBuffer{pix: m.Pix[m.PixOffset(b.Min.X, b.Min.Y):], stride: m.Stride, w: b.Dx(), h: b.Dy()}
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &pixelBuffer{pix: rgba.Pix, stride: rgba.Stride, w: b.Dx(), h: b.Dy()}
}

func (p *pixelBuffer) image() image.Image {
	rect := image.Rect(0, 0, p.w, p.h)
	if p.straight {
		return &image.NRGBA{Pix: p.pix, Stride: p.stride, Rect: rect}
	}
	return &image.RGBA{Pix: p.pix, Stride: p.stride, Rect: rect}
}

func (p *pixelBuffer) offset(x, y int) int { return y*p.stride + x*4 }

func copyPixel(dst *pixelBuffer, dx, dy int, src *pixelBuffer, sx, sy int) {
	di := dst.offset(dx, dy)
	si := src.offset(sx, sy)
	copy(dst.pix[di:di+4], src.pix[si:si+4])
}

func flipHorizontal(src *pixelBuffer) *pixelBuffer {
	dst := newPixelBuffer(src.w, src.h, src.straight)
	for y := 0; y < src.h; y++ {
		for x := 0; x < src.w; x++ {
			copyPixel(dst, src.w-1-x, y, src, x, y)
		}
	}
	return dst
}

func flipVertical(src *pixelBuffer) *pixelBuffer {
	dst := newPixelBuffer(src.w, src.h, src.straight)
	row := src.w * 4
	for y := 0; y < src.h; y++ {
		si := src.offset(0, y)
		di := dst.offset(0, src.h-1-y)
		copy(dst.pix[di:di+row], src.pix[si:si+row])
	}
	return dst
}

// rotate turns src by 90 degrees, clockwise when cw is set.
func rotate(src *pixelBuffer, cw bool) *pixelBuffer {
	w, h := src.w, src.h
	dst := newPixelBuffer(h, w, src.straight)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if cw {
				copyPixel(dst, h-1-y, x, src, x, y)
			} else {
				copyPixel(dst, y, w-1-x, src, x, y)
			}
		}
	}
	return dst
}
