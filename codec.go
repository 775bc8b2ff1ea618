package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNoDocument        = errors.New("no image loaded")
	ErrNoPath            = errors.New("image has no file path")
)

// Format is an output encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatGIF
	FormatBMP
	FormatTIFF
	FormatICO
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatJPEG:
		return "JPEG"
	case FormatGIF:
		return "GIF"
	case FormatBMP:
		return "BMP"
	case FormatTIFF:
		return "TIFF"
	case FormatICO:
		return "ICO"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

const (
	jpegQuality = 95
	icoMaxSize  = 256
)

// FormatFromExt picks the encoding for a file name.
func FormatFromExt(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg", ".jpe", ".jfif", ".exif":
		return FormatJPEG, nil
	case ".gif":
		return FormatGIF, nil
	case ".bmp", ".dib":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".ico":
		return FormatICO, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatICO:
		return encodeICO(w, img)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// Icon file layout: a header, one directory entry per image, then payloads.
const (
	icoHeaderSize = 6
	icoEntrySize  = 16
	dibHeaderSize = 40
)

type icoHeader struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type icoDirEntry struct {
	Width      uint8
	Height     uint8
	Colors     uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	BytesInRes uint32
	Offset     uint32
}

func (e icoDirEntry) size() (int, int) {
	w, h := int(e.Width), int(e.Height)
	if w == 0 {
		w = icoMaxSize
	}
	if h == 0 {
		h = icoMaxSize
	}
	return w, h
}

var (
	errBadICO = errors.New("ico: malformed icon")
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
)

func init() {
	image.RegisterFormat("ico", "\x00\x00\x01\x00", decodeICO, decodeICOConfig)
}

// readICO returns the directory entry and payload of the largest image.
func readICO(r io.Reader) (icoDirEntry, []byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return icoDirEntry{}, nil, err
	}
	if len(data) < icoHeaderSize {
		return icoDirEntry{}, nil, errBadICO
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	if count == 0 || len(data) < icoHeaderSize+count*icoEntrySize {
		return icoDirEntry{}, nil, errBadICO
	}

	var best icoDirEntry
	bestArea := -1
	for i := 0; i < count; i++ {
		var e icoDirEntry
		off := icoHeaderSize + i*icoEntrySize
		if err := binary.Read(bytes.NewReader(data[off:off+icoEntrySize]), binary.LittleEndian, &e); err != nil {
			return icoDirEntry{}, nil, err
		}
		if w, h := e.size(); w*h > bestArea {
			best, bestArea = e, w*h
		}
	}

	end := uint64(best.Offset) + uint64(best.BytesInRes)
	if end > uint64(len(data)) {
		return icoDirEntry{}, nil, errBadICO
	}
	return best, data[best.Offset:end], nil
}

func decodeICO(r io.Reader) (image.Image, error) {
	_, payload, err := readICO(r)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(payload, pngMagic) {
		return png.Decode(bytes.NewReader(payload))
	}
	return decodeICODIB(payload)
}

func decodeICOConfig(r io.Reader) (image.Config, error) {
	entry, payload, err := readICO(r)
	if err != nil {
		return image.Config{}, err
	}
	if bytes.HasPrefix(payload, pngMagic) {
		return png.DecodeConfig(bytes.NewReader(payload))
	}
	w, h := entry.size()
	return image.Config{ColorModel: color.NRGBAModel, Width: w, Height: h}, nil
}

// decodeICODIB reads an uncompressed 24 or 32 bit bitmap entry. Its header
// height covers the colour rows plus the AND mask, so it is halved; the mask
// itself is ignored.
func decodeICODIB(payload []byte) (image.Image, error) {
	if len(payload) < dibHeaderSize {
		return nil, errBadICO
	}
	hdr := int(binary.LittleEndian.Uint32(payload[0:4]))
	w := int(int32(binary.LittleEndian.Uint32(payload[4:8])))
	h := int(int32(binary.LittleEndian.Uint32(payload[8:12]))) / 2
	bpp := int(binary.LittleEndian.Uint16(payload[14:16]))
	compression := binary.LittleEndian.Uint32(payload[16:20])

	if compression != 0 || (bpp != 24 && bpp != 32) {
		return nil, fmt.Errorf("%w: %d-bit icon", ErrUnsupportedFormat, bpp)
	}
	if hdr < dibHeaderSize || hdr > len(payload) || w <= 0 || h <= 0 {
		return nil, errBadICO
	}

	px := bpp / 8
	stride := (w*px + 3) &^ 3
	rows := payload[hdr:]
	if len(rows) < stride*h {
		return nil, errBadICO
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := rows[(h-1-y)*stride:]
		for x := 0; x < w; x++ {
			p := row[x*px:]
			a := uint8(255)
			if px == 4 {
				a = p[3]
			}
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = p[2], p[1], p[0], a
		}
	}
	return img, nil
}

// encodeICO writes a single-image icon with an embedded PNG payload. Images
// larger than 256px on either side are scaled down to fit.
func encodeICO(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Dx() > icoMaxSize || b.Dy() > icoMaxSize {
		img = fitWithin(img, icoMaxSize, icoMaxSize)
		b = img.Bounds()
	}

	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		return fmt.Errorf("encoding icon payload: %w", err)
	}

	// 256 is stored as 0 in the one-byte directory fields.
	dim := func(n int) uint8 {
		if n >= icoMaxSize {
			return 0
		}
		return uint8(n)
	}

	header := icoHeader{Type: 1, Count: 1}
	entry := icoDirEntry{
		Width:      dim(b.Dx()),
		Height:     dim(b.Dy()),
		Planes:     1,
		BitCount:   32,
		BytesInRes: uint32(payload.Len()),
		Offset:     icoHeaderSize + icoEntrySize,
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}

// fitWithin scales img down, preserving aspect ratio, so it fits maxW x maxH.
func fitWithin(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return img
	}
	if w*maxH > h*maxW {
		h = max(1, h*maxW/w)
		w = maxW
	} else {
		w = max(1, w*maxH/h)
		h = maxH
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// SaveImage encodes img by the extension of path and replaces path atomically.
func SaveImage(path string, img image.Image) error {
	format, err := FormatFromExt(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".qpv-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Encode(tmp, img, format); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encoding %s as %v: %w", path, format, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		debugLog("chmod %s: %v", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
