package main

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFormatFromExt(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"a.png", FormatPNG},
		{"a.PNG", FormatPNG},
		{"a.jpg", FormatJPEG},
		{"a.jfif", FormatJPEG},
		{"a.gif", FormatGIF},
		{"a.dib", FormatBMP},
		{"a.tiff", FormatTIFF},
		{"a.ico", FormatICO},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromExt(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := FormatFromExt("a.webp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatFromExt("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncodeDecodes(t *testing.T) {
	src := solidImage(12, 7, color.RGBA{200, 40, 40, 255})

	for _, format := range []Format{FormatPNG, FormatJPEG, FormatGIF, FormatBMP, FormatTIFF, FormatICO} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, format))

			img, err := decodeImage(&buf, format.String())
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), img.Bounds())
		})
	}
}

func TestEncodeICOScalesLargeImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, solidImage(300, 100, color.RGBA{0, 0, 255, 255}), FormatICO))

	data := buf.Bytes()
	require.Greater(t, len(data), 22)
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[0:2]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[2:4]), "type is icon")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[4:6]), "one image")
	assert.Equal(t, uint8(0), data[6], "256 wide is stored as 0")
	assert.Equal(t, uint8(85), data[7])
	assert.Equal(t, uint32(22), binary.LittleEndian.Uint32(data[18:22]))

	payload, err := png.Decode(bytes.NewReader(data[22:]))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 256, 85), payload.Bounds())
}

// bitmapIcon builds a one-entry icon holding a 32-bit bottom-up bitmap.
func bitmapIcon(w, h int, pixel func(x, y int) color.NRGBA) []byte {
	var dib bytes.Buffer
	header := make([]byte, dibHeaderSize)
	binary.LittleEndian.PutUint32(header[0:], dibHeaderSize)
	binary.LittleEndian.PutUint32(header[4:], uint32(w))
	binary.LittleEndian.PutUint32(header[8:], uint32(h*2))
	binary.LittleEndian.PutUint16(header[12:], 1)
	binary.LittleEndian.PutUint16(header[14:], 32)
	dib.Write(header)
	for y := h - 1; y >= 0; y-- {
		for x := 0; x < w; x++ {
			c := pixel(x, y)
			dib.Write([]byte{c.B, c.G, c.R, c.A})
		}
	}
	maskStride := ((w + 31) / 32) * 4
	dib.Write(make([]byte, maskStride*h))

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, icoHeader{Type: 1, Count: 1})
	binary.Write(&buf, binary.LittleEndian, icoDirEntry{
		Width: uint8(w), Height: uint8(h), Planes: 1, BitCount: 32,
		BytesInRes: uint32(dib.Len()), Offset: icoHeaderSize + icoEntrySize,
	})
	buf.Write(dib.Bytes())
	return buf.Bytes()
}

func TestDecodeICOBitmap(t *testing.T) {
	data := bitmapIcon(3, 2, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 100), G: uint8(y * 100), B: 7, A: 128}
	})

	img, err := decodeImage(bytes.NewReader(data), "bitmap.ico")
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 7, A: 128}, img.At(2, 1))
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 7, A: 128}, img.At(0, 0))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "ico", format)
	assert.Equal(t, 3, cfg.Width)
	assert.Equal(t, 2, cfg.Height)
}

func TestDecodeICORejectsTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, solidImage(4, 4, color.RGBA{1, 2, 3, 255}), FormatICO))

	_, err := decodeImage(bytes.NewReader(buf.Bytes()[:30]), "short.ico")
	assert.Error(t, err)
}

func TestFitWithinKeepsSmallImages(t *testing.T) {
	src := solidImage(10, 10, color.RGBA{1, 2, 3, 255})
	assert.Same(t, src, fitWithin(src, 256, 256))
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	src := solidImage(4, 3, color.RGBA{10, 20, 30, 255})

	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0644))
	require.NoError(t, SaveImage(path, src))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := decodeImage(f, path)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())
	r, g, b, _ := img.At(2, 1).RGBA()
	assert.Equal(t, []uint32{10, 20, 30}, []uint32{r >> 8, g >> 8, b >> 8})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is renamed into place")
}

func TestSaveImageUnsupported(t *testing.T) {
	dir := t.TempDir()
	err := SaveImage(filepath.Join(dir, "out.webp"), solidImage(2, 2, color.RGBA{}))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
