package main

import (
	"errors"
	"image"
	"sync"

	"github.com/kbinani/screenshot"
	"golang.design/x/clipboard"
)

// clipboardAccess is the system clipboard as the viewer uses it. Images
// travel as PNG bytes.
type clipboardAccess interface {
	ReadText() (string, error)
	WriteText(string) error
	ReadImage() ([]byte, error)
	WriteImage(png []byte) error
}

// clipboardInit runs once; it fails when there is no display to talk to.
var clipboardInit = sync.OnceValue(clipboard.Init)

type systemClipboard struct{}

func (systemClipboard) ReadText() (string, error) {
	if err := clipboardInit(); err != nil {
		return "", err
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (systemClipboard) WriteText(s string) error {
	if err := clipboardInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}

func (systemClipboard) ReadImage() ([]byte, error) {
	if err := clipboardInit(); err != nil {
		return nil, err
	}
	return clipboard.Read(clipboard.FmtImage), nil
}

func (systemClipboard) WriteImage(png []byte) error {
	if err := clipboardInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

// screenCapturer grabs what is currently on screen.
type screenCapturer interface {
	Capture() (image.Image, error)
}

var errNoDisplay = errors.New("no active display")

type primaryScreen struct{}

func (primaryScreen) Capture() (image.Image, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, errNoDisplay
	}
	img, err := screenshot.CaptureDisplay(0)
	if err != nil {
		return nil, err
	}
	return img, nil
}
