// Package display provides the preview window and the interactive ROI selector.
package display

import (
	"image"

	"gocv.io/x/gocv"
)

// EscKey is the key code that stops a tracking session.
const EscKey = 27

// NoKey is returned by WaitKey when no key was pressed.
const NoKey = -1

// Window shows annotated frames and lets the user pick the initial box.
type Window interface {
	// SelectROI blocks until the user confirms a box (space or enter) or
	// cancels (c). A cancelled selection returns a zero-sized rectangle.
	SelectROI(frame gocv.Mat) image.Rectangle
	Show(frame gocv.Mat)
	WaitKey(delay int) int
	Close() error
}

// IsEscape reports whether key is the escape key, ignoring modifier bits.
func IsEscape(key int) bool {
	return key != NoKey && key&0xFF == EscKey
}

// gocvWindow is a HighGUI window.
type gocvWindow struct {
	window *gocv.Window
}

// NewWindow opens a HighGUI window with the given title.
func NewWindow(title string) Window {
	return &gocvWindow{window: gocv.NewWindow(title)}
}

func (w *gocvWindow) SelectROI(frame gocv.Mat) image.Rectangle {
	return w.window.SelectROI(frame)
}

func (w *gocvWindow) Show(frame gocv.Mat) {
	w.window.IMShow(frame)
}

func (w *gocvWindow) WaitKey(delay int) int {
	return w.window.WaitKey(delay)
}

func (w *gocvWindow) Close() error {
	return w.window.Close()
}
