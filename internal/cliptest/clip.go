// Package cliptest builds synthetic video clips for tests.
package cliptest

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Clip sizes used by tests.
const (
	ClipWidth  = 160
	ClipHeight = 120
	ClipSquare = 20
)

// SquareAt returns the position of the moving square on frame i (0-based).
func SquareAt(i int) image.Rectangle {
	x := 10 + 3*i
	y := 30 + i
	return image.Rect(x, y, x+ClipSquare, y+ClipSquare)
}

// MovingSquare builds n frames of a white square drifting right and down
// over a black background. The caller must close the frames with CloseAll.
func MovingSquare(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		mat := gocv.NewMatWithSize(ClipHeight, ClipWidth, gocv.MatTypeCV8UC3)
		gocv.Rectangle(&mat, SquareAt(i), color.RGBA{R: 255, G: 255, B: 255, A: 0}, -1)
		frames = append(frames, &mat)
	}
	return frames
}

// WriteClip writes frames to an MJPG video at path. It reports false when
// the OpenCV build has no suitable video backend.
func WriteClip(path string, frames []*gocv.Mat) bool {
	if len(frames) == 0 {
		return false
	}
	w, err := gocv.VideoWriterFile(path, "MJPG", 25, frames[0].Cols(), frames[0].Rows(), true)
	if err != nil {
		return false
	}
	defer w.Close()
	if !w.IsOpened() {
		return false
	}
	for _, f := range frames {
		if err := w.Write(*f); err != nil {
			return false
		}
	}
	return true
}

// CloseAll releases frames created by MovingSquare.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
