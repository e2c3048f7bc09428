package render

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// CoordStyle selects how box coordinates are labelled on the frame.
type CoordStyle int

const (
	// CompactCoords renders "X:10 Y:20 W:30 H:40" in yellow.
	CompactCoords CoordStyle = iota
	// VerboseCoords renders "Coord: x=10, y=20, w=30, h=40" in cyan.
	VerboseCoords
)

// FailureText is drawn when the tracker loses the target.
const FailureText = "Tracking failure detected"

// BoxThickness is the line thickness of the tracked box.
const BoxThickness = 2

var (
	failureOrigin = image.Pt(100, 80)
	labelOrigin   = image.Pt(20, 20)
	fpsOrigin     = image.Pt(20, 50)
)

// CoordText formats the coordinate label for box.
func CoordText(style CoordStyle, box image.Rectangle) string {
	x, y, w, h := box.Min.X, box.Min.Y, box.Dx(), box.Dy()
	if style == VerboseCoords {
		return fmt.Sprintf("Coord: x=%d, y=%d, w=%d, h=%d", x, y, w, h)
	}
	return fmt.Sprintf("X:%d Y:%d W:%d H:%d", x, y, w, h)
}

// FPSText formats the frame rate line. The rate is truncated to an integer.
func FPSText(fps float64) string {
	if math.IsInf(fps, 0) || math.IsNaN(fps) || fps < 0 {
		fps = 0
	}
	return fmt.Sprintf("FPS : %d", int(fps))
}

// Box draws the tracked box.
func Box(img *gocv.Mat, box image.Rectangle) {
	gocv.Rectangle(img, box, Blue, BoxThickness)
}

// Coordinates draws the coordinate label just above the box.
func Coordinates(img *gocv.Mat, box image.Rectangle, style CoordStyle) {
	c := Yellow
	if style == VerboseCoords {
		c = Cyan
	}
	putText(img, CoordText(style, box), image.Pt(box.Min.X, box.Min.Y-10), CoordFont(c))
}

// Failure draws the tracking failure notice.
func Failure(img *gocv.Mat) {
	putText(img, FailureText, failureOrigin, FailureFont())
}

// Status draws the tracker label and frame rate in the top-left corner.
func Status(img *gocv.Mat, label string, fps float64) {
	f := StatusFont()
	putText(img, label, labelOrigin, f)
	putText(img, FPSText(fps), fpsOrigin, f)
}

func putText(img *gocv.Mat, text string, org image.Point, f Font) {
	gocv.PutText(img, text, org, f.Face, f.Scale, f.Color, f.Thickness)
}
