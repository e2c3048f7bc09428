// Package render draws the tracking overlay onto frames.
package render

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
}

var (
	// Blue is the tracked box colour.
	Blue = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	// Red is used for the failure notice.
	Red = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	// Yellow is used for compact coordinate labels.
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 0}
	// Cyan is used for verbose coordinate labels.
	Cyan = color.RGBA{R: 0, G: 255, B: 255, A: 0}
	// StatusGreen is used for the algorithm and FPS lines.
	StatusGreen = color.RGBA{R: 50, G: 170, B: 50, A: 0}
)

// StatusFont returns the font for the algorithm and FPS lines.
func StatusFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.75,
		Color:     StatusGreen,
		Thickness: 2,
	}
}

// FailureFont returns the font for the tracking failure notice.
func FailureFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.75,
		Color:     Red,
		Thickness: 2,
	}
}

// CoordFont returns the font for coordinate labels in the given colour.
func CoordFont(c color.RGBA) Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.6,
		Color:     c,
		Thickness: 2,
	}
}
