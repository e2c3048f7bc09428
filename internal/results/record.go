// Package results reads and writes the per-frame tracking result file.
//
// The file is plain text: one header line followed by one line per frame,
//
//	Frame_ID, X, Y, W, H
//	2, 120, 85, 64, 48
//	3, -1, -1, -1, -1
//
// where a row of -1 values marks a frame on which tracking failed.
package results

import (
	"fmt"
	"image"
)

// Header is the first line of every result file.
const Header = "Frame_ID, X, Y, W, H"

// Sentinel is written in place of each coordinate when tracking fails.
const Sentinel = -1

// FirstTrackedFrame is the ID of the first data row. Frame 1 is the frame
// the initial box was drawn on and is never written.
const FirstTrackedFrame = 2

// Record is the outcome of one tracker update.
type Record struct {
	FrameID int
	Box     image.Rectangle
	OK      bool
}

// Fields returns the four numeric fields of the row.
func (r Record) Fields() (x, y, w, h int) {
	if !r.OK {
		return Sentinel, Sentinel, Sentinel, Sentinel
	}
	return r.Box.Min.X, r.Box.Min.Y, r.Box.Dx(), r.Box.Dy()
}

// String formats the record as a result-file row without the newline.
func (r Record) String() string {
	x, y, w, h := r.Fields()
	return fmt.Sprintf("%d, %d, %d, %d, %d", r.FrameID, x, y, w, h)
}

// Center returns the centre of the box. It is only meaningful when OK.
func (r Record) Center() (float64, float64) {
	return float64(r.Box.Min.X) + float64(r.Box.Dx())/2,
		float64(r.Box.Min.Y) + float64(r.Box.Dy())/2
}

// FromFields builds a record from row values, treating an all-sentinel row as a failure.
func FromFields(frameID, x, y, w, h int) Record {
	if x == Sentinel && y == Sentinel && w == Sentinel && h == Sentinel {
		return Record{FrameID: frameID}
	}
	return Record{
		FrameID: frameID,
		Box:     image.Rect(x, y, x+w, y+h),
		OK:      true,
	}
}
