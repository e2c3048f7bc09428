package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// DefaultRecordFPS is used when the source does not report a frame rate.
const DefaultRecordFPS = 30.0

// RecordCodec is the FourCC used for annotated video output.
const RecordCodec = "MJPG"

// Recorder writes annotated frames to a video file.
type Recorder interface {
	Write(frame gocv.Mat) error
	Close() error
}

// NewRecorder opens a video writer at path for frames of the given size.
func NewRecorder(path string, fps float64, size image.Point) (Recorder, error) {
	if fps <= 0 {
		fps = DefaultRecordFPS
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("invalid recording frame size %dx%d", size.X, size.Y)
	}

	w, err := gocv.VideoWriterFile(path, RecordCodec, fps, size.X, size.Y, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open video writer %s: %w", path, err)
	}
	if !w.IsOpened() {
		w.Close()
		return nil, fmt.Errorf("failed to open video writer %s", path)
	}

	return w, nil
}
