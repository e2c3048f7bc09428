// Package capture provides video frame sources using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

var (
	// ErrSourceNotOpen is returned when trying to read from a source that is not open.
	ErrSourceNotOpen = errors.New("video source is not open")
	// ErrSourceNotFound is returned when a video file does not exist.
	ErrSourceNotFound = errors.New("video file not found")
	// ErrEndOfStream is returned when the source has no more frames.
	ErrEndOfStream = errors.New("end of video stream")
)

// Source defines the interface for sequential frame sources.
type Source interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	FPS() float64
	Size() image.Point
	IsOpen() bool
}

// videoSource reads frames from a video file or camera device using GoCV.
type videoSource struct {
	location string
	deviceID int
	isDevice bool
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
}

// NewSource creates a Source for location. A location made only of digits is a
// camera index; anything else is a file path.
func NewSource(location string) Source {
	s := &videoSource{location: location}
	if isDigits(location) {
		if id, err := strconv.Atoi(location); err == nil {
			s.deviceID = id
			s.isDevice = true
		}
	}
	return s
}

// IsDevice reports whether location names a camera index.
func IsDevice(location string) bool {
	return isDigits(location)
}

// Open opens the file or device for capturing frames.
func (s *videoSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	var (
		capture *gocv.VideoCapture
		err     error
	)

	if s.isDevice {
		capture, err = gocv.VideoCaptureDevice(s.deviceID)
	} else {
		if _, statErr := os.Stat(s.location); statErr != nil {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, s.location)
		}
		capture, err = gocv.VideoCaptureFile(s.location)
	}
	if err != nil {
		return fmt.Errorf("failed to open video source %s: %w", s.location, err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("failed to open video source %s", s.location)
	}

	s.capture = capture
	s.running = true

	return nil
}

// Close releases the underlying capture handle.
func (s *videoSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		s.running = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.running = false

	return err
}

// ReadFrame reads the next frame.
// The caller is responsible for closing the returned Mat.
func (s *videoSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrEndOfStream
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrEndOfStream
	}

	return &mat, nil
}

// FPS returns the frame rate reported by the source, or 0 when unknown.
func (s *videoSource) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return 0
	}
	return s.capture.Get(gocv.VideoCaptureFPS)
}

// Size returns the frame dimensions reported by the source.
func (s *videoSource) Size() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return image.Point{}
	}
	return image.Pt(
		int(s.capture.Get(gocv.VideoCaptureFrameWidth)),
		int(s.capture.Get(gocv.VideoCaptureFrameHeight)),
	)
}

// IsOpen returns true if the source is currently open.
func (s *videoSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
