package capture

import (
	"errors"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back in-memory frames for testing
type MockSource struct {
	frames  []*gocv.Mat
	index   int
	openErr error
	opens   int
	mu      sync.Mutex
	running bool
}

func NewMockSource(frames []*gocv.Mat) *MockSource {
	return &MockSource{
		frames: frames,
	}
}

// SetOpenError makes Open fail with err.
func (s *MockSource) SetOpenError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErr = err
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opens++
	if s.openErr != nil {
		return s.openErr
	}
	s.running = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrSourceNotOpen
	}

	if s.index >= len(s.frames) {
		return nil, ErrEndOfStream
	}

	// Clone the frame so the original isn't modified
	frame := s.frames[s.index].Clone()
	s.index++

	return &frame, nil
}

func (s *MockSource) FPS() float64 { return 30 }

func (s *MockSource) Size() image.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return image.Point{}
	}
	return image.Pt(s.frames[0].Cols(), s.frames[0].Rows())
}

func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Opens returns how many times Open was called.
func (s *MockSource) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

// Reset restarts playback from the beginning
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}

// ErrMockOpen is a convenience error for SetOpenError.
var ErrMockOpen = errors.New("mock source cannot be opened")
