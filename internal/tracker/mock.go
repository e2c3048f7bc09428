package tracker

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockTracker is a scripted gocv.Tracker for tests.
// Each Update call returns the next scripted result; once the script is
// exhausted it keeps returning the last box with ok=true.
type MockTracker struct {
	mu      sync.Mutex
	initBox image.Rectangle
	initOK  bool
	inits   int
	updates int
	closed  bool
	script  []MockResult
	lastBox image.Rectangle
}

// MockResult is one scripted Update outcome.
type MockResult struct {
	Box image.Rectangle
	OK  bool
}

// NewMockTracker creates a MockTracker that accepts Init calls.
func NewMockTracker(script ...MockResult) *MockTracker {
	return &MockTracker{
		initOK: true,
		script: script,
	}
}

// SetInitResult controls the value returned by Init.
func (m *MockTracker) SetInitResult(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initOK = ok
}

// Init records the initial box.
func (m *MockTracker) Init(img gocv.Mat, boundingBox image.Rectangle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inits++
	m.initBox = boundingBox
	m.lastBox = boundingBox
	return m.initOK
}

// Update returns the next scripted result.
func (m *MockTracker) Update(img gocv.Mat) (image.Rectangle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.updates
	m.updates++

	if idx < len(m.script) {
		r := m.script[idx]
		if r.OK {
			m.lastBox = r.Box
		}
		return r.Box, r.OK
	}
	return m.lastBox, true
}

// Close marks the tracker closed.
func (m *MockTracker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Inits returns the number of Init calls.
func (m *MockTracker) Inits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inits
}

// Updates returns the number of Update calls.
func (m *MockTracker) Updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates
}

// InitBox returns the box passed to the last Init call.
func (m *MockTracker) InitBox() image.Rectangle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initBox
}

// Closed reports whether Close was called.
func (m *MockTracker) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
