package display

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Headless is a Window that never renders anything. It returns a preset ROI
// and can be scripted to report key presses, which makes it usable for batch
// runs and tests.
type Headless struct {
	mu     sync.Mutex
	roi    image.Rectangle
	keys   []int
	shown  int
	closed bool
}

// NewHeadless creates a Headless window that selects roi.
func NewHeadless(roi image.Rectangle) *Headless {
	return &Headless{roi: roi}
}

// PressKeys queues keys returned by subsequent WaitKey calls, one per call.
func (h *Headless) PressKeys(keys ...int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, keys...)
}

func (h *Headless) SelectROI(frame gocv.Mat) image.Rectangle {
	return h.roi
}

func (h *Headless) Show(frame gocv.Mat) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shown++
}

func (h *Headless) WaitKey(delay int) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.keys) == 0 {
		return NoKey
	}
	key := h.keys[0]
	h.keys = h.keys[1:]
	return key
}

func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Shown returns how many frames were passed to Show.
func (h *Headless) Shown() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

// Closed reports whether Close was called.
func (h *Headless) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
