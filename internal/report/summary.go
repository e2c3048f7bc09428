// Package report summarises a tracking run and plots the target trajectory.
package report

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/roitrack/internal/results"
)

// Summary describes a finished tracking run.
type Summary struct {
	Algorithm string
	Output    string
	Frames    int
	Tracked   int
	Failures  int
	MeanFPS   float64
	StdDevFPS float64
	MinFPS    float64
	MaxFPS    float64
	Cancelled bool
}

// SuccessRatio returns the fraction of frames on which tracking succeeded.
func (s Summary) SuccessRatio() float64 {
	if s.Frames == 0 {
		return 0
	}
	return float64(s.Tracked) / float64(s.Frames)
}

// String renders a one-line human-readable summary.
func (s Summary) String() string {
	return fmt.Sprintf("%s: %d frames, %d tracked (%.1f%%), %d failures, FPS mean %.1f ± %.1f [%.1f, %.1f]",
		s.Algorithm, s.Frames, s.Tracked, s.SuccessRatio()*100, s.Failures,
		s.MeanFPS, s.StdDevFPS, s.MinFPS, s.MaxFPS)
}

// Collector accumulates per-frame outcomes during a run.
type Collector struct {
	records []results.Record
	fps     []float64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records one tracker update and the frame rate measured for it.
// Non-finite rates are ignored for the statistics.
func (c *Collector) Add(rec results.Record, fps float64) {
	c.records = append(c.records, rec)
	if !math.IsInf(fps, 0) && !math.IsNaN(fps) && fps > 0 {
		c.fps = append(c.fps, fps)
	}
}

// Records returns the collected records in capture order.
func (c *Collector) Records() []results.Record {
	return c.records
}

// Summary computes counters and frame-rate statistics.
func (c *Collector) Summary(algorithm string) Summary {
	s := Summary{
		Algorithm: algorithm,
		Frames:    len(c.records),
	}

	for _, r := range c.records {
		if r.OK {
			s.Tracked++
		} else {
			s.Failures++
		}
	}

	switch len(c.fps) {
	case 0:
	case 1:
		s.MeanFPS = c.fps[0]
		s.MinFPS = c.fps[0]
		s.MaxFPS = c.fps[0]
	default:
		s.MeanFPS, s.StdDevFPS = stat.MeanStdDev(c.fps, nil)
		s.MinFPS = floats.Min(c.fps)
		s.MaxFPS = floats.Max(c.fps)
	}

	return s
}
