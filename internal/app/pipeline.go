package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gocv.io/x/gocv"

	"github.com/ayusman/roitrack/internal/capture"
	"github.com/ayusman/roitrack/internal/display"
	"github.com/ayusman/roitrack/internal/render"
	"github.com/ayusman/roitrack/internal/report"
	"github.com/ayusman/roitrack/internal/results"
	"github.com/ayusman/roitrack/internal/tracker"
)

// session is the state of one frame loop.
type session struct {
	app       *App
	alg       tracker.Algorithm
	tracker   gocv.Tracker
	source    capture.Source
	window    display.Window
	out       *results.Writer
	recorder  capture.Recorder
	collect   *report.Collector
	cancelled bool
}

// loop is the per-frame update loop.
//
// For every frame after the first:
// 1. Read the frame; an exhausted source ends the loop
// 2. Time the tracker update with the tick counter
// 3. On success draw the box and coordinates, on failure the notice
// 4. Append the row to the result file
// 5. Draw the status lines, record and show the frame
// 6. Stop on escape or context cancellation
//
// A tracking failure only affects its own frame; there is no retry.
func (s *session) loop(ctx context.Context) error {
	frameID := 1
	label := s.app.profile.StatusLabel(s.alg)

	for {
		select {
		case <-ctx.Done():
			s.cancelled = true
			fmt.Fprintln(s.app.out, "Interrupted")
			return nil
		default:
		}

		frame, err := s.source.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrEndOfStream) {
				return nil
			}
			return fmt.Errorf("failed to read frame %d: %w", frameID+1, err)
		}

		frameID++

		start := s.app.ticks()
		box, ok := s.tracker.Update(*frame)
		fps := fpsFromTicks(s.app.tickFreq(), s.app.ticks()-start)

		rec := results.Record{FrameID: frameID, OK: ok}
		if ok {
			rec.Box = box
			render.Box(frame, box)
			render.Coordinates(frame, box, s.app.profile.CoordStyle)
		} else {
			render.Failure(frame)
		}

		if err := s.out.Write(rec); err != nil {
			frame.Close()
			return err
		}
		s.collect.Add(rec, fps)

		render.Status(frame, label, fps)

		if s.recorder != nil {
			if err := s.recorder.Write(*frame); err != nil {
				log.Printf("Failed to record frame %d: %v", frameID, err)
			}
		}

		s.window.Show(*frame)
		frame.Close()

		if display.IsEscape(s.window.WaitKey(1)) {
			s.cancelled = true
			fmt.Fprintln(s.app.out, "Stopped by user")
			return nil
		}
	}
}

// fpsFromTicks converts an elapsed tick count into frames per second.
func fpsFromTicks(freq, elapsed float64) float64 {
	if elapsed <= 0 || freq <= 0 {
		return 0
	}
	return freq / elapsed
}
