package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ayusman/roitrack/internal/cliptest"
	"github.com/ayusman/roitrack/internal/config"
	"github.com/ayusman/roitrack/internal/results"
	"github.com/ayusman/roitrack/internal/store"
)

func TestApp_TrackSyntheticClip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dir := t.TempDir()
	clipPath := filepath.Join(dir, "square.avi")

	frames := cliptest.MovingSquare(15)
	defer cliptest.CloseAll(frames)
	if !cliptest.WriteClip(clipPath, frames) {
		t.Skip("OpenCV build cannot write MJPG video")
	}

	s, err := store.New(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	start := cliptest.SquareAt(0)
	cfg := Config{Config: config.DefaultConfig(), Store: s}
	cfg.Source = clipPath
	cfg.Output = filepath.Join(dir, "tracking_result.txt")
	cfg.Algorithm = "KCF"
	cfg.Headless = true
	cfg.ROI = "10,30,20,20"
	cfg.HistoryDB = ""

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	summary, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	records, err := results.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(records) != 14 {
		t.Fatalf("records = %d, want 14", len(records))
	}
	if summary.Frames != len(records) {
		t.Errorf("summary frames = %d, want %d", summary.Frames, len(records))
	}

	for i, r := range records {
		if r.FrameID != results.FirstTrackedFrame+i {
			t.Errorf("record %d frame id = %d", i, r.FrameID)
		}
	}

	// The square moves slowly enough for KCF to keep hold of it.
	last := records[len(records)-1]
	if !last.OK {
		t.Fatalf("last frame lost the target")
	}
	want := cliptest.SquareAt(14)
	if abs(last.Box.Min.X-want.Min.X) > 6 || abs(last.Box.Min.Y-want.Min.Y) > 6 {
		t.Errorf("last box = %v, want near %v (started at %v)", last.Box, want, start)
	}

	runs, err := s.Runs().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Status != store.RunStatusCompleted {
		t.Errorf("runs = %+v", runs)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
