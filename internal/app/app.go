// Package app runs a single-object tracking session: pick a box on the first
// frame, follow it through the rest of the video, and record the result.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/roitrack/internal/capture"
	"github.com/ayusman/roitrack/internal/config"
	"github.com/ayusman/roitrack/internal/display"
	"github.com/ayusman/roitrack/internal/report"
	"github.com/ayusman/roitrack/internal/results"
	"github.com/ayusman/roitrack/internal/store"
	"github.com/ayusman/roitrack/internal/tracker"
)

// Terminal session errors. Each one ends the run before the frame loop.
var (
	ErrSourceOpen   = errors.New("cannot open video source")
	ErrNoFirstFrame = errors.New("cannot read first frame")
	ErrEmptyROI     = errors.New("no region selected")
	ErrTrackerInit  = errors.New("tracker rejected the initial region")
	ErrOutputCreate = errors.New("cannot create output file")
)

// Config holds the session settings and the optional run history store.
type Config struct {
	config.Config
	Store *store.Store
}

// App runs tracking sessions.
type App struct {
	config  Config
	profile config.Profile
	out     io.Writer

	newTracker  func(tracker.Algorithm) (gocv.Tracker, error)
	newSource   func(location string) capture.Source
	newWindow   func(title string) display.Window
	newRecorder func(path string, fps float64, size image.Point) (capture.Recorder, error)
	ticks       func() float64
	tickFreq    func() float64
}

// New creates an App for the given configuration.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	profile, err := config.LookupProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}

	return &App{
		config:      cfg,
		profile:     profile,
		out:         os.Stdout,
		newTracker:  tracker.New,
		newSource:   capture.NewSource,
		newWindow:   display.NewWindow,
		newRecorder: capture.NewRecorder,
		ticks:       gocv.GetTickCount,
		tickFreq:    gocv.GetTickFrequency,
	}, nil
}

// SetTrackerFactory replaces the tracker constructor.
func (a *App) SetTrackerFactory(fn func(tracker.Algorithm) (gocv.Tracker, error)) {
	a.newTracker = fn
}

// SetSourceFactory replaces the frame source constructor.
func (a *App) SetSourceFactory(fn func(location string) capture.Source) {
	a.newSource = fn
}

// SetWindowFactory replaces the window constructor used in interactive mode.
func (a *App) SetWindowFactory(fn func(title string) display.Window) {
	a.newWindow = fn
}

// SetRecorderFactory replaces the annotated video writer constructor.
func (a *App) SetRecorderFactory(fn func(path string, fps float64, size image.Point) (capture.Recorder, error)) {
	a.newRecorder = fn
}

// SetOutput redirects the progress lines printed during a session.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// SetStore attaches the run history store. A nil store disables history.
func (a *App) SetStore(s *store.Store) {
	a.config.Store = s
}

// Algorithm resolves the configured algorithm against the active profile.
// An empty setting selects the profile's default.
func (a *App) Algorithm() (tracker.Algorithm, error) {
	return a.profile.SelectAlgorithm(a.config.Algorithm)
}

// Profile returns the active profile.
func (a *App) Profile() config.Profile {
	return a.profile
}

// Run executes one tracking session. It returns when the source is
// exhausted, the user presses escape, or ctx is cancelled. Every resource
// opened by the session is released before Run returns.
func (a *App) Run(ctx context.Context) (summary report.Summary, err error) {
	alg, err := a.Algorithm()
	if err != nil {
		return summary, err
	}

	fmt.Fprintf(a.out, "Creating tracker: %s...\n", alg)
	trk, err := a.newTracker(alg)
	if err != nil {
		return summary, err
	}
	defer trk.Close()

	src := a.newSource(a.config.Source)
	if err := src.Open(); err != nil {
		return summary, fmt.Errorf("%w: %s: %v", ErrSourceOpen, a.config.Source, err)
	}
	defer src.Close()

	first, err := src.ReadFrame()
	if err != nil {
		return summary, fmt.Errorf("%w: %v", ErrNoFirstFrame, err)
	}
	defer first.Close()

	win := a.openWindow()
	defer win.Close()

	fmt.Fprintf(a.out, "Using algorithm: [%s]\n", alg)
	roi := a.selectROI(win, *first)
	if roi.Dx() == 0 || roi.Dy() == 0 {
		return summary, ErrEmptyROI
	}

	if !trk.Init(*first, roi) {
		return summary, fmt.Errorf("%w: %v", ErrTrackerInit, roi)
	}

	out, err := results.Create(a.config.Output)
	if err != nil {
		return summary, fmt.Errorf("%w: %v", ErrOutputCreate, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	fmt.Fprintf(a.out, "Tracking started, writing results to %s\n", a.config.Output)

	rec := a.openRecorder(src, image.Pt(first.Cols(), first.Rows()))
	if rec != nil {
		defer rec.Close()
	}

	run := a.startRun(alg)

	s := session{
		app:      a,
		alg:      alg,
		tracker:  trk,
		source:   src,
		window:   win,
		out:      out,
		recorder: rec,
		collect:  report.NewCollector(),
	}
	loopErr := s.loop(ctx)

	summary = s.collect.Summary(alg.String())
	summary.Output = a.config.Output
	summary.Cancelled = s.cancelled

	a.finishRun(run, summary, s.collect.Records(), loopErr)
	a.writePlot(alg, s.collect.Records())

	if loopErr != nil {
		return summary, loopErr
	}
	return summary, nil
}

func (a *App) openWindow() display.Window {
	if a.config.Headless {
		roi, _ := a.config.PresetROI()
		return display.NewHeadless(roi)
	}
	return a.newWindow(a.profile.WindowTitle)
}

func (a *App) selectROI(win display.Window, first gocv.Mat) image.Rectangle {
	if roi, ok := a.config.PresetROI(); ok {
		return roi
	}
	fmt.Fprintln(a.out, "Draw a box around the target, confirm with [space] or [enter], cancel with [c].")
	return win.SelectROI(first)
}

// openRecorder returns nil when recording is disabled or the writer cannot be opened.
func (a *App) openRecorder(src capture.Source, size image.Point) capture.Recorder {
	if a.config.Record == "" {
		return nil
	}
	rec, err := a.newRecorder(a.config.Record, src.FPS(), size)
	if err != nil {
		log.Printf("Recording disabled: %v", err)
		return nil
	}
	return rec
}

// startRun records the session in the history store, if configured.
func (a *App) startRun(alg tracker.Algorithm) *store.Run {
	if a.config.Store == nil {
		return nil
	}

	run := &store.Run{
		ID:        uuid.New().String(),
		Algorithm: alg.String(),
		Source:    a.config.Source,
		Output:    a.config.Output,
	}
	if err := a.config.Store.Runs().Create(run); err != nil {
		log.Printf("Failed to record run: %v", err)
		return nil
	}
	return run
}

func (a *App) finishRun(run *store.Run, summary report.Summary, records []results.Record, loopErr error) {
	if run == nil {
		return
	}

	switch {
	case loopErr != nil:
		run.Status = store.RunStatusFailed
	case summary.Cancelled:
		run.Status = store.RunStatusCancelled
	default:
		run.Status = store.RunStatusCompleted
	}
	run.Frames = summary.Frames
	run.Failures = summary.Failures
	run.MeanFPS = summary.MeanFPS

	if err := a.config.Store.Frames().Create(run.ID, toStoreFrames(records)); err != nil {
		log.Printf("Failed to store frames for run %s: %v", run.ID, err)
	}
	if err := a.config.Store.Runs().Finish(run); err != nil {
		log.Printf("Failed to finish run %s: %v", run.ID, err)
		return
	}
	log.Printf("Run %s stored (%s)", run.ID, run.Status)
}

func (a *App) writePlot(alg tracker.Algorithm, records []results.Record) {
	if a.config.Plot == "" {
		return
	}
	title := fmt.Sprintf("%s trajectory - %s", alg, a.config.Source)
	if err := report.Trajectory(records, title, a.config.Plot); err != nil {
		log.Printf("Trajectory plot skipped: %v", err)
		return
	}
	fmt.Fprintf(a.out, "Trajectory plot saved to %s\n", a.config.Plot)
}

// toStoreFrames converts result records to store rows.
func toStoreFrames(records []results.Record) []store.Frame {
	frames := make([]store.Frame, len(records))
	for i, r := range records {
		x, y, w, h := r.Fields()
		frames[i] = store.Frame{FrameID: r.FrameID, X: x, Y: y, W: w, H: h, OK: r.OK}
	}
	return frames
}
