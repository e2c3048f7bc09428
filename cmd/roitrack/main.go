// Command roitrack follows a user-selected region through a video and
// writes its bounding box for every frame.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/roitrack/internal/app"
	"github.com/ayusman/roitrack/internal/config"
	"github.com/ayusman/roitrack/internal/results"
	"github.com/ayusman/roitrack/internal/server"
	"github.com/ayusman/roitrack/internal/store"
	"github.com/ayusman/roitrack/internal/tracker"
)

const usage = `Usage: roitrack [command] [flags]

Commands:
  track        run a tracking session (default)
  algorithms   list tracking algorithms
  inspect      validate a result file and print its counts
  serve        serve the run history over HTTP

Run "roitrack <command> -h" for the flags of a command.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		stop()
		log.Fatalf("Error: %v", err)
	}
}

// run dispatches to the subcommand named by the first argument.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := "track"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "track":
		return runTrack(ctx, args, stdout)
	case "algorithms":
		return runAlgorithms(args, stdout)
	case "inspect":
		return runInspect(args, stdout)
	case "serve":
		return runServe(ctx, args)
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

// loadConfig parses the shared flags. Values come from the defaults, then
// the -config file, then any flag given explicitly on the command line.
func loadConfig(name string, args []string) (config.Config, error) {
	cfg := config.DefaultConfig()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON config file")
	source := fs.String("source", cfg.Source, "video file path or camera index")
	output := fs.String("output", cfg.Output, "result file path")
	algorithm := fs.String("algorithm", cfg.Algorithm, "tracking algorithm name or index (empty for the profile default)")
	profile := fs.String("profile", cfg.Profile, "overlay profile: all or kcf")
	roi := fs.String("roi", "", "initial box as x,y,w,h instead of selecting it")
	headless := fs.Bool("headless", false, "run without a window (requires -roi)")
	record := fs.String("record", "", "write the annotated video to this file")
	plotPath := fs.String("plot", "", "write a trajectory plot PNG to this file")
	historyDB := fs.String("db", cfg.HistoryDB, "run history database (empty to disable)")
	listen := fs.String("listen", cfg.Listen, "history server listen address")
	staticDir := fs.String("static", "", "directory of static files for the history server")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source = *source
		case "output":
			cfg.Output = *output
		case "algorithm":
			cfg.Algorithm = *algorithm
		case "profile":
			cfg.Profile = *profile
		case "roi":
			cfg.ROI = *roi
		case "headless":
			cfg.Headless = *headless
		case "record":
			cfg.Record = *record
		case "plot":
			cfg.Plot = *plotPath
		case "db":
			cfg.HistoryDB = *historyDB
		case "listen":
			cfg.Listen = *listen
		case "static":
			cfg.StaticDir = *staticDir
		}
	})

	return cfg, nil
}

// openStore opens the history database, creating its directory.
// An empty path disables history.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return st, nil
}

func runTrack(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := loadConfig("track", args)
	if err != nil {
		return err
	}

	a, err := app.New(app.Config{Config: cfg})
	if err != nil {
		return err
	}
	a.SetOutput(stdout)

	// A rejected algorithm must not leave a history database behind.
	alg, err := a.Algorithm()
	if err != nil {
		return err
	}
	if !tracker.Available(alg) {
		return fmt.Errorf("%w: %s", tracker.ErrUnavailable, alg)
	}

	st, err := openStore(cfg.HistoryDB)
	if err != nil {
		// History is optional; tracking still works without it.
		log.Printf("Run history disabled: %v", err)
	}
	if st != nil {
		defer st.Close()
		a.SetStore(st)
	}

	summary, err := a.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Done. Results saved to %s\n", cfg.Output)
	fmt.Fprintln(stdout, summary)
	return nil
}

func runAlgorithms(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("algorithms", flag.ContinueOnError)
	profile := fs.String("profile", config.DefaultProfile, "list the algorithms of this profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := config.LookupProfile(*profile)
	if err != nil {
		return err
	}

	for _, alg := range p.Algorithms {
		status := "available"
		if !tracker.Available(alg) {
			status = "unavailable"
		}
		marker := ""
		if alg == tracker.DefaultAlgorithm {
			marker = " (default index fallback)"
		}
		fmt.Fprintf(stdout, "%d  %-10s %s%s\n", int(alg), alg, status, marker)
	}
	return nil
}

func runInspect(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect needs exactly one result file")
	}

	path := fs.Arg(0)
	records, err := results.ReadFile(path)
	if err != nil {
		return err
	}

	tracked := 0
	for _, r := range records {
		if r.OK {
			tracked++
		}
	}

	fmt.Fprintf(stdout, "%s: %d frames, %d tracked, %d failures\n",
		path, len(records), tracked, len(records)-tracked)
	return nil
}

func runServe(ctx context.Context, args []string) error {
	cfg, err := loadConfig("serve", args)
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return fmt.Errorf("serve needs a history database")
	}

	st, err := openStore(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.StaticDir != "" {
		fmt.Printf("Serving static files from: %s\n", cfg.StaticDir)
	}

	srv := server.New(server.Config{
		StaticDir: cfg.StaticDir,
		Store:     st,
	})
	return srv.ListenAndServe(ctx, cfg.Listen)
}
