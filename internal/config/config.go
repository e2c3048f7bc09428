// Package config holds the settings of a tracking session.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ayusman/roitrack/internal/render"
	"github.com/ayusman/roitrack/internal/tracker"
)

// Defaults
const (
	DefaultSource  = "bear.mp4"
	DefaultOutput  = "tracking_result.txt"
	DefaultProfile = ProfileAll
	DefaultListen  = ":8080"
)

// maxConfigSize caps the size of a JSON config file.
const maxConfigSize = 1 * 1024 * 1024

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full set of settings for roitrack.
type Config struct {
	Source    string `json:"source"`
	Output    string `json:"output"`
	Algorithm string `json:"algorithm,omitempty"`
	Profile   string `json:"profile"`
	ROI       string `json:"roi,omitempty"`
	Headless  bool   `json:"headless,omitempty"`
	Record    string `json:"record,omitempty"`
	Plot      string `json:"plot,omitempty"`
	HistoryDB string `json:"history_db"`
	Listen    string `json:"listen"`
	StaticDir string `json:"static_dir,omitempty"`
}

// DefaultConfig returns a Config with the defaults of the original tool.
func DefaultConfig() Config {
	return Config{
		Source:    DefaultSource,
		Output:    DefaultOutput,
		Profile:   DefaultProfile,
		HistoryDB: DefaultHistoryDB(),
		Listen:    DefaultListen,
	}
}

// DefaultHistoryDB returns ~/.roitrack/roitrack.db, or "" when the home
// directory is unknown.
func DefaultHistoryDB() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".roitrack", "roitrack.db")
}

// Load reads a JSON config file on top of DefaultConfig.
// Fields omitted from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings used by a tracking session.
// The algorithm name is resolved later so that an unsupported name is
// reported by the session itself.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("%w: empty video source", ErrInvalid)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: empty output path", ErrInvalid)
	}
	if _, err := LookupProfile(c.Profile); err != nil {
		return err
	}
	if c.ROI != "" {
		if _, err := ParseROI(c.ROI); err != nil {
			return err
		}
	}
	if c.Headless && c.ROI == "" {
		return fmt.Errorf("%w: headless mode requires a preset ROI", ErrInvalid)
	}
	return nil
}

// PresetROI returns the configured ROI, if any.
func (c Config) PresetROI() (image.Rectangle, bool) {
	if c.ROI == "" {
		return image.Rectangle{}, false
	}
	r, err := ParseROI(c.ROI)
	if err != nil {
		return image.Rectangle{}, false
	}
	return r, true
}

// ParseROI parses "x,y,w,h" into a rectangle. Width and height may be zero;
// a zero-sized ROI is rejected by the session, not here.
func ParseROI(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("%w: ROI %q must be x,y,w,h", ErrInvalid, s)
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("%w: ROI %q: %v", ErrInvalid, s, err)
		}
		v[i] = n
	}

	if v[0] < 0 || v[1] < 0 || v[2] < 0 || v[3] < 0 {
		return image.Rectangle{}, fmt.Errorf("%w: ROI %q has negative values", ErrInvalid, s)
	}

	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// Profile names.
const (
	ProfileAll = "all"
	ProfileKCF = "kcf"
)

// Profile describes one flavour of the tool: which algorithms it offers and
// how its window and overlay are labelled.
type Profile struct {
	Name        string
	Algorithms  []tracker.Algorithm
	// DefaultAlgorithm is used when no algorithm is configured.
	DefaultAlgorithm tracker.Algorithm
	WindowTitle      string
	CoordStyle       render.CoordStyle
	statusLabel      func(tracker.Algorithm) string
}

// SelectAlgorithm resolves value against the profile. An empty value
// selects the profile's default algorithm.
func (p Profile) SelectAlgorithm(value string) (tracker.Algorithm, error) {
	if strings.TrimSpace(value) == "" {
		return p.DefaultAlgorithm, nil
	}
	return tracker.Select(value, p.Algorithms)
}

// StatusLabel returns the overlay line naming the tracker.
func (p Profile) StatusLabel(alg tracker.Algorithm) string {
	return p.statusLabel(alg)
}

var profiles = map[string]Profile{
	ProfileAll: {
		Name:        ProfileAll,
		Algorithms:       tracker.All(),
		DefaultAlgorithm: tracker.CSRT,
		WindowTitle:      "Tracker",
		CoordStyle:       render.CompactCoords,
		statusLabel:      func(a tracker.Algorithm) string { return a.String() + " Tracker" },
	},
	ProfileKCF: {
		Name:        ProfileKCF,
		Algorithms:       []tracker.Algorithm{tracker.KCF},
		DefaultAlgorithm: tracker.KCF,
		WindowTitle:      "KCF Tracker",
		CoordStyle:       render.VerboseCoords,
		statusLabel:      func(a tracker.Algorithm) string { return "Tracker: " + a.String() },
	},
}

// LookupProfile returns the named profile. An empty name selects the default.
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown profile %q", ErrInvalid, name)
	}
	return p, nil
}
