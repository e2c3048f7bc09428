package config

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ayusman/roitrack/internal/render"
	"github.com/ayusman/roitrack/internal/tracker"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "bear.mp4", cfg.Source)
	require.Equal(t, "tracking_result.txt", cfg.Output)
	require.Empty(t, cfg.Algorithm, "algorithm defaults to the profile's")
	require.Equal(t, ProfileAll, cfg.Profile)
	require.Equal(t, ":8080", cfg.Listen)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roitrack.json")
	data := `{"source": "0", "algorithm": "kcf", "profile": "kcf", "roi": "10,20,30,40", "headless": true}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "0", cfg.Source)
	require.Equal(t, "kcf", cfg.Algorithm)
	require.Equal(t, ProfileKCF, cfg.Profile)
	require.True(t, cfg.Headless)
	// Omitted fields keep defaults
	require.Equal(t, DefaultOutput, cfg.Output)
	require.NoError(t, cfg.Validate())

	roi, ok := cfg.PresetROI()
	require.True(t, ok)
	require.Equal(t, image.Rect(10, 20, 40, 60), roi)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "roitrack.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("source: x"), 0644))
	_, err := Load(yamlPath)
	require.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{"), 0644))
	_, err = Load(badPath)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "empty source", modify: func(c *Config) { c.Source = "" }},
		{name: "empty output", modify: func(c *Config) { c.Output = " " }},
		{name: "unknown profile", modify: func(c *Config) { c.Profile = "legacy" }},
		{name: "malformed roi", modify: func(c *Config) { c.ROI = "1,2,3" }},
		{name: "headless without roi", modify: func(c *Config) { c.Headless = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.True(t, errors.Is(err, ErrInvalid), "error = %v", err)
		})
	}
}

func TestParseROI(t *testing.T) {
	tests := []struct {
		input   string
		want    image.Rectangle
		wantErr bool
	}{
		{input: "10,20,30,40", want: image.Rect(10, 20, 40, 60)},
		{input: " 1, 2, 3, 4 ", want: image.Rect(1, 2, 4, 6)},
		{input: "5,5,0,10", want: image.Rect(5, 5, 5, 15)},
		{input: "1,2,3", wantErr: true},
		{input: "a,2,3,4", wantErr: true},
		{input: "-1,2,3,4", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseROI(tt.input)
		if tt.wantErr {
			require.Error(t, err, "ParseROI(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "ParseROI(%q)", tt.input)
		require.Equal(t, tt.want, got, "ParseROI(%q)", tt.input)
	}
}

func TestLookupProfile(t *testing.T) {
	all, err := LookupProfile("")
	require.NoError(t, err)
	require.Equal(t, ProfileAll, all.Name)
	require.Equal(t, tracker.All(), all.Algorithms)
	require.Equal(t, "Tracker", all.WindowTitle)
	require.Equal(t, render.CompactCoords, all.CoordStyle)
	require.Equal(t, "CSRT Tracker", all.StatusLabel(tracker.CSRT))

	kcf, err := LookupProfile("KCF")
	require.NoError(t, err)
	require.Equal(t, []tracker.Algorithm{tracker.KCF}, kcf.Algorithms)
	require.Equal(t, "KCF Tracker", kcf.WindowTitle)
	require.Equal(t, render.VerboseCoords, kcf.CoordStyle)
	require.Equal(t, "Tracker: KCF", kcf.StatusLabel(tracker.KCF))
}

func TestProfile_SelectAlgorithm(t *testing.T) {
	tests := []struct {
		profile string
		value   string
		want    tracker.Algorithm
		wantErr error
	}{
		{profile: ProfileAll, value: "", want: tracker.CSRT},
		{profile: ProfileKCF, value: "", want: tracker.KCF},
		{profile: ProfileKCF, value: "  ", want: tracker.KCF},
		{profile: ProfileKCF, value: "kcf", want: tracker.KCF},
		{profile: ProfileAll, value: "mil", want: tracker.MIL},
		{profile: ProfileAll, value: "0", want: tracker.Boosting},
		{profile: ProfileKCF, value: "CSRT", wantErr: tracker.ErrUnsupported},
	}

	for _, tt := range tests {
		p, err := LookupProfile(tt.profile)
		require.NoError(t, err)

		got, err := p.SelectAlgorithm(tt.value)
		if tt.wantErr != nil {
			require.ErrorIs(t, err, tt.wantErr, "%s/%q", tt.profile, tt.value)
			continue
		}
		require.NoError(t, err, "%s/%q", tt.profile, tt.value)
		require.Equal(t, tt.want, got, "%s/%q", tt.profile, tt.value)
	}
}

func TestLoad_KCFProfileWithoutAlgorithm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roitrack.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"profile": "kcf"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	p, err := LookupProfile(cfg.Profile)
	require.NoError(t, err)
	alg, err := p.SelectAlgorithm(cfg.Algorithm)
	require.NoError(t, err)
	require.Equal(t, tracker.KCF, alg)
}
