package results

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRecord_String(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "tracked",
			rec:  Record{FrameID: 2, Box: image.Rect(120, 85, 184, 133), OK: true},
			want: "2, 120, 85, 64, 48",
		},
		{
			name: "failure",
			rec:  Record{FrameID: 3, Box: image.Rect(1, 2, 3, 4)},
			want: "3, -1, -1, -1, -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.rec.String())
		})
	}
}

func TestRecord_Center(t *testing.T) {
	rec := Record{FrameID: 2, Box: image.Rect(10, 20, 30, 60), OK: true}
	x, y := rec.Center()
	require.Equal(t, 20.0, x)
	require.Equal(t, 40.0, y)
}

func TestWriter_Create(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking_result.txt")

	w, err := Create(path)
	require.NoError(t, err)

	recs := []Record{
		{FrameID: 2, Box: image.Rect(10, 10, 30, 40), OK: true},
		{FrameID: 3},
		{FrameID: 4, Box: image.Rect(12, 11, 32, 41), OK: true},
	}
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.Equal(t, 3, w.Rows())
	require.Equal(t, path, w.Path())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "Frame_ID, X, Y, W, H\n" +
		"2, 10, 10, 20, 30\n" +
		"3, -1, -1, -1, -1\n" +
		"4, 12, 11, 20, 30\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("file contents mismatch (-want +got):\n%s", diff)
	}

	// Every data row has exactly five fields.
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	for _, line := range lines[1:] {
		require.Len(t, strings.Split(line, ","), 5, "row %q", line)
	}
}

func TestWriter_TruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	w, err := Create(path)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Write(Record{FrameID: FirstTrackedFrame + i}))
	}
	require.NoError(t, w.Close())

	w, err = Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(Record{FrameID: 2, Box: image.Rect(0, 0, 5, 5), OK: true}))
	require.NoError(t, w.Close())

	recs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestWriter_Create_Unwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.txt")

	_, err := Create(path)
	require.Error(t, err)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestParse(t *testing.T) {
	input := "Frame_ID, X, Y, W, H\n" +
		"2, 10, 10, 20, 30\n" +
		"\n" +
		"3, -1, -1, -1, -1\n"

	got, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	want := []Record{
		{FrameID: 2, Box: image.Rect(10, 10, 30, 40), OK: true},
		{FrameID: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "missing header", input: "2, 1, 2, 3, 4\n"},
		{name: "four fields", input: Header + "\n2, 1, 2, 3\n"},
		{name: "six fields", input: Header + "\n2, 1, 2, 3, 4, 5\n"},
		{name: "non-integer", input: Header + "\n2, a, 2, 3, 4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMalformed), "error = %v", err)
		})
	}
}
