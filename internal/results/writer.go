package results

import (
	"bufio"
	"fmt"
	"os"
)

// Writer appends records to a result file.
type Writer struct {
	file *os.File
	buf  *bufio.Writer
	path string
	rows int
}

// Create truncates or creates the file at path and writes the header.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create result file: %w", err)
	}

	w := &Writer{
		file: f,
		buf:  bufio.NewWriter(f),
		path: path,
	}

	if _, err := fmt.Fprintln(w.buf, Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return w, nil
}

// Write appends one row.
func (w *Writer) Write(r Record) error {
	if _, err := fmt.Fprintln(w.buf, r.String()); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", r.FrameID, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Path returns the file path.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes buffered rows and closes the file.
func (w *Writer) Close() error {
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush result file: %w", flushErr)
	}
	return closeErr
}
