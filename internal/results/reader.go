package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed is returned when a result file does not follow the row format.
var ErrMalformed = errors.New("malformed result file")

// Parse reads a result file. The first non-empty line must be the header and
// every following non-empty line must have exactly five integer fields.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)

	var (
		records    []Record
		lineNo     int
		seenHeader bool
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !seenHeader {
			if line != Header {
				return nil, fmt.Errorf("%w: line %d: expected header %q", ErrMalformed, lineNo, Header)
			}
			seenHeader = true
			continue
		}

		rec, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !seenHeader {
		return nil, fmt.Errorf("%w: missing header", ErrMalformed)
	}

	return records, nil
}

// ReadFile parses the result file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

func parseRow(line string) (Record, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 5 {
		return Record{}, fmt.Errorf("expected 5 fields, got %d", len(parts))
	}

	var vals [5]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Record{}, fmt.Errorf("field %d: %v", i+1, err)
		}
		vals[i] = v
	}

	return FromFields(vals[0], vals[1], vals[2], vals[3], vals[4]), nil
}
