// Package tracker maps algorithm names to the single-object trackers provided by OpenCV.
package tracker

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// Algorithm identifies one of the OpenCV single-object tracking algorithms.
type Algorithm int

// Supported algorithms, in selection-index order.
const (
	Boosting Algorithm = iota
	MIL
	KCF
	TLD
	MedianFlow
	MOSSE
	CSRT
)

// DefaultAlgorithm is used when an index selection is out of range.
const DefaultAlgorithm = KCF

var (
	// ErrUnsupported is returned when a name does not match any known algorithm.
	ErrUnsupported = errors.New("unsupported tracker algorithm")
	// ErrUnavailable is returned when the installed OpenCV build lacks the algorithm.
	ErrUnavailable = errors.New("tracker algorithm not available in installed OpenCV build")
)

var algorithmNames = [...]string{
	Boosting:   "BOOSTING",
	MIL:        "MIL",
	KCF:        "KCF",
	TLD:        "TLD",
	MedianFlow: "MEDIANFLOW",
	MOSSE:      "MOSSE",
	CSRT:       "CSRT",
}

// All returns every known algorithm in index order.
func All() []Algorithm {
	return []Algorithm{Boosting, MIL, KCF, TLD, MedianFlow, MOSSE, CSRT}
}

// String returns the upper-case algorithm name.
func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// Valid reports whether a is one of the enumerated algorithms.
func (a Algorithm) Valid() bool {
	return a >= 0 && int(a) < len(algorithmNames)
}

// Parse matches name case-insensitively against the enumerated algorithm names.
func Parse(name string) (Algorithm, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range algorithmNames {
		if n == upper {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupported, name)
}

// Select resolves value against the allowed set.
//
// A value made only of digits is an index into allowed. An out-of-range
// index falls back to DefaultAlgorithm with a warning. Any other value is
// parsed as a name and must be a member of allowed.
func Select(value string, allowed []Algorithm) (Algorithm, error) {
	value = strings.TrimSpace(value)

	if isDigits(value) {
		idx, err := strconv.Atoi(value)
		if err != nil || idx < 0 || idx >= len(allowed) {
			log.Printf("Algorithm index %s out of range, using %s", value, DefaultAlgorithm)
			return DefaultAlgorithm, nil
		}
		return allowed[idx], nil
	}

	alg, err := Parse(value)
	if err != nil {
		return 0, err
	}

	for _, a := range allowed {
		if a == alg {
			return alg, nil
		}
	}
	return 0, fmt.Errorf("%w: %s is not offered by this profile", ErrUnsupported, alg)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
