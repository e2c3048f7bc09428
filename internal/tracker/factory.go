package tracker

import (
	"fmt"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// constructors holds one constructor per algorithm the installed gocv build binds.
// Boosting, TLD, MedianFlow and MOSSE only exist in OpenCV's legacy module.
var constructors = map[Algorithm]func() gocv.Tracker{
	MIL:  gocv.NewTrackerMIL,
	KCF:  contrib.NewTrackerKCF,
	CSRT: contrib.NewTrackerCSRT,
}

// Available reports whether alg can be constructed with the installed library.
func Available(alg Algorithm) bool {
	_, ok := constructors[alg]
	return ok
}

// New creates a tracker for alg. The caller must Close the returned tracker.
func New(alg Algorithm) (gocv.Tracker, error) {
	if !alg.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, alg)
	}

	ctor, ok := constructors[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s (requires the OpenCV legacy tracking module)", ErrUnavailable, alg)
	}

	return ctor(), nil
}
