package engine

import (
	"errors"
	"fmt"
)

// All engine failures are deterministic validation failures on malformed or
// ambiguous geometric input; none are transient and none are retried.
// Callers match them with errors.Is.
var (
	// ErrInsufficientGeometry: a boundary yielded fewer than four distinct
	// in-plane points.
	ErrInsufficientGeometry = errors.New("insufficient boundary geometry")

	// ErrDegenerateRegion: an inspected rectangle has near-zero width or
	// height.
	ErrDegenerateRegion = errors.New("degenerate region")

	// ErrDegenerateSpan: a step vector could not be computed because two
	// edge midpoints coincide in the plane.
	ErrDegenerateSpan = errors.New("degenerate span")

	// ErrArgumentRange: a row or column count below 1.
	ErrArgumentRange = errors.New("argument out of range")

	// ErrEmptyInput: inference was given no regions.
	ErrEmptyInput = errors.New("empty input")

	// ErrDegenerateSpacing: no usable row or column spacing samples, or a
	// spacing estimate of zero.
	ErrDegenerateSpacing = errors.New("degenerate spacing")

	// ErrNonRectangularSelection: the regions do not form a dense
	// rows x cols rectangle.
	ErrNonRectangularSelection = errors.New("non-rectangular selection")

	// ErrParallelIntersection: a guide line is parallel to the boundary
	// edge it must clip against.
	ErrParallelIntersection = errors.New("parallel intersection")

	// ErrSeamMiss: a guide line crosses the supporting line of a boundary
	// edge outside the edge itself.
	ErrSeamMiss = errors.New("seam misses boundary edge")
)

// NonRectangularError reports the grid shape inference detected against the
// number of regions actually selected. It unwraps to
// ErrNonRectangularSelection.
type NonRectangularError struct {
	Rows, Cols int
	Actual     int
}

func (e *NonRectangularError) Error() string {
	return fmt.Sprintf("non-rectangular selection: detected %dx%d grid (%d cells) but got %d regions",
		e.Rows, e.Cols, e.Rows*e.Cols, e.Actual)
}

func (e *NonRectangularError) Unwrap() error { return ErrNonRectangularSelection }
