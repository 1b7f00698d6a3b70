package frames

import (
	"errors"
	"fmt"
)

// Domain errors for frame discovery and loading.
var (
	// ErrNoFramesFound indicates the discovery pattern matched no files.
	ErrNoFramesFound = errors.New("frames: no frame files found")

	// ErrFrameShapeMismatch indicates a frame disagrees with the sequence shape.
	ErrFrameShapeMismatch = errors.New("frames: frame shape mismatch")

	// ErrMalformedFrame indicates a file is not a rectangular numeric table.
	ErrMalformedFrame = errors.New("frames: malformed frame")
)

// Shape is the row and column count of a grid.
type Shape struct {
	Rows, Cols int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// Square reports whether the shape is N×N.
func (s Shape) Square() bool { return s.Rows == s.Cols }

// FrameShapeMismatchError names the offending file and both shapes.
type FrameShapeMismatchError struct {
	Path     string
	Expected Shape
	Actual   Shape
}

func (e *FrameShapeMismatchError) Error() string {
	return fmt.Sprintf("frames: %s: expected %s grid, got %s", e.Path, e.Expected, e.Actual)
}

func (e *FrameShapeMismatchError) Unwrap() error {
	return ErrFrameShapeMismatch
}

// MalformedFrameError locates a parse failure. Line and Column are 1-based;
// zero means the position does not apply.
type MalformedFrameError struct {
	Path   string
	Line   int
	Column int
	Reason string
}

func (e *MalformedFrameError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("frames: %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("frames: %s:%d: %s", e.Path, e.Line, e.Reason)
	default:
		return fmt.Sprintf("frames: %s: %s", e.Path, e.Reason)
	}
}

func (e *MalformedFrameError) Unwrap() error {
	return ErrMalformedFrame
}
