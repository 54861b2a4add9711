package timescale

import (
	"fmt"
)

// Status classifies a frame's comparison windows at one timescale
type Status int

const (
	// Both windows reach the full half-width
	StatusNormal Status = iota

	// Left window too short (frame near the start of the sequence)
	StatusLeftTruncated

	// Right window too short (frame near the end of the sequence)
	StatusRightTruncated

	// Neither window reaches the half-width (sequence shorter than 2*halfWidth)
	StatusBothTruncated
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusLeftTruncated:
		return "left_truncated"
	case StatusRightTruncated:
		return "right_truncated"
	case StatusBothTruncated:
		return "both_truncated"
	default:
		return "unknown"
	}
}

// Boundary holds the comparison window index ranges for one frame at one
// timescale. The left window covers frames [LeftStart, LeftEnd), the right
// window [RightStart, RightEnd); LeftEnd == RightStart == the frame index,
// so the windows are adjacent and non-overlapping.
type Boundary struct {
	LeftStart  int    `json:"left_start"`
	LeftEnd    int    `json:"left_end"`
	RightStart int    `json:"right_start"`
	RightEnd   int    `json:"right_end"`
	Status     Status `json:"status"`
}

// LeftSize returns the number of frames in the left window
func (b Boundary) LeftSize() int {
	return b.LeftEnd - b.LeftStart
}

// RightSize returns the number of frames in the right window
func (b Boundary) RightSize() int {
	return b.RightEnd - b.RightStart
}

// HalfWidth returns the window half-width for a timescale index: 2^t frames.
// The smallest window is always one frame.
func HalfWidth(t int) int {
	return 1 << t
}

// ComputeBoundaries computes the window boundaries for every frame of a
// sequence at a single timescale. The result depends only on the half-width
// and the frame count, never on feature content.
func ComputeBoundaries(halfWidth, numFrames int) []Boundary {
	boundaries := make([]Boundary, numFrames)

	for i := range numFrames {
		ll := i - halfWidth
		if ll < 0 {
			ll = 0
		}

		rr := i + halfWidth
		if rr > numFrames {
			rr = numFrames
		}

		b := Boundary{
			LeftStart:  ll,
			LeftEnd:    i,
			RightStart: i,
			RightEnd:   rr,
		}

		switch {
		case rr-ll == 2*halfWidth:
			b.Status = StatusNormal
		case rr-i == halfWidth:
			b.Status = StatusLeftTruncated
		case i-ll == halfWidth:
			b.Status = StatusRightTruncated
		default:
			b.Status = StatusBothTruncated
		}

		boundaries[i] = b
	}

	return boundaries
}

// Table holds precomputed window boundaries for every (timescale, frame)
// pair of one analysis run. Rows are independent of the feature data, so a
// table can be shared across concurrent readers.
type Table struct {
	numTimescales int
	numFrames     int
	rows          [][]Boundary
}

// NewTable precomputes boundaries for all timescales of a run
func NewTable(numTimescales, numFrames int) (*Table, error) {
	if numTimescales < 0 {
		return nil, fmt.Errorf("timescale count must be non-negative, got %d", numTimescales)
	}

	if numFrames < 0 {
		return nil, fmt.Errorf("frame count must be non-negative, got %d", numFrames)
	}

	rows := make([][]Boundary, numTimescales)
	for t := range numTimescales {
		rows[t] = ComputeBoundaries(HalfWidth(t), numFrames)
	}

	return &Table{
		numTimescales: numTimescales,
		numFrames:     numFrames,
		rows:          rows,
	}, nil
}

// NumTimescales returns the number of timescale rows in the table
func (tb *Table) NumTimescales() int {
	return tb.numTimescales
}

// NumFrames returns the number of frames each row covers
func (tb *Table) NumFrames() int {
	return tb.numFrames
}

// Row returns all boundaries for one timescale
func (tb *Table) Row(t int) []Boundary {
	return tb.rows[t]
}

// At returns the boundary for one (timescale, frame) pair
func (tb *Table) At(t, frame int) Boundary {
	return tb.rows[t][frame]
}
