package cumulative

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Matrix is a running-sum acceleration structure over a feature frame
// sequence. It holds numFrames+1 rows of numDims values; row 0 is all zeros
// and row k is the elementwise sum of frames [0, k). For any j <= k,
// row k minus row j equals the elementwise sum of frames [j, k), which turns
// every window mean into two lookups, a subtraction and a division.
type Matrix struct {
	rows      [][]float64
	numFrames int
	numDims   int
}

// New builds the cumulative matrix in a single forward pass. All frames must
// share the same dimensionality; a mismatch is reported before any window
// math can read out of bounds.
func New(frames [][]float64) (*Matrix, error) {
	numFrames := len(frames)

	numDims := 0
	if numFrames > 0 {
		numDims = len(frames[0])
	}

	rows := make([][]float64, numFrames+1)
	rows[0] = make([]float64, numDims)

	for i, frame := range frames {
		if len(frame) != numDims {
			return nil, fmt.Errorf("frame %d has %d dimensions, want %d", i, len(frame), numDims)
		}

		row := make([]float64, numDims)
		floats.AddTo(row, rows[i], frame)
		rows[i+1] = row
	}

	return &Matrix{
		rows:      rows,
		numFrames: numFrames,
		numDims:   numDims,
	}, nil
}

// NumFrames returns the number of frames the matrix was built from
func (m *Matrix) NumFrames() int {
	return m.numFrames
}

// NumDims returns the feature dimensionality
func (m *Matrix) NumDims() int {
	return m.numDims
}

// Row returns cumulative row k: the elementwise sum of frames [0, k).
// The returned slice is shared, not copied; callers must treat it as
// read-only.
func (m *Matrix) Row(k int) []float64 {
	return m.rows[k]
}

// WindowSum writes the elementwise sum of frames [start, end) into dst
func (m *Matrix) WindowSum(start, end int, dst []float64) {
	floats.SubTo(dst, m.rows[end], m.rows[start])
}

// WindowMean writes the elementwise mean of frames [start, end) into dst.
// An empty window yields all zeros.
func (m *Matrix) WindowMean(start, end int, dst []float64) {
	if end <= start {
		for i := range dst {
			dst[i] = 0
		}
		return
	}

	m.WindowSum(start, end, dst)
	floats.Scale(1/float64(end-start), dst)
}
