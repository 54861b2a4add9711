package divergence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Mahalanobis scores two vectors by their distance under a fixed inverse
// covariance matrix, so that directions of high variance count for less
type Mahalanobis struct {
	invCov *mat.Dense
	dims   int
}

// NewMahalanobis creates a Mahalanobis divergence policy from an inverse
// covariance matrix, which must be square
func NewMahalanobis(invCov mat.Matrix) (*Mahalanobis, error) {
	r, c := invCov.Dims()
	if r != c {
		return nil, fmt.Errorf("inverse covariance matrix must be square, got %dx%d", r, c)
	}
	return &Mahalanobis{
		invCov: mat.DenseCopyOf(invCov),
		dims:   r,
	}, nil
}

// NewMahalanobisFromSamples estimates a covariance matrix from sample frames
// and inverts it. Shrinkage in [0, 1] scales the off-diagonal entries toward
// zero before inversion, which stabilizes estimates from few samples; 0 keeps
// the raw covariance and 1 keeps only the per-dimension variances.
func NewMahalanobisFromSamples(frames [][]float64, shrinkage float64) (*Mahalanobis, error) {
	if len(frames) < 2 {
		return nil, fmt.Errorf("need at least 2 sample frames to estimate covariance, got %d", len(frames))
	}
	if shrinkage < 0 || shrinkage > 1 {
		return nil, fmt.Errorf("shrinkage must be in [0, 1], got %g", shrinkage)
	}
	dims := len(frames[0])
	if dims == 0 {
		return nil, fmt.Errorf("sample frames must have at least one dimension")
	}

	samples := mat.NewDense(len(frames), dims, nil)
	for i, frame := range frames {
		if len(frame) != dims {
			return nil, fmt.Errorf("sample frame %d has %d dimensions, want %d", i, len(frame), dims)
		}
		samples.SetRow(i, frame)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, samples, nil)
	if shrinkage > 0 {
		for i := range dims {
			for j := i + 1; j < dims; j++ {
				cov.SetSym(i, j, (1-shrinkage)*cov.At(i, j))
			}
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(&cov); err != nil {
		return nil, fmt.Errorf("failed to invert covariance matrix: %w", err)
	}
	return &Mahalanobis{
		invCov: &inv,
		dims:   dims,
	}, nil
}

// Compare returns sqrt((a-b)^T * invCov * (a-b)). Vectors longer than the
// matrix are truncated to its dimension rather than rejected.
func (m *Mahalanobis) Compare(a, b []float64) float64 {
	mustMatch(a, b)

	n := min(len(a), m.dims)
	if n == 0 {
		return 0.0
	}
	diff := mat.NewVecDense(n, nil)
	for i := range n {
		diff.SetVec(i, a[i]-b[i])
	}

	var sub mat.Matrix = m.invCov
	if n < m.dims {
		sub = m.invCov.Slice(0, n, 0, n)
	}
	return math.Sqrt(mat.Inner(diff, sub, diff))
}

// Name returns the policy identifier
func (m *Mahalanobis) Name() string {
	return PolicyMahalanobis.String()
}

// Dims returns the dimensionality of the inverse covariance matrix
func (m *Mahalanobis) Dims() int {
	return m.dims
}
