package divergence

import (
	"math"
)

// Euclidean scores two vectors by their straight-line distance
type Euclidean struct{}

// NewEuclidean creates a Euclidean divergence policy
func NewEuclidean() *Euclidean {
	return &Euclidean{}
}

// Compare returns sqrt(sum((a[i]-b[i])^2))
func (e *Euclidean) Compare(a, b []float64) float64 {
	mustMatch(a, b)

	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// Name returns the policy identifier
func (e *Euclidean) Name() string {
	return PolicyEuclidean.String()
}
