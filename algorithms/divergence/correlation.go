package divergence

import (
	"gonum.org/v1/gonum/stat"
)

// Correlation scores two vectors by inverted Pearson correlation, mapping
// r = +1 to 0.0 (identical shape) and r = -1 to 1.0 (opposite shape)
type Correlation struct{}

// NewCorrelation creates a correlation divergence policy
func NewCorrelation() *Correlation {
	return &Correlation{}
}

// Compare returns 0.5 - 0.5*r where r is the Pearson correlation of a and b.
// A constant vector has no defined correlation, so if either input never
// changes value the score is 0.0.
func (c *Correlation) Compare(a, b []float64) float64 {
	mustMatch(a, b)

	if isConstant(a) || isConstant(b) {
		return 0.0
	}
	r := stat.Correlation(a, b, nil)
	return 0.5 - 0.5*r
}

// Name returns the policy identifier
func (c *Correlation) Name() string {
	return PolicyCorrelation.String()
}

// isConstant reports whether no adjacent pair of elements differs
func isConstant(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] != v[i-1] {
			return false
		}
	}
	return true
}
