package divergence

import (
	"math"

	"github.com/RyanBlaney/sonido-flux/logging"
)

// JensenShannon scores two non-negative vectors as probability histograms
// using the Jensen-Shannon divergence in natural log units
type JensenShannon struct {
	logger logging.Logger
}

// NewJensenShannon creates a Jensen-Shannon divergence policy
func NewJensenShannon() *JensenShannon {
	return &JensenShannon{
		logger: logging.WithFields(logging.Fields{
			"component": "jensen_shannon_divergence",
		}),
	}
}

// Compare normalizes each input to sum 1 and returns the Jensen-Shannon
// divergence between the two distributions. Inputs that cannot be read as
// histograms score 0.0: a vector with a negative element (logged, never
// fatal) or a vector with no positive mass.
func (js *JensenShannon) Compare(a, b []float64) float64 {
	mustMatch(a, b)

	aSum, aOK := histogramSum(a)
	if !aOK {
		js.logger.Warn("Negative value in histogram vector, returning zero divergence")
		return 0.0
	}
	bSum, bOK := histogramSum(b)
	if !bOK {
		js.logger.Warn("Negative value in histogram vector, returning zero divergence")
		return 0.0
	}
	if aSum == 0 || bSum == 0 {
		return 0.0
	}

	div := 0.0
	for i := range a {
		pa := a[i] / aSum
		pb := b[i] / bSum
		m := 0.5 * (pa + pb)
		if pa > 0 {
			div += pa * math.Log(pa/m)
		}
		if pb > 0 {
			div += pb * math.Log(pb/m)
		}
	}
	return 0.5 * div
}

// Name returns the policy identifier
func (js *JensenShannon) Name() string {
	return PolicyJensenShannon.String()
}

// histogramSum totals v, reporting false on the first negative element
func histogramSum(v []float64) (float64, bool) {
	sum := 0.0
	for _, x := range v {
		if x < 0 {
			return 0, false
		}
		sum += x
	}
	return sum, true
}
