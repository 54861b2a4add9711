package divergence

import (
	"fmt"
)

// Policy compares two equal-length feature vectors and returns a single
// divergence score. Implementations never mutate their inputs and are safe
// to call concurrently from independent goroutines; any auxiliary state
// (such as an inverse covariance matrix) is read-only after construction.
//
// Compare requires len(a) == len(b) and panics otherwise, matching the
// convention of gonum's vector operations.
type Policy interface {
	Compare(a, b []float64) float64
	Name() string
}

// PolicyType identifies one of the built-in divergence policies
type PolicyType int

const (
	PolicyEuclidean PolicyType = iota
	PolicyCorrelation
	PolicyJensenShannon
	PolicyMahalanobis
)

func (pt PolicyType) String() string {
	switch pt {
	case PolicyEuclidean:
		return "euclidean"
	case PolicyCorrelation:
		return "correlation"
	case PolicyJensenShannon:
		return "jensen_shannon"
	case PolicyMahalanobis:
		return "mahalanobis"
	default:
		return "unknown"
	}
}

// ParsePolicyType maps a configuration name to a PolicyType
func ParsePolicyType(name string) (PolicyType, error) {
	switch name {
	case "euclidean":
		return PolicyEuclidean, nil
	case "correlation":
		return PolicyCorrelation, nil
	case "jensen_shannon", "js":
		return PolicyJensenShannon, nil
	case "mahalanobis":
		return PolicyMahalanobis, nil
	default:
		return 0, fmt.Errorf("unknown divergence policy %q", name)
	}
}

// NewPolicy returns the built-in policy for the given type. PolicyMahalanobis
// cannot be built here because it needs an inverse covariance matrix; use
// NewMahalanobis or NewMahalanobisFromSamples instead.
func NewPolicy(pt PolicyType) (Policy, error) {
	switch pt {
	case PolicyEuclidean:
		return NewEuclidean(), nil
	case PolicyCorrelation:
		return NewCorrelation(), nil
	case PolicyJensenShannon:
		return NewJensenShannon(), nil
	case PolicyMahalanobis:
		return nil, fmt.Errorf("mahalanobis policy requires an inverse covariance matrix, use NewMahalanobis")
	default:
		return nil, fmt.Errorf("unknown divergence policy type %d", pt)
	}
}

// mustMatch panics when the two vectors differ in length
func mustMatch(a, b []float64) {
	if len(a) != len(b) {
		panic("divergence: vector lengths do not match")
	}
}
