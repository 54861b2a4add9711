package structchange

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TimescaleStats summarizes one timescale's divergence values across a stream
type TimescaleStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary aggregates a structural change output sequence per timescale
type Summary struct {
	NumFrames  int              `json:"num_frames"`
	Timescales []TimescaleStats `json:"timescales"`
}

// Summarize reduces a structural change output sequence to per-timescale
// stream statistics. The edge substitution in Calculate exists so that these
// aggregates stay comparable across streams of different lengths. Empty
// input yields an empty summary.
func Summarize(frames []Feature) (*Summary, error) {
	if len(frames) == 0 {
		return &Summary{Timescales: []TimescaleStats{}}, nil
	}

	numTimescales := len(frames[0].Values)
	for i := range frames {
		if len(frames[i].Values) != numTimescales {
			return nil, fmt.Errorf("frame %d has %d timescales, want %d", i, len(frames[i].Values), numTimescales)
		}
	}

	summary := &Summary{
		NumFrames:  len(frames),
		Timescales: make([]TimescaleStats, numTimescales),
	}

	column := make([]float64, len(frames))
	sorted := make([]float64, len(frames))
	for t := range numTimescales {
		for i := range frames {
			column[i] = frames[i].Values[t]
		}
		copy(sorted, column)
		sort.Float64s(sorted)

		summary.Timescales[t] = TimescaleStats{
			Mean:   stat.Mean(column, nil),
			Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
		}
	}
	return summary, nil
}
