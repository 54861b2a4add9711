package structchange_test

import (
	"fmt"

	"github.com/RyanBlaney/sonido-flux/algorithms/divergence"
	"github.com/RyanBlaney/sonido-flux/structchange"
)

// ExampleStructuralChange_Calculate runs the engine over a short step
// sequence at a single timescale. The interior frames score the Euclidean
// distance between their one-frame window means; the start-edge frame is
// filled with the negated timescale mean.
func ExampleStructuralChange_Calculate() {
	engine, err := structchange.New(1)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	input := []structchange.Feature{
		{Values: []float64{1}},
		{Values: []float64{1}},
		{Values: []float64{5}},
		{Values: []float64{5}},
	}

	output, err := engine.Calculate(input, divergence.NewEuclidean())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, frame := range output {
		fmt.Printf("%.3f\n", frame.Values[0])
	}
	// Output:
	// -1.333
	// 0.000
	// 4.000
	// 0.000
}

// ExampleSummarize reduces an engine output sequence to per-timescale stream
// statistics.
func ExampleSummarize() {
	engine, err := structchange.New(1)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	input := []structchange.Feature{
		{Values: []float64{1}},
		{Values: []float64{1}},
		{Values: []float64{5}},
		{Values: []float64{5}},
	}

	output, err := engine.Calculate(input, divergence.NewEuclidean())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	summary, err := structchange.Summarize(output)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	stats := summary.Timescales[0]
	fmt.Printf("mean=%.3f median=%.3f min=%.3f max=%.3f\n", stats.Mean, stats.Median, stats.Min, stats.Max)
	// Output:
	// mean=0.667 median=0.000 min=-1.333 max=4.000
}
