package structchange

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-flux/algorithms/cumulative"
	"github.com/RyanBlaney/sonido-flux/algorithms/divergence"
	"github.com/RyanBlaney/sonido-flux/algorithms/timescale"
	"github.com/RyanBlaney/sonido-flux/logging"
)

// Config controls structural change computation
type Config struct {
	// NumTimescales is the number of dyadic timescales, giving window
	// half-widths 2^0 .. 2^(NumTimescales-1) frames
	NumTimescales int `json:"num_timescales"`
	// MaxWorkers caps the goroutines used across timescales; 0 scales with
	// the CPU count and 1 forces sequential computation
	MaxWorkers int `json:"max_workers"`
	// Policy names the default divergence policy used when a call passes nil
	Policy string `json:"policy"`
}

// DefaultConfig returns a config with six dyadic timescales, CPU-scaled
// workers, and Jensen-Shannon divergence
func DefaultConfig() *Config {
	return &Config{
		NumTimescales: 6,
		MaxWorkers:    0,
		Policy:        divergence.PolicyJensenShannon.String(),
	}
}

// StructuralChange computes, for every frame of a feature sequence, the
// divergence between the mean feature vectors of the windows before and after
// that frame, once per dyadic timescale. Output frames therefore have one
// value per timescale. Frames too close to an edge for a full window pair are
// filled from the timescale's mean divergence so that downstream summary
// statistics stay comparable across the stream.
type StructuralChange struct {
	numTimescales int
	maxWorkers    int
	defaultPolicy divergence.Policy
	logger        logging.Logger
}

// New creates an engine with the given number of dyadic timescales and
// default settings for everything else
func New(numTimescales int) (*StructuralChange, error) {
	cfg := DefaultConfig()
	cfg.NumTimescales = numTimescales
	return NewWithConfig(cfg)
}

// NewWithConfig creates an engine from a config; nil means DefaultConfig()
func NewWithConfig(cfg *Config) (*StructuralChange, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.NumTimescales < 0 {
		return nil, fmt.Errorf("number of timescales must be non-negative, got %d", cfg.NumTimescales)
	}
	if cfg.MaxWorkers < 0 {
		return nil, fmt.Errorf("max workers must be non-negative, got %d", cfg.MaxWorkers)
	}

	var defaultPolicy divergence.Policy
	if cfg.Policy != "" {
		pt, err := divergence.ParsePolicyType(cfg.Policy)
		if err != nil {
			return nil, err
		}
		defaultPolicy, err = divergence.NewPolicy(pt)
		if err != nil {
			return nil, err
		}
	} else {
		defaultPolicy = divergence.NewJensenShannon()
	}

	return &StructuralChange{
		numTimescales: cfg.NumTimescales,
		maxWorkers:    cfg.MaxWorkers,
		defaultPolicy: defaultPolicy,
		logger: logging.WithFields(logging.Fields{
			"component": "structural_change",
		}),
	}, nil
}

// NumTimescales returns the number of output dimensions per frame
func (s *StructuralChange) NumTimescales() int {
	return s.numTimescales
}

// Calculate computes structural change over a feature sequence. The output
// has one frame per input frame, each holding one divergence value per
// timescale and carrying over the input frame's timestamp. A nil policy uses
// the engine's configured default.
func (s *StructuralChange) Calculate(input []Feature, policy divergence.Policy) ([]Feature, error) {
	if len(input) == 0 {
		return []Feature{}, nil
	}

	frames := make([][]float64, len(input))
	for i := range input {
		frames[i] = input[i].Values
	}

	rows, err := s.run(frames, policy)
	if err != nil {
		return nil, err
	}

	output := make([]Feature, len(input))
	for i := range output {
		output[i].Values = rows[i]
		output[i].Timestamp = input[i].Timestamp
		output[i].HasTimestamp = input[i].HasTimestamp
	}
	return output, nil
}

// CalculateFrames computes structural change over host-defined frames. Each
// output frame comes from newOutput, receives that position's divergence
// values, and adopts metadata from the input frame at the same position. A
// nil policy uses the engine's configured default.
func (s *StructuralChange) CalculateFrames(input []Frame, newOutput func() OutputFrame, policy divergence.Policy) ([]OutputFrame, error) {
	if newOutput == nil {
		return nil, fmt.Errorf("output frame factory must not be nil")
	}
	if len(input) == 0 {
		return []OutputFrame{}, nil
	}

	frames := make([][]float64, len(input))
	for i, in := range input {
		if in == nil {
			return nil, fmt.Errorf("input frame %d is nil", i)
		}
		frames[i] = in.FrameValues()
	}

	rows, err := s.run(frames, policy)
	if err != nil {
		return nil, err
	}

	output := make([]OutputFrame, len(input))
	for i := range output {
		out := newOutput()
		out.SetFrameValues(rows[i])
		out.AdoptMetadata(input[i])
		output[i] = out
	}
	return output, nil
}

// run computes the divergence rows for non-empty input
func (s *StructuralChange) run(frames [][]float64, policy divergence.Policy) ([][]float64, error) {
	if policy == nil {
		policy = s.defaultPolicy
	}

	cum, err := cumulative.New(frames)
	if err != nil {
		return nil, fmt.Errorf("invalid input frames: %w", err)
	}
	table, err := timescale.NewTable(s.numTimescales, cum.NumFrames())
	if err != nil {
		return nil, err
	}

	out := make([][]float64, cum.NumFrames())
	for i := range out {
		out[i] = make([]float64, s.numTimescales)
	}

	numWorkers := s.workerCount()
	s.logger.Debug("Computing structural change", logging.Fields{
		"num_frames":     cum.NumFrames(),
		"num_dims":       cum.NumDims(),
		"num_timescales": s.numTimescales,
		"policy":         policy.Name(),
		"workers":        numWorkers,
	})

	if numWorkers <= 1 {
		for t := range s.numTimescales {
			s.computeTimescale(t, table.Row(t), cum, policy, out)
		}
		return out, nil
	}

	// Each worker owns whole timescales; different timescales write disjoint
	// columns of the output rows.
	jobs := make(chan int, s.numTimescales)
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				s.computeTimescale(t, table.Row(t), cum, policy, out)
			}
		}()
	}
	for t := range s.numTimescales {
		jobs <- t
	}
	close(jobs)
	wg.Wait()

	return out, nil
}

// computeTimescale fills column t of the output rows: divergence of the
// window means for every full-window frame, then edge substitution driven by
// the boundary status. Start-edge frames get the negated timescale mean,
// end-edge frames three times the mean, and frames truncated on both sides
// stay at zero.
func (s *StructuralChange) computeTimescale(t int, boundaries []timescale.Boundary, cum *cumulative.Matrix, policy divergence.Policy, out [][]float64) {
	meanL := make([]float64, cum.NumDims())
	meanR := make([]float64, cum.NumDims())

	meanDiv := 0.0
	numNormal := 0
	for i := range boundaries {
		b := &boundaries[i]
		if b.Status != timescale.StatusNormal {
			continue
		}
		cum.WindowMean(b.LeftStart, b.LeftEnd, meanL)
		cum.WindowMean(b.RightStart, b.RightEnd, meanR)
		div := policy.Compare(meanL, meanR)
		out[i][t] = div
		meanDiv += div
		numNormal++
	}
	if numNormal > 0 {
		meanDiv /= float64(numNormal)
	}

	for i := range boundaries {
		switch boundaries[i].Status {
		case timescale.StatusLeftTruncated:
			out[i][t] = -meanDiv
		case timescale.StatusRightTruncated:
			out[i][t] = 3 * meanDiv
		case timescale.StatusBothTruncated:
			out[i][t] = 0.0
		}
	}
}

// workerCount resolves the goroutine count for one computation
func (s *StructuralChange) workerCount() int {
	if s.numTimescales <= 1 || s.maxWorkers == 1 {
		return 1
	}
	numWorkers := runtime.NumCPU()
	if s.maxWorkers > 0 && s.maxWorkers < numWorkers {
		numWorkers = s.maxWorkers
	}
	return min(numWorkers, s.numTimescales)
}
