package analyzers

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-flux/logging"
	"github.com/RyanBlaney/sonido-flux/structchange"
	"github.com/mjibson/go-dsp/fft"
)

// SpectralFramesConfig controls PCM to feature frame conversion
type SpectralFramesConfig struct {
	SampleRate int     `json:"sample_rate"` // Samples per second
	WindowSize int     `json:"window_size"` // FFT window size in samples
	HopSize    int     `json:"hop_size"`    // Samples between frame starts
	Bands      int     `json:"bands"`       // Number of log-spaced energy bands
	MinFreq    float64 `json:"min_freq"`    // Lower band edge (Hz)
	MaxFreq    float64 `json:"max_freq"`    // Upper band edge (Hz)
}

// DefaultSpectralFramesConfig returns settings for 44.1 kHz audio
func DefaultSpectralFramesConfig() *SpectralFramesConfig {
	return &SpectralFramesConfig{
		SampleRate: 44100,
		WindowSize: 2048,
		HopSize:    1024,
		Bands:      24,
		MinFreq:    60.0,
		MaxFreq:    8000.0,
	}
}

// SpectralFrames converts mono PCM into timestamped band-energy feature
// frames: Hann-windowed FFT per hop, power folded into log-spaced bands.
// The resulting frames are non-negative, which makes them valid input for
// every divergence policy including Jensen-Shannon.
type SpectralFrames struct {
	cfg     *SpectralFramesConfig
	window  []float64
	binBand []int // FFT bin index -> band index, -1 outside [MinFreq, MaxFreq]
	logger  logging.Logger
}

// NewSpectralFrames creates a frame producer from a config; nil means
// DefaultSpectralFramesConfig()
func NewSpectralFrames(cfg *SpectralFramesConfig) (*SpectralFrames, error) {
	if cfg == nil {
		cfg = DefaultSpectralFramesConfig()
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.WindowSize < 2 {
		return nil, fmt.Errorf("window size must be at least 2, got %d", cfg.WindowSize)
	}
	if cfg.HopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive, got %d", cfg.HopSize)
	}
	if cfg.Bands <= 0 {
		return nil, fmt.Errorf("band count must be positive, got %d", cfg.Bands)
	}
	nyquist := float64(cfg.SampleRate) / 2
	if cfg.MinFreq <= 0 || cfg.MaxFreq <= cfg.MinFreq {
		return nil, fmt.Errorf("need 0 < min freq < max freq, got [%g, %g]", cfg.MinFreq, cfg.MaxFreq)
	}
	if cfg.MaxFreq > nyquist {
		return nil, fmt.Errorf("max frequency %g Hz exceeds Nyquist %g Hz", cfg.MaxFreq, nyquist)
	}

	// Symmetric Hann window
	window := make([]float64, cfg.WindowSize)
	denominator := float64(cfg.WindowSize - 1)
	for i := range cfg.WindowSize {
		window[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}

	// Log-spaced band edges and the bin -> band mapping
	edges := make([]float64, cfg.Bands+1)
	ratio := cfg.MaxFreq / cfg.MinFreq
	for k := range edges {
		edges[k] = cfg.MinFreq * math.Pow(ratio, float64(k)/float64(cfg.Bands))
	}

	freqBins := cfg.WindowSize/2 + 1
	binBand := make([]int, freqBins)
	for i := range freqBins {
		freq := float64(i) * float64(cfg.SampleRate) / float64(cfg.WindowSize)
		binBand[i] = -1
		if freq < cfg.MinFreq || freq > cfg.MaxFreq {
			continue
		}
		for k := range cfg.Bands {
			if freq >= edges[k] && (freq < edges[k+1] || k == cfg.Bands-1) {
				binBand[i] = k
				break
			}
		}
	}

	return &SpectralFrames{
		cfg:     cfg,
		window:  window,
		binBand: binBand,
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_frames",
			"sample_rate": cfg.SampleRate,
		}),
	}, nil
}

// NumBands returns the dimensionality of produced frames
func (sf *SpectralFrames) NumBands() int {
	return sf.cfg.Bands
}

// Frames converts a mono PCM signal into one timestamped feature frame per
// hop, each holding the spectral power in the configured bands. Frames are
// stamped with their start offset in the signal.
func (sf *SpectralFrames) Frames(pcm []float64) ([]structchange.Feature, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	numFrames := (len(pcm)-sf.cfg.WindowSize)/sf.cfg.HopSize + 1
	if numFrames <= 0 {
		return nil, fmt.Errorf("signal too short for given window size and hop size")
	}

	logger := sf.logger.WithFields(logging.Fields{
		"function":      "Frames",
		"signal_length": len(pcm),
		"num_frames":    numFrames,
	})
	logger.Debug("Computing band-energy frames")

	features := make([]structchange.Feature, numFrames)
	for i := range numFrames {
		startIdx := i * sf.cfg.HopSize
		features[i] = structchange.NewTimestampedFeature(
			make([]float64, sf.cfg.Bands),
			time.Duration(startIdx)*time.Second/time.Duration(sf.cfg.SampleRate),
		)
	}

	numWorkers := sf.getOptimalWorkerCount(numFrames)

	type frameJob struct {
		frameIdx int
		startIdx int
		endIdx   int
	}

	jobs := make(chan frameJob, numFrames)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, sf.cfg.WindowSize)

			for job := range jobs {
				if job.endIdx > len(pcm) {
					continue
				}

				copy(frameBuffer, pcm[job.startIdx:job.endIdx])
				for i := range frameBuffer {
					frameBuffer[i] *= sf.window[i]
				}

				fftResult := fft.FFTReal(frameBuffer)

				bands := features[job.frameIdx].Values
				for i, band := range sf.binBand {
					if band < 0 {
						continue
					}
					mag := cmplx.Abs(fftResult[i])
					bands[band] += mag * mag
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for frameIdx := range numFrames {
			startIdx := frameIdx * sf.cfg.HopSize
			endIdx := startIdx + sf.cfg.WindowSize

			if endIdx <= len(pcm) {
				jobs <- frameJob{
					frameIdx: frameIdx,
					startIdx: startIdx,
					endIdx:   endIdx,
				}
			}
		}
	}()

	wg.Wait()

	logger.Debug("Band-energy frames completed", logging.Fields{
		"bands":        sf.cfg.Bands,
		"workers_used": numWorkers,
	})

	return features, nil
}

// getOptimalWorkerCount determines the number of workers based on workload
func (sf *SpectralFrames) getOptimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
