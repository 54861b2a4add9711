package analyzers_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/RyanBlaney/sonido-flux/structchange"
	"github.com/RyanBlaney/sonido-flux/structchange/analyzers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sine generates numSamples of a pure tone at freq Hz.
func sine(freq float64, sampleRate, numSamples int) []float64 {
	pcm := make([]float64, numSamples)
	for i := range pcm {
		pcm[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return pcm
}

// dominantBand returns the band with the most total energy across frames.
func dominantBand(frames []structchange.Feature) int {
	totals := make([]float64, len(frames[0].Values))
	for _, f := range frames {
		for b, v := range f.Values {
			totals[b] += v
		}
	}
	best := 0
	for b, v := range totals {
		if v > totals[best] {
			best = b
		}
	}
	return best
}

// TestNewSpectralFrames_Validation verifies the config error paths.
func TestNewSpectralFrames_Validation(t *testing.T) {
	bad := []*analyzers.SpectralFramesConfig{
		{SampleRate: 0, WindowSize: 1024, HopSize: 512, Bands: 12, MinFreq: 60, MaxFreq: 8000},
		{SampleRate: 44100, WindowSize: 1, HopSize: 512, Bands: 12, MinFreq: 60, MaxFreq: 8000},
		{SampleRate: 44100, WindowSize: 1024, HopSize: 0, Bands: 12, MinFreq: 60, MaxFreq: 8000},
		{SampleRate: 44100, WindowSize: 1024, HopSize: 512, Bands: 0, MinFreq: 60, MaxFreq: 8000},
		{SampleRate: 44100, WindowSize: 1024, HopSize: 512, Bands: 12, MinFreq: 0, MaxFreq: 8000},
		{SampleRate: 44100, WindowSize: 1024, HopSize: 512, Bands: 12, MinFreq: 500, MaxFreq: 100},
		{SampleRate: 8000, WindowSize: 1024, HopSize: 512, Bands: 12, MinFreq: 60, MaxFreq: 6000},
	}
	for i, cfg := range bad {
		_, err := analyzers.NewSpectralFrames(cfg)
		assert.Error(t, err, "config %d must be rejected", i)
	}
}

// TestNewSpectralFrames_Defaults verifies the nil-config fallback.
func TestNewSpectralFrames_Defaults(t *testing.T) {
	sf, err := analyzers.NewSpectralFrames(nil)
	require.NoError(t, err)
	assert.Equal(t, analyzers.DefaultSpectralFramesConfig().Bands, sf.NumBands())
}

// TestSpectralFrames_FrameCountAndShape verifies the hop arithmetic, the
// frame dimensionality, non-negative band energies, and monotonic
// timestamps.
func TestSpectralFrames_FrameCountAndShape(t *testing.T) {
	cfg := &analyzers.SpectralFramesConfig{
		SampleRate: 44100,
		WindowSize: 1024,
		HopSize:    512,
		Bands:      16,
		MinFreq:    60,
		MaxFreq:    8000,
	}
	sf, err := analyzers.NewSpectralFrames(cfg)
	require.NoError(t, err)

	frames, err := sf.Frames(sine(440, 44100, 8192))
	require.NoError(t, err)
	require.Len(t, frames, 15, "(8192-1024)/512 + 1 frames")

	prev := time.Duration(-1)
	for i, f := range frames {
		assert.Len(t, f.Values, 16, "frame %d dimensionality", i)
		for b, v := range f.Values {
			assert.GreaterOrEqual(t, v, 0.0, "band %d of frame %d is an energy", b, i)
		}
		assert.True(t, f.HasTimestamp, "frame %d must be stamped", i)
		assert.Greater(t, f.Timestamp, prev, "timestamps must increase")
		prev = f.Timestamp
	}
	assert.Zero(t, frames[0].Timestamp, "first frame starts at the stream origin")
}

// TestSpectralFrames_ToneOrdering verifies that a higher tone concentrates
// its energy in a higher band.
func TestSpectralFrames_ToneOrdering(t *testing.T) {
	sf, err := analyzers.NewSpectralFrames(nil)
	require.NoError(t, err)

	low, err := sf.Frames(sine(200, 44100, 16384))
	require.NoError(t, err)
	high, err := sf.Frames(sine(4000, 44100, 16384))
	require.NoError(t, err)

	assert.Greater(t, dominantBand(high), dominantBand(low),
		"4 kHz tone must land in a higher band than 200 Hz")
}

// TestSpectralFrames_SignalTooShort verifies the error paths for unusable
// signals.
func TestSpectralFrames_SignalTooShort(t *testing.T) {
	sf, err := analyzers.NewSpectralFrames(nil)
	require.NoError(t, err)

	_, err = sf.Frames([]float64{})
	assert.Error(t, err, "empty signal must be rejected")

	_, err = sf.Frames(make([]float64, 100))
	assert.Error(t, err, "signal shorter than one window must be rejected")
}

// TestSpectralFrames_FeedsEngine runs the full pipeline: PCM with a texture
// switch in the middle, band-energy frames, then structural change over
// three timescales.
func TestSpectralFrames_FeedsEngine(t *testing.T) {
	cfg := &analyzers.SpectralFramesConfig{
		SampleRate: 44100,
		WindowSize: 512,
		HopSize:    256,
		Bands:      12,
		MinFreq:    60,
		MaxFreq:    8000,
	}
	sf, err := analyzers.NewSpectralFrames(cfg)
	require.NoError(t, err)

	pcm := append(sine(220, 44100, 22050), sine(3520, 44100, 22050)...)
	frames, err := sf.Frames(pcm)
	require.NoError(t, err)

	engine, err := structchange.New(3)
	require.NoError(t, err)
	output, err := engine.Calculate(frames, nil)
	require.NoError(t, err)

	require.Len(t, output, len(frames), "one change frame per feature frame")
	for i, f := range output {
		require.Len(t, f.Values, 3)
		for ts, v := range f.Values {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0),
				"frame %d timescale %d must be finite", i, ts)
		}
	}
}

// ExampleSpectralFrames_Frames converts one second of audio into feature
// frames with the default configuration.
func ExampleSpectralFrames_Frames() {
	sf, err := analyzers.NewSpectralFrames(nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	pcm := make([]float64, 44100)
	for i := range pcm {
		pcm[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 44100)
	}

	frames, err := sf.Frames(pcm)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(len(frames), len(frames[0].Values))
	// Output:
	// 42 24
}
