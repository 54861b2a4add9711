package structchange_test

import (
	"testing"
	"time"

	"github.com/RyanBlaney/sonido-flux/structchange"
	"github.com/stretchr/testify/assert"
)

var (
	_ structchange.Frame       = (*structchange.Feature)(nil)
	_ structchange.OutputFrame = (*structchange.Feature)(nil)
)

// TestNewTimestampedFeature verifies constructor field wiring.
func TestNewTimestampedFeature(t *testing.T) {
	f := structchange.NewTimestampedFeature([]float64{1, 2}, 3*time.Second)

	assert.Equal(t, []float64{1, 2}, f.Values)
	assert.Equal(t, 3*time.Second, f.Timestamp)
	assert.True(t, f.HasTimestamp)

	plain := structchange.NewFeature([]float64{5})
	assert.False(t, plain.HasTimestamp, "plain features carry no timestamp")
}

// TestFeature_FrameAccess verifies the read side of the frame interfaces.
func TestFeature_FrameAccess(t *testing.T) {
	f := structchange.NewTimestampedFeature([]float64{7}, time.Second)

	assert.Equal(t, []float64{7}, f.FrameValues())
	ts, ok := f.FrameTimestamp()
	assert.True(t, ok)
	assert.Equal(t, time.Second, ts)
}

// TestFeature_AdoptMetadata verifies that a timestamp is copied only when the
// source has one, and cleared otherwise.
func TestFeature_AdoptMetadata(t *testing.T) {
	src := structchange.NewTimestampedFeature([]float64{1}, 250*time.Millisecond)
	var dst structchange.Feature
	dst.AdoptMetadata(&src)

	assert.True(t, dst.HasTimestamp)
	assert.Equal(t, 250*time.Millisecond, dst.Timestamp)

	bare := structchange.NewFeature([]float64{2})
	stale := structchange.NewTimestampedFeature(nil, time.Hour)
	stale.AdoptMetadata(&bare)

	assert.False(t, stale.HasTimestamp, "adopting from a bare frame must clear the flag")
	assert.Zero(t, stale.Timestamp, "adopting from a bare frame must clear the stale timestamp")
}
