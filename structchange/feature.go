package structchange

import (
	"time"
)

// Feature is one frame of feature values with optional timing metadata
type Feature struct {
	Values       []float64     `json:"values"`
	Timestamp    time.Duration `json:"timestamp,omitempty"`
	HasTimestamp bool          `json:"has_timestamp,omitempty"`
}

// NewFeature creates a frame without a timestamp
func NewFeature(values []float64) Feature {
	return Feature{Values: values}
}

// NewTimestampedFeature creates a frame stamped at the given stream offset
func NewTimestampedFeature(values []float64, timestamp time.Duration) Feature {
	return Feature{Values: values, Timestamp: timestamp, HasTimestamp: true}
}

// Frame is read access to one input feature frame. The boolean result of
// FrameTimestamp reports whether the frame carries a timestamp at all; frame
// types without timing metadata return (0, false).
type Frame interface {
	FrameValues() []float64
	FrameTimestamp() (time.Duration, bool)
}

// OutputFrame receives computed values plus metadata adopted from the input
// frame at the same position
type OutputFrame interface {
	SetFrameValues(values []float64)
	AdoptMetadata(src Frame)
}

// FrameValues returns the frame's feature vector
func (f *Feature) FrameValues() []float64 {
	return f.Values
}

// FrameTimestamp returns the frame's stream offset and whether it is set
func (f *Feature) FrameTimestamp() (time.Duration, bool) {
	return f.Timestamp, f.HasTimestamp
}

// SetFrameValues replaces the frame's feature vector
func (f *Feature) SetFrameValues(values []float64) {
	f.Values = values
}

// AdoptMetadata copies the source frame's timestamp when it has one and
// clears the timestamp otherwise
func (f *Feature) AdoptMetadata(src Frame) {
	if ts, ok := src.FrameTimestamp(); ok {
		f.Timestamp = ts
		f.HasTimestamp = true
		return
	}
	f.Timestamp = 0
	f.HasTimestamp = false
}
