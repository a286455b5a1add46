package track

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrInsufficientSamples is returned when a derived computation needs
	// more samples than it was given.
	ErrInsufficientSamples = errors.New("insufficient samples")

	// ErrMissingField is returned when a sample lacks a measurement the
	// computation depends on.
	ErrMissingField = errors.New("missing field")

	// ErrLengthMismatch is returned when two parallel series differ in length.
	ErrLengthMismatch = errors.New("length mismatch")
)

// Sample is a single location fix as recorded by the device.
// Absent floating-point measurements are NaN, never zero.
type Sample struct {
	Time      int64   // milliseconds since epoch
	Latitude  float64 // degrees
	Longitude float64 // degrees
	Altitude  float64 // meters
	Speed     float64 // m/s
	Accuracy  float64
	Bearing   float64
}

// Timestamp returns the sample time as a time.Time in UTC.
func (s Sample) Timestamp() time.Time {
	return time.UnixMilli(s.Time).UTC()
}

// HasAltitude reports whether the altitude was measured.
func (s Sample) HasAltitude() bool {
	return !math.IsNaN(s.Altitude)
}

// HasPosition reports whether both coordinates were measured.
func (s Sample) HasPosition() bool {
	return !math.IsNaN(s.Latitude) && !math.IsNaN(s.Longitude)
}

// Series is a quantity over time or distance. X and Y always have equal length.
type Series struct {
	X []float64
	Y []float64
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.Y)
}
