package profile

import (
	"fmt"

	"github.com/tidwall/geodesic"
	"gonum.org/v1/gonum/floats"

	"github.com/planbiir/gloc/internal/track"
)

// geodesicKm returns the WGS84 ellipsoidal distance between two fixes in km.
func geodesicKm(from, to track.Sample) float64 {
	var meters float64
	geodesic.WGS84.Inverse(from.Latitude, from.Longitude, to.Latitude, to.Longitude, &meters, nil, nil)
	return meters / 1000.0
}

// Meters returns the WGS84 ellipsoidal distance between two fixes in meters.
func Meters(from, to track.Sample) float64 {
	return geodesicKm(from, to) * 1000.0
}

// SegmentDistances returns the N-1 distances (km) between consecutive samples.
func SegmentDistances(samples []track.Sample) ([]float64, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("segment distances: %w: need 2, got %d", track.ErrInsufficientSamples, len(samples))
	}
	for i, s := range samples {
		if !s.HasPosition() {
			return nil, fmt.Errorf("segment distances: %w: latitude/longitude at sample %d", track.ErrMissingField, i)
		}
	}

	chunks := make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		chunks[i-1] = geodesicKm(samples[i-1], samples[i])
	}
	return chunks, nil
}

// SegmentMeters is SegmentDistances expressed in meters, the unit altitude uses.
func SegmentMeters(samples []track.Sample) ([]float64, error) {
	chunks, err := SegmentDistances(samples)
	if err != nil {
		return nil, err
	}
	floats.Scale(1000.0, chunks)
	return chunks, nil
}

// CumulativeDistance returns the N-1 running total distance (km), keyed to
// the ending sample of each segment.
func CumulativeDistance(samples []track.Sample) ([]float64, error) {
	chunks, err := SegmentDistances(samples)
	if err != nil {
		return nil, err
	}
	return floats.CumSum(make([]float64, len(chunks)), chunks), nil
}
