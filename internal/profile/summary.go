package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/planbiir/gloc/internal/track"
)

// Summary is the state of a ride at its last sample. Altitude-derived
// fields are NaN when any sample lacks an altitude.
type Summary struct {
	SeqNo            int
	Last             track.Sample
	ElapsedTime      int64   // ms between first and last sample
	Distance         float64 // meters, last segment
	TotalDistance    float64 // meters
	AvgSpeed         float64 // m/s over elapsed time
	MaxSpeed         float64 // m/s, highest instantaneous speed
	Altitude         float64
	AvgAltitude      float64 // mean of the 3-point trailing average
	VerticalDistance float64 // meters, last segment
	Climb            float64
	Descent          float64
	Grade            float64 // percent, last segment
}

// Summarize computes the ride summary, grading with minDistance.
func Summarize(samples []track.Sample, minDistance float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, fmt.Errorf("summarize: %w: need 1, got 0", track.ErrInsufficientSamples)
	}

	first, last := samples[0], samples[len(samples)-1]
	sum := Summary{
		SeqNo:       len(samples) - 1,
		Last:        last,
		ElapsedTime: last.Time - first.Time,
	}

	for _, s := range samples {
		if s.Speed > sum.MaxSpeed {
			sum.MaxSpeed = s.Speed
		}
	}

	if len(samples) >= 2 {
		meters, err := SegmentMeters(samples)
		if err != nil {
			return Summary{}, fmt.Errorf("summarize: %w", err)
		}
		for _, d := range meters {
			sum.TotalDistance += d
		}
		sum.Distance = meters[len(meters)-1]
	}
	if sum.ElapsedTime > 0 {
		sum.AvgSpeed = sum.TotalDistance / (float64(sum.ElapsedTime) / 1000.0)
	}

	altitudes, err := Values(samples, FieldAltitude)
	if err != nil {
		nan := math.NaN()
		sum.Altitude, sum.AvgAltitude, sum.VerticalDistance = nan, nan, nan
		sum.Climb, sum.Descent, sum.Grade = nan, nan, nan
		return sum, nil
	}

	for i := 1; i < len(altitudes); i++ {
		if dh := altitudes[i] - altitudes[i-1]; dh > 0 {
			sum.Climb += dh
		} else {
			sum.Descent -= dh
		}
	}
	sum.Altitude = last.Altitude
	sum.AvgAltitude = stat.Mean(trailingMean(altitudes, 3), nil)

	if len(samples) >= 2 {
		sum.VerticalDistance = altitudes[len(altitudes)-1] - altitudes[len(altitudes)-2]
		grade, err := ExtractGrade(samples, minDistance)
		if err != nil {
			return Summary{}, fmt.Errorf("summarize: %w", err)
		}
		sum.Grade = grade.Y[grade.Len()-1]
	}

	return sum, nil
}

// trailingMean averages each value with up to window-1 predecessors. The
// first values average over the samples seen so far.
func trailingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = stat.Mean(values[max(0, i-window+1):i+1], nil)
	}
	return out
}
