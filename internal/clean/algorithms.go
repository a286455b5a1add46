package clean

import (
	"math"
	"sort"

	"github.com/planbiir/gloc/internal/profile"
	"github.com/planbiir/gloc/internal/track"
)

// detectAutoPause flags samples recorded while standing still: both the
// sample and its predecessor are slow and it barely moved. The first sample
// is never paused. Recordings without a measured speed (GPX) use the speed
// implied by distance over time instead.
func detectAutoPause(samples []track.Sample, config Config) []bool {
	paused := make([]bool, len(samples))
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if !prev.HasPosition() || !curr.HasPosition() {
			continue
		}
		meters := profile.Meters(prev, curr)
		paused[i] = pairSpeed(prev, curr, meters) < config.PauseSpeed &&
			meters < config.PauseDistance
	}
	return paused
}

// pairSpeed is the summed speed of two consecutive samples.
func pairSpeed(prev, curr track.Sample, meters float64) float64 {
	speed := curr.Speed + prev.Speed
	if speed > 0 || curr.Time <= prev.Time {
		return speed
	}
	seconds := float64(curr.Time-prev.Time) / 1000.0
	return 2 * meters / seconds
}

// smoothElevation applies median filter to reduce barometric noise.
// Missing altitudes stay missing and are left out of their neighbors' windows.
func smoothElevation(samples []track.Sample, windowSize int) {
	if len(samples) < 3 || windowSize < 3 {
		return
	}

	// Ensure window size is odd
	if windowSize%2 == 0 {
		windowSize++
	}
	half := windowSize / 2

	smoothed := make([]float64, len(samples))
	for i := range samples {
		if !samples[i].HasAltitude() {
			smoothed[i] = math.NaN()
			continue
		}

		elevations := make([]float64, 0, windowSize)
		start := max(0, i-half)
		end := min(len(samples), i+half+1)
		for j := start; j < end; j++ {
			if samples[j].HasAltitude() {
				elevations = append(elevations, samples[j].Altitude)
			}
		}

		smoothed[i] = medianFloat(elevations)
	}

	for i := range samples {
		samples[i].Altitude = smoothed[i]
	}
}

func medianFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted)%2 == 0 {
		return (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}
	return sorted[len(sorted)/2]
}
