package profile

import (
	"fmt"

	"github.com/planbiir/gloc/internal/track"
)

// DefaultMinDistance is the shortest segment (meters) whose grade is trusted
// on its own.
const DefaultMinDistance = 5.0

// merge tracks a run of short segments whose altitude change is deferred
// until enough horizontal distance has accumulated.
type merge struct {
	distance      float64 // meters accumulated since the run began
	startAltitude float64 // altitude at the start of the run
}

// gradeScanner is the left-to-right state of the grade extraction.
// A nil pending merge means idle.
type gradeScanner struct {
	minDistance float64
	pending     *merge
	lastGrade   float64
}

// step consumes one segment and returns the grade emitted for it.
func (g *gradeScanner) step(h0, h1, d float64) float64 {
	if g.pending != nil {
		g.pending.distance += d
		if g.pending.distance > g.minDistance {
			grade := 100.0 * (h1 - g.pending.startAltitude) / g.pending.distance
			g.pending = nil
			return grade
		}
		return g.lastGrade
	}

	if d < g.minDistance {
		g.pending = &merge{distance: d, startAltitude: h0}
		return g.lastGrade
	}

	g.lastGrade = 100.0 * (h1 - h0) / d
	return g.lastGrade
}

// ExtractGrade returns the per-segment grade (percent) of the track, with
// segments shorter than minDistance meters merged into the following ones.
// Until a merge resolves, its segments repeat the last directly computed
// grade. A merge still open at the end of the track is dropped.
//
// The result is keyed to the ending sample of each segment: X is the time
// axis (minutes) from index 1 onward.
func ExtractGrade(samples []track.Sample, minDistance float64) (track.Series, error) {
	if !(minDistance > 0) {
		return track.Series{}, fmt.Errorf("extract grade: min distance must be positive, got %v", minDistance)
	}

	meters, err := SegmentMeters(samples)
	if err != nil {
		return track.Series{}, fmt.Errorf("extract grade: %w", err)
	}
	altitudes, err := Values(samples, FieldAltitude)
	if err != nil {
		return track.Series{}, fmt.Errorf("extract grade: %w", err)
	}

	scanner := gradeScanner{minDistance: minDistance}
	grade := make([]float64, len(meters))
	for i, d := range meters {
		grade[i] = scanner.step(altitudes[i], altitudes[i+1], d)
	}

	return track.Series{X: TimeAxis(samples)[1:], Y: grade}, nil
}
