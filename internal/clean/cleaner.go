package clean

import (
	"log/slog"
	"time"

	"github.com/planbiir/gloc/internal/track"
)

// Clean applies the configured filters to a copy of samples.
func Clean(samples []track.Sample, config Config) Result {
	startTime := time.Now()

	filtered := append([]track.Sample(nil), samples...)

	// Smooth altitude before dropping samples so windows follow the recording
	smoothElevation(filtered, config.ElevationWindow)

	paused := detectAutoPause(filtered, config)
	pausedCount := 0
	for _, p := range paused {
		if p {
			pausedCount++
		}
	}

	if config.DropPaused && pausedCount > 0 {
		kept := filtered[:0]
		for i, s := range filtered {
			if !paused[i] {
				kept = append(kept, s)
			}
		}
		filtered = kept
	}

	stats := Stats{
		OriginalPoints: len(samples),
		PausedPoints:   pausedCount,
		FinalPoints:    len(filtered),
		PointsRemoved:  len(samples) - len(filtered),
		ProcessingTime: time.Since(startTime),
	}
	if len(samples) > 0 {
		stats.PointsPercent = float64(stats.PointsRemoved) / float64(len(samples)) * 100
	}

	slog.Debug("cleaning completed",
		"original", stats.OriginalPoints,
		"paused", stats.PausedPoints,
		"final", stats.FinalPoints,
		"elapsed", stats.ProcessingTime)

	return Result{Samples: filtered, Stats: stats}
}
