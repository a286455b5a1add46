package clean

import (
	"time"

	"github.com/planbiir/gloc/internal/track"
)

// Config holds the ingestion filter parameters
type Config struct {
	// Auto-pause detection
	DropPaused    bool    // remove samples recorded while auto-paused
	PauseSpeed    float64 // m/s - summed speed of two consecutive samples
	PauseDistance float64 // meters - maximum move between paused samples

	// Altitude smoothing
	ElevationWindow int // median filter window size, 0 disables
}

// DefaultConfig returns the settings the recording app uses
func DefaultConfig() Config {
	return Config{
		DropPaused:      false,
		PauseSpeed:      0.5,  // two samples both under ~1 km/h
		PauseDistance:   20.0, // less than 20m between samples
		ElevationWindow: 0,    // keep measured altitude as recorded
	}
}

// Stats represents filtering results
type Stats struct {
	OriginalPoints int     `json:"original_points"`
	PausedPoints   int     `json:"paused_points"`
	FinalPoints    int     `json:"final_points"`
	PointsRemoved  int     `json:"points_removed"`
	PointsPercent  float64 `json:"points_removed_percent"`

	ProcessingTime time.Duration `json:"processing_time_ms"`
}

// Result contains the filtered samples and statistics
type Result struct {
	Samples []track.Sample
	Stats   Stats
}
