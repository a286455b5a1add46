package clean

import (
	"math"
	"testing"

	"github.com/planbiir/gloc/internal/track"
)

// ~11m per 0.0001 degree of longitude on the equator
func walk(speeds []float64, step float64) []track.Sample {
	samples := make([]track.Sample, len(speeds))
	for i, speed := range speeds {
		samples[i] = track.Sample{
			Time:      int64(i) * 5000,
			Longitude: float64(i) * step,
			Altitude:  100,
			Speed:     speed,
		}
	}
	return samples
}

func TestDetectAutoPause(t *testing.T) {
	samples := walk([]float64{3, 0.1, 0.2, 0.1, 4}, 0.00001) // ~1.1m apart

	paused := detectAutoPause(samples, DefaultConfig())
	want := []bool{false, false, true, true, false}
	for i := range want {
		if paused[i] != want[i] {
			t.Errorf("sample %d: expected paused=%v, got %v", i, want[i], paused[i])
		}
	}
}

func TestDetectAutoPauseIgnoresLongMoves(t *testing.T) {
	samples := walk([]float64{0.1, 0.1}, 0.001) // ~111m apart

	paused := detectAutoPause(samples, DefaultConfig())
	if paused[1] {
		t.Errorf("a 111m move should not count as paused")
	}
}

func TestCleanDropsPausedSamples(t *testing.T) {
	samples := walk([]float64{3, 0.1, 0.2, 0.1, 4}, 0.00001)

	config := DefaultConfig()
	config.DropPaused = true
	result := Clean(samples, config)

	if len(result.Samples) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(result.Samples))
	}
	if result.Stats.OriginalPoints != 5 || result.Stats.PausedPoints != 2 || result.Stats.PointsRemoved != 2 {
		t.Errorf("Unexpected stats: %+v", result.Stats)
	}
	if math.Abs(result.Stats.PointsPercent-40) > 1e-9 {
		t.Errorf("Expected 40%% removed, got %f", result.Stats.PointsPercent)
	}
	if len(samples) != 5 || samples[2].Speed != 0.2 {
		t.Errorf("input samples were modified")
	}
}

func TestCleanKeepsPausedByDefault(t *testing.T) {
	samples := walk([]float64{3, 0.1, 0.2}, 0.00001)

	result := Clean(samples, DefaultConfig())
	if len(result.Samples) != 3 || result.Stats.PausedPoints != 1 {
		t.Errorf("Expected all samples kept with 1 flagged, got %d kept, %d paused",
			len(result.Samples), result.Stats.PausedPoints)
	}
}

func TestSmoothElevation(t *testing.T) {
	samples := walk([]float64{5, 5, 5, 5, 5}, 0.001)
	for i, alt := range []float64{100, 101, 150, 102, 103} {
		samples[i].Altitude = alt
	}
	samples[4].Altitude = math.NaN()

	smoothElevation(samples, 3)

	want := []float64{100.5, 101, 102, 126}
	for i := range want {
		if math.Abs(samples[i].Altitude-want[i]) > 1e-9 {
			t.Errorf("sample %d: expected %f, got %f", i, want[i], samples[i].Altitude)
		}
	}
	if !math.IsNaN(samples[4].Altitude) {
		t.Errorf("missing altitude should stay missing, got %f", samples[4].Altitude)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.PauseSpeed <= 0 {
		t.Errorf("PauseSpeed should be > 0, got %f", config.PauseSpeed)
	}
	if config.PauseDistance <= 0 {
		t.Errorf("PauseDistance should be > 0, got %f", config.PauseDistance)
	}
	if config.ElevationWindow != 0 {
		t.Errorf("altitude smoothing should be off by default, got window %d", config.ElevationWindow)
	}
}

func TestDetectAutoPauseWithoutMeasuredSpeed(t *testing.T) {
	// GPX rides carry no speed: ~11m per second is moving, 0.1m is not.
	samples := walk(make([]float64, 10), 0.0001)
	for i := range samples {
		samples[i].Time = int64(i) * 1000
	}

	config := DefaultConfig()
	config.DropPaused = true
	result := Clean(samples, config)
	if len(result.Samples) != 10 || result.Stats.PausedPoints != 0 {
		t.Errorf("Expected moving ride kept, got %d kept, %d paused",
			len(result.Samples), result.Stats.PausedPoints)
	}

	still := walk(make([]float64, 3), 0.000001)
	paused := detectAutoPause(still, DefaultConfig())
	if !paused[1] || !paused[2] {
		t.Errorf("Expected standing samples paused, got %v", paused)
	}
}
