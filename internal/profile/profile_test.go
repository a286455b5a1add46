package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/planbiir/gloc/internal/track"
)

const equatorRadius = 6378137.0 // WGS84 semi-major axis, meters

// equatorTrack lays samples along the equator so that consecutive samples
// are exactly the given distances (meters) apart, one second apart in time.
func equatorTrack(distances []float64, altitudes []float64) []track.Sample {
	samples := make([]track.Sample, len(altitudes))
	lon := 0.0
	for i := range altitudes {
		if i > 0 {
			lon += distances[i-1] / equatorRadius * 180 / math.Pi
		}
		samples[i] = track.Sample{
			Time:      int64(i) * 1000,
			Latitude:  0,
			Longitude: lon,
			Altitude:  altitudes[i],
			Speed:     float64(i),
		}
	}
	return samples
}

func assertClose(t *testing.T, name string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s: expected %.6f, got %.6f", name, want, got)
	}
}

func TestSegmentDistances(t *testing.T) {
	samples := []track.Sample{
		{Latitude: 46.0, Longitude: 7.0},
		{Latitude: 46.001, Longitude: 7.001},
		{Latitude: 46.001, Longitude: 7.001}, // stationary
		{Latitude: 46.002, Longitude: 7.0},
	}

	chunks, err := SegmentDistances(samples)
	if err != nil {
		t.Fatalf("SegmentDistances failed: %v", err)
	}
	if len(chunks) != len(samples)-1 {
		t.Fatalf("Expected %d segments, got %d", len(samples)-1, len(chunks))
	}
	for i, d := range chunks {
		if d < 0 {
			t.Errorf("segment %d has negative distance %f", i, d)
		}
	}
	if chunks[1] != 0 {
		t.Errorf("Expected stationary segment to be 0 km, got %f", chunks[1])
	}
	// ~136m on the ellipsoid at this latitude
	assertClose(t, "first segment km", chunks[0], 0.136, 0.005)

	cumulative, err := CumulativeDistance(samples)
	if err != nil {
		t.Fatalf("CumulativeDistance failed: %v", err)
	}
	if len(cumulative) != len(chunks) {
		t.Fatalf("Expected %d cumulative values, got %d", len(chunks), len(cumulative))
	}
	if cumulative[0] != chunks[0] {
		t.Errorf("cumulative distance must start at first segment, got %f", cumulative[0])
	}
	for i := 1; i < len(cumulative); i++ {
		if cumulative[i] < cumulative[i-1] {
			t.Errorf("cumulative distance decreased at %d: %f < %f", i, cumulative[i], cumulative[i-1])
		}
	}
}

func TestSegmentMetersOnEquator(t *testing.T) {
	samples := equatorTrack([]float64{2, 10, 250}, []float64{0, 0, 0, 0})

	meters, err := SegmentMeters(samples)
	if err != nil {
		t.Fatalf("SegmentMeters failed: %v", err)
	}
	for i, want := range []float64{2, 10, 250} {
		assertClose(t, "segment meters", meters[i], want, 1e-6)
	}
}

func TestSegmentDistancesPreconditions(t *testing.T) {
	if _, err := SegmentDistances([]track.Sample{{}}); !errors.Is(err, track.ErrInsufficientSamples) {
		t.Errorf("Expected ErrInsufficientSamples, got %v", err)
	}
	if _, err := CumulativeDistance(nil); !errors.Is(err, track.ErrInsufficientSamples) {
		t.Errorf("Expected ErrInsufficientSamples for empty input, got %v", err)
	}

	samples := []track.Sample{{Latitude: 0, Longitude: 0}, {Latitude: math.NaN(), Longitude: 0}}
	if _, err := SegmentDistances(samples); !errors.Is(err, track.ErrMissingField) {
		t.Errorf("Expected ErrMissingField, got %v", err)
	}
}

func TestExtractGradeDirect(t *testing.T) {
	samples := []track.Sample{
		{Time: 0, Latitude: 0, Longitude: 0, Altitude: 100},
		{Time: 1, Latitude: 0, Longitude: 0.0001, Altitude: 102},
	}

	grade, err := ExtractGrade(samples, 5)
	if err != nil {
		t.Fatalf("ExtractGrade failed: %v", err)
	}
	if grade.Len() != 1 {
		t.Fatalf("Expected 1 grade value, got %d", grade.Len())
	}

	meters, _ := SegmentMeters(samples)
	if grade.Y[0] != 100.0*2/meters[0] {
		t.Errorf("Expected exact grade %f, got %f", 100.0*2/meters[0], grade.Y[0])
	}
	// 0.0001 degree of longitude on the equator is ~11.1m
	assertClose(t, "grade", grade.Y[0], 18.0, 0.1)
}

func TestExtractGradeMergesShortSegments(t *testing.T) {
	samples := equatorTrack([]float64{2, 2, 2}, []float64{0, 0.3, 0.9, 1})

	grade, err := ExtractGrade(samples, 5)
	if err != nil {
		t.Fatalf("ExtractGrade failed: %v", err)
	}
	if grade.Len() != 3 {
		t.Fatalf("Expected 3 grade values, got %d", grade.Len())
	}

	assertClose(t, "segment 1", grade.Y[0], 0, 0)
	assertClose(t, "segment 2", grade.Y[1], 0, 0)
	assertClose(t, "segment 3", grade.Y[2], 100.0/6, 1e-6)
}

func TestExtractGradeRepeatsLastDirectGrade(t *testing.T) {
	// 10m at +1m, three 2m segments rising 1.2m, then one open 2m segment
	samples := equatorTrack(
		[]float64{10, 2, 2, 2, 2},
		[]float64{0, 1, 1.5, 1.7, 2.2, 2.5},
	)

	grade, err := ExtractGrade(samples, 5)
	if err != nil {
		t.Fatalf("ExtractGrade failed: %v", err)
	}

	// The merged grade (20%) is emitted but does not replace the last
	// direct grade, so the trailing open merge repeats 10%.
	want := []float64{10, 10, 10, 20, 10}
	if grade.Len() != len(want) {
		t.Fatalf("Expected %d values, got %d", len(want), grade.Len())
	}
	for i := range want {
		assertClose(t, "grade", grade.Y[i], want[i], 1e-6)
	}
}

func TestExtractGradeAlignment(t *testing.T) {
	samples := equatorTrack([]float64{10, 10, 10}, []float64{0, 1, 2, 3})
	samples[1].Time = 60 * 1000
	samples[2].Time = 120 * 1000
	samples[3].Time = 180 * 1000

	grade, err := ExtractGrade(samples, 5)
	if err != nil {
		t.Fatalf("ExtractGrade failed: %v", err)
	}

	for i, want := range []float64{1, 2, 3} {
		if grade.X[i] != want {
			t.Errorf("grade %d should be keyed to minute %.0f, got %f", i, want, grade.X[i])
		}
	}
}

func TestExtractGradeThresholds(t *testing.T) {
	samples := equatorTrack([]float64{7, 7}, []float64{0, 0.7, 0})

	at5, err := ExtractGrade(samples, 5)
	if err != nil {
		t.Fatalf("ExtractGrade failed: %v", err)
	}
	assertClose(t, "5m first", at5.Y[0], 10, 1e-6)
	assertClose(t, "5m second", at5.Y[1], -10, 1e-6)

	at10, err := ExtractGrade(samples, 10)
	if err != nil {
		t.Fatalf("ExtractGrade failed: %v", err)
	}
	assertClose(t, "10m first", at10.Y[0], 0, 0)
	assertClose(t, "10m second", at10.Y[1], 0, 1e-6)
}

func TestExtractGradeMissingAltitude(t *testing.T) {
	samples := equatorTrack([]float64{10, 10}, []float64{0, math.NaN(), 2})

	grade, err := ExtractGrade(samples, 5)
	if !errors.Is(err, track.ErrMissingField) {
		t.Fatalf("Expected ErrMissingField, got %v", err)
	}
	if grade.Y != nil {
		t.Errorf("Expected no partial series, got %v", grade.Y)
	}
}

func TestExtractGradeRejectsBadThreshold(t *testing.T) {
	samples := equatorTrack([]float64{10}, []float64{0, 1})
	if _, err := ExtractGrade(samples, 0); err == nil {
		t.Errorf("Expected error for zero min distance")
	}
	if _, err := ExtractGrade(samples[:1], 5); !errors.Is(err, track.ErrInsufficientSamples) {
		t.Errorf("Expected ErrInsufficientSamples, got %v", err)
	}
}

func TestAverage3(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{1, 2, 3, 4, 5}

	avg, err := Average3(x, y)
	if err != nil {
		t.Fatalf("Average3 failed: %v", err)
	}

	wantX := []float64{2, 3, 4}
	wantY := []float64{2, 3, 4}
	if avg.Len() != 3 || len(avg.X) != 3 {
		t.Fatalf("Expected 3 values, got x=%d y=%d", len(avg.X), avg.Len())
	}
	for i := range wantY {
		if avg.X[i] != wantX[i] {
			t.Errorf("x[%d]: expected %f, got %f", i, wantX[i], avg.X[i])
		}
		assertClose(t, "y", avg.Y[i], wantY[i], 1e-12)
	}
}

func TestAverage2(t *testing.T) {
	avg, err := Average2([]float64{10, 20, 30}, []float64{1, 3, 7})
	if err != nil {
		t.Fatalf("Average2 failed: %v", err)
	}
	if avg.X[0] != 20 || avg.X[1] != 30 {
		t.Errorf("Expected x anchored at window end, got %v", avg.X)
	}
	if avg.Y[0] != 2 || avg.Y[1] != 5 {
		t.Errorf("Expected [2 5], got %v", avg.Y)
	}
}

func TestAveragePreconditions(t *testing.T) {
	if _, err := Average3([]float64{1, 2}, []float64{1, 2}); !errors.Is(err, track.ErrInsufficientSamples) {
		t.Errorf("Expected ErrInsufficientSamples, got %v", err)
	}
	if _, err := Average2([]float64{1}, []float64{1}); !errors.Is(err, track.ErrInsufficientSamples) {
		t.Errorf("Expected ErrInsufficientSamples, got %v", err)
	}
	if _, err := Average3([]float64{1, 2, 3}, []float64{1, 2}); !errors.Is(err, track.ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestAverageSamples(t *testing.T) {
	samples := equatorTrack([]float64{10, 10, 10, 10}, []float64{3, 6, 9, 12, 15})

	averaged, err := AverageSamples(samples, FieldAltitude)
	if err != nil {
		t.Fatalf("AverageSamples failed: %v", err)
	}
	if len(averaged) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(averaged))
	}

	// Each sample carries the mean of the window it starts.
	for i, want := range []float64{6, 9, 12} {
		assertClose(t, "altitude", averaged[i].Altitude, want, 1e-9)
		if averaged[i].Time != samples[i].Time {
			t.Errorf("sample %d time changed: %d", i, averaged[i].Time)
		}
	}
	if samples[0].Altitude != 3 {
		t.Errorf("input sample was mutated")
	}
}

func TestIntegrate(t *testing.T) {
	got, err := Integrate([]float64{10, 20, 5}, []float64{10, -5, 100})
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}
	want := []float64{1, 0, 5}
	for i := range want {
		assertClose(t, "integrated", got[i], want[i], 1e-12)
	}

	if _, err := Integrate([]float64{1, 2}, []float64{1}); !errors.Is(err, track.ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestIntegrateRoundTrip(t *testing.T) {
	distances := []float64{12, 30, 8, 55, 20}
	altitudes := []float64{500, 501.2, 503.0, 502.5, 507, 506}
	samples := equatorTrack(distances, altitudes)

	grade, err := ExtractGrade(samples, DefaultMinDistance)
	if err != nil {
		t.Fatalf("ExtractGrade failed: %v", err)
	}
	meters, _ := SegmentMeters(samples)
	integrated, err := Integrate(meters, grade.Y)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}

	// No segment is merged, so the profile is rebuilt exactly.
	for i, got := range integrated {
		assertClose(t, "rise", got, altitudes[i+1]-altitudes[0], 1e-9)
	}
}

func TestIntegrateRoundTripMergeBaseline(t *testing.T) {
	samples := equatorTrack([]float64{2, 2, 2}, []float64{0, 0.3, 0.9, 1})

	grade, err := ExtractGrade(samples, DefaultMinDistance)
	if err != nil {
		t.Fatalf("ExtractGrade failed: %v", err)
	}
	meters, _ := SegmentMeters(samples)
	integrated, err := Integrate(meters, grade.Y)
	if err != nil {
		t.Fatalf("Integrate failed: %v", err)
	}

	// Backfilled segments contribute nothing and the merged grade is applied
	// to the last segment only: 1m of rise comes back as 2m * 1/6.
	final := integrated[len(integrated)-1]
	assertClose(t, "integrated rise", final, 1.0/3, 1e-6)
	assertClose(t, "discrepancy", 1-final, 2.0/3, 1e-6)
}

func TestTimeAxisAndValues(t *testing.T) {
	samples := []track.Sample{
		{Time: 1_000_000, Speed: 1},
		{Time: 1_030_000, Speed: 2.5},
		{Time: 1_120_000, Speed: 10},
	}

	axis := TimeAxis(samples)
	for i, want := range []float64{0, 0.5, 2} {
		if axis[i] != want {
			t.Errorf("time %d: expected %f, got %f", i, want, axis[i])
		}
	}

	speeds, err := SpeedKMH(samples)
	if err != nil {
		t.Fatalf("SpeedKMH failed: %v", err)
	}
	assertClose(t, "speed", speeds[2], 36, 1e-9)

	samples[1].Altitude = math.NaN()
	if _, err := Values(samples, FieldAltitude); !errors.Is(err, track.ErrMissingField) {
		t.Errorf("Expected ErrMissingField for NaN altitude, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	samples := equatorTrack([]float64{10, 10, 10}, []float64{100, 101, 100.5, 102})
	samples[3].Time = 30_000

	sum, err := Summarize(samples, DefaultMinDistance)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if sum.SeqNo != 3 {
		t.Errorf("Expected seqno 3, got %d", sum.SeqNo)
	}
	if sum.ElapsedTime != 30_000 {
		t.Errorf("Expected 30s elapsed, got %d ms", sum.ElapsedTime)
	}
	assertClose(t, "total distance", sum.TotalDistance, 30, 1e-6)
	assertClose(t, "avg speed", sum.AvgSpeed, 1, 1e-6)
	assertClose(t, "max speed", sum.MaxSpeed, 3, 0)
	assertClose(t, "climb", sum.Climb, 2.5, 1e-9)
	assertClose(t, "descent", sum.Descent, 0.5, 1e-9)
	// trailing averages 100, 100.5, 100.5, 101.1667
	assertClose(t, "avg altitude", sum.AvgAltitude, 100.5416667, 1e-6)
	assertClose(t, "vertical distance", sum.VerticalDistance, 1.5, 1e-9)
	assertClose(t, "grade", sum.Grade, 15, 1e-6)
}

func TestSummarizeAverageAltitudeIsSmoothed(t *testing.T) {
	samples := equatorTrack([]float64{10, 10, 10}, []float64{0, 0, 0, 9})

	sum, err := Summarize(samples, DefaultMinDistance)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	// the spike at the end is averaged to 3, so the mean is 0.75, not 2.25
	assertClose(t, "avg altitude", sum.AvgAltitude, 0.75, 1e-9)
	assertClose(t, "altitude", sum.Altitude, 9, 0)
}

func TestExtractGradeRejectsNaNThreshold(t *testing.T) {
	samples := equatorTrack([]float64{2, 2}, []float64{0, 1, 2})
	if _, err := ExtractGrade(samples, math.NaN()); err == nil {
		t.Errorf("Expected error for NaN min distance")
	}
}

func TestSummarizeWithoutAltitude(t *testing.T) {
	samples := equatorTrack([]float64{10}, []float64{math.NaN(), math.NaN()})

	sum, err := Summarize(samples, DefaultMinDistance)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if !math.IsNaN(sum.Climb) || !math.IsNaN(sum.Grade) {
		t.Errorf("Expected NaN altitude fields, got climb=%f grade=%f", sum.Climb, sum.Grade)
	}
	assertClose(t, "total distance", sum.TotalDistance, 10, 1e-6)

	if _, err := Summarize(nil, DefaultMinDistance); !errors.Is(err, track.ErrInsufficientSamples) {
		t.Errorf("Expected ErrInsufficientSamples, got %v", err)
	}
}
