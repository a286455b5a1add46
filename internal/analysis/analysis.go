package analysis

import (
	"fmt"
	"sort"

	"github.com/planbiir/gloc/internal/chart"
	"github.com/planbiir/gloc/internal/profile"
	"github.com/planbiir/gloc/internal/track"
)

// GradeLimit is drawn as a guide on grade charts, in percent.
const GradeLimit = 25.0

const (
	timeLabel     = "Time (min)"
	distanceLabel = "Distance (km)"
	altitudeLabel = "Altitude (m)"
	gradeLabel    = "Grade (%)"
)

// Params are the grade thresholds (meters) charts are built with.
type Params struct {
	MinDistance     float64
	CompareDistance float64
}

// DefaultParams compares the default threshold with a 10m one.
func DefaultParams() Params {
	return Params{MinDistance: profile.DefaultMinDistance, CompareDistance: 10}
}

type builder func(samples []track.Sample, p Params) ([]chart.Chart, error)

var builders = map[string]builder{
	"speed":                speedByTime,
	"distance":             distanceByTime,
	"altitude-by-time":     altitudeByTime,
	"altitude-by-distance": altitudeByDistance,
	"grade-by-distance":    gradeByDistance,
	"grade-by-time":        gradeByTimeChart,
	"altitude-vs-grade":    altitudeVsGrade,
	"altitude":             altitudeComparison,
}

// Kinds lists the chart kinds Build accepts.
func Kinds() []string {
	kinds := make([]string, 0, len(builders))
	for k := range builders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build computes the charts of the given kind for a recording.
func Build(kind string, samples []track.Sample, p Params) ([]chart.Chart, error) {
	b, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown chart kind %q (expected one of %v)", kind, Kinds())
	}
	charts, err := b(samples, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return charts, nil
}

func speedByTime(samples []track.Sample, _ Params) ([]chart.Chart, error) {
	speeds, err := profile.SpeedKMH(samples)
	if err != nil {
		return nil, err
	}
	c := chart.Chart{Title: "Speed", XLabel: timeLabel, YLabel: "Speed (km/h)"}
	if err := c.Add("speed", "", track.Series{X: profile.TimeAxis(samples), Y: speeds}); err != nil {
		return nil, err
	}
	return []chart.Chart{c}, nil
}

// distanceByTime keys each running total to the segment's starting time.
func distanceByTime(samples []track.Sample, _ Params) ([]chart.Chart, error) {
	d, err := profile.CumulativeDistance(samples)
	if err != nil {
		return nil, err
	}
	t := profile.TimeAxis(samples)
	c := chart.Chart{Title: "Distance", XLabel: timeLabel, YLabel: distanceLabel}
	if err := c.Add("distance", "", track.Series{X: t[:len(t)-1], Y: d}); err != nil {
		return nil, err
	}
	return []chart.Chart{c}, nil
}

func altitudeByTime(samples []track.Sample, _ Params) ([]chart.Chart, error) {
	altitudes, err := profile.Values(samples, profile.FieldAltitude)
	if err != nil {
		return nil, err
	}
	t := profile.TimeAxis(samples)
	avg, err := profile.Average3(t, altitudes)
	if err != nil {
		return nil, err
	}

	c := chart.Chart{Title: "Altitude", XLabel: timeLabel, YLabel: altitudeLabel}
	if err := c.Add("Real time", ".", track.Series{X: t, Y: altitudes}); err != nil {
		return nil, err
	}
	if err := c.Add("average3", "o", avg); err != nil {
		return nil, err
	}
	return []chart.Chart{c}, nil
}

func altitudeByDistance(samples []track.Sample, _ Params) ([]chart.Chart, error) {
	d, err := profile.CumulativeDistance(samples)
	if err != nil {
		return nil, err
	}
	altitudes, err := profile.Values(samples, profile.FieldAltitude)
	if err != nil {
		return nil, err
	}
	avg, err := profile.Average3(d, altitudes[1:])
	if err != nil {
		return nil, err
	}

	c := chart.Chart{Title: "Altitude", XLabel: distanceLabel, YLabel: altitudeLabel}
	if err := c.Add("Real time", ".", track.Series{X: d, Y: altitudes[1:]}); err != nil {
		return nil, err
	}
	if err := c.Add("average3", "x", avg); err != nil {
		return nil, err
	}
	return []chart.Chart{c}, nil
}

func gradeByDistance(samples []track.Sample, p Params) ([]chart.Chart, error) {
	grade, err := profile.ExtractGrade(samples, p.MinDistance)
	if err != nil {
		return nil, err
	}
	d, err := profile.CumulativeDistance(samples)
	if err != nil {
		return nil, err
	}

	c := chart.Chart{Title: "Grade", XLabel: distanceLabel, YLabel: gradeLabel}
	if err := c.Add("Real time", ".", track.Series{X: d, Y: grade.Y}); err != nil {
		return nil, err
	}
	return []chart.Chart{c}, nil
}

func thresholdLabel(meters float64) string {
	return fmt.Sprintf("%gm", meters)
}

func constant(x []float64, v float64) track.Series {
	y := make([]float64, len(x))
	for i := range y {
		y[i] = v
	}
	return track.Series{X: x, Y: y}
}

func gradeByTime(title string, samples []track.Sample, p Params) (chart.Chart, error) {
	c := chart.Chart{Title: title, XLabel: timeLabel, YLabel: gradeLabel}
	for _, th := range []struct {
		meters float64
		marker string
	}{{p.MinDistance, "x"}, {p.CompareDistance, "o"}} {
		grade, err := profile.ExtractGrade(samples, th.meters)
		if err != nil {
			return chart.Chart{}, err
		}
		if err := c.Add(thresholdLabel(th.meters), th.marker, grade); err != nil {
			return chart.Chart{}, err
		}
	}

	t := c.Lines[0].X
	if err := c.Add(fmt.Sprintf("+%g%%", GradeLimit), "", constant(t, GradeLimit)); err != nil {
		return chart.Chart{}, err
	}
	if err := c.Add(fmt.Sprintf("-%g%%", GradeLimit), "", constant(t, -GradeLimit)); err != nil {
		return chart.Chart{}, err
	}
	return c, nil
}

func gradeByTimeChart(samples []track.Sample, p Params) ([]chart.Chart, error) {
	c, err := gradeByTime("Grade", samples, p)
	if err != nil {
		return nil, err
	}
	return []chart.Chart{c}, nil
}

// altitudeVsGrade rebuilds the altitude profile from the grade at both
// thresholds and overlays the measured rise since the first sample.
func altitudeVsGrade(samples []track.Sample, p Params) ([]chart.Chart, error) {
	meters, err := profile.SegmentMeters(samples)
	if err != nil {
		return nil, err
	}
	altitudes, err := profile.Values(samples, profile.FieldAltitude)
	if err != nil {
		return nil, err
	}

	c := chart.Chart{Title: "Altitude from grade", XLabel: timeLabel, YLabel: altitudeLabel}
	var t []float64
	for _, th := range []struct {
		meters float64
		marker string
	}{{p.MinDistance, "x"}, {p.CompareDistance, "o"}} {
		grade, err := profile.ExtractGrade(samples, th.meters)
		if err != nil {
			return nil, err
		}
		integrated, err := profile.Integrate(meters, grade.Y)
		if err != nil {
			return nil, err
		}
		t = grade.X
		if err := c.Add(thresholdLabel(th.meters), th.marker, track.Series{X: t, Y: integrated}); err != nil {
			return nil, err
		}
	}

	measured := make([]float64, len(altitudes)-1)
	for i := range measured {
		measured[i] = altitudes[i+1] - altitudes[0]
	}
	if err := c.Add("measured", "", track.Series{X: t, Y: measured}); err != nil {
		return nil, err
	}
	return []chart.Chart{c}, nil
}

// altitudeComparison shows the grade over raw and 3-point averaged altitude.
func altitudeComparison(samples []track.Sample, p Params) ([]chart.Chart, error) {
	raw, err := gradeByTime("Grade", samples, p)
	if err != nil {
		return nil, err
	}
	averaged, err := profile.AverageSamples(samples, profile.FieldAltitude)
	if err != nil {
		return nil, err
	}
	smooth, err := gradeByTime("Grade over average3 altitude", averaged, p)
	if err != nil {
		return nil, err
	}
	return []chart.Chart{raw, smooth}, nil
}
