package profile

import (
	"fmt"
	"math"

	"github.com/planbiir/gloc/internal/track"
)

// Field selects a per-sample measurement.
type Field int

const (
	FieldAltitude Field = iota
	FieldSpeed
	FieldLatitude
	FieldLongitude
	FieldAccuracy
	FieldBearing
)

func (f Field) String() string {
	switch f {
	case FieldAltitude:
		return "altitude"
	case FieldSpeed:
		return "speed"
	case FieldLatitude:
		return "latitude"
	case FieldLongitude:
		return "longitude"
	case FieldAccuracy:
		return "accuracy"
	case FieldBearing:
		return "bearing"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

func (f Field) get(s track.Sample) float64 {
	switch f {
	case FieldAltitude:
		return s.Altitude
	case FieldSpeed:
		return s.Speed
	case FieldLatitude:
		return s.Latitude
	case FieldLongitude:
		return s.Longitude
	case FieldAccuracy:
		return s.Accuracy
	case FieldBearing:
		return s.Bearing
	}
	return math.NaN()
}

func (f Field) set(s *track.Sample, v float64) {
	switch f {
	case FieldAltitude:
		s.Altitude = v
	case FieldSpeed:
		s.Speed = v
	case FieldLatitude:
		s.Latitude = v
	case FieldLongitude:
		s.Longitude = v
	case FieldAccuracy:
		s.Accuracy = v
	case FieldBearing:
		s.Bearing = v
	}
}

// TimeAxis returns each sample's time in minutes since the first sample.
func TimeAxis(samples []track.Sample) []float64 {
	if len(samples) == 0 {
		return nil
	}
	t0 := samples[0].Time
	axis := make([]float64, len(samples))
	for i, s := range samples {
		axis[i] = float64(s.Time-t0) / (60 * 1000)
	}
	return axis
}

// Values returns field for every sample. A sample lacking the measurement
// fails the whole extraction.
func Values(samples []track.Sample, field Field) ([]float64, error) {
	values := make([]float64, len(samples))
	for i, s := range samples {
		v := field.get(s)
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: %s at sample %d", track.ErrMissingField, field, i)
		}
		values[i] = v
	}
	return values, nil
}

// SpeedKMH returns the instantaneous speed of every sample in km/h.
func SpeedKMH(samples []track.Sample) ([]float64, error) {
	speeds, err := Values(samples, FieldSpeed)
	if err != nil {
		return nil, err
	}
	for i := range speeds {
		speeds[i] *= 3.6
	}
	return speeds, nil
}
