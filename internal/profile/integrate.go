package profile

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/planbiir/gloc/internal/track"
)

// Integrate returns the running sum of step*value/100, rebuilding an
// altitude-like profile (meters) from step sizes (meters) and grades (percent).
func Integrate(steps, values []float64) ([]float64, error) {
	if len(steps) != len(values) {
		return nil, fmt.Errorf("integrate: %w: %d steps, %d values", track.ErrLengthMismatch, len(steps), len(values))
	}

	rise := floats.MulTo(make([]float64, len(steps)), steps, values)
	floats.Scale(1/100.0, rise)
	return floats.CumSum(rise, rise), nil
}
