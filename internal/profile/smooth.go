package profile

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/planbiir/gloc/internal/track"
)

// movingAverage averages each window of y and anchors the result at the x
// value of the window's last element.
func movingAverage(x, y []float64, window int) (track.Series, error) {
	if len(x) != len(y) {
		return track.Series{}, fmt.Errorf("moving average: %w: x has %d, y has %d", track.ErrLengthMismatch, len(x), len(y))
	}
	if len(y) < window {
		return track.Series{}, fmt.Errorf("moving average: %w: need %d, got %d", track.ErrInsufficientSamples, window, len(y))
	}

	n := len(y) - (window - 1)
	out := track.Series{
		X: append([]float64(nil), x[window-1:]...),
		Y: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		out.Y[i] = stat.Mean(y[i:i+window], nil)
	}
	return out, nil
}

// Average2 is the 2-point trailing average: X is x[1:].
func Average2(x, y []float64) (track.Series, error) {
	return movingAverage(x, y, 2)
}

// Average3 is the 3-point average anchored at the last element of each
// window: X is x[2:], not the window center.
func Average3(x, y []float64) (track.Series, error) {
	return movingAverage(x, y, 3)
}

// AverageSamples returns the first N-2 samples with field replaced by the
// 3-point average of the window that starts at each sample.
func AverageSamples(samples []track.Sample, field Field) ([]track.Sample, error) {
	values, err := Values(samples, field)
	if err != nil {
		return nil, err
	}
	averaged, err := Average3(make([]float64, len(values)), values)
	if err != nil {
		return nil, err
	}

	out := make([]track.Sample, averaged.Len())
	for i, v := range averaged.Y {
		out[i] = samples[i]
		field.set(&out[i], v)
	}
	return out, nil
}
