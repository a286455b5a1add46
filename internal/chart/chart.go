package chart

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/planbiir/gloc/internal/track"
)

// Line is one labeled (x, y) series of a chart.
type Line struct {
	Label  string    `json:"label,omitempty"`
	Marker string    `json:"marker,omitempty"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

// Chart is everything a plotting tool needs to render one figure panel.
type Chart struct {
	Title  string `json:"title,omitempty"`
	XLabel string `json:"xlabel"`
	YLabel string `json:"ylabel"`
	Lines  []Line `json:"lines"`
}

// Add appends a line built from series.
func (c *Chart) Add(label, marker string, series track.Series) error {
	if len(series.X) != len(series.Y) {
		return fmt.Errorf("line %q: %w: x has %d, y has %d", label, track.ErrLengthMismatch, len(series.X), len(series.Y))
	}
	c.Lines = append(c.Lines, Line{Label: label, Marker: marker, X: series.X, Y: series.Y})
	return nil
}

// WriteJSON writes the charts as an indented JSON array.
func WriteJSON(w io.Writer, charts []Chart) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(charts); err != nil {
		return fmt.Errorf("failed to encode charts: %w", err)
	}
	return nil
}

// WriteCSV writes one row per point: chart index, line label, x, y.
func WriteCSV(w io.Writer, charts []Chart) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"chart", "line", "x", "y"}); err != nil {
		return err
	}
	for ci, c := range charts {
		for _, line := range c.Lines {
			for i := range line.Y {
				row := []string{
					strconv.Itoa(ci),
					line.Label,
					strconv.FormatFloat(line.X[i], 'g', -1, 64),
					strconv.FormatFloat(line.Y[i], 'g', -1, 64),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrintValues writes the first n points of every line.
func PrintValues(w io.Writer, charts []Chart, n int) {
	for _, c := range charts {
		for _, line := range c.Lines {
			fmt.Fprintf(w, "%s\n", line.Label)
			for i := 0; i < n && i < len(line.Y); i++ {
				fmt.Fprintf(w, "%v %v\n", line.X[i], line.Y[i])
			}
		}
	}
}
