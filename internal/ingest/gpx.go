package ingest

import (
	"fmt"
	"io"
	"math"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/planbiir/gloc/internal/track"
)

// GPX decodes GPX tracks. Every point of every segment is kept in order;
// the ride title is the last non-empty track name.
type GPX struct{}

func (GPX) Decode(r io.Reader) (*Ride, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GPX: %w", err)
	}

	gpxFile, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	ride := &Ride{}
	for trackIdx, trk := range gpxFile.Tracks {
		if trk.Name != "" {
			ride.Title = trk.Name
		}
		for segIdx, segment := range trk.Segments {
			for ptIdx := range segment.Points {
				point := &segment.Points[ptIdx]
				if point.Timestamp.IsZero() {
					return nil, fmt.Errorf("%w: time at track %d segment %d point %d",
						track.ErrMissingField, trackIdx, segIdx, ptIdx)
				}

				altitude := math.NaN()
				if point.Elevation.NotNull() {
					altitude = point.Elevation.Value()
				}

				ride.Samples = append(ride.Samples, track.Sample{
					Time:      point.Timestamp.UnixMilli(),
					Latitude:  point.Latitude,
					Longitude: point.Longitude,
					Altitude:  altitude,
				})
			}
		}
	}

	if len(ride.Samples) > 0 {
		ride.Start = ride.Samples[0].Timestamp()
	}
	return ride, nil
}
