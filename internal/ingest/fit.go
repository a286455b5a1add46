package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/tormoder/fit"

	"github.com/planbiir/gloc/internal/track"
)

// FIT decodes FIT activities. A ride starts paused: records are kept only
// between a timer start event and the next stop.
type FIT struct{}

func (FIT) Decode(r io.Reader) (*Ride, error) {
	fitFile, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FIT: %w", err)
	}
	activity, err := fitFile.Activity()
	if err != nil {
		return nil, fmt.Errorf("FIT file is not an activity: %w", err)
	}
	return fromActivity(activity), nil
}

type pauseToggle struct {
	at     time.Time
	paused bool
}

// pauseTimeline returns start/stop events ordered by time. An event applies
// to records at or after its timestamp.
func pauseTimeline(events []*fit.EventMsg) []pauseToggle {
	var toggles []pauseToggle
	for _, ev := range events {
		switch ev.EventType {
		case fit.EventTypeStart:
			toggles = append(toggles, pauseToggle{at: ev.Timestamp, paused: false})
		case fit.EventTypeStop, fit.EventTypeStopAll:
			toggles = append(toggles, pauseToggle{at: ev.Timestamp, paused: true})
		}
	}
	sort.SliceStable(toggles, func(i, j int) bool { return toggles[i].at.Before(toggles[j].at) })
	return toggles
}

func fromActivity(activity *fit.ActivityFile) *Ride {
	toggles := pauseTimeline(activity.Events)
	paused := true
	next := 0

	ride := &Ride{}
	var skippedPaused, skippedPosition int
	for _, rec := range activity.Records {
		for next < len(toggles) && !rec.Timestamp.Before(toggles[next].at) {
			paused = toggles[next].paused
			next++
		}
		if paused {
			skippedPaused++
			continue
		}
		if rec.PositionLat.Invalid() || rec.PositionLong.Invalid() {
			skippedPosition++
			continue
		}
		ride.Samples = append(ride.Samples, recordSample(rec))
	}

	if skippedPaused > 0 || skippedPosition > 0 {
		slog.Debug("skipped FIT records", "paused", skippedPaused, "no_position", skippedPosition)
	}

	if len(activity.Sessions) > 0 && !activity.Sessions[0].StartTime.IsZero() {
		ride.Start = activity.Sessions[0].StartTime.UTC()
	} else if len(ride.Samples) > 0 {
		ride.Start = ride.Samples[0].Timestamp()
	}
	return ride
}

func recordSample(rec *fit.RecordMsg) track.Sample {
	altitude := rec.GetEnhancedAltitudeScaled()
	if math.IsNaN(altitude) {
		altitude = rec.GetAltitudeScaled()
	}

	speed := rec.GetEnhancedSpeedScaled()
	if math.IsNaN(speed) {
		speed = rec.GetSpeedScaled()
	}
	if math.IsNaN(speed) {
		speed = 0
	}

	accuracy := math.NaN()
	if rec.GpsAccuracy != 0xFF {
		accuracy = float64(rec.GpsAccuracy)
	}

	return track.Sample{
		Time:      rec.Timestamp.UnixMilli(),
		Latitude:  rec.PositionLat.Degrees(),
		Longitude: rec.PositionLong.Degrees(),
		Altitude:  altitude,
		Speed:     speed,
		Accuracy:  accuracy,
	}
}
