package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/planbiir/gloc/internal/location"
	"github.com/planbiir/gloc/internal/track"
)

// Ride is a recording decoded from any supported format.
type Ride struct {
	Title   string
	Start   time.Time
	Samples []track.Sample
}

// ID is the recording file name the app uses for a ride.
func (r *Ride) ID() string {
	return "recording-" + r.Start.UTC().Format("2006-01-02-15-04-05") + ".json"
}

// Decoder turns an input file into an ordered sequence of samples.
type Decoder interface {
	Decode(r io.Reader) (*Ride, error)
}

// JSON decodes an already converted recording.
type JSON struct{}

func (JSON) Decode(r io.Reader) (*Ride, error) {
	samples, err := location.Read(r)
	if err != nil {
		return nil, err
	}
	ride := &Ride{Samples: samples}
	if len(samples) > 0 {
		ride.Start = samples[0].Timestamp()
	}
	return ride, nil
}

// DecoderFor picks the decoder matching the file extension.
func DecoderFor(path string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		return GPX{}, nil
	case ".fit":
		return FIT{}, nil
	case ".json":
		return JSON{}, nil
	}
	return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
}

// Load reads and decodes the file at path.
func Load(path string) (*Ride, error) {
	dec, err := DecoderFor(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ride, err := dec.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return ride, nil
}
