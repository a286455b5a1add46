package location

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/planbiir/gloc/internal/track"
)

// Number is a float64 that round-trips an absent measurement (NaN) as null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Record is one location as stored in a recording file.
type Record struct {
	Time      *int64 `json:"time"`
	Latitude  Number `json:"latitude"`
	Longitude Number `json:"longitude"`
	Altitude  Number `json:"altitude"`
	Accuracy  Number `json:"accuracy"`
	Speed     Number `json:"speed"`
	Bearing   Number `json:"bearing"`
}

func newRecord() Record {
	nan := Number(math.NaN())
	return Record{Latitude: nan, Longitude: nan, Altitude: nan, Accuracy: nan, Speed: nan, Bearing: nan}
}

// FromSample converts a sample to its stored form.
func FromSample(s track.Sample) Record {
	t := s.Time
	return Record{
		Time:      &t,
		Latitude:  Number(s.Latitude),
		Longitude: Number(s.Longitude),
		Altitude:  Number(s.Altitude),
		Accuracy:  Number(s.Accuracy),
		Speed:     Number(s.Speed),
		Bearing:   Number(s.Bearing),
	}
}

// Sample converts the record back; a record without a time is rejected.
func (r Record) Sample() (track.Sample, error) {
	if r.Time == nil {
		return track.Sample{}, fmt.Errorf("%w: time", track.ErrMissingField)
	}
	return track.Sample{
		Time:      *r.Time,
		Latitude:  float64(r.Latitude),
		Longitude: float64(r.Longitude),
		Altitude:  float64(r.Altitude),
		Accuracy:  float64(r.Accuracy),
		Speed:     float64(r.Speed),
		Bearing:   float64(r.Bearing),
	}, nil
}

// Read parses a recording: comma-joined objects without brackets, a JSON
// array, or newline-delimited objects.
func Read(r io.Reader) ([]track.Sample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []Record
	if data[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse recording: %w", err)
		}
		for _, msg := range raw {
			rec := newRecord()
			if err := json.Unmarshal(msg, &rec); err != nil {
				return nil, fmt.Errorf("failed to parse location %d: %w", len(records), err)
			}
			records = append(records, rec)
		}
	} else {
		records, err = readStream(data)
		if err != nil {
			return nil, err
		}
	}

	samples := make([]track.Sample, len(records))
	for i, rec := range records {
		s, err := rec.Sample()
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
		samples[i] = s
	}
	return samples, nil
}

// readStream decodes one object at a time, skipping the separators between them.
func readStream(data []byte) ([]Record, error) {
	var records []Record
	pos := 0
	for {
		for pos < len(data) && isSeparator(data[pos]) {
			pos++
		}
		if pos >= len(data) {
			return records, nil
		}

		dec := json.NewDecoder(bytes.NewReader(data[pos:]))
		rec := newRecord()
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to parse location %d: %w", len(records), err)
		}
		records = append(records, rec)
		pos += int(dec.InputOffset())
	}
}

func isSeparator(b byte) bool {
	switch b {
	case ',', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// ReadFile parses the recording stored at path.
func ReadFile(path string) ([]track.Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Write stores samples as comma-separated objects, one per line, without
// the enclosing brackets.
func Write(w io.Writer, samples []track.Sample) error {
	bw := bufio.NewWriter(w)
	prolog := ""
	for _, s := range samples {
		data, err := json.Marshal(FromSample(s))
		if err != nil {
			return fmt.Errorf("failed to encode location: %w", err)
		}
		if _, err := bw.WriteString(prolog); err != nil {
			return err
		}
		if _, err := bw.Write(data); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		prolog = ","
	}
	return bw.Flush()
}

// WriteFile stores samples at path, replacing any existing file.
func WriteFile(path string, samples []track.Sample) error {
	return writeFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, samples)
}

// CreateFile stores samples at a new path. It fails with an error matching
// fs.ErrExist when path already exists.
func CreateFile(path string, samples []track.Sample) error {
	return writeFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, samples)
}

func writeFile(path string, flag int, samples []track.Sample) error {
	file, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, samples); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
