package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/planbiir/gloc/internal/clean"
	"github.com/planbiir/gloc/internal/ingest"
	"github.com/planbiir/gloc/internal/location"
	"github.com/planbiir/gloc/internal/profile"
)

// CatalogName is the catalog file written into the destination directory.
const CatalogName = "catalog.json"

// Options controls a conversion run.
type Options struct {
	// Dest is the output directory. Empty writes each recording next to its
	// input with a .json extension; otherwise recordings are named after
	// their start time.
	Dest string

	// Force overwrites existing recordings instead of skipping them.
	Force bool

	// Workers bounds how many files are converted at once.
	Workers int

	Clean clean.Config

	// MinDistance grades the catalog summaries.
	MinDistance float64
}

// Result reports the outcome for one input file.
type Result struct {
	Input   string
	Output  string
	Ride    *ingest.Ride
	Stats   clean.Stats
	Skipped bool
	Err     error
}

var errSameFile = errors.New("output would overwrite input")

// claims records the outputs written by one batch, so two inputs resolving
// to the same recording are never written concurrently.
type claims struct {
	mu    sync.Mutex
	paths map[string]string
}

func newClaims() *claims {
	return &claims{paths: make(map[string]string)}
}

// claim reserves path for input and reports the input that already holds it.
func (c *claims) claim(path, input string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := filepath.Clean(path)
	if owner, ok := c.paths[key]; ok {
		return owner, false
	}
	c.paths[key] = input
	return "", true
}

// Files converts every input independently. Results keep the input order;
// a failing file does not stop the others.
func Files(paths []string, opts Options) []Result {
	results := make([]Result, len(paths))
	workers := min(max(opts.Workers, 1), max(len(paths), 1))

	written := newClaims()
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = convertFile(paths[idx], opts, written)
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// File converts a single input to a recording.
func File(path string, opts Options) Result {
	return convertFile(path, opts, newClaims())
}

func convertFile(path string, opts Options, written *claims) Result {
	result := Result{Input: path}

	if opts.Dest == "" {
		result.Output = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
		if filepath.Clean(result.Output) == filepath.Clean(path) {
			result.Err = fmt.Errorf("%s: %w", path, errSameFile)
			return result
		}
		if !opts.Force && exists(result.Output) {
			result.Skipped = true
			slog.Info("target exists, skipped", "input", path, "output", result.Output)
			return result
		}
	}

	ride, err := ingest.Load(path)
	if err != nil {
		result.Err = err
		return result
	}

	cleaned := clean.Clean(ride.Samples, opts.Clean)
	ride.Samples = cleaned.Samples
	result.Ride = ride
	result.Stats = cleaned.Stats

	if opts.Dest != "" {
		if err := os.MkdirAll(opts.Dest, 0o755); err != nil {
			result.Err = fmt.Errorf("failed to create destination: %w", err)
			return result
		}
		result.Output = filepath.Join(opts.Dest, ride.ID())
		if !opts.Force && exists(result.Output) {
			result.Skipped = true
			slog.Info("target exists, skipped", "input", path, "output", result.Output)
			return result
		}
	}

	if owner, ok := written.claim(result.Output, path); !ok {
		result.Skipped = true
		slog.Warn("recording already written by this batch, skipped", "input", path, "output", result.Output, "written_by", owner)
		return result
	}

	write := location.CreateFile
	if opts.Force {
		write = location.WriteFile
	}
	if err := write(result.Output, ride.Samples); err != nil {
		if errors.Is(err, fs.ErrExist) {
			result.Skipped = true
			slog.Info("target exists, skipped", "input", path, "output", result.Output)
			return result
		}
		result.Err = fmt.Errorf("%s: %w", path, err)
		return result
	}

	slog.Debug("converted", "input", path, "output", result.Output, "samples", len(ride.Samples))
	return result
}

// Catalog builds the catalog entries of every decoded ride that has a title.
// Rides sharing an id are listed once, preferring the one that was written.
func Catalog(results []Result, minDistance float64) (location.Catalog, error) {
	chosen := make(map[string]int)
	var order []string
	for i, res := range results {
		if res.Err != nil || res.Ride == nil || res.Ride.Title == "" || len(res.Ride.Samples) == 0 {
			continue
		}
		id := res.Ride.ID()
		prev, seen := chosen[id]
		if !seen {
			order = append(order, id)
		}
		if !seen || (results[prev].Skipped && !res.Skipped) {
			chosen[id] = i
		}
	}

	entries := make([]location.Entry, 0, len(order))
	for _, id := range order {
		res := results[chosen[id]]
		sum, err := profile.Summarize(res.Ride.Samples, minDistance)
		if err != nil {
			return location.Catalog{}, fmt.Errorf("%s: %w", res.Input, err)
		}
		entries = append(entries, location.NewEntry(id, res.Ride.Title, res.Ride.Start, sum))
	}
	return location.BuildCatalog(entries), nil
}

// WriteCatalog stores the catalog of results into dest.
func WriteCatalog(dest string, results []Result, minDistance float64) (string, error) {
	cat, err := Catalog(results, minDistance)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dest, CatalogName)
	if err := location.WriteCatalog(path, cat); err != nil {
		return "", err
	}
	return path, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
