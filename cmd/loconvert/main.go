package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/planbiir/gloc/internal/clean"
	"github.com/planbiir/gloc/internal/config"
	"github.com/planbiir/gloc/internal/convert"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		dest            = flag.String("dest", cfg.Dest, "Output directory (default: next to each input)")
		force           = flag.Bool("force", false, "Overwrite existing recordings")
		workers         = flag.Int("workers", cfg.Workers, "Number of files converted in parallel")
		autopause       = flag.Bool("autopause", false, "Drop samples detected as auto-paused")
		elevationWindow = flag.Int("elevation-window", cfg.ElevationWindow, "Median altitude smoothing window (0 disables)")
		minDistance     = flag.Float64("min-distance", cfg.MinDistance, "Grade threshold in meters for catalog summaries")
		verbose         = flag.Bool("v", false, "Verbose logging")
		version         = flag.Bool("version", false, "Show version information")
	)

	flag.Usage = func() {
		fmt.Printf("loconvert - Convert GPX, FIT and location files to location JSON\n\n")
		fmt.Printf("usage: loconvert [options] file...\n\n")
		fmt.Printf("examples:\n")
		fmt.Printf("  loconvert ride.gpx\n")
		fmt.Printf("  loconvert -dest rides/ export/*.fit\n")
		fmt.Printf("  GLOC_WORKERS=2 loconvert -autopause -dest rides/ export/*\n\n")
		fmt.Printf("options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Println("loconvert v0.3.0 - location recording converter")
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	config.InitLogger(os.Stderr, level)

	cleanCfg := clean.DefaultConfig()
	cleanCfg.DropPaused = *autopause
	cleanCfg.PauseSpeed = cfg.PauseSpeed
	cleanCfg.PauseDistance = cfg.PauseDistance
	cleanCfg.ElevationWindow = *elevationWindow

	opts := convert.Options{
		Dest:        *dest,
		Force:       *force,
		Workers:     *workers,
		Clean:       cleanCfg,
		MinDistance: *minDistance,
	}

	fmt.Printf("📖 Converting %d file(s) with %d worker(s)\n", flag.NArg(), opts.Workers)
	results := convert.Files(flag.Args(), opts)

	failed := 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "❌ %v\n", res.Err)
		case res.Skipped:
			fmt.Printf("⏭️  %s exists, skipping %s\n", res.Output, res.Input)
		default:
			printResult(res)
		}
	}

	if *dest != "" {
		path, err := convert.WriteCatalog(*dest, results, *minDistance)
		if err != nil {
			log.Fatalf("catalog: %v", err)
		}
		fmt.Printf("📚 Catalog written: %s\n", path)
	}

	if failed > 0 {
		fmt.Printf("⚠️  %d of %d file(s) failed\n", failed, len(results))
		os.Exit(1)
	}
	fmt.Printf("✅ Done!\n")
}

func printResult(res convert.Result) {
	fmt.Printf("💾 %s → %s\n", res.Input, res.Output)
	if res.Stats.PausedPoints > 0 {
		fmt.Printf("   %d → %d points (%d paused, %.1f%% removed)\n",
			res.Stats.OriginalPoints, res.Stats.FinalPoints, res.Stats.PausedPoints, res.Stats.PointsPercent)
	}
}
