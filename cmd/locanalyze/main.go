package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/planbiir/gloc/internal/analysis"
	"github.com/planbiir/gloc/internal/chart"
	"github.com/planbiir/gloc/internal/config"
	"github.com/planbiir/gloc/internal/ingest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		plot            = flag.String("plot", "grade-by-time", "Chart kind: "+strings.Join(analysis.Kinds(), ", "))
		minDistance     = flag.Float64("min-distance", cfg.MinDistance, "Grade threshold in meters")
		compareDistance = flag.Float64("compare-distance", cfg.CompareDistance, "Second grade threshold in meters")
		format          = flag.String("format", "json", "Output format: json or csv")
		output          = flag.String("o", "", "Output file (default: stdout)")
		printN          = flag.Int("print", 0, "Print the first N values of every line instead of writing charts")
		verbose         = flag.Bool("v", false, "Verbose logging")
	)

	flag.Usage = func() {
		fmt.Printf("locanalyze - Chart speed, distance, altitude and grade of a recording\n\n")
		fmt.Printf("usage: locanalyze [options] file\n\n")
		fmt.Printf("examples:\n")
		fmt.Printf("  locanalyze -plot altitude-vs-grade ride.json\n")
		fmt.Printf("  locanalyze -plot speed -format csv -o speed.csv ride.gpx\n")
		fmt.Printf("  locanalyze -plot grade-by-distance -print 10 ride.fit\n\n")
		fmt.Printf("options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if *format != "json" && *format != "csv" {
		log.Fatalf("unknown format %q", *format)
	}

	level := cfg.Level()
	if *verbose {
		level = slog.LevelDebug
	}
	config.InitLogger(os.Stderr, level)

	ride, err := ingest.Load(flag.Arg(0))
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	slog.Debug("loaded recording", "path", flag.Arg(0), "samples", len(ride.Samples))

	params := analysis.Params{MinDistance: *minDistance, CompareDistance: *compareDistance}
	charts, err := analysis.Build(*plot, ride.Samples, params)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		w = f
	}

	if *printN > 0 {
		chart.PrintValues(w, charts, *printN)
		return
	}

	switch *format {
	case "csv":
		err = chart.WriteCSV(w, charts)
	default:
		err = chart.WriteJSON(w, charts)
	}
	if err != nil {
		log.Fatalf("write: %v", err)
	}
}
