package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"filmthickness/internal/models"
	"filmthickness/pkg/analysis"
	"filmthickness/pkg/config"
	"filmthickness/pkg/extrema"
	"filmthickness/pkg/loader"
	"filmthickness/pkg/logging"
	"filmthickness/pkg/report"
	"filmthickness/pkg/thickness"
	"filmthickness/pkg/visualization"
)

// stringList collects repeated or comma separated string flags
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// floatList collects repeated or comma separated float flags
type floatList []float64

func (f *floatList) String() string {
	parts := make([]string, len(*f))
	for i, v := range *f {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (f *floatList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		x, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return fmt.Errorf("invalid angle %q", part)
		}
		*f = append(*f, x)
	}
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("filmthickness", flag.ContinueOnError)

	var files stringList
	var angles floatList
	fs.Var(&files, "files", "Spectrum files (CSV or XLSX), repeat or separate with commas")
	fs.Var(&angles, "angles", "Incident angle in degrees for each file, in the same order")

	configPath := fs.String("config", "", "YAML configuration file")
	writeConfig := fs.String("write-config", "", "Write the default configuration to this path and exit")
	debug := fs.Bool("debug", false, "Show detailed diagnostics")
	fs.BoolVar(debug, "d", false, "Shorthand for -debug")
	fringes := fs.Float64("fringes", 0, "Print predicted extremum wavenumbers for this thickness (um) at each angle and exit")

	// overrides; only applied when set explicitly
	minWave := fs.Float64("min-wavenumber", 0, "Lower bound of the analysis window (cm^-1)")
	maxWave := fs.Float64("max-wavenumber", 0, "Upper bound of the analysis window (cm^-1)")
	minProm := fs.Float64("min-prominence", 0, "Prominence floor for minima")
	maxProm := fs.Float64("max-prominence", 0, "Prominence floor for maxima")
	minDist := fs.Int("min-distance", 0, "Minimum index separation between minima")
	maxDist := fs.Int("max-distance", 0, "Minimum index separation between maxima")
	minHeight := fs.Float64("min-height-factor", 0, "Baseline offset bounding minima from above")
	maxHeight := fs.Float64("max-height-factor", 0, "Baseline offset bounding maxima from below")
	workers := fs.Int("workers", 0, "Number of datasets analyzed concurrently")
	logFormat := fs.String("log-format", "", "Diagnostic log format: console or json")
	runLog := fs.String("run-log", "", "Append-only run log file")
	exportFile := fs.String("export", "", "Write all results to this YAML file")
	plotDir := fs.String("plot-dir", "", "Write one PNG plot per dataset into this directory")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			return 1
		}
		fmt.Printf("Default configuration written to %s\n", *writeConfig)
		return 0
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 2
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-wavenumber":
			cfg.Detection.MinWavenumber = *minWave
		case "max-wavenumber":
			cfg.Detection.MaxWavenumber = *maxWave
		case "min-prominence":
			cfg.Detection.MinProminence = *minProm
		case "max-prominence":
			cfg.Detection.MaxProminence = *maxProm
		case "min-distance":
			cfg.Detection.MinDistance = *minDist
		case "max-distance":
			cfg.Detection.MaxDistance = *maxDist
		case "min-height-factor":
			cfg.Detection.MinHeightFactor = *minHeight
		case "max-height-factor":
			cfg.Detection.MaxHeightFactor = *maxHeight
		case "workers":
			cfg.Processing.Workers = *workers
		case "log-format":
			cfg.Output.LogFormat = *logFormat
		case "run-log":
			cfg.Output.RunLog = *runLog
		case "export":
			cfg.Output.ExportFile = *exportFile
		case "plot-dir":
			cfg.Output.PlotDir = *plotDir
		case "debug", "d":
			cfg.Output.Verbose = *debug
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	if *fringes > 0 {
		return printFringes(*fringes, angles, cfg.Window())
	}

	datasets, err := analysis.NewDatasets(files, angles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "'-files' and '-angles' must correspond one to one: %v\n", err)
		return 2
	}
	if len(datasets) == 0 {
		fs.Usage()
		return 2
	}

	log := logging.New(os.Stderr, logging.Format(cfg.Output.LogFormat), cfg.Output.Verbose)
	log.Debug("configuration", logging.Fields{
		"window":     [2]float64{cfg.Detection.MinWavenumber, cfg.Detection.MaxWavenumber},
		"prominence": [2]float64{cfg.Detection.MinProminence, cfg.Detection.MaxProminence},
		"distance":   [2]int{cfg.Detection.MinDistance, cfg.Detection.MaxDistance},
		"height":     [2]float64{cfg.Detection.MinHeightFactor, cfg.Detection.MaxHeightFactor},
		"workers":    cfg.Processing.Workers,
	})

	analyzer, err := analysis.NewAnalyzer(analysis.Params{
		Window: cfg.Window(),
		Detection: extrema.Params{
			MaxProminence:   cfg.Detection.MaxProminence,
			MaxDistance:     cfg.Detection.MaxDistance,
			MaxHeightFactor: cfg.Detection.MaxHeightFactor,
			MinProminence:   cfg.Detection.MinProminence,
			MinDistance:     cfg.Detection.MinDistance,
			MinHeightFactor: cfg.Detection.MinHeightFactor,
		},
		Workers: cfg.Processing.Workers,
	}, loader.New(), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	startTime := time.Now()
	result := analyzer.Run(datasets)

	if err := report.WriteSummary(os.Stdout, result.Summary); err != nil {
		log.Error("failed to print summary", err, nil)
	}

	for _, f := range result.Failures {
		fmt.Printf("Skipped %q (angle %g): %v\n", f.Dataset.Path, f.Dataset.IncidentAngle, f.Err)
	}

	if cfg.Output.RunLog != "" {
		written, err := report.AppendRunLog(cfg.Output.RunLog, result, time.Now())
		if err != nil {
			log.Error("failed to write run log", err, logging.Fields{"file": cfg.Output.RunLog})
		} else if written {
			fmt.Printf("Calculation finished, results saved to '%s'\n", cfg.Output.RunLog)
		}
	}

	if cfg.Output.ExportFile != "" {
		if err := report.ExportResults(cfg.Output.ExportFile, result, time.Now()); err != nil {
			log.Error("failed to export results", err, logging.Fields{"file": cfg.Output.ExportFile})
		} else {
			fmt.Printf("Results exported to %s\n", cfg.Output.ExportFile)
		}
	}

	if cfg.Output.PlotDir != "" && len(result.Results) > 0 {
		viewer := visualization.NewViewer(cfg.Output.PlotWidth, cfg.Output.PlotHeight, cfg.Window())
		written, err := viewer.SaveResults(result.Results, cfg.Output.PlotDir)
		if err != nil {
			log.Error("failed to save plots", err, logging.Fields{"dir": cfg.Output.PlotDir})
		}
		if len(written) > 0 {
			fmt.Printf("%d plot(s) saved to %s\n", len(written), cfg.Output.PlotDir)
		}
	}

	log.Debug("done", logging.Fields{"elapsed": time.Since(startTime).String()})
	return 0
}

// printFringes lists the predicted extremum positions of a film of the given
// thickness, which is useful for choosing detection parameters.
func printFringes(thicknessUM float64, angles []float64, window models.AnalysisWindow) int {
	if len(angles) == 0 {
		angles = []float64{0}
	}

	for _, angle := range angles {
		fmt.Printf("Thickness %.3f μm, incident angle %g°:\n", thicknessUM, angle)
		for _, kind := range []models.ExtremumKind{models.Maxima, models.Minima} {
			w, err := thickness.Fringes(thicknessUM, angle, kind, window)
			if err != nil && !errors.Is(err, thickness.ErrNoFringe) {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				return 2
			}
			parts := make([]string, len(w))
			for i, v := range w {
				parts[i] = strconv.FormatFloat(v, 'f', 1, 64)
			}
			fmt.Printf("\t%s: [%s]\n", kind, strings.Join(parts, ", "))
		}
	}
	return 0
}
