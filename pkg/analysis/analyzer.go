// Package analysis runs the thickness pipeline for one or many datasets.
//
// For each dataset (a spectrum file plus its incident angle) the Analyzer
// loads the spectrum, filters it to the analysis window, detects maxima and
// minima, and estimates the film thickness from both extremum kinds. A dataset
// that cannot be loaded or has too little in-window data produces no Result;
// the run continues with the remaining datasets.
package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"filmthickness/internal/models"
	"filmthickness/pkg/extrema"
	"filmthickness/pkg/logging"
	"filmthickness/pkg/preprocess"
	"filmthickness/pkg/thickness"
)

// ErrMismatchedInputs is returned when files and angles are not one-to-one
var ErrMismatchedInputs = errors.New("files and angles must have the same length")

// Loader reads a spectrum from a file
type Loader interface {
	Load(path string) (models.Spectrum, error)
}

// Dataset pairs a spectrum file with its incident angle in degrees
type Dataset struct {
	Path          string
	IncidentAngle float64
}

// NewDatasets zips parallel file and angle lists
func NewDatasets(files []string, angles []float64) ([]Dataset, error) {
	if len(files) != len(angles) {
		return nil, fmt.Errorf("%w: %d files, %d angles", ErrMismatchedInputs, len(files), len(angles))
	}
	out := make([]Dataset, len(files))
	for i := range files {
		out[i] = Dataset{Path: files[i], IncidentAngle: angles[i]}
	}
	return out, nil
}

// Params configures the Analyzer
type Params struct {
	Window    models.AnalysisWindow
	Detection extrema.Params

	// Workers is the number of datasets analyzed concurrently; values below 1 mean 1
	Workers int
}

// Analyzer runs the per-dataset pipeline
type Analyzer struct {
	params    Params
	loader    Loader
	detector  *extrema.Detector
	estimator *thickness.Estimator
	log       logging.Logger
}

// NewAnalyzer creates an analyzer. A nil logger discards diagnostics.
func NewAnalyzer(params Params, loader Loader, log logging.Logger) (*Analyzer, error) {
	if err := params.Window.Validate(); err != nil {
		return nil, err
	}
	if loader == nil {
		return nil, errors.New("analysis: loader is required")
	}
	if log == nil {
		log = logging.Nop()
	}
	if params.Workers < 1 {
		params.Workers = 1
	}

	return &Analyzer{
		params:    params,
		loader:    loader,
		detector:  extrema.NewDetector(params.Detection, log),
		estimator: thickness.NewEstimator(log),
		log:       log.With("analyzer"),
	}, nil
}

// Analyze loads and analyzes one dataset. A nil Result means the dataset
// contributes nothing; the error explains why.
func (a *Analyzer) Analyze(path string, incidentAngle float64) (*models.Result, error) {
	a.log.Debug("reading data", logging.Fields{"file": path})

	spectrum, err := a.loader.Load(path)
	if err != nil {
		a.log.Error("failed to read file", err, logging.Fields{"file": path})
		return nil, fmt.Errorf("load %q: %w", path, err)
	}

	if spectrum.Len() > 0 {
		a.log.Debug("file read", logging.Fields{
			"file":             path,
			"points":           spectrum.Len(),
			"wavenumberRange":  [2]float64{floats.Min(spectrum.Wavenumber), floats.Max(spectrum.Wavenumber)},
			"reflectanceRange": [2]float64{floats.Min(spectrum.Reflectance), floats.Max(spectrum.Reflectance)},
		})
	}

	return a.AnalyzeSpectrum(path, incidentAngle, spectrum)
}

// AnalyzeSpectrum runs the pipeline on an already loaded spectrum
func (a *Analyzer) AnalyzeSpectrum(path string, incidentAngle float64, spectrum models.Spectrum) (*models.Result, error) {
	filtered, err := preprocess.Filter(spectrum, a.params.Window)
	if errors.Is(err, preprocess.ErrInsufficientData) {
		a.log.Warn("too few data points, extrema cannot be detected", logging.Fields{
			"file":   path,
			"points": filtered.Spectrum.Len(),
			"window": [2]float64{a.params.Window.Min, a.params.Window.Max},
		})
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	if err != nil {
		a.log.Error("invalid spectrum", err, logging.Fields{"file": path})
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	maxima, minima := a.detector.Detect(filtered)

	a.log.Debug("computing thickness", logging.Fields{"file": path, "angle": incidentAngle})
	forMax := a.estimator.Estimate(maxima.Wavenumbers(), incidentAngle, models.Maxima)
	forMin := a.estimator.Estimate(minima.Wavenumbers(), incidentAngle, models.Minima)

	return &models.Result{
		FilePath:      path,
		IncidentAngle: incidentAngle,
		Spectrum:      spectrum,
		Filtered:      filtered.Spectrum,
		Baseline:      filtered.Baseline,
		Maxima:        maxima,
		Minima:        minima,
		ForMaxima:     forMax,
		ForMinima:     forMin,
	}, nil
}
