// Package preprocess restricts a spectrum to the analysis window and computes
// the baseline reflectance that anchors extremum height floors.
package preprocess

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"filmthickness/internal/models"
)

// MinPoints is the smallest number of in-window samples extremum detection accepts
const MinPoints = 10

// ErrInsufficientData is returned when too few samples survive window filtering
var ErrInsufficientData = errors.New("insufficient data in analysis window")

// Filtered is the in-window part of a spectrum
type Filtered struct {
	Spectrum models.Spectrum

	// Baseline is the arithmetic mean of the filtered reflectance
	Baseline float64
}

// Filter keeps the samples whose wavenumber lies within window (inclusive),
// preserving their original order.
func Filter(s models.Spectrum, window models.AnalysisWindow) (Filtered, error) {
	if err := s.Validate(); err != nil {
		return Filtered{}, err
	}

	var out models.Spectrum
	for i, w := range s.Wavenumber {
		if window.Contains(w) {
			out.Wavenumber = append(out.Wavenumber, w)
			out.Reflectance = append(out.Reflectance, s.Reflectance[i])
		}
	}

	if out.Len() < MinPoints {
		return Filtered{Spectrum: out}, fmt.Errorf("%w: %d points in [%g, %g], need %d",
			ErrInsufficientData, out.Len(), window.Min, window.Max, MinPoints)
	}

	return Filtered{
		Spectrum: out,
		Baseline: stat.Mean(out.Reflectance, nil),
	}, nil
}
