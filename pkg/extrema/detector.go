// Package extrema locates interference-fringe maxima and minima in a filtered
// reflectance spectrum.
package extrema

import (
	"gonum.org/v1/gonum/floats"

	"filmthickness/internal/models"
	"filmthickness/pkg/logging"
	"filmthickness/pkg/preprocess"
)

// Params holds the independent tunables for each extremum kind
type Params struct {
	MaxProminence   float64
	MaxDistance     int
	MaxHeightFactor float64

	MinProminence   float64
	MinDistance     int
	MinHeightFactor float64
}

// Detector finds maxima and minima of a filtered spectrum
type Detector struct {
	params Params
	log    logging.Logger
}

// NewDetector creates a detector. A nil logger discards diagnostics.
func NewDetector(params Params, log logging.Logger) *Detector {
	if log == nil {
		log = logging.Nop()
	}
	return &Detector{params: params, log: log.With("detector")}
}

// Detect returns the maxima and minima of f in index order.
// Height floors are anchored to the baseline: maxima must reach
// baseline+MaxHeightFactor, minima must not exceed baseline+MinHeightFactor.
func (d *Detector) Detect(f preprocess.Filtered) (maxima, minima models.ExtremumSet) {
	refl := f.Spectrum.Reflectance

	maxHeight := f.Baseline + d.params.MaxHeightFactor
	maxIdx := FindPeaks(refl, PeakOptions{
		Height:     &maxHeight,
		Prominence: d.params.MaxProminence,
		Distance:   d.params.MaxDistance,
	})

	negated := floats.ScaleTo(make([]float64, len(refl)), -1, refl)
	minHeight := -(f.Baseline + d.params.MinHeightFactor)
	minIdx := FindPeaks(negated, PeakOptions{
		Height:     &minHeight,
		Prominence: d.params.MinProminence,
		Distance:   d.params.MinDistance,
	})

	maxima = collect(models.Maxima, f.Spectrum, maxIdx)
	minima = collect(models.Minima, f.Spectrum, minIdx)

	d.log.Debug("extrema detected", logging.Fields{
		"baseline": f.Baseline,
		"maxima":   maxima.Len(),
		"minima":   minima.Len(),
	})

	return maxima, minima
}

func collect(kind models.ExtremumKind, s models.Spectrum, idx []int) models.ExtremumSet {
	set := models.ExtremumSet{Kind: kind, Points: make([]models.Extremum, 0, len(idx))}
	for _, i := range idx {
		set.Points = append(set.Points, models.Extremum{
			Index:       i,
			Wavenumber:  s.Wavenumber[i],
			Reflectance: s.Reflectance[i],
		})
	}
	return set
}
