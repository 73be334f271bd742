package models

import (
	"fmt"
	"sort"
)

// Spectrum is an infrared reflectance spectrum as two index-aligned sequences
type Spectrum struct {
	// Wavenumber values in cm^-1
	Wavenumber []float64

	// Reflectance values in percent
	Reflectance []float64
}

// Len returns the number of samples in the spectrum
func (s Spectrum) Len() int {
	return len(s.Wavenumber)
}

// Validate checks that both sequences have the same length
func (s Spectrum) Validate() error {
	if len(s.Wavenumber) != len(s.Reflectance) {
		return fmt.Errorf("spectrum has %d wavenumbers but %d reflectance values",
			len(s.Wavenumber), len(s.Reflectance))
	}
	return nil
}

// AnalysisWindow is the closed wavenumber interval searched for extrema
type AnalysisWindow struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Validate requires Min < Max
func (w AnalysisWindow) Validate() error {
	if !(w.Min < w.Max) {
		return fmt.Errorf("analysis window [%g, %g] is empty", w.Min, w.Max)
	}
	return nil
}

// Contains reports whether wavenumber lies in the window, bounds included
func (w AnalysisWindow) Contains(wavenumber float64) bool {
	return wavenumber >= w.Min && wavenumber <= w.Max
}

// ExtremumKind selects maxima- or minima-based interference order bookkeeping
type ExtremumKind int

const (
	Maxima ExtremumKind = iota
	Minima
)

// Offset is the half-order shift between constructive and destructive
// interference conditions: 0 for maxima, 0.5 for minima.
func (k ExtremumKind) Offset() float64 {
	if k == Minima {
		return 0.5
	}
	return 0
}

func (k ExtremumKind) String() string {
	switch k {
	case Maxima:
		return "max"
	case Minima:
		return "min"
	default:
		return fmt.Sprintf("ExtremumKind(%d)", int(k))
	}
}

// MarshalYAML writes the kind as its short name
func (k ExtremumKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Extremum is one detected fringe position
type Extremum struct {
	// Index into the filtered spectrum
	Index       int     `yaml:"index"`
	Wavenumber  float64 `yaml:"wavenumber"`
	Reflectance float64 `yaml:"reflectance"`
}

// ExtremumSet holds the extrema of one kind in detection (index) order
type ExtremumSet struct {
	Kind   ExtremumKind `yaml:"kind"`
	Points []Extremum   `yaml:"points"`
}

// Len returns the number of extrema
func (e ExtremumSet) Len() int {
	return len(e.Points)
}

// Wavenumbers returns the wavenumbers in detection order
func (e ExtremumSet) Wavenumbers() []float64 {
	out := make([]float64, len(e.Points))
	for i, p := range e.Points {
		out[i] = p.Wavenumber
	}
	return out
}

// Reflectances returns the reflectance values in detection order
func (e ExtremumSet) Reflectances() []float64 {
	out := make([]float64, len(e.Points))
	for i, p := range e.Points {
		out[i] = p.Reflectance
	}
	return out
}

// SortedWavenumbers returns an ascending copy of the wavenumbers
func (e ExtremumSet) SortedWavenumbers() []float64 {
	out := e.Wavenumbers()
	sort.Float64s(out)
	return out
}
