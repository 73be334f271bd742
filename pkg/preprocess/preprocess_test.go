package preprocess

import (
	"errors"
	"math"
	"testing"

	"filmthickness/internal/models"
)

func rampSpectrum(start, step float64, n int) models.Spectrum {
	s := models.Spectrum{
		Wavenumber:  make([]float64, n),
		Reflectance: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.Wavenumber[i] = start + float64(i)*step
		s.Reflectance[i] = float64(i)
	}
	return s
}

func TestFilterExcludesOutOfWindow(t *testing.T) {
	// 1000, 1100, ..., 4100
	s := rampSpectrum(1000, 100, 32)
	window := models.AnalysisWindow{Min: 1200, Max: 4000}

	f, err := Filter(s, window)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if f.Spectrum.Len() != 29 {
		t.Fatalf("Expected 29 points, got %d", f.Spectrum.Len())
	}
	if f.Spectrum.Wavenumber[0] != 1200 {
		t.Errorf("Expected first wavenumber 1200, got %g", f.Spectrum.Wavenumber[0])
	}
	if last := f.Spectrum.Wavenumber[f.Spectrum.Len()-1]; last != 4000 {
		t.Errorf("Expected last wavenumber 4000, got %g", last)
	}
	for _, w := range f.Spectrum.Wavenumber {
		if w == 1000 || w == 1100 || w == 4100 {
			t.Errorf("Wavenumber %g should have been filtered out", w)
		}
	}

	// reflectance indices 2..30 → mean 16
	if math.Abs(f.Baseline-16) > 1e-12 {
		t.Errorf("Expected baseline 16, got %g", f.Baseline)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	s := rampSpectrum(4000, -100, 32)
	f, err := Filter(s, models.AnalysisWindow{Min: 1200, Max: 4000})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i := 1; i < f.Spectrum.Len(); i++ {
		if f.Spectrum.Wavenumber[i] >= f.Spectrum.Wavenumber[i-1] {
			t.Fatalf("Expected descending order to be preserved at %d", i)
		}
		if f.Spectrum.Reflectance[i] != f.Spectrum.Reflectance[i-1]+1 {
			t.Fatalf("Reflectance misaligned at %d", i)
		}
	}
}

func TestFilterInsufficientData(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want bool
	}{
		{"nine points", 9, true},
		{"ten points", 10, false},
		{"empty", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rampSpectrum(1500, 1, tt.n)
			_, err := Filter(s, models.AnalysisWindow{Min: 1200, Max: 4000})
			if got := errors.Is(err, ErrInsufficientData); got != tt.want {
				t.Errorf("Expected insufficient=%v, got err %v", tt.want, err)
			}
		})
	}
}

func TestFilterRejectsMisalignedSpectrum(t *testing.T) {
	s := models.Spectrum{Wavenumber: []float64{1, 2}, Reflectance: []float64{1}}
	if _, err := Filter(s, models.AnalysisWindow{Min: 0, Max: 10}); err == nil {
		t.Error("Expected error for misaligned spectrum, got nil")
	}
}
