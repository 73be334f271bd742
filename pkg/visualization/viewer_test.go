package visualization

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"filmthickness/internal/models"
)

func createTestResult() *models.Result {
	var s models.Spectrum
	for i := 0; i <= 300; i++ {
		w := 1000 + float64(i)*10
		s.Wavenumber = append(s.Wavenumber, w)
		s.Reflectance = append(s.Reflectance, 30+10*math.Cos(2*math.Pi*float64(i)/60))
	}

	return &models.Result{
		FilePath:      filepath.Join("data", "film.csv"),
		IncidentAngle: 10,
		Spectrum:      s,
		Maxima: models.ExtremumSet{Kind: models.Maxima, Points: []models.Extremum{
			{Index: 60, Wavenumber: 1600, Reflectance: 40},
			{Index: 120, Wavenumber: 2200, Reflectance: 40},
		}},
		Minima: models.ExtremumSet{Kind: models.Minima, Points: []models.Extremum{
			{Index: 90, Wavenumber: 1900, Reflectance: 20},
		}},
	}
}

// TestNewViewer verifies that a new viewer is created with the correct parameters
func TestNewViewer(t *testing.T) {
	window := models.AnalysisWindow{Min: 1200, Max: 4000}
	viewer := NewViewer(640, 480, window)

	if viewer.width != 640 {
		t.Errorf("Expected width %d, got %d", 640, viewer.width)
	}
	if viewer.height != 480 {
		t.Errorf("Expected height %d, got %d", 480, viewer.height)
	}
	if viewer.window != window {
		t.Errorf("Expected window %v, got %v", window, viewer.window)
	}
}

// TestPlotText verifies the title and axis labels
func TestPlotText(t *testing.T) {
	viewer := NewViewer(640, 480, models.AnalysisWindow{Min: 1200, Max: 4000})

	p, err := viewer.Plot(createTestResult())
	if err != nil {
		t.Fatalf("Failed to build plot: %v", err)
	}

	wantTitle := filepath.Join("data", "film.csv") + " - incident angle 10°"
	if p.Title.Text != wantTitle {
		t.Errorf("Expected title %q, got %q", wantTitle, p.Title.Text)
	}
	if p.X.Label.Text != "Wavenumber (cm-1)" {
		t.Errorf("Unexpected x label %q", p.X.Label.Text)
	}
	if p.Y.Label.Text != "Reflectance (%)" {
		t.Errorf("Unexpected y label %q", p.Y.Label.Text)
	}
	if p.X.Min > 1000 || p.X.Max < 4000 {
		t.Errorf("Expected x range to cover the spectrum, got [%g, %g]", p.X.Min, p.X.Max)
	}
}

func TestAnnotations(t *testing.T) {
	r := createTestResult()

	if got := annotations(r.Maxima); !reflect.DeepEqual(got, []string{"Max1\n1600.0", "Max2\n2200.0"}) {
		t.Errorf("Unexpected maxima labels %q", got)
	}
	if got := annotations(r.Minima); !reflect.DeepEqual(got, []string{"Min1\n1900.0"}) {
		t.Errorf("Unexpected minima labels %q", got)
	}
	if got := legendName(models.Minima); got != "Minima" {
		t.Errorf("Expected legend name Minima, got %s", got)
	}
}

// TestRender verifies image size and that the spectrum is drawn
func TestRender(t *testing.T) {
	viewer := NewViewer(640, 480, models.AnalysisWindow{Min: 1200, Max: 4000})

	img, err := viewer.Render(createTestResult())
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 640 || bounds.Dy() != 480 {
		t.Errorf("Expected dimensions 640x480, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	blue := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if b > 0xc000 && r < 0x8000 && g < 0x8000 {
				blue++
			}
		}
	}
	if blue == 0 {
		t.Error("Expected spectrum line pixels in the image")
	}
}

// TestRenderInvalid verifies error handling for unusable inputs
func TestRenderInvalid(t *testing.T) {
	viewer := NewViewer(640, 480, models.AnalysisWindow{Min: 1200, Max: 4000})
	if _, err := viewer.Render(nil); err == nil {
		t.Error("Expected error for nil result, got nil")
	}
	if _, err := viewer.Render(&models.Result{}); err == nil {
		t.Error("Expected error for empty spectrum, got nil")
	}

	r := createTestResult()
	r.Spectrum.Reflectance[5] = math.NaN()
	if _, err := viewer.Render(r); err == nil {
		t.Error("Expected error for NaN reflectance, got nil")
	}

	small := NewViewer(50, 50, models.AnalysisWindow{Min: 1200, Max: 4000})
	if _, err := small.Render(createTestResult()); err == nil {
		t.Error("Expected error for tiny image, got nil")
	}
}

// TestSaveResults verifies that one decodable PNG is written per result
func TestSaveResults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	viewer := NewViewer(320, 240, models.AnalysisWindow{Min: 1200, Max: 4000})

	noExtrema := createTestResult()
	noExtrema.Maxima.Points = nil
	noExtrema.Minima.Points = nil

	files, err := viewer.SaveResults([]*models.Result{createTestResult(), noExtrema}, dir)
	if err != nil {
		t.Fatalf("Failed to save plots: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 files, got %d", len(files))
	}
	if filepath.Base(files[0]) != "plot_001_film_10deg.png" {
		t.Errorf("Unexpected file name %s", filepath.Base(files[0]))
	}

	f, err := os.Open(files[1])
	if err != nil {
		t.Fatalf("Failed to open plot: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode plot: %v", err)
	}
	if img.Bounds().Dx() != 320 {
		t.Errorf("Expected width 320, got %d", img.Bounds().Dx())
	}
}
