package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"filmthickness/pkg/thickness"
)

// writeSyntheticCSV writes a fringe spectrum of a film of thicknessUM
func writeSyntheticCSV(t *testing.T, dir string, thicknessUM, angleDeg float64) string {
	t.Helper()

	sinI := math.Sin(angleDeg * math.Pi / 180)
	tcm := thicknessUM / thickness.CentimetersToMicrometers

	var b strings.Builder
	b.WriteString("wavenumber,reflectance\n")
	for w := 1000.0; w <= 4200; w += 0.5 {
		n := thickness.RefractiveIndex(w)
		st := sinI / n
		phase := 2 * tcm * n * w * math.Sqrt(1-st*st)
		fmt.Fprintf(&b, "%g,%g\n", w, 30+10*math.Cos(2*math.Pi*phase))
	}

	path := filepath.Join(dir, fmt.Sprintf("film_%g.csv", angleDeg))
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("Failed to write spectrum: %v", err)
	}
	return path
}

func TestRunMismatchedInputs(t *testing.T) {
	code := run([]string{"-files", "a.csv,b.csv", "-angles", "10", "-run-log", ""})
	if code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
}

func TestRunInvalidOverride(t *testing.T) {
	code := run([]string{"-files", "a.csv", "-angles", "10", "-min-wavenumber", "5000"})
	if code != 2 {
		t.Errorf("Expected exit code 2, got %d", code)
	}
}

func TestRunWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	a := writeSyntheticCSV(t, dir, 5, 10)
	b := writeSyntheticCSV(t, dir, 5, 15)

	logPath := filepath.Join(dir, "calc.log")
	exportPath := filepath.Join(dir, "results.yaml")
	plotDir := filepath.Join(dir, "plots")

	code := run([]string{
		"-files", a, "-files", b + "," + filepath.Join(dir, "missing.csv"),
		"-angles", "10,15,20",
		"-workers", "2",
		"-run-log", logPath,
		"-export", exportPath,
		"-plot-dir", plotDir,
		"-log-format", "json",
	})
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Expected run log: %v", err)
	}
	m := regexp.MustCompile(`Estimated thickness: ([0-9.]+) ±`).FindStringSubmatch(string(data))
	if m == nil {
		t.Fatalf("Expected pooled estimate in run log, got:\n%s", data)
	}
	if v, _ := strconv.ParseFloat(m[1], 64); math.Abs(v-5) > 0.02 {
		t.Errorf("Expected pooled estimate near 5 um, got %s", m[1])
	}
	if strings.Contains(string(data), "missing.csv") {
		t.Error("Skipped dataset must not appear in the run log")
	}

	if _, err := os.Stat(exportPath); err != nil {
		t.Errorf("Expected export file: %v", err)
	}

	plots, err := filepath.Glob(filepath.Join(plotDir, "*.png"))
	if err != nil || len(plots) != 2 {
		t.Errorf("Expected 2 plots, got %v (%v)", plots, err)
	}
}

func TestRunWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if code := run([]string{"-write-config", path}); code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file: %v", err)
	}
}

func TestRunFringes(t *testing.T) {
	if code := run([]string{"-fringes", "5", "-angles", "0,10"}); code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
}

func TestFloatListRejectsText(t *testing.T) {
	var f floatList
	if err := f.Set("10,abc"); err == nil {
		t.Error("Expected error for non-numeric angle")
	}
	if err := f.Set("1.5, 2"); err != nil || len(f) != 3 {
		t.Errorf("Expected three parsed angles, got %v (%v)", f, err)
	}
}
