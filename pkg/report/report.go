// Package report presents run outcomes: a console summary, an append-only
// run log and a YAML export of every result.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"filmthickness/internal/models"
	"filmthickness/pkg/analysis"
	"filmthickness/pkg/thickness"
)

// TimestampFormat is ISO 8601 with millisecond precision and a numeric zone
const TimestampFormat = "2006-01-02T15:04:05.000-07:00"

// WriteSummary prints the pooled thickness values of a run.
// A run without samples prints a single "No valid thickness result" line.
func WriteSummary(w io.Writer, summary models.RunSummary) error {
	if summary.Count() == 0 {
		_, err := fmt.Fprintln(w, "No valid thickness result")
		return err
	}

	var b strings.Builder
	fmt.Fprintln(&b, "Results:")
	fmt.Fprintf(&b, "Total valid results: %d\n", summary.Count())
	fmt.Fprintf(&b, "Thickness values: %s\n", formatValues(summary.Thicknesses, 3))
	if summary.Count() > 1 {
		fmt.Fprintf(&b, "Estimated thickness: %.3f ± %.3f μm\n", summary.Mean, summary.StdDev)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteRunLog writes one run log entry: timestamp, pooled estimate, all values
// and per-dataset averages, followed by a blank line.
func WriteRunLog(w io.Writer, run analysis.Run, now time.Time) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Run time: %s\n", now.UTC().Format(TimestampFormat))
	if run.Summary.Count() > 1 {
		fmt.Fprintf(&b, "Estimated thickness: %.3f ± %.3f μm\n", run.Summary.Mean, run.Summary.StdDev)
	}
	fmt.Fprintf(&b, "All results: %s\n", formatValues(run.Summary.Thicknesses, -1))

	for _, r := range run.Results {
		fmt.Fprintf(&b, "Data file: %q, incident angle: %s\n", r.FilePath,
			strconv.FormatFloat(r.IncidentAngle, 'g', -1, 64))
		if !r.ForMaxima.Empty() {
			mean, sd := thickness.MeanStdDev(r.ForMaxima.Thicknesses)
			fmt.Fprintf(&b, "\tMean thickness from maxima: %.3f ± %.3f μm\n", mean, sd)
		}
		if !r.ForMinima.Empty() {
			mean, sd := thickness.MeanStdDev(r.ForMinima.Thicknesses)
			fmt.Fprintf(&b, "\tMean thickness from minima: %.3f ± %.3f μm\n", mean, sd)
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// AppendRunLog appends a run log entry to path. Runs without samples are not logged.
func AppendRunLog(path string, run analysis.Run, now time.Time) (bool, error) {
	if run.Summary.Count() == 0 {
		return false, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("error opening run log: %w", err)
	}

	if err := WriteRunLog(f, run, now); err != nil {
		f.Close()
		return false, fmt.Errorf("error writing run log: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("error closing run log: %w", err)
	}
	return true, nil
}

// Export is the YAML document written by ExportResults
type Export struct {
	GeneratedAt string            `yaml:"generatedAt"`
	Summary     models.RunSummary `yaml:"summary"`
	Results     []*models.Result  `yaml:"results"`
	Skipped     []Skipped         `yaml:"skipped,omitempty"`
}

// Skipped names a dataset without a result
type Skipped struct {
	File          string  `yaml:"file"`
	IncidentAngle float64 `yaml:"incidentAngle"`
	Reason        string  `yaml:"reason"`
}

// ExportResults writes the run to path as YAML
func ExportResults(path string, run analysis.Run, now time.Time) error {
	doc := Export{
		GeneratedAt: now.UTC().Format(TimestampFormat),
		Summary:     run.Summary,
		Results:     run.Results,
	}
	for _, f := range run.Failures {
		reason := ""
		if f.Err != nil {
			reason = f.Err.Error()
		}
		doc.Skipped = append(doc.Skipped, Skipped{
			File:          f.Dataset.Path,
			IncidentAngle: f.Dataset.IncidentAngle,
			Reason:        reason,
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating export directory: %w", err)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("error marshaling results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}
	return nil
}

// formatValues renders values as a bracketed list; prec < 0 keeps full precision
func formatValues(values []float64, prec int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', prec, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
