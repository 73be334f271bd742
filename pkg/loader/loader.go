// Package loader reads reflectance spectra from delimited text and spreadsheet files.
// The first column is the wavenumber (cm^-1) and the second the reflectance (%).
// Leading rows that are not numeric are treated as headers.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"filmthickness/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for extensions the loader cannot dispatch
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMalformed is returned when the file content is not a two-column numeric table
	ErrMalformed = errors.New("malformed spectrum data")
)

// FileLoader dispatches on the file extension
type FileLoader struct{}

// New returns a FileLoader
func New() *FileLoader {
	return &FileLoader{}
}

// Load reads the spectrum stored at path
func (l *FileLoader) Load(path string) (models.Spectrum, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadSpreadsheet(path)
	case ".xls":
		return models.Spectrum{}, fmt.Errorf("%w: legacy .xls files are not readable, save %q as .xlsx",
			ErrUnsupportedFormat, path)
	case ".csv", ".txt", ".tsv", "":
		return loadDelimited(path)
	default:
		return models.Spectrum{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

func loadDelimited(path string) (models.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Spectrum{}, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Spectrum{}, fmt.Errorf("%w: %q: %v", ErrMalformed, path, err)
		}
		rows = append(rows, record)
	}

	return parseRows(path, rows)
}

func loadSpreadsheet(path string) (models.Spectrum, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.Spectrum{}, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.Spectrum{}, fmt.Errorf("%w: %q has no sheets", ErrMalformed, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return models.Spectrum{}, fmt.Errorf("failed to read sheet %q of %q: %w", sheets[0], path, err)
	}

	return parseRows(path, rows)
}

// parseRows converts the first two columns of rows into a spectrum
func parseRows(path string, rows [][]string) (models.Spectrum, error) {
	var s models.Spectrum
	seenData := false

	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if len(row) < 2 {
			return models.Spectrum{}, fmt.Errorf("%w: %q row %d has %d columns", ErrMalformed, path, i+1, len(row))
		}

		w, errW := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		r, errR := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if errW != nil || errR != nil {
			if !seenData {
				// header
				continue
			}
			return models.Spectrum{}, fmt.Errorf("%w: %q row %d is not numeric", ErrMalformed, path, i+1)
		}

		if !isFinite(w) || !isFinite(r) {
			return models.Spectrum{}, fmt.Errorf("%w: %q row %d has a non-finite value", ErrMalformed, path, i+1)
		}

		seenData = true
		s.Wavenumber = append(s.Wavenumber, w)
		s.Reflectance = append(s.Reflectance, r)
	}

	if s.Len() == 0 {
		return models.Spectrum{}, fmt.Errorf("%w: %q contains no numeric rows", ErrMalformed, path)
	}

	return s, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
