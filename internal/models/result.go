package models

// ThicknessDetail records the computation for a single adjacent extremum pair
type ThicknessDetail struct {
	// Pair holds the two wavenumbers (w0 < w1) in cm^-1
	Pair [2]float64 `yaml:"pair,flow"`

	// Order is the interference order solved at Pair[0]
	Order float64 `yaml:"order"`

	// ThicknessUM is the resulting film thickness in micrometers
	ThicknessUM float64 `yaml:"thicknessUm"`
}

// Estimate is the output of the thickness estimator for one extremum kind.
// An empty Estimate means no usable pair existed.
type Estimate struct {
	Kind        ExtremumKind      `yaml:"kind"`
	Thicknesses []float64         `yaml:"thicknesses,flow"`
	Details     []ThicknessDetail `yaml:"details"`
	Mean        float64           `yaml:"mean"`
	StdDev      float64           `yaml:"stdDev"`
}

// Empty reports whether no thickness sample was produced
func (e Estimate) Empty() bool {
	return len(e.Thicknesses) == 0
}

// Result aggregates everything computed for one dataset (file + incident angle).
// It is built once by the analyzer and treated as read-only afterwards.
type Result struct {
	FilePath      string  `yaml:"file"`
	IncidentAngle float64 `yaml:"incidentAngle"`

	// Spectrum is the raw spectrum as loaded
	Spectrum Spectrum `yaml:"-"`

	// Filtered is the sub-spectrum inside the analysis window
	Filtered Spectrum `yaml:"-"`

	// Baseline is the mean filtered reflectance used for height floors
	Baseline float64 `yaml:"baseline"`

	Maxima ExtremumSet `yaml:"maxima"`
	Minima ExtremumSet `yaml:"minima"`

	ForMaxima Estimate `yaml:"forMaxima"`
	ForMinima Estimate `yaml:"forMinima"`
}

// Thicknesses returns the maxima-based values followed by the minima-based values
func (r *Result) Thicknesses() []float64 {
	out := make([]float64, 0, len(r.ForMaxima.Thicknesses)+len(r.ForMinima.Thicknesses))
	out = append(out, r.ForMaxima.Thicknesses...)
	return append(out, r.ForMinima.Thicknesses...)
}

// RunSummary pools every thickness sample of a run
type RunSummary struct {
	Thicknesses []float64 `yaml:"thicknesses,flow"`
	Mean        float64   `yaml:"mean"`
	StdDev      float64   `yaml:"stdDev"`
}

// Count returns the number of pooled samples
func (s RunSummary) Count() int {
	return len(s.Thicknesses)
}
