// Package thickness converts interference-fringe positions into film thickness.
//
// Adjacent extrema of the same kind are one interference order apart. For a pair
// (w0, w1) with term(w) = n(w)·w·cosθ(w) the order at w0 is
//
//	m = [(1+offset)·term(w0) − offset·term(w1)] / (term(w1) − term(w0))
//
// and the thickness is (m+offset) / (2·term(w0)), where offset is 0 for maxima
// and 0.5 for minima.
package thickness

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"filmthickness/internal/models"
	"filmthickness/pkg/logging"
)

// Dispersion constants of the film material
const (
	DispersionA = 2.6161
	DispersionC = 2.823e-10
)

// DegenerateThreshold is the denominator magnitude below which a pair is flagged
const DegenerateThreshold = 1e-10

// CentimetersToMicrometers converts thickness units
const CentimetersToMicrometers = 1e4

// RefractiveIndex returns n(w) = A + C·w² for a wavenumber in cm^-1
func RefractiveIndex(wavenumber float64) float64 {
	return DispersionA + DispersionC*wavenumber*wavenumber
}

// refraction returns sinθ and cosθ inside a film of index n. ok is false on
// total internal reflection.
func refraction(n, sinIncident float64) (sinTheta, cosTheta float64, ok bool) {
	sinTheta = sinIncident / n
	if sinTheta > 1 {
		return sinTheta, 0, false
	}
	return sinTheta, math.Sqrt(1 - sinTheta*sinTheta), true
}

// Estimator computes thickness estimates from extremum wavenumbers
type Estimator struct {
	log   logging.Logger
	index func(wavenumber float64) float64
}

// NewEstimator creates an estimator. A nil logger discards diagnostics.
func NewEstimator(log logging.Logger) *Estimator {
	if log == nil {
		log = logging.Nop()
	}
	return &Estimator{log: log.With("estimator"), index: RefractiveIndex}
}

// Estimate computes one thickness sample per adjacent pair of the sorted
// wavenumbers. Pairs hitting total internal reflection are skipped. Fewer than
// two wavenumbers, or no usable pair, yield an empty Estimate.
func (e *Estimator) Estimate(wavenumbers []float64, incidentAngleDeg float64, kind models.ExtremumKind) models.Estimate {
	est := models.Estimate{Kind: kind}

	if len(wavenumbers) < 2 {
		e.log.Info("too few extrema to compute thickness", logging.Fields{
			"kind":  kind.String(),
			"count": len(wavenumbers),
		})
		return est
	}

	w := make([]float64, len(wavenumbers))
	copy(w, wavenumbers)
	sort.Float64s(w)

	sinIncident := math.Sin(incidentAngleDeg * math.Pi / 180)
	offset := kind.Offset()

	for i := 0; i+1 < len(w); i++ {
		w0, w1 := w[i], w[i+1]

		n0, n1 := e.index(w0), e.index(w1)
		sin0, cos0, ok0 := refraction(n0, sinIncident)
		sin1, cos1, ok1 := refraction(n1, sinIncident)
		if !ok0 || !ok1 {
			e.log.Debug("total internal reflection, pair skipped", logging.Fields{
				"pair":     i + 1,
				"w0":       w0,
				"w1":       w1,
				"sinTheta": [2]float64{sin0, sin1},
			})
			continue
		}

		term0 := n0 * w0 * cos0
		term1 := n1 * w1 * cos1

		denominator := term1 - term0
		if math.Abs(denominator) < DegenerateThreshold {
			e.log.Warn("denominator close to zero, result is unstable", logging.Fields{
				"pair":        i + 1,
				"w0":          w0,
				"w1":          w1,
				"denominator": denominator,
			})
		}

		order := ((1+offset)*term0 - offset*term1) / denominator
		thicknessUM := (order + offset) / (2 * term0) * CentimetersToMicrometers

		detail := models.ThicknessDetail{
			Pair:        [2]float64{w0, w1},
			Order:       order,
			ThicknessUM: thicknessUM,
		}
		est.Thicknesses = append(est.Thicknesses, thicknessUM)
		est.Details = append(est.Details, detail)

		e.log.Debug("pair computed", logging.Fields{
			"pair":        i + 1,
			"w0":          w0,
			"w1":          w1,
			"n":           [2]float64{n0, n1},
			"cosTheta":    [2]float64{cos0, cos1},
			"order":       order,
			"thicknessUm": thicknessUM,
		})
	}

	if est.Empty() {
		e.log.Info("no valid thickness result", logging.Fields{"kind": kind.String()})
		return est
	}

	est.Mean, est.StdDev = MeanStdDev(est.Thicknesses)

	e.log.Info("thickness summary", logging.Fields{
		"kind":   kind.String(),
		"count":  len(est.Thicknesses),
		"mean":   est.Mean,
		"stdDev": est.StdDev,
	})

	return est
}

// MeanStdDev returns the mean and sample standard deviation of values.
// The standard deviation is 0 for fewer than two values, the mean is 0 for none.
func MeanStdDev(values []float64) (mean, stdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)
	if len(values) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(values, nil)
}
