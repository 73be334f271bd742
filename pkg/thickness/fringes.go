package thickness

import (
	"errors"
	"math"

	"filmthickness/internal/models"
)

// ErrNoFringe is returned when the requested order has no real solution
var ErrNoFringe = errors.New("no fringe for requested order")

// phase returns 2·t·term(w) − offset, which is an integer exactly at the
// extrema of the given kind.
func phase(wavenumber, thicknessCM, sinIncident, offset float64) (float64, bool) {
	n := RefractiveIndex(wavenumber)
	_, cosTheta, ok := refraction(n, sinIncident)
	if !ok {
		return 0, false
	}
	return 2*thicknessCM*n*wavenumber*cosTheta - offset, true
}

// Fringes returns the wavenumbers inside window at which a film of the given
// thickness shows extrema of the given kind, in ascending order.
func Fringes(thicknessUM, incidentAngleDeg float64, kind models.ExtremumKind, window models.AnalysisWindow) ([]float64, error) {
	if thicknessUM <= 0 {
		return nil, errors.New("thickness must be positive")
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	tcm := thicknessUM / CentimetersToMicrometers
	sinIncident := math.Sin(incidentAngleDeg * math.Pi / 180)
	offset := kind.Offset()

	lo, okLo := phase(window.Min, tcm, sinIncident, offset)
	hi, okHi := phase(window.Max, tcm, sinIncident, offset)
	if !okLo || !okHi {
		return nil, ErrNoFringe
	}

	var out []float64
	for order := math.Ceil(lo); order <= hi; order++ {
		w, err := FringeWavenumber(thicknessUM, incidentAngleDeg, kind, order, window)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// FringeWavenumber solves for the wavenumber inside window at which the given
// interference order occurs. The phase is monotonic in the wavenumber, so the
// root is bracketed and found by bisection.
func FringeWavenumber(thicknessUM, incidentAngleDeg float64, kind models.ExtremumKind, order float64, window models.AnalysisWindow) (float64, error) {
	tcm := thicknessUM / CentimetersToMicrometers
	sinIncident := math.Sin(incidentAngleDeg * math.Pi / 180)
	offset := kind.Offset()

	f := func(w float64) (float64, bool) {
		p, ok := phase(w, tcm, sinIncident, offset)
		return p - order, ok
	}

	a, b := window.Min, window.Max
	fa, okA := f(a)
	fb, okB := f(b)
	if !okA || !okB || fa > 0 || fb < 0 {
		return 0, ErrNoFringe
	}

	for i := 0; i < 200 && b-a > 1e-12*b; i++ {
		mid := (a + b) / 2
		fm, _ := f(mid)
		if fm < 0 {
			a = mid
		} else {
			b = mid
		}
	}
	return (a + b) / 2, nil
}
