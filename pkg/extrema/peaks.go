package extrema

import "sort"

// PeakOptions configures FindPeaks
type PeakOptions struct {
	// Height, when set, is the minimum sample value of an accepted peak
	Height *float64

	// Prominence is the minimum vertical drop on both sides of a peak
	Prominence float64

	// Distance is the minimum index separation between accepted peaks.
	// Values below 2 disable the check.
	Distance int
}

// FindPeaks returns the ascending indices of the local maxima of x that satisfy opts.
//
// Candidates are strict local maxima; a flat top counts once, at its midpoint
// (rounded down). When two candidates are closer than Distance the one with the
// lower prominence is suppressed.
func FindPeaks(x []float64, opts PeakOptions) []int {
	peaks := LocalMaxima(x)

	if opts.Height != nil {
		peaks = filterPeaks(peaks, func(p int) bool { return x[p] >= *opts.Height })
	}

	prominences := Prominences(x, peaks)

	if opts.Distance > 1 && len(peaks) > 1 {
		keep := selectByDistance(peaks, prominences, opts.Distance)
		peaks, prominences = applyKeep(peaks, prominences, keep)
	}

	keep := make([]bool, len(peaks))
	for i := range peaks {
		keep[i] = prominences[i] >= opts.Prominence
	}
	peaks, _ = applyKeep(peaks, prominences, keep)

	return peaks
}

// LocalMaxima finds strict local maxima, including flat plateaus, and returns
// their midpoint indices. The first and last samples are never peaks.
func LocalMaxima(x []float64) []int {
	var peaks []int

	last := len(x) - 1
	for i := 1; i < last; i++ {
		if !(x[i-1] < x[i]) {
			continue
		}

		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}

		if x[ahead] < x[i] {
			peaks = append(peaks, (i+ahead-1)/2)
			i = ahead
		}
	}

	return peaks
}

// Prominences computes the prominence of each peak: its height above the
// higher of the two lowest points reached on each side before the signal
// rises above the peak or the signal ends.
func Prominences(x []float64, peaks []int) []float64 {
	out := make([]float64, len(peaks))

	for n, p := range peaks {
		leftMin := x[p]
		for i := p; i >= 0 && x[i] <= x[p]; i-- {
			if x[i] < leftMin {
				leftMin = x[i]
			}
		}

		rightMin := x[p]
		for i := p; i < len(x) && x[i] <= x[p]; i++ {
			if x[i] < rightMin {
				rightMin = x[i]
			}
		}

		base := leftMin
		if rightMin > base {
			base = rightMin
		}
		out[n] = x[p] - base
	}

	return out
}

// selectByDistance visits peaks from highest to lowest priority and drops
// every remaining neighbour closer than distance.
func selectByDistance(peaks []int, priority []float64, distance int) []bool {
	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}

	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return priority[order[a]] < priority[order[b]]
	})

	for i := len(order) - 1; i >= 0; i-- {
		j := order[i]
		if !keep[j] {
			continue
		}

		for k := j - 1; k >= 0 && peaks[j]-peaks[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(peaks) && peaks[k]-peaks[j] < distance; k++ {
			keep[k] = false
		}
	}

	return keep
}

func filterPeaks(peaks []int, pred func(int) bool) []int {
	out := peaks[:0:0]
	for _, p := range peaks {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

func applyKeep(peaks []int, values []float64, keep []bool) ([]int, []float64) {
	var outPeaks []int
	var outValues []float64
	for i, ok := range keep {
		if ok {
			outPeaks = append(outPeaks, peaks[i])
			outValues = append(outValues, values[i])
		}
	}
	return outPeaks, outValues
}
