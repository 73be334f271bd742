package analysis

import (
	"filmthickness/internal/models"
	"filmthickness/pkg/logging"
	"filmthickness/pkg/thickness"
)

// Failure records a dataset that produced no Result
type Failure struct {
	Dataset Dataset
	Err     error
}

// Run is the outcome of analyzing a list of datasets
type Run struct {
	// Results holds the successful datasets in input order
	Results []*models.Result

	// Failures holds the skipped datasets in input order
	Failures []Failure

	Summary models.RunSummary
}

// Run analyzes every dataset. Datasets are processed by up to Workers
// goroutines, but results are always assembled in input order so the summary
// does not depend on completion order.
func (a *Analyzer) Run(datasets []Dataset) Run {
	type outcome struct {
		index  int
		result *models.Result
		err    error
	}

	outcomes := make([]outcome, len(datasets))

	if a.params.Workers == 1 || len(datasets) < 2 {
		for i, ds := range datasets {
			res, err := a.Analyze(ds.Path, ds.IncidentAngle)
			outcomes[i] = outcome{index: i, result: res, err: err}
		}
	} else {
		resultChan := make(chan outcome)
		sem := make(chan struct{}, a.params.Workers)

		for i, ds := range datasets {
			go func(idx int, ds Dataset) {
				sem <- struct{}{}
				defer func() { <-sem }()

				res, err := a.Analyze(ds.Path, ds.IncidentAngle)
				resultChan <- outcome{index: idx, result: res, err: err}
			}(i, ds)
		}

		for completed := 0; completed < len(datasets); completed++ {
			o := <-resultChan
			outcomes[o.index] = o
		}
	}

	var run Run
	for i, o := range outcomes {
		if o.result == nil {
			run.Failures = append(run.Failures, Failure{Dataset: datasets[i], Err: o.err})
			continue
		}
		run.Results = append(run.Results, o.result)
	}
	run.Summary = Summarize(run.Results)

	a.log.Info("run finished", logging.Fields{
		"datasets": len(datasets),
		"analyzed": len(run.Results),
		"skipped":  len(run.Failures),
		"samples":  run.Summary.Count(),
	})

	return run
}

// Summarize pools the maxima- then minima-based thicknesses of each result,
// in order, and computes their mean and sample standard deviation.
func Summarize(results []*models.Result) models.RunSummary {
	var summary models.RunSummary
	for _, r := range results {
		if r == nil {
			continue
		}
		summary.Thicknesses = append(summary.Thicknesses, r.Thicknesses()...)
	}
	summary.Mean, summary.StdDev = thickness.MeanStdDev(summary.Thicknesses)
	return summary
}
