package analyze

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

// BatchResult pairs one URL with its report or failure. Reports carry an
// error status as well; Err is for callers that want the typed error.
type BatchResult struct {
	URL    string
	Report *models.Report
	Err    error
}

// Batch analyzes URLs concurrently, bounded by the configured worker
// count. One document failing never fails the batch; its result carries
// the error. Results keep input order.
func (a *Analyzer) Batch(ctx context.Context, urls []string, opts Options) []BatchResult {
	results := make([]BatchResult, len(urls))

	workers := a.cfg.BatchWorkers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, url := range urls {
		results[i].URL = url
		g.Go(func() error {
			report, err := a.Analyze(gctx, url, opts)
			results[i].Report = report
			results[i].Err = err
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	g.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	a.log.Infof("Batch complete: %d/%d analyses succeeded", succeeded, len(urls))

	return results
}
