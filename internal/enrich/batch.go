package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/apollo-cli/internal/model"
)

// Runner iterates a batch of LinkedIn URLs through the Enricher.
type Runner struct {
	enricher *Enricher
}

// NewRunner creates a batch Runner.
func NewRunner(enricher *Enricher) *Runner {
	return &Runner{enricher: enricher}
}

// Run processes the URLs strictly in order, one start-to-finish at a time,
// and returns the records in input order plus the final credit total. The
// shared ledger makes per-row cumulative credit totals meaningful only under
// sequential processing, so there is deliberately no concurrency here.
func (r *Runner) Run(ctx context.Context, urls []string) ([]model.PersonRecord, int) {
	records := make([]model.PersonRecord, 0, len(urls))

	for i, u := range urls {
		zap.L().Info("batch: processing profile",
			zap.Int("index", i+1),
			zap.Int("total", len(urls)),
			zap.String("url", u),
		)
		records = append(records, r.enricher.Enrich(ctx, u))
	}

	total := r.enricher.ledger.Total()
	zap.L().Info("batch: complete",
		zap.Int("profiles", len(urls)),
		zap.Int("credits_used", total),
	)
	return records, total
}
