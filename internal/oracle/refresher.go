package oracle

import (
	"context"

	"github.com/greenasset/tokend/internal/platform/logger"
)

// Refresher is the periodic process that keeps the price cache warm. Wire it
// into a scheduler at the oracle's refresh interval.
type Refresher struct {
	Oracle *Oracle
}

func (r *Refresher) Run(ctx context.Context) {
	if err := r.Oracle.Refresh(ctx); err != nil {
		// The cache degrades gracefully, so a failed refresh is not fatal.
		logger.Warn(ctx, "Price refresh failed : %s", err)
		return
	}

	logger.Verbose(ctx, "Price cache refreshed")
}
