package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

// FetchSlots caps in-flight fetches across the process. Batch analysis and
// the MCP server share one instance so the limit holds globally.
type FetchSlots struct {
	sem            *semaphore.Weighted
	acquireTimeout time.Duration
	log            *logrus.Logger
}

// NewFetchSlots creates a pool with the given capacity. Non-positive
// capacities fall back to 1.
func NewFetchSlots(capacity int64, acquireTimeout time.Duration, log *logrus.Logger) *FetchSlots {
	if capacity <= 0 {
		capacity = 1
		log.Warnf("max_concurrent_fetches invalid, defaulting to %d", capacity)
	}
	return &FetchSlots{
		sem:            semaphore.NewWeighted(capacity),
		acquireTimeout: acquireTimeout,
		log:            log,
	}
}

// Acquire takes one slot, waiting up to the configured acquire timeout.
// Timeout maps to ErrSemaphoreTimeout so callers can tell saturation from
// cancellation.
func (s *FetchSlots) Acquire(ctx context.Context) error {
	acquireCtx := ctx
	if s.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, s.acquireTimeout)
		defer cancel()
	}

	if err := s.sem.Acquire(acquireCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: waited %s for a fetch slot", utils.ErrSemaphoreTimeout, s.acquireTimeout)
	}
	return nil
}

// Release returns one slot.
func (s *FetchSlots) Release() {
	s.sem.Release(1)
}
