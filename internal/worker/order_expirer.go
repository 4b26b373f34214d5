package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// VIPFacade exposes the subset of application functionality required by the worker.
type VIPFacade interface {
	ExpireStale(ctx context.Context, olderThan time.Time, limit int) ([]int64, error)
}

// OrderExpirer periodically cancels pending orders that were never paid.
type OrderExpirer struct {
	facade       VIPFacade
	pollInterval time.Duration
	orderTTL     time.Duration
	batchSize    int
	logger       *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
	now    func() time.Time
}

// NewOrderExpirer constructs the stale order cleanup worker.
func NewOrderExpirer(facade VIPFacade, pollInterval, orderTTL time.Duration, batchSize int, logger *slog.Logger) *OrderExpirer {
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	return &OrderExpirer{
		facade:       facade,
		pollInterval: pollInterval,
		orderTTL:     orderTTL,
		batchSize:    batchSize,
		logger:       logger,
		now:          time.Now,
	}
}

// Start launches background cleanup.
func (e *OrderExpirer) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	e.wg.Add(1)
	go e.run(runCtx)
}

// Stop waits for the cleanup loop to finish.
func (e *OrderExpirer) Stop() {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.mu.Unlock()

	e.wg.Wait()
}

func (e *OrderExpirer) run(ctx context.Context) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.expireBatch(ctx)
		}
	}
}

func (e *OrderExpirer) expireBatch(ctx context.Context) {
	cutoff := e.now().Add(-e.orderTTL)
	for {
		codes, err := e.facade.ExpireStale(ctx, cutoff, e.batchSize)
		if err != nil {
			e.logger.Error("expire stale orders failed", slog.String("error", err.Error()))
			return
		}
		if len(codes) == 0 {
			return
		}
		e.logger.Info("cancelled stale orders", slog.Int("count", len(codes)))
		// A full batch means more stale orders may remain.
		if len(codes) < e.batchSize {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
