package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/internal/progress"
)

// runBatch executes one super-batch: it partitions the items into
// session-capacity groups, runs one browser session per group concurrently,
// joins them all, and applies the inter-batch throttle before returning.
// Failed sessions are reported in their SessionResult, never retried here.
func (r *Runner[T]) runBatch(ctx context.Context, items []string, batchIdx, globalBase, total int, fn WorkFunc[T]) []SessionResult[T] {
	groups := chunk(items, r.cfg.SessionCapacity)
	results := make([]SessionResult[T], len(groups))

	log.Debug().
		Int("batch", batchIdx).
		Int("items", len(items)).
		Int("sessions", len(groups)).
		Msg("Starting batch")

	var wg sync.WaitGroup
	offset := globalBase
	for si, group := range groups {
		wg.Add(1)
		go func(si int, group []string, base int) {
			defer wg.Done()
			results[si] = r.runSession(ctx, group, si, batchIdx, base, total, fn)
		}(si, group, offset)
		offset += len(group)
	}
	wg.Wait()

	progress.Emit(r.sink, progress.NewEvent(progress.KindStatus, "batch complete", map[string]any{
		"batch": batchIdx, "sessions": len(groups), "items": len(items),
	}))

	// Throttle, not cooldown: keeps one batch's teardown from overlapping
	// the next batch's launches.
	if r.cfg.InterBatchDelay > 0 {
		select {
		case <-time.After(r.cfg.InterBatchDelay):
		case <-ctx.Done():
		}
	}

	return results
}

// safeBatch guards the orchestrator against defects inside batch handling.
// A panic here marks the whole super-batch failed without aborting the run.
func (r *Runner[T]) safeBatch(ctx context.Context, items []string, batchIdx, globalBase, total int, fn WorkFunc[T]) (results []SessionResult[T], failure error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Int("batch", batchIdx).Interface("panic", rec).Msg("Batch failed catastrophically")
			results = nil
			failure = &batchPanicError{batch: batchIdx, value: rec}
		}
	}()
	return r.runBatch(ctx, items, batchIdx, globalBase, total, fn), nil
}

type batchPanicError struct {
	batch int
	value any
}

func (e *batchPanicError) Error() string {
	return fmt.Sprintf("batch %d failed: %v", e.batch, e.value)
}
