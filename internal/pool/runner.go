package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/internal/browser"
	"github.com/lead-miners/scout/internal/progress"
)

// Runner is the pool orchestrator: the single entry point for running a
// work function over a list of items under bounded browser concurrency.
type Runner[T any] struct {
	launcher browser.Launcher
	sink     progress.Sink
	cfg      Config
}

// Option customizes a Runner
type Option[T any] func(*Runner[T])

// WithSink injects a progress sink. The default is a no-op sink, so
// reporting is optional and never changes core behavior.
func WithSink[T any](s progress.Sink) Option[T] {
	return func(r *Runner[T]) {
		if s != nil {
			r.sink = s
		}
	}
}

// New builds a Runner over the given launcher
func New[T any](launcher browser.Launcher, cfg Config, opts ...Option[T]) *Runner[T] {
	r := &Runner[T]{
		launcher: launcher,
		sink:     progress.NoopSink{},
		cfg:      cfg.withDefaults(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes fn over every item and returns an aggregate report. It never
// returns an error: operational failures (timeouts, launch failures,
// per-item scrape errors) are recorded in the report.
//
// Super-batches of PoolCapacity items run strictly sequentially; this is the
// backpressure mechanism bounding peak browser processes regardless of input
// size. Total failure of one super-batch never aborts the next. Cancelling
// ctx stops scheduling new work and records the unprocessed items as errors.
func (r *Runner[T]) Run(ctx context.Context, items []string, fn WorkFunc[T]) *Report[T] {
	start := time.Now()
	batches := chunk(items, r.cfg.PoolCapacity())

	report := &Report[T]{
		TotalItems: len(items),
		BatchCount: len(batches),
		Results:    make([]T, 0, len(items)),
	}

	progress.Emit(r.sink, progress.NewEvent(progress.KindStatus, "run started", map[string]any{
		"total":         len(items),
		"batches":       len(batches),
		"pool_capacity": r.cfg.PoolCapacity(),
	}))

	base := 0
	for bi, batch := range batches {
		if err := ctx.Err(); err != nil {
			for _, item := range items[base:] {
				report.Errors = append(report.Errors, fmt.Sprintf("%s: run cancelled: %v", item, err))
				report.ErrorCount++
			}
			log.Warn().Int("unprocessed", len(items)-base).Msg("Run cancelled, remaining items recorded as errors")
			break
		}

		sessionResults, failure := r.safeBatch(ctx, batch, bi, base, len(items), fn)
		if failure != nil {
			// One synthetic message for the whole super-batch; every one of
			// its items counts as an error, then processing continues.
			report.Errors = append(report.Errors, failure.Error())
			report.ErrorCount += len(batch)
			progress.Emit(r.sink, progress.NewEvent(progress.KindError, failure.Error(), map[string]any{
				"batch": bi, "items": len(batch),
			}))
			base += len(batch)
			continue
		}

		for _, sr := range sessionResults {
			r.collect(report, sr)
		}
		base += len(batch)
	}

	report.Duration = time.Since(start)
	report.Success = report.ErrorCount < report.TotalItems

	progress.Emit(r.sink, progress.NewEvent(progress.KindComplete, "run complete", map[string]any{
		"success":       report.Success,
		"success_count": report.SuccessCount,
		"error_count":   report.ErrorCount,
		"total":         report.TotalItems,
		"batches":       report.BatchCount,
		"duration_ms":   report.Duration.Milliseconds(),
	}))

	log.Info().
		Int("success", report.SuccessCount).
		Int("errors", report.ErrorCount).
		Int("total", report.TotalItems).
		Dur("duration", report.Duration).
		Msg("Scrape run finished")

	return report
}

// collect folds one session's outcome into the running aggregates. A
// session that died before producing page results (launch or critical
// failure) contributes exactly one error per assigned item, so
// SuccessCount + ErrorCount == TotalItems holds for every run.
func (r *Runner[T]) collect(report *Report[T], sr SessionResult[T]) {
	if sr.Err != "" && len(sr.Results) == 0 {
		for _, item := range sr.Items {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", item, sr.Err))
			report.ErrorCount++
		}
		return
	}

	for _, pr := range sr.Results {
		if pr.OK {
			report.Results = append(report.Results, pr.Data)
			report.SuccessCount++
		} else {
			report.Errors = append(report.Errors, pr.Err)
			report.ErrorCount++
		}
	}
}
