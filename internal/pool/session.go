package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/internal/progress"
)

// runSession owns exactly one browser process for the lifetime of the call:
// launch, run all assigned items on concurrent pages, tear down. The
// invariant is that after runSession returns, no page or browser created
// here remains open, however the session ended.
func (r *Runner[T]) runSession(ctx context.Context, items []string, sessionIdx, batchIdx, globalBase, total int, fn WorkFunc[T]) (sr SessionResult[T]) {
	sr = SessionResult[T]{SessionIndex: sessionIdx, Items: items}

	// Guards the session's own control flow: launch, goroutine fan-out,
	// result collection. Per-item panics are recovered on the item's own
	// goroutine in executeOnPage and never reach here. Browser cleanup still
	// runs: the deferred Close below is registered before any work starts.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Int("session", sessionIdx).
				Int("batch", batchIdx).
				Interface("panic", rec).
				Msg("Browser session critical failure")
			sr.Results = nil
			sr.Err = fmt.Sprintf("session %d critical failure: %v", sessionIdx, rec)
		}
	}()

	log.Debug().
		Int("session", sessionIdx).
		Int("batch", batchIdx).
		Int("items", len(items)).
		Msg("Launching browser session")

	b, err := r.launcher.Launch(ctx)
	if err != nil {
		msg := fmt.Sprintf("browser launch failed: %v", err)
		log.Warn().Err(err).Int("session", sessionIdx).Int("batch", batchIdx).Msg("Browser launch failed")
		progress.Emit(r.sink, progress.NewEvent(progress.KindError, msg, map[string]any{
			"session": sessionIdx, "batch": batchIdx, "items": len(items),
		}))
		sr.Err = msg
		return sr
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			log.Warn().Err(cerr).Int("session", sessionIdx).Msg("Browser close failed")
		}
	}()

	// One page per item, all concurrent, join-all-and-collect. Results are
	// indexed by item position so one item's failure lands exactly at its
	// own slot and never touches siblings.
	results := make([]PageResult[T], len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item string) {
			defer wg.Done()
			results[i] = r.executeOnPage(ctx, b, item, globalBase+i, total, fn)
		}(i, item)
	}
	wg.Wait()

	sr.Results = results
	return sr
}
