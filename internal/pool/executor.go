package pool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lead-miners/scout/internal/browser"
	"github.com/lead-miners/scout/internal/progress"
)

// executeOnPage opens one page for the item, runs the work function on it,
// and guarantees the page is closed. Never returns an error or panics: any
// failure becomes a PageResult with OK=false. This is the outermost frame on
// the item's goroutine, so the recover here is the last line before a panic
// would kill the process; it must cover the page lifecycle (NewPage and the
// deferred Close), not just the work function.
func (r *Runner[T]) executeOnPage(ctx context.Context, b browser.Browser, item string, index, total int, fn WorkFunc[T]) (res PageResult[T]) {
	finished := false
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		log.Error().Str("item", item).Interface("panic", rec).Msg("Page lifecycle panicked")
		if finished {
			// The result was already computed; the panic came from page
			// teardown. Treat it like a close error: logged, swallowed.
			return
		}
		msg := fmt.Sprintf("%s: page failure: %v", item, rec)
		progress.Emit(r.sink, progress.NewEvent(progress.KindError, msg, map[string]any{
			"item": item, "index": index,
		}))
		res = PageResult[T]{Item: item, Err: msg}
	}()

	pg, err := b.NewPage(ctx)
	if err != nil {
		msg := fmt.Sprintf("%s: page open failed: %v", item, err)
		progress.Emit(r.sink, progress.NewEvent(progress.KindError, msg, map[string]any{
			"item": item, "index": index,
		}))
		return PageResult[T]{Item: item, Err: msg}
	}
	defer func() {
		if cerr := pg.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("item", item).Msg("Page close failed")
		}
	}()

	res = r.execute(item, pg, index, total, fn)
	finished = true
	return res
}

// execute runs the work function against an open page. The page's context
// already carries the operation timeout, so none is re-applied here.
// Percentages are always computed against the global item total.
func (r *Runner[T]) execute(item string, pg browser.Page, index, total int, fn WorkFunc[T]) (res PageResult[T]) {
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("%s: work function panic: %v", item, rec)
			log.Error().Str("item", item).Interface("panic", rec).Msg("Work function panicked")
			progress.Emit(r.sink, progress.NewEvent(progress.KindError, msg, map[string]any{
				"item": item, "index": index,
			}))
			res = PageResult[T]{Item: item, Err: msg}
		}
	}()

	percent := float64(index+1) / float64(total) * 100

	progress.Emit(r.sink, progress.NewEvent(progress.KindProgress, "scraping "+item, map[string]any{
		"item": item, "index": index, "total": total, "percent": percent, "done": false,
	}))

	data, err := fn(pg.Context(), item, pg)
	if err != nil {
		msg := fmt.Sprintf("%s: %v", item, err)
		progress.Emit(r.sink, progress.NewEvent(progress.KindError, msg, map[string]any{
			"item": item, "index": index, "total": total, "percent": percent,
		}))
		return PageResult[T]{Item: item, Err: msg}
	}

	progress.Emit(r.sink, progress.NewEvent(progress.KindProgress, "scraped "+item, map[string]any{
		"item": item, "index": index, "total": total, "percent": percent, "done": true,
	}))

	return PageResult[T]{Item: item, OK: true, Data: data}
}
