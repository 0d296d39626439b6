package progress

import (
	"github.com/schollz/progressbar/v3"
)

// BarSink renders progress events as a terminal progress bar. Only
// KindProgress events advance the bar; other kinds are ignored here and
// expected to reach a LogSink via MultiSink.
type BarSink struct {
	bar *progressbar.ProgressBar
}

// NewBarSink creates a bar sized to the total item count
func NewBarSink(total int, description string) *BarSink {
	return &BarSink{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetPredictTime(false),
		),
	}
}

func (s *BarSink) Emit(ev Event) {
	// A follow-up pass announces its item count before it starts; grow the
	// bar so both passes fit on one scale.
	if ev.Kind == KindStatus {
		if n, ok := ev.Payload["places"].(int); ok && n > 0 {
			s.bar.ChangeMax(s.bar.GetMax() + n)
		}
		return
	}
	if ev.Kind != KindProgress {
		return
	}
	// Only count completions, not the "starting" half of each item's pair
	if done, ok := ev.Payload["done"].(bool); !ok || !done {
		return
	}
	_ = s.bar.Add(1)
}

// Finish clears the bar once a run completes
func (s *BarSink) Finish() {
	_ = s.bar.Finish()
}
