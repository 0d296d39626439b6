package progress

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sink receives progress events. Implementations must tolerate concurrent,
// interleaved Emit calls; events from sibling tasks may arrive out of strict
// chronological order.
type Sink interface {
	Emit(ev Event)
}

// Emit delivers an event to the sink, swallowing nil sinks and panics.
// Progress reporting must never abort scraping.
func Emit(s Sink, ev Event) {
	if s == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Str("kind", string(ev.Kind)).Msg("Progress sink failed, event dropped")
		}
	}()
	s.Emit(ev)
}

// NoopSink discards all events. It is the default when no sink is injected.
type NoopSink struct{}

func (NoopSink) Emit(Event) {}

// LogSink forwards events to a zerolog logger
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Emit(ev Event) {
	evt := s.Logger.Info()
	switch ev.Kind {
	case KindError:
		evt = s.Logger.Warn()
	case KindProgress:
		// Per-item noise; visible only with -v
		evt = s.Logger.Debug()
	}
	evt.Str("kind", string(ev.Kind)).
		Fields(ev.Payload).
		Msg(ev.Message)
}

// MultiSink fans one event out to several sinks
type MultiSink []Sink

func (m MultiSink) Emit(ev Event) {
	for _, s := range m {
		Emit(s, ev)
	}
}
