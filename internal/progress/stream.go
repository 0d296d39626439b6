package progress

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
)

// StreamSink writes events as newline-delimited JSON to a writer, flushing
// after each event when the writer supports it. Safe for concurrent use.
type StreamSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStreamSink wraps a writer (typically an http.ResponseWriter) in a sink
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

func (s *StreamSink) Emit(ev Event) {
	line, err := json.Marshal(ev)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode progress event")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(append(line, '\n')); err != nil {
		log.Debug().Err(err).Msg("Progress stream write failed")
		return
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
}
