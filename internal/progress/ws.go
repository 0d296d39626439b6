package progress

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSSink streams events over a websocket connection. Gorilla connections
// support one concurrent writer, so writes are serialized here.
type WSSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSSink wraps an upgraded websocket connection
func NewWSSink(conn *websocket.Conn) *WSSink {
	return &WSSink{conn: conn}
}

func (s *WSSink) Emit(ev Event) {
	if err := s.WriteJSON(ev); err != nil {
		log.Debug().Err(err).Msg("Websocket progress write failed")
	}
}

// WriteJSON sends an arbitrary JSON frame through the sink's write lock,
// letting callers interleave their own frames with progress events.
func (s *WSSink) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}
