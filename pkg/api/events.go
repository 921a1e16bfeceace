package api

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// eventsHandler upgrades to a websocket and streams healer events until
// the client disconnects.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	if s.broker == nil {
		s.writeError(w, "events", http.StatusNotImplemented, "event streaming not enabled")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		return
	}
	defer conn.Close()

	sub := s.broker.Subscribe()
	defer s.broker.Unsubscribe(sub)

	// Reader goroutine: we never expect client messages, but reading is
	// how we learn about a closed connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-sub:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				s.logger.Debug().Err(err).Msg("event subscriber write failed, dropping connection")
				return
			}
		case <-done:
			return
		}
	}
}
