package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

const writeTimeout = 10 * time.Second

// subscribeHandler upgrades the connection and streams snapshot frames for
// one collection: first the current state, then every published revision
// until the client disconnects.
func (s *Server) subscribeHandler(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]

	initial, ch, cancel, err := s.documents.Subscribe(r.Context(), collection)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Reads are discarded, but the read pump notices a closed peer.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	writeSnapshot := func(snap any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteJSON(snap)
	}

	if err := writeSnapshot(initial); err != nil {
		return
	}

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if err := writeSnapshot(snap); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
