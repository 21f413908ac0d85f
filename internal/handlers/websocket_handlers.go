package handlers

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"

	"kaul/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is handled by the CORS layer; the feed is public.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection and attaches it to the tally
// feed. Clients receive a `{"type":"subjects",...}` message after every
// recorded vote.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.Logger.Error("websocket upgrade failed", "error", err)
			return
		}

		client := websocket.NewClient(s.Hub, conn, s.Logger)
		client.Start()
	}
}
