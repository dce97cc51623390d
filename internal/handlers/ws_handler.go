// File: internal/handlers/ws_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/HaswanthR-CIT/ECHO/internal/realtime"
	"github.com/HaswanthR-CIT/ECHO/internal/services/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The socket authenticates itself via the login event, not the
		// HTTP origin.
		return true
	},
}

// WSHandler upgrades HTTP requests into event-routed websocket sessions.
type WSHandler struct {
	Router *events.Router
}

func NewWSHandler(router *events.Router) *WSHandler {
	return &WSHandler{Router: router}
}

// Serve runs the connection's lifetime: register, pump events through the
// router, and unbind on the way out.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WSHandler] Upgrade failed: %v", err)
		return
	}

	conn := realtime.NewConn(ws)
	h.Router.HandleConnect(conn)
	go conn.WriteLoop()

	if err := conn.ReadLoop(func(env realtime.Envelope) {
		h.Router.Dispatch(r.Context(), conn, env)
	}); err != nil {
		log.Printf("[WSHandler] Read error on %s: %v", conn.ID(), err)
	}

	// Teardown must outlive the request; the offline update still has to
	// land after the peer vanished.
	h.Router.HandleDisconnect(context.Background(), conn)
	conn.Close(websocket.CloseNormalClosure, "")
}
