package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/codehuddle/backend/cmd/collab-service/internal/models"
	"github.com/codehuddle/backend/internal/history"
	"github.com/codehuddle/backend/internal/ratelimit"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking for production
		return true
	},
}

// Env bundles the shared dependencies handed to every connection.
type Env struct {
	Manager models.RoomManager
	Runner  models.Runner
	Limiter *ratelimit.Limiter
	History *history.Store
}

// ServeWs upgrades the HTTP connection to a WebSocket and starts the
// client's pumps. Sessions always start unjoined; joining happens via the
// join event, and a reconnecting user starts over.
func ServeWs(env *Env, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := models.NewClient(conn, env.Manager, env.Runner, env.Limiter, env.History, r.RemoteAddr)
	log.Printf("Client %s connected", client.ID)

	go client.WritePump()
	go client.ReadPump()
}
