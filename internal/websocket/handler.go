package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs runs one websocket session to completion. newHandler builds the
// per-connection command handler once the outbound queue exists.
func ServeWs(hub *Hub, conn *websocket.Conn, userID uuid.UUID, newHandler func(c *Client) CommandHandler) {
	client := &Client{Hub: hub, Conn: conn, UserID: userID, Send: make(chan []byte, 256)}
	client.Handler = newHandler(client)
	client.Hub.register <- client

	go client.writePump()

	// readPump blocks until the connection drops, keeping the fiber
	// handler (and the hijacked connection) alive.
	client.readPump()
}
