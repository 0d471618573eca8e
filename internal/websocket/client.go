package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"amplified-be/internal/dto"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // transcript fragments plus headroom
)

// CommandHandler consumes the commands a client sends over its socket. The
// read loop delivers commands one at a time and calls Close when the
// connection drops.
type CommandHandler interface {
	Handle(ctx context.Context, cmd dto.WsCommand)
	Close()
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	UserID uuid.UUID

	// Buffered channel of outbound messages.
	Send chan []byte

	// Handler owns the live session state for this connection.
	Handler CommandHandler
}

// readPump pumps commands from the websocket connection into the handler.
func (c *Client) readPump() {
	defer func() {
		c.Handler.Close()
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ctx := context.Background()
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error for user %s: %v", c.UserID, err)
			}
			break
		}

		var cmd dto.WsCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.SendEvent(dto.WsEvent{Type: dto.EventError, Payload: map[string]interface{}{
				"message": "invalid command payload",
			}})
			continue
		}
		c.Handler.Handle(ctx, cmd)
	}
}

// SendEvent serializes an event onto this connection's outbound queue. Safe
// for concurrent use.
func (c *Client) SendEvent(event dto.WsEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("event marshal error for user %s: %v", c.UserID, err)
		return
	}
	defer func() {
		// The hub may close Send while an async producer still holds a
		// reference to this client.
		_ = recover()
	}()
	select {
	case c.Send <- data:
	default:
		log.Printf("send buffer full for user %s, dropping %s", c.UserID, event.Type)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued events to the current websocket message.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
