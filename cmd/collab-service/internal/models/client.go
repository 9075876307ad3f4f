package models

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/codehuddle/backend/internal/history"
	"github.com/codehuddle/backend/internal/ratelimit"
)

// Constants related to WebSocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

// Runner executes source code remotely and returns the normalized result
// string plus whether execution succeeded.
type Runner interface {
	Run(ctx context.Context, language, source, stdin string) (string, bool)
}

// Client represents a WebSocket connection to the collab service.
type Client struct {
	ID         string
	Conn       *websocket.Conn
	Send       chan []byte
	RemoteAddr string

	Manager RoomManager
	Runner  Runner
	Limiter *ratelimit.Limiter
	History *history.Store

	Session Session

	room      *Room // fan-out set this connection currently belongs to
	closeOnce sync.Once
}

// NewClient creates a client for an upgraded connection.
func NewClient(conn *websocket.Conn, manager RoomManager, runner Runner, limiter *ratelimit.Limiter, hist *history.Store, remoteAddr string) *Client {
	return &Client{
		ID:         uuid.New().String(),
		Conn:       conn,
		Send:       make(chan []byte, 256),
		RemoteAddr: remoteAddr,
		Manager:    manager,
		Runner:     runner,
		Limiter:    limiter,
		History:    hist,
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// ReadPump listens for incoming events from the client's WebSocket
// connection and dispatches them.
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		c.closeSend()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var evt Event
		err := c.Conn.ReadJSON(&evt)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket unexpected close error: %v", err)
			}
			break
		}
		c.handleEvent(evt)
	}
}

// WritePump sends messages from the Send channel to the WebSocket
// connection.
func (c *Client) WritePump() {
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
				// The channel was closed.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One event per frame; clients parse each message as a single
			// JSON envelope.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// handleEvent dispatches one inbound event. It touches only the Send
// channels and the room registry, never the connection, so the protocol is
// testable without a transport.
func (c *Client) handleEvent(evt Event) {
	switch evt.Type {
	case EventJoin:
		var content JoinContent
		if err := json.Unmarshal(evt.Content, &content); err != nil {
			log.Printf("Error unmarshaling join content: %v", err)
			return
		}
		c.handleJoin(content)

	case EventCodeChange:
		var content CodeChangeContent
		if err := json.Unmarshal(evt.Content, &content); err != nil {
			log.Printf("Error unmarshaling codeChange content: %v", err)
			return
		}
		c.broadcastToRoom(content.RoomID, EventCodeUpdate, content.Code, c)

	case EventTyping:
		var content TypingContent
		if err := json.Unmarshal(evt.Content, &content); err != nil {
			log.Printf("Error unmarshaling typing content: %v", err)
			return
		}
		c.broadcastToRoom(content.RoomID, EventUserTyping, content.UserName, c)

	case EventLanguageChange:
		var content LanguageChangeContent
		if err := json.Unmarshal(evt.Content, &content); err != nil {
			log.Printf("Error unmarshaling languageChange content: %v", err)
			return
		}
		c.broadcastToRoom(content.RoomID, EventLanguageUpdate, content.Language, nil)

	case EventLeaveRoom:
		c.handleLeaveRoom()

	case EventRunCode:
		var content RunCodeContent
		if err := json.Unmarshal(evt.Content, &content); err != nil {
			log.Printf("Error unmarshaling runCode content: %v", err)
			return
		}
		c.handleRunCode(content)

	default:
		log.Printf("Received unknown event type: %s", evt.Type)
	}
}

// handleJoin attaches the client to a room, implicitly leaving the current
// one. The connection detaches from the old room's fan-out set before the
// old room's membership update goes out, so the mover does not receive it;
// the new room's update reaches the mover.
func (c *Client) handleJoin(content JoinContent) {
	if c.room != nil {
		c.room.RemoveClient(c)
		c.room = nil
	}

	updates := c.Session.Join(c.Manager, content.RoomID, content.UserName)

	if room, err := c.Manager.GetRoom(content.RoomID); err == nil {
		room.AddClient(c)
		c.room = room
	}

	c.broadcastMembership(updates)
}

// handleLeaveRoom detaches the client from its room. The membership update
// is broadcast before the connection detaches, so the leaver still sees the
// final list.
func (c *Client) handleLeaveRoom() {
	update, ok := c.Session.Leave(c.Manager)
	if !ok {
		return
	}
	c.broadcastMembership([]MembershipUpdate{update})
	if c.room != nil {
		c.room.RemoveClient(c)
		c.room = nil
	}
}

// handleDisconnect mirrors handleLeaveRoom for a closing transport.
func (c *Client) handleDisconnect() {
	update, ok := c.Session.Leave(c.Manager)
	if c.room != nil {
		c.room.RemoveClient(c)
		c.room = nil
	}
	if !ok {
		log.Printf("Client %s disconnected outside any room", c.ID)
		return
	}
	c.broadcastMembership([]MembershipUpdate{update})
	log.Printf("Client %s disconnected", c.ID)
}

// handleRunCode fires the execution and returns immediately. The goroutine's
// only externally visible effect is the single result broadcast; room events
// keep flowing while the call is in flight, and a second runCode for the
// same room races independently.
func (c *Client) handleRunCode(content RunCodeContent) {
	if err := c.Limiter.CheckRun(context.Background(), content.RoomID, c.RemoteAddr); err != nil {
		c.broadcastToRoom(content.RoomID, EventExecutionResult, "Error: rate limit exceeded, try again later", nil)
		return
	}

	go func() {
		result, ok := c.Runner.Run(context.Background(), content.Language, content.Code, content.Input)
		// The result goes to whoever is in the room when it arrives, not to
		// the requester specifically. An emptied room is a silent broadcast.
		c.broadcastToRoom(content.RoomID, EventExecutionResult, result, nil)
		c.History.Record(context.Background(), content.RoomID, content.Language, ok, len(result))
	}()
}

// broadcastToRoom emits an event to a room looked up by id. Unknown rooms
// are a no-op. A nil sender reaches the whole room.
func (c *Client) broadcastToRoom(roomID, eventType string, content interface{}, sender *Client) {
	room, err := c.Manager.GetRoom(roomID)
	if err != nil {
		return
	}
	message, err := NewEvent(eventType, content)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	room.Broadcast(message, sender)
}

// broadcastMembership emits a userJoined event to each updated room.
func (c *Client) broadcastMembership(updates []MembershipUpdate) {
	for _, update := range updates {
		c.broadcastToRoom(update.RoomID, EventUserJoined, update.Members, nil)
	}
}
