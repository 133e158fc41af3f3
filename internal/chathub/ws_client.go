package chathub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"pairchat/backend/internal/models"
	"pairchat/backend/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// ChatClient binds one WebSocket connection to one chat session. It is the
// session's View: snapshot renders become server frames on the wire, and
// incoming client frames become session operations. The connection and the
// session share a lifetime; when either side goes away the other is torn
// down.
type ChatClient struct {
	UserID  string
	Conn    *websocket.Conn
	Session *session.Session
	Send    chan models.ServerFrame

	closeOnce sync.Once
}

func NewChatClient(userID string, conn *websocket.Conn) *ChatClient {
	return &ChatClient{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan models.ServerFrame, 256),
	}
}

// Bind attaches the session after construction; the session needs the
// client as its view, so the two are created in sequence.
func (c *ChatClient) Bind(sess *session.Session) {
	c.Session = sess
}

// Run starts the read and write pumps.
func (c *ChatClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close stops the write pump. Safe to call more than once.
func (c *ChatClient) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// --- session.View implementation ---

func (c *ChatClient) RenderIdentity(u models.User) {
	c.enqueue(models.ServerFrame{Type: "identity", Identity: &u})
}

func (c *ChatClient) RenderRoster(users []models.User) {
	c.enqueue(models.ServerFrame{Type: "roster", Roster: users})
}

func (c *ChatClient) RenderMessages(roomID string, msgs []models.Message) {
	c.enqueue(models.ServerFrame{Type: "messages", RoomID: roomID, Messages: msgs})
}

// enqueue drops the frame when the send buffer is full. A later snapshot
// supersedes a dropped one, so a slow consumer only loses intermediate
// states.
func (c *ChatClient) enqueue(frame models.ServerFrame) {
	select {
	case c.Send <- frame:
	default:
		log.Printf("WARN: dropping %s frame for %s: send buffer full", frame.Type, c.UserID)
	}
}

// --- pumps ---

func (c *ChatClient) readPump() {
	defer func() {
		// Connection gone: sign-out semantics. End stops all renders
		// before the send channel closes.
		c.Session.End()
		c.Close()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var cmd models.ClientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			log.Printf("Error decoding frame from client %s: %v", c.UserID, err)
			continue
		}
		c.dispatch(cmd)
	}
}

func (c *ChatClient) dispatch(cmd models.ClientCommand) {
	switch cmd.Type {
	case "open_chat":
		if cmd.TargetUID == "" {
			return
		}
		if err := c.Session.OpenChat(models.User{UID: cmd.TargetUID}); err != nil {
			log.Printf("ERROR: open_chat for %s failed: %v", c.UserID, err)
		}
	case "send_message":
		// Failures are logged only; the UI already cleared its input.
		if err := c.Session.SendMessage(cmd.Text); err != nil {
			log.Printf("ERROR: send_message for %s failed: %v", c.UserID, err)
		}
	case "update_profile":
		err := c.Session.UpdateProfile(context.Background(), cmd.Name, cmd.PhotoURL)
		if err != nil {
			log.Printf("WARN: update_profile for %s rejected: %v", c.UserID, err)
			return
		}
		c.enqueue(models.ServerFrame{Type: "notice", Notice: "Profile updated successfully!"})
	case "sign_out":
		c.Session.End()
		c.Conn.Close()
	default:
		log.Printf("WARN: unknown command %q from client %s", cmd.Type, c.UserID)
	}
}

func (c *ChatClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(frame); err != nil {
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
