package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"pairchat/backend/internal/chathub"
	"pairchat/backend/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the connection and starts a chat session for the
// authenticated user. The session ends when the socket closes.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	uid, err := h.Tokens.Validate(bearerToken(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token or expired"})
		return
	}

	user, err := h.Auth.Profile(c.Request.Context(), uid)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := chathub.NewChatClient(uid, conn)
	sess := session.New(h.Store, h.Auth, client)
	client.Bind(sess)

	if err := sess.Begin(*user); err != nil {
		log.Printf("ERROR: session begin for %s failed: %v", uid, err)
		conn.Close()
		return
	}
	client.Run()
}
