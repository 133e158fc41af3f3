package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pairchat/backend/internal/auth"
	"pairchat/backend/internal/storage"
)

// Handler wires the HTTP and WebSocket surface to the identity provider and
// the document store.
type Handler struct {
	Store  storage.Storage
	Auth   auth.Provider
	Tokens *auth.TokenManager
}

func NewHandler(store storage.Storage, provider auth.Provider, tokens *auth.TokenManager) *Handler {
	return &Handler{Store: store, Auth: provider, Tokens: tokens}
}

// RequireAuth validates the Bearer session token and stores the UID on the
// request context.
func (h *Handler) RequireAuth(c *gin.Context) {
	uid, err := h.Tokens.Validate(bearerToken(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token or expired"})
		return
	}
	c.Set("uid", uid)
	c.Next()
}

// bearerToken pulls the session token from the Authorization header, or
// from the "token" query parameter as a fallback for WebSocket upgrades
// (browsers cannot set headers on those).
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
