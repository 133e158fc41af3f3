package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pairchat/backend/internal/auth"
	"pairchat/backend/internal/models"
)

// Login completes the external sign-in flow: the client presents the
// credential the identity provider handed it, and gets a session token plus
// its user record back. A failed or cancelled sign-in yields 401 and leaves
// no state behind.
func (h *Handler) Login(c *gin.Context) {
	var cred auth.Credential
	if err := c.ShouldBindJSON(&cred); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed credential"})
		return
	}

	user, err := h.Auth.SignIn(c.Request.Context(), cred)
	if err != nil {
		log.Printf("INFO: sign-in rejected: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in failed"})
		return
	}

	token, err := h.Tokens.Mint(user.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

type profileRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// UpdateProfile is the HTTP path for the profile-edit modal. Both fields
// are required after trimming; a partial edit is rejected before any
// backend write. On success both the provider record and the roster store
// entry are updated.
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid := c.GetString("uid")

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
		return
	}

	name := strings.TrimSpace(req.Name)
	photoURL := strings.TrimSpace(req.PhotoURL)
	if name == "" || photoURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and photoURL are both required"})
		return
	}

	if err := h.Auth.UpdateProfile(c.Request.Context(), uid, name, photoURL); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	if err := h.Store.UpsertUser(&models.User{UID: uid, Name: name, PhotoURL: photoURL}); err != nil {
		log.Printf("ERROR: roster update for %s failed: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notice": "Profile updated successfully!"})
}
