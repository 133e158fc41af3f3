package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairchat/backend/internal/api/handler"
	"pairchat/backend/internal/auth"
	"pairchat/backend/internal/models"
	"pairchat/backend/internal/storage"
)

// stubStore records roster upserts; the live-subscription surface is not
// exercised over plain HTTP.
type stubStore struct {
	upserted []*models.User
}

func (s *stubStore) UpsertUser(user *models.User) error {
	s.upserted = append(s.upserted, user)
	return nil
}
func (s *stubStore) UpsertRoom(string, []string) error { return nil }
func (s *stubStore) AppendMessage(string, string, string) (*models.Message, error) {
	return nil, errors.New("not implemented")
}
func (s *stubStore) ListUsers() ([]models.User, error)             { return nil, nil }
func (s *stubStore) ListMessages(string) ([]models.Message, error) { return nil, nil }
func (s *stubStore) SubscribeUsers(context.Context) (*storage.UserSubscription, error) {
	return nil, errors.New("not implemented")
}
func (s *stubStore) SubscribeMessages(context.Context, string) (*storage.MessageSubscription, error) {
	return nil, errors.New("not implemented")
}

func newTestRouter(store storage.Storage) (*gin.Engine, *auth.MemoryProvider, *auth.TokenManager) {
	gin.SetMode(gin.TestMode)
	provider := auth.NewMemoryProvider()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := handler.NewHandler(store, provider, tokens)

	r := gin.New()
	r.POST("/api/login", h.Login)
	r.POST("/api/profile", h.RequireAuth, h.UpdateProfile)
	return r, provider, tokens
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestLoginIssuesToken verifies a valid credential yields a session token
// that validates back to the same UID.
func TestLoginIssuesToken(t *testing.T) {
	r, _, tokens := newTestRouter(&stubStore{})

	w := doJSON(r, http.MethodPost, "/api/login", "", auth.Credential{
		UID: "u1", Name: "Alice", Email: "a@example.com", PhotoURL: "http://x/a.png",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.User.Name)

	uid, err := tokens.Validate(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

// TestLoginRejectsBadCredential verifies a failed sign-in returns 401 and
// leaves the caller signed out.
func TestLoginRejectsBadCredential(t *testing.T) {
	r, _, _ := newTestRouter(&stubStore{})

	w := doJSON(r, http.MethodPost, "/api/login", "", auth.Credential{Name: "NoUID"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestProfileRequiresAuth verifies the profile route refuses requests
// without a valid token.
func TestProfileRequiresAuth(t *testing.T) {
	r, _, _ := newTestRouter(&stubStore{})

	w := doJSON(r, http.MethodPost, "/api/profile", "", map[string]string{
		"name": "Bob", "photoURL": "http://x/y.png",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestProfileBothOrNeither verifies partial edits are rejected before any
// backend write.
func TestProfileBothOrNeither(t *testing.T) {
	store := &stubStore{}
	r, provider, tokens := newTestRouter(store)

	_, err := provider.SignIn(context.Background(), auth.Credential{UID: "u1", Name: "Alice", Email: "a@example.com"})
	require.NoError(t, err)
	token, err := tokens.Mint("u1")
	require.NoError(t, err)

	for _, body := range []map[string]string{
		{"name": "", "photoURL": "http://x/y.png"},
		{"name": "Bob", "photoURL": ""},
		{"name": "  ", "photoURL": "  "},
	} {
		w := doJSON(r, http.MethodPost, "/api/profile", token, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Empty(t, store.upserted, "no roster write on rejected edit")
}

// TestProfileUpdatesProviderAndRoster verifies the success path touches
// both the identity record and the roster store.
func TestProfileUpdatesProviderAndRoster(t *testing.T) {
	store := &stubStore{}
	r, provider, tokens := newTestRouter(store)

	ctx := context.Background()
	_, err := provider.SignIn(ctx, auth.Credential{UID: "u1", Name: "Alice", Email: "a@example.com"})
	require.NoError(t, err)
	token, err := tokens.Mint("u1")
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/api/profile", token, map[string]string{
		"name": "Bob", "photoURL": "http://x/y.png",
	})

	require.Equal(t, http.StatusOK, w.Code)

	record, err := provider.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Bob", record.Name)

	require.Len(t, store.upserted, 1)
	assert.Equal(t, "u1", store.upserted[0].UID)
	assert.Equal(t, "Bob", store.upserted[0].Name)
	assert.Equal(t, "http://x/y.png", store.upserted[0].PhotoURL)
}
