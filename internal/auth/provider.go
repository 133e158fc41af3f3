package auth

import (
	"context"
	"errors"
	"sync"

	"pairchat/backend/internal/models"
)

var (
	// ErrInvalidCredential rejects sign-in assertions missing the
	// provider-assigned UID or email.
	ErrInvalidCredential = errors.New("invalid identity credential")
	// ErrUnknownUser is returned for profile operations on a UID the
	// provider has never seen sign in.
	ErrUnknownUser = errors.New("unknown user")
)

// Credential is the identity assertion produced by the provider's external
// sign-in flow. The hosted popup itself is out of scope; callers present
// its result.
type Credential struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
}

// Provider is the identity collaborator: it owns the canonical profile
// record per user. Display name and avatar edits route through it in
// addition to the roster store.
type Provider interface {
	// SignIn validates a credential and returns the provider-side user
	// record, creating or refreshing it as needed.
	SignIn(ctx context.Context, cred Credential) (*models.User, error)
	// Profile returns the current provider-side record for a UID.
	Profile(ctx context.Context, uid string) (*models.User, error)
	// UpdateProfile replaces the display name and photo URL on the
	// provider-side record.
	UpdateProfile(ctx context.Context, uid, name, photoURL string) error
}

// MemoryProvider keeps provider-side profile records in process memory.
// It stands where the hosted identity provider would be wired.
type MemoryProvider struct {
	mu       sync.Mutex
	profiles map[string]*models.User
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{profiles: make(map[string]*models.User)}
}

// SignIn accepts any credential carrying a UID and an email, the two fields
// the external flow always supplies. Name and photo merge into an existing
// record when present.
func (p *MemoryProvider) SignIn(ctx context.Context, cred Credential) (*models.User, error) {
	if cred.UID == "" || cred.Email == "" {
		return nil, ErrInvalidCredential
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.profiles[cred.UID]
	if !ok {
		u = &models.User{UID: cred.UID}
		p.profiles[cred.UID] = u
	}
	u.Email = cred.Email
	if cred.Name != "" {
		u.Name = cred.Name
	}
	if cred.PhotoURL != "" {
		u.PhotoURL = cred.PhotoURL
	}

	out := *u
	return &out, nil
}

func (p *MemoryProvider) Profile(ctx context.Context, uid string) (*models.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.profiles[uid]
	if !ok {
		return nil, ErrUnknownUser
	}
	out := *u
	return &out, nil
}

func (p *MemoryProvider) UpdateProfile(ctx context.Context, uid, name, photoURL string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	u, ok := p.profiles[uid]
	if !ok {
		return ErrUnknownUser
	}
	u.Name = name
	u.PhotoURL = photoURL
	return nil
}
