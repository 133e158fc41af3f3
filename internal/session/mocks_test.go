package session_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"pairchat/backend/internal/auth"
	"pairchat/backend/internal/models"
	"pairchat/backend/internal/storage"
)

// MockStorage is a mock implementation of the storage.Storage interface.
// Subscriptions are injected per test via fake feeds so deliveries and
// cancellation can be driven by hand.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UpsertUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) UpsertRoom(roomID string, participants []string) error {
	args := m.Called(roomID, participants)
	return args.Error(0)
}

func (m *MockStorage) AppendMessage(roomID, senderID, text string) (*models.Message, error) {
	args := m.Called(roomID, senderID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) ListUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) ListMessages(roomID string) ([]models.Message, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) SubscribeUsers(ctx context.Context) (*storage.UserSubscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UserSubscription), args.Error(1)
}

func (m *MockStorage) SubscribeMessages(ctx context.Context, roomID string) (*storage.MessageSubscription, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.MessageSubscription), args.Error(1)
}

// MockProvider is a mock implementation of the auth.Provider interface.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SignIn(ctx context.Context, cred auth.Credential) (*models.User, error) {
	args := m.Called(ctx, cred)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProvider) Profile(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockProvider) UpdateProfile(ctx context.Context, uid, name, photoURL string) error {
	args := m.Called(ctx, uid, name, photoURL)
	return args.Error(0)
}

// fakeRosterFeed drives a UserSubscription by hand.
type fakeRosterFeed struct {
	ch        chan []models.User
	mu        sync.Mutex
	cancelled bool
}

func newFakeRosterFeed() (*fakeRosterFeed, *storage.UserSubscription) {
	f := &fakeRosterFeed{ch: make(chan []models.User, 4)}
	sub := storage.NewUserSubscription(f.ch, func() {
		f.mu.Lock()
		f.cancelled = true
		f.mu.Unlock()
	})
	return f, sub
}

func (f *fakeRosterFeed) deliver(users []models.User) { f.ch <- users }

func (f *fakeRosterFeed) isCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

// fakeMessageFeed drives a MessageSubscription by hand. Cancel does not
// close the channel, so tests can still push a stale delivery afterwards
// and check that it is dropped.
type fakeMessageFeed struct {
	roomID    string
	ch        chan []models.Message
	mu        sync.Mutex
	cancelled bool
}

func newFakeMessageFeed(roomID string) (*fakeMessageFeed, *storage.MessageSubscription) {
	f := &fakeMessageFeed{roomID: roomID, ch: make(chan []models.Message, 4)}
	sub := storage.NewMessageSubscription(roomID, f.ch, func() {
		f.mu.Lock()
		f.cancelled = true
		f.mu.Unlock()
	})
	return f, sub
}

func (f *fakeMessageFeed) deliver(msgs []models.Message) { f.ch <- msgs }

func (f *fakeMessageFeed) isCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

// recordingView captures everything a session renders.
type recordingView struct {
	mu         sync.Mutex
	identities []models.User
	rosters    [][]models.User
	renders    []messageRender
}

type messageRender struct {
	roomID string
	msgs   []models.Message
}

func (v *recordingView) RenderIdentity(u models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.identities = append(v.identities, u)
}

func (v *recordingView) RenderRoster(users []models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rosters = append(v.rosters, users)
}

func (v *recordingView) RenderMessages(roomID string, msgs []models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders = append(v.renders, messageRender{roomID: roomID, msgs: msgs})
}

func (v *recordingView) rosterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.rosters)
}

func (v *recordingView) lastRoster() []models.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.rosters) == 0 {
		return nil
	}
	return v.rosters[len(v.rosters)-1]
}

func (v *recordingView) renderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.renders)
}

func (v *recordingView) lastRender() (messageRender, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.renders) == 0 {
		return messageRender{}, false
	}
	return v.renders[len(v.renders)-1], true
}

func (v *recordingView) identityCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.identities)
}

func (v *recordingView) lastIdentity() (models.User, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.identities) == 0 {
		return models.User{}, false
	}
	return v.identities[len(v.identities)-1], true
}
