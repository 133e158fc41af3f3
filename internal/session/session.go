package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"pairchat/backend/internal/auth"
	"pairchat/backend/internal/models"
	"pairchat/backend/internal/storage"
)

var (
	// ErrNotSignedIn is returned by operations that require an identity.
	ErrNotSignedIn = errors.New("no signed-in user")
	// ErrProfileIncomplete rejects profile edits that do not carry both
	// a display name and a photo URL after trimming.
	ErrProfileIncomplete = errors.New("display name and photo URL are both required")
	// ErrEnded is returned when a lifecycle method is called on a
	// session that was already torn down.
	ErrEnded = errors.New("session already ended")
)

// Session owns the signed-in user's identity, the active conversation
// pointer and the live subscriptions to the backend. It holds at most one
// message subscription at any instant; switching rooms cancels the old
// handle synchronously before the new one is opened, and a delivery from a
// cancelled handle never reaches the view.
//
// A Session lives for the duration of one sign-in: Begin starts it, End
// tears it down. A session is not reusable after End.
type Session struct {
	store storage.Storage
	auth  auth.Provider
	view  View

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	user         *models.User
	activeRoomID string
	activeOther  string
	rosterSub    *storage.UserSubscription
	msgSub       *storage.MessageSubscription
	// msgGen stamps the current message subscription. Deliveries carrying
	// an older stamp are stale and are dropped before rendering.
	msgGen uint64
	ended  bool
}

func New(store storage.Storage, provider auth.Provider, view View) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		store:  store,
		auth:   provider,
		view:   view,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Begin transitions the session into the signed-in state. It merge-upserts
// the user's record into the roster store so others can see them, renders
// the local identity and starts the live roster subscription.
func (s *Session) Begin(user models.User) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrEnded
	}
	u := user
	s.user = &u
	s.mu.Unlock()

	if err := s.store.UpsertUser(&user); err != nil {
		// The roster entry stays stale but the session still works.
		log.Printf("WARN: roster upsert for %s failed: %v", user.UID, err)
	}

	sub, err := s.store.SubscribeUsers(s.ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rosterSub = sub
	s.mu.Unlock()

	s.view.RenderIdentity(user)
	go s.pumpRoster(sub)
	return nil
}

// OpenChat switches the active conversation to the room shared with the
// given user. Any previous message subscription is cancelled before the new
// one is opened, and its stamp is invalidated first so a delivery that was
// already in flight cannot repopulate the new room's view.
func (s *Session) OpenChat(other models.User) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return ErrEnded
	}
	if s.user == nil {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	roomID := RoomID(s.user.UID, other.UID)
	if s.activeRoomID == roomID && s.msgSub != nil {
		s.mu.Unlock()
		return nil
	}
	if s.msgSub != nil {
		s.msgSub.Cancel()
		s.msgSub = nil
	}
	// No room is active until the new subscription is in place; a send
	// racing the switch must not land in the old room.
	s.activeRoomID = ""
	s.activeOther = ""
	s.msgGen++
	gen := s.msgGen
	s.mu.Unlock()

	sub, err := s.store.SubscribeMessages(s.ctx, roomID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.ended || gen != s.msgGen {
		// End or another OpenChat won the race while we were
		// subscribing. The newer owner keeps the slot.
		s.mu.Unlock()
		sub.Cancel()
		return nil
	}
	s.msgSub = sub
	s.activeRoomID = roomID
	s.activeOther = other.UID
	s.mu.Unlock()

	go s.pumpMessages(gen, sub)
	return nil
}

// SendMessage appends a text message to the active room. Empty input or a
// missing active room is a silent no-op: nothing is written. The room
// document is merge-upserted with both participant UIDs strictly before the
// message insert; the server-side access policy authorizes the write only
// for listed participants, so the ordering is a hard precondition.
func (s *Session) SendMessage(text string) error {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if s.user == nil || s.activeRoomID == "" || text == "" {
		s.mu.Unlock()
		return nil
	}
	roomID := s.activeRoomID
	sender := s.user.UID
	other := s.activeOther
	s.mu.Unlock()

	if err := s.store.UpsertRoom(roomID, []string{sender, other}); err != nil {
		log.Printf("ERROR: room upsert for %s failed, message dropped: %v", roomID, err)
		return err
	}
	if _, err := s.store.AppendMessage(roomID, sender, text); err != nil {
		log.Printf("ERROR: message insert in %s failed: %v", roomID, err)
		return err
	}
	return nil
}

// UpdateProfile changes the display name and avatar, both-or-neither. The
// identity-provider record is updated first, then the roster store entry,
// then the locally rendered identity.
func (s *Session) UpdateProfile(ctx context.Context, name, photoURL string) error {
	name = strings.TrimSpace(name)
	photoURL = strings.TrimSpace(photoURL)
	if name == "" || photoURL == "" {
		return ErrProfileIncomplete
	}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	uid := s.user.UID
	s.mu.Unlock()

	if err := s.auth.UpdateProfile(ctx, uid, name, photoURL); err != nil {
		return err
	}
	if err := s.store.UpsertUser(&models.User{UID: uid, Name: name, PhotoURL: photoURL}); err != nil {
		return err
	}

	s.mu.Lock()
	if s.user == nil || s.user.UID != uid {
		s.mu.Unlock()
		return nil
	}
	s.user.Name = name
	s.user.PhotoURL = photoURL
	me := *s.user
	s.mu.Unlock()

	s.view.RenderIdentity(me)
	return nil
}

// End tears the session down: both subscriptions are cancelled, pointers
// are cleared and no delivery renders afterwards. Idempotent.
func (s *Session) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.msgGen++
	if s.msgSub != nil {
		s.msgSub.Cancel()
		s.msgSub = nil
	}
	if s.rosterSub != nil {
		s.rosterSub.Cancel()
		s.rosterSub = nil
	}
	s.user = nil
	s.activeRoomID = ""
	s.activeOther = ""
	s.mu.Unlock()

	s.cancel()
}

// CurrentUser returns a copy of the signed-in user, or false when signed
// out.
func (s *Session) CurrentUser() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// ActiveRoomID returns the room the conversation facet currently points at,
// or the empty string.
func (s *Session) ActiveRoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeRoomID
}

// pumpRoster forwards roster snapshots to the view, dropping the session
// owner's own record from each one. Rendering happens under the session
// lock so that nothing is delivered once End has run.
func (s *Session) pumpRoster(sub *storage.UserSubscription) {
	for snapshot := range sub.C {
		s.mu.Lock()
		if s.ended || s.user == nil {
			s.mu.Unlock()
			return
		}
		self := s.user.UID
		others := make([]models.User, 0, len(snapshot))
		for _, u := range snapshot {
			if u.UID != self {
				others = append(others, u)
			}
		}
		s.view.RenderRoster(others)
		s.mu.Unlock()
	}
}

// pumpMessages forwards message snapshots for one subscription. The stamp
// check under the lock makes a delivery from a replaced or cancelled
// subscription a no-op even if it raced the switch.
func (s *Session) pumpMessages(gen uint64, sub *storage.MessageSubscription) {
	for snapshot := range sub.C {
		s.mu.Lock()
		if s.ended || gen != s.msgGen {
			s.mu.Unlock()
			return
		}
		s.view.RenderMessages(sub.RoomID, snapshot)
		s.mu.Unlock()
	}
}
