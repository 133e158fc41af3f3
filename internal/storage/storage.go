package storage

import (
	"context"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pairchat/backend/internal/models"
)

// Storage is the document-backend contract the session controller talks to.
// Writes follow hosted-document-database semantics: upserts merge into the
// existing record, message timestamps are assigned by the backend at write
// time, and reads deliver full snapshots rather than diffs.
type Storage interface {
	UpsertUser(user *models.User) error
	UpsertRoom(roomID string, participants []string) error
	AppendMessage(roomID, senderID, text string) (*models.Message, error)

	ListUsers() ([]models.User, error)
	ListMessages(roomID string) ([]models.Message, error)

	SubscribeUsers(ctx context.Context) (*UserSubscription, error)
	SubscribeMessages(ctx context.Context, roomID string) (*MessageSubscription, error)
}

// Service implements Storage over PostgreSQL documents and a Redis
// change feed.
type Service struct {
	DB       *gorm.DB
	Notifier *Notifier
	Ctx      context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:       db,
		Notifier: NewNotifier(rdb),
		Ctx:      context.Background(),
	}
}

// UpsertUser writes the user document with merge semantics: only fields
// carrying a value overwrite the stored record, absent fields stay as they
// were. Publishes a users change event so roster subscriptions refresh.
func (s *Service) UpsertUser(user *models.User) error {
	var cols []string
	if user.Name != "" {
		cols = append(cols, "name")
	}
	if user.Email != "" {
		cols = append(cols, "email")
	}
	if user.PhotoURL != "" {
		cols = append(cols, "photo_url")
	}

	conflict := clause.OnConflict{Columns: []clause.Column{{Name: "uid"}}}
	if len(cols) == 0 {
		conflict.DoNothing = true
	} else {
		conflict.DoUpdates = clause.AssignmentColumns(cols)
	}

	if err := s.DB.Clauses(conflict).Create(user).Error; err != nil {
		log.Printf("ERROR: Failed to upsert user %s: %v", user.UID, err)
		return err
	}
	return s.Notifier.Publish(s.Ctx, UsersChannel)
}

// UpsertRoom writes the room document with merge semantics. Idempotent:
// every send in a pair repeats this upsert so that the participants list is
// in place before the message write it precedes.
func (s *Service) UpsertRoom(roomID string, participants []string) error {
	room := &models.ChatRoom{
		RoomID:       roomID,
		Participants: participants,
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"participants"}),
	}).Create(room).Error
}

// AppendMessage inserts an immutable message with a backend-assigned
// timestamp and publishes a change event on the room's message channel.
func (s *Service) AppendMessage(roomID, senderID, text string) (*models.Message, error) {
	msg := &models.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Text:     text,
	}
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to append message in room %s: %v", roomID, err)
		return nil, err
	}
	if err := s.Notifier.Publish(s.Ctx, MessagesChannel(roomID)); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListUsers returns the full users collection, name ascending.
func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("name asc").Find(&users).Error; err != nil {
		log.Printf("ERROR: Failed to list users: %v", err)
		return nil, err
	}
	return users, nil
}

// ListMessages returns the full message list for a room, creation time
// ascending. A room with no messages yields an empty list, not an error.
func (s *Service) ListMessages(roomID string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Where("room_id = ?", roomID).Order("created_at asc").Find(&msgs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return msgs, nil
		}
		log.Printf("ERROR: Failed to list messages for room %s: %v", roomID, err)
		return nil, err
	}
	return msgs, nil
}

// GetRoomByID returns the room document, or an error when it was never
// created (no message has been sent in the pair yet).
func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Where("room_id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("chat room not found")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}
