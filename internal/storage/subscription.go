package storage

import (
	"context"
	"log"

	"pairchat/backend/internal/models"
)

// UserSubscription is a live feed over the full users collection. Every
// delivery on C is a complete current snapshot; consumers re-render their
// whole list each time. Cancel stops the feed and closes C.
type UserSubscription struct {
	C      <-chan []models.User
	cancel context.CancelFunc
}

// NewUserSubscription wraps an existing snapshot channel. Used by Service
// and by test doubles standing in for it.
func NewUserSubscription(c <-chan []models.User, cancel context.CancelFunc) *UserSubscription {
	return &UserSubscription{C: c, cancel: cancel}
}

func (s *UserSubscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// MessageSubscription is a live feed over one room's message list, ordered
// by creation time ascending. Same snapshot-per-change contract as
// UserSubscription.
type MessageSubscription struct {
	RoomID string
	C      <-chan []models.Message
	cancel context.CancelFunc
}

func NewMessageSubscription(roomID string, c <-chan []models.Message, cancel context.CancelFunc) *MessageSubscription {
	return &MessageSubscription{RoomID: roomID, C: c, cancel: cancel}
}

func (s *MessageSubscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// SubscribeUsers opens a live subscription over the users collection. The
// initial snapshot is delivered immediately, then a fresh one follows every
// change event.
func (s *Service) SubscribeUsers(ctx context.Context) (*UserSubscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	ticks := s.Notifier.Listen(ctx, UsersChannel)
	out := make(chan []models.User, 1)

	go func() {
		defer close(out)
		if !s.deliverUsers(ctx, out) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				if !s.deliverUsers(ctx, out) {
					return
				}
			}
		}
	}()

	return NewUserSubscription(out, cancel), nil
}

// SubscribeMessages opens a live subscription over one room's messages.
func (s *Service) SubscribeMessages(ctx context.Context, roomID string) (*MessageSubscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	ticks := s.Notifier.Listen(ctx, MessagesChannel(roomID))
	out := make(chan []models.Message, 1)

	go func() {
		defer close(out)
		if !s.deliverMessages(ctx, roomID, out) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ticks:
				if !ok {
					return
				}
				if !s.deliverMessages(ctx, roomID, out) {
					return
				}
			}
		}
	}()

	return NewMessageSubscription(roomID, out, cancel), nil
}

func (s *Service) deliverUsers(ctx context.Context, out chan<- []models.User) bool {
	users, err := s.ListUsers()
	if err != nil {
		// Delivery for this change is skipped; the subscription stays up.
		log.Printf("ERROR: users snapshot read failed: %v", err)
		return true
	}
	select {
	case out <- users:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Service) deliverMessages(ctx context.Context, roomID string, out chan<- []models.Message) bool {
	msgs, err := s.ListMessages(roomID)
	if err != nil {
		log.Printf("ERROR: message snapshot read failed for room %s: %v", roomID, err)
		return true
	}
	select {
	case out <- msgs:
		return true
	case <-ctx.Done():
		return false
	}
}
