package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// UsersChannel is the Redis channel carrying change events for the users
// collection.
const UsersChannel = "changes:users"

// MessagesChannel returns the Redis channel carrying change events for one
// room's message sub-collection.
func MessagesChannel(roomID string) string {
	return "changes:messages:" + roomID
}

// Notifier is the change feed behind live subscriptions. A publish on a
// collection's channel tells every subscriber that the collection moved and
// a fresh snapshot should be read. The payload carries no data; the snapshot
// is always re-read from the store.
type Notifier struct {
	Redis *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{Redis: rdb}
}

// Publish emits one change event on the given channel.
func (n *Notifier) Publish(ctx context.Context, channel string) error {
	return n.Redis.Publish(ctx, channel, "1").Err()
}

// Listen subscribes to a channel and returns a tick stream: one empty
// struct per change event. The stream closes when ctx is cancelled.
func (n *Notifier) Listen(ctx context.Context, channel string) <-chan struct{} {
	pubsub := n.Redis.Subscribe(ctx, channel)
	ticks := make(chan struct{}, 1)

	go func() {
		defer close(ticks)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				// Coalesce bursts: a pending tick already forces a
				// fresh snapshot read.
				select {
				case ticks <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ticks
}
