package models

import "github.com/lib/pq"

// ChatRoom is the pairing document under which a two-party conversation's
// messages are stored. Rooms are created lazily: the first send in a pair
// merge-upserts the document, and every later send repeats the upsert, so
// re-creation is idempotent. The participants list is what the server-side
// access policy checks before accepting message writes.
type ChatRoom struct {
	// RoomID is the deterministic pairwise key, identical regardless of
	// which participant initiated the conversation.
	RoomID string `gorm:"primaryKey" json:"roomId"`
	// Participants holds exactly the two user UIDs of the pair.
	Participants pq.StringArray `gorm:"type:text[]" json:"participants"`
}
