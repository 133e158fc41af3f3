package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is one immutable chat entry inside a room. CreatedAt is assigned
// by the backend clock at write time and is the sole ordering key; readers
// always see messages sorted by it ascending.
type Message struct {
	ID string `gorm:"primaryKey" json:"id"`
	// RoomID ties the message to exactly one room.
	RoomID string `gorm:"type:text;not null;index:idx_room_created,priority:1" json:"roomId"`
	// SenderID is the UID of the participant who wrote the message.
	SenderID string `gorm:"type:text;not null" json:"senderId"`
	// Text is the message body. Never empty after trimming.
	Text string `gorm:"type:text;not null" json:"text"`
	// CreatedAt is set server-side on insert.
	CreatedAt time.Time `gorm:"index:idx_room_created,priority:2" json:"createdAt"`
}

// BeforeCreate is a GORM hook that assigns a fresh UUID when the message
// has no ID yet.
func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
