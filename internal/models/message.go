package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventMessageCreated is pushed to the other participants of a job chat.
const EventMessageCreated = "message.created"

// Message is one entry in the conversation attached to a job.
type Message struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID    uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	SenderID uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Text     string    `gorm:"type:text;not null" json:"text"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// MessageView is a message joined with its sender.
type MessageView struct {
	ID         uuid.UUID `json:"id"`
	JobID      uuid.UUID `json:"job_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	SenderRole Role      `json:"sender_role"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}
