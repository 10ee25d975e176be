package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotifProposalSubmitted     = "proposal.submitted"
	NotifProposalStatusChanged = "proposal.status_changed"
)

type Notification struct {
	ID      uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    string         `gorm:"type:varchar(50);not null" json:"type"`
	Payload datatypes.JSON `json:"payload"`
	Read    bool           `gorm:"not null;default:false" json:"read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
