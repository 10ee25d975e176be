package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// Terminal reports whether no further transition is defined from s.
func (s ProposalStatus) Terminal() bool {
	return s == ProposalAccepted || s == ProposalRejected
}

type Proposal struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"job_id"`
	FreelancerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"freelancer_id"`
	Message      string         `gorm:"type:text;not null" json:"message"`
	Status       ProposalStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// ProposalView is a proposal joined with its author.
type ProposalView struct {
	ID              uuid.UUID      `json:"id"`
	JobID           uuid.UUID      `json:"job_id"`
	FreelancerID    uuid.UUID      `json:"freelancer_id"`
	FreelancerName  string         `json:"freelancer_name"`
	FreelancerEmail string         `json:"freelancer_email"`
	Message         string         `json:"message"`
	Status          ProposalStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}
