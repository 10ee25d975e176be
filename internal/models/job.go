// internal/models/job.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Budget      float64   `gorm:"type:numeric(12,2);not null" json:"budget"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Status      JobStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Proposals []Proposal `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Messages  []Message  `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}

// JobFilter narrows ListJobs. The zero value matches every job.
type JobFilter struct {
	Search    string
	MinBudget float64
	MaxBudget float64
	Status    JobStatus
	OwnerID   uuid.UUID
	// AwardedTo keeps jobs where this freelancer has an accepted proposal.
	AwardedTo uuid.UUID
}

// JobView is a job joined with its owner's name and its proposals.
type JobView struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Budget      float64        `json:"budget"`
	OwnerID     uuid.UUID      `json:"user_id"`
	ClientName  string         `json:"client_name"`
	Status      JobStatus      `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	Proposals   []ProposalView `json:"proposals"`
}
