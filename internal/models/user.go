package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

// internal/models/user.go
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`
	Banned   bool   `gorm:"not null;default:false" json:"banned"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Jobs          []Job          `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Proposals     []Proposal     `gorm:"foreignKey:FreelancerID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Messages      []Message      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
