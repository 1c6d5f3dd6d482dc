package models

import (
	"time"
)

// Host is an event-scoped credential: it can log in with the event's public
// id and a password, and moderate exactly that one event.
type Host struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	EventPublicID string     `json:"event_public_id" gorm:"uniqueIndex;not null"`
	Email         string     `json:"email" gorm:"not null"`
	Password      string     `json:"-" gorm:"not null"`
	Active        bool       `json:"active" gorm:"default:true"`
	LastLogin     *time.Time `json:"last_login"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type HostLoginRequest struct {
	EventPublicID string `json:"event_public_id" validate:"required"`
	Password      string `json:"password" validate:"required"`
}
