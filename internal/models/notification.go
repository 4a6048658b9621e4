package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by the core transitions.
const (
	NotificationTypeJobUpdate   = "job_update"
	NotificationTypeJobComplete = "job_complete"
	NotificationTypeWithdrawal  = "withdrawal"
	NotificationTypeOnboarding  = "onboarding"
)

// Notification is a fire-and-forget message shown to a user.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
