package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectRequest statuses.
const (
	ProjectRequestUnderReview = "Under Review"
	ProjectRequestApproved    = "Approved"
)

// ProjectRequest is a pre-contract brief from a client for a larger
// project. An admin reviews it and assigns an artisan with a negotiated
// amount, at which point it becomes a Job.
type ProjectRequest struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	ClientID       uuid.UUID        `db:"client_id" json:"client_id"`
	Title          string           `db:"title" json:"title"`
	Description    string           `db:"description" json:"description"`
	Location       string           `db:"location" json:"location"`
	ProposedBudget *decimal.Decimal `db:"proposed_budget" json:"proposed_budget,omitempty"`
	Status         string           `db:"status" json:"status"`
	JobID          *uuid.UUID       `db:"job_id" json:"job_id,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

// ProjectUpdate is a status note (optionally with a photo) posted on a
// contracted project.
type ProjectUpdate struct {
	ID         uuid.UUID `db:"id" json:"id"`
	JobID      uuid.UUID `db:"job_id" json:"job_id"`
	AuthorID   uuid.UUID `db:"author_id" json:"author_id"`
	AuthorRole Role      `db:"author_role" json:"author_role"`
	Message    string    `db:"message" json:"message"`
	PhotoURL   *string   `db:"photo_url" json:"photo_url,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ProjectMilestone is a checklist item on a contracted project.
type ProjectMilestone struct {
	ID        uuid.UUID `db:"id" json:"id"`
	JobID     uuid.UUID `db:"job_id" json:"job_id"`
	Title     string    `db:"title" json:"title"`
	Done      bool      `db:"done" json:"done"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatMessage is one line of the per-project chat log. Plain
// insert-and-list, no processing.
type ChatMessage struct {
	ID         uuid.UUID `db:"id" json:"id"`
	JobID      uuid.UUID `db:"job_id" json:"job_id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	SenderRole Role      `db:"sender_role" json:"sender_role"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
