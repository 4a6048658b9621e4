package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Job statuses. A declined job goes back to Pending with the
// assignment cleared, there is no separate declined state.
const (
	JobStatusPending    = "Pending"
	JobStatusInProgress = "In Progress"
	JobStatusCompleted  = "Completed"
)

// ValidJobStatuses lists the statuses accepted in query filters.
var ValidJobStatuses = map[string]struct{}{
	JobStatusPending:    {},
	JobStatusInProgress: {},
	JobStatusCompleted:  {},
}

// Job is a contract between one client and at most one artisan.
// Amount is fixed at creation (the artisan's base price for direct
// bookings, the negotiated final amount for admin assignments) and is
// never recomputed.
type Job struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	ClientID     uuid.UUID       `db:"client_id" json:"client_id"`
	ArtisanID    *uuid.UUID      `db:"artisan_id" json:"artisan_id,omitempty"`
	Title        string          `db:"title" json:"title"`
	Description  *string         `db:"description" json:"description,omitempty"`
	Location     string          `db:"location" json:"location"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	Status       string          `db:"status" json:"status"`
	Rating       *int            `db:"rating" json:"rating,omitempty"`
	Review       *string         `db:"review" json:"review,omitempty"`
	DeclinedBy   *uuid.UUID      `db:"declined_by" json:"-"`
	NotifyOthers bool            `db:"notify_others" json:"notify_others"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	AssignedAt   *time.Time      `db:"assigned_at" json:"assigned_at,omitempty"`
	CompletedAt  *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}

// JobWithParties is a job row joined with the counterparty names for
// list and detail views.
type JobWithParties struct {
	Job
	ClientName   *string `db:"client_name" json:"client_name,omitempty"`
	ArtisanName  *string `db:"artisan_name" json:"artisan_name,omitempty"`
	ArtisanTrade *string `db:"artisan_trade" json:"artisan_trade,omitempty"`
}
