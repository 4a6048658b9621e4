package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

// Payout methods artisans can request.
const (
	WithdrawalMethodMomo = "momo"
	WithdrawalMethodBank = "bank"
)

// MinWithdrawalAmount is the smallest payout the platform processes, in GHS.
var MinWithdrawalAmount = decimal.NewFromInt(10)

// Withdrawal is an artisan's request to pay out earned balance.
type Withdrawal struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	ArtisanID       uuid.UUID       `db:"artisan_id" json:"artisan_id"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Method          string          `db:"method" json:"method"`
	Status          string          `db:"status" json:"status"`
	RejectionReason *string         `db:"rejection_reason" json:"rejection_reason,omitempty"`
	RequestedAt     time.Time       `db:"requested_at" json:"requested_at"`
	ProcessedAt     *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}
