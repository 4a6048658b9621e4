package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses. A payment is recorded as "completed" the moment the
// job settles on either completion path; "processing" is reserved for
// payouts flagged for manual review.
const (
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
)

// CommissionRate is the platform's cut of every settled job.
var CommissionRate = decimal.NewFromFloat(0.15)

// Payment records the settlement split for one completed job.
// Exactly one payment exists per completed job, and
// ArtisanAmount + PlatformCommission always equals TotalAmount.
type Payment struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	JobID              uuid.UUID       `db:"job_id" json:"job_id"`
	ArtisanID          uuid.UUID       `db:"artisan_id" json:"artisan_id"`
	ClientID           uuid.UUID       `db:"client_id" json:"client_id"`
	TotalAmount        decimal.Decimal `db:"total_amount" json:"total_amount"`
	ArtisanAmount      decimal.Decimal `db:"artisan_amount" json:"artisan_amount"`
	PlatformCommission decimal.Decimal `db:"platform_commission" json:"platform_commission"`
	Status             string          `db:"status" json:"status"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

// SplitAmount computes the settlement split for a job amount. The
// artisan share is rounded to pesewas and the commission is the exact
// remainder, so the two always sum back to the total.
func SplitAmount(total decimal.Decimal) (artisanAmount, platformCommission decimal.Decimal) {
	artisanAmount = total.Sub(total.Mul(CommissionRate)).Round(2)
	platformCommission = total.Sub(artisanAmount)
	return artisanAmount, platformCommission
}
