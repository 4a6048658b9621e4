package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Availability statuses an artisan can set for themselves.
const (
	ArtisanStatusAvailable = "Available"
	ArtisanStatusBusy      = "Busy"
)

// OnboardingStage is where an artisan sits in the verification pipeline.
type OnboardingStage string

const (
	// StageDocs: registered, documents not yet verified by an admin.
	StageDocs OnboardingStage = "docs"
	// StagePayment: verified, subscription payment not yet confirmed.
	StagePayment OnboardingStage = "payment"
	// StageComplete: full marketplace access.
	StageComplete OnboardingStage = "complete"
)

// Artisan describes a tradesperson offering services through the platform.
// The phone number is the login key.
type Artisan struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	FullName           string          `db:"full_name" json:"full_name"`
	Phone              string          `db:"phone" json:"phone"`
	PasswordHash       string          `db:"password_hash" json:"-"`
	Trade              string          `db:"trade" json:"trade"`
	Region             string          `db:"region" json:"region"`
	Town               string          `db:"town" json:"town"`
	DigitalAddress     *string         `db:"digital_address" json:"digital_address,omitempty"`
	Location           string          `db:"location" json:"location"`
	PriceRange         decimal.Decimal `db:"price_range" json:"price_range"`
	GhanaCardNumber    *string         `db:"ghana_card_number" json:"ghana_card_number,omitempty"`
	HasCertificate     bool            `db:"has_certificate" json:"has_certificate"`
	ImageURL           *string         `db:"image_url" json:"image_url,omitempty"`
	Rating             float64         `db:"rating" json:"rating"`
	Status             string          `db:"status" json:"status"`
	IsVerified         bool            `db:"is_verified" json:"is_verified"`
	SubscriptionActive bool            `db:"subscription_active" json:"subscription_active"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// Stage derives the onboarding stage from the two admin-controlled flags.
// It must be recomputed from the stored record on every access check;
// admin actions flip the flags asynchronously relative to the artisan's
// token lifetime.
func (a *Artisan) Stage() OnboardingStage {
	return ResolveStage(a.IsVerified, a.SubscriptionActive)
}

// ResolveStage maps the verification flags onto an onboarding stage.
func ResolveStage(isVerified, subscriptionActive bool) OnboardingStage {
	switch {
	case !isVerified:
		return StageDocs
	case !subscriptionActive:
		return StagePayment
	default:
		return StageComplete
	}
}
