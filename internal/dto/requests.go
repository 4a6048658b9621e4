package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterRequest is the client sign-up payload.
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the email login payload for clients and admins.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateContactRequest updates a client's profile.
type UpdateContactRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// ArtisanRegisterRequest is the artisan sign-up payload.
type ArtisanRegisterRequest struct {
	FullName        string          `json:"full_name" binding:"required"`
	Phone           string          `json:"phone" binding:"required"`
	Password        string          `json:"password" binding:"required"`
	Trade           string          `json:"trade" binding:"required"`
	Region          string          `json:"region" binding:"required"`
	Town            string          `json:"town" binding:"required"`
	DigitalAddress  string          `json:"digital_address"`
	PriceRange      decimal.Decimal `json:"price_range" binding:"required"`
	GhanaCardNumber string          `json:"ghana_card_number"`
	HasCertificate  bool            `json:"has_certificate"`
}

// ArtisanLoginRequest is the phone login payload for artisans.
type ArtisanLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ReportPaymentRequest flags a subscription payment for admin review.
type ReportPaymentRequest struct {
	Reference string `json:"reference"`
}

// UpdateArtisanProfileRequest updates the artisan's own profile.
type UpdateArtisanProfileRequest struct {
	FullName   string          `json:"full_name" binding:"required"`
	Phone      string          `json:"phone" binding:"required"`
	Trade      string          `json:"trade" binding:"required"`
	PriceRange decimal.Decimal `json:"price_range" binding:"required"`
}

// UpdateArtisanLocationRequest updates the artisan's service area.
type UpdateArtisanLocationRequest struct {
	Town           string `json:"town" binding:"required"`
	Region         string `json:"region" binding:"required"`
	DigitalAddress string `json:"digital_address"`
}

// UpdateAvailabilityRequest flips the artisan's availability.
type UpdateAvailabilityRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookJobRequest creates a job. ArtisanID set means a direct booking at
// the artisan's base fee; without it the job is an open post at the
// client's budget.
type BookJobRequest struct {
	ArtisanID    *uuid.UUID      `json:"artisan_id"`
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	Location     string          `json:"location" binding:"required"`
	Budget       decimal.Decimal `json:"budget"`
	NotifyOthers bool            `json:"notify_others"`
}

// CompleteJobRequest is the client-confirmation completion payload.
type CompleteJobRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

// WithdrawalRequest asks for a payout.
type WithdrawalRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required,oneof=momo bank"`
}

// RejectWithdrawalRequest rejects a payout with an optional reason.
type RejectWithdrawalRequest struct {
	Reason string `json:"reason"`
}

// ProjectRequestCreate files a client project brief.
type ProjectRequestCreate struct {
	Title          string           `json:"title" binding:"required"`
	Description    string           `json:"description" binding:"required"`
	Location       string           `json:"location" binding:"required"`
	ProposedBudget *decimal.Decimal `json:"proposed_budget"`
}

// AssignProjectRequest converts an approved brief into a contract.
type AssignProjectRequest struct {
	ArtisanID   uuid.UUID       `json:"artisan_id" binding:"required"`
	FinalAmount decimal.Decimal `json:"final_amount" binding:"required"`
}

// ProjectUpdateCreate posts a status note on a project.
type ProjectUpdateCreate struct {
	Message  string `json:"message" binding:"required"`
	PhotoURL string `json:"photo_url"`
}

// MilestoneCreate adds a checklist item to a project.
type MilestoneCreate struct {
	Title string `json:"title" binding:"required"`
}

// ChatMessageCreate appends one line to the project chat.
type ChatMessageCreate struct {
	Body string `json:"body" binding:"required"`
}
