package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/validation"
)

// ArtisanStore is what the artisan service needs from the artisans table.
type ArtisanStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error)
	GetByPhone(ctx context.Context, phone string) (*models.Artisan, error)
	ListCatalog(ctx context.Context, tradeQuery, locationQuery string) ([]models.Artisan, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone, trade string, priceRange decimal.Decimal) error
	UpdateLocation(ctx context.Context, id uuid.UUID, location, town, region string, digitalAddress *string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ArtisanJobCounter counts an artisan's jobs by status.
type ArtisanJobCounter interface {
	CountByArtisanAndStatus(ctx context.Context, artisanID uuid.UUID, status string) (int, error)
}

// ArtisanEarningsReader reads settled earnings totals.
type ArtisanEarningsReader interface {
	SumEarned(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error)
	SumEarnedCurrentMonth(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error)
}

// ArtisanReservedReader reads the payout amounts held against the balance.
type ArtisanReservedReader interface {
	SumReserved(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error)
}

// ArtisanService serves the public catalog and the artisan's own
// profile and dashboard.
type ArtisanService struct {
	store    ArtisanStore
	jobs     ArtisanJobCounter
	earnings ArtisanEarningsReader
	reserved ArtisanReservedReader
}

// UpdateProfileInput carries the self-service profile fields.
type UpdateProfileInput struct {
	FullName   string
	Phone      string
	Trade      string
	PriceRange decimal.Decimal
}

// UpdateLocationInput carries the self-service service-area fields.
type UpdateLocationInput struct {
	Town           string
	Region         string
	DigitalAddress string
}

// ArtisanDashboard is the artisan's home-screen summary.
type ArtisanDashboard struct {
	Artisan          *models.Artisan `json:"artisan"`
	CompletedJobs    int             `json:"completed_jobs"`
	ActiveJobs       int             `json:"active_jobs"`
	TotalEarned      decimal.Decimal `json:"total_earned"`
	EarnedThisMonth  decimal.Decimal `json:"earned_this_month"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

// NewArtisanService creates the artisan service.
func NewArtisanService(store ArtisanStore, jobs ArtisanJobCounter, earnings ArtisanEarningsReader, reserved ArtisanReservedReader) *ArtisanService {
	return &ArtisanService{
		store:    store,
		jobs:     jobs,
		earnings: earnings,
		reserved: reserved,
	}
}

// Catalog returns the browsable artisan list. Only artisans who cleared
// both onboarding gates appear; the filtering happens in the query, not
// here, so an admin flipping a flag is reflected immediately.
func (s *ArtisanService) Catalog(ctx context.Context, trade, location string) ([]models.Artisan, error) {
	return s.store.ListCatalog(ctx, strings.TrimSpace(trade), strings.TrimSpace(location))
}

// Get returns one artisan's public profile.
func (s *ArtisanService) Get(ctx context.Context, id uuid.UUID) (*models.Artisan, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateProfile updates the artisan's own profile fields. The base fee
// cap applies on update exactly as on registration.
func (s *ArtisanService) UpdateProfile(ctx context.Context, artisanID uuid.UUID, in UpdateProfileInput) (*models.Artisan, error) {
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, fmt.Errorf("artisan service: %w", err)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, fmt.Errorf("artisan service: %w", err)
	}
	if err := validation.ValidateNonEmpty("trade", in.Trade); err != nil {
		return nil, fmt.Errorf("artisan service: %w", err)
	}
	if err := validation.ValidateBasePrice(in.PriceRange); err != nil {
		return nil, fmt.Errorf("artisan service: %w", err)
	}

	phone := strings.TrimSpace(in.Phone)
	if other, err := s.store.GetByPhone(ctx, phone); err == nil && other.ID != artisanID {
		return nil, fmt.Errorf("artisan service: phone number is already registered")
	} else if err != nil && !errors.Is(err, repository.ErrArtisanNotFound) {
		return nil, err
	}

	err := s.store.UpdateProfile(ctx, artisanID,
		strings.TrimSpace(in.FullName), phone, strings.TrimSpace(in.Trade), in.PriceRange)
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, artisanID)
}

// UpdateLocation updates the artisan's service area and rebuilds the
// free-text location the job matcher searches against.
func (s *ArtisanService) UpdateLocation(ctx context.Context, artisanID uuid.UUID, in UpdateLocationInput) (*models.Artisan, error) {
	if err := validation.ValidateNonEmpty("town", in.Town); err != nil {
		return nil, fmt.Errorf("artisan service: %w", err)
	}
	if !models.IsKnownRegion(in.Region) {
		return nil, fmt.Errorf("artisan service: unknown region %q", in.Region)
	}

	var digitalAddress *string
	if in.DigitalAddress != "" {
		digitalAddress = &in.DigitalAddress
	}

	town := strings.TrimSpace(in.Town)
	err := s.store.UpdateLocation(ctx, artisanID,
		buildLocation(town, in.Region), town, in.Region, digitalAddress)
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, artisanID)
}

// SetAvailability flips the artisan's availability status.
func (s *ArtisanService) SetAvailability(ctx context.Context, artisanID uuid.UUID, status string) error {
	if status != models.ArtisanStatusAvailable && status != models.ArtisanStatusBusy {
		return fmt.Errorf("artisan service: invalid status %q", status)
	}
	return s.store.UpdateStatus(ctx, artisanID, status)
}

// Dashboard assembles the artisan's summary numbers.
func (s *ArtisanService) Dashboard(ctx context.Context, artisanID uuid.UUID) (*ArtisanDashboard, error) {
	artisan, err := s.store.GetByID(ctx, artisanID)
	if err != nil {
		return nil, err
	}

	completed, err := s.jobs.CountByArtisanAndStatus(ctx, artisanID, models.JobStatusCompleted)
	if err != nil {
		return nil, err
	}
	active, err := s.jobs.CountByArtisanAndStatus(ctx, artisanID, models.JobStatusInProgress)
	if err != nil {
		return nil, err
	}
	totalEarned, err := s.earnings.SumEarned(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	monthEarned, err := s.earnings.SumEarnedCurrentMonth(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.reserved.SumReserved(ctx, artisanID)
	if err != nil {
		return nil, err
	}

	return &ArtisanDashboard{
		Artisan:          artisan,
		CompletedJobs:    completed,
		ActiveJobs:       active,
		TotalEarned:      totalEarned,
		EarnedThisMonth:  monthEarned,
		AvailableBalance: totalEarned.Sub(reserved),
	}, nil
}
