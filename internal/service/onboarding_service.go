package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/validation"
)

// OnboardingRepository is what the onboarding service needs from the
// artisans store.
type OnboardingRepository interface {
	Create(ctx context.Context, a *models.Artisan) error
	GetByPhone(ctx context.Context, phone string) (*models.Artisan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error)
	ListByGateFlags(ctx context.Context, isVerified, subscriptionActive bool) ([]models.Artisan, error)
	ListUnverified(ctx context.Context) ([]models.Artisan, error)
	Count(ctx context.Context) (int, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
	SetSubscriptionActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OnboardingService walks artisans through the verification pipeline:
// registration, document review, subscription payment, full access.
// The pipeline position is never cached; it is derived from the stored
// flags each time, so an admin flipping a flag takes effect on the
// artisan's very next request.
type OnboardingService struct {
	repo          OnboardingRepository
	tokenManager  *TokenManager
	notifications *NotificationService
}

// ArtisanRegisterInput carries artisan sign-up data.
type ArtisanRegisterInput struct {
	FullName        string
	Phone           string
	Password        string
	Trade           string
	Region          string
	Town            string
	DigitalAddress  string
	PriceRange      decimal.Decimal
	GhanaCardNumber string
	HasCertificate  bool
}

// ArtisanAuthResult is the outcome of an artisan registration or login.
// Stage tells the frontend which screen to land on.
type ArtisanAuthResult struct {
	Artisan   *models.Artisan        `json:"artisan"`
	TokenPair *TokenPair             `json:"tokens"`
	Stage     models.OnboardingStage `json:"stage"`
}

// OnboardingStatus is the artisan's current pipeline position.
type OnboardingStatus struct {
	Artisan            *models.Artisan        `json:"artisan"`
	Stage              models.OnboardingStage `json:"stage"`
	IsVerified         bool                   `json:"is_verified"`
	SubscriptionActive bool                   `json:"subscription_active"`
}

// OnboardingDashboard partitions the artisan population by gate flags
// for the admin overview.
type OnboardingDashboard struct {
	AwaitingVerification []models.Artisan `json:"awaiting_verification"`
	AwaitingPayment      []models.Artisan `json:"awaiting_payment"`
	Active               []models.Artisan `json:"active"`
	Total                int              `json:"total"`
}

// NewOnboardingService creates the onboarding service.
func NewOnboardingService(repo OnboardingRepository, tokenManager *TokenManager, notifications *NotificationService) *OnboardingService {
	return &OnboardingService{
		repo:          repo,
		tokenManager:  tokenManager,
		notifications: notifications,
	}
}

// Register creates a new artisan account at the docs stage. The two
// gate flags always start false regardless of input.
func (s *OnboardingService) Register(ctx context.Context, in ArtisanRegisterInput) (*ArtisanAuthResult, error) {
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, fmt.Errorf("onboarding service: %w", err)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, fmt.Errorf("onboarding service: %w", err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("onboarding service: %w", err)
	}
	if err := validation.ValidateNonEmpty("trade", in.Trade); err != nil {
		return nil, fmt.Errorf("onboarding service: %w", err)
	}
	if err := validation.ValidateNonEmpty("town", in.Town); err != nil {
		return nil, fmt.Errorf("onboarding service: %w", err)
	}
	if !models.IsKnownRegion(in.Region) {
		return nil, fmt.Errorf("onboarding service: unknown region %q", in.Region)
	}
	if err := validation.ValidateBasePrice(in.PriceRange); err != nil {
		return nil, fmt.Errorf("onboarding service: %w", err)
	}

	phone := strings.TrimSpace(in.Phone)
	if _, err := s.repo.GetByPhone(ctx, phone); err == nil {
		return nil, fmt.Errorf("onboarding service: phone number is already registered")
	} else if !errors.Is(err, repository.ErrArtisanNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("onboarding service: hash password: %w", err)
	}

	var digitalAddress, ghanaCard *string
	if in.DigitalAddress != "" {
		digitalAddress = &in.DigitalAddress
	}
	if in.GhanaCardNumber != "" {
		ghanaCard = &in.GhanaCardNumber
	}

	artisan := &models.Artisan{
		FullName:        strings.TrimSpace(in.FullName),
		Phone:           phone,
		PasswordHash:    string(passHash),
		Trade:           strings.TrimSpace(in.Trade),
		Region:          in.Region,
		Town:            strings.TrimSpace(in.Town),
		DigitalAddress:  digitalAddress,
		Location:        buildLocation(in.Town, in.Region),
		PriceRange:      in.PriceRange,
		GhanaCardNumber: ghanaCard,
		HasCertificate:  in.HasCertificate,
	}

	if err := s.repo.Create(ctx, artisan); err != nil {
		return nil, err
	}

	pair, err := s.tokenManager.GeneratePair(artisan.ID, models.RoleArtisan)
	if err != nil {
		return nil, fmt.Errorf("onboarding service: issue tokens: %w", err)
	}

	s.notifications.NotifyAdminsAsync(
		"New artisan registration",
		fmt.Sprintf("%s (%s, %s) is awaiting document verification.", artisan.FullName, artisan.Trade, artisan.Location),
		models.NotificationTypeOnboarding,
	)

	return &ArtisanAuthResult{Artisan: artisan, TokenPair: pair, Stage: artisan.Stage()}, nil
}

// Login authenticates an artisan by phone and password. Login succeeds
// at any stage; the result carries the stage so the frontend can route
// an unfinished artisan back into the pipeline.
func (s *OnboardingService) Login(ctx context.Context, phone, password string) (*ArtisanAuthResult, error) {
	artisan, err := s.repo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, repository.ErrArtisanNotFound) {
			return nil, fmt.Errorf("onboarding service: invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(artisan.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("onboarding service: invalid credentials")
	}

	pair, err := s.tokenManager.GeneratePair(artisan.ID, models.RoleArtisan)
	if err != nil {
		return nil, fmt.Errorf("onboarding service: issue tokens: %w", err)
	}

	return &ArtisanAuthResult{Artisan: artisan, TokenPair: pair, Stage: artisan.Stage()}, nil
}

// Status re-reads the artisan record and reports the current stage.
func (s *OnboardingService) Status(ctx context.Context, artisanID uuid.UUID) (*OnboardingStatus, error) {
	artisan, err := s.repo.GetByID(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	return &OnboardingStatus{
		Artisan:            artisan,
		Stage:              artisan.Stage(),
		IsVerified:         artisan.IsVerified,
		SubscriptionActive: artisan.SubscriptionActive,
	}, nil
}

// ReportPayment lets an artisan at the payment stage flag that they have
// paid the subscription fee. The flag itself stays admin-controlled;
// this only queues the confirmation for review.
func (s *OnboardingService) ReportPayment(ctx context.Context, artisanID uuid.UUID, paymentReference string) (*OnboardingStatus, error) {
	artisan, err := s.repo.GetByID(ctx, artisanID)
	if err != nil {
		return nil, err
	}

	switch artisan.Stage() {
	case models.StageDocs:
		return nil, fmt.Errorf("onboarding service: documents must be verified before payment")
	case models.StageComplete:
		return nil, fmt.Errorf("onboarding service: subscription is already active")
	}

	message := fmt.Sprintf("%s (%s) reports a subscription payment.", artisan.FullName, artisan.Phone)
	if paymentReference != "" {
		message = fmt.Sprintf("%s Reference: %s.", message, paymentReference)
	}
	s.notifications.NotifyAdminsAsync("Subscription payment reported", message, models.NotificationTypeOnboarding)

	return s.Status(ctx, artisanID)
}

// ApproveDocuments marks an artisan's documents verified, advancing
// them from docs to payment.
func (s *OnboardingService) ApproveDocuments(ctx context.Context, artisanID uuid.UUID) (*OnboardingStatus, error) {
	if err := s.repo.SetVerified(ctx, artisanID, true); err != nil {
		return nil, err
	}

	s.notifications.NotifyAsync(artisanID,
		"Documents verified",
		"Your documents have been verified. Complete your subscription payment to activate your profile.",
		models.NotificationTypeOnboarding,
	)

	return s.Status(ctx, artisanID)
}

// RejectApplication removes a failed application. Rejection is
// irreversible; the artisan must register again.
func (s *OnboardingService) RejectApplication(ctx context.Context, artisanID uuid.UUID) error {
	return s.repo.Delete(ctx, artisanID)
}

// ConfirmSubscription marks the subscription paid, advancing a verified
// artisan from payment to complete. It refuses to run ahead of document
// verification so an artisan can never skip the docs stage.
func (s *OnboardingService) ConfirmSubscription(ctx context.Context, artisanID uuid.UUID) (*OnboardingStatus, error) {
	artisan, err := s.repo.GetByID(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	if !artisan.IsVerified {
		return nil, fmt.Errorf("onboarding service: cannot activate subscription before document verification")
	}

	if err := s.repo.SetSubscriptionActive(ctx, artisanID, true); err != nil {
		return nil, err
	}

	s.notifications.NotifyAsync(artisanID,
		"Subscription active",
		"Your subscription is active. Your profile is now visible to clients.",
		models.NotificationTypeOnboarding,
	)

	return s.Status(ctx, artisanID)
}

// RevokeSubscription deactivates a lapsed subscription, pushing the
// artisan back to the payment stage and out of the public catalog.
func (s *OnboardingService) RevokeSubscription(ctx context.Context, artisanID uuid.UUID) (*OnboardingStatus, error) {
	if err := s.repo.SetSubscriptionActive(ctx, artisanID, false); err != nil {
		return nil, err
	}

	s.notifications.NotifyAsync(artisanID,
		"Subscription expired",
		"Your subscription has lapsed. Renew it to restore your profile visibility.",
		models.NotificationTypeOnboarding,
	)

	return s.Status(ctx, artisanID)
}

// Dashboard returns the admin partitions of the artisan population.
func (s *OnboardingService) Dashboard(ctx context.Context) (*OnboardingDashboard, error) {
	awaitingDocs, err := s.repo.ListUnverified(ctx)
	if err != nil {
		return nil, err
	}
	awaitingPayment, err := s.repo.ListByGateFlags(ctx, true, false)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.ListByGateFlags(ctx, true, true)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &OnboardingDashboard{
		AwaitingVerification: awaitingDocs,
		AwaitingPayment:      awaitingPayment,
		Active:               active,
		Total:                total,
	}, nil
}

// buildLocation assembles the free-text service area the job matcher
// searches against.
func buildLocation(town, region string) string {
	town = strings.TrimSpace(town)
	if town == "" {
		return region
	}
	return town + ", " + region
}
