package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightekpe/artisanhub-backend/internal/logger"
	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/validation"
)

// SettlementStore is the transactional completion-and-payment store.
type SettlementStore interface {
	CompleteByClient(ctx context.Context, jobID, clientID uuid.UUID, rating int, review *string) (*repository.CompletionResult, error)
	CompleteByArtisan(ctx context.Context, jobID, artisanID uuid.UUID) (*repository.CompletionResult, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Payment, error)
	ListByArtisan(ctx context.Context, artisanID uuid.UUID, limit, offset int) ([]models.Payment, error)
	SumEarned(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error)
	SumEarnedCurrentMonth(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error)
}

// WithdrawalStore is the serialized payout store.
type WithdrawalStore interface {
	CreatePending(ctx context.Context, artisanID uuid.UUID, amount decimal.Decimal, method string) (*models.Withdrawal, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	Reject(ctx context.Context, id uuid.UUID, reason *string) (*models.Withdrawal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	ListByArtisan(ctx context.Context, artisanID uuid.UUID, limit, offset int) ([]models.Withdrawal, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Withdrawal, error)
	SumApproved(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error)
	SumReserved(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error)
}

// SettlementArtisanStore is the slice of the artisans table settlement
// touches after a completed job.
type SettlementArtisanStore interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// SettlementJobCounter checks for remaining active work after a
// completion.
type SettlementJobCounter interface {
	CountByArtisanAndStatus(ctx context.Context, artisanID uuid.UUID, status string) (int, error)
}

// SettlementService settles completed jobs into payments and manages
// artisan payouts. A settlement always records the fixed split: the
// artisan receives the total minus the platform commission, and the two
// shares reconstruct the total exactly.
type SettlementService struct {
	payments      SettlementStore
	withdrawals   WithdrawalStore
	artisans      SettlementArtisanStore
	jobs          SettlementJobCounter
	notifications *NotificationService
}

// EarningsSummary is the artisan's money page.
type EarningsSummary struct {
	TotalEarned      decimal.Decimal     `json:"total_earned"`
	EarnedThisMonth  decimal.Decimal     `json:"earned_this_month"`
	TotalWithdrawn   decimal.Decimal     `json:"total_withdrawn"`
	AvailableBalance decimal.Decimal     `json:"available_balance"`
	RecentPayments   []models.Payment    `json:"recent_payments"`
	Withdrawals      []models.Withdrawal `json:"withdrawals"`
}

// NewSettlementService creates the settlement service.
func NewSettlementService(payments SettlementStore, withdrawals WithdrawalStore, artisans SettlementArtisanStore, jobs SettlementJobCounter, notifications *NotificationService) *SettlementService {
	return &SettlementService{
		payments:      payments,
		withdrawals:   withdrawals,
		artisans:      artisans,
		jobs:          jobs,
		notifications: notifications,
	}
}

// CompleteByClient settles a job on the client-confirmation path,
// recording the rating and review with the transition.
func (s *SettlementService) CompleteByClient(ctx context.Context, jobID, clientID uuid.UUID, rating int, review string) (*repository.CompletionResult, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, fmt.Errorf("settlement service: %w", err)
	}

	var reviewPtr *string
	if review != "" {
		reviewPtr = &review
	}

	result, err := s.payments.CompleteByClient(ctx, jobID, clientID, rating, reviewPtr)
	if err != nil {
		return nil, err
	}

	s.afterSettlement(ctx, result)
	return result, nil
}

// CompleteByArtisan settles a job on the artisan self-completion path.
func (s *SettlementService) CompleteByArtisan(ctx context.Context, jobID, artisanID uuid.UUID) (*repository.CompletionResult, error) {
	result, err := s.payments.CompleteByArtisan(ctx, jobID, artisanID)
	if err != nil {
		return nil, err
	}

	s.afterSettlement(ctx, result)
	return result, nil
}

// afterSettlement runs the non-transactional follow-ups of a settled
// job: freeing the artisan if they have no other active work, and
// notifying both parties.
func (s *SettlementService) afterSettlement(ctx context.Context, result *repository.CompletionResult) {
	job, payment := result.Job, result.Payment

	active, err := s.jobs.CountByArtisanAndStatus(ctx, payment.ArtisanID, models.JobStatusInProgress)
	if err != nil {
		logger.Log.WithError(err).Warn("count active jobs after settlement")
	} else if active == 0 {
		if err := s.artisans.UpdateStatus(ctx, payment.ArtisanID, models.ArtisanStatusAvailable); err != nil {
			logger.Log.WithError(err).Warn("mark artisan available after settlement")
		}
	}

	s.notifications.NotifyAsync(payment.ArtisanID,
		"Job completed",
		fmt.Sprintf("Job %q is complete. GHS %s has been added to your balance.",
			job.Title, payment.ArtisanAmount.StringFixed(2)),
		models.NotificationTypeJobComplete,
	)
	s.notifications.NotifyAsync(job.ClientID,
		"Job completed",
		fmt.Sprintf("Job %q has been marked complete.", job.Title),
		models.NotificationTypeJobComplete,
	)
}

// PaymentForJob returns the settlement recorded for a job.
func (s *SettlementService) PaymentForJob(ctx context.Context, jobID uuid.UUID) (*models.Payment, error) {
	return s.payments.GetByJobID(ctx, jobID)
}

// AvailableBalance is settled earnings minus approved and still-pending
// payouts.
func (s *SettlementService) AvailableBalance(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error) {
	earned, err := s.payments.SumEarned(ctx, artisanID)
	if err != nil {
		return decimal.Zero, err
	}
	reserved, err := s.withdrawals.SumReserved(ctx, artisanID)
	if err != nil {
		return decimal.Zero, err
	}
	return earned.Sub(reserved), nil
}

// Earnings assembles the artisan's money page.
func (s *SettlementService) Earnings(ctx context.Context, artisanID uuid.UUID) (*EarningsSummary, error) {
	earned, err := s.payments.SumEarned(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	monthEarned, err := s.payments.SumEarnedCurrentMonth(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.withdrawals.SumApproved(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.withdrawals.SumReserved(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByArtisan(ctx, artisanID, 10, 0)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.withdrawals.ListByArtisan(ctx, artisanID, 10, 0)
	if err != nil {
		return nil, err
	}

	return &EarningsSummary{
		TotalEarned:      earned,
		EarnedThisMonth:  monthEarned,
		TotalWithdrawn:   withdrawn,
		AvailableBalance: earned.Sub(reserved),
		RecentPayments:   payments,
		Withdrawals:      withdrawals,
	}, nil
}

// RequestWithdrawal creates a pending payout. The balance check runs
// inside the store's per-artisan lock; the minimum-amount and method
// checks happen here first so obviously bad requests never take the
// lock.
func (s *SettlementService) RequestWithdrawal(ctx context.Context, artisanID uuid.UUID, amount decimal.Decimal, method string) (*models.Withdrawal, error) {
	if amount.LessThan(models.MinWithdrawalAmount) {
		return nil, fmt.Errorf("settlement service: minimum withdrawal is GHS %s", models.MinWithdrawalAmount.StringFixed(0))
	}
	if method != models.WithdrawalMethodMomo && method != models.WithdrawalMethodBank {
		return nil, fmt.Errorf("settlement service: invalid withdrawal method %q", method)
	}

	w, err := s.withdrawals.CreatePending(ctx, artisanID, amount, method)
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyAdminsAsync(
		"Withdrawal requested",
		fmt.Sprintf("A withdrawal of GHS %s is awaiting review.", w.Amount.StringFixed(2)),
		models.NotificationTypeWithdrawal,
	)

	return w, nil
}

// ListWithdrawals returns an artisan's payout history.
func (s *SettlementService) ListWithdrawals(ctx context.Context, artisanID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.withdrawals.ListByArtisan(ctx, artisanID, limit, offset)
}

// PendingWithdrawals returns the admin review queue, oldest first.
func (s *SettlementService) PendingWithdrawals(ctx context.Context, limit, offset int) ([]models.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.withdrawals.ListByStatus(ctx, models.WithdrawalStatusPending, limit, offset)
}

// ApproveWithdrawal approves a pending payout after the store re-checks
// the balance bound under the artisan lock.
func (s *SettlementService) ApproveWithdrawal(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	w, err := s.withdrawals.Approve(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyAsync(w.ArtisanID,
		"Withdrawal approved",
		fmt.Sprintf("Your withdrawal of GHS %s has been approved.", w.Amount.StringFixed(2)),
		models.NotificationTypeWithdrawal,
	)

	return w, nil
}

// RejectWithdrawal rejects a pending payout, releasing the reserved
// amount back to the balance.
func (s *SettlementService) RejectWithdrawal(ctx context.Context, id uuid.UUID, reason string) (*models.Withdrawal, error) {
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	w, err := s.withdrawals.Reject(ctx, id, reasonPtr)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Your withdrawal of GHS %s was rejected.", w.Amount.StringFixed(2))
	if reason != "" {
		message = fmt.Sprintf("%s Reason: %s.", message, reason)
	}
	s.notifications.NotifyAsync(w.ArtisanID, "Withdrawal rejected", message, models.NotificationTypeWithdrawal)

	return w, nil
}
