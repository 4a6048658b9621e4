package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository/common"
)

var (
	// ErrWithdrawalNotFound is returned when a withdrawal record is missing.
	ErrWithdrawalNotFound = fmt.Errorf("withdrawal not found: %w", common.ErrNotFound)
	// ErrInsufficientBalance is returned when a request or approval would
	// exceed the artisan's available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrWithdrawalNotPending is returned when approving or rejecting a
	// withdrawal that has already been processed.
	ErrWithdrawalNotPending = errors.New("withdrawal has already been processed")
)

// WithdrawalRepository handles payout requests. The balance check and
// the insert/approval write always run inside one transaction holding a
// row lock on the artisan, so concurrent requests cannot both pass the
// check against a stale balance.
type WithdrawalRepository struct {
	db *sqlx.DB
}

// NewWithdrawalRepository creates the repository instance.
func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// availableBalanceLocked computes earned-minus-withdrawn after taking
// the per-artisan lock. Pending withdrawals also count against the
// balance so a second request cannot spend funds a first one reserved.
func (r *WithdrawalRepository) availableBalanceLocked(ctx context.Context, tx *sqlx.Tx, artisanID uuid.UUID) (decimal.Decimal, error) {
	var locked uuid.UUID
	err := tx.GetContext(ctx, &locked, `SELECT id FROM artisans WHERE id = $1 FOR UPDATE`, artisanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrArtisanNotFound
		}
		return decimal.Zero, fmt.Errorf("withdrawal repository: lock artisan %w", err)
	}

	var earned decimal.Decimal
	err = tx.GetContext(ctx, &earned, `
		SELECT COALESCE(SUM(artisan_amount), 0) FROM payments WHERE artisan_id = $1
	`, artisanID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdrawal repository: sum earned %w", err)
	}

	var withdrawn decimal.Decimal
	err = tx.GetContext(ctx, &withdrawn, `
		SELECT COALESCE(SUM(amount), 0)
		FROM withdrawals
		WHERE artisan_id = $1 AND status IN ($2, $3)
	`, artisanID, models.WithdrawalStatusApproved, models.WithdrawalStatusPending)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdrawal repository: sum withdrawn %w", err)
	}

	return earned.Sub(withdrawn), nil
}

// CreatePending inserts a new payout request after validating it
// against the serialized balance.
func (r *WithdrawalRepository) CreatePending(ctx context.Context, artisanID uuid.UUID, amount decimal.Decimal, method string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := common.WithRetryableTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		available, err := r.availableBalanceLocked(ctx, tx, artisanID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(available) {
			return ErrInsufficientBalance
		}

		query := `
			INSERT INTO withdrawals (artisan_id, amount, method, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, artisan_id, amount, method, status, rejection_reason, requested_at, processed_at
		`
		if err := tx.GetContext(ctx, &w, query, artisanID, amount, method, models.WithdrawalStatusPending); err != nil {
			return fmt.Errorf("withdrawal repository: create %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Approve marks a pending withdrawal approved. The cumulative-approved
// bound is re-checked under the same artisan lock used by CreatePending.
func (r *WithdrawalRepository) Approve(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := common.WithRetryableTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var pending models.Withdrawal
		err := tx.GetContext(ctx, &pending, `SELECT * FROM withdrawals WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrWithdrawalNotFound
			}
			return fmt.Errorf("withdrawal repository: get for approval %w", err)
		}
		if pending.Status != models.WithdrawalStatusPending {
			return ErrWithdrawalNotPending
		}

		// A pending request already counts against the balance, so after
		// locking the artisan the remaining balance must be non-negative.
		available, err := r.availableBalanceLocked(ctx, tx, pending.ArtisanID)
		if err != nil {
			return err
		}
		if available.IsNegative() {
			return ErrInsufficientBalance
		}

		query := `
			UPDATE withdrawals SET status = $2, processed_at = $3
			WHERE id = $1
			RETURNING id, artisan_id, amount, method, status, rejection_reason, requested_at, processed_at
		`
		if err := tx.GetContext(ctx, &w, query, id, models.WithdrawalStatusApproved, time.Now()); err != nil {
			return fmt.Errorf("withdrawal repository: approve %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Reject marks a pending withdrawal rejected with a reason.
func (r *WithdrawalRepository) Reject(ctx context.Context, id uuid.UUID, reason *string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var pending models.Withdrawal
		err := tx.GetContext(ctx, &pending, `SELECT * FROM withdrawals WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrWithdrawalNotFound
			}
			return fmt.Errorf("withdrawal repository: get for rejection %w", err)
		}
		if pending.Status != models.WithdrawalStatusPending {
			return ErrWithdrawalNotPending
		}

		query := `
			UPDATE withdrawals SET status = $2, rejection_reason = $3, processed_at = $4
			WHERE id = $1
			RETURNING id, artisan_id, amount, method, status, rejection_reason, requested_at, processed_at
		`
		if err := tx.GetContext(ctx, &w, query, id, models.WithdrawalStatusRejected, reason, time.Now()); err != nil {
			return fmt.Errorf("withdrawal repository: reject %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByID returns a withdrawal by identifier.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	return common.GetByID[models.Withdrawal](ctx, r.db, "withdrawals", id, ErrWithdrawalNotFound)
}

// ListByArtisan returns an artisan's withdrawal history.
func (r *WithdrawalRepository) ListByArtisan(ctx context.Context, artisanID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE artisan_id = $1 ORDER BY requested_at DESC LIMIT $2 OFFSET $3
	`, artisanID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: list by artisan %w", err)
	}
	return withdrawals, nil
}

// ListByStatus returns withdrawals in one status for the admin review queue.
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE status = $1 ORDER BY requested_at ASC LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("withdrawal repository: list by status %w", err)
	}
	return withdrawals, nil
}

// SumApproved returns the cumulative approved payouts for an artisan.
func (r *WithdrawalRepository) SumApproved(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE artisan_id = $1 AND status = $2
	`, artisanID, models.WithdrawalStatusApproved)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdrawal repository: sum approved %w", err)
	}
	return sum, nil
}

// SumReserved returns approved plus still-pending payouts, the figure
// the available balance is computed against.
func (r *WithdrawalRepository) SumReserved(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM withdrawals
		WHERE artisan_id = $1 AND status IN ($2, $3)
	`, artisanID, models.WithdrawalStatusApproved, models.WithdrawalStatusPending)
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdrawal repository: sum reserved %w", err)
	}
	return sum, nil
}
