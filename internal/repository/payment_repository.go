package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository/common"
)

var (
	// ErrPaymentNotFound is returned when a payment record is missing.
	ErrPaymentNotFound = fmt.Errorf("payment not found: %w", common.ErrNotFound)
	// ErrJobNotOwned is returned when the caller is not a party to the job
	// they are trying to complete.
	ErrJobNotOwned = errors.New("job does not belong to caller")
	// ErrJobUnassigned is returned when a completion hits a job that has
	// no artisan; an In Progress job always has one, so this indicates a
	// corrupted row rather than a user error.
	ErrJobUnassigned = errors.New("job has no assigned artisan")
)

// CompletionResult carries the outcome of a settled completion.
type CompletionResult struct {
	Job     *models.Job
	Payment *models.Payment
}

// PaymentRepository records settlements. The job transition to Completed
// and the payment insert happen in one transaction: the conditional
// UPDATE admits exactly one winner, and the UNIQUE constraint on
// payments.job_id backs it up, so a job can never settle twice.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates the repository instance.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CompleteByClient settles a job on the client-confirmation path,
// persisting the rating and review alongside the transition.
func (r *PaymentRepository) CompleteByClient(ctx context.Context, jobID, clientID uuid.UUID, rating int, review *string) (*CompletionResult, error) {
	var result *CompletionResult
	err := common.WithRetryableTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var job models.Job
		query := `
			UPDATE jobs
			SET status = $3, completed_at = NOW(), rating = $4, review = $5
			WHERE id = $1 AND client_id = $2 AND status = $6
			RETURNING ` + jobColumns

		err := tx.GetContext(ctx, &job, query, jobID, clientID,
			models.JobStatusCompleted, rating, review, models.JobStatusInProgress)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.classifyCompletionFailure(ctx, tx, jobID, clientID, uuid.Nil)
			}
			return fmt.Errorf("payment repository: complete by client %w", err)
		}

		payment, err := r.insertPayment(ctx, tx, &job)
		if err != nil {
			return err
		}

		result = &CompletionResult{Job: &job, Payment: payment}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteByArtisan settles a job on the artisan self-completion path.
func (r *PaymentRepository) CompleteByArtisan(ctx context.Context, jobID, artisanID uuid.UUID) (*CompletionResult, error) {
	var result *CompletionResult
	err := common.WithRetryableTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var job models.Job
		query := `
			UPDATE jobs
			SET status = $3, completed_at = NOW()
			WHERE id = $1 AND artisan_id = $2 AND status = $4
			RETURNING ` + jobColumns

		err := tx.GetContext(ctx, &job, query, jobID, artisanID,
			models.JobStatusCompleted, models.JobStatusInProgress)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.classifyCompletionFailure(ctx, tx, jobID, uuid.Nil, artisanID)
			}
			return fmt.Errorf("payment repository: complete by artisan %w", err)
		}

		payment, err := r.insertPayment(ctx, tx, &job)
		if err != nil {
			return err
		}

		result = &CompletionResult{Job: &job, Payment: payment}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// insertPayment records the settlement split for a just-completed job.
// Must run inside the same transaction as the status transition.
func (r *PaymentRepository) insertPayment(ctx context.Context, tx *sqlx.Tx, job *models.Job) (*models.Payment, error) {
	if job.ArtisanID == nil {
		return nil, ErrJobUnassigned
	}

	artisanAmount, platformCommission := models.SplitAmount(job.Amount)

	var payment models.Payment
	query := `
		INSERT INTO payments (job_id, artisan_id, client_id, total_amount, artisan_amount, platform_commission, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, job_id, artisan_id, client_id, total_amount, artisan_amount, platform_commission, status, created_at
	`
	err := tx.GetContext(ctx, &payment, query,
		job.ID, *job.ArtisanID, job.ClientID,
		job.Amount, artisanAmount, platformCommission,
		models.PaymentStatusCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("payment repository: insert payment %w", err)
	}
	return &payment, nil
}

// classifyCompletionFailure turns a zero-row CAS into the precise error:
// missing job, foreign job, or a job already out of In Progress.
func (r *PaymentRepository) classifyCompletionFailure(ctx context.Context, tx *sqlx.Tx, jobID, clientID, artisanID uuid.UUID) error {
	var job models.Job
	err := tx.GetContext(ctx, &job, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("payment repository: classify completion %w", err)
	}

	if clientID != uuid.Nil && job.ClientID != clientID {
		return ErrJobNotOwned
	}
	if artisanID != uuid.Nil && (job.ArtisanID == nil || *job.ArtisanID != artisanID) {
		return ErrJobNotOwned
	}
	return ErrJobConflict
}

// GetByJobID returns the payment recorded for a job.
func (r *PaymentRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.GetContext(ctx, &payment, `SELECT * FROM payments WHERE job_id = $1`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("payment repository: get by job id %w", err)
	}
	return &payment, nil
}

// ListByArtisan returns an artisan's payments, newest first.
func (r *PaymentRepository) ListByArtisan(ctx context.Context, artisanID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments WHERE artisan_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, artisanID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("payment repository: list by artisan %w", err)
	}
	return payments, nil
}

// SumEarned returns the cumulative settled artisan share.
func (r *PaymentRepository) SumEarned(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(artisan_amount), 0) FROM payments WHERE artisan_id = $1`
	if err := r.db.GetContext(ctx, &sum, query, artisanID); err != nil {
		return decimal.Zero, fmt.Errorf("payment repository: sum earned %w", err)
	}
	return sum, nil
}

// SumEarnedCurrentMonth returns the settled artisan share since the
// start of the current month.
func (r *PaymentRepository) SumEarnedCurrentMonth(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `
		SELECT COALESCE(SUM(artisan_amount), 0)
		FROM payments
		WHERE artisan_id = $1 AND created_at >= date_trunc('month', NOW())
	`
	if err := r.db.GetContext(ctx, &sum, query, artisanID); err != nil {
		return decimal.Zero, fmt.Errorf("payment repository: sum earned current month %w", err)
	}
	return sum, nil
}
