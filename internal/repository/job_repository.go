package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository/common"
)

var (
	// ErrJobNotFound is returned when a job record is missing.
	ErrJobNotFound = fmt.Errorf("job not found: %w", common.ErrNotFound)
	// ErrJobConflict is returned when a compare-and-set transition finds
	// the job in a different state than expected (accept race, double
	// completion, decline of a started job).
	ErrJobConflict = errors.New("job is not in the expected state")
)

const jobColumns = `
	id, client_id, artisan_id, title, description, location, amount, status,
	rating, review, declined_by, notify_others, created_at, assigned_at, completed_at
`

// JobRepository owns all job rows and their state transitions. Every
// transition is a conditional UPDATE so that concurrent requests cannot
// both succeed.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates the repository instance.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new job in Pending state. ArtisanID may be set
// (direct booking, admin assignment) or nil.
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (client_id, artisan_id, title, description, location, amount, status, notify_others)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		job.ClientID, job.ArtisanID, job.Title, job.Description, job.Location,
		job.Amount, models.JobStatusPending, job.NotifyOthers,
	).Scan(&job.ID, &job.CreatedAt); err != nil {
		return fmt.Errorf("job repository: create %w", err)
	}

	job.Status = models.JobStatusPending
	return nil
}

// GetByID returns a job by identifier.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get by id %w", err)
	}
	return &job, nil
}

// GetDetail returns a job with the counterparty names joined in.
func (r *JobRepository) GetDetail(ctx context.Context, id uuid.UUID) (*models.JobWithParties, error) {
	var job models.JobWithParties
	query := `
		SELECT j.*, u.full_name AS client_name, a.full_name AS artisan_name, a.trade AS artisan_trade
		FROM jobs j
		LEFT JOIN users u ON u.id = j.client_id
		LEFT JOIN artisans a ON a.id = j.artisan_id
		WHERE j.id = $1
	`
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get detail %w", err)
	}
	return &job, nil
}

// Accept assigns a Pending job to the artisan and moves it to
// In Progress. The write is conditioned on the job still being Pending
// and either unassigned or already assigned to this artisan (direct
// bookings carry the assignment from creation), so two artisans racing
// for one job cannot both win.
func (r *JobRepository) Accept(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	var job models.Job
	query := `
		UPDATE jobs
		SET artisan_id = $2, status = $3, assigned_at = NOW()
		WHERE id = $1
		  AND status = $4
		  AND (artisan_id IS NULL OR artisan_id = $2)
		RETURNING ` + jobColumns

	err := r.db.GetContext(ctx, &job, query, jobID, artisanID,
		models.JobStatusInProgress, models.JobStatusPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, jobID)
		}
		return nil, fmt.Errorf("job repository: accept %w", err)
	}
	return &job, nil
}

// Decline releases an assigned-but-not-started job back to the pool.
// The declining artisan is remembered so the job is not immediately
// re-surfaced to them.
func (r *JobRepository) Decline(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	var job models.Job
	query := `
		UPDATE jobs
		SET artisan_id = NULL, status = $3, declined_by = $2, assigned_at = NULL
		WHERE id = $1 AND artisan_id = $2 AND status = $3
		RETURNING ` + jobColumns

	err := r.db.GetContext(ctx, &job, query, jobID, artisanID, models.JobStatusPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, jobID)
		}
		return nil, fmt.Errorf("job repository: decline %w", err)
	}
	return &job, nil
}

// conflictOrNotFound distinguishes a missing job from one that exists
// but failed the transition condition.
func (r *JobRepository) conflictOrNotFound(ctx context.Context, jobID uuid.UUID) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, jobID); err != nil {
		return fmt.Errorf("job repository: check existence %w", err)
	}
	if !exists {
		return ErrJobNotFound
	}
	return ErrJobConflict
}

// ListAvailable returns Pending jobs in the artisan's town. The match is
// a plain case-insensitive substring of the free-text location, so a job
// phrased differently than the registered town will not show up. Jobs
// the artisan declined earlier are suppressed best-effort.
func (r *JobRepository) ListAvailable(ctx context.Context, town string, artisanID uuid.UUID) ([]models.JobWithParties, error) {
	var jobs []models.JobWithParties
	query := `
		SELECT j.*, u.full_name AS client_name
		FROM jobs j
		LEFT JOIN users u ON u.id = j.client_id
		WHERE j.status = $1
		  AND j.location ILIKE $2
		  AND (j.artisan_id IS NULL OR j.artisan_id = $3)
		  AND (j.declined_by IS NULL OR j.declined_by <> $3)
		ORDER BY j.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &jobs, query, models.JobStatusPending, "%"+town+"%", artisanID); err != nil {
		return nil, fmt.Errorf("job repository: list available %w", err)
	}
	return jobs, nil
}

// CountNewAvailableSince counts matching Pending jobs created after the
// given moment, for the artisan's new-jobs poll.
func (r *JobRepository) CountNewAvailableSince(ctx context.Context, town string, artisanID uuid.UUID, since time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM jobs
		WHERE status = $1
		  AND location ILIKE $2
		  AND (artisan_id IS NULL OR artisan_id = $3)
		  AND (declined_by IS NULL OR declined_by <> $3)
		  AND created_at >= $4
	`
	if err := r.db.GetContext(ctx, &count, query, models.JobStatusPending, "%"+town+"%", artisanID, since); err != nil {
		return 0, fmt.Errorf("job repository: count new available %w", err)
	}
	return count, nil
}

// ListByClient returns every job of a client, newest first, with
// artisan names joined for display.
func (r *JobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.JobWithParties, error) {
	var jobs []models.JobWithParties
	query := `
		SELECT j.*, a.full_name AS artisan_name, a.trade AS artisan_trade
		FROM jobs j
		LEFT JOIN artisans a ON a.id = j.artisan_id
		WHERE j.client_id = $1
		ORDER BY j.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &jobs, query, clientID); err != nil {
		return nil, fmt.Errorf("job repository: list by client %w", err)
	}
	return jobs, nil
}

// ListByArtisan returns jobs assigned to an artisan, optionally
// filtered by status.
func (r *JobRepository) ListByArtisan(ctx context.Context, artisanID uuid.UUID, status string) ([]models.JobWithParties, error) {
	query := `
		SELECT j.*, u.full_name AS client_name
		FROM jobs j
		LEFT JOIN users u ON u.id = j.client_id
		WHERE j.artisan_id = $1
	`
	args := []interface{}{artisanID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND j.status = $%d", len(args))
	}
	query += " ORDER BY j.created_at DESC"

	var jobs []models.JobWithParties
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("job repository: list by artisan %w", err)
	}
	return jobs, nil
}

// CountByArtisanAndStatus counts an artisan's jobs in one status.
func (r *JobRepository) CountByArtisanAndStatus(ctx context.Context, artisanID uuid.UUID, status string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM jobs WHERE artisan_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &count, query, artisanID, status); err != nil {
		return 0, fmt.Errorf("job repository: count by artisan %w", err)
	}
	return count, nil
}
