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
	// ErrRequestNotFound is returned when a project request is missing.
	ErrRequestNotFound = fmt.Errorf("project request not found: %w", common.ErrNotFound)
	// ErrRequestNotApproved is returned when assigning an artisan to a
	// request that has not been approved, or that already became a job.
	ErrRequestNotApproved = errors.New("project request is not approved")
	// ErrMilestoneNotFound is returned when a milestone is missing.
	ErrMilestoneNotFound = fmt.Errorf("milestone not found: %w", common.ErrNotFound)
)

// ProjectRepository is the plain append/list store behind the project
// collaboration surface: requests, updates, milestones and chat.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates the repository instance.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateRequest inserts a new client brief in Under Review state.
func (r *ProjectRepository) CreateRequest(ctx context.Context, req *models.ProjectRequest) error {
	query := `
		INSERT INTO project_requests (client_id, title, description, location, proposed_budget, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		req.ClientID, req.Title, req.Description, req.Location, req.ProposedBudget,
		models.ProjectRequestUnderReview,
	).Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("project repository: create request %w", err)
	}
	req.Status = models.ProjectRequestUnderReview
	return nil
}

// GetRequest returns a project request by identifier.
func (r *ProjectRepository) GetRequest(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error) {
	return common.GetByID[models.ProjectRequest](ctx, r.db, "project_requests", id, ErrRequestNotFound)
}

// ListRequestsByClient returns a client's own briefs, newest first.
func (r *ProjectRepository) ListRequestsByClient(ctx context.Context, clientID uuid.UUID) ([]models.ProjectRequest, error) {
	var requests []models.ProjectRequest
	err := r.db.SelectContext(ctx, &requests, `
		SELECT * FROM project_requests WHERE client_id = $1 ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("project repository: list requests by client %w", err)
	}
	return requests, nil
}

// ListRequestsByStatus returns briefs in one status for admin review.
func (r *ProjectRepository) ListRequestsByStatus(ctx context.Context, status string) ([]models.ProjectRequest, error) {
	var requests []models.ProjectRequest
	err := r.db.SelectContext(ctx, &requests, `
		SELECT * FROM project_requests WHERE status = $1 ORDER BY created_at ASC
	`, status)
	if err != nil {
		return nil, fmt.Errorf("project repository: list requests by status %w", err)
	}
	return requests, nil
}

// ApproveRequest moves an Under Review brief to Approved.
func (r *ProjectRepository) ApproveRequest(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error) {
	var req models.ProjectRequest
	query := `
		UPDATE project_requests SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING *
	`
	err := r.db.GetContext(ctx, &req, query, id,
		models.ProjectRequestApproved, models.ProjectRequestUnderReview)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetRequest(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrRequestNotApproved
		}
		return nil, fmt.Errorf("project repository: approve request %w", err)
	}
	return &req, nil
}

// BindRequestToJob links an approved request to the job created from it.
// Conditioned on job_id still being unset so a request converts once.
func (r *ProjectRepository) BindRequestToJob(ctx context.Context, tx *sqlx.Tx, requestID, jobID uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE project_requests SET job_id = $2
		WHERE id = $1 AND status = $3 AND job_id IS NULL
	`, requestID, jobID, models.ProjectRequestApproved)
	if err != nil {
		return fmt.Errorf("project repository: bind request to job %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrRequestNotApproved
	}
	return nil
}

// AssignRequest converts an approved brief into a job in one
// transaction: the job is created already bound to the artisan at the
// admin-negotiated amount, the artisan is flipped to Busy, and the
// request is linked to the job so it cannot convert again.
func (r *ProjectRepository) AssignRequest(ctx context.Context, requestID, artisanID uuid.UUID, finalAmount decimal.Decimal) (*models.Job, error) {
	var job models.Job
	err := common.WithRetryableTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var req models.ProjectRequest
		err := tx.GetContext(ctx, &req, `SELECT * FROM project_requests WHERE id = $1 FOR UPDATE`, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("project repository: get request for assignment %w", err)
		}
		if req.Status != models.ProjectRequestApproved || req.JobID != nil {
			return ErrRequestNotApproved
		}

		query := `
			INSERT INTO jobs (client_id, artisan_id, title, description, location, amount, status, notify_others)
			VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
			RETURNING id, client_id, artisan_id, title, description, location, amount, status,
				rating, review, declined_by, notify_others, created_at, assigned_at, completed_at
		`
		err = tx.GetContext(ctx, &job, query,
			req.ClientID, artisanID, req.Title, req.Description, req.Location,
			finalAmount, models.JobStatusPending)
		if err != nil {
			return fmt.Errorf("project repository: create job from request %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE artisans SET status = $2, updated_at = NOW() WHERE id = $1
		`, artisanID, models.ArtisanStatusBusy)
		if err != nil {
			return fmt.Errorf("project repository: mark artisan busy %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return ErrArtisanNotFound
		}

		return r.BindRequestToJob(ctx, tx, requestID, job.ID)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// AddUpdate appends a status update to a project.
func (r *ProjectRepository) AddUpdate(ctx context.Context, u *models.ProjectUpdate) error {
	query := `
		INSERT INTO project_updates (job_id, author_id, author_role, message, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query, u.JobID, u.AuthorID, u.AuthorRole, u.Message, u.PhotoURL,
	).Scan(&u.ID, &u.CreatedAt); err != nil {
		return fmt.Errorf("project repository: add update %w", err)
	}
	return nil
}

// ListUpdates returns a project's updates, newest first.
func (r *ProjectRepository) ListUpdates(ctx context.Context, jobID uuid.UUID) ([]models.ProjectUpdate, error) {
	var updates []models.ProjectUpdate
	err := r.db.SelectContext(ctx, &updates, `
		SELECT * FROM project_updates WHERE job_id = $1 ORDER BY created_at DESC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("project repository: list updates %w", err)
	}
	return updates, nil
}

// AddMilestone appends a checklist item to a project.
func (r *ProjectRepository) AddMilestone(ctx context.Context, m *models.ProjectMilestone) error {
	query := `
		INSERT INTO project_milestones (job_id, title, done)
		VALUES ($1, $2, FALSE)
		RETURNING id, done, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, m.JobID, m.Title).
		Scan(&m.ID, &m.Done, &m.CreatedAt); err != nil {
		return fmt.Errorf("project repository: add milestone %w", err)
	}
	return nil
}

// ListMilestones returns a project's checklist in creation order.
func (r *ProjectRepository) ListMilestones(ctx context.Context, jobID uuid.UUID) ([]models.ProjectMilestone, error) {
	var milestones []models.ProjectMilestone
	err := r.db.SelectContext(ctx, &milestones, `
		SELECT * FROM project_milestones WHERE job_id = $1 ORDER BY created_at ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("project repository: list milestones %w", err)
	}
	return milestones, nil
}

// ToggleMilestone flips a checklist item and returns the new state.
func (r *ProjectRepository) ToggleMilestone(ctx context.Context, id, jobID uuid.UUID) (*models.ProjectMilestone, error) {
	var m models.ProjectMilestone
	query := `
		UPDATE project_milestones SET done = NOT done
		WHERE id = $1 AND job_id = $2
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &m, query, id, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("project repository: toggle milestone %w", err)
	}
	return &m, nil
}

// DeleteMilestone removes a checklist item.
func (r *ProjectRepository) DeleteMilestone(ctx context.Context, id, jobID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM project_milestones WHERE id = $1 AND job_id = $2
	`, id, jobID)
	if err != nil {
		return fmt.Errorf("project repository: delete milestone %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}

// AddChatMessage appends one line to the project chat log.
func (r *ProjectRepository) AddChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (job_id, sender_id, sender_role, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query, msg.JobID, msg.SenderID, msg.SenderRole, msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("project repository: add chat message %w", err)
	}
	return nil
}

// ListChatMessages returns the chat log in chronological order.
func (r *ProjectRepository) ListChatMessages(ctx context.Context, jobID uuid.UUID, limit, offset int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM chat_messages WHERE job_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3
	`, jobID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("project repository: list chat messages %w", err)
	}
	return messages, nil
}
