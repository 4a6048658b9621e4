package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository/common"
)

// ErrUserNotFound is returned when a user record is missing.
var ErrUserNotFound = fmt.Errorf("user not found: %w", common.ErrNotFound)

// UserRepository handles the users table (clients and the admin account).
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates the repository instance.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (full_name, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.FullName, user.Email, user.Phone, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email is taken: %w", common.ErrAlreadyExists)
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail returns a user by the email used as login key.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "email", email, ErrUserNotFound)
}

// GetByID returns a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, ErrUserNotFound)
}

// isUniqueViolation reports a unique_violation from Postgres. The
// services pre-check duplicates; this catches the insert race.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// UpdateContact updates the mutable profile fields of a user.
func (r *UserRepository) UpdateContact(ctx context.Context, id uuid.UUID, fullName string, phone *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET full_name = $2, phone = $3, updated_at = NOW()
		WHERE id = $1
	`, id, fullName, phone)
	if err != nil {
		return fmt.Errorf("user repository: update contact %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user account.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("user repository: delete %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListAdmins returns all admin accounts, used for notification fan-out.
func (r *UserRepository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var admins []models.User
	err := r.db.SelectContext(ctx, &admins, `
		SELECT id, full_name, email, phone, password_hash, role, created_at, updated_at
		FROM users WHERE role = $1
	`, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("user repository: list admins %w", err)
	}
	return admins, nil
}
