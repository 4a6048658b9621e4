package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository/common"
)

// ErrArtisanNotFound is returned when an artisan record is missing,
// including when an admin deleted it mid-session.
var ErrArtisanNotFound = fmt.Errorf("artisan not found: %w", common.ErrNotFound)

const artisanColumns = `
	id, full_name, phone, password_hash, trade, region, town, digital_address,
	location, price_range, ghana_card_number, has_certificate, image_url,
	rating, status, is_verified, subscription_active, created_at, updated_at
`

// ArtisanRepository handles the artisans table.
type ArtisanRepository struct {
	db *sqlx.DB
}

// NewArtisanRepository creates the repository instance.
func NewArtisanRepository(db *sqlx.DB) *ArtisanRepository {
	return &ArtisanRepository{db: db}
}

// Create inserts a freshly registered artisan. New artisans always start
// unverified and unsubscribed; the flags are admin-controlled.
func (r *ArtisanRepository) Create(ctx context.Context, a *models.Artisan) error {
	query := `
		INSERT INTO artisans (
			full_name, phone, password_hash, trade, region, town, digital_address,
			location, price_range, ghana_card_number, has_certificate, image_url,
			rating, status, is_verified, subscription_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 5.0, $13, FALSE, FALSE)
		RETURNING id, rating, is_verified, subscription_active, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		a.FullName, a.Phone, a.PasswordHash, a.Trade, a.Region, a.Town, a.DigitalAddress,
		a.Location, a.PriceRange, a.GhanaCardNumber, a.HasCertificate, a.ImageURL,
		models.ArtisanStatusAvailable,
	).Scan(&a.ID, &a.Rating, &a.IsVerified, &a.SubscriptionActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("phone is taken: %w", common.ErrAlreadyExists)
		}
		return fmt.Errorf("artisan repository: create %w", err)
	}

	a.Status = models.ArtisanStatusAvailable
	return nil
}

// GetByPhone returns an artisan by the phone number used as login key.
func (r *ArtisanRepository) GetByPhone(ctx context.Context, phone string) (*models.Artisan, error) {
	return common.GetByField[models.Artisan](ctx, r.db, "artisans", "phone", phone, ErrArtisanNotFound)
}

// GetByID returns an artisan by identifier.
func (r *ArtisanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error) {
	return common.GetByID[models.Artisan](ctx, r.db, "artisans", id, ErrArtisanNotFound)
}

// ListCatalog returns verified, subscribed artisans for the public
// catalog, optionally filtered by trade and location substrings.
func (r *ArtisanRepository) ListCatalog(ctx context.Context, tradeQuery, locationQuery string) ([]models.Artisan, error) {
	query := `SELECT ` + artisanColumns + `
		FROM artisans
		WHERE is_verified = TRUE AND subscription_active = TRUE
	`
	args := []interface{}{}
	if tradeQuery != "" {
		args = append(args, "%"+tradeQuery+"%")
		query += fmt.Sprintf(" AND trade ILIKE $%d", len(args))
	}
	if locationQuery != "" {
		args = append(args, "%"+locationQuery+"%")
		query += fmt.Sprintf(" AND location ILIKE $%d", len(args))
	}
	query += " ORDER BY rating DESC, created_at DESC"

	var artisans []models.Artisan
	if err := r.db.SelectContext(ctx, &artisans, query, args...); err != nil {
		return nil, fmt.Errorf("artisan repository: list catalog %w", err)
	}
	return artisans, nil
}

// ListByGateFlags returns artisans filtered by the two onboarding flags,
// for the admin dashboard partitions.
func (r *ArtisanRepository) ListByGateFlags(ctx context.Context, isVerified, subscriptionActive bool) ([]models.Artisan, error) {
	var artisans []models.Artisan
	query := `SELECT ` + artisanColumns + `
		FROM artisans
		WHERE is_verified = $1 AND subscription_active = $2
		ORDER BY created_at ASC
	`
	if err := r.db.SelectContext(ctx, &artisans, query, isVerified, subscriptionActive); err != nil {
		return nil, fmt.Errorf("artisan repository: list by gate flags %w", err)
	}
	return artisans, nil
}

// ListUnverified returns every artisan still awaiting document review.
func (r *ArtisanRepository) ListUnverified(ctx context.Context) ([]models.Artisan, error) {
	var artisans []models.Artisan
	query := `SELECT ` + artisanColumns + ` FROM artisans WHERE is_verified = FALSE ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &artisans, query); err != nil {
		return nil, fmt.Errorf("artisan repository: list unverified %w", err)
	}
	return artisans, nil
}

// Count returns the total number of artisan accounts.
func (r *ArtisanRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM artisans`); err != nil {
		return 0, fmt.Errorf("artisan repository: count %w", err)
	}
	return count, nil
}

// SetVerified flips the admin-controlled verification flag.
func (r *ArtisanRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE artisans SET is_verified = $2, updated_at = NOW() WHERE id = $1
	`, id, verified)
	if err != nil {
		return fmt.Errorf("artisan repository: set verified %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrArtisanNotFound
	}
	return nil
}

// SetSubscriptionActive flips the admin-controlled subscription flag.
func (r *ArtisanRepository) SetSubscriptionActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE artisans SET subscription_active = $2, updated_at = NOW() WHERE id = $1
	`, id, active)
	if err != nil {
		return fmt.Errorf("artisan repository: set subscription %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrArtisanNotFound
	}
	return nil
}

// Delete removes an artisan account (admin rejection is irreversible).
func (r *ArtisanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artisans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("artisan repository: delete %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrArtisanNotFound
	}
	return nil
}

// UpdateProfile updates the self-service profile fields.
func (r *ArtisanRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone, trade string, priceRange decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE artisans
		SET full_name = $2, phone = $3, trade = $4, price_range = $5, updated_at = NOW()
		WHERE id = $1
	`, id, fullName, phone, trade, priceRange)
	if err != nil {
		return fmt.Errorf("artisan repository: update profile %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrArtisanNotFound
	}
	return nil
}

// UpdateLocation updates the artisan's service area. Location is the
// free-text "town, region" string the job matcher searches against.
func (r *ArtisanRepository) UpdateLocation(ctx context.Context, id uuid.UUID, location, town, region string, digitalAddress *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE artisans
		SET location = $2, town = $3, region = $4, digital_address = $5, updated_at = NOW()
		WHERE id = $1
	`, id, location, town, region, digitalAddress)
	if err != nil {
		return fmt.Errorf("artisan repository: update location %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrArtisanNotFound
	}
	return nil
}

// UpdateStatus updates the availability status.
func (r *ArtisanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE artisans SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("artisan repository: update status %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrArtisanNotFound
	}
	return nil
}
