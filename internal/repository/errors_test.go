package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightekpe/artisanhub-backend/internal/repository/common"
)

// Every missing-entity sentinel belongs to the shared not-found class,
// so callers can match either the specific error or the class.
func TestNotFoundSentinelsShareClass(t *testing.T) {
	sentinels := map[string]error{
		"user":         ErrUserNotFound,
		"artisan":      ErrArtisanNotFound,
		"job":          ErrJobNotFound,
		"payment":      ErrPaymentNotFound,
		"withdrawal":   ErrWithdrawalNotFound,
		"request":      ErrRequestNotFound,
		"milestone":    ErrMilestoneNotFound,
		"notification": ErrNotificationNotFound,
	}
	for name, err := range sentinels {
		assert.ErrorIs(t, err, common.ErrNotFound, name)
	}

	wrapped := fmt.Errorf("job service: %w", ErrJobNotFound)
	assert.ErrorIs(t, wrapped, ErrJobNotFound)
	assert.ErrorIs(t, wrapped, common.ErrNotFound)
}

// State-conflict sentinels describe an entity that exists in the wrong
// state; they must never read as missing.
func TestConflictSentinelsAreNotNotFound(t *testing.T) {
	for _, err := range []error{ErrJobConflict, ErrWithdrawalNotPending, ErrRequestNotApproved, ErrInsufficientBalance, ErrJobNotOwned} {
		assert.NotErrorIs(t, err, common.ErrNotFound)
	}
}
