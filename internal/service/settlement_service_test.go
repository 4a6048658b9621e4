package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
)

type mockSettlementStore struct {
	mock.Mock
}

func (m *mockSettlementStore) CompleteByClient(ctx context.Context, jobID, clientID uuid.UUID, rating int, review *string) (*repository.CompletionResult, error) {
	args := m.Called(ctx, jobID, clientID, rating, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CompletionResult), args.Error(1)
}

func (m *mockSettlementStore) CompleteByArtisan(ctx context.Context, jobID, artisanID uuid.UUID) (*repository.CompletionResult, error) {
	args := m.Called(ctx, jobID, artisanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CompletionResult), args.Error(1)
}

func (m *mockSettlementStore) GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockSettlementStore) ListByArtisan(ctx context.Context, artisanID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	args := m.Called(ctx, artisanID, limit, offset)
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *mockSettlementStore) SumEarned(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, artisanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockSettlementStore) SumEarnedCurrentMonth(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, artisanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockWithdrawalStore struct {
	mock.Mock
}

func (m *mockWithdrawalStore) CreatePending(ctx context.Context, artisanID uuid.UUID, amount decimal.Decimal, method string) (*models.Withdrawal, error) {
	args := m.Called(ctx, artisanID, amount, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *mockWithdrawalStore) Approve(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *mockWithdrawalStore) Reject(ctx context.Context, id uuid.UUID, reason *string) (*models.Withdrawal, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *mockWithdrawalStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *mockWithdrawalStore) ListByArtisan(ctx context.Context, artisanID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	args := m.Called(ctx, artisanID, limit, offset)
	return args.Get(0).([]models.Withdrawal), args.Error(1)
}

func (m *mockWithdrawalStore) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Withdrawal, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.Withdrawal), args.Error(1)
}

func (m *mockWithdrawalStore) SumApproved(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, artisanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockWithdrawalStore) SumReserved(ctx context.Context, artisanID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, artisanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockArtisanStatusStore struct {
	mock.Mock
}

func (m *mockArtisanStatusStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockJobCounter struct {
	mock.Mock
}

func (m *mockJobCounter) CountByArtisanAndStatus(ctx context.Context, artisanID uuid.UUID, status string) (int, error) {
	args := m.Called(ctx, artisanID, status)
	return args.Int(0), args.Error(1)
}

func newSettlementForTest(payments *mockSettlementStore, withdrawals *mockWithdrawalStore, artisans *mockArtisanStatusStore, jobs *mockJobCounter) *SettlementService {
	notifications, _ := newTestNotifications()
	return NewSettlementService(payments, withdrawals, artisans, jobs, notifications)
}

func completionFixture(artisanID uuid.UUID, total string) *repository.CompletionResult {
	totalAmount := decimal.RequireFromString(total)
	artisanAmount, commission := models.SplitAmount(totalAmount)
	return &repository.CompletionResult{
		Job: &models.Job{
			ID:        uuid.New(),
			ClientID:  uuid.New(),
			ArtisanID: &artisanID,
			Title:     "Fix leaking sink",
			Status:    models.JobStatusCompleted,
		},
		Payment: &models.Payment{
			ID:                 uuid.New(),
			ArtisanID:          artisanID,
			TotalAmount:        totalAmount,
			ArtisanAmount:      artisanAmount,
			PlatformCommission: commission,
			Status:             models.PaymentStatusCompleted,
		},
	}
}

func TestSettlementService_CompleteByClient(t *testing.T) {
	payments := new(mockSettlementStore)
	withdrawals := new(mockWithdrawalStore)
	artisans := new(mockArtisanStatusStore)
	jobs := new(mockJobCounter)
	svc := newSettlementForTest(payments, withdrawals, artisans, jobs)

	ctx := context.Background()
	artisanID := uuid.New()
	result := completionFixture(artisanID, "150.00")
	jobID, clientID := result.Job.ID, result.Job.ClientID

	payments.On("CompleteByClient", ctx, jobID, clientID, 5, mock.Anything).Return(result, nil)
	jobs.On("CountByArtisanAndStatus", ctx, artisanID, models.JobStatusInProgress).Return(0, nil)
	artisans.On("UpdateStatus", ctx, artisanID, models.ArtisanStatusAvailable).Return(nil)

	got, err := svc.CompleteByClient(ctx, jobID, clientID, 5, "great work")
	assert.NoError(t, err)
	assert.True(t, got.Payment.ArtisanAmount.Equal(decimal.RequireFromString("127.50")))
	assert.True(t, got.Payment.PlatformCommission.Equal(decimal.RequireFromString("22.50")))

	payments.AssertExpectations(t)
	artisans.AssertExpectations(t)
}

func TestSettlementService_CompleteByClient_InvalidRating(t *testing.T) {
	payments := new(mockSettlementStore)
	svc := newSettlementForTest(payments, new(mockWithdrawalStore), new(mockArtisanStatusStore), new(mockJobCounter))

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CompleteByClient(context.Background(), uuid.New(), uuid.New(), rating, "")
		assert.Error(t, err, "rating %d", rating)
	}
	payments.AssertNotCalled(t, "CompleteByClient", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementService_CompleteByArtisan_KeepsBusyWithOtherWork(t *testing.T) {
	payments := new(mockSettlementStore)
	withdrawals := new(mockWithdrawalStore)
	artisans := new(mockArtisanStatusStore)
	jobs := new(mockJobCounter)
	svc := newSettlementForTest(payments, withdrawals, artisans, jobs)

	ctx := context.Background()
	artisanID := uuid.New()
	result := completionFixture(artisanID, "80.00")

	payments.On("CompleteByArtisan", ctx, result.Job.ID, artisanID).Return(result, nil)
	jobs.On("CountByArtisanAndStatus", ctx, artisanID, models.JobStatusInProgress).Return(2, nil)

	_, err := svc.CompleteByArtisan(ctx, result.Job.ID, artisanID)
	assert.NoError(t, err)

	// Another job is still in progress, so the artisan stays busy.
	artisans.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementService_CompleteByArtisan_ConflictSurfaces(t *testing.T) {
	payments := new(mockSettlementStore)
	svc := newSettlementForTest(payments, new(mockWithdrawalStore), new(mockArtisanStatusStore), new(mockJobCounter))

	ctx := context.Background()
	jobID, artisanID := uuid.New(), uuid.New()
	payments.On("CompleteByArtisan", ctx, jobID, artisanID).Return(nil, repository.ErrJobConflict)

	_, err := svc.CompleteByArtisan(ctx, jobID, artisanID)
	assert.ErrorIs(t, err, repository.ErrJobConflict)
}

func TestSettlementService_AvailableBalance(t *testing.T) {
	payments := new(mockSettlementStore)
	withdrawals := new(mockWithdrawalStore)
	svc := newSettlementForTest(payments, withdrawals, new(mockArtisanStatusStore), new(mockJobCounter))

	ctx := context.Background()
	artisanID := uuid.New()
	payments.On("SumEarned", ctx, artisanID).Return(decimal.RequireFromString("200.00"), nil)
	withdrawals.On("SumReserved", ctx, artisanID).Return(decimal.RequireFromString("75.50"), nil)

	balance, err := svc.AvailableBalance(ctx, artisanID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("124.50")), "got %s", balance)
}

func TestSettlementService_RequestWithdrawal_BelowMinimum(t *testing.T) {
	withdrawals := new(mockWithdrawalStore)
	svc := newSettlementForTest(new(mockSettlementStore), withdrawals, new(mockArtisanStatusStore), new(mockJobCounter))

	_, err := svc.RequestWithdrawal(context.Background(), uuid.New(), decimal.RequireFromString("9.99"), models.WithdrawalMethodMomo)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "minimum withdrawal")
	withdrawals.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementService_RequestWithdrawal_InvalidMethod(t *testing.T) {
	withdrawals := new(mockWithdrawalStore)
	svc := newSettlementForTest(new(mockSettlementStore), withdrawals, new(mockArtisanStatusStore), new(mockJobCounter))

	_, err := svc.RequestWithdrawal(context.Background(), uuid.New(), decimal.NewFromInt(50), "cheque")
	assert.Error(t, err)
	withdrawals.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementService_RequestWithdrawal_Success(t *testing.T) {
	withdrawals := new(mockWithdrawalStore)
	svc := newSettlementForTest(new(mockSettlementStore), withdrawals, new(mockArtisanStatusStore), new(mockJobCounter))

	ctx := context.Background()
	artisanID := uuid.New()
	amount := decimal.NewFromInt(50)
	expected := &models.Withdrawal{ID: uuid.New(), ArtisanID: artisanID, Amount: amount, Method: models.WithdrawalMethodMomo, Status: models.WithdrawalStatusPending}
	withdrawals.On("CreatePending", ctx, artisanID, amount, models.WithdrawalMethodMomo).Return(expected, nil)

	w, err := svc.RequestWithdrawal(ctx, artisanID, amount, models.WithdrawalMethodMomo)
	assert.NoError(t, err)
	assert.Equal(t, expected, w)
}

func TestSettlementService_RequestWithdrawal_InsufficientBalance(t *testing.T) {
	withdrawals := new(mockWithdrawalStore)
	svc := newSettlementForTest(new(mockSettlementStore), withdrawals, new(mockArtisanStatusStore), new(mockJobCounter))

	ctx := context.Background()
	artisanID := uuid.New()
	amount := decimal.NewFromInt(1000)
	withdrawals.On("CreatePending", ctx, artisanID, amount, models.WithdrawalMethodBank).Return(nil, repository.ErrInsufficientBalance)

	_, err := svc.RequestWithdrawal(ctx, artisanID, amount, models.WithdrawalMethodBank)
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)
}

func TestSettlementService_RejectWithdrawal_PassesReason(t *testing.T) {
	withdrawals := new(mockWithdrawalStore)
	svc := newSettlementForTest(new(mockSettlementStore), withdrawals, new(mockArtisanStatusStore), new(mockJobCounter))

	ctx := context.Background()
	id := uuid.New()
	reason := "account name mismatch"
	expected := &models.Withdrawal{ID: id, ArtisanID: uuid.New(), Amount: decimal.NewFromInt(40), Status: models.WithdrawalStatusRejected, RejectionReason: &reason}

	withdrawals.On("Reject", ctx, id, mock.MatchedBy(func(r *string) bool {
		return r != nil && *r == reason
	})).Return(expected, nil)

	w, err := svc.RejectWithdrawal(ctx, id, reason)
	assert.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusRejected, w.Status)
	withdrawals.AssertExpectations(t)
}

func TestSettlementService_ApproveWithdrawal_AlreadyProcessed(t *testing.T) {
	withdrawals := new(mockWithdrawalStore)
	svc := newSettlementForTest(new(mockSettlementStore), withdrawals, new(mockArtisanStatusStore), new(mockJobCounter))

	ctx := context.Background()
	id := uuid.New()
	withdrawals.On("Approve", ctx, id).Return(nil, repository.ErrWithdrawalNotPending)

	_, err := svc.ApproveWithdrawal(ctx, id)
	assert.ErrorIs(t, err, repository.ErrWithdrawalNotPending)
}

func TestSettlementService_Earnings(t *testing.T) {
	payments := new(mockSettlementStore)
	withdrawals := new(mockWithdrawalStore)
	svc := newSettlementForTest(payments, withdrawals, new(mockArtisanStatusStore), new(mockJobCounter))

	ctx := context.Background()
	artisanID := uuid.New()
	payments.On("SumEarned", ctx, artisanID).Return(decimal.RequireFromString("300.00"), nil)
	payments.On("SumEarnedCurrentMonth", ctx, artisanID).Return(decimal.RequireFromString("120.00"), nil)
	withdrawals.On("SumApproved", ctx, artisanID).Return(decimal.RequireFromString("100.00"), nil)
	withdrawals.On("SumReserved", ctx, artisanID).Return(decimal.RequireFromString("150.00"), nil)
	payments.On("ListByArtisan", ctx, artisanID, 10, 0).Return([]models.Payment{{ID: uuid.New()}}, nil)
	withdrawals.On("ListByArtisan", ctx, artisanID, 10, 0).Return([]models.Withdrawal{}, nil)

	summary, err := svc.Earnings(ctx, artisanID)
	assert.NoError(t, err)
	assert.True(t, summary.TotalEarned.Equal(decimal.RequireFromString("300.00")))
	// Pending withdrawals count against the balance too, not only
	// the approved ones.
	assert.True(t, summary.AvailableBalance.Equal(decimal.RequireFromString("150.00")), "got %s", summary.AvailableBalance)
	assert.Len(t, summary.RecentPayments, 1)
}
