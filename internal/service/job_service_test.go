package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
)

type mockJobStore struct {
	mock.Mock
}

func (m *mockJobStore) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	if args.Error(0) == nil {
		job.ID = uuid.New()
		job.Status = models.JobStatusPending
	}
	return args.Error(0)
}

func (m *mockJobStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobStore) GetDetail(ctx context.Context, id uuid.UUID) (*models.JobWithParties, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobWithParties), args.Error(1)
}

func (m *mockJobStore) Accept(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID, artisanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobStore) Decline(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID, artisanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobStore) ListAvailable(ctx context.Context, town string, artisanID uuid.UUID) ([]models.JobWithParties, error) {
	args := m.Called(ctx, town, artisanID)
	return args.Get(0).([]models.JobWithParties), args.Error(1)
}

func (m *mockJobStore) CountNewAvailableSince(ctx context.Context, town string, artisanID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, town, artisanID, since)
	return args.Int(0), args.Error(1)
}

func (m *mockJobStore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.JobWithParties, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.JobWithParties), args.Error(1)
}

func (m *mockJobStore) ListByArtisan(ctx context.Context, artisanID uuid.UUID, status string) ([]models.JobWithParties, error) {
	args := m.Called(ctx, artisanID, status)
	return args.Get(0).([]models.JobWithParties), args.Error(1)
}

func (m *mockJobStore) CountByArtisanAndStatus(ctx context.Context, artisanID uuid.UUID, status string) (int, error) {
	args := m.Called(ctx, artisanID, status)
	return args.Int(0), args.Error(1)
}

type mockJobArtisanStore struct {
	mock.Mock
}

func (m *mockJobArtisanStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artisan), args.Error(1)
}

func (m *mockJobArtisanStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func newJobServiceForTest(jobs *mockJobStore, artisans *mockJobArtisanStore) *JobService {
	notifications, _ := newTestNotifications()
	return NewJobService(jobs, artisans, notifications)
}

func activeArtisan(id uuid.UUID, fee string) *models.Artisan {
	return &models.Artisan{
		ID:                 id,
		FullName:           "Kwame Asante",
		Trade:              "Plumber",
		Town:               "Tema",
		PriceRange:         decimal.RequireFromString(fee),
		IsVerified:         true,
		SubscriptionActive: true,
		Status:             models.ArtisanStatusAvailable,
	}
}

func TestJobService_Book_DirectBookingFreezesFee(t *testing.T) {
	jobs := new(mockJobStore)
	artisans := new(mockJobArtisanStore)
	svc := newJobServiceForTest(jobs, artisans)

	ctx := context.Background()
	clientID, artisanID := uuid.New(), uuid.New()
	artisans.On("GetByID", ctx, artisanID).Return(activeArtisan(artisanID, "120.00"), nil)
	jobs.On("Create", ctx, mock.MatchedBy(func(job *models.Job) bool {
		return job.Amount.Equal(decimal.RequireFromString("120.00"))
	})).Return(nil)

	// The client's budget is ignored for direct bookings; the amount
	// is the artisan's base fee at booking time.
	job, err := svc.Book(ctx, clientID, BookInput{
		ArtisanID:   &artisanID,
		Title:       "Fix leaking sink",
		Description: "Kitchen sink drips overnight",
		Location:    "Tema, Greater Accra",
		Budget:      decimal.NewFromInt(999),
	})
	assert.NoError(t, err)
	assert.True(t, job.Amount.Equal(decimal.RequireFromString("120.00")))
	jobs.AssertExpectations(t)
}

func TestJobService_Book_RejectsIncompleteArtisan(t *testing.T) {
	jobs := new(mockJobStore)
	artisans := new(mockJobArtisanStore)
	svc := newJobServiceForTest(jobs, artisans)

	ctx := context.Background()
	artisanID := uuid.New()
	unverified := activeArtisan(artisanID, "120.00")
	unverified.IsVerified = false
	artisans.On("GetByID", ctx, artisanID).Return(unverified, nil)

	_, err := svc.Book(ctx, uuid.New(), BookInput{
		ArtisanID: &artisanID,
		Title:     "Fix leaking sink",
		Location:  "Tema",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not available for booking")
	jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestJobService_Book_OpenPostNeedsPositiveBudget(t *testing.T) {
	jobs := new(mockJobStore)
	svc := newJobServiceForTest(jobs, new(mockJobArtisanStore))

	_, err := svc.Book(context.Background(), uuid.New(), BookInput{
		Title:    "Paint a fence",
		Location: "Kumasi",
		Budget:   decimal.Zero,
	})
	assert.Error(t, err)
	jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestJobService_Book_ValidatesTitle(t *testing.T) {
	jobs := new(mockJobStore)
	svc := newJobServiceForTest(jobs, new(mockJobArtisanStore))

	_, err := svc.Book(context.Background(), uuid.New(), BookInput{
		Title:    "ab",
		Location: "Kumasi",
		Budget:   decimal.NewFromInt(50),
	})
	assert.Error(t, err)
}

func TestJobService_Accept_MarksArtisanBusy(t *testing.T) {
	jobs := new(mockJobStore)
	artisans := new(mockJobArtisanStore)
	svc := newJobServiceForTest(jobs, artisans)

	ctx := context.Background()
	jobID, artisanID, clientID := uuid.New(), uuid.New(), uuid.New()
	accepted := &models.Job{ID: jobID, ClientID: clientID, ArtisanID: &artisanID, Title: "Fix leaking sink", Status: models.JobStatusInProgress}

	jobs.On("Accept", ctx, jobID, artisanID).Return(accepted, nil)
	artisans.On("UpdateStatus", ctx, artisanID, models.ArtisanStatusBusy).Return(nil)

	job, err := svc.Accept(ctx, jobID, artisanID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, job.Status)
	artisans.AssertExpectations(t)
}

func TestJobService_Accept_ConflictSurfaces(t *testing.T) {
	jobs := new(mockJobStore)
	artisans := new(mockJobArtisanStore)
	svc := newJobServiceForTest(jobs, artisans)

	ctx := context.Background()
	jobID, artisanID := uuid.New(), uuid.New()
	jobs.On("Accept", ctx, jobID, artisanID).Return(nil, repository.ErrJobConflict)

	_, err := svc.Accept(ctx, jobID, artisanID)
	assert.ErrorIs(t, err, repository.ErrJobConflict)
	artisans.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_Decline_FreesIdleArtisan(t *testing.T) {
	jobs := new(mockJobStore)
	artisans := new(mockJobArtisanStore)
	svc := newJobServiceForTest(jobs, artisans)

	ctx := context.Background()
	jobID, artisanID, clientID := uuid.New(), uuid.New(), uuid.New()
	declined := &models.Job{ID: jobID, ClientID: clientID, Title: "Tile a bathroom", Status: models.JobStatusPending}

	// An admin assignment marked the artisan Busy. Declining their only
	// job must bring them back to Available.
	jobs.On("Decline", ctx, jobID, artisanID).Return(declined, nil)
	jobs.On("CountByArtisanAndStatus", ctx, artisanID, models.JobStatusInProgress).Return(0, nil)
	artisans.On("UpdateStatus", ctx, artisanID, models.ArtisanStatusAvailable).Return(nil)

	job, err := svc.Decline(ctx, jobID, artisanID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, job.Status)
	artisans.AssertExpectations(t)
}

func TestJobService_Decline_KeepsBusyArtisanBusy(t *testing.T) {
	jobs := new(mockJobStore)
	artisans := new(mockJobArtisanStore)
	svc := newJobServiceForTest(jobs, artisans)

	ctx := context.Background()
	jobID, artisanID := uuid.New(), uuid.New()
	declined := &models.Job{ID: jobID, ClientID: uuid.New(), Title: "Tile a bathroom", Status: models.JobStatusPending}

	jobs.On("Decline", ctx, jobID, artisanID).Return(declined, nil)
	jobs.On("CountByArtisanAndStatus", ctx, artisanID, models.JobStatusInProgress).Return(2, nil)

	_, err := svc.Decline(ctx, jobID, artisanID)
	assert.NoError(t, err)
	artisans.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_Decline_ConflictSurfaces(t *testing.T) {
	jobs := new(mockJobStore)
	artisans := new(mockJobArtisanStore)
	svc := newJobServiceForTest(jobs, artisans)

	ctx := context.Background()
	jobID, artisanID := uuid.New(), uuid.New()
	jobs.On("Decline", ctx, jobID, artisanID).Return(nil, repository.ErrJobConflict)

	_, err := svc.Decline(ctx, jobID, artisanID)
	assert.ErrorIs(t, err, repository.ErrJobConflict)
	artisans.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_GetDetail_HidesJobsFromOutsiders(t *testing.T) {
	jobs := new(mockJobStore)
	svc := newJobServiceForTest(jobs, new(mockJobArtisanStore))

	ctx := context.Background()
	clientID, artisanID := uuid.New(), uuid.New()
	detail := &models.JobWithParties{Job: models.Job{ID: uuid.New(), ClientID: clientID, ArtisanID: &artisanID}}
	jobs.On("GetDetail", ctx, detail.ID).Return(detail, nil)

	// An unrelated user sees not-found, never forbidden.
	_, err := svc.GetDetail(ctx, detail.ID, uuid.New(), models.RoleClient)
	assert.ErrorIs(t, err, repository.ErrJobNotFound)

	got, err := svc.GetDetail(ctx, detail.ID, clientID, models.RoleClient)
	assert.NoError(t, err)
	assert.Equal(t, detail, got)

	_, err = svc.GetDetail(ctx, detail.ID, artisanID, models.RoleArtisan)
	assert.NoError(t, err)

	_, err = svc.GetDetail(ctx, detail.ID, uuid.New(), models.RoleAdmin)
	assert.NoError(t, err)
}

func TestJobService_ListForClient_PartitionsActiveAndHistory(t *testing.T) {
	jobs := new(mockJobStore)
	svc := newJobServiceForTest(jobs, new(mockJobArtisanStore))

	ctx := context.Background()
	clientID := uuid.New()
	pending := models.JobWithParties{Job: models.Job{ID: uuid.New(), ClientID: clientID, Title: "Hang shelves", Status: models.JobStatusPending}}
	inProgress := models.JobWithParties{Job: models.Job{ID: uuid.New(), ClientID: clientID, Title: "Rewire kitchen", Status: models.JobStatusInProgress}}
	completed := models.JobWithParties{Job: models.Job{ID: uuid.New(), ClientID: clientID, Title: "Fix leaking sink", Status: models.JobStatusCompleted}}
	jobs.On("ListByClient", ctx, clientID).Return([]models.JobWithParties{inProgress, pending, completed}, nil)

	list, err := svc.ListForClient(ctx, clientID)
	assert.NoError(t, err)
	assert.Equal(t, []models.JobWithParties{inProgress, pending}, list.Active)
	assert.Equal(t, []models.JobWithParties{completed}, list.History)
}

func TestJobService_ListForClient_EmptyPartitionsAreNotNil(t *testing.T) {
	jobs := new(mockJobStore)
	svc := newJobServiceForTest(jobs, new(mockJobArtisanStore))

	ctx := context.Background()
	clientID := uuid.New()
	jobs.On("ListByClient", ctx, clientID).Return([]models.JobWithParties{}, nil)

	list, err := svc.ListForClient(ctx, clientID)
	assert.NoError(t, err)
	assert.NotNil(t, list.Active)
	assert.NotNil(t, list.History)
	assert.Empty(t, list.Active)
	assert.Empty(t, list.History)
}

func TestJobService_ListForArtisan_RejectsUnknownStatus(t *testing.T) {
	jobs := new(mockJobStore)
	svc := newJobServiceForTest(jobs, new(mockJobArtisanStore))

	_, err := svc.ListForArtisan(context.Background(), uuid.New(), "Cancelled")
	assert.Error(t, err)
	jobs.AssertNotCalled(t, "ListByArtisan", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_ListAvailable_UsesArtisanTown(t *testing.T) {
	jobs := new(mockJobStore)
	artisans := new(mockJobArtisanStore)
	svc := newJobServiceForTest(jobs, artisans)

	ctx := context.Background()
	artisanID := uuid.New()
	artisans.On("GetByID", ctx, artisanID).Return(activeArtisan(artisanID, "80.00"), nil)
	jobs.On("ListAvailable", ctx, "Tema", artisanID).Return([]models.JobWithParties{}, nil)

	_, err := svc.ListAvailable(ctx, artisanID)
	assert.NoError(t, err)
	jobs.AssertExpectations(t)
}
