package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightekpe/artisanhub-backend/internal/logger"
	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/validation"
)

// JobStore is what the job service needs from the jobs table.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.JobWithParties, error)
	Accept(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error)
	Decline(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error)
	ListAvailable(ctx context.Context, town string, artisanID uuid.UUID) ([]models.JobWithParties, error)
	CountNewAvailableSince(ctx context.Context, town string, artisanID uuid.UUID, since time.Time) (int, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.JobWithParties, error)
	ListByArtisan(ctx context.Context, artisanID uuid.UUID, status string) ([]models.JobWithParties, error)
	CountByArtisanAndStatus(ctx context.Context, artisanID uuid.UUID, status string) (int, error)
}

// JobArtisanStore is the slice of the artisans table the job service
// touches: booking reads the price, accept/decline flip availability.
type JobArtisanStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// JobService owns the job lifecycle up to, but not including,
// settlement: booking, acceptance, decline, listing.
type JobService struct {
	jobs          JobStore
	artisans      JobArtisanStore
	notifications *NotificationService
}

// BookInput carries a client's booking. ArtisanID set means a direct
// booking of that artisan at their base fee; nil means an open post at
// the client's budget, surfaced to artisans in the matching town.
type BookInput struct {
	ArtisanID    *uuid.UUID
	Title        string
	Description  string
	Location     string
	Budget       decimal.Decimal
	NotifyOthers bool
}

// NewJobService creates the job service.
func NewJobService(jobs JobStore, artisans JobArtisanStore, notifications *NotificationService) *JobService {
	return &JobService{
		jobs:          jobs,
		artisans:      artisans,
		notifications: notifications,
	}
}

// Book creates a Pending job. For a direct booking the amount is the
// artisan's base fee frozen at this moment; later fee changes never
// reprice an existing job.
func (s *JobService) Book(ctx context.Context, clientID uuid.UUID, in BookInput) (*models.Job, error) {
	if err := validation.ValidateLength("title", in.Title, validation.MinJobTitleLength, validation.MaxJobTitleLength); err != nil {
		return nil, fmt.Errorf("job service: %w", err)
	}
	if err := validation.ValidateLength("description", in.Description, 0, validation.MaxDescriptionLength); err != nil {
		return nil, fmt.Errorf("job service: %w", err)
	}
	if err := validation.ValidateNonEmpty("location", in.Location); err != nil {
		return nil, fmt.Errorf("job service: %w", err)
	}

	amount := in.Budget
	if in.ArtisanID != nil {
		artisan, err := s.artisans.GetByID(ctx, *in.ArtisanID)
		if err != nil {
			return nil, err
		}
		if artisan.Stage() != models.StageComplete {
			return nil, fmt.Errorf("job service: artisan is not available for booking")
		}
		amount = artisan.PriceRange
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("job service: amount must be positive")
	}

	var description *string
	if in.Description != "" {
		description = &in.Description
	}

	job := &models.Job{
		ClientID:     clientID,
		ArtisanID:    in.ArtisanID,
		Title:        in.Title,
		Description:  description,
		Location:     in.Location,
		Amount:       amount,
		NotifyOthers: in.NotifyOthers,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if in.ArtisanID != nil {
		s.notifications.NotifyAsync(*in.ArtisanID,
			"New booking request",
			fmt.Sprintf("You have a new booking: %s (%s).", job.Title, job.Location),
			models.NotificationTypeJobUpdate,
		)
	}

	return job, nil
}

// Accept moves a Pending job to In Progress under the artisan. Exactly
// one acceptance wins; a second attempt surfaces the conflict from the
// conditional write. The artisan is flipped to Busy best-effort after
// the transition.
func (s *JobService) Accept(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.Accept(ctx, jobID, artisanID)
	if err != nil {
		return nil, err
	}

	if err := s.artisans.UpdateStatus(ctx, artisanID, models.ArtisanStatusBusy); err != nil {
		// The job transition already committed; availability is display
		// state the artisan can correct themselves.
		logger.Log.WithError(err).Warn("mark artisan busy after accept")
	}

	s.notifications.NotifyAsync(job.ClientID,
		"Booking accepted",
		fmt.Sprintf("Your job %q has been accepted and is now in progress.", job.Title),
		models.NotificationTypeJobUpdate,
	)

	return job, nil
}

// Decline releases an assigned Pending job back to the pool. The
// decliner stops seeing it in their available list. Assignment marked
// the artisan Busy, so a decline that leaves them with no jobs in
// progress restores Available.
func (s *JobService) Decline(ctx context.Context, jobID, artisanID uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.Decline(ctx, jobID, artisanID)
	if err != nil {
		return nil, err
	}

	active, err := s.jobs.CountByArtisanAndStatus(ctx, artisanID, models.JobStatusInProgress)
	if err != nil {
		logger.Log.WithError(err).Warn("count active jobs after decline")
	} else if active == 0 {
		if err := s.artisans.UpdateStatus(ctx, artisanID, models.ArtisanStatusAvailable); err != nil {
			logger.Log.WithError(err).Warn("mark artisan available after decline")
		}
	}

	s.notifications.NotifyAsync(job.ClientID,
		"Booking declined",
		fmt.Sprintf("Your job %q was declined. It remains open for other artisans.", job.Title),
		models.NotificationTypeJobUpdate,
	)

	return job, nil
}

// GetDetail returns a job with party names, restricted to its
// participants and admins.
func (s *JobService) GetDetail(ctx context.Context, jobID, callerID uuid.UUID, callerRole models.Role) (*models.JobWithParties, error) {
	job, err := s.jobs.GetDetail(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !s.isParticipant(&job.Job, callerID, callerRole) {
		return nil, repository.ErrJobNotFound
	}
	return job, nil
}

// isParticipant reports whether the caller may see a job. Non-parties
// get a not-found, not a forbidden, so job identifiers leak nothing.
func (s *JobService) isParticipant(job *models.Job, callerID uuid.UUID, callerRole models.Role) bool {
	if callerRole == models.RoleAdmin {
		return true
	}
	if job.ClientID == callerID {
		return true
	}
	return job.ArtisanID != nil && *job.ArtisanID == callerID
}

// ClientJobList partitions a client's jobs into the ones still moving
// and the finished history, each newest first.
type ClientJobList struct {
	Active  []models.JobWithParties `json:"active"`
	History []models.JobWithParties `json:"history"`
}

// ListForClient returns a client's jobs partitioned into active
// (Pending, In Progress) and history (everything settled).
func (s *JobService) ListForClient(ctx context.Context, clientID uuid.UUID) (*ClientJobList, error) {
	jobs, err := s.jobs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	list := &ClientJobList{
		Active:  []models.JobWithParties{},
		History: []models.JobWithParties{},
	}
	for _, job := range jobs {
		switch job.Status {
		case models.JobStatusPending, models.JobStatusInProgress:
			list.Active = append(list.Active, job)
		default:
			list.History = append(list.History, job)
		}
	}
	return list, nil
}

// ListForArtisan returns an artisan's assigned jobs, optionally
// filtered by status.
func (s *JobService) ListForArtisan(ctx context.Context, artisanID uuid.UUID, status string) ([]models.JobWithParties, error) {
	if status != "" {
		if _, ok := models.ValidJobStatuses[status]; !ok {
			return nil, fmt.Errorf("job service: invalid status filter %q", status)
		}
	}
	return s.jobs.ListByArtisan(ctx, artisanID, status)
}

// ListAvailable returns open jobs matching the artisan's town.
func (s *JobService) ListAvailable(ctx context.Context, artisanID uuid.UUID) ([]models.JobWithParties, error) {
	artisan, err := s.artisans.GetByID(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	return s.jobs.ListAvailable(ctx, artisan.Town, artisanID)
}

// CountNewAvailable counts open matching jobs created after the given
// moment, for the artisan's new-jobs badge.
func (s *JobService) CountNewAvailable(ctx context.Context, artisanID uuid.UUID, since time.Time) (int, error) {
	artisan, err := s.artisans.GetByID(ctx, artisanID)
	if err != nil {
		return 0, err
	}
	return s.jobs.CountNewAvailableSince(ctx, artisan.Town, artisanID, since)
}
