package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/validation"
)

// ProjectStore is what the project service needs from storage.
type ProjectStore interface {
	CreateRequest(ctx context.Context, req *models.ProjectRequest) error
	GetRequest(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error)
	ListRequestsByClient(ctx context.Context, clientID uuid.UUID) ([]models.ProjectRequest, error)
	ListRequestsByStatus(ctx context.Context, status string) ([]models.ProjectRequest, error)
	ApproveRequest(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error)
	AssignRequest(ctx context.Context, requestID, artisanID uuid.UUID, finalAmount decimal.Decimal) (*models.Job, error)
	AddUpdate(ctx context.Context, u *models.ProjectUpdate) error
	ListUpdates(ctx context.Context, jobID uuid.UUID) ([]models.ProjectUpdate, error)
	AddMilestone(ctx context.Context, m *models.ProjectMilestone) error
	ListMilestones(ctx context.Context, jobID uuid.UUID) ([]models.ProjectMilestone, error)
	ToggleMilestone(ctx context.Context, id, jobID uuid.UUID) (*models.ProjectMilestone, error)
	DeleteMilestone(ctx context.Context, id, jobID uuid.UUID) error
	AddChatMessage(ctx context.Context, msg *models.ChatMessage) error
	ListChatMessages(ctx context.Context, jobID uuid.UUID, limit, offset int) ([]models.ChatMessage, error)
}

// ProjectJobReader resolves the job behind a contracted project for
// participant checks.
type ProjectJobReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// ProjectArtisanReader checks the artisan being assigned to a project.
type ProjectArtisanReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error)
}

// ProjectService manages larger projects: the client brief, the admin
// review-and-assign flow, and the collaboration surface (updates,
// milestones, chat) on the resulting contract.
type ProjectService struct {
	store         ProjectStore
	jobs          ProjectJobReader
	artisans      ProjectArtisanReader
	notifications *NotificationService
}

// ProjectRequestInput carries a client's project brief.
type ProjectRequestInput struct {
	Title          string
	Description    string
	Location       string
	ProposedBudget *decimal.Decimal
}

// NewProjectService creates the project service.
func NewProjectService(store ProjectStore, jobs ProjectJobReader, artisans ProjectArtisanReader, notifications *NotificationService) *ProjectService {
	return &ProjectService{
		store:         store,
		jobs:          jobs,
		artisans:      artisans,
		notifications: notifications,
	}
}

// SubmitRequest files a client brief for admin review.
func (s *ProjectService) SubmitRequest(ctx context.Context, clientID uuid.UUID, in ProjectRequestInput) (*models.ProjectRequest, error) {
	if err := validation.ValidateLength("title", in.Title, validation.MinJobTitleLength, validation.MaxJobTitleLength); err != nil {
		return nil, fmt.Errorf("project service: %w", err)
	}
	if err := validation.ValidateNonEmpty("description", in.Description); err != nil {
		return nil, fmt.Errorf("project service: %w", err)
	}
	if err := validation.ValidateNonEmpty("location", in.Location); err != nil {
		return nil, fmt.Errorf("project service: %w", err)
	}
	if in.ProposedBudget != nil && !in.ProposedBudget.IsPositive() {
		return nil, fmt.Errorf("project service: proposed budget must be positive")
	}

	req := &models.ProjectRequest{
		ClientID:       clientID,
		Title:          in.Title,
		Description:    in.Description,
		Location:       in.Location,
		ProposedBudget: in.ProposedBudget,
	}
	if err := s.store.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	s.notifications.NotifyAdminsAsync(
		"New project request",
		fmt.Sprintf("A project request %q is awaiting review.", req.Title),
		models.NotificationTypeJobUpdate,
	)

	return req, nil
}

// ListMyRequests returns a client's own briefs.
func (s *ProjectService) ListMyRequests(ctx context.Context, clientID uuid.UUID) ([]models.ProjectRequest, error) {
	return s.store.ListRequestsByClient(ctx, clientID)
}

// ReviewQueue returns briefs awaiting admin review.
func (s *ProjectService) ReviewQueue(ctx context.Context) ([]models.ProjectRequest, error) {
	return s.store.ListRequestsByStatus(ctx, models.ProjectRequestUnderReview)
}

// ApproveRequest moves a brief to Approved so it can be assigned.
func (s *ProjectService) ApproveRequest(ctx context.Context, requestID uuid.UUID) (*models.ProjectRequest, error) {
	req, err := s.store.ApproveRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyAsync(req.ClientID,
		"Project request approved",
		fmt.Sprintf("Your project request %q has been approved. We are matching you with an artisan.", req.Title),
		models.NotificationTypeJobUpdate,
	)

	return req, nil
}

// AssignRequest converts an approved brief into a contract with the
// chosen artisan at the negotiated amount. The artisan must have full
// marketplace access.
func (s *ProjectService) AssignRequest(ctx context.Context, requestID, artisanID uuid.UUID, finalAmount decimal.Decimal) (*models.Job, error) {
	if !finalAmount.IsPositive() {
		return nil, fmt.Errorf("project service: final amount must be positive")
	}

	artisan, err := s.artisans.GetByID(ctx, artisanID)
	if err != nil {
		return nil, err
	}
	if artisan.Stage() != models.StageComplete {
		return nil, fmt.Errorf("project service: artisan is not eligible for assignment")
	}

	job, err := s.store.AssignRequest(ctx, requestID, artisanID, finalAmount)
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyAsync(job.ClientID,
		"Artisan assigned",
		fmt.Sprintf("%s has been assigned to your project %q.", artisan.FullName, job.Title),
		models.NotificationTypeJobUpdate,
	)
	s.notifications.NotifyAsync(artisanID,
		"Project assigned",
		fmt.Sprintf("You have been assigned to the project %q (GHS %s).", job.Title, job.Amount.StringFixed(2)),
		models.NotificationTypeJobUpdate,
	)

	return job, nil
}

// PostUpdate appends a status note to a contracted project.
func (s *ProjectService) PostUpdate(ctx context.Context, jobID, authorID uuid.UUID, authorRole models.Role, message, photoURL string) (*models.ProjectUpdate, error) {
	if err := validation.ValidateNonEmpty("message", message); err != nil {
		return nil, fmt.Errorf("project service: %w", err)
	}
	if err := s.checkParticipant(ctx, jobID, authorID, authorRole); err != nil {
		return nil, err
	}

	var photo *string
	if photoURL != "" {
		photo = &photoURL
	}

	u := &models.ProjectUpdate{
		JobID:      jobID,
		AuthorID:   authorID,
		AuthorRole: authorRole,
		Message:    message,
		PhotoURL:   photo,
	}
	if err := s.store.AddUpdate(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUpdates returns a project's status notes to a participant.
func (s *ProjectService) ListUpdates(ctx context.Context, jobID, callerID uuid.UUID, callerRole models.Role) ([]models.ProjectUpdate, error) {
	if err := s.checkParticipant(ctx, jobID, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.store.ListUpdates(ctx, jobID)
}

// AddMilestone appends a checklist item to a project.
func (s *ProjectService) AddMilestone(ctx context.Context, jobID, callerID uuid.UUID, callerRole models.Role, title string) (*models.ProjectMilestone, error) {
	if err := validation.ValidateNonEmpty("title", title); err != nil {
		return nil, fmt.Errorf("project service: %w", err)
	}
	if err := s.checkParticipant(ctx, jobID, callerID, callerRole); err != nil {
		return nil, err
	}

	m := &models.ProjectMilestone{JobID: jobID, Title: title}
	if err := s.store.AddMilestone(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMilestones returns a project's checklist to a participant.
func (s *ProjectService) ListMilestones(ctx context.Context, jobID, callerID uuid.UUID, callerRole models.Role) ([]models.ProjectMilestone, error) {
	if err := s.checkParticipant(ctx, jobID, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.store.ListMilestones(ctx, jobID)
}

// ToggleMilestone flips a checklist item.
func (s *ProjectService) ToggleMilestone(ctx context.Context, milestoneID, jobID, callerID uuid.UUID, callerRole models.Role) (*models.ProjectMilestone, error) {
	if err := s.checkParticipant(ctx, jobID, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.store.ToggleMilestone(ctx, milestoneID, jobID)
}

// DeleteMilestone removes a checklist item.
func (s *ProjectService) DeleteMilestone(ctx context.Context, milestoneID, jobID, callerID uuid.UUID, callerRole models.Role) error {
	if err := s.checkParticipant(ctx, jobID, callerID, callerRole); err != nil {
		return err
	}
	return s.store.DeleteMilestone(ctx, milestoneID, jobID)
}

// SendChatMessage appends one line to the project chat.
func (s *ProjectService) SendChatMessage(ctx context.Context, jobID, senderID uuid.UUID, senderRole models.Role, body string) (*models.ChatMessage, error) {
	if err := validation.ValidateNonEmpty("message", body); err != nil {
		return nil, fmt.Errorf("project service: %w", err)
	}
	if err := s.checkParticipant(ctx, jobID, senderID, senderRole); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		JobID:      jobID,
		SenderID:   senderID,
		SenderRole: senderRole,
		Body:       body,
	}
	if err := s.store.AddChatMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListChatMessages returns the chat log to a participant.
func (s *ProjectService) ListChatMessages(ctx context.Context, jobID, callerID uuid.UUID, callerRole models.Role, limit, offset int) ([]models.ChatMessage, error) {
	if err := s.checkParticipant(ctx, jobID, callerID, callerRole); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListChatMessages(ctx, jobID, limit, offset)
}

// checkParticipant resolves the contract behind the project and checks
// the caller is the client, the assigned artisan, or an admin. Outsiders
// get a not-found so job identifiers leak nothing.
func (s *ProjectService) checkParticipant(ctx context.Context, jobID, callerID uuid.UUID, callerRole models.Role) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if callerRole == models.RoleAdmin {
		return nil
	}
	if job.ClientID == callerID {
		return nil
	}
	if job.ArtisanID != nil && *job.ArtisanID == callerID {
		return nil
	}
	return repository.ErrJobNotFound
}
