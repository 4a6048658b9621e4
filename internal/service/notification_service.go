package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightekpe/artisanhub-backend/internal/goroutine"
	"github.com/brightekpe/artisanhub-backend/internal/logger"
	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
)

// notifyTimeout bounds the background delivery of a single notification.
const notifyTimeout = 5 * time.Second

// NotificationStore is what the notification service needs from storage.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// AdminDirectory lists admin accounts for fan-out.
type AdminDirectory interface {
	ListAdmins(ctx context.Context) ([]models.User, error)
}

// Broadcaster pushes a stored notification to any live connection the
// recipient holds. Implemented by the websocket hub.
type Broadcaster interface {
	Push(userID uuid.UUID, n *models.Notification)
}

// NotificationService persists notifications and pushes them to
// connected clients. Deliveries triggered by core transitions are
// fire-and-forget: a failed insert is logged, never surfaced to the
// request that caused it.
type NotificationService struct {
	store       NotificationStore
	admins      AdminDirectory
	broadcaster Broadcaster
	recovery    *goroutine.RecoveryHandler
}

// NewNotificationService creates the notification service. broadcaster
// may be nil when no live push channel is configured.
func NewNotificationService(store NotificationStore, admins AdminDirectory, broadcaster Broadcaster, recovery *goroutine.RecoveryHandler) *NotificationService {
	if recovery == nil {
		recovery = goroutine.DefaultRecoveryHandler
	}
	return &NotificationService{
		store:       store,
		admins:      admins,
		broadcaster: broadcaster,
		recovery:    recovery,
	}
}

// Notify stores a notification and pushes it to the recipient.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, title, message, typ string) error {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.Push(userID, n)
	}
	return nil
}

// NotifyAsync delivers in the background, detached from the request
// context so the caller's completion does not cancel the insert.
func (s *NotificationService) NotifyAsync(userID uuid.UUID, title, message, typ string) {
	s.recovery.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.Notify(ctx, userID, title, message, typ); err != nil {
			logger.Log.WithError(err).
				WithField("user_id", userID).
				Warn("notification delivery failed")
		}
	})
}

// NotifyAdminsAsync fans one message out to every admin account.
func (s *NotificationService) NotifyAdminsAsync(title, message, typ string) {
	s.recovery.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		admins, err := s.admins.ListAdmins(ctx)
		if err != nil {
			logger.Log.WithError(err).Warn("admin notification fan-out failed")
			return
		}
		for _, admin := range admins {
			if err := s.Notify(ctx, admin.ID, title, message, typ); err != nil {
				logger.Log.WithError(err).
					WithField("user_id", admin.ID).
					Warn("admin notification delivery failed")
			}
		}
	})
}

// List returns a page of the user's notifications.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.List(ctx, userID, limit, offset, unreadOnly)
}

// UnreadCount returns how many notifications the user has not read.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

// MarkRead marks one notification read after checking it belongs to the
// caller.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	n, err := s.store.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return repository.ErrNotificationNotFound
	}
	return s.store.MarkAsRead(ctx, notificationID)
}

// MarkAllRead marks every notification of the caller read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.store.MarkAllAsRead(ctx, userID)
}
