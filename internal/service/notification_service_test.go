package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/brightekpe/artisanhub-backend/internal/logger"
	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
)

func init() {
	logger.Init("error")
}

// memNotificationStore keeps notifications in memory so the
// fire-and-forget paths have somewhere real to deliver to.
type memNotificationStore struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*models.Notification
	lastLimit int
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{items: make(map[uuid.UUID]*models.Notification)}
}

func (m *memNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	stored := *n
	m.items[n.ID] = &stored
	return nil
}

func (m *memNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.items[id]; ok {
		copied := *n
		return &copied, nil
	}
	return nil, repository.ErrNotificationNotFound
}

func (m *memNotificationStore) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	var out []models.Notification
	for _, n := range m.items {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (m *memNotificationStore) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok {
		return repository.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (m *memNotificationStore) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memNotificationStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *memNotificationStore) countFor(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.items {
		if n.UserID == userID {
			count++
		}
	}
	return count
}

type stubAdminDirectory struct {
	adminIDs []uuid.UUID
}

func (s *stubAdminDirectory) ListAdmins(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(s.adminIDs))
	for _, id := range s.adminIDs {
		users = append(users, models.User{ID: id, Role: models.RoleAdmin})
	}
	return users, nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	pushed []uuid.UUID
}

func (b *recordingBroadcaster) Push(userID uuid.UUID, n *models.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pushed = append(b.pushed, userID)
}

// newTestNotifications wires a notification service onto in-memory
// storage for use by the other service tests.
func newTestNotifications() (*NotificationService, *memNotificationStore) {
	store := newMemNotificationStore()
	return NewNotificationService(store, &stubAdminDirectory{}, nil, nil), store
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not reached before deadline")
}

func TestNotificationService_NotifyStoresAndPushes(t *testing.T) {
	store := newMemNotificationStore()
	broadcaster := &recordingBroadcaster{}
	svc := NewNotificationService(store, &stubAdminDirectory{}, broadcaster, nil)

	userID := uuid.New()
	err := svc.Notify(context.Background(), userID, "Job completed", "GHS 127.50 added to your balance.", models.NotificationTypeJobComplete)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.countFor(userID))
	assert.Equal(t, []uuid.UUID{userID}, broadcaster.pushed)
}

func TestNotificationService_NotifyAdminsAsyncFansOut(t *testing.T) {
	store := newMemNotificationStore()
	adminA, adminB := uuid.New(), uuid.New()
	svc := NewNotificationService(store, &stubAdminDirectory{adminIDs: []uuid.UUID{adminA, adminB}}, nil, nil)

	svc.NotifyAdminsAsync("Withdrawal requested", "A withdrawal is awaiting review.", models.NotificationTypeWithdrawal)

	waitFor(t, func() bool {
		return store.countFor(adminA) == 1 && store.countFor(adminB) == 1
	})
}

func TestNotificationService_MarkReadChecksOwnership(t *testing.T) {
	svc, store := newTestNotifications()
	ctx := context.Background()

	owner := uuid.New()
	n := &models.Notification{UserID: owner, Title: "t", Message: "m", Type: models.NotificationTypeJobUpdate}
	assert.NoError(t, store.Create(ctx, n))

	// Someone else's notification reads as not found.
	err := svc.MarkRead(ctx, uuid.New(), n.ID)
	assert.ErrorIs(t, err, repository.ErrNotificationNotFound)

	assert.NoError(t, svc.MarkRead(ctx, owner, n.ID))

	count, err := svc.UnreadCount(ctx, owner)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNotificationService_ListClampsLimit(t *testing.T) {
	svc, store := newTestNotifications()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.List(ctx, userID, 0, 0, false)
	assert.NoError(t, err)
	assert.Equal(t, 50, store.lastLimit)

	_, err = svc.List(ctx, userID, 500, 0, false)
	assert.NoError(t, err)
	assert.Equal(t, 50, store.lastLimit)

	_, err = svc.List(ctx, userID, 25, 0, false)
	assert.NoError(t, err)
	assert.Equal(t, 25, store.lastLimit)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, store := newTestNotifications()
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		assert.NoError(t, store.Create(ctx, &models.Notification{UserID: userID, Title: "t", Message: "m", Type: models.NotificationTypeJobUpdate}))
	}

	assert.NoError(t, svc.MarkAllRead(ctx, userID))

	count, err := svc.UnreadCount(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}
