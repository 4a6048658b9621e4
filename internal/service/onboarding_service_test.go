package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
)

// mockArtisanRepo implements OnboardingRepository in memory.
type mockArtisanRepo struct {
	byID    map[uuid.UUID]*models.Artisan
	byPhone map[string]*models.Artisan
}

func newMockArtisanRepo() *mockArtisanRepo {
	return &mockArtisanRepo{
		byID:    make(map[uuid.UUID]*models.Artisan),
		byPhone: make(map[string]*models.Artisan),
	}
}

func (m *mockArtisanRepo) Create(ctx context.Context, a *models.Artisan) error {
	a.ID = uuid.New()
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = models.ArtisanStatusAvailable
	}
	m.byID[a.ID] = a
	m.byPhone[a.Phone] = a
	return nil
}

func (m *mockArtisanRepo) GetByPhone(ctx context.Context, phone string) (*models.Artisan, error) {
	if a, ok := m.byPhone[phone]; ok {
		return a, nil
	}
	return nil, repository.ErrArtisanNotFound
}

func (m *mockArtisanRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Artisan, error) {
	if a, ok := m.byID[id]; ok {
		return a, nil
	}
	return nil, repository.ErrArtisanNotFound
}

func (m *mockArtisanRepo) ListByGateFlags(ctx context.Context, isVerified, subscriptionActive bool) ([]models.Artisan, error) {
	var out []models.Artisan
	for _, a := range m.byID {
		if a.IsVerified == isVerified && a.SubscriptionActive == subscriptionActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockArtisanRepo) ListUnverified(ctx context.Context) ([]models.Artisan, error) {
	var out []models.Artisan
	for _, a := range m.byID {
		if !a.IsVerified {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockArtisanRepo) Count(ctx context.Context) (int, error) {
	return len(m.byID), nil
}

func (m *mockArtisanRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrArtisanNotFound
	}
	a.IsVerified = verified
	return nil
}

func (m *mockArtisanRepo) SetSubscriptionActive(ctx context.Context, id uuid.UUID, active bool) error {
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrArtisanNotFound
	}
	a.SubscriptionActive = active
	return nil
}

func (m *mockArtisanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	a, ok := m.byID[id]
	if !ok {
		return repository.ErrArtisanNotFound
	}
	delete(m.byPhone, a.Phone)
	delete(m.byID, id)
	return nil
}

func newOnboardingForTest() (*OnboardingService, *mockArtisanRepo) {
	repo := newMockArtisanRepo()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	notifications, _ := newTestNotifications()
	return NewOnboardingService(repo, tokenManager, notifications), repo
}

func validRegisterInput() ArtisanRegisterInput {
	return ArtisanRegisterInput{
		FullName:   "Kwame Asante",
		Phone:      "0241234567",
		Password:   "Password1",
		Trade:      "Plumber",
		Region:     "Greater Accra",
		Town:       "Tema",
		PriceRange: decimal.NewFromInt(120),
	}
}

func TestOnboardingService_RegisterStartsAtDocs(t *testing.T) {
	svc, _ := newOnboardingForTest()
	ctx := context.Background()

	res, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if res.Stage != models.StageDocs {
		t.Fatalf("new artisan must start at docs stage, got %q", res.Stage)
	}
	if res.Artisan.IsVerified || res.Artisan.SubscriptionActive {
		t.Fatalf("gate flags must start false")
	}
	if res.Artisan.Location != "Tema, Greater Accra" {
		t.Fatalf("unexpected location %q", res.Artisan.Location)
	}
	if res.TokenPair.AccessToken == "" {
		t.Fatalf("expected an access token")
	}
}

func TestOnboardingService_RegisterRejectsDuplicatePhone(t *testing.T) {
	svc, _ := newOnboardingForTest()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("first register returned error: %v", err)
	}

	_, err := svc.Register(ctx, validRegisterInput())
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate phone error, got %v", err)
	}
}

func TestOnboardingService_RegisterRejectsBadInput(t *testing.T) {
	svc, _ := newOnboardingForTest()
	ctx := context.Background()

	in := validRegisterInput()
	in.Region = "Atlantis"
	if _, err := svc.Register(ctx, in); err == nil {
		t.Fatalf("expected unknown region to be rejected")
	}

	in = validRegisterInput()
	in.PriceRange = decimal.NewFromInt(600)
	if _, err := svc.Register(ctx, in); err == nil {
		t.Fatalf("expected base fee above the cap to be rejected")
	}

	in = validRegisterInput()
	in.Phone = "12345"
	if _, err := svc.Register(ctx, in); err == nil {
		t.Fatalf("expected malformed phone to be rejected")
	}

	// A zero base fee would make every direct booking fail its positive
	// amount check later, so registration refuses it up front.
	in = validRegisterInput()
	in.PriceRange = decimal.Zero
	if _, err := svc.Register(ctx, in); err == nil {
		t.Fatalf("expected zero base fee to be rejected")
	}
}

func TestOnboardingService_LoginReportsStage(t *testing.T) {
	svc, repo := newOnboardingForTest()
	ctx := context.Background()

	reg, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if err := repo.SetVerified(ctx, reg.Artisan.ID, true); err != nil {
		t.Fatalf("set verified: %v", err)
	}

	res, err := svc.Login(ctx, "0241234567", "Password1")
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if res.Stage != models.StagePayment {
		t.Fatalf("expected payment stage after verification, got %q", res.Stage)
	}

	if _, err := svc.Login(ctx, "0241234567", "WrongPass1"); err == nil {
		t.Fatalf("expected invalid credentials error")
	}
	if _, err := svc.Login(ctx, "0209999999", "Password1"); err == nil {
		t.Fatalf("expected invalid credentials error for unknown phone")
	}
}

func TestOnboardingService_PipelineDocsToComplete(t *testing.T) {
	svc, _ := newOnboardingForTest()
	ctx := context.Background()

	reg, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	id := reg.Artisan.ID

	// Subscription cannot activate ahead of document verification.
	if _, err := svc.ConfirmSubscription(ctx, id); err == nil {
		t.Fatalf("expected subscription activation to be refused before verification")
	}

	status, err := svc.ApproveDocuments(ctx, id)
	if err != nil {
		t.Fatalf("approve documents: %v", err)
	}
	if status.Stage != models.StagePayment {
		t.Fatalf("expected payment stage after approval, got %q", status.Stage)
	}

	status, err = svc.ConfirmSubscription(ctx, id)
	if err != nil {
		t.Fatalf("confirm subscription: %v", err)
	}
	if status.Stage != models.StageComplete {
		t.Fatalf("expected complete stage, got %q", status.Stage)
	}

	// Revocation pushes the artisan back to the payment stage.
	status, err = svc.RevokeSubscription(ctx, id)
	if err != nil {
		t.Fatalf("revoke subscription: %v", err)
	}
	if status.Stage != models.StagePayment {
		t.Fatalf("expected payment stage after revocation, got %q", status.Stage)
	}
}

func TestOnboardingService_ReportPaymentStageChecks(t *testing.T) {
	svc, repo := newOnboardingForTest()
	ctx := context.Background()

	reg, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	id := reg.Artisan.ID

	if _, err := svc.ReportPayment(ctx, id, "MM-123"); err == nil {
		t.Fatalf("expected payment report to be refused at docs stage")
	}

	if err := repo.SetVerified(ctx, id, true); err != nil {
		t.Fatalf("set verified: %v", err)
	}
	if _, err := svc.ReportPayment(ctx, id, "MM-123"); err != nil {
		t.Fatalf("payment report at payment stage: %v", err)
	}

	if err := repo.SetSubscriptionActive(ctx, id, true); err != nil {
		t.Fatalf("set subscription: %v", err)
	}
	if _, err := svc.ReportPayment(ctx, id, ""); err == nil {
		t.Fatalf("expected payment report to be refused once subscription is active")
	}
}

func TestOnboardingService_RejectApplicationDeletes(t *testing.T) {
	svc, repo := newOnboardingForTest()
	ctx := context.Background()

	reg, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if err := svc.RejectApplication(ctx, reg.Artisan.ID); err != nil {
		t.Fatalf("reject application: %v", err)
	}
	if _, err := repo.GetByID(ctx, reg.Artisan.ID); err == nil {
		t.Fatalf("expected artisan record to be gone")
	}
}

func TestOnboardingService_Dashboard(t *testing.T) {
	svc, repo := newOnboardingForTest()
	ctx := context.Background()

	phones := []string{"0241111111", "0242222222", "0243333333"}
	var ids []uuid.UUID
	for _, phone := range phones {
		in := validRegisterInput()
		in.Phone = phone
		reg, err := svc.Register(ctx, in)
		if err != nil {
			t.Fatalf("register %s: %v", phone, err)
		}
		ids = append(ids, reg.Artisan.ID)
	}

	// One at payment, one fully active, one left at docs.
	if err := repo.SetVerified(ctx, ids[1], true); err != nil {
		t.Fatalf("set verified: %v", err)
	}
	if err := repo.SetVerified(ctx, ids[2], true); err != nil {
		t.Fatalf("set verified: %v", err)
	}
	if err := repo.SetSubscriptionActive(ctx, ids[2], true); err != nil {
		t.Fatalf("set subscription: %v", err)
	}

	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dash.AwaitingVerification) != 1 || len(dash.AwaitingPayment) != 1 || len(dash.Active) != 1 {
		t.Fatalf("unexpected partitions: %d/%d/%d", len(dash.AwaitingVerification), len(dash.AwaitingPayment), len(dash.Active))
	}
	if dash.Total != 3 {
		t.Fatalf("expected total 3, got %d", dash.Total)
	}
}
