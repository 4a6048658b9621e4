package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/brightekpe/artisanhub-backend/internal/logger"
	"github.com/brightekpe/artisanhub-backend/internal/models"
	"github.com/brightekpe/artisanhub-backend/internal/repository"
	"github.com/brightekpe/artisanhub-backend/internal/validation"
)

// AuthRepository describes what the auth service needs from the users store.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateContact(ctx context.Context, id uuid.UUID, fullName string, phone *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuthService handles client and admin accounts: registration, login,
// token refresh, profile updates and the one-time admin bootstrap.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// RegisterInput carries client registration data.
type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

// LoginInput carries email login data.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the outcome of a registration or login.
type AuthResult struct {
	User      *models.User `json:"user"`
	TokenPair *TokenPair   `json:"tokens"`
}

// NewAuthService creates the auth service.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register creates a new client account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if in.Phone != "" {
		if err := validation.ValidatePhone(in.Phone); err != nil {
			return nil, fmt.Errorf("auth service: %w", err)
		}
	}

	if _, err := s.repo.GetByEmail(ctx, strings.ToLower(in.Email)); err == nil {
		return nil, fmt.Errorf("auth service: email is already registered")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	var phone *string
	if in.Phone != "" {
		phone = &in.Phone
	}

	user := &models.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.ToLower(in.Email),
		Phone:        phone,
		PasswordHash: string(passHash),
		Role:         models.RoleClient,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.tokenManager.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue tokens: %w", err)
	}

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Login authenticates a client or admin by email and password.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("auth service: invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("auth service: invalid credentials")
	}

	pair, err := s.tokenManager.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue tokens: %w", err)
	}

	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	subjectID, role, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("auth service: invalid refresh token")
	}

	// Artisan refresh does not touch the users table; the gate
	// middleware re-checks the artisan record on every request anyway.
	if role != models.RoleArtisan {
		if _, err := s.repo.GetByID(ctx, subjectID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, fmt.Errorf("auth service: account no longer exists")
			}
			return nil, err
		}
	}

	return s.tokenManager.GeneratePair(subjectID, role)
}

// GetUser returns a user by identifier.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateContact updates a user's name and phone.
func (s *AuthService) UpdateContact(ctx context.Context, id uuid.UUID, fullName, phone string) error {
	if err := validation.ValidateFullName(fullName); err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	var phonePtr *string
	if phone != "" {
		if err := validation.ValidatePhone(phone); err != nil {
			return fmt.Errorf("auth service: %w", err)
		}
		phonePtr = &phone
	}
	return s.repo.UpdateContact(ctx, id, strings.TrimSpace(fullName), phonePtr)
}

// DeleteAccount removes a client account.
func (s *AuthService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin provisions the admin account once at startup. It never
// runs on request traffic.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("auth service: check admin account: %w", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth service: hash admin password: %w", err)
	}

	admin := &models.User{
		FullName:     name,
		Email:        email,
		PasswordHash: string(passHash),
		Role:         models.RoleAdmin,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("auth service: create admin account: %w", err)
	}

	if logger.Log != nil {
		logger.Log.WithField("email", email).Info("admin account provisioned")
	}
	return nil
}
