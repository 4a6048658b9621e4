package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brightekpe/artisanhub-backend/internal/models"
)

// TokenPair holds an access/refresh token pair.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    time.Duration `json:"expires_in"`
}

// TokenManager issues and verifies JWTs.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager creates the token manager.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// GeneratePair issues a fresh token pair for a subject with a role.
func (m *TokenManager) GeneratePair(subjectID uuid.UUID, role models.Role) (*TokenPair, error) {
	now := time.Now()

	accessToken, err := m.createAccessToken(subjectID, role, now.Add(m.accessTTL))
	if err != nil {
		return nil, err
	}

	refreshToken, err := m.createRefreshToken(subjectID, role, now.Add(m.refreshTTL))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    m.accessTTL,
	}, nil
}

// ParseAccess extracts the subject ID and role from an access token.
func (m *TokenManager) ParseAccess(token string) (uuid.UUID, models.Role, error) {
	return m.parse(token, m.accessSecret)
}

// ParseRefresh verifies a refresh token and returns its subject and role.
func (m *TokenManager) ParseRefresh(token string) (uuid.UUID, models.Role, error) {
	return m.parse(token, m.refreshSecret)
}

func (m *TokenManager) parse(token string, secret []byte) (uuid.UUID, models.Role, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", jwt.ErrTokenInvalidClaims
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, "", jwt.ErrTokenInvalidClaims
	}

	roleStr, _ := claims["role"].(string)
	role := models.Role(roleStr)
	if !role.Valid() {
		return uuid.Nil, "", jwt.ErrTokenInvalidClaims
	}

	subjectID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", err
	}

	return subjectID, role, nil
}

func (m *TokenManager) createAccessToken(subjectID uuid.UUID, role models.Role, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subjectID.String(),
		"role": role.String(),
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.accessSecret)
}

func (m *TokenManager) createRefreshToken(subjectID uuid.UUID, role models.Role, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subjectID.String(),
		"role": role.String(),
		"jti":  uuid.NewString(),
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.refreshSecret)
}
