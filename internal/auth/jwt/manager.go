package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/abhisheknirogi/Pharmacy-ai/pkg/config"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
)

// Claims is the access token payload. It carries enough identity for
// handlers to authorize without a user lookup per request.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// RefreshClaims is the refresh token payload, identity only
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// UserInfo is what token generation needs to know about a user
type UserInfo struct {
	ID    string
	Email string
	Name  string
	Role  string
}

// TokenPair is the login and refresh response payload
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}

// Manager signs and validates HS256 token pairs
type Manager struct {
	config *config.JWTConfig
}

func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{config: cfg}
}

// GenerateTokenPair issues a fresh access and refresh token for the user.
// ExpiresAt on the pair refers to the access token.
func (m *Manager) GenerateTokenPair(user *UserInfo) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(m.config.AccessExpiry)

	accessToken, err := m.signed(Claims{
		RegisteredClaims: m.registered(user.ID, now, accessExpiry),
		UserID:           user.ID,
		Email:            user.Email,
		Name:             user.Name,
		Role:             user.Role,
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := m.signed(RefreshClaims{
		RegisteredClaims: m.registered(user.ID, now, now.Add(m.config.RefreshExpiry)),
		UserID:           user.ID,
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry,
		TokenType:    "Bearer",
	}, nil
}

// ValidateAccessToken returns the claims of a valid access token, or
// TokenExpired/TokenInvalid.
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefreshToken returns the claims of a valid refresh token, or
// TokenExpired/TokenInvalid.
func (m *Manager) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) registered(subject string, now, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    m.config.Issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	}
}

func (m *Manager) signed(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.Secret))
}

func (m *Manager) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.TokenInvalid()
		}
		return []byte(m.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return errors.TokenExpired()
		}
		return errors.TokenInvalid()
	}
	if !token.Valid {
		return errors.TokenInvalid()
	}
	return nil
}
