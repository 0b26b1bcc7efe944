package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/events"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/jwt"
	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/repository"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/logger"
)

// AuthService handles authentication logic
type AuthService struct {
	repo       *repository.UserRepository
	jwtManager *jwt.Manager
	publisher  *events.UserEventPublisher
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repo *repository.UserRepository, jwtManager *jwt.Manager, publisher *events.UserEventPublisher, log *logger.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		jwtManager: jwtManager,
		publisher:  publisher,
		logger:     log,
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin pharmacist staff"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
	User         *UserInfo `json:"user"`
}

// UserInfo represents user information
type UserInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func userInfo(user *repository.User) *UserInfo {
	return &UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// Register creates a new account and returns tokens for it
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check email")
		return nil, errors.Internal("failed to register user")
	}
	if exists {
		return nil, errors.Conflict("email already in use")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = "staff"
	}

	user := &repository.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publisher.PublishUserRegistered(ctx, user)

	return s.respondWithTokens(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same response for unknown email and wrong password
		return nil, errors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials()
	}

	return s.respondWithTokens(user)
}

// Refresh issues a new token pair from a valid refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("account no longer exists")
	}

	return s.jwtManager.GenerateTokenPair(&jwt.UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.FullName,
		Role:  user.Role,
	})
}

// GetCurrentUser gets the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return userInfo(user), nil
}

func (s *AuthService) respondWithTokens(user *repository.User) (*AuthResponse, error) {
	tokens, err := s.jwtManager.GenerateTokenPair(&jwt.UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.FullName,
		Role:  user.Role,
	})
	if err != nil {
		return nil, errors.Internal("failed to generate tokens")
	}

	return &AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
		TokenType:    tokens.TokenType,
		User:         userInfo(user),
	}, nil
}
