package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/splitpal/splitpal/internal/auth"
	"github.com/splitpal/splitpal/internal/ledger"
	"github.com/splitpal/splitpal/internal/models"
	"github.com/splitpal/splitpal/internal/storage"
)

// AuthService handles signup, login and token refresh.
type AuthService struct {
	users         storage.UserStore
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// Session is a user together with a freshly issued token pair.
type Session struct {
	User   *models.User    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// NewAuthService creates a new authentication service.
func NewAuthService(users storage.UserStore, authenticator auth.Authenticator, jwtManager *auth.JWTManager, opts ...Option) *AuthService {
	s := newSettings(opts)
	return &AuthService{
		users:         users,
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        s.logger,
	}
}

// Register creates a new user account and signs it in.
func (s *AuthService) Register(ctx context.Context, name, phoneNumber, password string) (*Session, error) {
	s.logger.Info("Register request", "phone_number", phoneNumber)

	user, err := s.authenticator.Register(ctx, name, phoneNumber, password)
	if err != nil {
		s.logger.Error("Registration failed", "phone_number", phoneNumber, "error", err)
		return nil, err
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID)
	return session, nil
}

// Login authenticates a user and rotates their refresh token.
func (s *AuthService) Login(ctx context.Context, phoneNumber, password string) (*Session, error) {
	s.logger.Info("Login request", "phone_number", phoneNumber)

	if phoneNumber == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, phoneNumber, password)
	if err != nil {
		s.logger.Warn("Login failed", "phone_number", phoneNumber, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return session, nil
}

// Refresh exchanges the latest refresh token for a new pair. A refresh token
// that was already rotated away is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, auth.ErrMissingToken
	}

	claims, err := s.jwtManager.ValidateRefresh(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh rejected", "error", err)
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: unknown user", auth.ErrInvalidToken)
	}

	stored := []byte(user.RefreshTokenHash)
	presented := []byte(auth.HashToken(refreshToken))
	if subtle.ConstantTimeCompare(stored, presented) != 1 {
		s.logger.Warn("Refresh rejected, token was rotated", "user_id", user.ID)
		return nil, fmt.Errorf("%w: refresh token no longer current", auth.ErrInvalidToken)
	}

	return s.issue(ctx, user)
}

// CurrentUser returns the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ledger.ErrNotFound, userID)
	}
	return user, nil
}

// issue mints a token pair and stores the hash of its refresh token,
// invalidating any earlier one.
func (s *AuthService) issue(ctx context.Context, user *models.User) (*Session, error) {
	tokens, err := s.jwtManager.GeneratePair(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	user.RefreshTokenHash = auth.HashToken(tokens.RefreshToken)
	if err := s.users.UpdateUser(ctx, user); err != nil {
		s.logger.Error("Failed to store refresh token", "user_id", user.ID, "error", err)
		return nil, err
	}

	return &Session{User: user, Tokens: tokens}, nil
}
