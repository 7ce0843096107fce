package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/repository"
	"github.com/sahilchouksey/online-courses-api/utils/auth"
)

// TokenRevoker persists revoked token IDs
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time, reason string) error
}

// IssuedToken is what login and refresh hand back to the client
type IssuedToken struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int // seconds
	JTI         string
}

// AuthService issues and revokes access tokens
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.JWTManager
	blacklist TokenRevoker
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, tokens *auth.JWTManager, blacklist TokenRevoker) *AuthService {
	return &AuthService{users: users, tokens: tokens, blacklist: blacklist}
}

// Login checks credentials. Unknown email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*IssuedToken, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

// Me loads the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Refresh issues a new token and revokes the presented one
func (s *AuthService) Refresh(ctx context.Context, user *model.User, claims *auth.Claims) (*IssuedToken, error) {
	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	if err := s.blacklist.RevokeToken(ctx, claims.ID, user.ID, claims.ExpiresAtTime(), "token_refresh"); err != nil {
		return nil, fmt.Errorf("failed to revoke previous token: %w", err)
	}
	return token, nil
}

// Logout revokes the presented token until it expires
func (s *AuthService) Logout(ctx context.Context, user *model.User, claims *auth.Claims) error {
	if err := s.blacklist.RevokeToken(ctx, claims.ID, user.ID, claims.ExpiresAtTime(), "logout"); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) issue(user *model.User) (*IssuedToken, error) {
	accessToken, jti, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &IssuedToken{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.Expiry().Seconds()),
		JTI:         jti,
	}, nil
}
