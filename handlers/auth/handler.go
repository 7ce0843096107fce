package auth

import (
	"github.com/sahilchouksey/online-courses-api/services"
	"github.com/sahilchouksey/online-courses-api/utils/middleware"
	"github.com/sahilchouksey/online-courses-api/utils/validation"
)

// AuthHandler handles login, logout, token refresh and the current user
type AuthHandler struct {
	authService          *services.AuthService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler. bruteForce may be nil.
func NewAuthHandler(authService *services.AuthService, bruteForce *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		bruteForceProtection: bruteForce,
		validator:            validation.NewValidator(),
	}
}

// TokenResponse is the body returned by login and refresh
type TokenResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // in seconds
}

func tokenResponse(token *services.IssuedToken) TokenResponse {
	return TokenResponse{
		Success:     true,
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	}
}
