package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/repository"
	"github.com/sahilchouksey/online-courses-api/utils/auth"
	"github.com/sahilchouksey/online-courses-api/utils/response"
)

// Message returned for every token that fails verification
const invalidTokenMessage = "Token is invalid or expired"

// RevocationChecker reports whether a token id has been revoked
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	revocation RevocationChecker
	users      repository.UserRepository
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, revocation RevocationChecker, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		revocation: revocation,
		users:      users,
	}
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return response.Unauthorized(c, invalidTokenMessage)
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, invalidTokenMessage)
		}

		userID, err := claims.UserID()
		if err != nil {
			return response.Unauthorized(c, invalidTokenMessage)
		}

		// Check if token is revoked (blacklisted)
		isRevoked, err := m.revocation.IsTokenRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return response.InternalServerError(c, "Failed to check token status")
		}
		if isRevoked {
			return response.Unauthorized(c, invalidTokenMessage)
		}

		user, err := m.users.Find(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return response.NotFound(c, "User not found")
			}
			return response.InternalServerError(c, "Failed to load user")
		}

		// Store user info and full user object in context
		c.Locals("user_id", user.ID)
		c.Locals("user", user)
		c.Locals("claims", claims)
		c.Locals("token_jti", claims.ID)

		return c.Next()
	}
}

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	u, ok := c.Locals("user").(*model.User)
	return u, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals("claims").(*auth.Claims)
	return claims, ok
}

// GetTokenJTI extracts the token JTI from context
func GetTokenJTI(c *fiber.Ctx) (string, bool) {
	j, ok := c.Locals("token_jti").(string)
	return j, ok
}
