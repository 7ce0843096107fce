package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/services"
	"github.com/sahilchouksey/online-courses-api/utils/middleware"
	"github.com/sahilchouksey/online-courses-api/utils/response"
)

// Me handles GET /me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	user, err := h.authService.Me(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, user)
}

// Refresh handles POST /refresh. The presented token is revoked and a new one issued.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	claims, claimsOK := middleware.GetClaims(c)
	if !ok || !claimsOK {
		return response.Unauthorized(c, "")
	}

	token, err := h.authService.Refresh(c.UserContext(), user, claims)
	if err != nil {
		return response.InternalServerError(c, "Failed to refresh token")
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse(token))
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	claims, claimsOK := middleware.GetClaims(c)
	if !ok || !claimsOK {
		return response.Unauthorized(c, "")
	}

	if err := h.authService.Logout(c.UserContext(), user, claims); err != nil {
		return response.InternalServerError(c, "Failed to log out")
	}

	return response.SuccessWithMessage(c, "Successfully logged out", nil)
}
