package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/services"
	"github.com/sahilchouksey/online-courses-api/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if errs := h.validator.Validate(&req); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	ctx := c.UserContext()
	ip := c.IP()

	token, _, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Record failed attempt even if user not found
			_ = h.bruteForceProtection.RecordFailedAttempt(ctx, ip)
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.InternalServerError(c, "Failed to log in")
	}

	// Clear failed attempts on successful login
	_ = h.bruteForceProtection.RecordSuccessfulAttempt(ctx, ip)

	return c.Status(fiber.StatusOK).JSON(tokenResponse(token))
}
