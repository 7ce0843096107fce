package enrollment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/handlers"
	"github.com/sahilchouksey/online-courses-api/repository"
	"github.com/sahilchouksey/online-courses-api/services"
	"github.com/sahilchouksey/online-courses-api/utils/middleware"
	"github.com/sahilchouksey/online-courses-api/utils/response"
	"github.com/sahilchouksey/online-courses-api/utils/validation"
)

// EnrollmentHandler handles the authenticated user's enrollments
type EnrollmentHandler struct {
	validator         *validation.Validator
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		validator:         validation.NewValidator(),
		enrollmentService: enrollmentService,
	}
}

// UpdateProgressRequest represents the body of PUT /enrollments/:id/progress
type UpdateProgressRequest struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

// Enroll handles POST /courses/:id/enroll
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	courseID, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Course not found")
	}

	enrollment, err := h.enrollmentService.Enroll(c.UserContext(), userID, courseID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to enroll")
	}

	return response.Created(c, "Enrolled successfully", enrollment)
}

// ListEnrollments handles GET /enrollments?status=completed|in_progress
func (h *EnrollmentHandler) ListEnrollments(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	status := c.Query("status")
	switch status {
	case repository.EnrollmentStatusAll, repository.EnrollmentStatusCompleted, repository.EnrollmentStatusInProgress:
	default:
		return response.ValidationError(c, "status", "The selected status is invalid.")
	}

	enrollments, err := h.enrollmentService.ListForUser(c.UserContext(), userID, status)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch enrollments")
	}
	return response.Success(c, enrollments)
}

// UpdateProgress handles PUT /enrollments/:id/progress
func (h *EnrollmentHandler) UpdateProgress(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Enrollment not found")
	}

	var req UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := h.validator.Validate(&req); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	enrollment, err := h.enrollmentService.UpdateProgress(c.UserContext(), userID, id, *req.Progress)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update progress")
	}

	return response.SuccessWithMessage(c, "Progress updated successfully", enrollment)
}
