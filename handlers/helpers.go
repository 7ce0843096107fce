package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/repository"
	"github.com/sahilchouksey/online-courses-api/services"
	"github.com/sahilchouksey/online-courses-api/utils/response"
)

// ParseID reads a positive integer route parameter
func ParseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// PageParams reads ?page= and ?per_page=, falling back to defaults
func PageParams(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", response.DefaultPerPage)
	return response.NormalizePage(page, perPage)
}

// Paginated writes one page of results with its meta block
func Paginated[T any](c *fiber.Ctx, page repository.Page[T]) error {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return response.Paginated(c, items, response.CalculatePagination(page.Page, page.PerPage, page.Total))
}

// ServiceError maps service errors onto the response envelope
func ServiceError(c *fiber.Ctx, err error, fallback string) error {
	var fieldErr *services.FieldError

	switch {
	case errors.As(err, &fieldErr):
		return response.ValidationError(c, fieldErr.Field, fieldErr.Message)
	case errors.Is(err, services.ErrCourseNotFound):
		return response.NotFound(c, "Course not found")
	case errors.Is(err, services.ErrLessonNotFound):
		return response.NotFound(c, "Lesson not found")
	case errors.Is(err, services.ErrCategoryNotFound):
		return response.NotFound(c, "Category not found")
	case errors.Is(err, services.ErrEnrollmentNotFound):
		return response.NotFound(c, "Enrollment not found")
	case errors.Is(err, services.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, services.ErrAlreadyEnrolled):
		return response.Conflict(c, "You are already enrolled in this course")
	default:
		return response.InternalServerError(c, fallback)
	}
}
