package category

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/handlers"
	"github.com/sahilchouksey/online-courses-api/repository"
	"github.com/sahilchouksey/online-courses-api/services"
	"github.com/sahilchouksey/online-courses-api/utils/response"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categories    repository.CategoryRepository
	courseService *services.CourseService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories repository.CategoryRepository, courseService *services.CourseService) *CategoryHandler {
	return &CategoryHandler{categories: categories, courseService: courseService}
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categories.All(c.UserContext())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch categories")
	}
	return response.Success(c, categories)
}

// ListCategoryCourses handles GET /categories/:id/courses
func (h *CategoryHandler) ListCategoryCourses(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Category not found")
	}

	courses, err := h.courseService.ListByCategory(c.UserContext(), id)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch courses")
	}
	return response.Success(c, courses)
}
