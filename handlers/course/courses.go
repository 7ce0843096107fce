package course

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/handlers"
	"github.com/sahilchouksey/online-courses-api/services"
	"github.com/sahilchouksey/online-courses-api/utils/response"
	"github.com/sahilchouksey/online-courses-api/utils/validation"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	validator     *validation.Validator
	courseService *services.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *services.CourseService) *CourseHandler {
	return &CourseHandler{
		validator:     validation.NewValidator(),
		courseService: courseService,
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	CategoryID    uint     `json:"category_id" validate:"required"`
	Title         string   `json:"title" validate:"required,max=255"`
	Slug          *string  `json:"slug" validate:"omitempty,max=255"`
	Description   *string  `json:"description"`
	DurationHours *int     `json:"duration_hours" validate:"omitempty,min=0"`
	Price         *float64 `json:"price" validate:"omitempty,min=0"`
	IsPublished   *bool    `json:"is_published"`
}

// UpdateCourseRequest represents the request body for updating a course.
// Only the fields present in the body are changed.
type UpdateCourseRequest struct {
	CategoryID    *uint    `json:"category_id" validate:"omitempty,gt=0"`
	Title         *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Slug          *string  `json:"slug" validate:"omitempty,max=255"`
	Description   *string  `json:"description"`
	DurationHours *int     `json:"duration_hours" validate:"omitempty,min=0"`
	Price         *float64 `json:"price" validate:"omitempty,min=0"`
	IsPublished   *bool    `json:"is_published"`
}

// ListCourses handles GET /courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	page, perPage := handlers.PageParams(c)

	courses, err := h.courseService.List(c.UserContext(), page, perPage)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}
	return handlers.Paginated(c, courses)
}

// ListPublishedCourses handles GET /courses/published
func (h *CourseHandler) ListPublishedCourses(c *fiber.Ctx) error {
	page, perPage := handlers.PageParams(c)

	courses, err := h.courseService.ListPublished(c.UserContext(), page, perPage)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}
	return handlers.Paginated(c, courses)
}

// GetCourse handles GET /courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Course not found")
	}

	course, err := h.courseService.Get(c.UserContext(), id)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch course")
	}
	return response.Success(c, course)
}

// GetCourseBySlug handles GET /courses/slug/:slug
func (h *CourseHandler) GetCourseBySlug(c *fiber.Ctx) error {
	course, err := h.courseService.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch course")
	}
	return response.Success(c, course)
}

// GetCourseEnrollments handles GET /courses/:id/enrollments
func (h *CourseHandler) GetCourseEnrollments(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Course not found")
	}

	course, err := h.courseService.GetWithEnrollments(c.UserContext(), id)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch course")
	}
	return response.Success(c, course)
}

// CreateCourse handles POST /courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Title = validation.SanitizeString(req.Title)
	req.Slug = validation.SanitizePtr(req.Slug)
	if errs := h.validator.Validate(&req); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	course, err := h.courseService.Create(c.UserContext(), services.CreateCourseInput{
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Slug:          req.Slug,
		Description:   req.Description,
		DurationHours: req.DurationHours,
		Price:         req.Price,
		IsPublished:   req.IsPublished,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to create course")
	}

	return response.Created(c, "Course created successfully", course)
}

// UpdateCourse handles PUT /courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Course not found")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Title = validation.SanitizePtr(req.Title)
	req.Slug = validation.SanitizePtr(req.Slug)
	if errs := h.validator.Validate(&req); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	course, err := h.courseService.Update(c.UserContext(), id, services.UpdateCourseInput{
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		Slug:          req.Slug,
		Description:   req.Description,
		DurationHours: req.DurationHours,
		Price:         req.Price,
		IsPublished:   req.IsPublished,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update course")
	}

	return response.SuccessWithMessage(c, "Course updated successfully", course)
}

// DeleteCourse handles DELETE /courses/:id
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Course not found")
	}

	if err := h.courseService.Delete(c.UserContext(), id); err != nil {
		return handlers.ServiceError(c, err, "Failed to delete course")
	}

	return response.SuccessWithMessage(c, "Course deleted successfully", nil)
}
