package lesson

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/online-courses-api/handlers"
	"github.com/sahilchouksey/online-courses-api/services"
	"github.com/sahilchouksey/online-courses-api/utils/response"
	"github.com/sahilchouksey/online-courses-api/utils/validation"
)

// LessonHandler handles lesson-related requests
type LessonHandler struct {
	validator     *validation.Validator
	lessonService *services.LessonService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService *services.LessonService) *LessonHandler {
	return &LessonHandler{
		validator:     validation.NewValidator(),
		lessonService: lessonService,
	}
}

// CreateLessonRequest represents the request body for creating a lesson
type CreateLessonRequest struct {
	CourseID        uint    `json:"course_id" validate:"required"`
	Title           string  `json:"title" validate:"required,max=255"`
	Slug            *string `json:"slug" validate:"omitempty,max=255"`
	Content         *string `json:"content"`
	VideoURL        *string `json:"video_url" validate:"omitempty,url"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=0"`
	Order           *int    `json:"order" validate:"omitempty,min=0"`
	IsFree          *bool   `json:"is_free"`
}

// UpdateLessonRequest represents the request body for updating a lesson
type UpdateLessonRequest struct {
	CourseID        *uint   `json:"course_id" validate:"omitempty,gt=0"`
	Title           *string `json:"title" validate:"omitempty,min=1,max=255"`
	Slug            *string `json:"slug" validate:"omitempty,max=255"`
	Content         *string `json:"content"`
	VideoURL        *string `json:"video_url" validate:"omitempty,url"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=0"`
	Order           *int    `json:"order" validate:"omitempty,min=0"`
	IsFree          *bool   `json:"is_free"`
}

// UpdateOrderRequest represents the body of PATCH /lessons/:id/order
type UpdateOrderRequest struct {
	Order *int `json:"order" validate:"required,min=0"`
}

// ListLessons handles GET /lessons
func (h *LessonHandler) ListLessons(c *fiber.Ctx) error {
	page, perPage := handlers.PageParams(c)

	lessons, err := h.lessonService.List(c.UserContext(), page, perPage)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch lessons")
	}
	return handlers.Paginated(c, lessons)
}

// ListFreeLessons handles GET /lessons/free
func (h *LessonHandler) ListFreeLessons(c *fiber.Ctx) error {
	lessons, err := h.lessonService.ListFree(c.UserContext())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch lessons")
	}
	return response.Success(c, lessons)
}

// ListCourseLessons handles GET /courses/:id/lessons
func (h *LessonHandler) ListCourseLessons(c *fiber.Ctx) error {
	courseID, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Course not found")
	}

	lessons, err := h.lessonService.ListByCourse(c.UserContext(), courseID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch lessons")
	}
	return response.Success(c, lessons)
}

// GetLesson handles GET /lessons/:id
func (h *LessonHandler) GetLesson(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Lesson not found")
	}

	lesson, err := h.lessonService.Get(c.UserContext(), id)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch lesson")
	}
	return response.Success(c, lesson)
}

// GetLessonBySlug handles GET /lessons/slug/:slug
func (h *LessonHandler) GetLessonBySlug(c *fiber.Ctx) error {
	lesson, err := h.lessonService.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch lesson")
	}
	return response.Success(c, lesson)
}

// CreateLesson handles POST /lessons
func (h *LessonHandler) CreateLesson(c *fiber.Ctx) error {
	var req CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Title = validation.SanitizeString(req.Title)
	req.Slug = validation.SanitizePtr(req.Slug)
	if errs := h.validator.Validate(&req); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	lesson, err := h.lessonService.Create(c.UserContext(), services.CreateLessonInput{
		CourseID:        req.CourseID,
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		DurationMinutes: req.DurationMinutes,
		Order:           req.Order,
		IsFree:          req.IsFree,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to create lesson")
	}

	return response.Created(c, "Lesson created successfully", lesson)
}

// UpdateLesson handles PUT /lessons/:id
func (h *LessonHandler) UpdateLesson(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Lesson not found")
	}

	var req UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Title = validation.SanitizePtr(req.Title)
	req.Slug = validation.SanitizePtr(req.Slug)
	if errs := h.validator.Validate(&req); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	lesson, err := h.lessonService.Update(c.UserContext(), id, services.UpdateLessonInput{
		CourseID:        req.CourseID,
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		DurationMinutes: req.DurationMinutes,
		Order:           req.Order,
		IsFree:          req.IsFree,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update lesson")
	}

	return response.SuccessWithMessage(c, "Lesson updated successfully", lesson)
}

// UpdateLessonOrder handles PATCH /lessons/:id/order
func (h *LessonHandler) UpdateLessonOrder(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Lesson not found")
	}

	var req UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := h.validator.Validate(&req); errs != nil {
		return response.ValidationErrors(c, errs)
	}

	lesson, err := h.lessonService.UpdateOrder(c.UserContext(), id, *req.Order)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update lesson order")
	}

	return response.SuccessWithMessage(c, "Lesson order updated successfully", lesson)
}

// DeleteLesson handles DELETE /lessons/:id
func (h *LessonHandler) DeleteLesson(c *fiber.Ctx) error {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return response.NotFound(c, "Lesson not found")
	}

	if err := h.lessonService.Delete(c.UserContext(), id); err != nil {
		return handlers.ServiceError(c, err, "Failed to delete lesson")
	}

	return response.SuccessWithMessage(c, "Lesson deleted successfully", nil)
}
