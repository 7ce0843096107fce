package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/repository"
)

// CreateCourseInput holds validated fields for a new course
type CreateCourseInput struct {
	CategoryID    uint
	Title         string
	Slug          *string
	Description   *string
	DurationHours *int
	Price         *float64
	IsPublished   *bool
}

// UpdateCourseInput holds the fields supplied for a partial update
type UpdateCourseInput struct {
	CategoryID    *uint
	Title         *string
	Slug          *string
	Description   *string
	DurationHours *int
	Price         *float64
	IsPublished   *bool
}

// CourseService applies course policies on top of the repositories
type CourseService struct {
	courses    repository.CourseRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

// NewCourseService creates a new course service
func NewCourseService(courses repository.CourseRepository, categories repository.CategoryRepository) *CourseService {
	return &CourseService{
		courses:    courses,
		categories: categories,
		now:        time.Now,
	}
}

// Slugify derives a URL slug: lowercase, non-alphanumerics collapsed to single hyphens
func Slugify(title string) string {
	return slug.Make(title)
}

func (s *CourseService) List(ctx context.Context, page, perPage int) (repository.Page[model.Course], error) {
	return s.courses.Paginate(ctx, page, perPage)
}

func (s *CourseService) ListPublished(ctx context.Context, page, perPage int) (repository.Page[model.Course], error) {
	return s.courses.Published(ctx, page, perPage)
}

// ListByCategory returns the published courses of a category
func (s *CourseService) ListByCategory(ctx context.Context, categoryID uint) ([]model.Course, error) {
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCategoryNotFound
	}
	return s.courses.ByCategory(ctx, categoryID)
}

// Get returns a course with its category and ordered lessons
func (s *CourseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	return s.found(s.courses.Find(ctx, id))
}

func (s *CourseService) GetBySlug(ctx context.Context, courseSlug string) (*model.Course, error) {
	return s.found(s.courses.FindBySlug(ctx, courseSlug))
}

func (s *CourseService) GetWithEnrollments(ctx context.Context, id uint) (*model.Course, error) {
	return s.found(s.courses.WithEnrollments(ctx, id))
}

func (s *CourseService) Create(ctx context.Context, in CreateCourseInput) (*model.Course, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	courseSlug := Slugify(in.Title)
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		courseSlug = strings.TrimSpace(*in.Slug)
	}
	if err := s.checkSlug(ctx, courseSlug, 0); err != nil {
		return nil, err
	}

	course := &model.Course{
		CategoryID: in.CategoryID,
		Title:      in.Title,
		Slug:       courseSlug,
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.DurationHours != nil {
		course.DurationHours = *in.DurationHours
	}
	if in.Price != nil {
		course.Price = *in.Price
	}
	if in.IsPublished != nil && *in.IsPublished {
		now := s.now()
		course.IsPublished = true
		course.PublishedAt = &now
	}

	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	return s.Get(ctx, course.ID)
}

func (s *CourseService) Update(ctx context.Context, id uint, in UpdateCourseInput) (*model.Course, error) {
	fields := map[string]interface{}{}

	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *in.CategoryID
	}

	if in.Title != nil {
		fields["title"] = *in.Title
	}

	// a new title without an explicit slug renames the public identifier too
	var newSlug string
	switch {
	case in.Slug != nil && strings.TrimSpace(*in.Slug) != "":
		newSlug = strings.TrimSpace(*in.Slug)
	case in.Title != nil:
		newSlug = Slugify(*in.Title)
	}
	if newSlug != "" || in.Title != nil {
		if err := s.checkSlug(ctx, newSlug, id); err != nil {
			return nil, err
		}
		fields["slug"] = newSlug
	}

	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.DurationHours != nil {
		fields["duration_hours"] = *in.DurationHours
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.IsPublished != nil {
		fields["is_published"] = *in.IsPublished
	}

	course, found, err := s.courses.Update(ctx, id, repository.CourseChanges{
		Fields:  fields,
		Publish: in.IsPublished != nil && *in.IsPublished,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	if !found {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

// Delete soft deletes the course together with its lessons
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.courses.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if !deleted {
		return ErrCourseNotFound
	}
	return nil
}

func (s *CourseService) checkCategory(ctx context.Context, categoryID uint) error {
	exists, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrInvalidCategory
	}
	return nil
}

func (s *CourseService) checkSlug(ctx context.Context, courseSlug string, exceptID uint) error {
	if courseSlug == "" {
		return ErrSlugEmpty
	}
	taken, err := s.courses.SlugTaken(ctx, courseSlug, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}
	return nil
}

func (s *CourseService) found(course *model.Course, err error) (*model.Course, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCourseNotFound
	}
	return course, err
}
