package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/repository"
)

// CreateLessonInput holds validated fields for a new lesson
type CreateLessonInput struct {
	CourseID        uint
	Title           string
	Slug            *string
	Content         *string
	VideoURL        *string
	DurationMinutes *int
	Order           *int // nil appends after the existing lessons
	IsFree          *bool
}

// UpdateLessonInput holds the fields supplied for a partial update
type UpdateLessonInput struct {
	CourseID        *uint
	Title           *string
	Slug            *string
	Content         *string
	VideoURL        *string
	DurationMinutes *int
	Order           *int
	IsFree          *bool
}

// LessonService applies lesson policies on top of the repositories
type LessonService struct {
	lessons repository.LessonRepository
	courses repository.CourseRepository
}

// NewLessonService creates a new lesson service
func NewLessonService(lessons repository.LessonRepository, courses repository.CourseRepository) *LessonService {
	return &LessonService{lessons: lessons, courses: courses}
}

func (s *LessonService) List(ctx context.Context, page, perPage int) (repository.Page[model.Lesson], error) {
	return s.lessons.Paginate(ctx, page, perPage)
}

func (s *LessonService) Get(ctx context.Context, id uint) (*model.Lesson, error) {
	return s.found(s.lessons.Find(ctx, id))
}

func (s *LessonService) GetBySlug(ctx context.Context, lessonSlug string) (*model.Lesson, error) {
	return s.found(s.lessons.FindBySlug(ctx, lessonSlug))
}

// ListByCourse returns the lessons of a live course in display order
func (s *LessonService) ListByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	if _, err := s.courses.Find(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return s.lessons.ByCourse(ctx, courseID)
}

func (s *LessonService) ListFree(ctx context.Context) ([]model.Lesson, error) {
	return s.lessons.Free(ctx)
}

func (s *LessonService) Create(ctx context.Context, in CreateLessonInput) (*model.Lesson, error) {
	lesson := &model.Lesson{
		CourseID: in.CourseID,
		Title:    in.Title,
		Slug:     Slugify(in.Title),
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		lesson.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Content != nil {
		lesson.Content = *in.Content
	}
	if in.VideoURL != nil {
		lesson.VideoURL = *in.VideoURL
	}
	if in.DurationMinutes != nil {
		lesson.DurationMinutes = *in.DurationMinutes
	}
	if in.Order != nil {
		lesson.Order = *in.Order
	}
	if in.IsFree != nil {
		lesson.IsFree = *in.IsFree
	}

	if err := s.lessons.Create(ctx, lesson, in.Order == nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCourse
		}
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	return s.Get(ctx, lesson.ID)
}

func (s *LessonService) Update(ctx context.Context, id uint, in UpdateLessonInput) (*model.Lesson, error) {
	fields := map[string]interface{}{}

	if in.CourseID != nil {
		if _, err := s.courses.Find(ctx, *in.CourseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrInvalidCourse
			}
			return nil, err
		}
		fields["course_id"] = *in.CourseID
	}
	if in.Title != nil {
		fields["title"] = *in.Title
		fields["slug"] = Slugify(*in.Title)
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		fields["slug"] = strings.TrimSpace(*in.Slug)
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.VideoURL != nil {
		fields["video_url"] = *in.VideoURL
	}
	if in.DurationMinutes != nil {
		fields["duration_minutes"] = *in.DurationMinutes
	}
	if in.Order != nil {
		fields["sort_order"] = *in.Order
	}
	if in.IsFree != nil {
		fields["is_free"] = *in.IsFree
	}

	lesson, found, err := s.lessons.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}
	if !found {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

// UpdateOrder sets the lesson position as given; siblings are not shifted
func (s *LessonService) UpdateOrder(ctx context.Context, id uint, order int) (*model.Lesson, error) {
	ok, err := s.lessons.UpdateOrder(ctx, id, order)
	if err != nil {
		return nil, fmt.Errorf("failed to update lesson order: %w", err)
	}
	if !ok {
		return nil, ErrLessonNotFound
	}
	return s.Get(ctx, id)
}

func (s *LessonService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.lessons.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	if !deleted {
		return ErrLessonNotFound
	}
	return nil
}

func (s *LessonService) found(lesson *model.Lesson, err error) (*model.Lesson, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLessonNotFound
	}
	return lesson, err
}
