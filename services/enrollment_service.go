package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/repository"
)

// EnrollmentService manages user enrollments
type EnrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollments repository.EnrollmentRepository, courses repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments, courses: courses}
}

// Enroll registers the user in a live course
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.courses.Find(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	exists, err := s.enrollments.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyEnrolled
	}

	enrollment := &model.Enrollment{UserID: userID, CourseID: courseID}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		// the unique index catches a concurrent enroll
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}

	course.Lessons = nil
	enrollment.Course = course
	return enrollment, nil
}

// ListForUser lists the user's enrollments; status is "", "completed" or "in_progress"
func (s *EnrollmentService) ListForUser(ctx context.Context, userID uint, status string) ([]model.Enrollment, error) {
	return s.enrollments.ByUser(ctx, userID, status)
}

// UpdateProgress records progress; reaching 100 marks the enrollment completed
func (s *EnrollmentService) UpdateProgress(ctx context.Context, userID, enrollmentID uint, progress int) (*model.Enrollment, error) {
	enrollment, found, err := s.enrollments.UpdateProgress(ctx, enrollmentID, userID, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	if !found {
		return nil, ErrEnrollmentNotFound
	}
	return enrollment, nil
}
