package services

import (
	"errors"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyEnrolled    = errors.New("user is already enrolled in this course")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// FieldError is a business rule violation tied to one input field
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	ErrSlugTaken       = &FieldError{Field: "slug", Message: "The slug has already been taken."}
	ErrSlugEmpty       = &FieldError{Field: "slug", Message: "The slug could not be derived from the title."}
	ErrInvalidCategory = &FieldError{Field: "category_id", Message: "The selected category_id is invalid."}
	ErrInvalidCourse   = &FieldError{Field: "course_id", Message: "The selected course_id is invalid."}
)
