package repository

import (
	"context"
	"time"

	"github.com/sahilchouksey/online-courses-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Enrollment listing filters
const (
	EnrollmentStatusAll        = ""
	EnrollmentStatusCompleted  = "completed"
	EnrollmentStatusInProgress = "in_progress"
)

// EnrollmentRepository defines the interface for interacting with enrollment data
type EnrollmentRepository interface {
	// Create returns ErrDuplicate when the user is already enrolled
	Create(ctx context.Context, enrollment *model.Enrollment) error
	Exists(ctx context.Context, userID, courseID uint) (bool, error)
	ByUser(ctx context.Context, userID uint, status string) ([]model.Enrollment, error)
	// UpdateProgress only touches enrollments owned by userID
	UpdateProgress(ctx context.Context, id, userID uint, progress int) (*model.Enrollment, bool, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	now func() time.Time
}

// NewEnrollmentRepo creates a new EnrollmentRepository
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db, now: time.Now}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = r.now()
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(enrollment).Error)
}

func (r *enrollmentRepo) Exists(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) ByUser(ctx context.Context, userID uint, status string) ([]model.Enrollment, error) {
	enrollments := []model.Enrollment{}

	// only enrollments whose course is still live
	query := r.db.WithContext(ctx).
		Joins("JOIN courses ON courses.id = enrollments.course_id AND courses.deleted_at IS NULL").
		Preload("Course").
		Where("enrollments.user_id = ?", userID)

	switch status {
	case EnrollmentStatusCompleted:
		query = query.Where("enrollments.completed_at IS NOT NULL")
	case EnrollmentStatusInProgress:
		query = query.Where("enrollments.completed_at IS NULL")
	}

	err := query.Order("enrollments.enrolled_at DESC").Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) UpdateProgress(ctx context.Context, id, userID uint, progress int) (*model.Enrollment, bool, error) {
	var enrollment model.Enrollment
	found := true

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&enrollment).Error
		if err != nil {
			return err
		}

		fields := map[string]interface{}{"progress": progress}
		if progress >= 100 && enrollment.CompletedAt == nil {
			completedAt := r.now()
			fields["completed_at"] = completedAt
			enrollment.CompletedAt = &completedAt
		}
		if err := tx.Model(&model.Enrollment{}).Where("id = ?", enrollment.ID).Updates(fields).Error; err != nil {
			return err
		}
		enrollment.Progress = progress
		return nil
	})
	if err != nil {
		err = translate(err)
		if err == ErrNotFound {
			found = false
			err = nil
		}
		return nil, found, err
	}

	return &enrollment, true, nil
}
