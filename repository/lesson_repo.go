package repository

import (
	"context"

	"github.com/sahilchouksey/online-courses-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LessonRepository defines the interface for interacting with lesson data
type LessonRepository interface {
	All(ctx context.Context) ([]model.Lesson, error)
	Paginate(ctx context.Context, page, perPage int) (Page[model.Lesson], error)
	Find(ctx context.Context, id uint) (*model.Lesson, error)
	FindBySlug(ctx context.Context, slug string) (*model.Lesson, error)
	ByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error)
	Free(ctx context.Context) ([]model.Lesson, error)
	// Create inserts the lesson under a lock on its course. With appendOrder
	// the lesson is placed after the course's live lessons.
	// Returns ErrNotFound when the course does not exist.
	Create(ctx context.Context, lesson *model.Lesson, appendOrder bool) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Lesson, bool, error)
	UpdateOrder(ctx context.Context, id uint, order int) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type lessonRepo struct {
	db *gorm.DB
}

// NewLessonRepo creates a new LessonRepository
func NewLessonRepo(db *gorm.DB) LessonRepository {
	return &lessonRepo{db: db}
}

func (r *lessonRepo) All(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.db.WithContext(ctx).Preload("Course").Order("id ASC").Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) Paginate(ctx context.Context, page, perPage int) (Page[model.Lesson], error) {
	scope := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
	return paginate[model.Lesson](ctx, r.db, scope, page, perPage, "Course")
}

func (r *lessonRepo) Find(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.db.WithContext(ctx).Preload("Course").First(&lesson, id).Error; err != nil {
		return nil, translate(err)
	}
	return &lesson, nil
}

func (r *lessonRepo) FindBySlug(ctx context.Context, slug string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("slug = ?", slug).
		Order("id ASC").
		First(&lesson).Error
	if err != nil {
		return nil, translate(err)
	}
	return &lesson, nil
}

func (r *lessonRepo) ByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	lessons := []model.Lesson{}
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Scopes(orderedLessons).
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) Free(ctx context.Context) ([]model.Lesson, error) {
	lessons := []model.Lesson{}
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("is_free = ?", true).
		Order("course_id ASC").
		Scopes(orderedLessons).
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) Create(ctx context.Context, lesson *model.Lesson, appendOrder bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the course row lock serialises concurrent appends to the same course
		var course model.Course
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&course, lesson.CourseID).Error
		if err != nil {
			return err
		}

		if appendOrder {
			var count int64
			err := tx.Model(&model.Lesson{}).
				Where("course_id = ?", lesson.CourseID).
				Count(&count).Error
			if err != nil {
				return err
			}
			lesson.Order = int(count) + 1
		}

		return tx.Omit(clause.Associations).Create(lesson).Error
	})
	return translate(err)
}

func (r *lessonRepo) Update(ctx context.Context, id uint, fields map[string]interface{}) (*model.Lesson, bool, error) {
	var lesson model.Lesson
	if err := r.db.WithContext(ctx).Select("id").First(&lesson, id).Error; err != nil {
		err = translate(err)
		if err == ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&lesson).Updates(fields).Error; err != nil {
			return nil, true, translate(err)
		}
	}

	updated, err := r.Find(ctx, id)
	if err != nil {
		return nil, true, err
	}
	return updated, true, nil
}

func (r *lessonRepo) UpdateOrder(ctx context.Context, id uint, order int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("id = ?", id).
		Update("sort_order", order)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// MySQL reports zero affected rows when the value is unchanged
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Lesson{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *lessonRepo) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Lesson{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
