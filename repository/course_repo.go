package repository

import (
	"context"
	"time"

	"github.com/sahilchouksey/online-courses-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CourseChanges is a partial update of a course
type CourseChanges struct {
	// Fields maps column names to new values
	Fields map[string]interface{}
	// Publish stamps published_at unless it is already set
	Publish bool
}

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	All(ctx context.Context) ([]model.Course, error)
	Paginate(ctx context.Context, page, perPage int) (Page[model.Course], error)
	// Find returns a live course with its category and ordered lessons
	Find(ctx context.Context, id uint) (*model.Course, error)
	FindBySlug(ctx context.Context, slug string) (*model.Course, error)
	// SlugTaken checks every row, deleted or not, since the unique index does
	SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error)
	Published(ctx context.Context, page, perPage int) (Page[model.Course], error)
	ByCategory(ctx context.Context, categoryID uint) ([]model.Course, error)
	WithEnrollments(ctx context.Context, id uint) (*model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, id uint, changes CourseChanges) (*model.Course, bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type courseRepo struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db, now: time.Now}
}

func (r *courseRepo) All(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).Preload("Category").Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Paginate(ctx context.Context, page, perPage int) (Page[model.Course], error) {
	scope := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
	return paginate[model.Course](ctx, r.db, scope, page, perPage, "Category")
}

func (r *courseRepo) Find(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Lessons", orderedLessons).
		First(&course, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *courseRepo) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Lessons", orderedLessons).
		Where("slug = ?", slug).
		First(&course).Error
	if err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *courseRepo) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&model.Course{}).Where("slug = ?", slug)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepo) Published(ctx context.Context, page, perPage int) (Page[model.Course], error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return db.Where("is_published = ?", true).Order("published_at DESC").Order("id DESC")
	}
	return paginate[model.Course](ctx, r.db, scope, page, perPage, "Category")
}

func (r *courseRepo) ByCategory(ctx context.Context, categoryID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ? AND is_published = ?", categoryID, true).
		Order("id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) WithEnrollments(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB { return db.Order("enrolled_at ASC") }).
		Preload("Enrollments.User").
		First(&course, id).Error
	if err != nil {
		return nil, translate(err)
	}
	count := len(course.Enrollments)
	course.StudentCount = &count
	return &course, nil
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(course).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *courseRepo) Update(ctx context.Context, id uint, changes CourseChanges) (*model.Course, bool, error) {
	found := true

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Course
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&current, id).Error
		if err != nil {
			return err
		}

		if len(changes.Fields) > 0 {
			if err := tx.Model(&current).Updates(changes.Fields).Error; err != nil {
				return err
			}
		}

		if changes.Publish {
			// compare-and-set keeps the first publish date
			err := tx.Model(&model.Course{}).
				Where("id = ? AND published_at IS NULL", id).
				Update("published_at", r.now()).Error
			if err != nil {
				return err
			}
		}
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

	course, err := r.Find(ctx, id)
	if err != nil {
		return nil, true, err
	}
	return course, true, nil
}

func (r *courseRepo) Delete(ctx context.Context, id uint) (bool, error) {
	deleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Course{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true

		return tx.Where("course_id = ?", id).Delete(&model.Lesson{}).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
