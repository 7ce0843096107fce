package repository

import (
	"context"

	"github.com/sahilchouksey/online-courses-api/model"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for interacting with category data
type CategoryRepository interface {
	All(ctx context.Context) ([]model.Category, error)
	Find(ctx context.Context, id uint) (*model.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo creates a new CategoryRepository
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) All(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Find(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
