package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no live row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
)

// Page is one slice of a paginated listing
type Page[T any] struct {
	Items   []T
	Total   int64
	Page    int
	PerPage int
}

// paginate counts the rows matching scope, then loads one page of them.
// Preloads are only applied to the page query.
func paginate[T any](ctx context.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB, page, perPage int, preloads ...string) (Page[T], error) {
	out := Page[T]{Page: page, PerPage: perPage, Items: []T{}}

	if err := db.WithContext(ctx).Model(new(T)).Scopes(scope).Count(&out.Total).Error; err != nil {
		return out, err
	}
	if out.Total == 0 {
		return out, nil
	}

	query := db.WithContext(ctx).Scopes(scope)
	for _, p := range preloads {
		query = query.Preload(p)
	}

	err := query.Limit(perPage).Offset((page - 1) * perPage).Find(&out.Items).Error
	return out, err
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func orderedLessons(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}
