package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/repository"
)

// memCourseRepo is an in-memory CourseRepository
type memCourseRepo struct {
	rows   map[uint]*model.Course
	nextID uint
	now    func() time.Time
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{rows: map[uint]*model.Course{}, now: time.Now}
}

func (r *memCourseRepo) live(id uint) (*model.Course, bool) {
	c, ok := r.rows[id]
	if !ok || c.DeletedAt.Valid {
		return nil, false
	}
	return c, true
}

func (r *memCourseRepo) All(ctx context.Context) ([]model.Course, error) {
	var out []model.Course
	for id := uint(1); id <= r.nextID; id++ {
		if c, ok := r.live(id); ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCourseRepo) Paginate(ctx context.Context, page, perPage int) (repository.Page[model.Course], error) {
	all, _ := r.All(ctx)
	return repository.Page[model.Course]{Items: all, Total: int64(len(all)), Page: page, PerPage: perPage}, nil
}

func (r *memCourseRepo) Find(ctx context.Context, id uint) (*model.Course, error) {
	c, ok := r.live(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCourseRepo) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	for id := range r.rows {
		if c, ok := r.live(id); ok && c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memCourseRepo) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	for id, c := range r.rows {
		if id != exceptID && c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCourseRepo) Published(ctx context.Context, page, perPage int) (repository.Page[model.Course], error) {
	return r.Paginate(ctx, page, perPage)
}

func (r *memCourseRepo) ByCategory(ctx context.Context, categoryID uint) ([]model.Course, error) {
	return nil, nil
}

func (r *memCourseRepo) WithEnrollments(ctx context.Context, id uint) (*model.Course, error) {
	return r.Find(ctx, id)
}

func (r *memCourseRepo) Create(ctx context.Context, course *model.Course) error {
	if taken, _ := r.SlugTaken(ctx, course.Slug, 0); taken {
		return repository.ErrDuplicate
	}
	r.nextID++
	course.ID = r.nextID
	cp := *course
	r.rows[course.ID] = &cp
	return nil
}

func (r *memCourseRepo) Update(ctx context.Context, id uint, changes repository.CourseChanges) (*model.Course, bool, error) {
	c, ok := r.live(id)
	if !ok {
		return nil, false, nil
	}
	for k, v := range changes.Fields {
		switch k {
		case "title":
			c.Title = v.(string)
		case "slug":
			c.Slug = v.(string)
		case "is_published":
			c.IsPublished = v.(bool)
		case "price":
			c.Price = v.(float64)
		}
	}
	if changes.Publish && c.PublishedAt == nil {
		now := r.now()
		c.PublishedAt = &now
	}
	cp := *c
	return &cp, true, nil
}

func (r *memCourseRepo) Delete(ctx context.Context, id uint) (bool, error) {
	c, ok := r.live(id)
	if !ok {
		return false, nil
	}
	c.DeletedAt.Valid = true
	c.DeletedAt.Time = time.Now()
	return true, nil
}

type memCategoryRepo struct{ ids map[uint]bool }

func (r memCategoryRepo) All(ctx context.Context) ([]model.Category, error) { return nil, nil }

func (r memCategoryRepo) Find(ctx context.Context, id uint) (*model.Category, error) {
	if !r.ids[id] {
		return nil, repository.ErrNotFound
	}
	return &model.Category{ID: id}, nil
}

func (r memCategoryRepo) Exists(ctx context.Context, id uint) (bool, error) { return r.ids[id], nil }

func newCourseService() (*CourseService, *memCourseRepo) {
	repo := newMemCourseRepo()
	svc := NewCourseService(repo, memCategoryRepo{ids: map[uint]bool{1: true}})
	return svc, repo
}

func ptr[T any](v T) *T { return &v }

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Intro to Go":            "intro-to-go",
		"  Hello,   World!  ":    "hello-world",
		"Go -- Concurrency 101 ": "go-concurrency-101",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCourseCreateDerivesSlugAndRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCourseService()

	course, err := svc.Create(ctx, CreateCourseInput{CategoryID: 1, Title: "Intro to Go"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if course.Slug != "intro-to-go" {
		t.Errorf("Slug = %q, want intro-to-go", course.Slug)
	}
	if course.PublishedAt != nil {
		t.Error("unpublished course must not have published_at")
	}

	_, err = svc.Create(ctx, CreateCourseInput{CategoryID: 1, Title: "Intro to Go"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Errorf("second Create: err = %v, want ErrSlugTaken", err)
	}

	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "slug" {
		t.Errorf("expected a field error on slug, got %v", err)
	}
}

func TestCourseCreateRejectsUnknownCategory(t *testing.T) {
	svc, _ := newCourseService()

	_, err := svc.Create(context.Background(), CreateCourseInput{CategoryID: 99, Title: "x"})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestCourseCreatePublishedStampsPublishedAt(t *testing.T) {
	svc, _ := newCourseService()
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	course, err := svc.Create(context.Background(), CreateCourseInput{CategoryID: 1, Title: "Live", IsPublished: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if course.PublishedAt == nil || !course.PublishedAt.Equal(fixed) {
		t.Errorf("PublishedAt = %v, want %v", course.PublishedAt, fixed)
	}
}

func TestCourseUpdatePublishIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo := newCourseService()
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }

	course, _ := svc.Create(ctx, CreateCourseInput{CategoryID: 1, Title: "Draft"})

	updated, err := svc.Update(ctx, course.ID, UpdateCourseInput{IsPublished: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.PublishedAt.Equal(first) {
		t.Fatalf("PublishedAt = %v, want %v", updated.PublishedAt, first)
	}

	repo.now = func() time.Time { return first.AddDate(0, 1, 0) }
	updated, err = svc.Update(ctx, course.ID, UpdateCourseInput{IsPublished: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.PublishedAt.Equal(first) {
		t.Errorf("re-publishing moved published_at to %v", updated.PublishedAt)
	}
}

func TestCourseUpdateTitleRegeneratesSlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCourseService()
	course, _ := svc.Create(ctx, CreateCourseInput{CategoryID: 1, Title: "Old Name"})

	updated, err := svc.Update(ctx, course.ID, UpdateCourseInput{Title: ptr("New Name")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Slug != "new-name" {
		t.Errorf("Slug = %q, want new-name", updated.Slug)
	}

	updated, err = svc.Update(ctx, course.ID, UpdateCourseInput{Title: ptr("Other"), Slug: ptr("kept-slug")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Slug != "kept-slug" {
		t.Errorf("explicit slug ignored: %q", updated.Slug)
	}

	// keeping its own slug is not a clash
	if _, err := svc.Update(ctx, course.ID, UpdateCourseInput{Slug: ptr("kept-slug")}); err != nil {
		t.Errorf("self slug update failed: %v", err)
	}
}

func TestCourseUpdateAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCourseService()

	if _, err := svc.Update(ctx, 404, UpdateCourseInput{Price: ptr(10.0)}); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Update missing: err = %v, want ErrCourseNotFound", err)
	}

	course, _ := svc.Create(ctx, CreateCourseInput{CategoryID: 1, Title: "Temp"})
	if err := svc.Delete(ctx, course.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("second Delete: err = %v, want ErrCourseNotFound", err)
	}
	if _, err := svc.Get(ctx, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Get deleted: err = %v, want ErrCourseNotFound", err)
	}
}
