package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/model"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	store, err := database.StartSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store.GetDB()
}

func createCategory(t *testing.T, db *gorm.DB) model.Category {
	t.Helper()
	category := model.Category{Name: "Web Development", Slug: fmt.Sprintf("web-development-%d", time.Now().UnixNano())}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

func createCourse(t *testing.T, repo CourseRepository, categoryID uint, slug string) *model.Course {
	t.Helper()
	course := &model.Course{CategoryID: categoryID, Title: slug, Slug: slug}
	if err := repo.Create(context.Background(), course); err != nil {
		t.Fatalf("failed to create course %s: %v", slug, err)
	}
	return course
}

func TestCourseRepoPaginate(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepo(db)
	category := createCategory(t, db)

	for i := 1; i <= 20; i++ {
		createCourse(t, repo, category.ID, fmt.Sprintf("course-%02d", i))
	}

	page, err := repo.Paginate(context.Background(), 2, 15)
	if err != nil {
		t.Fatalf("Paginate returned error: %v", err)
	}
	if page.Total != 20 {
		t.Errorf("Total = %d, want 20", page.Total)
	}
	if len(page.Items) != 5 {
		t.Fatalf("len(Items) = %d, want 5", len(page.Items))
	}
	if page.Items[0].Slug != "course-16" {
		t.Errorf("first item on page 2 = %s, want course-16", page.Items[0].Slug)
	}
	if page.Items[0].Category == nil || page.Items[0].Category.ID != category.ID {
		t.Error("expected category to be preloaded")
	}
}

func TestCourseRepoDeleteIsSoftAndCascadesToLessons(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	courses := NewCourseRepo(db)
	lessons := NewLessonRepo(db)
	category := createCategory(t, db)
	course := createCourse(t, courses, category.ID, "intro-to-go")

	for i := 0; i < 2; i++ {
		if err := lessons.Create(ctx, &model.Lesson{CourseID: course.ID, Title: "Lesson"}, true); err != nil {
			t.Fatalf("failed to create lesson: %v", err)
		}
	}

	deleted, err := courses.Delete(ctx, course.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete = %v, %v; want true, nil", deleted, err)
	}

	if _, err := courses.Find(ctx, course.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find after delete: err = %v, want ErrNotFound", err)
	}

	var raw model.Course
	if err := db.Unscoped().First(&raw, course.ID).Error; err != nil {
		t.Fatalf("row should still exist: %v", err)
	}
	if !raw.DeletedAt.Valid {
		t.Error("deleted_at should be set")
	}

	remaining, err := lessons.ByCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("ByCourse returned error: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected lessons to be soft deleted, got %d", len(remaining))
	}

	deleted, err = courses.Delete(ctx, course.ID)
	if err != nil || deleted {
		t.Errorf("second Delete = %v, %v; want false, nil", deleted, err)
	}
}

func TestCourseRepoUpdatePublishStampsOnce(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCourseRepo(db).(*courseRepo)
	category := createCategory(t, db)
	course := createCourse(t, repo, category.ID, "publish-me")

	first := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }

	updated, found, err := repo.Update(ctx, course.ID, CourseChanges{
		Fields:  map[string]interface{}{"is_published": true},
		Publish: true,
	})
	if err != nil || !found {
		t.Fatalf("Update = %v, %v", found, err)
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(first) {
		t.Fatalf("PublishedAt = %v, want %v", updated.PublishedAt, first)
	}

	repo.now = func() time.Time { return first.Add(48 * time.Hour) }
	updated, _, err = repo.Update(ctx, course.ID, CourseChanges{
		Fields:  map[string]interface{}{"title": "Renamed"},
		Publish: true,
	})
	if err != nil {
		t.Fatalf("second Update returned error: %v", err)
	}
	if !updated.PublishedAt.Equal(first) {
		t.Errorf("PublishedAt changed to %v", updated.PublishedAt)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", updated.Title)
	}
}

func TestCourseRepoUpdateMissing(t *testing.T) {
	repo := NewCourseRepo(newTestDB(t))

	_, found, err := repo.Update(context.Background(), 999, CourseChanges{Fields: map[string]interface{}{"title": "x"}})
	if err != nil || found {
		t.Errorf("Update = %v, %v; want false, nil", found, err)
	}
}

func TestCourseRepoSlugTakenIncludesDeleted(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCourseRepo(db)
	category := createCategory(t, db)
	course := createCourse(t, repo, category.ID, "intro-to-go")

	if _, err := repo.Delete(ctx, course.ID); err != nil {
		t.Fatal(err)
	}

	taken, err := repo.SlugTaken(ctx, "intro-to-go", 0)
	if err != nil || !taken {
		t.Errorf("SlugTaken = %v, %v; want true", taken, err)
	}
	taken, _ = repo.SlugTaken(ctx, "intro-to-go", course.ID)
	if taken {
		t.Error("slug should not clash with the course itself")
	}

	err = repo.Create(ctx, &model.Course{CategoryID: category.ID, Title: "Again", Slug: "intro-to-go"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Create with taken slug: err = %v, want ErrDuplicate", err)
	}
}

func TestCourseRepoPublishedAndByCategory(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCourseRepo(db)
	category := createCategory(t, db)

	now := time.Now()
	published := &model.Course{CategoryID: category.ID, Title: "Live", Slug: "live", IsPublished: true, PublishedAt: &now}
	if err := repo.Create(ctx, published); err != nil {
		t.Fatal(err)
	}
	createCourse(t, repo, category.ID, "draft")

	page, err := repo.Published(ctx, 1, 15)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].Slug != "live" {
		t.Errorf("Published = %+v", page)
	}

	byCategory, err := repo.ByCategory(ctx, category.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(byCategory) != 1 || byCategory[0].Slug != "live" {
		t.Errorf("ByCategory returned %d courses", len(byCategory))
	}
}

func TestLessonRepoCreateAppendsOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	courses := NewCourseRepo(db)
	lessons := NewLessonRepo(db)
	course := createCourse(t, courses, createCategory(t, db).ID, "ordered")

	for i := 0; i < 3; i++ {
		if err := lessons.Create(ctx, &model.Lesson{CourseID: course.ID, Title: "L"}, true); err != nil {
			t.Fatal(err)
		}
	}

	fourth := &model.Lesson{CourseID: course.ID, Title: "Fourth"}
	if err := lessons.Create(ctx, fourth, true); err != nil {
		t.Fatal(err)
	}
	if fourth.Order != 4 {
		t.Errorf("Order = %d, want 4", fourth.Order)
	}

	explicit := &model.Lesson{CourseID: course.ID, Title: "Explicit", Order: 0}
	if err := lessons.Create(ctx, explicit, false); err != nil {
		t.Fatal(err)
	}
	if explicit.Order != 0 {
		t.Errorf("explicit Order = %d, want 0", explicit.Order)
	}

	list, err := lessons.ByCourse(ctx, course.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 5 || list[0].Title != "Explicit" || list[4].Title != "Fourth" {
		t.Errorf("ByCourse order unexpected: %+v", list)
	}
}

func TestLessonRepoCreateRequiresLiveCourse(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	courses := NewCourseRepo(db)
	lessons := NewLessonRepo(db)

	err := lessons.Create(ctx, &model.Lesson{CourseID: 42, Title: "Orphan"}, true)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	course := createCourse(t, courses, createCategory(t, db).ID, "gone")
	courses.Delete(ctx, course.ID)

	err = lessons.Create(ctx, &model.Lesson{CourseID: course.ID, Title: "Late"}, true)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for deleted course", err)
	}
}

func TestLessonRepoUpdateOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	lessons := NewLessonRepo(db)
	course := createCourse(t, NewCourseRepo(db), createCategory(t, db).ID, "c")

	lesson := &model.Lesson{CourseID: course.ID, Title: "L", IsFree: true}
	if err := lessons.Create(ctx, lesson, true); err != nil {
		t.Fatal(err)
	}

	ok, err := lessons.UpdateOrder(ctx, lesson.ID, 7)
	if err != nil || !ok {
		t.Fatalf("UpdateOrder = %v, %v", ok, err)
	}
	found, _ := lessons.Find(ctx, lesson.ID)
	if found.Order != 7 {
		t.Errorf("Order = %d, want 7", found.Order)
	}

	free, _ := lessons.Free(ctx)
	if len(free) != 1 {
		t.Errorf("Free returned %d lessons, want 1", len(free))
	}

	if ok, _ := lessons.UpdateOrder(ctx, 999, 1); ok {
		t.Error("UpdateOrder on missing lesson should report false")
	}
	if ok, _ := lessons.Delete(ctx, lesson.ID); !ok {
		t.Error("Delete should report true")
	}
	if ok, _ := lessons.Delete(ctx, lesson.ID); ok {
		t.Error("second Delete should report false")
	}
	if _, found, _ := lessons.Update(ctx, lesson.ID, map[string]interface{}{"title": "x"}); found {
		t.Error("Update of deleted lesson should report not found")
	}
}

func TestEnrollmentRepo(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	enrollments := NewEnrollmentRepo(db)
	course := createCourse(t, NewCourseRepo(db), createCategory(t, db).ID, "enroll")

	user := model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	first := &model.Enrollment{UserID: user.ID, CourseID: course.ID}
	if err := enrollments.Create(ctx, first); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if first.EnrolledAt.IsZero() {
		t.Error("EnrolledAt should default to now")
	}

	err := enrollments.Create(ctx, &model.Enrollment{UserID: user.ID, CourseID: course.ID})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate Create: err = %v, want ErrDuplicate", err)
	}

	inProgress, _ := enrollments.ByUser(ctx, user.ID, EnrollmentStatusInProgress)
	if len(inProgress) != 1 {
		t.Fatalf("in progress = %d, want 1", len(inProgress))
	}

	updated, found, err := enrollments.UpdateProgress(ctx, first.ID, user.ID, 100)
	if err != nil || !found {
		t.Fatalf("UpdateProgress = %v, %v", found, err)
	}
	if !updated.IsCompleted() || updated.Progress != 100 {
		t.Errorf("expected completed enrollment, got %+v", updated)
	}

	completed, _ := enrollments.ByUser(ctx, user.ID, EnrollmentStatusCompleted)
	if len(completed) != 1 {
		t.Errorf("completed = %d, want 1", len(completed))
	}

	if _, found, _ := enrollments.UpdateProgress(ctx, first.ID, user.ID+1, 50); found {
		t.Error("another user must not update the enrollment")
	}
}
