package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/repository"
	"github.com/sahilchouksey/online-courses-api/utils/auth"
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

func seedCourse(t *testing.T, db *gorm.DB, slug string) model.Course {
	t.Helper()
	category := model.Category{Name: "Cat " + slug, Slug: "cat-" + slug}
	if err := db.Create(&category).Error; err != nil {
		t.Fatal(err)
	}
	course := model.Course{CategoryID: category.ID, Title: slug, Slug: slug}
	if err := db.Create(&course).Error; err != nil {
		t.Fatal(err)
	}
	return course
}

func TestLessonCreateDefaultsOrderAndSlug(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewLessonService(repository.NewLessonRepo(db), repository.NewCourseRepo(db))
	course := seedCourse(t, db, "go")

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, CreateLessonInput{CourseID: course.ID, Title: "Setup"}); err != nil {
			t.Fatal(err)
		}
	}

	lesson, err := svc.Create(ctx, CreateLessonInput{CourseID: course.ID, Title: "Goroutines & Channels"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if lesson.Order != 4 {
		t.Errorf("Order = %d, want 4", lesson.Order)
	}
	if lesson.Slug != Slugify("Goroutines & Channels") {
		t.Errorf("Slug = %q", lesson.Slug)
	}
	if lesson.Course == nil || lesson.Course.ID != course.ID {
		t.Error("expected course to be loaded")
	}

	explicit, err := svc.Create(ctx, CreateLessonInput{CourseID: course.ID, Title: "Pinned", Order: ptr(1), IsFree: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if explicit.Order != 1 || !explicit.IsFree {
		t.Errorf("explicit lesson = %+v", explicit)
	}
}

func TestLessonCreateUnknownCourse(t *testing.T) {
	db := newTestDB(t)
	svc := NewLessonService(repository.NewLessonRepo(db), repository.NewCourseRepo(db))

	_, err := svc.Create(context.Background(), CreateLessonInput{CourseID: 77, Title: "x"})
	if !errors.Is(err, ErrInvalidCourse) {
		t.Errorf("err = %v, want ErrInvalidCourse", err)
	}
}

func TestLessonUpdateMissingAndReorder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewLessonService(repository.NewLessonRepo(db), repository.NewCourseRepo(db))
	course := seedCourse(t, db, "rust")

	if _, err := svc.Update(ctx, 123, UpdateLessonInput{Title: ptr("x")}); !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("Update missing: err = %v, want ErrLessonNotFound", err)
	}

	lesson, _ := svc.Create(ctx, CreateLessonInput{CourseID: course.ID, Title: "Ownership"})

	updated, err := svc.Update(ctx, lesson.ID, UpdateLessonInput{Title: ptr("Borrowing Rules")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Slug != "borrowing-rules" {
		t.Errorf("Slug = %q, want borrowing-rules", updated.Slug)
	}

	reordered, err := svc.UpdateOrder(ctx, lesson.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if reordered.Order != 10 {
		t.Errorf("Order = %d, want 10", reordered.Order)
	}

	if _, err := svc.UpdateOrder(ctx, 999, 1); !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("UpdateOrder missing: err = %v", err)
	}
	if err := svc.Delete(ctx, lesson.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, lesson.ID); !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("second Delete: err = %v", err)
	}
}

func TestEnrollRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewEnrollmentService(repository.NewEnrollmentRepo(db), repository.NewCourseRepo(db))
	course := seedCourse(t, db, "sql")

	user := model.User{Name: "Bruno", Email: "bruno@example.com", PasswordHash: "x"}
	db.Create(&user)

	enrollment, err := svc.Enroll(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
	if enrollment.Progress != 0 || enrollment.CompletedAt != nil {
		t.Errorf("new enrollment should be in progress at 0, got %+v", enrollment)
	}

	if _, err := svc.Enroll(ctx, user.ID, course.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("second Enroll: err = %v, want ErrAlreadyEnrolled", err)
	}
	if _, err := svc.Enroll(ctx, user.ID, 4040); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Enroll unknown course: err = %v", err)
	}

	done, err := svc.UpdateProgress(ctx, user.ID, enrollment.ID, 100)
	if err != nil {
		t.Fatal(err)
	}
	if done.CompletedAt == nil {
		t.Error("progress 100 should complete the enrollment")
	}
}

type recordingRevoker struct {
	jtis    []string
	reasons []string
}

func (r *recordingRevoker) RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time, reason string) error {
	r.jtis = append(r.jtis, jti)
	r.reasons = append(r.reasons, reason)
	return nil
}

func TestAuthLoginRefreshLogout(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatal(err)
	}
	user := model.User{Name: "Admin", Email: "admin@example.com", PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"})
	revoker := &recordingRevoker{}
	svc := NewAuthService(repository.NewUserRepo(db), jwtManager, revoker)

	if _, _, err := svc.Login(ctx, "admin@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}

	token, loggedIn, err := svc.Login(ctx, "admin@example.com", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token.TokenType != "bearer" || token.ExpiresIn != 3600 {
		t.Errorf("token = %+v", token)
	}

	claims, err := jwtManager.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if id, _ := claims.UserID(); id != user.ID {
		t.Errorf("subject = %d, want %d", id, user.ID)
	}

	me, err := svc.Me(ctx, loggedIn.ID)
	if err != nil || me.Email != "admin@example.com" {
		t.Errorf("Me = %v, %v", me, err)
	}
	if _, err := svc.Me(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Me missing: err = %v", err)
	}

	refreshed, err := svc.Refresh(ctx, loggedIn, claims)
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.JTI == token.JTI {
		t.Error("refresh must issue a new token id")
	}
	if len(revoker.jtis) != 1 || revoker.jtis[0] != token.JTI || revoker.reasons[0] != "token_refresh" {
		t.Errorf("refresh should revoke the old token, got %v", revoker.jtis)
	}

	if err := svc.Logout(ctx, loggedIn, claims); err != nil {
		t.Fatal(err)
	}
	if revoker.reasons[1] != "logout" {
		t.Errorf("reason = %q, want logout", revoker.reasons[1])
	}
}
