package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/model"
)

func TestBuildAggregatesLiveCourses(t *testing.T) {
	store, err := database.StartSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	db := store.GetDB()

	category := model.Category{Name: "Backend", Slug: "backend"}
	db.Create(&category)
	users := []model.User{
		{Name: "A", Email: "a@example.com", PasswordHash: "x"},
		{Name: "B", Email: "b@example.com", PasswordHash: "x"},
	}
	db.Create(&users)

	popular := model.Course{CategoryID: category.ID, Title: "Go", Slug: "go", Price: 49.99, IsPublished: true}
	quiet := model.Course{CategoryID: category.ID, Title: "Algorithms", Slug: "algorithms"}
	gone := model.Course{CategoryID: category.ID, Title: "Removed", Slug: "removed"}
	db.Create(&popular)
	db.Create(&quiet)
	db.Create(&gone)
	db.Delete(&gone)

	lessons := []model.Lesson{
		{CourseID: popular.ID, Title: "One", Slug: "one", Order: 1},
		{CourseID: popular.ID, Title: "Two", Slug: "two", Order: 2},
		{CourseID: popular.ID, Title: "Old", Slug: "old", Order: 3},
	}
	db.Create(&lessons)
	db.Delete(&lessons[2])

	now := time.Now()
	db.Create(&[]model.Enrollment{
		{UserID: users[0].ID, CourseID: popular.ID, EnrolledAt: now},
		{UserID: users[1].ID, CourseID: popular.ID, EnrolledAt: now},
	})

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}

	generated := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	r, err := Build(context.Background(), sqlDB, generated)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if r.TotalCourses != 2 {
		t.Fatalf("TotalCourses = %d, want 2", r.TotalCourses)
	}
	first := r.Courses[0]
	if first.Slug != "go" || first.TotalStudents != 2 || first.TotalLessons != 2 || first.CategoryName != "Backend" || !first.IsPublished {
		t.Errorf("unexpected first row %+v", first)
	}
	if r.Courses[1].Slug != "algorithms" || r.Courses[1].TotalStudents != 0 {
		t.Errorf("unexpected second row %+v", r.Courses[1])
	}

	dir := filepath.Join(t.TempDir(), "reports")
	path, err := r.WriteFile(dir)
	if err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if filepath.Base(path) != "course_report_20240309_140507.json" {
		t.Errorf("file name = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.TotalCourses != 2 || len(decoded.Courses) != 2 {
		t.Errorf("decoded report = %+v", decoded)
	}

	var out bytes.Buffer
	r.PrintSummary(&out)
	if !strings.Contains(out.String(), "Total enrollments: 2") {
		t.Errorf("summary missing totals:\n%s", out.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Introduction to Distributed Systems", 12); got != "Introduct..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Go", 12); got != "Go" {
		t.Errorf("truncate = %q", got)
	}
}
