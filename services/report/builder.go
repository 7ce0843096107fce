package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FilePrefix names every report file written by WriteFile
const FilePrefix = "course_report_"

// Live courses with their category, distinct students and live lessons.
const courseAggregateQuery = `
SELECT c.id, c.title, c.slug, c.price, c.duration_hours, c.is_published,
       cat.name AS category_name,
       COUNT(DISTINCT e.id) AS total_students,
       COUNT(DISTINCT l.id) AS total_lessons
FROM courses c
LEFT JOIN categories cat ON cat.id = c.category_id
LEFT JOIN enrollments e ON e.course_id = c.id
LEFT JOIN lessons l ON l.course_id = c.id AND l.deleted_at IS NULL
WHERE c.deleted_at IS NULL
GROUP BY c.id, c.title, c.slug, c.price, c.duration_hours, c.is_published, cat.name
ORDER BY total_students DESC, c.title ASC`

// CourseRow is one line of the enrollment report
type CourseRow struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Price         float64 `json:"price"`
	DurationHours int     `json:"duration_hours"`
	IsPublished   bool    `json:"is_published"`
	CategoryName  string  `json:"category_name"`
	TotalStudents int64   `json:"total_students"`
	TotalLessons  int64   `json:"total_lessons"`
}

// Report is the document written to disk
type Report struct {
	GeneratedAt  time.Time   `json:"generated_at"`
	TotalCourses int         `json:"total_courses"`
	Courses      []CourseRow `json:"courses"`
}

// Build runs the aggregate query
func Build(ctx context.Context, db *sql.DB, now time.Time) (*Report, error) {
	rows, err := db.QueryContext(ctx, courseAggregateQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := make([]CourseRow, 0)
	for rows.Next() {
		var (
			row      CourseRow
			category sql.NullString
		)
		if err := rows.Scan(&row.ID, &row.Title, &row.Slug, &row.Price, &row.DurationHours,
			&row.IsPublished, &category, &row.TotalStudents, &row.TotalLessons); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		row.CategoryName = category.String
		courses = append(courses, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt:  now,
		TotalCourses: len(courses),
		Courses:      courses,
	}, nil
}

// FileName returns course_report_YYYYMMDD_HHMMSS.json for the generation time
func (r *Report) FileName() string {
	return FilePrefix + r.GeneratedAt.Format("20060102_150405") + ".json"
}

// WriteFile writes the report as indented JSON into dir and returns the path
func (r *Report) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, r.FileName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// PrintSummary writes a fixed-width table of the report to w
func (r *Report) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "Course enrollment report (%s)\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "%-40s %-15s %8s %7s\n", "Course", "Category", "Students", "Lessons")
	fmt.Fprintln(w, strings.Repeat("-", 72))

	var students int64
	for _, c := range r.Courses {
		fmt.Fprintf(w, "%-40s %-15s %8d %7d\n", truncate(c.Title, 40), truncate(c.CategoryName, 15), c.TotalStudents, c.TotalLessons)
		students += c.TotalStudents
	}

	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "Total courses: %d\n", r.TotalCourses)
	fmt.Fprintf(w, "Total enrollments: %d\n", students)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
