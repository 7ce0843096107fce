package database

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/utils/auth"
	"gorm.io/gorm"
)

// SeedConfig controls how much sample data is generated
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	Users         int
	Courses       int
	// Seed makes the generated data reproducible; zero means time based
	Seed int64
}

// DefaultSeedConfig mirrors the demo dataset: one admin, 20 students, 20 courses
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		AdminEmail:    "admin@example.com",
		AdminPassword: "password123",
		Users:         20,
		Courses:       20,
	}
}

var seedCategories = []string{
	"Web Development",
	"Data Science",
	"Mobile Development",
	"Design & UX",
	"Business & Marketing",
}

var seedWords = []string{
	"modern", "practical", "complete", "advanced", "beginner", "hands-on", "essential",
	"guide", "bootcamp", "masterclass", "fundamentals", "patterns", "projects", "design",
	"testing", "deployment", "analytics", "strategy", "APIs", "databases", "interfaces",
	"performance", "security", "workflow", "components", "systems", "models", "growth",
}

var seedFirstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Elena", "Felipe", "Gabi", "Hugo", "Iris", "João", "Kai", "Lara"}
var seedLastNames = []string{"Silva", "Souza", "Costa", "Lima", "Rocha", "Alves", "Pereira", "Gomes", "Ribeiro", "Martins"}

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	cfg SeedConfig
	rng *rand.Rand
	log zerolog.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg SeedConfig, log zerolog.Logger) *Seeder {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		db:  db,
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		log: log,
	}
}

// SeedAll runs all seed functions inside one transaction
func (s *Seeder) SeedAll() error {
	s.log.Info().Msg("starting database seeding")

	var users []model.User
	var categories []model.Category
	var courses []model.Course

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if users, err = s.seedUsers(tx); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		if categories, err = s.seedCategories(tx); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		if courses, err = s.seedCourses(tx, categories); err != nil {
			return fmt.Errorf("failed to seed courses: %w", err)
		}
		if err = s.seedEnrollments(tx, users, courses); err != nil {
			return fmt.Errorf("failed to seed enrollments: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("admin", s.cfg.AdminEmail).
		Int("users", len(users)+1).
		Int("categories", len(categories)).
		Int("courses", len(courses)).
		Msg("database seeded")
	return nil
}

func (s *Seeder) seedUsers(tx *gorm.DB) ([]model.User, error) {
	var count int64
	if err := tx.Model(&model.User{}).Where("email = ?", s.cfg.AdminEmail).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("user %s already exists, database looks seeded", s.cfg.AdminEmail)
	}

	// one hash is shared by every generated account
	hash, err := auth.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return nil, err
	}

	admin := model.User{Name: "Admin User", Email: s.cfg.AdminEmail, PasswordHash: hash}
	if err := tx.Create(&admin).Error; err != nil {
		return nil, err
	}

	users := make([]model.User, 0, s.cfg.Users)
	for i := 1; i <= s.cfg.Users; i++ {
		first := seedFirstNames[s.rng.Intn(len(seedFirstNames))]
		last := seedLastNames[s.rng.Intn(len(seedLastNames))]
		users = append(users, model.User{
			Name:         first + " " + last,
			Email:        fmt.Sprintf("%s.%s.%d@example.com", slug.Make(first), slug.Make(last), i),
			PasswordHash: hash,
		})
	}
	if len(users) > 0 {
		if err := tx.Create(&users).Error; err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *Seeder) seedCategories(tx *gorm.DB) ([]model.Category, error) {
	categories := make([]model.Category, 0, len(seedCategories))
	for _, name := range seedCategories {
		categories = append(categories, model.Category{
			Name:        name,
			Slug:        slug.Make(name),
			Description: s.sentence(12),
		})
	}
	if err := tx.Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Seeder) seedCourses(tx *gorm.DB, categories []model.Category) ([]model.Course, error) {
	courses := make([]model.Course, 0, s.cfg.Courses)

	for i := 1; i <= s.cfg.Courses; i++ {
		category := categories[s.rng.Intn(len(categories))]
		title := s.sentence(3 + s.rng.Intn(4))

		course := model.Course{
			CategoryID:    category.ID,
			Title:         title + " - " + category.Name,
			Slug:          slug.Make(fmt.Sprintf("%s %d", title, i)),
			Description:   s.paragraph(),
			DurationHours: 5 + s.rng.Intn(116),
			IsPublished:   s.rng.Intn(2) == 1,
		}
		if s.rng.Intn(2) == 1 {
			course.Price = float64(2999+s.rng.Intn(17001)) / 100
		}
		if course.IsPublished {
			publishedAt := time.Now().AddDate(0, 0, -s.rng.Intn(121))
			course.PublishedAt = &publishedAt
		}

		if err := tx.Create(&course).Error; err != nil {
			return nil, err
		}

		lessonCount := 5 + s.rng.Intn(8)
		lessons := make([]model.Lesson, 0, lessonCount)
		for j := 1; j <= lessonCount; j++ {
			lesson := model.Lesson{
				CourseID:        course.ID,
				Title:           s.sentence(3 + s.rng.Intn(6)),
				Slug:            slug.Make(fmt.Sprintf("%s %d-%d", s.sentence(2+s.rng.Intn(3)), course.ID, j)),
				Content:         s.paragraph(),
				DurationMinutes: 3 + s.rng.Intn(58),
				Order:           j,
				IsFree:          j == 1,
			}
			if s.rng.Intn(2) == 1 {
				lesson.VideoURL = "https://www.youtube.com/watch?v=" + s.token(10)
			}
			lessons = append(lessons, lesson)
		}
		if err := tx.Create(&lessons).Error; err != nil {
			return nil, err
		}

		courses = append(courses, course)
	}

	return courses, nil
}

func (s *Seeder) seedEnrollments(tx *gorm.DB, users []model.User, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}

	for _, user := range users {
		n := 1 + s.rng.Intn(5)
		if n > len(courses) {
			n = len(courses)
		}

		for _, idx := range s.rng.Perm(len(courses))[:n] {
			enrollment := model.Enrollment{
				UserID:     user.ID,
				CourseID:   courses[idx].ID,
				EnrolledAt: time.Now().AddDate(0, 0, -s.rng.Intn(91)),
				Progress:   s.rng.Intn(101),
			}
			if enrollment.Progress == 100 {
				completedAt := time.Now()
				enrollment.CompletedAt = &completedAt
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) sentence(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = seedWords[s.rng.Intn(len(seedWords))]
	}
	parts[0] = strings.ToUpper(parts[0][:1]) + parts[0][1:]
	return strings.Join(parts, " ")
}

func (s *Seeder) paragraph() string {
	sentences := make([]string, 3)
	for i := range sentences {
		sentences[i] = s.sentence(8+s.rng.Intn(6)) + "."
	}
	return strings.Join(sentences, " ")
}

func (s *Seeder) token(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[s.rng.Intn(len(alphabet))]
	}
	return string(b)
}
