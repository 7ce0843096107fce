package model

import (
	"time"

	"gorm.io/gorm"
)

// Course is a sellable unit of content made of ordered lessons
type Course struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	CategoryID    uint           `gorm:"not null;index:idx_courses_category_published,priority:1" json:"category_id"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Slug          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description   string         `gorm:"type:text" json:"description"`
	DurationHours int            `gorm:"not null;default:0" json:"duration_hours"`
	Price         float64        `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	IsPublished   bool           `gorm:"not null;default:false;index;index:idx_courses_category_published,priority:2" json:"is_published"`
	PublishedAt   *time.Time     `json:"published_at"` // set once, on the first publish

	// Relationships
	Category    *Category    `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Lessons     []Lesson     `gorm:"foreignKey:CourseID;constraint:OnDelete:RESTRICT" json:"lessons,omitempty"`
	Enrollments []Enrollment `gorm:"foreignKey:CourseID;constraint:OnDelete:RESTRICT" json:"enrollments,omitempty"`

	StudentCount *int `gorm:"-" json:"student_count,omitempty"`
}

// Lesson is a single unit of a course
type Lesson struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	CourseID        uint           `gorm:"not null;index:idx_lessons_course_order,priority:1" json:"course_id"`
	Title           string         `gorm:"type:varchar(255);not null" json:"title"`
	Slug            string         `gorm:"type:varchar(255);index" json:"slug"`
	Content         string         `gorm:"type:text" json:"content"`
	VideoURL        string         `gorm:"type:varchar(500)" json:"video_url"`
	DurationMinutes int            `gorm:"not null;default:0" json:"duration_minutes"`
	Order           int            `gorm:"column:sort_order;not null;default:0;index:idx_lessons_course_order,priority:2" json:"order"`
	IsFree          bool           `gorm:"not null;default:false" json:"is_free"`

	// Relationships
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:RESTRICT" json:"course,omitempty"`
}

// Enrollment links a user to a course and tracks progress (0-100)
type Enrollment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_enrollments_user_course,priority:1" json:"user_id"`
	CourseID    uint       `gorm:"not null;uniqueIndex:idx_enrollments_user_course,priority:2;index" json:"course_id"`
	EnrolledAt  time.Time  `gorm:"not null" json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"` // nil while in progress
	Progress    int        `gorm:"not null;default:0" json:"progress"`

	// Relationships
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:RESTRICT" json:"course,omitempty"`
}

// IsCompleted reports whether the enrollment has been finished
func (e *Enrollment) IsCompleted() bool {
	return e.CompletedAt != nil
}
