package model

import (
	"time"
)

// Category groups courses by subject area (e.g., "Web Development")
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`

	// Relationships
	Courses []Course `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"courses,omitempty"`
}
