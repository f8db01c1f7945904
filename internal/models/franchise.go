package models

import "time"

// Franchise is the team a product belongs to.
type Franchise struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	ShortName   string    `json:"short_name" gorm:"type:varchar(10)"`
	City        string    `json:"city" gorm:"type:varchar(100)"`
	Color       string    `json:"color" gorm:"type:varchar(20)"`
	LogoURL     string    `json:"logo_url"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
