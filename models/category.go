package models

import (
	"time"
)

// ServiceCategory represents a service category. Categories referenced by any
// offer or job are protected from deletion (CATEGORY_IN_USE).
type ServiceCategory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Slug      string    `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ServiceCategory model
func (ServiceCategory) TableName() string {
	return "service_categories"
}

// CategoryCreateRequest represents the request structure for creating a category
type CategoryCreateRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}
