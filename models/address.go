package models

import (
	"time"
)

// Address represents a user's saved address. At most one address per user
// may have IsDefault=true; the address service keeps that invariant by
// clearing siblings inside the same transaction that sets a new default.
type Address struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Label     string    `json:"label" gorm:"size:50"`
	Street    string    `json:"street" gorm:"size:255;not null"`
	Number    string    `json:"number" gorm:"size:20"`
	District  string    `json:"district" gorm:"size:100"`
	City      string    `json:"city" gorm:"size:100;not null"`
	State     string    `json:"state" gorm:"size:50;not null"`
	Zip       string    `json:"zip" gorm:"size:20;not null"`
	Lat       *float64  `json:"lat" gorm:"type:decimal(10,7)"`
	Lng       *float64  `json:"lng" gorm:"type:decimal(10,7)"`
	IsDefault bool      `json:"is_default" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Address model
func (Address) TableName() string {
	return "addresses"
}

// HasCoordinates reports whether the address carries usable coordinates.
func (a *Address) HasCoordinates() bool {
	return a.Lat != nil && a.Lng != nil
}

// AddressCreateRequest represents the request structure for creating an address
type AddressCreateRequest struct {
	Label     string   `json:"label"`
	Street    string   `json:"street" binding:"required"`
	Number    string   `json:"number"`
	District  string   `json:"district"`
	City      string   `json:"city" binding:"required"`
	State     string   `json:"state" binding:"required"`
	Zip       string   `json:"zip" binding:"required"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	IsDefault bool     `json:"is_default"`
}
