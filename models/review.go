package models

import (
	"time"
)

// Review is the customer's rating of a completed job. At most one review per
// job exists (unique jobId): re-submission overwrites rating and comment.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	JobID     uint      `json:"job_id" gorm:"uniqueIndex;not null"`
	RaterID   uint      `json:"rater_id" gorm:"not null"`
	RateeID   uint      `json:"ratee_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   *string   `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Job   Job  `json:"job,omitempty" gorm:"foreignKey:JobID"`
	Rater User `json:"rater,omitempty" gorm:"foreignKey:RaterID"`
	Ratee User `json:"ratee,omitempty" gorm:"foreignKey:RateeID"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// ReviewCreateRequest represents the request structure for reviewing a job
type ReviewCreateRequest struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

// RatingSummary is the aggregate over all reviews received by a provider
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
