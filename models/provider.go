package models

import (
	"time"
)

// ProviderProfile represents a provider's professional profile. ScoreAvg and
// TotalReviews are derived fields: they are recomputed from the review set on
// every review write and must never be written by any other path.
type ProviderProfile struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Bio          string    `json:"bio" gorm:"type:text"`
	RadiusKm     float64   `json:"radius_km" gorm:"type:decimal(5,1);default:10"`
	Verified     bool      `json:"verified" gorm:"default:false"`
	ScoreAvg     float64   `json:"score_avg" gorm:"type:decimal(3,2);default:0"`
	TotalReviews int       `json:"total_reviews" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the ProviderProfile model
func (ProviderProfile) TableName() string {
	return "provider_profiles"
}

// ProviderProfileUpdateRequest represents the request structure for updating a provider profile
type ProviderProfileUpdateRequest struct {
	Bio      *string  `json:"bio"`
	RadiusKm *float64 `json:"radius_km"`
}

// ProviderPublicResponse represents the public listing shape for a provider
type ProviderPublicResponse struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	Name         string  `json:"name"`
	Bio          string  `json:"bio"`
	RadiusKm     float64 `json:"radius_km"`
	Verified     bool    `json:"verified"`
	ScoreAvg     float64 `json:"score_avg"`
	TotalReviews int     `json:"total_reviews"`
}

// ToPublicResponse converts a profile (with User preloaded) to its public shape
func (p *ProviderProfile) ToPublicResponse() ProviderPublicResponse {
	return ProviderPublicResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		Name:         p.User.Name,
		Bio:          p.Bio,
		RadiusKm:     p.RadiusKm,
		Verified:     p.Verified,
		ScoreAvg:     p.ScoreAvg,
		TotalReviews: p.TotalReviews,
	}
}
