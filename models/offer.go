package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferUnit represents the billing unit of a service offer
type OfferUnit string

const (
	UnitHora    OfferUnit = "hora"
	UnitDiaria  OfferUnit = "diaria"
	UnitServico OfferUnit = "servico"
)

// ServiceOffer represents a provider's sellable service listing. Only active
// offers are orderable; offers referenced by a non-terminal job are protected
// from deletion (OFFER_IN_USE).
type ServiceOffer struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProviderID  uint            `json:"provider_id" gorm:"not null;index"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	Title       string          `json:"title" gorm:"size:200;not null"`
	Description string          `json:"description" gorm:"type:text"`
	PriceBase   decimal.Decimal `json:"price_base" gorm:"type:decimal(10,2);not null"`
	Unit        OfferUnit       `json:"unit" gorm:"type:varchar(20);not null;default:'hora'"`
	Active      bool            `json:"active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Provider ProviderProfile `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Category ServiceCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName specifies the table name for the ServiceOffer model
func (ServiceOffer) TableName() string {
	return "service_offers"
}

// OfferCreateRequest represents the request structure for creating an offer
type OfferCreateRequest struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	PriceBase    decimal.Decimal `json:"price_base" binding:"required"`
	Unit         OfferUnit       `json:"unit" binding:"omitempty,oneof=hora diaria servico"`
	CategoryID   uint            `json:"category_id"`
	CategorySlug string          `json:"category_slug"`
	Active       *bool           `json:"active"`
}

// OfferUpdateRequest represents the request structure for updating an offer
type OfferUpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	PriceBase   *decimal.Decimal `json:"price_base"`
	Unit        *OfferUnit       `json:"unit" binding:"omitempty,oneof=hora diaria servico"`
	Active      *bool            `json:"active"`
}

// OfferListItem represents the public listing shape for an offer, with the
// distance from the caller to the provider's default address when available.
type OfferListItem struct {
	ID          uint                   `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	PriceBase   decimal.Decimal        `json:"price_base"`
	Unit        OfferUnit              `json:"unit"`
	DistanceKm  *float64               `json:"distance_km,omitempty"`
	Category    ServiceCategory        `json:"category"`
	Provider    ProviderPublicResponse `json:"provider"`
}
