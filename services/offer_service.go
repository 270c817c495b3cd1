package services

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"cleanapp-server/errs"
	"cleanapp-server/models"
	"cleanapp-server/utils"
)

// OfferService is the catalog: public offer listings with optional proximity
// filtering, and provider-side offer management.
type OfferService struct {
	db *gorm.DB
}

// NewOfferService creates a new offer service
func NewOfferService(db *gorm.DB) *OfferService {
	return &OfferService{db: db}
}

// OfferListParams carries the public listing filters.
type OfferListParams struct {
	CategoryID   uint
	CategorySlug string
	NearLat      *float64
	NearLng      *float64
	RadiusKm     *float64
	Page         int
	PageSize     int
}

// OfferListResult is a page of public offers.
type OfferListResult struct {
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Items    []models.OfferListItem `json:"items"`
}

// List returns active offers, optionally filtered by category and by
// proximity to a point. With a near point, each offer carries the distance
// from the caller to the provider's default address and results come back
// nearest first; providers without locatable addresses sort last.
func (s *OfferService) List(params OfferListParams) (*OfferListResult, error) {
	p := utils.NewPagination(params.Page, params.PageSize)

	categoryID := params.CategoryID
	if categoryID == 0 && params.CategorySlug != "" {
		var cat models.ServiceCategory
		if err := s.db.Where("slug = ?", params.CategorySlug).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &OfferListResult{Page: p.Page, PageSize: p.PageSize, Items: []models.OfferListItem{}}, nil
			}
			return nil, err
		}
		categoryID = cat.ID
	}

	query := s.db.Model(&models.ServiceOffer{}).Where("active = ?", true)
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var offers []models.ServiceOffer
	if err := query.
		Preload("Category").Preload("Provider").Preload("Provider.User").
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&offers).Error; err != nil {
		return nil, err
	}

	items := make([]models.OfferListItem, 0, len(offers))
	for _, offer := range offers {
		items = append(items, models.OfferListItem{
			ID:          offer.ID,
			Title:       offer.Title,
			Description: offer.Description,
			PriceBase:   offer.PriceBase,
			Unit:        offer.Unit,
			Category:    offer.Category,
			Provider:    offer.Provider.ToPublicResponse(),
		})
	}

	if params.NearLat == nil || params.NearLng == nil {
		return &OfferListResult{Total: total, Page: p.Page, PageSize: p.PageSize, Items: items}, nil
	}

	if err := s.attachDistances(items, offers, *params.NearLat, *params.NearLng); err != nil {
		return nil, err
	}

	if params.RadiusKm != nil {
		filtered := items[:0]
		for _, item := range items {
			if item.DistanceKm != nil && *item.DistanceKm <= *params.RadiusKm {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].DistanceKm, items[j].DistanceKm
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	return &OfferListResult{Total: total, Page: p.Page, PageSize: p.PageSize, Items: items}, nil
}

// attachDistances resolves the default addresses of the listed providers in
// one query and fills in the distance from the caller's point.
func (s *OfferService) attachDistances(items []models.OfferListItem, offers []models.ServiceOffer, lat, lng float64) error {
	userIDs := make([]uint, 0, len(offers))
	for _, offer := range offers {
		userIDs = append(userIDs, offer.Provider.UserID)
	}
	if len(userIDs) == 0 {
		return nil
	}

	var addresses []models.Address
	if err := s.db.
		Where("user_id IN ? AND is_default = ?", userIDs, true).
		Find(&addresses).Error; err != nil {
		return err
	}
	byUser := make(map[uint]models.Address, len(addresses))
	for _, addr := range addresses {
		byUser[addr.UserID] = addr
	}

	for i := range items {
		addr, ok := byUser[offers[i].Provider.UserID]
		if !ok || !addr.HasCoordinates() {
			continue
		}
		d := utils.HaversineDistance(lat, lng, *addr.Lat, *addr.Lng)
		items[i].DistanceKm = &d
	}
	return nil
}

// ListMine returns all offers of the acting provider, active or not.
func (s *OfferService) ListMine(providerUserID uint) ([]models.ServiceOffer, error) {
	profile, err := s.profileOf(providerUserID)
	if err != nil {
		return nil, err
	}
	var offers []models.ServiceOffer
	err = s.db.Where("provider_id = ?", profile.ID).
		Preload("Category").
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}

// CreateMine creates an offer owned by the acting provider.
func (s *OfferService) CreateMine(providerUserID uint, req models.OfferCreateRequest) (*models.ServiceOffer, error) {
	profile, err := s.profileOf(providerUserID)
	if err != nil {
		return nil, err
	}

	categoryID := req.CategoryID
	if categoryID == 0 {
		if req.CategorySlug == "" {
			return nil, errs.InvalidInput("category_id or category_slug is required")
		}
		var cat models.ServiceCategory
		if err := s.db.Where("slug = ?", req.CategorySlug).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errs.CategoryNotFound()
			}
			return nil, err
		}
		categoryID = cat.ID
	} else {
		var cat models.ServiceCategory
		if err := s.db.First(&cat, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errs.CategoryNotFound()
			}
			return nil, err
		}
	}

	if req.PriceBase.IsNegative() {
		return nil, errs.InvalidInput("price_base must not be negative")
	}

	offer := models.ServiceOffer{
		ProviderID:  profile.ID,
		CategoryID:  categoryID,
		Title:       req.Title,
		Description: req.Description,
		PriceBase:   req.PriceBase.Round(2),
		Unit:        req.Unit,
		Active:      true,
	}
	if offer.Unit == "" {
		offer.Unit = models.UnitHora
	}
	if req.Active != nil {
		offer.Active = *req.Active
	}

	if err := s.db.Create(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// UpdateMine applies a partial update to an offer owned by the acting
// provider.
func (s *OfferService) UpdateMine(providerUserID, offerID uint, req models.OfferUpdateRequest) (*models.ServiceOffer, error) {
	profile, err := s.profileOf(providerUserID)
	if err != nil {
		return nil, err
	}

	var offer models.ServiceOffer
	if err := s.db.First(&offer, offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.OfferNotFound()
		}
		return nil, err
	}
	if offer.ProviderID != profile.ID {
		return nil, errs.Forbidden("offer belongs to another provider")
	}

	if req.Title != nil {
		offer.Title = *req.Title
	}
	if req.Description != nil {
		offer.Description = *req.Description
	}
	if req.PriceBase != nil {
		if req.PriceBase.IsNegative() {
			return nil, errs.InvalidInput("price_base must not be negative")
		}
		offer.PriceBase = req.PriceBase.Round(2)
	}
	if req.Unit != nil {
		offer.Unit = *req.Unit
	}
	if req.Active != nil {
		offer.Active = *req.Active
	}

	if err := s.db.Save(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// DeleteMine removes an offer unless a non-terminal job references it.
func (s *OfferService) DeleteMine(providerUserID, offerID uint) error {
	profile, err := s.profileOf(providerUserID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var offer models.ServiceOffer
		if err := tx.First(&offer, offerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.OfferNotFound()
			}
			return err
		}
		if offer.ProviderID != profile.ID {
			return errs.Forbidden("offer belongs to another provider")
		}

		var activeJobs int64
		if err := tx.Model(&models.Job{}).
			Where("offer_id = ? AND status IN ?", offerID, models.NonTerminalStatuses()).
			Count(&activeJobs).Error; err != nil {
			return err
		}
		if activeJobs > 0 {
			return errs.OfferInUse()
		}

		return tx.Delete(&offer).Error
	})
}

func (s *OfferService) profileOf(providerUserID uint) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	if err := s.db.Where("user_id = ?", providerUserID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ProviderNotFound()
		}
		return nil, err
	}
	return &profile, nil
}
