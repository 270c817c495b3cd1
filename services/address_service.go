package services

import (
	"errors"

	"gorm.io/gorm"

	"cleanapp-server/errs"
	"cleanapp-server/models"
	"cleanapp-server/utils"
)

// AddressService manages a user's addresses and the at-most-one-default
// invariant. Default flips are transactional: the sibling default is cleared
// in the same transaction that sets the new one.
type AddressService struct {
	db *gorm.DB
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// ListMine returns the user's addresses, default first, then newest.
func (s *AddressService) ListMine(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

// CreateMine creates an address for the user. When the new address is the
// default, existing defaults are cleared inside the same transaction.
func (s *AddressService) CreateMine(userID uint, req models.AddressCreateRequest) (*models.Address, error) {
	if (req.Lat == nil) != (req.Lng == nil) {
		return nil, errs.InvalidInput("lat and lng must be provided together")
	}
	if req.Lat != nil && !utils.IsLocationValid(*req.Lat, *req.Lng) {
		return nil, errs.InvalidInput("coordinates out of range")
	}

	address := models.Address{
		UserID:    userID,
		Label:     req.Label,
		Street:    req.Street,
		Number:    req.Number,
		District:  req.District,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Lat:       req.Lat,
		Lng:       req.Lng,
		IsDefault: req.IsDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := clearDefault(tx, userID); err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// SetDefaultMine makes the address the user's default, clearing any previous
// default in the same transaction.
func (s *AddressService) SetDefaultMine(userID, addressID uint) (*models.Address, error) {
	var address models.Address
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&address, addressID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.AddressNotFound()
			}
			return err
		}
		if address.UserID != userID {
			return errs.AddressNotFound()
		}

		if err := clearDefault(tx, userID); err != nil {
			return err
		}
		address.IsDefault = true
		return tx.Model(&address).Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// DeleteMine removes an address unless a non-terminal job references it.
// When the deleted address was the default, the most recent remaining address
// is promoted.
func (s *AddressService) DeleteMine(userID, addressID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var address models.Address
		if err := tx.First(&address, addressID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.AddressNotFound()
			}
			return err
		}
		if address.UserID != userID {
			return errs.AddressNotFound()
		}

		var activeJobs int64
		if err := tx.Model(&models.Job{}).
			Where("address_id = ? AND status IN ?", addressID, models.NonTerminalStatuses()).
			Count(&activeJobs).Error; err != nil {
			return err
		}
		if activeJobs > 0 {
			return errs.AddressInUse()
		}

		if err := tx.Delete(&address).Error; err != nil {
			return err
		}

		if address.IsDefault {
			var next models.Address
			err := tx.Where("user_id = ?", userID).
				Order("created_at DESC").First(&next).Error
			if err == nil {
				return tx.Model(&next).Update("is_default", true).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return nil
	})
}

func clearDefault(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
