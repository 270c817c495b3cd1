package services

import (
	"errors"

	"gorm.io/gorm"

	"cleanapp-server/errs"
	"cleanapp-server/models"
	"cleanapp-server/utils"
)

// UserService handles registration, credential checks and profile updates.
// Token issuance stays at the boundary; this service never sees a JWT.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user; a provider registration also creates the provider
// profile in the same transaction.
func (s *UserService) Register(req models.RegisterRequest) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RoleCustomer
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Phone:        req.Phone,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.EmailTaken()
			}
			return err
		}
		if role == models.RoleProvider {
			profile := models.ProviderProfile{UserID: user.ID}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			user.Provider = &profile
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies email and password, returning the user on success.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.InvalidCredentials()
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, errs.InvalidCredentials()
	}
	return &user, nil
}

// GetMe returns the user's own profile.
func (s *UserService) GetMe(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Provider").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}
	return &user, nil
}

// UpdateMe applies a partial update to the user's own profile.
func (s *UserService) UpdateMe(userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) > 0 {
		res := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, errs.UserNotFound()
		}
	}
	return s.GetMe(userID)
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.UserNotFound()
		}
		return err
	}
	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return errs.InvalidPassword()
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.Model(&user).Update("password_hash", hash).Error
}

// GetProviderPublic returns a provider's public profile by user id.
func (s *UserService) GetProviderPublic(providerUserID uint) (*models.ProviderPublicResponse, error) {
	var profile models.ProviderProfile
	err := s.db.Preload("User").Where("user_id = ?", providerUserID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ProviderNotFound()
		}
		return nil, err
	}
	resp := profile.ToPublicResponse()
	return &resp, nil
}

// UpdateProviderProfile applies a partial update to the acting provider's
// profile fields. Score fields are derived and cannot be set here.
func (s *UserService) UpdateProviderProfile(providerUserID uint, req models.ProviderProfileUpdateRequest) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	if err := s.db.Where("user_id = ?", providerUserID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ProviderNotFound()
		}
		return nil, err
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.RadiusKm != nil {
		if *req.RadiusKm <= 0 {
			return nil, errs.InvalidInput("radius_km must be positive")
		}
		profile.RadiusKm = *req.RadiusKm
	}

	if err := s.db.Model(&profile).
		Select("bio", "radius_km").
		Updates(map[string]interface{}{"bio": profile.Bio, "radius_km": profile.RadiusKm}).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
