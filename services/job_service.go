package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanapp-server/errs"
	"cleanapp-server/models"
	"cleanapp-server/utils"
)

// JobService owns the job lifecycle state machine: creation with geographic
// price estimation, the accept/start/finish/cancel transitions, and the
// payment-status coupling and conversation provisioning they trigger. Every
// operation runs inside a single transaction so "read, validate, write" is
// never observable as separated steps.
type JobService struct {
	db *gorm.DB
}

// NewJobService creates a new job service
func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

// JobListResult is a page of jobs plus the unpaged total.
type JobListResult struct {
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Items    []models.Job `json:"items"`
}

// Create validates the offer and the customer's address, estimates the price
// from the distance between the customer's address and the provider's default
// address (base price alone when either side has no coordinates), and
// persists the job in pending/hold together with its mock payment row.
// Returns the job and the resolved distance, nil when unknown.
func (s *JobService) Create(customerID uint, req models.JobCreateRequest) (*models.Job, *float64, error) {
	var job models.Job
	var distanceKm *float64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var offer models.ServiceOffer
		if err := tx.Preload("Provider").First(&offer, req.OfferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.InvalidOffer()
			}
			return err
		}
		if !offer.Active {
			return errs.InvalidOffer()
		}

		var address models.Address
		if err := tx.First(&address, req.AddressID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.AddressForbidden()
			}
			return err
		}
		if address.UserID != customerID {
			return errs.AddressForbidden()
		}

		// Provider's default address, used only for the distance surcharge.
		var providerAddr models.Address
		err := tx.Where("user_id = ? AND is_default = ?", offer.Provider.UserID, true).
			First(&providerAddr).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && providerAddr.HasCoordinates() && address.HasCoordinates() {
			d := utils.HaversineDistance(*providerAddr.Lat, *providerAddr.Lng, *address.Lat, *address.Lng)
			distanceKm = &d
		}

		priceEstimated := EstimatePrice(offer.PriceBase, distanceKm)

		job = models.Job{
			CustomerID:     customerID,
			AddressID:      address.ID,
			CategoryID:     offer.CategoryID,
			OfferID:        offer.ID,
			Datetime:       req.Datetime,
			Status:         models.JobStatusPending,
			PaymentStatus:  models.PaymentStatusHold,
			PriceEstimated: priceEstimated,
			Notes:          req.Notes,
		}
		if err := tx.Create(&job).Error; err != nil {
			return err
		}

		payment := models.Payment{
			JobID:    job.ID,
			Gateway:  "sandbox",
			IntentID: "pi_" + uuid.NewString(),
			Status:   "requires_capture",
			Amount:   priceEstimated,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return tx.Preload("Category").Preload("Offer").First(&job, job.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &job, distanceKm, nil
}

// List returns the caller's jobs: customers see jobs they ordered, providers
// see jobs assigned to them. Supports multi-status, date-range and category
// filters, datetime ordering and capped pagination.
func (s *JobService) List(filter models.JobListFilter) (*JobListResult, error) {
	p := utils.NewPagination(filter.Page, filter.PageSize)

	categoryID := filter.CategoryID
	if categoryID == 0 && filter.CategorySlug != "" {
		var cat models.ServiceCategory
		if err := s.db.Where("slug = ?", filter.CategorySlug).First(&cat).Error; err == nil {
			categoryID = cat.ID
		}
	}

	query := s.db.Model(&models.Job{})
	if filter.Role == models.RoleProvider {
		query = query.Where("provider_id = ?", filter.UserID)
	} else {
		query = query.Where("customer_id = ?", filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	if filter.DateFrom != nil {
		query = query.Where("datetime >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("datetime <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	order := "datetime DESC"
	if filter.OrderAsc {
		order = "datetime ASC"
	}

	var items []models.Job
	if err := query.
		Preload("Category").Preload("Offer").Preload("Address").
		Preload("Customer").Preload("Provider").
		Order(order).
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &JobListResult{Total: total, Page: p.Page, PageSize: p.PageSize, Items: items}, nil
}

// Get returns a single job; only the customer or the assigned provider may
// see it.
func (s *JobService) Get(jobID, userID uint) (*models.Job, error) {
	var job models.Job
	err := s.db.
		Preload("Category").Preload("Offer").Preload("Address").
		Preload("Customer").Preload("Provider").Preload("Payments").
		First(&job, jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.JobNotFound()
		}
		return nil, err
	}
	if !job.IsParticipant(userID) {
		return nil, errs.Forbidden("")
	}
	return &job, nil
}

// Accept assigns the acting provider to a pending job and provisions its
// conversation. The status flip is a guarded update keyed on the pending
// state, so of two concurrent accepts exactly one wins; the loser observes
// INVALID_STATE and the winner's provider assignment is never overwritten.
func (s *JobService) Accept(jobID, providerID uint) (*models.Job, error) {
	var job models.Job
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.JobNotFound()
			}
			return err
		}
		if !job.CanAccept() {
			return errs.InvalidState("job is not pending")
		}

		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, models.JobStatusPending).
			Updates(map[string]interface{}{
				"status":      models.JobStatusAccepted,
				"provider_id": providerID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.InvalidState("job is not pending")
		}

		// Idempotent conversation provisioning, keyed by the unique job id.
		conversation := models.Conversation{JobID: jobID}
		if err := tx.Where(models.Conversation{JobID: jobID}).
			FirstOrCreate(&conversation).Error; err != nil {
			return err
		}

		return tx.First(&job, jobID).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Start moves an accepted job to in_progress. Only the assigned provider may
// start it.
func (s *JobService) Start(jobID, providerID uint) (*models.Job, error) {
	return s.providerTransition(jobID, providerID, models.JobStatusAccepted, map[string]interface{}{
		"status": models.JobStatusInProgress,
	})
}

// Finish completes an in_progress job: the final price is fixed to the
// estimate and the mock payment is captured.
func (s *JobService) Finish(jobID, providerID uint) (*models.Job, error) {
	var job models.Job
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.JobNotFound()
			}
			return err
		}
		if job.ProviderID == nil || *job.ProviderID != providerID {
			return errs.Forbidden("only the assigned provider can finish the job")
		}
		if !job.CanFinish() {
			return errs.InvalidState("job is not in progress")
		}

		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, models.JobStatusInProgress).
			Updates(map[string]interface{}{
				"status":         models.JobStatusDone,
				"price_final":    job.PriceEstimated,
				"payment_status": models.PaymentStatusCaptured,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.InvalidState("job is not in progress")
		}
		return tx.First(&job, jobID).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Cancel moves a non-terminal job to canceled and refunds the mock payment.
// Allowed for the job's customer and, once assigned, its provider; the reason
// is appended to the job notes.
func (s *JobService) Cancel(jobID, userID uint, role models.UserRole, reason string) (*models.Job, error) {
	var job models.Job
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.JobNotFound()
			}
			return err
		}
		if role == models.RoleCustomer && job.CustomerID != userID {
			return errs.Forbidden("")
		}
		if role == models.RoleProvider && (job.ProviderID == nil || *job.ProviderID != userID) {
			return errs.Forbidden("")
		}
		if !job.CanCancel() {
			return errs.InvalidState(fmt.Sprintf("job cannot be canceled from status %s", job.Status))
		}

		res := tx.Model(&models.Job{}).
			Where("id = ? AND status IN ?", jobID, models.NonTerminalStatuses()).
			Updates(map[string]interface{}{
				"status":         models.JobStatusCanceled,
				"payment_status": models.PaymentStatusRefunded,
				"notes":          models.AppendCancelNote(job.Notes, reason),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.InvalidState("job cannot be canceled from its current status")
		}
		return tx.First(&job, jobID).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// providerTransition runs a guarded single-status transition restricted to
// the assigned provider.
func (s *JobService) providerTransition(jobID, providerID uint, from models.JobStatus, updates map[string]interface{}) (*models.Job, error) {
	var job models.Job
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.JobNotFound()
			}
			return err
		}
		if job.ProviderID == nil || *job.ProviderID != providerID {
			return errs.Forbidden("only the assigned provider can update the job")
		}
		if job.Status != from {
			return errs.InvalidState(fmt.Sprintf("job is not %s", from))
		}

		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.InvalidState(fmt.Sprintf("job is not %s", from))
		}
		return tx.First(&job, jobID).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}
