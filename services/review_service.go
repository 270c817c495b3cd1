package services

import (
	"errors"

	"gorm.io/gorm"

	"cleanapp-server/errs"
	"cleanapp-server/models"
	"cleanapp-server/utils"
)

// ReviewService handles review upserts and the provider rating aggregates
// derived from them.
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// ReviewListResult is a page of reviews received by a provider.
type ReviewListResult struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Summary  models.RatingSummary `json:"summary"`
	Items    []models.Review      `json:"items"`
}

// CreateOrUpdateForJob upserts the review for a done job, keyed by the unique
// job id, and recomputes the provider's aggregate rating in the same
// transaction. Only the job's customer may review, and only after the job is
// done.
func (s *ReviewService) CreateOrUpdateForJob(jobID, customerID uint, req models.ReviewCreateRequest) (*models.Review, error) {
	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.JobNotFound()
			}
			return err
		}
		if job.Status != models.JobStatusDone {
			return errs.JobNotDone()
		}
		if job.CustomerID != customerID {
			return errs.Forbidden("only the job's customer can review it")
		}
		if job.ProviderID == nil {
			// Unreachable for done jobs under the lifecycle invariants.
			return errs.JobWithoutProvider()
		}
		providerUserID := *job.ProviderID

		err := tx.Where("job_id = ?", jobID).First(&review).Error
		switch {
		case err == nil:
			review.Rating = req.Rating
			review.Comment = req.Comment
			if err := tx.Save(&review).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.Review{
				JobID:   jobID,
				RaterID: customerID,
				RateeID: providerUserID,
				Rating:  req.Rating,
				Comment: req.Comment,
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return recomputeProviderStats(tx, providerUserID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForProvider returns the reviews received by a provider user, newest
// first, with the live aggregate summary.
func (s *ReviewService) ListForProvider(providerUserID uint, page, pageSize int) (*ReviewListResult, error) {
	p := utils.NewPagination(page, pageSize)

	query := s.db.Model(&models.Review{}).Where("ratee_id = ?", providerUserID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	summary, err := summarizeReviews(s.db, providerUserID)
	if err != nil {
		return nil, err
	}

	var items []models.Review
	if err := s.db.
		Where("ratee_id = ?", providerUserID).
		Preload("Rater").
		Preload("Job").Preload("Job.Category").
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &ReviewListResult{
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Summary:  summary,
		Items:    items,
	}, nil
}

// RecomputeAll re-runs the aggregate fold for every provider profile. The
// fold is idempotent, so the nightly reconciler can call this safely.
func (s *ReviewService) RecomputeAll() error {
	var profiles []models.ProviderProfile
	if err := s.db.Find(&profiles).Error; err != nil {
		return err
	}
	for _, profile := range profiles {
		userID := profile.UserID
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return recomputeProviderStats(tx, userID)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// recomputeProviderStats folds the provider's whole review set into the
// denormalized scoreAvg/totalReviews fields. A full re-scan, not an
// incremental update, so repeated runs cannot drift.
func recomputeProviderStats(tx *gorm.DB, providerUserID uint) error {
	summary, err := summarizeReviews(tx, providerUserID)
	if err != nil {
		return err
	}
	return tx.Model(&models.ProviderProfile{}).
		Where("user_id = ?", providerUserID).
		Updates(map[string]interface{}{
			"score_avg":     summary.Average,
			"total_reviews": summary.Count,
		}).Error
}

func summarizeReviews(tx *gorm.DB, providerUserID uint) (models.RatingSummary, error) {
	var summary models.RatingSummary
	err := tx.Model(&models.Review{}).
		Where("ratee_id = ?", providerUserID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&summary).Error
	return summary, err
}
