package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus represents the current lifecycle state of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusAccepted   JobStatus = "accepted"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusDone       JobStatus = "done"
	JobStatusCanceled   JobStatus = "canceled"
)

// PaymentStatus represents the mock payment state coupled to job transitions
type PaymentStatus string

const (
	PaymentStatusHold     PaymentStatus = "hold"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Job is the central entity: a scheduled instance of a customer ordering a
// specific offer. ProviderID is null exactly while the job is pending; once
// accepted it never changes. Jobs are never deleted; terminal states are
// permanent history.
type Job struct {
	ID             uint             `json:"id" gorm:"primaryKey"`
	CustomerID     uint             `json:"customer_id" gorm:"not null;index"`
	ProviderID     *uint            `json:"provider_id" gorm:"index"`
	AddressID      uint             `json:"address_id" gorm:"not null"`
	CategoryID     uint             `json:"category_id" gorm:"not null;index"`
	OfferID        uint             `json:"offer_id" gorm:"not null"`
	Datetime       time.Time        `json:"datetime" gorm:"not null;index"`
	Status         JobStatus        `json:"status" gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','accepted','in_progress','done','canceled')"`
	PaymentStatus  PaymentStatus    `json:"payment_status" gorm:"type:varchar(20);not null;default:'hold';check:payment_status IN ('hold','captured','refunded','failed')"`
	PriceEstimated decimal.Decimal  `json:"price_estimated" gorm:"type:decimal(10,2);not null"`
	PriceFinal     *decimal.Decimal `json:"price_final" gorm:"type:decimal(10,2)"`
	Notes          string           `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Relationships
	Customer User            `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Provider *User           `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Address  Address         `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	Category ServiceCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Offer    ServiceOffer    `json:"offer,omitempty" gorm:"foreignKey:OfferID"`
	Payments []Payment       `json:"payments,omitempty" gorm:"foreignKey:JobID"`
}

// TableName specifies the table name for the Job model
func (Job) TableName() string {
	return "jobs"
}

// IsTerminal reports whether the job is in a terminal state.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusCanceled
}

// CanAccept reports whether the accept transition is allowed.
func (j *Job) CanAccept() bool {
	return j.Status == JobStatusPending
}

// CanStart reports whether the start transition is allowed.
func (j *Job) CanStart() bool {
	return j.Status == JobStatusAccepted
}

// CanFinish reports whether the finish transition is allowed.
func (j *Job) CanFinish() bool {
	return j.Status == JobStatusInProgress
}

// CanCancel reports whether the cancel transition is allowed.
func (j *Job) CanCancel() bool {
	switch j.Status {
	case JobStatusPending, JobStatusAccepted, JobStatusInProgress:
		return true
	default:
		return false
	}
}

// IsParticipant reports whether the user is the job's customer or its
// assigned provider.
func (j *Job) IsParticipant(userID uint) bool {
	if j.CustomerID == userID {
		return true
	}
	return j.ProviderID != nil && *j.ProviderID == userID
}

// AppendCancelNote appends a cancellation reason to the existing notes.
func AppendCancelNote(notes, reason string) string {
	entry := "[cancel] " + reason
	if notes == "" {
		return entry
	}
	return notes + "\n" + entry
}

// NonTerminalStatuses lists the statuses that protect referenced entities
// (addresses, offers, categories) from deletion.
func NonTerminalStatuses() []JobStatus {
	return []JobStatus{JobStatusPending, JobStatusAccepted, JobStatusInProgress}
}

// ParseJobStatuses normalizes a list of raw status strings: unknown values
// and duplicates are dropped. An empty result means "no status filter".
func ParseJobStatuses(raw []string) []JobStatus {
	seen := make(map[JobStatus]bool, len(raw))
	var statuses []JobStatus
	for _, s := range raw {
		status := JobStatus(s)
		switch status {
		case JobStatusPending, JobStatusAccepted, JobStatusInProgress, JobStatusDone, JobStatusCanceled:
			if !seen[status] {
				seen[status] = true
				statuses = append(statuses, status)
			}
		}
	}
	return statuses
}

// JobCreateRequest represents the request structure for creating a job
type JobCreateRequest struct {
	OfferID   uint      `json:"offer_id" binding:"required"`
	AddressID uint      `json:"address_id" binding:"required"`
	Datetime  time.Time `json:"datetime" binding:"required"`
	Notes     string    `json:"notes"`
}

// JobCancelRequest represents the request structure for canceling a job
type JobCancelRequest struct {
	Reason string `json:"reason"`
}

// JobListFilter carries the listing filters parsed by the boundary layer
type JobListFilter struct {
	UserID       uint
	Role         UserRole
	Statuses     []JobStatus
	DateFrom     *time.Time
	DateTo       *time.Time
	CategoryID   uint
	CategorySlug string
	OrderAsc     bool
	Page         int
	PageSize     int
}
