package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a mock gateway record created alongside a job. Later capture and
// refund transitions mutate Job.PaymentStatus in place rather than appending
// payment rows; the row exists so retry semantics can add more later.
type Payment struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	JobID      uint             `json:"job_id" gorm:"not null;index"`
	Gateway    string           `json:"gateway" gorm:"size:50;not null"`
	IntentID   string           `json:"intent_id" gorm:"size:100"`
	ChargeID   *string          `json:"charge_id" gorm:"size:100"`
	Status     string           `json:"status" gorm:"size:50;not null"`
	Amount     decimal.Decimal  `json:"amount" gorm:"type:decimal(10,2);not null"`
	Fees       *decimal.Decimal `json:"fees" gorm:"type:decimal(10,2)"`
	ReceiptURL *string          `json:"receipt_url" gorm:"size:500"`
	CreatedAt  time.Time        `json:"created_at"`

	// Relationships
	Job Job `json:"-" gorm:"foreignKey:JobID"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
