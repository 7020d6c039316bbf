package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"
)

// Payment tracks a Razorpay order from creation to verified capture.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderID   string    `gorm:"size:64;not null;uniqueIndex" json:"order_id"`
	PaymentID string    `gorm:"size:64" json:"payment_id,omitempty"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"size:8;not null" json:"currency"`
	Receipt   string    `gorm:"size:64" json:"receipt"`
	Status    string    `gorm:"size:20;not null;default:'created'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
