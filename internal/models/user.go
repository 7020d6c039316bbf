package models

import (
	"time"

	"github.com/google/uuid"
)

// OTP is the one-time password challenge attached to a user. It is embedded
// into the users table as otp_code / otp_expires_at and cleared after use.
type OTP struct {
	Code      string     `gorm:"size:6"`
	ExpiresAt *time.Time
}

// Empty reports whether there is no outstanding challenge.
func (o OTP) Empty() bool {
	return o.Code == "" || o.ExpiresAt == nil
}

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Name       string    `gorm:"not null;size:255" json:"name"`
	Email      string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	IsVerified bool      `gorm:"not null;default:false" json:"isVerified"`
	OTP        OTP       `gorm:"embedded;embeddedPrefix:otp_" json:"-"`
	IsPremium  bool      `gorm:"not null;default:false" json:"isPremium"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
