package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog is an ERROR+ log record kept for later querying.
type SystemLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp    time.Time      `gorm:"not null;index" json:"timestamp"`
	Level        string         `gorm:"size:10;not null;index" json:"level"`
	Message      string         `gorm:"type:text" json:"message"`
	RequestID    string         `gorm:"size:36;index" json:"request_id"`
	UserID       *string        `gorm:"size:36" json:"user_id"`
	GenerationID *string        `gorm:"size:36" json:"generation_id"`
	Provider     string         `gorm:"size:50;index" json:"provider"`
	Action       string         `gorm:"size:100" json:"action"`
	Error        string         `gorm:"type:text" json:"error"`
	Extra        datatypes.JSON `json:"extra"`
	CreatedAt    time.Time      `json:"created_at"`
}
