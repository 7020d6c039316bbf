package models

import (
	"time"

	"github.com/google/uuid"
)

type GenerationType string

const (
	GenerationArticle      GenerationType = "article"
	GenerationImage        GenerationType = "image"
	GenerationBlogTitle    GenerationType = "blog-title"
	GenerationResumeReview GenerationType = "resume-review"
)

// Valid reports whether t is one of the known generation types.
func (t GenerationType) Valid() bool {
	switch t {
	case GenerationArticle, GenerationImage, GenerationBlogTitle, GenerationResumeReview:
		return true
	}
	return false
}

// Generation is the persisted record of one AI invocation.
type Generation struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"_id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user"`
	Type      GenerationType   `gorm:"size:20;not null;index" json:"type"`
	Prompt    string           `gorm:"type:text;not null" json:"prompt"`
	Result    string           `gorm:"type:text;not null" json:"result"`
	Category  string           `gorm:"size:100" json:"category,omitempty"`
	Length    int              `json:"length,omitempty"`
	IsPublic  bool             `gorm:"not null;default:false;index" json:"isPublic"`
	CreatedAt time.Time        `gorm:"index" json:"createdAt"`
	User      User             `gorm:"foreignKey:UserID" json:"-"`
	Likes     []GenerationLike `gorm:"foreignKey:GenerationID" json:"-"`
}

// GenerationLike is one user's like on a generation. The composite primary
// key keeps a user from appearing twice in a generation's like set.
type GenerationLike struct {
	GenerationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt    time.Time
}

// LikeIDs returns the like set as string user ids in insertion order.
func (g *Generation) LikeIDs() []string {
	ids := make([]string, len(g.Likes))
	for i, l := range g.Likes {
		ids[i] = l.UserID.String()
	}
	return ids
}
