package repository

import (
	"context"
	"fmt"

	"github.com/brayn-ai/brayn-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GenerationRepository interface {
	Create(ctx context.Context, gen *models.Generation) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Generation, error)
	ListPublicImages(ctx context.Context) ([]models.Generation, error)
	// ToggleLike adds userID to the generation's like set, or removes it if
	// already present, and returns the resulting set.
	ToggleLike(ctx context.Context, generationID, userID uuid.UUID) (liked bool, likes []uuid.UUID, err error)
}

type generationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

func (r *generationRepository) Create(ctx context.Context, gen *models.Generation) error {
	if !gen.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, gen.Type)
	}
	if gen.ID == uuid.Nil {
		gen.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(gen).Error
}

func (r *generationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Generation, error) {
	var gens []models.Generation
	err := r.db.WithContext(ctx).
		Preload("Likes", orderLikes).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&gens).Error
	return gens, err
}

func (r *generationRepository) ListPublicImages(ctx context.Context) ([]models.Generation, error) {
	var gens []models.Generation
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Likes", orderLikes).
		Where("type = ? AND is_public = ?", models.GenerationImage, true).
		Order("created_at DESC").
		Find(&gens).Error
	return gens, err
}

// ToggleLike never loads and rewrites the like set: the delete and the
// conflict-ignoring insert are single statements, so toggles from other
// users on the same generation are never lost.
func (r *generationRepository) ToggleLike(ctx context.Context, generationID, userID uuid.UUID) (bool, []uuid.UUID, error) {
	var liked bool
	var likes []models.GenerationLike

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Generation{}).Where("id = ?", generationID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		removed := tx.Where("generation_id = ? AND user_id = ?", generationID, userID).
			Delete(&models.GenerationLike{})
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected == 0 {
			like := models.GenerationLike{GenerationID: generationID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return err
			}
			liked = true
		}

		return orderLikes(tx.Where("generation_id = ?", generationID)).Find(&likes).Error
	})
	if err != nil {
		return false, nil, err
	}

	ids := make([]uuid.UUID, len(likes))
	for i, l := range likes {
		ids[i] = l.UserID
	}
	return liked, ids, nil
}

func orderLikes(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("user_id ASC")
}
