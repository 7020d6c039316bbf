package services

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/brayn-ai/brayn-backend/internal/models"
	"github.com/brayn-ai/brayn-backend/internal/repository"
)

type CommunityService struct {
	generations repository.GenerationRepository
}

func NewCommunityService(generations repository.GenerationRepository) *CommunityService {
	return &CommunityService{generations: generations}
}

// ListPublicImages returns public images with their owners loaded, most
// liked first and newest first among equals. The order is computed on every
// read.
func (s *CommunityService) ListPublicImages(ctx context.Context) ([]models.Generation, error) {
	images, err := s.generations.ListPublicImages(ctx)
	if err != nil {
		return nil, providerError("Failed to fetch images", err)
	}

	slices.SortStableFunc(images, func(a, b models.Generation) int {
		if c := cmp.Compare(len(b.Likes), len(a.Likes)); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return images, nil
}

// ToggleLike flips userID's membership in the image's like set and returns
// the resulting set as string ids.
func (s *CommunityService) ToggleLike(ctx context.Context, imageID, userID uuid.UUID) ([]string, error) {
	liked, likes, err := s.generations.ToggleLike(ctx, imageID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("Image not found")
	}
	if err != nil {
		slog.Error("like toggle failed", "action", "toggle_like", "generation_id", imageID.String(), "user_id", userID.String(), "error", err)
		return nil, providerError("Failed to update like", err)
	}

	direction := "unlike"
	if liked {
		direction = "like"
	}
	likeTogglesTotal.WithLabelValues(direction).Inc()

	ids := make([]string, len(likes))
	for i, id := range likes {
		ids[i] = id.String()
	}
	return ids, nil
}
