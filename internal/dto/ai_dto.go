package dto

import (
	"time"

	"github.com/brayn-ai/brayn-backend/internal/models"
)

type GenerateArticleRequest struct {
	Prompt string `json:"prompt"`
	Length int    `json:"length"`
}

type GenerateBlogTitleRequest struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}

type GenerateImageRequest struct {
	Prompt     string `json:"prompt"`
	ImageStyle string `json:"imageStyle"`
	IsPublic   bool   `json:"isPublic"`
}

type ArticleResponse struct {
	Success      bool   `json:"success"`
	Article      string `json:"article"`
	GenerationID string `json:"generationId"`
}

type BlogTitleResponse struct {
	Success      bool   `json:"success"`
	Title        string `json:"title"`
	GenerationID string `json:"generationId"`
}

type ImageResponse struct {
	Success      bool   `json:"success"`
	ImageURL     string `json:"imageUrl"`
	GenerationID string `json:"generationId"`
}

type ResumeReviewResponse struct {
	Success      bool   `json:"success"`
	Feedback     string `json:"feedback"`
	GenerationID string `json:"generationId"`
}

type GenerationResponse struct {
	ID        string    `json:"_id"`
	User      string    `json:"user"`
	Type      string    `json:"type"`
	Prompt    string    `json:"prompt"`
	Result    string    `json:"result"`
	Category  string    `json:"category,omitempty"`
	Length    int       `json:"length,omitempty"`
	IsPublic  bool      `json:"isPublic"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewGenerationResponse(g *models.Generation) GenerationResponse {
	return GenerationResponse{
		ID:        g.ID.String(),
		User:      g.UserID.String(),
		Type:      string(g.Type),
		Prompt:    g.Prompt,
		Result:    g.Result,
		Category:  g.Category,
		Length:    g.Length,
		IsPublic:  g.IsPublic,
		Likes:     g.LikeIDs(),
		CreatedAt: g.CreatedAt,
	}
}

type ImageOwner struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CommunityImageResponse struct {
	ID        string      `json:"_id"`
	User      *ImageOwner `json:"user"`
	Type      string      `json:"type"`
	Prompt    string      `json:"prompt"`
	Result    string      `json:"result"`
	IsPublic  bool        `json:"isPublic"`
	Likes     []string    `json:"likes"`
	CreatedAt time.Time   `json:"createdAt"`
}

func NewCommunityImageResponse(g *models.Generation) CommunityImageResponse {
	resp := CommunityImageResponse{
		ID:        g.ID.String(),
		Type:      string(g.Type),
		Prompt:    g.Prompt,
		Result:    g.Result,
		IsPublic:  g.IsPublic,
		Likes:     g.LikeIDs(),
		CreatedAt: g.CreatedAt,
	}
	if g.User.ID == g.UserID {
		resp.User = &ImageOwner{ID: g.User.ID.String(), Name: g.User.Name, Email: g.User.Email}
	}
	return resp
}

type CreationsResponse struct {
	Success   bool                 `json:"success"`
	Creations []GenerationResponse `json:"creations"`
}

type CommunityImagesResponse struct {
	Success bool                     `json:"success"`
	Images  []CommunityImageResponse `json:"images"`
}

type LikesResponse struct {
	Success bool     `json:"success"`
	Likes   []string `json:"likes"`
}
