package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/brayn-ai/brayn-backend/internal/models"
	"github.com/brayn-ai/brayn-backend/internal/providers"
	"github.com/brayn-ai/brayn-backend/internal/repository"
)

// MaxResumeSize is the largest resume upload accepted, in bytes.
const MaxResumeSize = 10 * 1024 * 1024

const (
	MsgPremiumRequired = "This feature is only available for premium users"

	resumeReviewPrompt = "Resume Review"
	bgRemovedPrompt    = "Background removed"
)

// Upload is a file received from a multipart form. A nil *Upload means the
// field was absent.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// GenerationResult is the provider output and the id of the persisted record.
type GenerationResult struct {
	GenerationID uuid.UUID
	Content      string
}

type GenerationService struct {
	generations repository.GenerationRepository
	text        providers.TextGenerator
	images      providers.ImageGenerator
	backgrounds providers.BackgroundRemover
	store       providers.ObjectStore
	pdf         providers.PDFExtractor
}

type GenerationDeps struct {
	Generations repository.GenerationRepository
	Text        providers.TextGenerator
	Images      providers.ImageGenerator
	Backgrounds providers.BackgroundRemover
	Store       providers.ObjectStore
	PDF         providers.PDFExtractor
}

func NewGenerationService(d GenerationDeps) *GenerationService {
	return &GenerationService{
		generations: d.Generations,
		text:        d.Text,
		images:      d.Images,
		backgrounds: d.Backgrounds,
		store:       d.Store,
		pdf:         d.PDF,
	}
}

func (s *GenerationService) GenerateArticle(ctx context.Context, user *models.User, prompt string, length int) (*GenerationResult, error) {
	if strings.TrimSpace(prompt) == "" || length <= 0 {
		return nil, validationError("Prompt and word length are required")
	}

	const failure = "Failed to generate article"
	article, err := s.generateText(ctx, fmt.Sprintf("Write a %d-word article about: %s", length, prompt))
	if err != nil {
		return nil, s.fail(failure, "gemini", "generate_article", user, err)
	}

	return s.persist(ctx, failure, &models.Generation{
		UserID: user.ID,
		Type:   models.GenerationArticle,
		Prompt: prompt,
		Result: article,
		Length: length,
	})
}

func (s *GenerationService) GenerateBlogTitle(ctx context.Context, user *models.User, prompt, category string) (*GenerationResult, error) {
	if strings.TrimSpace(prompt) == "" || strings.TrimSpace(category) == "" {
		return nil, validationError("Prompt and category are required")
	}

	const failure = "Failed to generate title"
	title, err := s.generateText(ctx, fmt.Sprintf("Generate a catchy %s blog title about: %s", category, prompt))
	if err != nil {
		return nil, s.fail(failure, "gemini", "generate_blog_title", user, err)
	}

	return s.persist(ctx, failure, &models.Generation{
		UserID:   user.ID,
		Type:     models.GenerationBlogTitle,
		Prompt:   prompt,
		Result:   title,
		Category: category,
	})
}

func (s *GenerationService) GenerateImage(ctx context.Context, user *models.User, prompt, style string, isPublic bool) (*GenerationResult, error) {
	if strings.TrimSpace(prompt) == "" || strings.TrimSpace(style) == "" {
		return nil, validationError("Prompt and image style are required")
	}

	const failure = "Failed to generate image"
	img, err := s.images.GenerateImage(ctx, style+", "+prompt)
	if err != nil {
		return nil, s.fail(failure, "clipdrop", "generate_image", user, err)
	}

	url, err := s.store.Upload(ctx, providers.FolderGeneratedImages, img, "")
	if err != nil {
		return nil, s.fail(failure, "s3", "upload_image", user, err)
	}

	return s.persist(ctx, failure, &models.Generation{
		UserID:   user.ID,
		Type:     models.GenerationImage,
		Prompt:   prompt,
		Result:   url,
		IsPublic: isPublic,
	})
}

func (s *GenerationService) RemoveBackground(ctx context.Context, user *models.User, file *Upload) (*GenerationResult, error) {
	if !user.IsPremium {
		return nil, authorizationError(MsgPremiumRequired)
	}
	if file == nil || len(file.Data) == 0 {
		return nil, validationError("No image file uploaded")
	}
	if !strings.HasPrefix(file.ContentType, "image/") ||
		!strings.HasPrefix(mimetype.Detect(file.Data).String(), "image/") {
		return nil, validationError("Only image files are allowed")
	}

	const failure = "Failed to remove background"
	cutout, err := s.backgrounds.RemoveBackground(ctx, file.Data, file.Filename)
	if err != nil {
		return nil, s.fail(failure, "clipdrop", "remove_background", user, err)
	}

	url, err := s.store.Upload(ctx, providers.FolderBackgroundless, cutout, "")
	if err != nil {
		return nil, s.fail(failure, "s3", "upload_image", user, err)
	}

	return s.persist(ctx, failure, &models.Generation{
		UserID: user.ID,
		Type:   models.GenerationImage,
		Prompt: bgRemovedPrompt,
		Result: url,
	})
}

func (s *GenerationService) ReviewResume(ctx context.Context, user *models.User, file *Upload) (*GenerationResult, error) {
	if !user.IsPremium {
		return nil, authorizationError(MsgPremiumRequired)
	}
	if file == nil || len(file.Data) == 0 {
		return nil, validationError("No file uploaded")
	}
	if file.ContentType != "application/pdf" || !mimetype.Detect(file.Data).Is("application/pdf") {
		return nil, validationError("Only PDF files are accepted")
	}
	if file.Size > MaxResumeSize || len(file.Data) > MaxResumeSize {
		return nil, validationError("File size must be under 10MB")
	}

	const failure = "Failed to analyze resume"
	text, err := s.pdf.ExtractText(file.Data)
	if err != nil {
		return nil, s.fail(failure, "pdf", "extract_text", user, err)
	}

	feedback, err := s.generateText(ctx, resumePrompt(text))
	if err != nil {
		return nil, s.fail(failure, "gemini", "review_resume", user, err)
	}

	return s.persist(ctx, failure, &models.Generation{
		UserID: user.ID,
		Type:   models.GenerationResumeReview,
		Prompt: resumeReviewPrompt,
		Result: feedback,
	})
}

// ListUserCreations returns the caller's generations, newest first.
func (s *GenerationService) ListUserCreations(ctx context.Context, user *models.User) ([]models.Generation, error) {
	gens, err := s.generations.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creations: %w", err)
	}
	return gens, nil
}

func (s *GenerationService) generateText(ctx context.Context, prompt string) (string, error) {
	out, err := s.text.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", providers.ErrEmptyResponse
	}
	return out, nil
}

// persist stores gen only after every provider call has succeeded, so a
// failed request never leaves a partial record.
func (s *GenerationService) persist(ctx context.Context, failure string, gen *models.Generation) (*GenerationResult, error) {
	if err := s.generations.Create(ctx, gen); err != nil {
		slog.Error("failed to save generation", "action", "save_generation", "user_id", gen.UserID.String(), "error", err)
		return nil, providerError(failure, err)
	}
	generationsTotal.WithLabelValues(string(gen.Type)).Inc()

	slog.Info("generation saved",
		"generation_id", gen.ID.String(),
		"user_id", gen.UserID.String(),
		"type", string(gen.Type),
	)
	return &GenerationResult{GenerationID: gen.ID, Content: gen.Result}, nil
}

func (s *GenerationService) fail(msg, provider, action string, user *models.User, err error) error {
	providerFailuresTotal.WithLabelValues(provider).Inc()
	slog.Error(msg, "provider", provider, "action", action, "user_id", user.ID.String(), "error", err)
	return providerError(msg, err)
}

func resumePrompt(text string) string {
	return "Provide detailed resume feedback on:\n\n" + text +
		"\n\nFocus on:\n- Strengths\n- Weaknesses\n- Improvement suggestions\n- Formatting\n- ATS compatibility"
}
