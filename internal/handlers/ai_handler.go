package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/brayn-ai/brayn-backend/internal/dto"
	"github.com/brayn-ai/brayn-backend/internal/middleware"
	"github.com/brayn-ai/brayn-backend/internal/services"
)

type AIHandler struct {
	generations *services.GenerationService
	community   *services.CommunityService
}

func NewAIHandler(generations *services.GenerationService, community *services.CommunityService) *AIHandler {
	return &AIHandler{generations: generations, community: community}
}

func (h *AIHandler) GenerateArticle(c *fiber.Ctx) error {
	var req dto.GenerateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, errInvalidBody.Error())
	}

	res, err := h.generations.GenerateArticle(providerContext(c), middleware.CurrentUser(c), req.Prompt, req.Length)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ArticleResponse{Success: true, Article: res.Content, GenerationID: res.GenerationID.String()})
}

func (h *AIHandler) GenerateBlogTitle(c *fiber.Ctx) error {
	var req dto.GenerateBlogTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, errInvalidBody.Error())
	}

	res, err := h.generations.GenerateBlogTitle(providerContext(c), middleware.CurrentUser(c), req.Prompt, req.Category)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BlogTitleResponse{Success: true, Title: res.Content, GenerationID: res.GenerationID.String()})
}

func (h *AIHandler) GenerateImage(c *fiber.Ctx) error {
	var req dto.GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, errInvalidBody.Error())
	}

	res, err := h.generations.GenerateImage(providerContext(c), middleware.CurrentUser(c), req.Prompt, req.ImageStyle, req.IsPublic)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ImageResponse{Success: true, ImageURL: res.Content, GenerationID: res.GenerationID.String()})
}

func (h *AIHandler) RemoveBackground(c *fiber.Ctx) error {
	file, err := formUpload(c, "image")
	if err != nil {
		return err
	}

	res, err := h.generations.RemoveBackground(providerContext(c), middleware.CurrentUser(c), file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ImageResponse{Success: true, ImageURL: res.Content, GenerationID: res.GenerationID.String()})
}

func (h *AIHandler) ReviewResume(c *fiber.Ctx) error {
	file, err := formUpload(c, "resume")
	if err != nil {
		return err
	}

	res, err := h.generations.ReviewResume(providerContext(c), middleware.CurrentUser(c), file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ResumeReviewResponse{Success: true, Feedback: res.Content, GenerationID: res.GenerationID.String()})
}

func (h *AIHandler) CommunityImages(c *fiber.Ctx) error {
	images, err := h.community.ListPublicImages(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.CommunityImageResponse, len(images))
	for i := range images {
		out[i] = dto.NewCommunityImageResponse(&images[i])
	}
	return c.JSON(dto.CommunityImagesResponse{Success: true, Images: out})
}

func (h *AIHandler) ToggleLike(c *fiber.Ctx) error {
	imageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid image ID")
	}

	likes, err := h.community.ToggleLike(c.UserContext(), imageID, middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LikesResponse{Success: true, Likes: likes})
}

func (h *AIHandler) UserCreations(c *fiber.Ctx) error {
	gens, err := h.generations.ListUserCreations(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.GenerationResponse, len(gens))
	for i := range gens {
		out[i] = dto.NewGenerationResponse(&gens[i])
	}
	return c.JSON(dto.CreationsResponse{Success: true, Creations: out})
}

// formUpload reads a multipart file field. A missing field yields a nil
// upload so the service can report it.
func formUpload(c *fiber.Ctx, field string) (*services.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return readUpload(fh)
}

func readUpload(fh *multipart.FileHeader) (*services.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Data:        data,
	}, nil
}
