package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/brayn-ai/brayn-backend/internal/dto"
)

type HealthHandler struct {
	ping func() error
}

// NewHealthHandler reports database reachability through ping.
func NewHealthHandler(ping func() error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.SendString("Brayn API is running")
}
