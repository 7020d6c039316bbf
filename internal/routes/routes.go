package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brayn-ai/brayn-backend/internal/config"
	"github.com/brayn-ai/brayn-backend/internal/dto"
	"github.com/brayn-ai/brayn-backend/internal/handlers"
	"github.com/brayn-ai/brayn-backend/internal/middleware"
	"github.com/brayn-ai/brayn-backend/internal/repository"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	AI      *handlers.AIHandler
	Payment *handlers.PaymentHandler
	Health  *handlers.HealthHandler
}

// RateLimits bounds requests per IP per minute. Zero disables a limiter.
type RateLimits struct {
	API  int
	Auth int
}

var DefaultRateLimits = RateLimits{API: 120, Auth: 10}

func Setup(app *fiber.App, cfg *config.Config, users repository.UserRepository, h Handlers, limits RateLimits) {
	app.Get("/", h.Health.Root)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	if limits.API > 0 {
		api.Use(rateLimiter(limits.API))
	}

	api.Get("/health", h.Health.Check)

	protected := []fiber.Handler{middleware.JWTProtected(cfg), middleware.ResolveUser(users)}

	auth := api.Group("/auth")
	if limits.Auth > 0 {
		auth.Use(rateLimiter(limits.Auth))
	}
	auth.Post("/signup", h.Auth.Signup)
	auth.Post("/verify", h.Auth.VerifyOTP)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Get("/profile", append(protected, h.Auth.Profile)...)
	auth.Post("/change-password", append(protected, h.Auth.ChangePassword)...)

	ai := api.Group("/ai", protected...)
	ai.Post("/generate-article", h.AI.GenerateArticle)
	ai.Post("/generate-blog-title", h.AI.GenerateBlogTitle)
	ai.Post("/generate-image", h.AI.GenerateImage)
	ai.Post("/remove-background", h.AI.RemoveBackground)
	ai.Post("/resume-review", h.AI.ReviewResume)
	ai.Get("/community/images", h.AI.CommunityImages)
	ai.Post("/community/like/:id", h.AI.ToggleLike)
	ai.Get("/user/creations", h.AI.UserCreations)

	payment := api.Group("/payment", protected...)
	payment.Post("/create-order", h.Payment.CreateOrder)
	payment.Post("/verify-payment", h.Payment.VerifyPayment)
}

func rateLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Message: "Too many requests. Please try again later.",
			})
		},
	})
}
