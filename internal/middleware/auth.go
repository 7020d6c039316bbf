package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/brayn-ai/brayn-backend/internal/config"
	"github.com/brayn-ai/brayn-backend/internal/credentials"
	"github.com/brayn-ai/brayn-backend/internal/dto"
	"github.com/brayn-ai/brayn-backend/internal/models"
	"github.com/brayn-ai/brayn-backend/internal/repository"
)

const (
	TokenCookie    = "token"
	tokenLocal     = "jwt"
	currentUserKey = "currentUser"
)

// JWTProtected verifies the session token from the Authorization header or
// the token cookie.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ContextKey:  tokenLocal,
		TokenLookup: "header:Authorization,cookie:" + TokenCookie,
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			msg := "Invalid or expired token"
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				msg = "No token provided"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: msg})
		},
	})
}

// ResolveUser loads the user named by the verified token. A token whose user
// no longer exists is rejected.
func ResolveUser(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals(tokenLocal).(*jwt.Token)
		if !ok {
			return unauthorized(c, "Invalid or expired token")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "Invalid or expired token")
		}
		id, err := credentials.UserIDFromClaims(claims)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		user, err := users.FindByID(c.UserContext(), id)
		if errors.Is(err, repository.ErrNotFound) {
			return unauthorized(c, "User not found")
		}
		if err != nil {
			return err
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by ResolveUser.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: msg})
}
