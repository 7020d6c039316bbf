package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/brayn-ai/brayn-backend/internal/dto"
	"github.com/brayn-ai/brayn-backend/internal/middleware"
	"github.com/brayn-ai/brayn-backend/internal/services"
)

type AuthHandler struct {
	authService  *services.AuthService
	validate     *validator.Validate
	secureCookie bool
	cookieTTL    time.Duration
}

func NewAuthHandler(authService *services.AuthService, secureCookie bool, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validate:     newValidator(),
		secureCookie: secureCookie,
		cookieTTL:    cookieTTL,
	}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := h.authService.Signup(providerContext(c), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	status, msg := fiber.StatusCreated, services.MsgSignupCreated
	if !res.Created {
		status, msg = fiber.StatusOK, services.MsgSignupResent
	}
	return c.Status(status).JSON(dto.UserMessageResponse{
		Message: msg,
		User:    dto.NewUserResponse(res.User),
	})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := h.authService.VerifyOTP(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return respondError(c, err)
	}

	h.setTokenCookie(c, res.Token)
	return c.JSON(dto.AuthResponse{
		Message: services.MsgVerified,
		Token:   res.Token,
		User:    dto.NewUserResponse(res.User),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setTokenCookie(c, res.Token)
	return c.JSON(dto.AuthResponse{
		Message: services.MsgLoggedIn,
		Token:   res.Token,
		User:    dto.NewUserResponse(res.User),
	})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.authService.Profile(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProfileResponse{User: dto.NewUserResponse(user)})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.authService.ForgotPassword(providerContext(c), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserMessageResponse{Message: services.MsgResetOTPSent, User: dto.NewUserResponse(user)})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.authService.ResetPassword(c.UserContext(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserMessageResponse{Message: services.MsgPasswordReset, User: dto.NewUserResponse(user)})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.authService.ChangePassword(c.UserContext(), middleware.CurrentUser(c).ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.UserMessageResponse{Message: services.MsgPasswordChange, User: dto.NewUserResponse(user)})
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(h.cookieTTL.Seconds()),
		Expires:  time.Now().Add(h.cookieTTL),
	})
}
