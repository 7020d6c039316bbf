package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brayn-ai/brayn-backend/internal/credentials"
	"github.com/brayn-ai/brayn-backend/internal/models"
	"github.com/brayn-ai/brayn-backend/internal/providers"
	"github.com/brayn-ai/brayn-backend/internal/repository"
)

const bcryptCost = 10

const (
	MsgSignupCreated  = "Signup successful. OTP sent to email"
	MsgSignupResent   = "New OTP sent to your email"
	MsgVerified       = "Email verified successfully"
	MsgLoggedIn       = "Login successful"
	MsgResetOTPSent   = "OTP sent to email"
	MsgPasswordReset  = "Password reset successfully"
	MsgPasswordChange = "Password changed successfully"
)

type SignupResult struct {
	User *models.User
	// Created is false when an unverified account was refreshed with a new OTP.
	Created bool
}

type AuthResult struct {
	User  *models.User
	Token string
}

type AuthService struct {
	users  repository.UserRepository
	issuer *credentials.Issuer
	mailer providers.Mailer
}

func NewAuthService(users repository.UserRepository, issuer *credentials.Issuer, mailer providers.Mailer) *AuthService {
	return &AuthService{users: users, issuer: issuer, mailer: mailer}
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*SignupResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || email == "" || password == "" {
		return nil, validationError("Name, email and password are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsVerified {
		return nil, conflictError("Email already registered")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	otp, err := s.issuer.NewOTP()
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Name = name
		existing.Password = hash
		existing.OTP = otp
		if err := s.users.Save(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		body := fmt.Sprintf("<h2>Hi %s,</h2><p>Your new OTP is <strong>%s</strong></p>", name, otp.Code)
		if err := s.send(ctx, email, "Resend OTP - Brayn", body); err != nil {
			return nil, err
		}
		return &SignupResult{User: existing}, nil
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		OTP:      otp,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	body := fmt.Sprintf("<h2>Welcome to Brayn, %s!</h2><p>Your OTP: <strong>%s</strong></p>", name, otp.Code)
	if err := s.send(ctx, email, "Verify your Brayn account", body); err != nil {
		return nil, err
	}
	return &SignupResult{User: user, Created: true}, nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	if email == "" || code == "" {
		return nil, validationError("Email and OTP are required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, validationError("User already verified")
	}
	if err := s.checkOTP(user, code); err != nil {
		return nil, err
	}

	user.IsVerified = true
	user.OTP = models.OTP{}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}

	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, validationError("Email and password are required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, authenticationError("Please verify your email before logging in")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, authenticationError("Invalid password")
	}

	return s.session(user)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, validationError("Email is required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	otp, err := s.issuer.NewOTP()
	if err != nil {
		return nil, err
	}
	user.OTP = otp
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}

	body := fmt.Sprintf("<h3>Reset Password OTP</h3><p>Your OTP is: <strong>%s</strong></p><p>This OTP expires in 10 minutes.</p>", otp.Code)
	if err := s.send(ctx, email, "Reset Your Brayn Password", body); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword consumes the reset OTP and replaces the password. The
// verification state is left as it was.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) (*models.User, error) {
	if email == "" || code == "" || newPassword == "" {
		return nil, validationError("Email, OTP and new password are required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.checkOTP(user, code); err != nil {
		return nil, err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.Password = hash
	user.OTP = models.OTP{}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) (*models.User, error) {
	if current == "" || newPassword == "" {
		return nil, validationError("Current and new password are required")
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return nil, validationError("Current password is incorrect")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.Password = hash
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to change password: %w", err)
	}
	return user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("User not found")
	}
	return user, err
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("User not found")
	}
	return user, err
}

func (s *AuthService) checkOTP(user *models.User, code string) error {
	err := s.issuer.CheckOTP(user.OTP, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, credentials.ErrOTPMissing):
		return validationError("No OTP requested")
	case errors.Is(err, credentials.ErrOTPMismatch):
		return validationError("Invalid OTP")
	case errors.Is(err, credentials.ErrOTPExpired):
		return validationError("OTP expired")
	default:
		return err
	}
}

func (s *AuthService) session(user *models.User) (*AuthResult, error) {
	token, err := s.issuer.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) send(ctx context.Context, to, subject, body string) error {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		slog.Error("otp email failed", "action", "send_otp", "provider", "smtp", "error", err)
		providerFailuresTotal.WithLabelValues("smtp").Inc()
		return providerError("Failed to send OTP email", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
