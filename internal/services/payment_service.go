package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brayn-ai/brayn-backend/internal/models"
	"github.com/brayn-ai/brayn-backend/internal/providers"
	"github.com/brayn-ai/brayn-backend/internal/repository"
)

const (
	MsgPaymentVerified = "Payment verified and plan updated"

	premiumSubject = "🎉 Brayn Premium Plan Activated!"
	premiumBody    = `<h2>Hi %s,</h2>
<p>Your payment was successful and your account is now upgraded to <strong>Premium</strong>.</p>
<p>You now have full access to image generation, background remover, resume review, and more!</p>
<p>Thank you for choosing <strong>Brayn</strong> 🙌</p>
<br>
<p>- Team Brayn</p>`
)

type PaymentOptions struct {
	KeySecret string
	Amount    int64
	Currency  string
	Now       func() time.Time
}

type PaymentService struct {
	users    repository.UserRepository
	payments repository.PaymentRepository
	gateway  providers.PaymentGateway
	mailer   providers.Mailer
	opts     PaymentOptions
}

func NewPaymentService(
	users repository.UserRepository,
	payments repository.PaymentRepository,
	gateway providers.PaymentGateway,
	mailer providers.Mailer,
	opts PaymentOptions,
) *PaymentService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Amount <= 0 {
		opts.Amount = 49900
	}
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	return &PaymentService{
		users:    users,
		payments: payments,
		gateway:  gateway,
		mailer:   mailer,
		opts:     opts,
	}
}

// CreateOrder opens a provider order for the premium plan and records it in
// the payment ledger.
func (s *PaymentService) CreateOrder(ctx context.Context, user *models.User) (map[string]interface{}, error) {
	receipt := fmt.Sprintf("receipt_order_%d", s.opts.Now().UnixMilli())

	order, err := s.gateway.CreateOrder(ctx, s.opts.Amount, s.opts.Currency, receipt)
	if err != nil {
		paymentsTotal.WithLabelValues("order_failed").Inc()
		providerFailuresTotal.WithLabelValues("razorpay").Inc()
		slog.Error("razorpay order failed", "provider", "razorpay", "action", "create_order", "user_id", user.ID.String(), "error", err)
		return nil, providerError("Failed to create order", err)
	}

	orderID, _ := order["id"].(string)
	err = s.payments.Create(ctx, &models.Payment{
		UserID:   user.ID,
		OrderID:  orderID,
		Amount:   s.opts.Amount,
		Currency: s.opts.Currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, providerError("Failed to create order", err)
	}

	paymentsTotal.WithLabelValues("order_created").Inc()
	return order, nil
}

// VerifyPayment checks the checkout signature and upgrades the user. It is
// the only code path that sets the premium flag.
func (s *PaymentService) VerifyPayment(ctx context.Context, user *models.User, orderID, paymentID, signature string) (*models.User, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, validationError("Order id, payment id and signature are required")
	}
	if !s.validSignature(orderID, paymentID, signature) {
		paymentsTotal.WithLabelValues("signature_mismatch").Inc()
		slog.Warn("payment signature mismatch", "action", "verify_payment", "user_id", user.ID.String())
		return nil, signatureError("Payment verification failed")
	}

	if err := s.users.SetPremium(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, fmt.Errorf("server error during payment verification: %w", err)
	}
	user.IsPremium = true

	if err := s.payments.MarkPaid(ctx, orderID, paymentID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Error("failed to mark payment paid", "action", "verify_payment", "user_id", user.ID.String(), "error", err)
	}
	paymentsTotal.WithLabelValues("paid").Inc()

	if err := s.mailer.Send(ctx, user.Email, premiumSubject, fmt.Sprintf(premiumBody, user.Name)); err != nil {
		providerFailuresTotal.WithLabelValues("smtp").Inc()
		slog.Error("premium confirmation email failed", "provider", "smtp", "action", "verify_payment", "user_id", user.ID.String(), "error", err)
	}

	slog.Info("payment verified", "user_id", user.ID.String(), "order_id", orderID)
	return user, nil
}

func (s *PaymentService) validSignature(orderID, paymentID, signature string) bool {
	expected := SignPayment(s.opts.KeySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignPayment returns the signature the checkout would produce for the pair.
func SignPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
