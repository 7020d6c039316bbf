package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brayn-ai/brayn-backend/internal/dto"
	"github.com/brayn-ai/brayn-backend/internal/middleware"
	"github.com/brayn-ai/brayn-backend/internal/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	order, err := h.payments.CreateOrder(providerContext(c), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OrderResponse{Success: true, Order: order})
}

func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, errInvalidBody.Error())
	}

	user, err := h.payments.VerifyPayment(providerContext(c), middleware.CurrentUser(c), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.VerifyPaymentResponse{
		Success: true,
		Message: services.MsgPaymentVerified,
		User:    dto.PaymentUser{Name: user.Name, Email: user.Email, IsPremium: user.IsPremium},
	})
}
