package repository

import (
	"context"

	"github.com/brayn-ai/brayn-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	MarkPaid(ctx context.Context, orderID, paymentID string) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusCreated
	}
	return r.db.WithContext(ctx).Omit("User").Create(payment).Error
}

func (r *paymentRepository) FindByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     models.PaymentStatusPaid,
			"payment_id": paymentID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
