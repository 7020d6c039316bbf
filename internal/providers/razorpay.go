package providers

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway creates checkout orders with the Razorpay Orders API.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order, err := g.client.Order.Create(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create failed: %w", err)
	}
	if _, ok := order["id"].(string); !ok {
		return nil, errors.New("razorpay order response has no id")
	}
	return order, nil
}
