package dto

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type OrderResponse struct {
	Success bool                   `json:"success"`
	Order   map[string]interface{} `json:"order"`
}

type PaymentUser struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsPremium bool   `json:"isPremium"`
}

type VerifyPaymentResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    PaymentUser `json:"user"`
}
