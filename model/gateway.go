package model

import "time"

type GatewayConfig struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
	FrontendURL   string
}

// CheckoutParams describes one gateway-hosted checkout session.
type CheckoutParams struct {
	Amount      int64 // smallest currency unit
	Quantity    int64
	ProductName string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
	ExpiresAt   time.Time
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Refund struct {
	ID string `json:"id"`
}

// WebhookEvent is the verified payload of one gateway notification.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentIntent string `json:"payment_intent"`
		} `json:"object"`
	} `json:"data"`
}
