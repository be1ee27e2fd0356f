package service

import "context"

// OrderRequest asks the gateway to open a payment for an amount in minor
// currency units (paise for INR).
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// PaymentOrder is the client side handle returned by the gateway.
type PaymentOrder struct {
	ID          string
	AmountMinor int64
	Currency    string
	Status      string
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*PaymentOrder, error)
	// VerifySignature checks the signature the checkout returns for orderID and paymentID.
	VerifySignature(orderID, paymentID, signature string) bool
}
