package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"hospital-management-api/config"
	"hospital-management-api/internal/service"

	"github.com/razorpay/razorpay-go"
)

var ErrGatewayNotConfigured = errors.New("payment gateway credentials are not configured")

// RazorpayGateway opens Razorpay orders and validates checkout signatures.
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	gw := &RazorpayGateway{keySecret: cfg.KeySecret}
	if cfg.KeyID != "" && cfg.KeySecret != "" {
		gw.client = razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	}
	return gw
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, req service.OrderRequest) (*service.PaymentOrder, error) {
	if g.client == nil {
		return nil, ErrGatewayNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay: order response has no id")
	}
	status, _ := body["status"].(string)

	return &service.PaymentOrder{
		ID:          id,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Status:      status,
	}, nil
}

// VerifySignature recomputes HMAC-SHA256("<order>|<payment>") with the key secret
// and compares it in constant time.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	if g.keySecret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(g.keySecret, orderID, paymentID)), []byte(signature))
}

// Sign produces the signature Razorpay Checkout returns for a successful payment.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
