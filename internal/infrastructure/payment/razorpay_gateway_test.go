package payment

import (
	"context"
	"testing"

	"hospital-management-api/config"
	"hospital-management-api/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestRazorpayGateway_VerifySignature(t *testing.T) {
	gw := NewRazorpayGateway(config.PaymentConfig{KeyID: "rzp_test_key", KeySecret: "secret"})
	signature := Sign("secret", "order_123", "pay_456")

	assert.True(t, gw.VerifySignature("order_123", "pay_456", signature))
	assert.False(t, gw.VerifySignature("order_123", "pay_999", signature))
	assert.False(t, gw.VerifySignature("order_123", "pay_456", Sign("other", "order_123", "pay_456")))
	assert.False(t, gw.VerifySignature("order_123", "pay_456", ""))
}

func TestRazorpayGateway_CreateOrderRequiresCredentials(t *testing.T) {
	gw := NewRazorpayGateway(config.PaymentConfig{})

	_, err := gw.CreateOrder(context.Background(), service.OrderRequest{AmountMinor: 10000, Currency: "INR"})
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}
