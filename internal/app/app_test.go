package app

import (
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/checkout"
)

func TestBuildCheckoutGateway_WithoutAPIKey(t *testing.T) {
	logger := log.WithField("test", "gateway")

	gateway := buildCheckoutGateway(DefaultConfig(), logger)

	if _, ok := gateway.(*checkout.MockGateway); !ok {
		t.Errorf("expected mock gateway without stripe api key, got %T", gateway)
	}
}

func TestBuildCheckoutGateway_WithAPIKey(t *testing.T) {
	logger := log.WithField("test", "gateway")

	cfg := DefaultConfig()
	cfg.StripeAPIKey = "sk_test_123"
	cfg.CheckoutCurrency = "try"
	cfg.CheckoutSuccessURL = "https://shop.example/success"
	cfg.CheckoutCancelURL = "https://shop.example/cancel"

	gateway := buildCheckoutGateway(cfg, logger)

	if gateway == nil {
		t.Fatal("expected stripe gateway when api key is set")
	}
}
