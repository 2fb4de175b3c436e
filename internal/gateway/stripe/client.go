package stripe

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	stripesdk "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

// Параметры hosted-checkout сессии. Валюта и redirect-адреса фиксированы
// на стороне витрины.
const (
	defaultCurrency   = "try"
	defaultSuccessURL = "http://localhost:5173/thanksPage?session_id={CHECKOUT_SESSION_ID}"
	defaultCancelURL  = "http://localhost:5173/checkout"
)

// Gateway реализует domain.CheckoutGateway поверх Stripe Checkout.
// Клиент инжектируется явно: глобальное состояние SDK (stripe.Key)
// не используется.
type Gateway struct {
	api        *client.API
	logger     *log.Entry
	currency   string
	successURL string
	cancelURL  string
}

// Option настраивает Gateway.
type Option func(*Gateway)

// WithCurrency переопределяет код валюты.
func WithCurrency(currency string) Option {
	return func(g *Gateway) {
		g.currency = currency
	}
}

// WithRedirectURLs переопределяет success/cancel адреса.
func WithRedirectURLs(successURL, cancelURL string) Option {
	return func(g *Gateway) {
		g.successURL = successURL
		g.cancelURL = cancelURL
	}
}

// NewGateway создаёт шлюз с собственным экземпляром Stripe-клиента.
func NewGateway(apiKey string, logger *log.Entry, options ...Option) *Gateway {
	api := &client.API{}
	api.Init(apiKey, nil)
	return newGateway(api, logger, options...)
}

// NewGatewayWithClient создаёт шлюз поверх готового клиента (для тестов).
func NewGatewayWithClient(api *client.API, logger *log.Entry, options ...Option) *Gateway {
	return newGateway(api, logger, options...)
}

func newGateway(api *client.API, logger *log.Entry, options ...Option) *Gateway {
	if logger == nil {
		logger = log.WithField("component", "stripe-gateway")
	}
	g := &Gateway{
		api:        api,
		logger:     logger,
		currency:   defaultCurrency,
		successURL: defaultSuccessURL,
		cancelURL:  defaultCancelURL,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// CreateSession создаёт checkout-сессию для карты и возвращает её идентификатор.
// Цены позиций приходят в основных единицах; Stripe ожидает минорные,
// поэтому сумма умножается на 100.
func (g *Gateway) CreateSession(items []domain.CheckoutItem) (string, error) {
	if len(items) == 0 {
		return "", domain.ErrItemsRequired
	}

	lineItems := make([]*stripesdk.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripesdk.CheckoutSessionLineItemParams{
			PriceData: &stripesdk.CheckoutSessionLineItemPriceDataParams{
				Currency: stripesdk.String(g.currency),
				ProductData: &stripesdk.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripesdk.String(item.Name),
				},
				UnitAmount: stripesdk.Int64(minorUnits(item.Price)),
			},
			Quantity: stripesdk.Int64(item.Quantity),
		})
	}

	params := &stripesdk.CheckoutSessionParams{
		PaymentMethodTypes: stripesdk.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripesdk.String(string(stripesdk.CheckoutSessionModePayment)),
		SuccessURL:         stripesdk.String(g.successURL),
		CancelURL:          stripesdk.String(g.cancelURL),
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		g.logger.WithError(err).Error("failed to create checkout session")
		return "", fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}

	g.logger.WithField("session_id", session.ID).Debug("checkout session created")
	return session.ID, nil
}

// minorUnits переводит сумму из основных единиц в минорные.
func minorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

var _ domain.CheckoutGateway = (*Gateway)(nil)
