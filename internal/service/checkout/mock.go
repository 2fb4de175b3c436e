package checkout

import "github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"

// MockGateway — конфигурируемая заглушка CheckoutGateway для тестов и
// локальной разработки без Stripe-ключа.
type MockGateway struct {
	SessionID string
	Err       error

	Calls     int
	LastItems []domain.CheckoutItem
}

// NewMockGateway возвращает mock с успешным сценарием по умолчанию.
func NewMockGateway() *MockGateway {
	return &MockGateway{SessionID: "cs_test_mock"}
}

// CreateSession возвращает заранее настроенный результат и считает вызовы.
func (m *MockGateway) CreateSession(items []domain.CheckoutItem) (string, error) {
	m.Calls++
	m.LastItems = items
	if m.Err != nil {
		return "", m.Err
	}
	return m.SessionID, nil
}

var _ domain.CheckoutGateway = (*MockGateway)(nil)
