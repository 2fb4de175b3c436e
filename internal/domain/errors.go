package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора покупателя.
	ErrUserRequired = errors.New("user is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отсутствующей ссылки на товар в позиции.
	ErrItemProductRequired = errors.New("item product is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка отрицательной денежной суммы.
	ErrAmountNegative = errors.New("amount must be non-negative")
	// Ошибка статуса вне закрытого множества.
	ErrStatusInvalid = errors.New("order status is invalid")
	// Ошибка отсутствующего идентификатора заказа в производных записях.
	ErrOrderIDRequired = errors.New("order_id is required")

	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrSaleNotFound возвращается, если продажа не найдена в хранилище.
	ErrSaleNotFound = errors.New("sale not found")
	// ErrProductNotFound возвращается при резолвинге несуществующего товара.
	ErrProductNotFound = errors.New("product not found")
	// ErrUserNotFound возвращается при резолвинге несуществующего покупателя.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateOrderNumber сигнализирует, что номер заказа уже занят.
	// Хранилище обязано вернуть её при нарушении уникального индекса —
	// это backstop для гонки check-then-insert в генераторе.
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrSaleExists возвращается при попытке создать вторую продажу по заказу.
	ErrSaleExists = errors.New("sale already exists for order")

	// ErrStoreUnavailable — хранилище недоступно; генератор номеров обязан
	// упасть с этой ошибкой, а не вернуть потенциально неуникальный номер.
	ErrStoreUnavailable = errors.New("order store unavailable")
	// ErrNumberSpaceExhausted — генератор исчерпал лимит попыток подбора номера.
	ErrNumberSpaceExhausted = errors.New("order number space exhausted")
	// ErrGatewayUnavailable — платёжный шлюз не смог создать checkout-сессию.
	ErrGatewayUnavailable = errors.New("checkout gateway unavailable")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// SaleCreationError возвращается, когда заказ уже durable-обновлён до
// Completed, но запись о продаже создать не удалось. Заказ остаётся
// изменённым; вызывающая сторона должна рассматривать это как кейс
// reconciliation, а не rollback.
type SaleCreationError struct {
	OrderID string
	Err     error
}

func (e *SaleCreationError) Error() string {
	return fmt.Sprintf("order %s updated but sale creation failed: %v", e.OrderID, e.Err)
}

func (e *SaleCreationError) Unwrap() error {
	return e.Err
}

// IsNotFound проверяет, относится ли ошибка к категории "не найдено".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrSaleNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidation проверяет, относится ли ошибка к нарушению инвариантов записи.
func IsValidation(err error) bool {
	for _, sentinel := range []error{
		ErrUserRequired,
		ErrItemsRequired,
		ErrItemProductRequired,
		ErrItemQtyInvalid,
		ErrItemPriceInvalid,
		ErrAmountNegative,
		ErrStatusInvalid,
		ErrOrderIDRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
