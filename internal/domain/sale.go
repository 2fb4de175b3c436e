package domain

import "time"

// Sale — производная запись о продаже, создаваемая при переходе заказа
// в статус Completed. Запись append-only: ядро её не обновляет и не удаляет.
type Sale struct {
	ID string
	// OrderID — строгая ссылка на заказ; на заказ существует не более одной продажи.
	OrderID string
	// Products — слепок позиций заказа на момент завершения.
	Products    []OrderItem
	TotalAmount float64
	UserID      string
	CreatedAt   time.Time
}

// Validate проверяет корректность полей продажи и возвращает ошибки, если они есть.
func (s *Sale) Validate() []error {
	var errs []error

	if s.OrderID == "" {
		errs = append(errs, ErrOrderIDRequired)
	}
	if s.TotalAmount < 0 {
		errs = append(errs, ErrAmountNegative)
	}
	if len(s.Products) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	return errs
}
