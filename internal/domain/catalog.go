package domain

import "time"

// Product — товар каталога. Коллекция принадлежит другому контексту,
// здесь она нужна только для резолвинга слабых ссылок из заказов.
type Product struct {
	ID        string
	Name      string
	Price     float64
	Image     string
	CreatedAt time.Time
}

// User — покупатель. Как и Product, используется только для резолвинга
// слабой ссылки Order.UserID на чтении.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
