package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrDuplicateOrderNumber,
	// если номер заказа уже занят (уникальный индекс — backstop для
	// гонки между проверкой и вставкой).
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// List возвращает все заказы; пустой срез — не ошибка.
	List() ([]Order, error)
	// Count возвращает общее количество заказов.
	Count() (int64, error)
	// ExistsByNumber проверяет, занят ли номер заказа.
	ExistsByNumber(orderNumber string) (bool, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
	// Delete удаляет заказ или возвращает ErrOrderNotFound.
	// Удаление не каскадирует на продажи.
	Delete(id string) error
}

// SaleRepository описывает требования к хранилищу продаж.
type SaleRepository interface {
	// Create сохраняет продажу. Возвращает ErrSaleExists, если по заказу
	// продажа уже создана (инвариант exactly-once).
	Create(sale Sale) error
	// Get возвращает продажу по идентификатору или ErrSaleNotFound.
	Get(id string) (Sale, error)
	// GetByOrder возвращает продажу по идентификатору заказа или ErrSaleNotFound.
	GetByOrder(orderID string) (Sale, error)
	// List возвращает все продажи.
	List() ([]Sale, error)
}

// ProductRepository — lookup-доступ к каталогу для резолвинга слабых ссылок.
type ProductRepository interface {
	Get(id string) (Product, error)
}

// UserRepository — lookup-доступ к покупателям для резолвинга слабых ссылок.
type UserRepository interface {
	Get(id string) (User, error)
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}
