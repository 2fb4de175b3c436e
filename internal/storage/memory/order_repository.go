package memory

import (
	"sort"
	"sync"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu       sync.RWMutex
	items    map[string]domain.Order
	byNumber map[string]string
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items:    make(map[string]domain.Order),
		byNumber: make(map[string]string),
	}
}

// Create сохраняет новый заказ, если ID и номер ещё не заняты.
// Уникальность номера — backstop для гонки check-then-insert.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrOrderVersionConflict
	}
	if _, taken := r.byNumber[order.OrderNumber]; taken {
		return domain.ErrDuplicateOrderNumber
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	order.Items = cloneItems(order.Items)
	r.items[order.ID] = order
	r.byNumber[order.OrderNumber] = order.ID
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
// Items копируются: вызывающая сторона (резолвинг ссылок) пишет
// в возвращённый срез, и без копии эти записи гонялись бы с
// конкурентными чтениями и протекали в хранилище.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.Items = cloneItems(order.Items)
	return order, nil
}

// List возвращает все заказы, отсортированные от новых к старым.
func (r *orderRepositoryInMemory) List() ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		order.Items = cloneItems(order.Items)
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// Count возвращает общее количество заказов.
func (r *orderRepositoryInMemory) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

// ExistsByNumber проверяет занятость номера заказа.
func (r *orderRepositoryInMemory) ExistsByNumber(orderNumber string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, taken := r.byNumber[orderNumber]
	return taken, nil
}

// Save перезаписывает заказ, проверяя версию (optimistic locking).
func (r *orderRepositoryInMemory) Save(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrOrderVersionConflict
	}
	// Номер заказа иммутабелен после создания.
	order.OrderNumber = current.OrderNumber
	// Инкрементируем версию перед сохранением.
	order.Version++
	order.Items = cloneItems(order.Items)
	r.items[order.ID] = order
	return nil
}

// Delete удаляет заказ без каскада на продажи.
func (r *orderRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	delete(r.byNumber, order.OrderNumber)
	return nil
}

// cloneItems делает поверхностную копию позиций заказа.
func cloneItems(items []domain.OrderItem) []domain.OrderItem {
	if items == nil {
		return nil
	}
	out := make([]domain.OrderItem, len(items))
	copy(out, items)
	return out
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
