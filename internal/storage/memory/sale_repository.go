package memory

import (
	"sort"
	"sync"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

// saleRepositoryInMemory — in-memory реализация SaleRepository.
type saleRepositoryInMemory struct {
	mu      sync.RWMutex
	items   map[string]domain.Sale
	byOrder map[string]string
}

// NewSaleRepository возвращает in-memory репозиторий продаж.
func NewSaleRepository() domain.SaleRepository {
	return &saleRepositoryInMemory{
		items:   make(map[string]domain.Sale),
		byOrder: make(map[string]string),
	}
}

// Create сохраняет продажу; вторая продажа по тому же заказу отклоняется.
func (r *saleRepositoryInMemory) Create(sale domain.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byOrder[sale.OrderID]; taken {
		return domain.ErrSaleExists
	}
	r.items[sale.ID] = sale
	r.byOrder[sale.OrderID] = sale.ID
	return nil
}

// Get возвращает продажу или ErrSaleNotFound.
func (r *saleRepositoryInMemory) Get(id string) (domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sale, ok := r.items[id]
	if !ok {
		return domain.Sale{}, domain.ErrSaleNotFound
	}
	return sale, nil
}

// GetByOrder возвращает продажу по идентификатору заказа.
func (r *saleRepositoryInMemory) GetByOrder(orderID string) (domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byOrder[orderID]
	if !ok {
		return domain.Sale{}, domain.ErrSaleNotFound
	}
	return r.items[id], nil
}

// List возвращает все продажи от новых к старым.
func (r *saleRepositoryInMemory) List() ([]domain.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Sale, 0, len(r.items))
	for _, sale := range r.items {
		result = append(result, sale)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

var _ domain.SaleRepository = (*saleRepositoryInMemory)(nil)
