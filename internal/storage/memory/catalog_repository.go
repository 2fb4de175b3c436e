package memory

import (
	"sync"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

// productRepositoryInMemory — lookup-хранилище товаров для резолвинга ссылок.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory каталог товаров.
func NewProductRepository() *productRepositoryInMemory {
	return &productRepositoryInMemory{items: make(map[string]domain.Product)}
}

// Put добавляет или заменяет товар (используется при наполнении в тестах и dev-режиме).
func (r *productRepositoryInMemory) Put(product domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[product.ID] = product
}

// Get возвращает товар или ErrProductNotFound.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// userRepositoryInMemory — lookup-хранилище покупателей.
type userRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.User
}

// NewUserRepository возвращает in-memory хранилище покупателей.
func NewUserRepository() *userRepositoryInMemory {
	return &userRepositoryInMemory{items: make(map[string]domain.User)}
}

// Put добавляет или заменяет покупателя.
func (r *userRepositoryInMemory) Put(user domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[user.ID] = user
}

// Get возвращает покупателя или ErrUserNotFound.
func (r *userRepositoryInMemory) Get(id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.items[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

var (
	_ domain.ProductRepository = (*productRepositoryInMemory)(nil)
	_ domain.UserRepository    = (*userRepositoryInMemory)(nil)
)
