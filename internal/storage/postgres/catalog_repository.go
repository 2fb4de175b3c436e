package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт lookup-репозиторий товаров каталога.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, image, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.Name, &product.Price, &product.Image, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт lookup-репозиторий покупателей.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{db: store.DB()}
}

func (r *userRepository) Get(id string) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var user domain.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}

	return user, nil
}

var (
	_ domain.ProductRepository = (*productRepository)(nil)
	_ domain.UserRepository    = (*userRepository)(nil)
)
