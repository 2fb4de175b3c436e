package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository создаёт PostgreSQL-реализацию SaleRepository.
func NewSaleRepository(store *Store) domain.SaleRepository {
	return &saleRepository{db: store.DB()}
}

// Create сохраняет продажу. Уникальный индекс по order_id гарантирует
// не более одной продажи на заказ даже при конкурентных завершениях.
func (r *saleRepository) Create(sale domain.Sale) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	products, err := json.Marshal(sale.Products)
	if err != nil {
		return fmt.Errorf("encode sale products: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sales (
			id, order_id, products, total_amount, user_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		sale.ID, sale.OrderID, products, sale.TotalAmount, sale.UserID, sale.CreatedAt,
	)
	if err != nil {
		if violatesConstraint(err, saleOrderConstraint) {
			return domain.ErrSaleExists
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

func (r *saleRepository) Get(id string) (domain.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, products, total_amount, user_id, created_at
		FROM sales
		WHERE id = $1
	`, id)

	return scanSale(row)
}

func (r *saleRepository) GetByOrder(orderID string) (domain.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, products, total_amount, user_id, created_at
		FROM sales
		WHERE order_id = $1
	`, orderID)

	return scanSale(row)
}

func (r *saleRepository) List() ([]domain.Sale, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, products, total_amount, user_id, created_at
		FROM sales
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale rows: %w", err)
	}

	return sales, nil
}

func scanSale(row rowScanner) (domain.Sale, error) {
	var (
		sale     domain.Sale
		products []byte
	)

	if err := row.Scan(
		&sale.ID, &sale.OrderID, &products, &sale.TotalAmount, &sale.UserID, &sale.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sale{}, domain.ErrSaleNotFound
		}
		return domain.Sale{}, fmt.Errorf("scan sale: %w", err)
	}

	if len(products) > 0 {
		if err := json.Unmarshal(products, &sale.Products); err != nil {
			return domain.Sale{}, fmt.Errorf("decode sale products: %w", err)
		}
	}

	return sale, nil
}

var _ domain.SaleRepository = (*saleRepository)(nil)
