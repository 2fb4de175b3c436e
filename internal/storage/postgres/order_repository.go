package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	orderNumberConstraint = "orders_order_number_key"
	saleOrderConstraint   = "sales_order_id_key"
)

const orderColumns = `
	id, order_number, user_id, shipping_address, payment_method,
	payment_method_details, payment_result, items_price, tax_price,
	shipping_price, total_price, is_paid, paid_at, is_delivered,
	delivered_at, status, version, created_at, updated_at
`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	shippingAddress, paymentResult, err := marshalOrderPayloads(order)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		order.ID, order.OrderNumber, order.UserID, shippingAddress, order.PaymentMethod,
		nullableRaw(order.PaymentMethodDetails), paymentResult,
		order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice,
		order.IsPaid, order.PaidAt, order.IsDelivered, order.DeliveredAt,
		string(order.Status), order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if violatesConstraint(err, orderNumberConstraint) {
			return domain.ErrDuplicateOrderNumber
		}
		if isUniqueViolation(err) {
			return domain.ErrOrderVersionConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	if err = insertItemsTx(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) List() ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}

		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return count, nil
}

func (r *orderRepository) ExistsByNumber(orderNumber string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM orders WHERE order_number = $1
	`, orderNumber).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order number: %w", err)
}

// Save перезаписывает заказ с optimistic locking по version.
// Номер заказа не входит в UPDATE: он иммутабелен после создания.
// Позиции заменяются целиком в той же транзакции, иначе частичное
// обновление с новыми items разошлось бы с содержимым order_items.
func (r *orderRepository) Save(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	shippingAddress, paymentResult, err := marshalOrderPayloads(order)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET user_id = $1,
		    shipping_address = $2,
		    payment_method = $3,
		    payment_method_details = $4,
		    payment_result = $5,
		    items_price = $6,
		    tax_price = $7,
		    shipping_price = $8,
		    total_price = $9,
		    is_paid = $10,
		    paid_at = $11,
		    is_delivered = $12,
		    delivered_at = $13,
		    status = $14,
		    version = version + 1,
		    updated_at = $15
		WHERE id = $16
		  AND version = $17
	`,
		order.UserID, shippingAddress, order.PaymentMethod,
		nullableRaw(order.PaymentMethodDetails), paymentResult,
		order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice,
		order.IsPaid, order.PaidAt, order.IsDelivered, order.DeliveredAt,
		string(order.Status), order.UpdatedAt,
		order.ID, order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := r.orderExistsTx(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrOrderNotFound
		}
		return domain.ErrOrderVersionConflict
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if err = insertItemsTx(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save order: %w", err)
	}

	return nil
}

// Delete удаляет заказ; позиции удаляются каскадом через FK,
// продажи остаются нетронутыми.
func (r *orderRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func insertItemsTx(ctx context.Context, tx *sql.Tx, orderID string, items []domain.OrderItem) error {
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, qty, price, created_at
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			item.ID, orderID, item.ProductID, item.Qty, item.Price, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, qty, price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Qty, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) orderExistsTx(ctx context.Context, tx *sql.Tx, orderID string) (bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, orderID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order           domain.Order
		status          string
		shippingAddress []byte
		paymentDetails  []byte
		paymentResult   []byte
	)

	if err := row.Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &shippingAddress, &order.PaymentMethod,
		&paymentDetails, &paymentResult, &order.ItemsPrice, &order.TaxPrice,
		&order.ShippingPrice, &order.TotalPrice, &order.IsPaid, &order.PaidAt,
		&order.IsDelivered, &order.DeliveredAt, &status, &order.Version,
		&order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)

	if len(shippingAddress) > 0 {
		if err := json.Unmarshal(shippingAddress, &order.ShippingAddress); err != nil {
			return domain.Order{}, fmt.Errorf("decode shipping address: %w", err)
		}
	}
	if len(paymentDetails) > 0 {
		order.PaymentMethodDetails = json.RawMessage(paymentDetails)
	}
	if len(paymentResult) > 0 {
		var result domain.PaymentResult
		if err := json.Unmarshal(paymentResult, &result); err != nil {
			return domain.Order{}, fmt.Errorf("decode payment result: %w", err)
		}
		order.PaymentResult = &result
	}

	return order, nil
}

func marshalOrderPayloads(order domain.Order) ([]byte, []byte, error) {
	shippingAddress, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, nil, fmt.Errorf("encode shipping address: %w", err)
	}

	var paymentResult []byte
	if order.PaymentResult != nil {
		paymentResult, err = json.Marshal(order.PaymentResult)
		if err != nil {
			return nil, nil, fmt.Errorf("encode payment result: %w", err)
		}
	}

	return shippingAddress, paymentResult, nil
}

func nullableRaw(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func violatesConstraint(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
