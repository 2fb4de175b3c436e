package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
)

func TestSaleRepository_PostgresCreateGetAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewSaleRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	sale1 := sampleSale("sale-1", "order-1", now.Add(-time.Minute))
	sale2 := sampleSale("sale-2", "order-2", now)

	if err := repo.Create(sale1); err != nil {
		t.Fatalf("create sale1: %v", err)
	}
	if err := repo.Create(sale2); err != nil {
		t.Fatalf("create sale2: %v", err)
	}

	got, err := repo.Get(sale1.ID)
	if err != nil {
		t.Fatalf("get sale1: %v", err)
	}
	if got.OrderID != sale1.OrderID || got.TotalAmount != sale1.TotalAmount || got.UserID != sale1.UserID {
		t.Fatalf("unexpected sale payload: %+v", got)
	}
	if len(got.Products) != len(sale1.Products) {
		t.Fatalf("unexpected products count: got=%d want=%d", len(got.Products), len(sale1.Products))
	}
	if got.Products[0].ProductID != sale1.Products[0].ProductID {
		t.Fatalf("unexpected product snapshot: %+v", got.Products[0])
	}

	byOrder, err := repo.GetByOrder(sale2.OrderID)
	if err != nil {
		t.Fatalf("get by order: %v", err)
	}
	if byOrder.ID != sale2.ID {
		t.Fatalf("unexpected sale by order: %+v", byOrder)
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(all) != 2 || all[0].ID != sale2.ID {
		t.Fatalf("unexpected list result: %+v", all)
	}
}

func TestSaleRepository_PostgresUniquePerOrder(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewSaleRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	first := sampleSale("sale-unique-1", "order-unique", now)
	second := sampleSale("sale-unique-2", "order-unique", now)

	if err := repo.Create(first); err != nil {
		t.Fatalf("create first sale: %v", err)
	}
	if err := repo.Create(second); !errors.Is(err, domain.ErrSaleExists) {
		t.Fatalf("expected ErrSaleExists for second sale, got %v", err)
	}

	if _, err := repo.Get("missing-sale"); !errors.Is(err, domain.ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
	if _, err := repo.GetByOrder("missing-order"); !errors.Is(err, domain.ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound by order, got %v", err)
	}
}

func sampleSale(id, orderID string, createdAt time.Time) domain.Sale {
	return domain.Sale{
		ID:      id,
		OrderID: orderID,
		Products: []domain.OrderItem{
			{
				ID:        id + "-item-1",
				ProductID: "product-1",
				Qty:       1,
				Price:     499.99,
				CreatedAt: createdAt,
			},
		},
		TotalAmount: 499.99,
		UserID:      "user-1",
		CreatedAt:   createdAt,
	}
}
