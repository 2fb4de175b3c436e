package domain

import (
	"errors"
	"testing"
)

func validOrder() Order {
	return Order{
		ID:          "order-1",
		OrderNumber: "DS-12345",
		UserID:      "user-1",
		Items: []OrderItem{
			{ID: "item-1", ProductID: "product-1", Qty: 2, Price: 499.99},
		},
		ItemsPrice: 999.98,
		TotalPrice: 999.98,
		Status:     OrderStatusPending,
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled,
	}
	for _, status := range valid {
		if !status.IsValid() {
			t.Errorf("status %s should be valid", status)
		}
	}

	for _, status := range []OrderStatus{"", "Unknown", "pending"} {
		if status.IsValid() {
			t.Errorf("status %q should be invalid", status)
		}
	}
}

func TestOrder_ValidateInvariants(t *testing.T) {
	order := validOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	cases := []struct {
		name   string
		mutate func(*Order)
		want   error
	}{
		{name: "missing user", mutate: func(o *Order) { o.UserID = "" }, want: ErrUserRequired},
		{name: "no items", mutate: func(o *Order) { o.Items = nil }, want: ErrItemsRequired},
		{name: "invalid status", mutate: func(o *Order) { o.Status = "Unknown" }, want: ErrStatusInvalid},
		{name: "item without product", mutate: func(o *Order) { o.Items[0].ProductID = "" }, want: ErrItemProductRequired},
		{name: "zero qty", mutate: func(o *Order) { o.Items[0].Qty = 0 }, want: ErrItemQtyInvalid},
		{name: "negative price", mutate: func(o *Order) { o.Items[0].Price = -1 }, want: ErrItemPriceInvalid},
		{name: "negative total", mutate: func(o *Order) { o.TotalPrice = -1 }, want: ErrAmountNegative},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := validOrder()
			tc.mutate(&order)

			errs := order.ValidateInvariants()
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			for _, err := range errs {
				if errors.Is(err, tc.want) {
					return
				}
			}
			t.Fatalf("expected %v among %v", tc.want, errs)
		})
	}
}

func TestOrder_SnapshotItems(t *testing.T) {
	order := validOrder()
	order.Items[0].Product = &Product{ID: "product-1", Name: "Football Jersey"}

	snapshot := order.SnapshotItems()
	if len(snapshot) != len(order.Items) {
		t.Fatalf("expected %d items, got %d", len(order.Items), len(snapshot))
	}
	if snapshot[0].Product != nil {
		t.Error("snapshot must drop resolved product references")
	}

	// Слепок независим от исходного среза.
	snapshot[0].Qty = 99
	if order.Items[0].Qty != 2 {
		t.Errorf("source items mutated through snapshot: %d", order.Items[0].Qty)
	}
}

func TestSale_Validate(t *testing.T) {
	sale := Sale{
		ID:          "sale-1",
		OrderID:     "order-1",
		Products:    []OrderItem{{ID: "item-1", ProductID: "product-1", Qty: 1, Price: 10}},
		TotalAmount: 10,
		UserID:      "user-1",
	}
	if errs := sale.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	sale.OrderID = ""
	sale.Products = nil
	sale.TotalAmount = -1

	errs := sale.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
}
