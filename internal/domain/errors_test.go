package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{ErrOrderNotFound, ErrSaleNotFound, ErrProductNotFound, ErrUserNotFound} {
		if !IsNotFound(err) {
			t.Errorf("expected IsNotFound(%v) = true", err)
		}
		if !IsNotFound(fmt.Errorf("wrapped: %w", err)) {
			t.Errorf("expected IsNotFound to see through wrapping of %v", err)
		}
	}

	if IsNotFound(ErrDuplicateOrderNumber) {
		t.Error("duplicate number is not a not-found error")
	}
	if IsNotFound(nil) {
		t.Error("nil is not a not-found error")
	}
}

func TestIsValidation(t *testing.T) {
	for _, err := range []error{
		ErrUserRequired, ErrItemsRequired, ErrItemProductRequired,
		ErrItemQtyInvalid, ErrItemPriceInvalid, ErrAmountNegative,
		ErrStatusInvalid, ErrOrderIDRequired,
	} {
		if !IsValidation(err) {
			t.Errorf("expected IsValidation(%v) = true", err)
		}
	}

	if IsValidation(errors.Join(ErrUserRequired, ErrItemsRequired)) != true {
		t.Error("joined validation errors should still be detected")
	}
	if IsValidation(ErrOrderNotFound) {
		t.Error("not-found is not a validation error")
	}
}

func TestSaleCreationError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &SaleCreationError{OrderID: "order-1", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}

	var target *SaleCreationError
	if !errors.As(fmt.Errorf("update: %w", err), &target) {
		t.Fatal("expected errors.As to find SaleCreationError through wrapping")
	}
	if target.OrderID != "order-1" {
		t.Errorf("unexpected order id: %s", target.OrderID)
	}
}
