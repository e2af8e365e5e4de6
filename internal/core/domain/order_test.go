package domain

import (
	"errors"
	"testing"
)

func TestCanCancel(t *testing.T) {
	cases := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPlaced, true},
		{OrderStatusCompleted, false},
		{OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		order := Order{Status: tc.status}
		if got := order.CanCancel(); got != tc.want {
			t.Errorf("CanCancel() for %s = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestOrderTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{ProductID: 1, Quantity: 3, Price: 25.5},
			{ProductID: 2, Quantity: 2, Price: 9.99},
		},
	}

	want := 3*25.5 + 2*9.99
	if got := order.Total(); got != want {
		t.Errorf("Total() = %v, want %v", got, want)
	}
}

func TestInsufficientStockError(t *testing.T) {
	var err error = &InsufficientStockError{ProductID: 7}

	if !errors.Is(err, ErrInsufficientStock) {
		t.Error("expected InsufficientStockError to match ErrInsufficientStock")
	}
	if err.Error() != "insufficient stock for product 7" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
