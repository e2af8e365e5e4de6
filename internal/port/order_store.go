package port

import (
	"context"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

type OrderStore interface {
	// PlaceOrder runs the whole placement as one atomic unit: warehouse
	// check, per-item stock reservation in ascending product-id order,
	// price snapshot, order and item rows. On any failure nothing is
	// persisted and no stock is decremented. Returns the new order id.
	PlaceOrder(ctx context.Context, order *domain.Order) (int64, error)

	// CancelOrder atomically releases every line item's quantity back to
	// the warehouse stock and flips the order to CANCELLED. Fails with
	// domain.ErrNotCancellable unless the order is PLACED. Returns the
	// cancelled order including its line items.
	CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error)
}
