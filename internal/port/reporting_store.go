package port

import (
	"context"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

// ReportingStore is the read-only query surface consumed by dashboards
// and list views. Implementations never mutate order or stock state.
type ReportingStore interface {
	ListOrders(ctx context.Context) ([]domain.OrderSummary, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.OrderSummary, error)
	// GetOrder returns nil when the order does not exist.
	GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)

	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	// WarehouseMetrics returns nil when the warehouse has no stock rows.
	WarehouseMetrics(ctx context.Context, warehouseID int64) (*domain.WarehouseMetrics, error)
	WarehouseStock(ctx context.Context, warehouseID int64) ([]domain.WarehouseStockRow, error)

	ListProducts(ctx context.Context) ([]domain.Product, error)
	DashboardCounts(ctx context.Context) (*domain.DashboardCounts, error)
}
