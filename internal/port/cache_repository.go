package port

import (
	"context"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency frees a key after a failed attempt so the client may retry
	ReleaseIdempotency(ctx context.Context, key string) error

	// GetStockReport returns the cached stock view for a warehouse; the
	// second result is false on a miss.
	GetStockReport(ctx context.Context, warehouseID int64) ([]domain.WarehouseStockRow, bool, error)

	// SetStockReport caches the stock view with a short TTL
	SetStockReport(ctx context.Context, warehouseID int64, rows []domain.WarehouseStockRow) error

	// InvalidateStockReport drops the cached view after a stock mutation
	InvalidateStockReport(ctx context.Context, warehouseID int64) error
}
