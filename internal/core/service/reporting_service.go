package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
	"github.com/rl1809/warehouse-orders/internal/port"
)

// ReportingService serves the read-only views over the core's persisted
// state. It never mutates orders or stock; the per-warehouse stock view
// goes through a short-TTL cache that placement and cancellation
// invalidate.
type ReportingService struct {
	store  port.ReportingStore
	cache  port.CacheRepository
	logger *zap.Logger
}

func NewReportingService(store port.ReportingStore, cache port.CacheRepository, logger *zap.Logger) *ReportingService {
	return &ReportingService{store: store, cache: cache, logger: logger}
}

func (s *ReportingService) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	return s.store.ListOrders(ctx)
}

func (s *ReportingService) RecentOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	return s.store.RecentOrders(ctx, 5)
}

func (s *ReportingService) GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error) {
	return s.store.GetOrder(ctx, orderID)
}

func (s *ReportingService) ListOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	return s.store.ListOrderItems(ctx, orderID)
}

func (s *ReportingService) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	return s.store.ListWarehouses(ctx)
}

func (s *ReportingService) WarehouseMetrics(ctx context.Context, warehouseID int64) (*domain.WarehouseMetrics, error) {
	return s.store.WarehouseMetrics(ctx, warehouseID)
}

func (s *ReportingService) WarehouseStock(ctx context.Context, warehouseID int64) ([]domain.WarehouseStockRow, error) {
	rows, ok, err := s.cache.GetStockReport(ctx, warehouseID)
	if err != nil {
		s.logger.Warn("stock report cache read failed",
			zap.Int64("warehouse_id", warehouseID), zap.Error(err))
	} else if ok {
		return rows, nil
	}

	rows, err = s.store.WarehouseStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		if err := s.cache.SetStockReport(ctx, warehouseID, rows); err != nil {
			s.logger.Warn("stock report cache write failed",
				zap.Int64("warehouse_id", warehouseID), zap.Error(err))
		}
	}
	return rows, nil
}

func (s *ReportingService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *ReportingService) DashboardCounts(ctx context.Context) (*domain.DashboardCounts, error) {
	return s.store.DashboardCounts(ctx)
}
