package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
	"github.com/rl1809/warehouse-orders/internal/port"
)

var ErrDuplicateRequest = errors.New("duplicate request")

// maxTxAttempts bounds automatic retries of domain.ErrTxConflict. The
// conflict aborts before commit, so re-running the whole transaction is
// safe; domain.ErrAmbiguous is never retried.
const maxTxAttempts = 3

type PlaceOrderItem struct {
	ProductID int64
	Quantity  int
}

type PlaceOrderRequest struct {
	// RequestID, when set, deduplicates client retries via the cache.
	RequestID    string
	WarehouseID  int64
	CustomerName string
	Items        []PlaceOrderItem
}

type OrderService struct {
	store     port.OrderStore
	cache     port.CacheRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

func NewOrderService(store port.OrderStore, cache port.CacheRepository, publisher port.EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// PlaceOrder validates the request, reserves stock for every line item and
// creates the order as one atomic unit. Any failure leaves zero net effect
// on stock and order data.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (int64, error) {
	if err := validatePlacement(req); err != nil {
		return 0, err
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	// Ascending product id makes row lock acquisition deterministic, so two
	// orders touching overlapping products cannot deadlock each other.
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	idempotencyKey := ""
	if req.RequestID != "" {
		idempotencyKey = "order:" + req.RequestID
		ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
		if err != nil {
			return 0, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return 0, ErrDuplicateRequest
		}
	}

	order := domain.Order{
		WarehouseID:  req.WarehouseID,
		CustomerName: req.CustomerName,
		OrderDate:    time.Now(),
		Status:       domain.OrderStatusPlaced,
		Items:        items,
	}

	orderID, err := s.placeWithRetry(ctx, &order)
	if err != nil {
		// On an ambiguous commit the order may exist, so the key must
		// stay set until someone reconciles; releasing it would let a
		// retry place the order twice.
		if idempotencyKey != "" && !errors.Is(err, domain.ErrAmbiguous) {
			if relErr := s.cache.ReleaseIdempotency(ctx, idempotencyKey); relErr != nil {
				s.logger.Warn("failed to release idempotency key",
					zap.String("key", idempotencyKey), zap.Error(relErr))
			}
		}
		placementFailures.WithLabelValues(failureReason(err)).Inc()
		return 0, err
	}

	ordersPlaced.Inc()
	s.afterStockMutation(ctx, order.WarehouseID)

	ev := domain.OrderPlaced{
		EventID:      uuid.New().String(),
		OrderID:      orderID,
		WarehouseID:  order.WarehouseID,
		CustomerName: order.CustomerName,
		OccurredAt:   order.OrderDate,
	}
	for _, it := range order.Items {
		ev.Items = append(ev.Items, domain.OrderEventItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	if err := s.publisher.PublishOrderPlaced(ctx, ev); err != nil {
		// The order is committed; the event stream is best-effort.
		s.logger.Warn("failed to publish order placed event",
			zap.Int64("order_id", orderID), zap.Error(err))
	}

	s.logger.Info("order placed",
		zap.Int64("order_id", orderID),
		zap.Int64("warehouse_id", order.WarehouseID),
		zap.Int("items", len(order.Items)))

	return orderID, nil
}

// CancelOrder reverses the stock effect of a PLACED order and marks it
// CANCELLED. Terminal orders are rejected with domain.ErrNotCancellable.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return fmt.Errorf("%w: order id must be positive", domain.ErrInvalidInput)
	}

	var order *domain.Order
	var err error
	for attempt := 1; ; attempt++ {
		order, err = s.store.CancelOrder(ctx, orderID)
		if err == nil || !errors.Is(err, domain.ErrTxConflict) || attempt == maxTxAttempts {
			break
		}
		s.logger.Debug("retrying cancellation after conflict",
			zap.Int64("order_id", orderID), zap.Int("attempt", attempt))
	}
	if err != nil {
		cancellationFailures.WithLabelValues(failureReason(err)).Inc()
		return err
	}

	ordersCancelled.Inc()
	s.afterStockMutation(ctx, order.WarehouseID)

	ev := domain.OrderCancelled{
		EventID:     uuid.New().String(),
		OrderID:     orderID,
		WarehouseID: order.WarehouseID,
		OccurredAt:  time.Now(),
	}
	if err := s.publisher.PublishOrderCancelled(ctx, ev); err != nil {
		s.logger.Warn("failed to publish order cancelled event",
			zap.Int64("order_id", orderID), zap.Error(err))
	}

	s.logger.Info("order cancelled",
		zap.Int64("order_id", orderID),
		zap.Int64("warehouse_id", order.WarehouseID))

	return nil
}

func (s *OrderService) placeWithRetry(ctx context.Context, order *domain.Order) (int64, error) {
	for attempt := 1; ; attempt++ {
		orderID, err := s.store.PlaceOrder(ctx, order)
		if err == nil || !errors.Is(err, domain.ErrTxConflict) || attempt == maxTxAttempts {
			return orderID, err
		}
		s.logger.Debug("retrying placement after conflict",
			zap.Int64("warehouse_id", order.WarehouseID), zap.Int("attempt", attempt))
	}
}

func (s *OrderService) afterStockMutation(ctx context.Context, warehouseID int64) {
	if err := s.cache.InvalidateStockReport(ctx, warehouseID); err != nil {
		s.logger.Warn("failed to invalidate stock report cache",
			zap.Int64("warehouse_id", warehouseID), zap.Error(err))
	}
}

func validatePlacement(req PlaceOrderRequest) error {
	if req.WarehouseID <= 0 {
		return fmt.Errorf("%w: warehouse id must be positive", domain.ErrInvalidInput)
	}
	if req.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: order must have at least one line item", domain.ErrInvalidInput)
	}
	seen := make(map[int64]bool, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID <= 0 {
			return fmt.Errorf("%w: product id must be positive", domain.ErrInvalidInput)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
		}
		if seen[it.ProductID] {
			return fmt.Errorf("%w: duplicate line item for product %d", domain.ErrInvalidInput, it.ProductID)
		}
		seen[it.ProductID] = true
	}
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrUnknownWarehouse):
		return "unknown_warehouse"
	case errors.Is(err, domain.ErrUnknownProduct):
		return "unknown_product"
	case errors.Is(err, domain.ErrUnknownOrder):
		return "unknown_order"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotCancellable):
		return "not_cancellable"
	case errors.Is(err, domain.ErrTxConflict):
		return "tx_conflict"
	case errors.Is(err, domain.ErrAmbiguous):
		return "ambiguous"
	default:
		return "internal"
	}
}
