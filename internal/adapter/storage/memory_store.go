package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

type stockKey struct {
	warehouseID int64
	productID   int64
}

// MemoryStore is an in-process implementation of the order and reporting
// ports with the same all-or-nothing semantics as the MySQL store. A
// single mutex serializes every mutation, which trivially satisfies the
// per-entry serialization contract. It backs unit tests and local runs
// without a database.
type MemoryStore struct {
	mu          sync.Mutex
	warehouses  map[int64]domain.Warehouse
	products    map[int64]domain.Product
	stock       map[stockKey]*domain.StockEntry
	orders      map[int64]*domain.Order
	nextOrderID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		warehouses: make(map[int64]domain.Warehouse),
		products:   make(map[int64]domain.Product),
		stock:      make(map[stockKey]*domain.StockEntry),
		orders:     make(map[int64]*domain.Order),
	}
}

// Seeding helpers for tests and local fixtures.

func (m *MemoryStore) AddWarehouse(w domain.Warehouse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warehouses[w.ID] = w
}

func (m *MemoryStore) AddProduct(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *MemoryStore) SetStock(warehouseID, productID int64, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock[stockKey{warehouseID, productID}] = &domain.StockEntry{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    quantity,
	}
}

func (m *MemoryStore) RemoveStockEntry(warehouseID, productID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stock, stockKey{warehouseID, productID})
}

func (m *MemoryStore) StockQuantity(warehouseID, productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.stock[stockKey{warehouseID, productID}]; ok {
		return entry.Quantity
	}
	return 0
}

// SetOrderStatus forces a status, standing in for the external fulfillment
// process that moves orders to COMPLETED.
func (m *MemoryStore) SetOrderStatus(orderID int64, status domain.OrderStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[orderID]; ok {
		o.Status = status
	}
}

func (m *MemoryStore) PlaceOrder(_ context.Context, order *domain.Order) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.warehouses[order.WarehouseID]; !ok {
		return 0, domain.ErrUnknownWarehouse
	}

	// Check everything before mutating anything, so a failed line leaves
	// no partial decrement behind.
	for i := range order.Items {
		item := &order.Items[i]
		product, ok := m.products[item.ProductID]
		if !ok {
			return 0, fmt.Errorf("%w: product %d", domain.ErrUnknownProduct, item.ProductID)
		}
		item.Price = product.Price
		entry, ok := m.stock[stockKey{order.WarehouseID, item.ProductID}]
		if !ok || entry.Quantity < item.Quantity {
			return 0, &domain.InsufficientStockError{ProductID: item.ProductID}
		}
	}

	for _, item := range order.Items {
		m.stock[stockKey{order.WarehouseID, item.ProductID}].Quantity -= item.Quantity
	}

	m.nextOrderID++
	order.ID = m.nextOrderID
	stored := *order
	stored.Items = make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		item.OrderID = order.ID
		order.Items[i] = item
		stored.Items[i] = item
	}
	m.orders[order.ID] = &stored

	return order.ID, nil
}

func (m *MemoryStore) CancelOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return nil, domain.ErrUnknownOrder
	}
	if !order.CanCancel() {
		return nil, fmt.Errorf("%w: order %d is %s", domain.ErrNotCancellable, orderID, order.Status)
	}

	for _, item := range order.Items {
		if _, ok := m.stock[stockKey{order.WarehouseID, item.ProductID}]; !ok {
			return nil, fmt.Errorf("%w: no stock entry for product %d", domain.ErrUnknownProduct, item.ProductID)
		}
	}

	for _, item := range order.Items {
		m.stock[stockKey{order.WarehouseID, item.ProductID}].Quantity += item.Quantity
	}
	order.Status = domain.OrderStatusCancelled

	result := *order
	result.Items = append([]domain.OrderItem(nil), order.Items...)
	return &result, nil
}

func (m *MemoryStore) ListOrders(_ context.Context) ([]domain.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summaries := m.summariesLocked()
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].OrderID < summaries[j].OrderID })
	return summaries, nil
}

func (m *MemoryStore) RecentOrders(_ context.Context, limit int) ([]domain.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summaries := m.summariesLocked()
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].OrderDate.After(summaries[j].OrderDate) })
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (m *MemoryStore) GetOrder(_ context.Context, orderID int64) (*domain.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return nil, nil
	}
	summary := m.summaryLocked(order)
	return &summary, nil
}

func (m *MemoryStore) ListOrderItems(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return nil, nil
	}
	items := append([]domain.OrderItem(nil), order.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

func (m *MemoryStore) ListWarehouses(_ context.Context) ([]domain.Warehouse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	warehouses := make([]domain.Warehouse, 0, len(m.warehouses))
	for _, w := range m.warehouses {
		warehouses = append(warehouses, w)
	}
	sort.Slice(warehouses, func(i, j int) bool { return warehouses[i].ID < warehouses[j].ID })
	return warehouses, nil
}

func (m *MemoryStore) WarehouseMetrics(_ context.Context, warehouseID int64) (*domain.WarehouseMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var metrics domain.WarehouseMetrics
	for key, entry := range m.stock {
		if key.warehouseID != warehouseID {
			continue
		}
		metrics.TotalProducts++
		metrics.TotalUnits += entry.Quantity
		switch domain.StockStatusFor(entry.Quantity) {
		case domain.StockStatusLow:
			metrics.LowStockCount++
		case domain.StockStatusOut:
			metrics.OutOfStockCount++
		}
	}
	if metrics.TotalProducts == 0 {
		return nil, nil
	}
	return &metrics, nil
}

func (m *MemoryStore) WarehouseStock(_ context.Context, warehouseID int64) ([]domain.WarehouseStockRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stock []domain.WarehouseStockRow
	for key, entry := range m.stock {
		if key.warehouseID != warehouseID {
			continue
		}
		product := m.products[key.productID]
		stock = append(stock, domain.WarehouseStockRow{
			ProductID:   key.productID,
			WarehouseID: warehouseID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Quantity:    entry.Quantity,
			Price:       product.Price,
			StockStatus: domain.StockStatusFor(entry.Quantity),
		})
	}
	sort.Slice(stock, func(i, j int) bool { return stock[i].ProductID < stock[j].ProductID })
	return stock, nil
}

func (m *MemoryStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *MemoryStore) DashboardCounts(_ context.Context) (*domain.DashboardCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var counts domain.DashboardCounts
	for _, order := range m.orders {
		counts.TotalOrders++
		switch order.Status {
		case domain.OrderStatusPlaced:
			counts.PendingOrders++
		case domain.OrderStatusCompleted:
			counts.CompletedOrders++
		case domain.OrderStatusCancelled:
			counts.CancelledOrders++
		}
	}
	return &counts, nil
}

func (m *MemoryStore) summariesLocked() []domain.OrderSummary {
	summaries := make([]domain.OrderSummary, 0, len(m.orders))
	for _, order := range m.orders {
		summaries = append(summaries, m.summaryLocked(order))
	}
	return summaries
}

func (m *MemoryStore) summaryLocked(order *domain.Order) domain.OrderSummary {
	return domain.OrderSummary{
		OrderID:       order.ID,
		WarehouseID:   order.WarehouseID,
		WarehouseName: m.warehouses[order.WarehouseID].Name,
		CustomerName:  order.CustomerName,
		OrderDate:     order.OrderDate,
		Status:        order.Status,
		TotalAmount:   order.Total(),
	}
}
