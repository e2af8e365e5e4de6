package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

// Read-only reporting queries. Totals are computed in SQL as
// SUM(price * quantity) over the snapshotted line item prices.

const orderSummaryQuery = `
	SELECT o.order_id, o.warehouse_id, w.warehouse_name, o.customer_name,
	       o.order_date, o.status, SUM(oi.price * oi.quantity) AS total_amount
	FROM orders o
	JOIN warehouses w ON o.warehouse_id = w.warehouse_id
	JOIN order_items oi ON oi.order_id = o.order_id`

const orderSummaryGroup = `
	GROUP BY o.order_id, o.warehouse_id, w.warehouse_name, o.customer_name,
	         o.order_date, o.status`

func (m *MySQLStore) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	return m.queryOrderSummaries(ctx,
		orderSummaryQuery+orderSummaryGroup+` ORDER BY o.order_id`)
}

func (m *MySQLStore) RecentOrders(ctx context.Context, limit int) ([]domain.OrderSummary, error) {
	return m.queryOrderSummaries(ctx,
		orderSummaryQuery+orderSummaryGroup+` ORDER BY o.order_date DESC LIMIT ?`, limit)
}

func (m *MySQLStore) GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error) {
	summaries, err := m.queryOrderSummaries(ctx,
		orderSummaryQuery+` WHERE o.order_id = ?`+orderSummaryGroup, orderID)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}

func (m *MySQLStore) queryOrderSummaries(ctx context.Context, query string, args ...any) ([]domain.OrderSummary, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var summaries []domain.OrderSummary
	for rows.Next() {
		var s domain.OrderSummary
		err := rows.Scan(&s.OrderID, &s.WarehouseID, &s.WarehouseName,
			&s.CustomerName, &s.OrderDate, &s.Status, &s.TotalAmount)
		if err != nil {
			return nil, fmt.Errorf("scan order summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (m *MySQLStore) ListOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT order_id, product_id, quantity, price FROM order_items
		 WHERE order_id = ? ORDER BY product_id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (m *MySQLStore) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT warehouse_id, warehouse_name, location FROM warehouses ORDER BY warehouse_id`)
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []domain.Warehouse
	for rows.Next() {
		var w domain.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (m *MySQLStore) WarehouseMetrics(ctx context.Context, warehouseID int64) (*domain.WarehouseMetrics, error) {
	var metrics domain.WarehouseMetrics
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(quantity), 0),
		        COALESCE(SUM(quantity >= 1 AND quantity <= ?), 0),
		        COALESCE(SUM(quantity < 1), 0)
		 FROM warehouse_stock WHERE warehouse_id = ?`,
		domain.LowStockMax, warehouseID,
	).Scan(&metrics.TotalProducts, &metrics.TotalUnits,
		&metrics.LowStockCount, &metrics.OutOfStockCount)
	if err != nil {
		return nil, fmt.Errorf("query warehouse metrics: %w", err)
	}
	if metrics.TotalProducts == 0 {
		return nil, nil
	}
	return &metrics, nil
}

func (m *MySQLStore) WarehouseStock(ctx context.Context, warehouseID int64) ([]domain.WarehouseStockRow, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT p.product_id, ws.warehouse_id, p.product_name, p.sku, ws.quantity, p.price
		 FROM products p
		 JOIN warehouse_stock ws ON p.product_id = ws.product_id
		 WHERE ws.warehouse_id = ?
		 ORDER BY p.product_id`,
		warehouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query warehouse stock: %w", err)
	}
	defer rows.Close()

	var stock []domain.WarehouseStockRow
	for rows.Next() {
		var r domain.WarehouseStockRow
		err := rows.Scan(&r.ProductID, &r.WarehouseID, &r.ProductName,
			&r.SKU, &r.Quantity, &r.Price)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse stock: %w", err)
		}
		r.StockStatus = domain.StockStatusFor(r.Quantity)
		stock = append(stock, r)
	}
	return stock, rows.Err()
}

func (m *MySQLStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT product_id, product_name, sku, price FROM products ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLStore) DashboardCounts(ctx context.Context) (*domain.DashboardCounts, error) {
	var counts domain.DashboardCounts
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(status = ?), 0),
		        COALESCE(SUM(status = ?), 0),
		        COALESCE(SUM(status = ?), 0)
		 FROM orders`,
		domain.OrderStatusPlaced, domain.OrderStatusCompleted, domain.OrderStatusCancelled,
	).Scan(&counts.TotalOrders, &counts.PendingOrders,
		&counts.CompletedOrders, &counts.CancelledOrders)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query dashboard counts: %w", err)
	}
	return &counts, nil
}
