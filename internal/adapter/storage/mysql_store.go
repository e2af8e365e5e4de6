package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

// MySQL error numbers that mean the transaction aborted on a lock and can
// be retried as a whole.
const (
	mysqlErrDeadlock        = 1213
	mysqlErrLockWaitTimeout = 1205
)

type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// PlaceOrder runs the placement as one transaction: warehouse check, price
// snapshot and stock reservation per line item, then the order header and
// item rows. Reservation happens before the order row is written, so a
// failed reservation never leaves a visible order to compensate.
//
// Callers pass items sorted ascending by product id; the reservation
// UPDATEs then acquire row locks in a deterministic order, which prevents
// deadlock cycles between orders touching overlapping products.
func (m *MySQLStore) PlaceOrder(ctx context.Context, order *domain.Order) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM warehouses WHERE warehouse_id = ?`,
		order.WarehouseID,
	).Scan(&count)
	if err != nil {
		return 0, mapMySQLError("check warehouse", err)
	}
	if count == 0 {
		return 0, domain.ErrUnknownWarehouse
	}

	for i := range order.Items {
		item := &order.Items[i]

		err = tx.QueryRowContext(ctx,
			`SELECT price FROM products WHERE product_id = ?`,
			item.ProductID,
		).Scan(&item.Price)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: product %d", domain.ErrUnknownProduct, item.ProductID)
		}
		if err != nil {
			return 0, mapMySQLError("snapshot price", err)
		}

		if err := reserveStock(ctx, tx, order.WarehouseID, item.ProductID, item.Quantity); err != nil {
			return 0, err
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (warehouse_id, customer_name, order_date, status)
		 VALUES (?, ?, ?, ?)`,
		order.WarehouseID, order.CustomerName, order.OrderDate, order.Status,
	)
	if err != nil {
		return 0, mapMySQLError("insert order", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order id: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = orderID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price)
			 VALUES (?, ?, ?, ?)`,
			orderID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			return 0, mapMySQLError("insert order item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		// The commit outcome is unknown; surfacing it as ambiguous keeps
		// the caller from retrying into a double placement.
		return 0, fmt.Errorf("%w: commit placement: %v", domain.ErrAmbiguous, err)
	}

	order.ID = orderID
	return orderID, nil
}

// CancelOrder reverses the stock effect of a PLACED order and flips it to
// CANCELLED, all in one transaction. The order row is locked first so a
// concurrent cancellation or fulfillment serializes on it.
func (m *MySQLStore) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var order domain.Order
	err = tx.QueryRowContext(ctx,
		`SELECT order_id, warehouse_id, customer_name, order_date, status
		 FROM orders WHERE order_id = ? FOR UPDATE`,
		orderID,
	).Scan(&order.ID, &order.WarehouseID, &order.CustomerName, &order.OrderDate, &order.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnknownOrder
	}
	if err != nil {
		return nil, mapMySQLError("load order", err)
	}

	if !order.CanCancel() {
		return nil, fmt.Errorf("%w: order %d is %s", domain.ErrNotCancellable, orderID, order.Status)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT product_id, quantity, price FROM order_items
		 WHERE order_id = ? ORDER BY product_id`,
		orderID,
	)
	if err != nil {
		return nil, mapMySQLError("load order items", err)
	}
	for rows.Next() {
		item := domain.OrderItem{OrderID: orderID}
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, mapMySQLError("load order items", err)
	}
	rows.Close()

	for _, item := range order.Items {
		if err := releaseStock(ctx, tx, order.WarehouseID, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE order_id = ?`,
		domain.OrderStatusCancelled, orderID,
	)
	if err != nil {
		return nil, mapMySQLError("update order status", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit cancellation: %v", domain.ErrAmbiguous, err)
	}

	order.Status = domain.OrderStatusCancelled
	return &order, nil
}

// reserveStock is the atomic check-then-decrement: the quantity guard and
// the decrement happen in one UPDATE, so two concurrent reservations on
// the same entry can never both pass the check and drive it negative.
func reserveStock(ctx context.Context, tx *sql.Tx, warehouseID, productID int64, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE warehouse_stock SET quantity = quantity - ?
		 WHERE warehouse_id = ? AND product_id = ? AND quantity >= ?`,
		quantity, warehouseID, productID, quantity,
	)
	if err != nil {
		return mapMySQLError("reserve stock", err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return &domain.InsufficientStockError{ProductID: productID}
	}
	return nil
}

// releaseStock adds the quantity back unconditionally; the amount is
// bounded by the reservation it compensates. A missing entry aborts the
// cancellation so no partial restore ever commits.
func releaseStock(ctx context.Context, tx *sql.Tx, warehouseID, productID int64, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE warehouse_stock SET quantity = quantity + ?
		 WHERE warehouse_id = ? AND product_id = ?`,
		quantity, warehouseID, productID,
	)
	if err != nil {
		return mapMySQLError("release stock", err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: no stock entry for product %d", domain.ErrUnknownProduct, productID)
	}
	return nil
}

func mapMySQLError(op string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrDeadlock, mysqlErrLockWaitTimeout:
			return fmt.Errorf("%s: %w", op, domain.ErrTxConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
