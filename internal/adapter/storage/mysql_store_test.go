package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/rl1809/warehouse-orders/internal/core/domain"
)

// Fixture ids far away from anything seeded by hand.
const (
	testWarehouseID = int64(9001)
	testProductA    = int64(9101)
	testProductB    = int64(9102)
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/warehouse_orders?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	return db
}

func seedFixtures(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()

	// Remove earlier test orders first to keep the FKs happy.
	db.ExecContext(ctx, `DELETE oi FROM order_items oi
		JOIN orders o ON o.order_id = oi.order_id WHERE o.warehouse_id = ?`, testWarehouseID)
	db.ExecContext(ctx, `DELETE FROM orders WHERE warehouse_id = ?`, testWarehouseID)

	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO warehouses (warehouse_id, warehouse_name, location) VALUES (?, 'Test Warehouse', 'Test City')
		  ON DUPLICATE KEY UPDATE warehouse_name = 'Test Warehouse'`, []any{testWarehouseID}},
		{`INSERT INTO products (product_id, product_name, sku, price) VALUES (?, 'Test Keyboard', 'TST-KB', 25.50)
		  ON DUPLICATE KEY UPDATE price = 25.50`, []any{testProductA}},
		{`INSERT INTO products (product_id, product_name, sku, price) VALUES (?, 'Test Mouse', 'TST-MS', 9.99)
		  ON DUPLICATE KEY UPDATE price = 9.99`, []any{testProductB}},
		{`INSERT INTO warehouse_stock (warehouse_id, product_id, quantity) VALUES (?, ?, 5)
		  ON DUPLICATE KEY UPDATE quantity = 5`, []any{testWarehouseID, testProductA}},
		{`INSERT INTO warehouse_stock (warehouse_id, product_id, quantity) VALUES (?, ?, 3)
		  ON DUPLICATE KEY UPDATE quantity = 3`, []any{testWarehouseID, testProductB}},
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s.query, s.args...); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func stockQuantity(t *testing.T, db *sql.DB, productID int64) int {
	t.Helper()
	var quantity int
	err := db.QueryRow(`SELECT quantity FROM warehouse_stock WHERE warehouse_id = ? AND product_id = ?`,
		testWarehouseID, productID).Scan(&quantity)
	if err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return quantity
}

func testOrder(items ...domain.OrderItem) domain.Order {
	return domain.Order{
		WarehouseID:  testWarehouseID,
		CustomerName: "Test Customer",
		OrderDate:    time.Now().Truncate(time.Second),
		Status:       domain.OrderStatusPlaced,
		Items:        items,
	}
}

func TestMySQLPlaceOrder_Success(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()
	seedFixtures(t, db)

	ctx := context.Background()
	store := NewMySQLStore(db)

	order := testOrder(
		domain.OrderItem{ProductID: testProductA, Quantity: 3},
		domain.OrderItem{ProductID: testProductB, Quantity: 1},
	)
	orderID, err := store.PlaceOrder(ctx, &order)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if got := stockQuantity(t, db, testProductA); got != 2 {
		t.Errorf("expected stock 2, got %d", got)
	}
	if got := stockQuantity(t, db, testProductB); got != 2 {
		t.Errorf("expected stock 2, got %d", got)
	}

	var status domain.OrderStatus
	if err := db.QueryRow(`SELECT status FROM orders WHERE order_id = ?`, orderID).Scan(&status); err != nil {
		t.Fatalf("read order: %v", err)
	}
	if status != domain.OrderStatusPlaced {
		t.Errorf("expected PLACED, got %s", status)
	}

	var itemCount int
	db.QueryRow(`SELECT COUNT(*) FROM order_items WHERE order_id = ?`, orderID).Scan(&itemCount)
	if itemCount != 2 {
		t.Errorf("expected 2 items, got %d", itemCount)
	}
}

func TestMySQLPlaceOrder_AllOrNothing(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()
	seedFixtures(t, db)

	ctx := context.Background()
	store := NewMySQLStore(db)

	var before int
	db.QueryRow(`SELECT COUNT(*) FROM orders WHERE warehouse_id = ?`, testWarehouseID).Scan(&before)

	order := testOrder(
		domain.OrderItem{ProductID: testProductA, Quantity: 2},
		domain.OrderItem{ProductID: testProductB, Quantity: 9999},
	)
	_, err := store.PlaceOrder(ctx, &order)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	// Product A's individually satisfiable reservation must be rolled back.
	if got := stockQuantity(t, db, testProductA); got != 5 {
		t.Errorf("expected stock 5, got %d", got)
	}
	if got := stockQuantity(t, db, testProductB); got != 3 {
		t.Errorf("expected stock 3, got %d", got)
	}

	var after int
	db.QueryRow(`SELECT COUNT(*) FROM orders WHERE warehouse_id = ?`, testWarehouseID).Scan(&after)
	if after != before {
		t.Errorf("expected no order row, got %d new", after-before)
	}
}

func TestMySQLPlaceOrder_UnknownRefs(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()
	seedFixtures(t, db)

	ctx := context.Background()
	store := NewMySQLStore(db)

	order := testOrder(domain.OrderItem{ProductID: testProductA, Quantity: 1})
	order.WarehouseID = 999999999
	if _, err := store.PlaceOrder(ctx, &order); !errors.Is(err, domain.ErrUnknownWarehouse) {
		t.Errorf("expected ErrUnknownWarehouse, got: %v", err)
	}

	order = testOrder(domain.OrderItem{ProductID: 999999999, Quantity: 1})
	if _, err := store.PlaceOrder(ctx, &order); !errors.Is(err, domain.ErrUnknownProduct) {
		t.Errorf("expected ErrUnknownProduct, got: %v", err)
	}
}

func TestMySQLCancelOrder_RoundTrip(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()
	seedFixtures(t, db)

	ctx := context.Background()
	store := NewMySQLStore(db)

	order := testOrder(
		domain.OrderItem{ProductID: testProductA, Quantity: 3},
		domain.OrderItem{ProductID: testProductB, Quantity: 2},
	)
	orderID, err := store.PlaceOrder(ctx, &order)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	cancelled, err := store.CancelOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	if cancelled.Status != domain.OrderStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
	if len(cancelled.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(cancelled.Items))
	}

	if got := stockQuantity(t, db, testProductA); got != 5 {
		t.Errorf("expected stock restored to 5, got %d", got)
	}
	if got := stockQuantity(t, db, testProductB); got != 3 {
		t.Errorf("expected stock restored to 3, got %d", got)
	}

	// Double cancellation would restore stock twice.
	if _, err := store.CancelOrder(ctx, orderID); !errors.Is(err, domain.ErrNotCancellable) {
		t.Errorf("expected ErrNotCancellable, got: %v", err)
	}
}

func TestMySQLCancelOrder_Unknown(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	store := NewMySQLStore(db)
	if _, err := store.CancelOrder(context.Background(), 999999999); !errors.Is(err, domain.ErrUnknownOrder) {
		t.Errorf("expected ErrUnknownOrder, got: %v", err)
	}
}
