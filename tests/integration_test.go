package tests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/warehouse-orders/internal/adapter/events"
	"github.com/rl1809/warehouse-orders/internal/adapter/storage"
	"github.com/rl1809/warehouse-orders/internal/core/domain"
	"github.com/rl1809/warehouse-orders/internal/core/service"
)

const (
	integrationWarehouseID = int64(9501)
	integrationProductID   = int64(9601)
)

type testEnv struct {
	redis   *redis.Client
	mysql   *sql.DB
	cache   *storage.RedisAdapter
	store   *storage.MySQLStore
	cleanup func()
}

func setupTestEnv(t *testing.T) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/warehouse_orders?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return &testEnv{
		redis: rdb,
		mysql: db,
		cache: storage.NewRedisAdapter(rdb),
		store: storage.NewMySQLStore(db),
		cleanup: func() {
			rdb.Close()
			db.Close()
		},
	}
}

func (env *testEnv) seed(t *testing.T, initialStock int) {
	t.Helper()
	ctx := context.Background()

	env.mysql.ExecContext(ctx, `DELETE oi FROM order_items oi
		JOIN orders o ON o.order_id = oi.order_id WHERE o.warehouse_id = ?`, integrationWarehouseID)
	env.mysql.ExecContext(ctx, `DELETE FROM orders WHERE warehouse_id = ?`, integrationWarehouseID)

	stmts := []string{
		fmt.Sprintf(`INSERT INTO warehouses (warehouse_id, warehouse_name, location)
			VALUES (%d, 'Integration Warehouse', 'Test City')
			ON DUPLICATE KEY UPDATE warehouse_name = 'Integration Warehouse'`, integrationWarehouseID),
		fmt.Sprintf(`INSERT INTO products (product_id, product_name, sku, price)
			VALUES (%d, 'Integration Widget', 'INT-W', 12.50)
			ON DUPLICATE KEY UPDATE price = 12.50`, integrationProductID),
		fmt.Sprintf(`INSERT INTO warehouse_stock (warehouse_id, product_id, quantity)
			VALUES (%d, %d, %d)
			ON DUPLICATE KEY UPDATE quantity = %d`,
			integrationWarehouseID, integrationProductID, initialStock, initialStock),
	}
	for _, stmt := range stmts {
		if _, err := env.mysql.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
}

func (env *testEnv) stockQuantity(t *testing.T) int {
	t.Helper()
	var quantity int
	err := env.mysql.QueryRow(
		`SELECT quantity FROM warehouse_stock WHERE warehouse_id = ? AND product_id = ?`,
		integrationWarehouseID, integrationProductID,
	).Scan(&quantity)
	if err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return quantity
}

func TestIntegration_ConcurrentPlacementAndCancellation(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	initialStock := 10
	totalRequests := 20
	env.seed(t, initialStock)

	svc := service.NewOrderService(env.store, env.cache, events.NopPublisher{}, zap.NewNop())
	ctx := context.Background()

	var successCount atomic.Int32
	var orderIDs sync.Map
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			orderID, err := svc.PlaceOrder(ctx, service.PlaceOrderRequest{
				RequestID:    uuid.New().String(),
				WarehouseID:  integrationWarehouseID,
				CustomerName: fmt.Sprintf("customer-%d", id),
				Items: []service.PlaceOrderItem{
					{ProductID: integrationProductID, Quantity: 1},
				},
			})
			if err == nil {
				successCount.Add(1)
				orderIDs.Store(orderID, struct{}{})
			} else if !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	// Oversubscribed by 2x: exactly initialStock placements may win.
	if got := successCount.Load(); got != int32(initialStock) {
		t.Errorf("expected %d successful placements, got %d", initialStock, got)
	}
	if got := env.stockQuantity(t); got != 0 {
		t.Errorf("expected stock 0, got %d", got)
	}

	// Cancel every placed order; stock must return to its initial level.
	orderIDs.Range(func(key, _ any) bool {
		if err := svc.CancelOrder(ctx, key.(int64)); err != nil {
			t.Errorf("cancel %v: %v", key, err)
		}
		return true
	})
	if got := env.stockQuantity(t); got != initialStock {
		t.Errorf("expected stock restored to %d, got %d", initialStock, got)
	}
}

func TestIntegration_IdempotentPlacement(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()
	env.seed(t, 10)

	svc := service.NewOrderService(env.store, env.cache, events.NopPublisher{}, zap.NewNop())
	ctx := context.Background()

	req := service.PlaceOrderRequest{
		RequestID:    uuid.New().String(),
		WarehouseID:  integrationWarehouseID,
		CustomerName: "Alice",
		Items: []service.PlaceOrderItem{
			{ProductID: integrationProductID, Quantity: 2},
		},
	}

	if _, err := svc.PlaceOrder(ctx, req); err != nil {
		t.Fatalf("first placement failed: %v", err)
	}
	if _, err := svc.PlaceOrder(ctx, req); !errors.Is(err, service.ErrDuplicateRequest) {
		t.Errorf("expected ErrDuplicateRequest, got: %v", err)
	}
	if got := env.stockQuantity(t); got != 8 {
		t.Errorf("expected stock 8, got %d", got)
	}
}
