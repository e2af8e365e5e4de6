package domain

import "time"

// Read-only view rows served by the reporting layer. Field names follow
// the public API payloads.

type OrderSummary struct {
	OrderID       int64       `json:"order_id"`
	WarehouseID   int64       `json:"warehouse_id"`
	WarehouseName string      `json:"warehouse_name"`
	CustomerName  string      `json:"customer_name"`
	OrderDate     time.Time   `json:"order_date"`
	Status        OrderStatus `json:"status"`
	TotalAmount   float64     `json:"total_amount"`
}

type WarehouseStockRow struct {
	ProductID   int64   `json:"product_id"`
	WarehouseID int64   `json:"warehouse_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	StockStatus string  `json:"stock_status"`
}

type WarehouseMetrics struct {
	TotalProducts   int `json:"totalProducts"`
	TotalUnits      int `json:"totalUnits"`
	LowStockCount   int `json:"lowStockCount"`
	OutOfStockCount int `json:"outOfStockCount"`
}

type DashboardCounts struct {
	TotalOrders     int `json:"totalOrders"`
	PendingOrders   int `json:"pendingOrders"`
	CompletedOrders int `json:"completedOrders"`
	CancelledOrders int `json:"cancelledOrders"`
}
