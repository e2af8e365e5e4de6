package domain

import "time"

// Order events published after a successful commit, for downstream
// consumers (fulfillment, projections). They are informative only; the
// relational store remains the source of truth.

type OrderEventItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderPlaced struct {
	EventID      string           `json:"event_id"`
	OrderID      int64            `json:"order_id"`
	WarehouseID  int64            `json:"warehouse_id"`
	CustomerName string           `json:"customer_name"`
	Items        []OrderEventItem `json:"items"`
	OccurredAt   time.Time        `json:"occurred_at"`
}

type OrderCancelled struct {
	EventID     string    `json:"event_id"`
	OrderID     int64     `json:"order_id"`
	WarehouseID int64     `json:"warehouse_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}
