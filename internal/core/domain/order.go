package domain

import "time"

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID           int64
	WarehouseID  int64
	CustomerName string
	OrderDate    time.Time
	Status       OrderStatus
	Items        []OrderItem
}

type OrderItem struct {
	OrderID   int64
	ProductID int64
	Quantity  int
	Price     float64 // unit price snapshotted at placement time
}

// CanCancel reports whether the order may transition to CANCELLED.
// COMPLETED and CANCELLED are terminal: no stock-affecting transition
// leaves either state.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPlaced
}

// Total is the sum of quantity x snapshotted unit price over the line items.
func (o *Order) Total() float64 {
	var total float64
	for _, it := range o.Items {
		total += float64(it.Quantity) * it.Price
	}
	return total
}
