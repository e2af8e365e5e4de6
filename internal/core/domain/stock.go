package domain

// StockEntry is the per-(warehouse, product) available-quantity counter.
// Quantity must stay >= 0 under any interleaving of concurrent placements
// and cancellations; only the order store mutates it.
type StockEntry struct {
	WarehouseID int64
	ProductID   int64
	Quantity    int
}

// Stock status thresholds shared with the reporting layer.
const (
	LowStockMax = 20 // quantities 1..LowStockMax are "Low Stock"
	OutOfStock  = 0  // at or below this is "Out of Stock"
)

const (
	StockStatusIn  = "In Stock"
	StockStatusLow = "Low Stock"
	StockStatusOut = "Out of Stock"
)

// StockStatusFor maps a quantity to its reporting label.
func StockStatusFor(quantity int) string {
	switch {
	case quantity > LowStockMax:
		return StockStatusIn
	case quantity > OutOfStock:
		return StockStatusLow
	default:
		return StockStatusOut
	}
}
