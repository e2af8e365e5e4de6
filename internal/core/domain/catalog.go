package domain

// Warehouse and Product are immutable reference data for the order core;
// they are created and maintained outside of it.

type Warehouse struct {
	ID       int64
	Name     string
	Location string
}

type Product struct {
	ID    int64
	Name  string
	SKU   string
	Price float64
}
