package domain

import "time"

// Inventory is a stock record for a single product, keyed by product code.
// UnitPrice is stored in minor units (cents).
type Inventory struct {
	ID            int64     `json:"id"`
	ProductCode   string    `json:"product_code"`
	StockQuantity int       `json:"stock_quantity"`
	UnitPrice     int64     `json:"unit_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
