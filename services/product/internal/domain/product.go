package domain

import (
	"time"
)

// Product represents a product in the catalog. Price is stored in minor
// units (cents). The stock field is the catalog's view; the inventory
// service owns the authoritative stock count, keyed by ProductCode.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ProductCode string    `json:"product_code"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
