// Package domain contains the core entities for the fulfillment service.
package domain

import "time"

// LineItem is a fulfilled order line. Prices are minor units (cents).
// Subtotal is quantity times the unit price resolved at fulfillment time;
// TotalPrice carries the same value per item, totals across an order are
// computed by summing items.
type LineItem struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	ProductCode string    `json:"product_code"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	Subtotal    int64     `json:"subtotal"`
	TotalPrice  int64     `json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
}
