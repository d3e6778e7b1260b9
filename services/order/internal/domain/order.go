package domain

import "time"

// Order represents an order header. Line items are owned by the
// fulfillment service and referenced by order id.
type Order struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	OrderDate     time.Time `json:"order_date"`
	Store         string    `json:"store"`
	TotalPrice    int64     `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
