package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a buyer on record
type Customer struct {
	ID        int64     `db:"customer_id" json:"customer_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email,omitempty"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product represents a product in the catalog. Price is the live catalog
// price and may change over time; orders keep their own snapshot.
type Product struct {
	ID        int64           `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	SKU       string          `db:"sku" json:"sku,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Order represents an order header. Total is computed once at creation
// from snapshot prices and never recalculated.
type Order struct {
	ID         int64           `db:"order_id" json:"order_id"`
	CustomerID int64           `db:"customer_id" json:"customer_id"`
	Status     string          `db:"status" json:"status"`
	Total      decimal.Decimal `db:"total" json:"total"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderItem represents a line on an order. UnitPrice is frozen at
// insertion time and is never touched by later catalog price changes.
type OrderItem struct {
	ID        int64           `db:"order_item_id" json:"order_item_id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// OrderLine is an order item joined with the referenced product's current
// name, plus the derived line total (quantity x unit_price).
type OrderLine struct {
	ProductID   int64           `db:"product_id" json:"product_id"`
	ProductName string          `db:"name" json:"name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal   decimal.Decimal `db:"-" json:"line_total"`
}

// OrderDetail is an order header together with its lines.
type OrderDetail struct {
	Order
	Items []OrderLine `json:"items"`
}

// OrderSummary is a listing row: the order header joined with the
// customer's name.
type OrderSummary struct {
	ID           int64           `db:"order_id" json:"order_id"`
	Status       string          `db:"status" json:"status"`
	Total        decimal.Decimal `db:"total" json:"total"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	CustomerName string          `db:"customer_name" json:"customer_name"`
}

// Order statuses. These are the only values ever persisted.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCancelled  = "cancelled"
	OrderStatusCompleted  = "completed"
)

var orderStatuses = map[string]struct{}{
	OrderStatusPending:    {},
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusCancelled:  {},
	OrderStatusCompleted:  {},
}

// NormalizeStatus lowercases and trims a status value and reports whether
// the result is one of the known order statuses.
func NormalizeStatus(status string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(status))
	_, ok := orderStatuses[s]
	return s, ok
}
