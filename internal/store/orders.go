package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ordertrack/internal/models"

	"github.com/shopspring/decimal"
)

// CreateOrder persists an order header and its items in one transaction.
// Every item must already carry its snapshot unit price; no price is read
// inside the write scope. On any failure nothing persists and the new id
// is only returned after a successful commit.
func (s *Store) CreateOrder(ctx context.Context, customerID int64, total decimal.Decimal, items []models.OrderItem) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (customer_id, status, total, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		customerID, models.OrderStatusPending, total, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, ?, ?)",
			orderID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return 0, fmt.Errorf("failed to insert order item for product %d: %w", item.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}
	return orderID, nil
}

// GetOrder retrieves an order header joined with its lines, each enriched
// with the product's current name and a derived line total. Returns nil
// when the order does not exist.
func (s *Store) GetOrder(ctx context.Context, orderID int64) (*models.OrderDetail, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT order_id, customer_id, status, total, created_at, updated_at FROM orders WHERE order_id = ?",
		orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []models.OrderLine
	err = s.db.SelectContext(ctx, &lines, `
		SELECT oi.product_id, p.name, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN products p ON oi.product_id = p.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.order_item_id`, orderID)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
	}

	return &models.OrderDetail{Order: order, Items: lines}, nil
}

// ListOrders retrieves the limit most recently created orders joined with
// the customer's name, newest first (insertion order breaks ties).
func (s *Store) ListOrders(ctx context.Context, limit int) ([]models.OrderSummary, error) {
	var orders []models.OrderSummary
	err := s.db.SelectContext(ctx, &orders, `
		SELECT o.order_id, o.status, o.total, o.created_at, c.name AS customer_name
		FROM orders o
		JOIN customers c ON o.customer_id = c.customer_id
		ORDER BY o.created_at DESC, o.order_id DESC
		LIMIT ?`, limit)
	return orders, err
}

// UpdateOrderStatus sets a new status and bumps updated_at in one write.
// The caller is responsible for passing a canonical status value.
// Returns true iff the order exists.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?",
		status, time.Now().UTC(), orderID)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteOrder removes an order; the storage engine cascades the delete to
// its items, so no orphaned rows survive. Returns true iff a row was removed.
func (s *Store) DeleteOrder(ctx context.Context, orderID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE order_id = ?", orderID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
