package store

import (
	"context"
	"path/filepath"
	"testing"

	"ordertrack/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCustomerRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateCustomer(ctx, "Alice Johnson", "alice@corp.com", "")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := s.GetCustomer(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice Johnson", got.Name)
	assert.Equal(t, "alice@corp.com", got.Email)
	assert.Empty(t, got.Phone)

	missing, err := s.GetCustomer(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductConstraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, "Laptop Stand", decimal.RequireFromString("29.99"), "SKU-LP-100")
	require.NoError(t, err)

	// Duplicate SKU must fail the write.
	_, err = s.CreateProduct(ctx, "Another Stand", decimal.RequireFromString("19.99"), "SKU-LP-100")
	assert.Error(t, err)

	// Negative price violates the check constraint.
	_, err = s.CreateProduct(ctx, "Broken", decimal.RequireFromString("-1"), "")
	assert.Error(t, err)

	// Products without a SKU must not collide with each other.
	_, err = s.CreateProduct(ctx, "No SKU 1", decimal.RequireFromString("1.00"), "")
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, "No SKU 2", decimal.RequireFromString("2.00"), "")
	require.NoError(t, err)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestGetProductPrices(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateProduct(ctx, "A", decimal.RequireFromString("10.00"), "")
	require.NoError(t, err)
	b, err := s.CreateProduct(ctx, "B", decimal.RequireFromString("5.50"), "")
	require.NoError(t, err)

	prices, err := s.GetProductPrices(ctx, []int64{a.ID, b.ID, 9999})
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "10.00", prices[a.ID].StringFixed(2))
	assert.Equal(t, "5.50", prices[b.ID].StringFixed(2))

	empty, err := s.GetProductPrices(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpdateProductPrice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, "A", decimal.RequireFromString("10.00"), "")
	require.NoError(t, err)

	updated, err := s.UpdateProductPrice(ctx, p.ID, decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "12.50", got.Price.StringFixed(2))

	updated, err = s.UpdateProductPrice(ctx, 9999, decimal.RequireFromString("1.00"))
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestCreateOrderRollsBackOnFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cust, err := s.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)
	prod, err := s.CreateProduct(ctx, "A", decimal.RequireFromString("10.00"), "")
	require.NoError(t, err)

	// The second item references a missing product; the foreign key fails
	// the insert and the whole transaction, header included, rolls back.
	items := []models.OrderItem{
		{ProductID: prod.ID, Quantity: 1, UnitPrice: prod.Price},
		{ProductID: 9999, Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
	}
	_, err = s.CreateOrder(ctx, cust.ID, decimal.RequireFromString("11.00"), items)
	require.Error(t, err)

	var orderCount, itemCount int
	require.NoError(t, s.GetDB().Get(&orderCount, "SELECT COUNT(*) FROM orders"))
	require.NoError(t, s.GetDB().Get(&itemCount, "SELECT COUNT(*) FROM order_items"))
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func TestDeleteOrderCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cust, err := s.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)
	prod, err := s.CreateProduct(ctx, "A", decimal.RequireFromString("10.00"), "")
	require.NoError(t, err)

	orderID, err := s.CreateOrder(ctx, cust.ID, decimal.RequireFromString("20.00"),
		[]models.OrderItem{{ProductID: prod.ID, Quantity: 2, UnitPrice: prod.Price}})
	require.NoError(t, err)

	deleted, err := s.DeleteOrder(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var itemCount int
	require.NoError(t, s.GetDB().Get(&itemCount,
		"SELECT COUNT(*) FROM order_items WHERE order_id = ?", orderID))
	assert.Zero(t, itemCount)

	deleted, err = s.DeleteOrder(ctx, orderID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteCustomerCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cust, err := s.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)
	prod, err := s.CreateProduct(ctx, "A", decimal.RequireFromString("10.00"), "")
	require.NoError(t, err)

	items := []models.OrderItem{{ProductID: prod.ID, Quantity: 1, UnitPrice: prod.Price}}
	first, err := s.CreateOrder(ctx, cust.ID, prod.Price, items)
	require.NoError(t, err)
	second, err := s.CreateOrder(ctx, cust.ID, prod.Price, items)
	require.NoError(t, err)

	deleted, err := s.DeleteCustomer(ctx, cust.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	for _, id := range []int64{first, second} {
		order, err := s.GetOrder(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, order)
	}

	var itemCount int
	require.NoError(t, s.GetDB().Get(&itemCount, "SELECT COUNT(*) FROM order_items"))
	assert.Zero(t, itemCount)

	deleted, err = s.DeleteCustomer(ctx, cust.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListOrdersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cust, err := s.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)
	prod, err := s.CreateProduct(ctx, "A", decimal.RequireFromString("10.00"), "")
	require.NoError(t, err)

	items := []models.OrderItem{{ProductID: prod.ID, Quantity: 1, UnitPrice: prod.Price}}
	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := s.CreateOrder(ctx, cust.ID, prod.Price, items)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	orders, err := s.ListOrders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[1], orders[1].ID)
	assert.Equal(t, "Alice", orders[0].CustomerName)
}

func TestUpdateOrderStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cust, err := s.CreateCustomer(ctx, "Alice", "", "")
	require.NoError(t, err)
	prod, err := s.CreateProduct(ctx, "A", decimal.RequireFromString("10.00"), "")
	require.NoError(t, err)

	orderID, err := s.CreateOrder(ctx, cust.ID, prod.Price,
		[]models.OrderItem{{ProductID: prod.ID, Quantity: 1, UnitPrice: prod.Price}})
	require.NoError(t, err)

	updated, err := s.UpdateOrderStatus(ctx, orderID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.True(t, updated)

	order, err := s.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	assert.False(t, order.UpdatedAt.Before(order.CreatedAt))

	updated, err = s.UpdateOrderStatus(ctx, 9999, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.False(t, updated)
}
