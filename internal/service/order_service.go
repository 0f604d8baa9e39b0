package service

import (
	"context"
	"fmt"
	"time"

	"ordertrack/internal/models"
	"ordertrack/internal/store"
	"ordertrack/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService owns the business rules around the store: snapshot pricing,
// status normalization, and input validation. The store handle is injected
// so tests can run against an in-memory database.
type OrderService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store) *OrderService {
	return &OrderService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// OrderItemInput is one requested order line. Duplicate product ids across
// inputs are kept as separate lines, never merged.
type OrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CreateOrder creates an order for the customer with snapshot pricing:
// current prices for the referenced products are read once, in one batch,
// before the write transaction; the computed total and every line's unit
// price come from that single consistent view. If any referenced product
// is missing the whole operation fails and nothing persists.
func (s *OrderService) CreateOrder(ctx context.Context, customerID int64, items []OrderItemInput) (int64, error) {
	start := time.Now()
	defer func() {
		util.OrderCreateLatency.Observe(time.Since(start).Seconds())
	}()

	if len(items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("no_items").Inc()
		return 0, models.ErrNoItems
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			util.OrdersFailedTotal.WithLabelValues("invalid_quantity").Inc()
			return 0, models.ErrItemQuantityInvalid
		}
	}

	productIDs := distinctProductIDs(items)

	prices, err := s.store.GetProductPrices(ctx, productIDs)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return 0, fmt.Errorf("failed to fetch product prices: %w", err)
	}

	for _, item := range items {
		if _, ok := prices[item.ProductID]; !ok {
			util.OrdersFailedTotal.WithLabelValues("product_not_found").Inc()
			return 0, &models.ProductNotFoundError{ProductID: item.ProductID}
		}
	}

	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		price := prices[item.ProductID]
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}

	orderID, err := s.store.CreateOrder(ctx, customerID, total, orderItems)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", customerID),
		zap.Int("items", len(orderItems)),
		zap.String("total", total.StringFixed(2)))

	return orderID, nil
}

// distinctProductIDs collects the distinct product ids referenced by items.
func distinctProductIDs(items []OrderItemInput) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// GetOrder retrieves an order with its lines, or nil when absent.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.OrderDetail, error) {
	return s.store.GetOrder(ctx, orderID)
}

// ListOrders retrieves the most recent orders, newest first. A non-positive
// limit falls back to the default of 50.
func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]models.OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListOrders(ctx, limit)
}

// UpdateStatus moves an order to a new status. The value is matched
// case-insensitively against the closed status enumeration and persisted
// in canonical lowercase; anything else fails with InvalidStatusError.
// Any status may move to any other status. Returns false without error
// when the order does not exist.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) (bool, error) {
	canonical, ok := models.NormalizeStatus(status)
	if !ok {
		return false, &models.InvalidStatusError{Status: status}
	}

	updated, err := s.store.UpdateOrderStatus(ctx, orderID, canonical)
	if err != nil {
		return false, err
	}
	if updated {
		util.OrderStatusUpdatesTotal.WithLabelValues(canonical).Inc()
		s.logger.Info("Order status updated",
			zap.Int64("order_id", orderID),
			zap.String("status", canonical))
	}
	return updated, nil
}

// DeleteOrder removes an order and, via cascade, all its items. Returns
// false without error when the order does not exist.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) (bool, error) {
	deleted, err := s.store.DeleteOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	if deleted {
		util.OrdersDeletedTotal.Inc()
		s.logger.Info("Order deleted", zap.Int64("order_id", orderID))
	}
	return deleted, nil
}

// CreateCustomer registers a new customer. Email and phone are optional.
func (s *OrderService) CreateCustomer(ctx context.Context, name, email, phone string) (*models.Customer, error) {
	return s.store.CreateCustomer(ctx, name, email, phone)
}

// GetCustomer retrieves a customer, or nil when absent.
func (s *OrderService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

// DeleteCustomer removes a customer together with all their orders and
// order items. Returns false without error when the customer does not exist.
func (s *OrderService) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	return s.store.DeleteCustomer(ctx, id)
}

// CreateProduct adds a product to the catalog.
func (s *OrderService) CreateProduct(ctx context.Context, name string, price decimal.Decimal, sku string) (*models.Product, error) {
	return s.store.CreateProduct(ctx, name, price, sku)
}

// ListProducts retrieves the catalog.
func (s *OrderService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// UpdateProductPrice changes a product's live catalog price. Existing
// orders keep their snapshot prices and totals.
func (s *OrderService) UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) (bool, error) {
	return s.store.UpdateProductPrice(ctx, id, price)
}

// SeedDemoData inserts a small demo catalog and two customers when the
// catalog is empty. Safe to call on every startup.
func (s *OrderService) SeedDemoData(ctx context.Context) error {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return nil
	}

	s.logger.Info("Seeding demo data")

	if _, err := s.store.CreateCustomer(ctx, "Alice Johnson", "alice@corp.com", ""); err != nil {
		return err
	}
	if _, err := s.store.CreateCustomer(ctx, "Bob Smith", "bob@agency.com", ""); err != nil {
		return err
	}

	seed := []struct {
		name  string
		price string
		sku   string
	}{
		{"Laptop Stand", "29.99", "SKU-LP-100"},
		{"USB-C Hub", "45.50", "SKU-USB-200"},
		{"Monitor 24in", "120.00", "SKU-MON-300"},
	}
	for _, p := range seed {
		if _, err := s.store.CreateProduct(ctx, p.name, decimal.RequireFromString(p.price), p.sku); err != nil {
			return err
		}
	}
	return nil
}
