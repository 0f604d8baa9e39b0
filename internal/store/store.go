package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ordertrack/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	email       TEXT,
	phone       TEXT,
	created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	product_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	price      NUMERIC NOT NULL CHECK(price >= 0),
	sku        TEXT UNIQUE,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	order_id    INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending',
	total       NUMERIC NOT NULL DEFAULT 0 CHECK(total >= 0),
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL,
	FOREIGN KEY(customer_id) REFERENCES customers(customer_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS order_items (
	order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id      INTEGER NOT NULL,
	product_id    INTEGER NOT NULL,
	quantity      INTEGER NOT NULL CHECK(quantity > 0),
	unit_price    NUMERIC NOT NULL CHECK(unit_price >= 0),
	FOREIGN KEY(order_id) REFERENCES orders(order_id) ON DELETE CASCADE,
	FOREIGN KEY(product_id) REFERENCES products(product_id)
);
`

type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) the embedded database at path and bootstraps
// the schema. Pass ":memory:" for an ephemeral database.
func NewStore(path string) (*Store, error) {
	// _time_format=sqlite stores time.Time values in SQLite's own text
	// format so TIMESTAMP columns scan back into time.Time and sort
	// lexicographically.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", path)

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers anyway, and a single connection keeps
	// ":memory:" databases from fragmenting across the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database handle
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// nullable maps the empty string to NULL so optional text columns (email,
// phone, sku) keep their NULL semantics — in particular the UNIQUE
// constraint on sku must not fire for products without one.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// CreateCustomer inserts a customer and returns the stored row.
func (s *Store) CreateCustomer(ctx context.Context, name, email, phone string) (*models.Customer, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO customers (name, email, phone, created_at) VALUES (?, ?, ?, ?)",
		name, nullable(email), nullable(phone), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Customer{ID: id, Name: name, Email: email, Phone: phone, CreatedAt: now}, nil
}

// GetCustomer retrieves a customer by id, or nil when absent.
func (s *Store) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var c models.Customer
	err := s.db.GetContext(ctx, &c, `
		SELECT customer_id, name, COALESCE(email, '') AS email, COALESCE(phone, '') AS phone, created_at
		FROM customers WHERE customer_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers retrieves all customers ordered by id.
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.SelectContext(ctx, &customers, `
		SELECT customer_id, name, COALESCE(email, '') AS email, COALESCE(phone, '') AS phone, created_at
		FROM customers ORDER BY customer_id`)
	return customers, err
}

// DeleteCustomer removes a customer; the storage engine cascades the delete
// to the customer's orders and their items. Returns true iff a row was removed.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE customer_id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateProduct inserts a product and returns the stored row. A negative
// price or duplicate SKU fails the write with a constraint error.
func (s *Store) CreateProduct(ctx context.Context, name string, price decimal.Decimal, sku string) (*models.Product, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO products (name, price, sku, created_at) VALUES (?, ?, ?, ?)",
		name, price, nullable(sku), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Product{ID: id, Name: name, Price: price, SKU: sku, CreatedAt: now}, nil
}

// GetProduct retrieves a product by id, or nil when absent.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p, `
		SELECT product_id, name, price, COALESCE(sku, '') AS sku, created_at
		FROM products WHERE product_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts retrieves the whole catalog ordered by id.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT product_id, name, price, COALESCE(sku, '') AS sku, created_at
		FROM products ORDER BY product_id`)
	return products, err
}

// UpdateProductPrice changes the live catalog price. Historical orders keep
// their snapshot unit prices and totals untouched.
func (s *Store) UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET price = ? WHERE product_id = ?", price, id)
	if err != nil {
		return false, fmt.Errorf("failed to update product price: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetProductPrices fetches current prices for the given product ids in one
// batch read. Ids with no catalog row are simply absent from the result.
func (s *Store) GetProductPrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	query, args, err := sqlx.In("SELECT product_id, price FROM products WHERE product_id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var rows []struct {
		ProductID int64           `db:"product_id"`
		Price     decimal.Decimal `db:"price"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	for _, r := range rows {
		prices[r.ProductID] = r.Price
	}
	return prices, nil
}
