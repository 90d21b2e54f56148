package repository

import (
	"context"

	"webshop/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines read access to the product catalogue. Stock
// mutation is part of the order placement transaction and lives on
// OrderRepository.
type ProductRepository interface {
	// List retrieves products matching the filter along with the total
	// number of matches before pagination.
	List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error)

	// GetByID retrieves a single product by its ID. Returns nil when the
	// product does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Featured retrieves featured products ordered by rating, best first.
	Featured(ctx context.Context, limit int) ([]model.Product, error)

	// Search retrieves products whose name or description contains the term.
	Search(ctx context.Context, term string, limit int) ([]model.Product, error)

	// Categories retrieves the distinct product categories.
	Categories(ctx context.Context) ([]string, error)
}

// OrderRepository defines data access for orders, line items and the
// tracking log. Tx-scoped methods participate in a transaction started with
// BeginTx; the rest run against the pool.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// InsertOrder inserts a new order within the transaction and fills in
	// the generated ID.
	InsertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetProduct retrieves a product within the transaction. Returns nil
	// when the product does not exist.
	GetProduct(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error)

	// DecrementStock atomically decrements a product's stock within the
	// transaction, but only when enough stock remains. Returns false when
	// the stock was insufficient and no row was changed.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (bool, error)

	// InsertOrderItems inserts line items within the transaction.
	InsertOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// InsertTracking appends a tracking entry within the transaction and
	// fills in the generated ID and timestamp.
	InsertTracking(ctx context.Context, tx pgx.Tx, entry *model.OrderTracking) error

	// UpdateStatus updates only the order header's status within the
	// transaction. Returns false when no such order exists.
	UpdateStatus(ctx context.Context, tx pgx.Tx, orderID int64, status model.OrderStatus) (bool, error)

	// GetByID retrieves an order with its line items, each annotated with
	// the product's current name and image. Returns nil when not found.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// GetByTrackingNumber retrieves an order by its customer-facing
	// tracking number. Returns nil when not found.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Order, error)

	// GetTracking retrieves the tracking log for an order, oldest first.
	GetTracking(ctx context.Context, orderID int64) ([]model.OrderTracking, error)

	// ListActive retrieves all orders not in a terminal status.
	ListActive(ctx context.Context) ([]model.Order, error)

	// LatestTracking retrieves the most recent tracking entry for an order.
	// Returns nil when the order has no tracking entries.
	LatestTracking(ctx context.Context, orderID int64) (*model.OrderTracking, error)
}
