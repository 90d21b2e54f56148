package service

import (
	"context"

	"webshop/internal/model"
)

// ProductService defines catalogue read operations.
type ProductService interface {
	// List retrieves products matching the filter with pagination.
	List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error)

	// GetByID retrieves a single product by ID. Returns nil when not found.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Featured retrieves the highest-rated featured products.
	Featured(ctx context.Context, limit int) ([]model.Product, error)

	// Search retrieves products matching a free-text term.
	Search(ctx context.Context, term string, limit int) ([]model.Product, error)

	// Categories retrieves the distinct product categories.
	Categories(ctx context.Context) ([]string, error)
}

// OrderService defines order management operations.
type OrderService interface {
	// PlaceOrder validates the request and atomically persists the order,
	// its line items, the stock decrements and the initial tracking entry.
	PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// GetByID retrieves an order with its line items. Returns nil when not
	// found.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// GetByTrackingNumber retrieves an order by its customer-facing
	// tracking number. Returns nil when not found.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Order, error)

	// GetTracking retrieves an order's tracking log, oldest entry first.
	GetTracking(ctx context.Context, orderID int64) ([]model.OrderTracking, error)

	// UpdateStatus transitions the order's status and appends a tracking
	// entry in one atomic unit.
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, details string) error
}
