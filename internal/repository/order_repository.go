package repository

import (
	"context"
	"fmt"

	"webshop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// InsertOrder inserts a new order within the provided transaction.
func (r *orderRepository) InsertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (customer_name, customer_email, customer_address, total_amount, status, tracking_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerAddress,
		order.TotalAmount,
		order.Status,
		order.TrackingNumber,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("tracking_number", order.TrackingNumber).
			Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	r.logger.Debug().
		Int64("order_id", order.ID).
		Str("tracking_number", order.TrackingNumber).
		Msg("order inserted")

	return nil
}

// GetProduct retrieves a product within the provided transaction.
func (r *orderRepository) GetProduct(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := tx.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
		&p.Category, &p.Stock, &p.Featured, &p.Rating, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product in transaction")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// DecrementStock atomically decrements a product's stock when enough remains.
// The WHERE guard makes concurrent placements unable to oversell.
func (r *orderRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1
	`

	tag, err := tx.Exec(ctx, query, quantity, productID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("product_id", productID).
			Int("quantity", quantity).
			Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// InsertOrderItems inserts line items within the provided transaction.
func (r *orderRepository) InsertOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.OrderID, item.ProductID, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", items[i].OrderID).
				Int64("product_id", items[i].ProductID).
				Msg("failed to insert order item")
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(items)).Msg("order items inserted")

	return nil
}

// InsertTracking appends a tracking entry within the provided transaction.
func (r *orderRepository) InsertTracking(ctx context.Context, tx pgx.Tx, entry *model.OrderTracking) error {
	query := `
		INSERT INTO order_tracking (order_id, status, location, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp
	`

	err := tx.QueryRow(ctx, query, entry.OrderID, entry.Status, entry.Location, entry.Details).
		Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("order_id", entry.OrderID).
			Str("status", string(entry.Status)).
			Msg("failed to insert tracking entry")
		return fmt.Errorf("failed to insert tracking entry: %w", err)
	}

	return nil
}

// UpdateStatus updates only the order header's status within the transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, orderID int64, status model.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := tx.Exec(ctx, query, status, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("order_id", orderID).
			Str("status", string(status)).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

const orderColumns = "id, customer_name, customer_email, customer_address, total_amount, status, tracking_number, created_at, updated_at"

// GetByID retrieves an order with its line items, each annotated with the
// product's current name and image.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil || order == nil {
		return order, err
	}

	itemsQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, p.name, p.image_url
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.Price, &item.ProductName, &item.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return order, nil
}

// GetByTrackingNumber retrieves an order by its tracking number.
func (r *orderRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Order, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE tracking_number = $1`, trackingNumber)
}

func (r *orderRepository) getOrder(ctx context.Context, query string, arg any) (*model.Order, error) {
	var order model.Order
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&order.ID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerAddress,
		&order.TotalAmount,
		&order.Status,
		&order.TrackingNumber,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &order, nil
}

// GetTracking retrieves the tracking log for an order, oldest first.
func (r *orderRepository) GetTracking(ctx context.Context, orderID int64) ([]model.OrderTracking, error) {
	query := `
		SELECT id, order_id, status, location, timestamp, details
		FROM order_tracking
		WHERE order_id = $1
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to query tracking")
		return nil, fmt.Errorf("failed to query tracking: %w", err)
	}
	defer rows.Close()

	entries := []model.OrderTracking{}
	for rows.Next() {
		var e model.OrderTracking
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Location, &e.Timestamp, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to scan tracking entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracking entries: %w", err)
	}

	return entries, nil
}

// ListActive retrieves all orders not in a terminal status.
func (r *orderRepository) ListActive(ctx context.Context) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status NOT IN ('delivered', 'cancelled')
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query active orders")
		return nil, fmt.Errorf("failed to query active orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(
			&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerAddress,
			&o.TotalAmount, &o.Status, &o.TrackingNumber, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// LatestTracking retrieves the most recent tracking entry for an order.
func (r *orderRepository) LatestTracking(ctx context.Context, orderID int64) (*model.OrderTracking, error) {
	query := `
		SELECT id, order_id, status, location, timestamp, details
		FROM order_tracking
		WHERE order_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`

	var e model.OrderTracking
	err := r.pool.QueryRow(ctx, query, orderID).
		Scan(&e.ID, &e.OrderID, &e.Status, &e.Location, &e.Timestamp, &e.Details)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to query latest tracking entry")
		return nil, fmt.Errorf("failed to query latest tracking entry: %w", err)
	}

	return &e, nil
}
