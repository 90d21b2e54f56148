package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"webshop/internal/model"
	"webshop/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

const (
	trackingNumberPrefix = "TRK"

	// placeOrderAttempts bounds the number of retries when a freshly
	// generated tracking number collides with an existing one.
	placeOrderAttempts = 3

	uniqueViolationCode = "23505"
)

// orderService implements OrderService.
type orderService struct {
	repo   repository.OrderRepository
	logger zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		repo:   repo,
		logger: logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder validates the request and atomically persists the order, its
// line items, the stock decrements and the initial tracking entry. The
// caller-supplied total amount is stored verbatim; it is never recomputed
// from the line items. When the generated tracking number collides with an
// existing one, the whole transaction is retried with a fresh number.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < placeOrderAttempts; attempt++ {
		order, err := s.placeOrder(ctx, req, generateTrackingNumber())
		if err != nil && isUniqueViolation(err) {
			s.logger.Warn().Int("attempt", attempt+1).Msg("tracking number collision, retrying")
			lastErr = err
			continue
		}
		return order, err
	}

	return nil, fmt.Errorf("failed to place order after %d attempts: %w", placeOrderAttempts, lastErr)
}

func (s *orderService) placeOrder(ctx context.Context, req *model.OrderRequest, trackingNumber string) (order *model.Order, err error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Any failure from here on discards every write of this call,
	// including the order header.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order = &model.Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		TotalAmount:     req.TotalAmount,
		Status:          model.OrderStatusPending,
		TrackingNumber:  trackingNumber,
	}

	if err = s.repo.InsertOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		var product *model.Product
		product, err = s.repo.GetProduct(ctx, tx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			err = model.NewDomainError(model.ErrCodeProductNotFound,
				fmt.Sprintf("Product with ID %d not found", item.ProductID))
			return nil, err
		}

		var decremented bool
		decremented, err = s.repo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !decremented {
			err = model.NewDomainError(model.ErrCodeInsufficientStock,
				fmt.Sprintf("Insufficient stock for product: %s", product.Name))
			return nil, err
		}

		items = append(items, model.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}

	if err = s.repo.InsertOrderItems(ctx, tx, items); err != nil {
		return nil, err
	}

	tracking := &model.OrderTracking{
		OrderID: order.ID,
		Status:  model.TrackingStatusPending,
		Details: "Order received and pending processing",
	}
	if err = s.repo.InsertTracking(ctx, tx, tracking); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	order.Items = items

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("tracking_number", order.TrackingNumber).
		Int("item_count", len(items)).
		Msg("order placed")

	return order, nil
}

// GetByID retrieves an order with its line items.
func (s *orderService) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetByTrackingNumber retrieves an order by its tracking number.
func (s *orderService) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Order, error) {
	order, err := s.repo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get order by tracking number: %w", err)
	}
	return order, nil
}

// GetTracking retrieves an order's tracking log, oldest entry first.
func (s *orderService) GetTracking(ctx context.Context, orderID int64) ([]model.OrderTracking, error) {
	entries, err := s.repo.GetTracking(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking: %w", err)
	}
	return entries, nil
}

// UpdateStatus transitions the order's status and appends a tracking entry
// in one atomic unit. Orders in a terminal status are never transitioned.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, details string) (err error) {
	if !status.Valid() {
		return model.ErrInvalidStatus
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if current == nil {
		return model.ErrOrderNotFound
	}
	if current.Status.Terminal() {
		return model.ErrTerminalStatus
	}

	if details == "" {
		details = fmt.Sprintf("Order status updated to %s", status)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	updated, err := s.repo.UpdateStatus(ctx, tx, orderID, status)
	if err != nil {
		return err
	}
	if !updated {
		err = model.ErrOrderNotFound
		return err
	}

	tracking := &model.OrderTracking{
		OrderID: orderID,
		Status:  model.TrackingStatus(status),
		Details: details,
	}
	if err = s.repo.InsertTracking(ctx, tx, tracking); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}

	s.logger.Info().
		Int64("order_id", orderID).
		Str("status", string(status)).
		Msg("order status updated")

	return nil
}

// validateOrderRequest checks the request before any write happens.
func validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Order request is required")
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Customer name is required")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Customer email is required")
	}
	if strings.TrimSpace(req.CustomerAddress) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Customer address is required")
	}
	if req.TotalAmount <= 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "Total amount is required")
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	for _, item := range req.Items {
		if item.ProductID <= 0 {
			return model.NewDomainError(model.ErrCodeMissingField, "Each order item must have a valid product_id")
		}
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
	}

	return nil
}

// generateTrackingNumber builds a customer-facing order identifier: a
// prefix, the last 8 digits of the current unix-millisecond clock and a
// zero-padded 4-digit random suffix. Uniqueness is enforced by the database
// constraint; PlaceOrder regenerates on collision.
func generateTrackingNumber() string {
	timestamp := time.Now().UnixMilli() % 100_000_000
	return fmt.Sprintf("%s-%08d-%04d", trackingNumberPrefix, timestamp, rand.Intn(10_000))
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
