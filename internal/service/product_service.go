package service

import (
	"context"
	"fmt"

	"webshop/internal/model"
	"webshop/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultFeaturedLimit = 5
	defaultSearchLimit   = 10
)

// productService implements ProductService.
type productService struct {
	repo   repository.ProductRepository
	logger zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		repo:   repo,
		logger: logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products matching the filter with pagination.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error) {
	page, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return page, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Featured retrieves the highest-rated featured products.
func (s *productService) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	if limit < 1 {
		limit = defaultFeaturedLimit
	}

	products, err := s.repo.Featured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}
	return products, nil
}

// Search retrieves products matching a free-text term.
func (s *productService) Search(ctx context.Context, term string, limit int) ([]model.Product, error) {
	if limit < 1 {
		limit = defaultSearchLimit
	}

	products, err := s.repo.Search(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Categories retrieves the distinct product categories.
func (s *productService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}
