package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FacebookSharerURL is the share dialog every product link is sent to.
const FacebookSharerURL = "https://www.facebook.com/sharer/sharer.php?u="

// Category names that select the whole catalog.
var allCategories = map[string]bool{"": true, "All": true, "*": true}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	ListAll(ctx context.Context) ([]domain.ProductView, error)
	GetByID(ctx context.Context, id int64) (*domain.ProductView, error)
	FilterByCategory(ctx context.Context, category string) ([]domain.ProductView, error)
	FilterByPriceRange(ctx context.Context, min, max *decimal.Decimal) ([]domain.ProductView, error)
	ListCategories(ctx context.Context) ([]string, error)
	ApplyDiscount(ctx context.Context, id int64, discount int) (*domain.DiscountResult, error)
	CountAll(ctx context.Context) (int, error)
	ListDiscounted(ctx context.Context) ([]domain.ProductView, error)
	ShareURL(ctx context.Context, id int64, baseURL string) (string, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	events       emitter
	logger       *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		events:       emitter{publisher: publisher, logger: logger},
		logger:       logger,
	}
}

// ListAll returns every product view ordered by product id
func (s *catalogService) ListAll(ctx context.Context) ([]domain.ProductView, error) {
	return s.listViews(ctx, repository.ProductFilter{})
}

// GetByID returns a single product view
func (s *catalogService) GetByID(ctx context.Context, id int64) (*domain.ProductView, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive, got %d", id)
	}

	views, err := s.listViews(ctx, repository.ProductFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apperrors.NotFound("product", id)
	}

	return &views[0], nil
}

// FilterByCategory returns the views whose category name matches exactly.
// An empty name, "All" or "*" returns the whole catalog.
func (s *catalogService) FilterByCategory(ctx context.Context, category string) ([]domain.ProductView, error) {
	category = strings.TrimSpace(category)
	if allCategories[category] {
		return s.ListAll(ctx)
	}

	return s.listViews(ctx, repository.ProductFilter{CategoryName: &category})
}

// FilterByPriceRange returns the views priced within [min, max]. A nil min
// means zero and a nil max means unbounded.
func (s *catalogService) FilterByPriceRange(ctx context.Context, min, max *decimal.Decimal) ([]domain.ProductView, error) {
	lower := decimal.Zero
	if min != nil {
		lower = *min
	}
	if lower.IsNegative() {
		return nil, apperrors.InvalidInput("minimum price must not be negative")
	}
	if max != nil && max.LessThan(lower) {
		return nil, apperrors.InvalidInput("maximum price %s is below minimum price %s", max, lower)
	}

	return s.listViews(ctx, repository.ProductFilter{MinPrice: &lower, MaxPrice: max})
}

// ListCategories returns distinct category names in ascending order
func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	names, err := s.categoryRepo.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ApplyDiscount sets a product's discount percentage
func (s *catalogService) ApplyDiscount(ctx context.Context, id int64, discount int) (*domain.DiscountResult, error) {
	if !domain.ValidDiscount(discount) {
		return nil, apperrors.InvalidInput("discount must be between %d and %d, got %d",
			domain.MinDiscount, domain.MaxDiscount, discount)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if err := s.productRepo.UpdateDiscount(ctx, id, discount); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to apply discount: %w", err)
	}

	discountsApplied.Inc()
	s.logger.Info("Discount applied",
		zap.Int64("product_id", id),
		zap.Int("previous_discount", product.Discount),
		zap.Int("discount", discount),
	)
	s.events.emit(ctx, events.TypeProductDiscountApplied, events.AggregateProduct, id, events.DiscountAppliedData{
		ProductID:        id,
		PreviousDiscount: product.Discount,
		Discount:         discount,
	})

	return &domain.DiscountResult{ProductID: id, Discount: discount}, nil
}

// CountAll returns the number of products
func (s *catalogService) CountAll(ctx context.Context) (int, error) {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// ListDiscounted returns the views with a non-zero discount
func (s *catalogService) ListDiscounted(ctx context.Context) ([]domain.ProductView, error) {
	views, err := s.listViews(ctx, repository.ProductFilter{DiscountedOnly: true})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apperrors.NotFoundMessage("no discounted products found")
	}
	return views, nil
}

// ShareURL builds the Facebook share link for a product page under baseURL
func (s *catalogService) ShareURL(ctx context.Context, id int64, baseURL string) (string, error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return "", apperrors.NotFound("product", id)
		}
		return "", fmt.Errorf("failed to load product: %w", err)
	}

	productURL := fmt.Sprintf("%s/product/%d", strings.TrimRight(baseURL, "/"), id)
	return FacebookSharerURL + escapeDataString(productURL), nil
}

// escapeDataString percent-encodes everything but unreserved characters, with
// spaces as %20. A literal '+' is already %2B after QueryEscape.
func escapeDataString(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (s *catalogService) listViews(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductView, error) {
	views, err := s.productRepo.ListViews(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if views == nil {
		views = []domain.ProductView{}
	}
	return views, nil
}
