package transport

import (
	"context"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// Mock services for testing. Unset funcs panic so a test notices calls it
// did not expect.
type mockCatalogService struct {
	listAll            func(ctx context.Context) ([]domain.ProductView, error)
	getByID            func(ctx context.Context, id int64) (*domain.ProductView, error)
	filterByCategory   func(ctx context.Context, category string) ([]domain.ProductView, error)
	filterByPriceRange func(ctx context.Context, min, max *decimal.Decimal) ([]domain.ProductView, error)
	listCategories     func(ctx context.Context) ([]string, error)
	applyDiscount      func(ctx context.Context, id int64, discount int) (*domain.DiscountResult, error)
	countAll           func(ctx context.Context) (int, error)
	listDiscounted     func(ctx context.Context) ([]domain.ProductView, error)
	shareURL           func(ctx context.Context, id int64, baseURL string) (string, error)
}

func (m *mockCatalogService) ListAll(ctx context.Context) ([]domain.ProductView, error) {
	return m.listAll(ctx)
}

func (m *mockCatalogService) GetByID(ctx context.Context, id int64) (*domain.ProductView, error) {
	return m.getByID(ctx, id)
}

func (m *mockCatalogService) FilterByCategory(ctx context.Context, category string) ([]domain.ProductView, error) {
	return m.filterByCategory(ctx, category)
}

func (m *mockCatalogService) FilterByPriceRange(ctx context.Context, min, max *decimal.Decimal) ([]domain.ProductView, error) {
	return m.filterByPriceRange(ctx, min, max)
}

func (m *mockCatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return m.listCategories(ctx)
}

func (m *mockCatalogService) ApplyDiscount(ctx context.Context, id int64, discount int) (*domain.DiscountResult, error) {
	return m.applyDiscount(ctx, id, discount)
}

func (m *mockCatalogService) CountAll(ctx context.Context) (int, error) {
	return m.countAll(ctx)
}

func (m *mockCatalogService) ListDiscounted(ctx context.Context) ([]domain.ProductView, error) {
	return m.listDiscounted(ctx)
}

func (m *mockCatalogService) ShareURL(ctx context.Context, id int64, baseURL string) (string, error) {
	return m.shareURL(ctx, id, baseURL)
}

type mockReviewService struct {
	submit            func(ctx context.Context, productID, userID int64, rating int, comment *string) (*domain.Review, error)
	updateStatus      func(ctx context.Context, id int64, status string) (*domain.Review, error)
	delete            func(ctx context.Context, id int64) (*domain.Review, error)
	listApproved      func(ctx context.Context, productID *int64) ([]domain.ReviewDetail, error)
	listForModeration func(ctx context.Context) ([]domain.ReviewDetail, error)
	averageRating     func(ctx context.Context, productID int64) (*domain.AverageRating, error)
}

func (m *mockReviewService) Submit(ctx context.Context, productID, userID int64, rating int, comment *string) (*domain.Review, error) {
	return m.submit(ctx, productID, userID, rating, comment)
}

func (m *mockReviewService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Review, error) {
	return m.updateStatus(ctx, id, status)
}

func (m *mockReviewService) Delete(ctx context.Context, id int64) (*domain.Review, error) {
	return m.delete(ctx, id)
}

func (m *mockReviewService) ListApproved(ctx context.Context, productID *int64) ([]domain.ReviewDetail, error) {
	return m.listApproved(ctx, productID)
}

func (m *mockReviewService) ListForModeration(ctx context.Context) ([]domain.ReviewDetail, error) {
	return m.listForModeration(ctx)
}

func (m *mockReviewService) AverageRating(ctx context.Context, productID int64) (*domain.AverageRating, error) {
	return m.averageRating(ctx, productID)
}
