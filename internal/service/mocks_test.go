package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// mockStore keeps the relational data behind all mock repositories so joins
// behave like the real store.
type mockStore struct {
	mu         sync.Mutex
	categories map[int64]*domain.Category
	users      map[int64]*domain.User
	products   map[int64]*domain.Product
	reviews    map[int64]*domain.Review
	nextID     int64

	// failWith, when set, is returned by every repository call.
	failWith error
	// skipExistsCheck makes ExistsForUserAndProduct always report false so
	// the unique index path can be exercised.
	skipExistsCheck bool
}

func newMockStore() *mockStore {
	return &mockStore{
		categories: make(map[int64]*domain.Category),
		users:      make(map[int64]*domain.User),
		products:   make(map[int64]*domain.Product),
		reviews:    make(map[int64]*domain.Review),
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *mockStore) addCategory(name string) *domain.Category {
	c := &domain.Category{ID: m.id(), Name: name}
	m.categories[c.ID] = c
	return c
}

func (m *mockStore) addUser(name string) *domain.User {
	u := &domain.User{ID: m.id(), Username: name}
	m.users[u.ID] = u
	return u
}

func (m *mockStore) addProduct(name, price string, discount int, category *domain.Category) *domain.Product {
	p := &domain.Product{
		ID:            m.id(),
		Name:          name,
		Description:   name + " description",
		Price:         decimal.RequireFromString(price),
		StockQuantity: 5,
		Image:         name + ".png",
		Discount:      discount,
		CategoryID:    category.ID,
	}
	m.products[p.ID] = p
	return p
}

func (m *mockStore) addReview(product *domain.Product, user *domain.User, rating int, status string) *domain.Review {
	r := &domain.Review{ID: m.id(), ProductID: product.ID, UserID: user.ID, Rating: rating, Status: status}
	m.reviews[r.ID] = r
	return r
}

func sortedIDs[T any](items map[int64]T) []int64 {
	ids := make([]int64, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Mock repositories for testing
type mockProductRepository struct{ *mockStore }

func (m mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	product.ID = m.id()
	m.products[product.ID] = product
	return nil
}

func (m mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (m mockProductRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.products), nil
}

func (m mockProductRepository) UpdateDiscount(ctx context.Context, id int64, discount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Discount = discount
	return nil
}

func (m mockProductRepository) ListViews(ctx context.Context, filter repository.ProductFilter) ([]domain.ProductView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	var views []domain.ProductView
	for _, id := range sortedIDs(m.products) {
		p := m.products[id]
		category := m.categories[p.CategoryID]
		switch {
		case filter.ID != nil && p.ID != *filter.ID,
			filter.CategoryName != nil && category.Name != *filter.CategoryName,
			filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice),
			filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice),
			filter.DiscountedOnly && p.Discount <= 0:
			continue
		}

		view := domain.ProductView{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			Price:         p.Price,
			StockQuantity: p.StockQuantity,
			Image:         p.Image,
			Discount:      p.Discount,
			CategoryName:  category.Name,
			Reviews:       []domain.ReviewSnippet{},
		}
		for _, rid := range sortedIDs(m.reviews) {
			r := m.reviews[rid]
			if r.ProductID == p.ID {
				view.Reviews = append(view.Reviews, domain.ReviewSnippet{Rating: r.Rating, Comment: r.Comment, Status: r.Status})
			}
		}
		views = append(views, view)
	}
	return views, nil
}

type mockCategoryRepository struct{ *mockStore }

func (m mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category.ID = m.id()
	m.categories[category.ID] = category
	return nil
}

func (m mockCategoryRepository) ListNames(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	seen := make(map[string]bool)
	var names []string
	for _, c := range m.categories {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m mockCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

type mockUserRepository struct{ *mockStore }

func (m mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = m.id()
	m.users[user.ID] = user
	return nil
}

func (m mockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

type mockReviewRepository struct{ *mockStore }

func (m mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, r := range m.reviews {
		if r.UserID == review.UserID && r.ProductID == review.ProductID {
			return repository.ErrReviewAlreadyExists
		}
	}
	review.ID = m.id()
	stored := *review
	m.reviews[review.ID] = &stored
	return nil
}

func (m mockReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	r, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	clone := *r
	return &clone, nil
}

func (m mockReviewRepository) ExistsForUserAndProduct(ctx context.Context, userID, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	if m.skipExistsCheck {
		return false, nil
	}
	for _, r := range m.reviews {
		if r.UserID == userID && r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m mockReviewRepository) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	r.Status = status
	clone := *r
	return &clone, nil
}

func (m mockReviewRepository) Delete(ctx context.Context, id int64) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	r, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	delete(m.reviews, id)
	return r, nil
}

func (m mockReviewRepository) ListDetails(ctx context.Context, filter repository.ReviewFilter) ([]domain.ReviewDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	var details []domain.ReviewDetail
	for _, id := range sortedIDs(m.reviews) {
		r := m.reviews[id]
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.ProductID != nil && r.ProductID != *filter.ProductID {
			continue
		}
		p := m.products[r.ProductID]
		details = append(details, domain.ReviewDetail{
			ID:           r.ID,
			Rating:       r.Rating,
			Comment:      r.Comment,
			Status:       r.Status,
			ProductID:    p.ID,
			ProductName:  p.Name,
			CategoryName: m.categories[p.CategoryID].Name,
			Username:     m.users[r.UserID].Username,
		})
	}
	return details, nil
}

func (m mockReviewRepository) AverageRating(ctx context.Context, productID int64) (decimal.NullDecimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return decimal.NullDecimal{}, m.failWith
	}

	sum, n := 0, 0
	for _, r := range m.reviews {
		if r.ProductID == productID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return decimal.NullDecimal{}, nil
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(n)))
	return decimal.NewNullDecimal(avg), nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

var errStoreDown = errors.New("store unavailable")
