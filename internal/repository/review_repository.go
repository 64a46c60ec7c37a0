package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("user has already reviewed this product")
)

// ReviewFilter narrows the joined review listing. Nil fields do not filter.
type ReviewFilter struct {
	Status    *string
	ProductID *int64
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsForUserAndProduct(ctx context.Context, userID, productID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Review, error)
	Delete(ctx context.Context, id int64) (*domain.Review, error)
	ListDetails(ctx context.Context, filter ReviewFilter) ([]domain.ReviewDetail, error)
	AverageRating(ctx context.Context, productID int64) (decimal.NullDecimal, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, product_id, user_id, rating, comment, status, created_at`

func scanReview(row interface{ Scan(...interface{}) error }) (*domain.Review, error) {
	review := &domain.Review{}
	var comment sql.NullString
	if err := row.Scan(
		&review.ID,
		&review.ProductID,
		&review.UserID,
		&review.Rating,
		&comment,
		&review.Status,
		&review.CreatedAt,
	); err != nil {
		return nil, err
	}
	if comment.Valid {
		review.Comment = &comment.String
	}
	return review, nil
}

// Create inserts a review and fills in its generated ID and timestamp
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (product_id, user_id, rating, comment, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.Status,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "reviews_user_product_key") {
			return ErrReviewAlreadyExists
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// FindByID retrieves a review by ID
func (r *reviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}

	return review, nil
}

// ExistsForUserAndProduct reports whether the user already reviewed the product
func (r *reviewRepository) ExistsForUserAndProduct(ctx context.Context, userID, productID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND product_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}

	return exists, nil
}

// UpdateStatus sets the moderation status and returns the updated review
func (r *reviewRepository) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Review, error) {
	query := `UPDATE reviews SET status = $2 WHERE id = $1 RETURNING ` + reviewColumns

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review status: %w", err)
	}

	return review, nil
}

// Delete removes a review and returns the removed record
func (r *reviewRepository) Delete(ctx context.Context, id int64) (*domain.Review, error) {
	query := `DELETE FROM reviews WHERE id = $1 RETURNING ` + reviewColumns

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to delete review: %w", err)
	}

	return review, nil
}

// ListDetails returns reviews joined with user, product and category, in review id order
func (r *reviewRepository) ListDetails(ctx context.Context, filter ReviewFilter) ([]domain.ReviewDetail, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		conditions = append(conditions, fmt.Sprintf("r.product_id = $%d", len(args)))
	}

	query := `
		SELECT r.id, r.rating, r.comment, r.status, p.id, p.name, c.name, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		JOIN products p ON p.id = r.product_id
		JOIN categories c ON c.id = p.category_id`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY r.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	details := []domain.ReviewDetail{}
	for rows.Next() {
		var (
			d       domain.ReviewDetail
			comment sql.NullString
		)
		if err := rows.Scan(
			&d.ID,
			&d.Rating,
			&comment,
			&d.Status,
			&d.ProductID,
			&d.ProductName,
			&d.CategoryName,
			&d.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		if comment.Valid {
			d.Comment = &comment.String
		}
		details = append(details, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return details, nil
}

// AverageRating returns the mean rating over every review of the product.
// The result is invalid when there are no reviews.
func (r *reviewRepository) AverageRating(ctx context.Context, productID int64) (decimal.NullDecimal, error) {
	query := `SELECT AVG(rating)::numeric FROM reviews WHERE product_id = $1`

	var avg decimal.NullDecimal
	if err := r.db.QueryRowContext(ctx, query, productID).Scan(&avg); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to compute average rating: %w", err)
	}

	return avg, nil
}
