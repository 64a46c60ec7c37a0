package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// ReviewService defines the interface for review moderation logic
type ReviewService interface {
	Submit(ctx context.Context, productID, userID int64, rating int, comment *string) (*domain.Review, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Review, error)
	Delete(ctx context.Context, id int64) (*domain.Review, error)
	ListApproved(ctx context.Context, productID *int64) ([]domain.ReviewDetail, error)
	ListForModeration(ctx context.Context) ([]domain.ReviewDetail, error)
	AverageRating(ctx context.Context, productID int64) (*domain.AverageRating, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	events      emitter
	logger      *zap.Logger
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		events:      emitter{publisher: publisher, logger: logger},
		logger:      logger,
	}
}

// Submit records a new Pending review. A user may review a product once.
func (s *reviewService) Submit(ctx context.Context, productID, userID int64, rating int, comment *string) (*domain.Review, error) {
	if productID <= 0 {
		return nil, apperrors.InvalidInput("productId must be positive")
	}
	if userID <= 0 {
		return nil, apperrors.InvalidInput("userId must be positive")
	}
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, apperrors.InvalidInput("rating must be between %d and %d, got %d",
			domain.MinRating, domain.MaxRating, rating)
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	exists, err := s.reviewRepo.ExistsForUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("you have already reviewed this product")
	}

	review := &domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   normalizeComment(comment),
		Status:    domain.ReviewStatusPending,
	}

	// A concurrent submission can still pass the check above; the unique
	// index rejects the second insert.
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewAlreadyExists) {
			return nil, apperrors.Conflict("you have already reviewed this product")
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	reviewsSubmitted.Inc()
	s.logger.Info("Review submitted",
		zap.Int64("review_id", review.ID),
		zap.Int64("product_id", productID),
		zap.Int64("user_id", userID),
	)
	s.events.emit(ctx, events.TypeReviewSubmitted, events.AggregateReview, review.ID, events.ReviewSubmittedData{
		ReviewID:  review.ID,
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Status:    review.Status,
	})

	return review, nil
}

// UpdateStatus sets the moderation status of a review. Any non-blank status
// is accepted and there is no transition guard.
func (s *reviewService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Review, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperrors.InvalidInput("status must not be blank")
	}

	previous, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	review, err := s.reviewRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("failed to update review status: %w", err)
	}

	reviewStatusChanges.WithLabelValues(status).Inc()
	s.logger.Info("Review status updated",
		zap.Int64("review_id", id),
		zap.String("previous_status", previous.Status),
		zap.String("status", status),
	)
	s.events.emit(ctx, events.TypeReviewStatusChanged, events.AggregateReview, id, events.ReviewStatusChangedData{
		ReviewID:       id,
		ProductID:      review.ProductID,
		PreviousStatus: previous.Status,
		Status:         status,
	})

	return review, nil
}

// Delete removes a review and returns the removed record
func (s *reviewService) Delete(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviewRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("failed to delete review: %w", err)
	}

	s.logger.Info("Review deleted", zap.Int64("review_id", id), zap.Int64("product_id", review.ProductID))
	s.events.emit(ctx, events.TypeReviewDeleted, events.AggregateReview, id, events.ReviewDeletedData{
		ReviewID:  id,
		ProductID: review.ProductID,
		UserID:    review.UserID,
	})

	return review, nil
}

// ListApproved returns approved reviews, optionally for a single product
func (s *reviewService) ListApproved(ctx context.Context, productID *int64) ([]domain.ReviewDetail, error) {
	if productID != nil && *productID <= 0 {
		return nil, apperrors.InvalidInput("productId must be positive")
	}

	approved := domain.ReviewStatusApproved
	return s.listDetails(ctx, repository.ReviewFilter{Status: &approved, ProductID: productID})
}

// ListForModeration returns every review with Pending first, then Approved,
// then Declined, then any other status. Ties keep review id order.
func (s *reviewService) ListForModeration(ctx context.Context) ([]domain.ReviewDetail, error) {
	details, err := s.listDetails(ctx, repository.ReviewFilter{})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(details, func(i, j int) bool {
		return domain.ModerationPriority(details[i].Status) < domain.ModerationPriority(details[j].Status)
	})
	return details, nil
}

// AverageRating returns the mean rating over all reviews of a product,
// whatever their status
func (s *reviewService) AverageRating(ctx context.Context, productID int64) (*domain.AverageRating, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	avg, err := s.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average rating: %w", err)
	}

	return &domain.AverageRating{ProductID: productID, Average: avg}, nil
}

func (s *reviewService) listDetails(ctx context.Context, filter repository.ReviewFilter) ([]domain.ReviewDetail, error) {
	details, err := s.reviewRepo.ListDetails(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if details == nil {
		details = []domain.ReviewDetail{}
	}
	return details, nil
}

// normalizeComment stores blank comments as null.
func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
