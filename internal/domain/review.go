package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical review statuses. The moderation endpoint accepts any non-blank
// status, so a stored review may carry a value outside this set.
const (
	ReviewStatusPending  = "Pending"
	ReviewStatusApproved = "Approved"
	ReviewStatusDeclined = "Declined"
)

// Rating bounds accepted on submission.
const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a user's review of a product
type Review struct {
	ID        int64     `json:"id" db:"id"`
	ProductID int64     `json:"productId" db:"product_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment" db:"comment"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ReviewDetail is a review joined with its author, product and category.
type ReviewDetail struct {
	ID           int64   `json:"id"`
	Rating       int     `json:"rating"`
	Comment      *string `json:"comment"`
	Status       string  `json:"status"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	CategoryName string  `json:"categoryName"`
	Username     string  `json:"user"`
}

// AverageRating is the mean rating of a product. Average is invalid (and
// serializes as null) when the product has no reviews.
type AverageRating struct {
	ProductID int64               `json:"productId"`
	Average   decimal.NullDecimal `json:"averageRating"`
}

// ModerationPriority orders statuses for the moderation queue:
// Pending first, then Approved, then Declined, then anything else.
func ModerationPriority(status string) int {
	switch status {
	case ReviewStatusPending:
		return 0
	case ReviewStatusApproved:
		return 1
	case ReviewStatusDeclined:
		return 2
	default:
		return 3
	}
}
