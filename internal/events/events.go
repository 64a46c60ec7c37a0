package events

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Event types published by the storefront.
const (
	TypeReviewSubmitted        = "review.submitted"
	TypeReviewStatusChanged    = "review.status_changed"
	TypeReviewDeleted          = "review.deleted"
	TypeProductDiscountApplied = "product.discount_applied"
)

// Aggregate types.
const (
	AggregateReview  = "review"
	AggregateProduct = "product"
)

const source = "storefront"

// Event is the envelope of every message written to Kafka.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ID and timestamp.
func NewEvent(eventType, aggregateType string, aggregateID int64, data any) (*Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		AggregateID:   strconv.FormatInt(aggregateID, 10),
		AggregateType: aggregateType,
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Data:          payload,
	}, nil
}

// ReviewSubmittedData is the payload of review.submitted.
type ReviewSubmittedData struct {
	ReviewID  int64  `json:"review_id"`
	ProductID int64  `json:"product_id"`
	UserID    int64  `json:"user_id"`
	Rating    int    `json:"rating"`
	Status    string `json:"status"`
}

// ReviewStatusChangedData is the payload of review.status_changed.
type ReviewStatusChangedData struct {
	ReviewID       int64  `json:"review_id"`
	ProductID      int64  `json:"product_id"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
}

// ReviewDeletedData is the payload of review.deleted.
type ReviewDeletedData struct {
	ReviewID  int64 `json:"review_id"`
	ProductID int64 `json:"product_id"`
	UserID    int64 `json:"user_id"`
}

// DiscountAppliedData is the payload of product.discount_applied.
type DiscountAppliedData struct {
	ProductID        int64 `json:"product_id"`
	PreviousDiscount int   `json:"previous_discount"`
	Discount         int   `json:"discount"`
}
