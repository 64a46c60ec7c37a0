package service

import (
	"context"

	"storefront/internal/events"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	reviewsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_reviews_submitted_total",
		Help: "Total number of reviews accepted for moderation",
	})

	reviewStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_review_status_changes_total",
			Help: "Total number of moderation status updates by new status",
		},
		[]string{"status"},
	)

	discountsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_discounts_applied_total",
		Help: "Total number of product discounts applied",
	})
)

// emitter publishes domain events on behalf of a service. The database write
// has already committed when an event is emitted, so a publish failure is
// logged and never returned to the caller.
type emitter struct {
	publisher events.Publisher
	logger    *zap.Logger
}

func (e emitter) emit(ctx context.Context, eventType, aggregateType string, aggregateID int64, data any) {
	if e.publisher == nil {
		return
	}

	event, err := events.NewEvent(eventType, aggregateType, aggregateID, data)
	if err != nil {
		e.logger.Error("Failed to build event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	event.CorrelationID = middleware.GetReqID(ctx)

	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("Event not delivered",
			zap.String("event_type", eventType),
			zap.Int64("aggregate_id", aggregateID),
			zap.Error(err),
		)
	}
}
