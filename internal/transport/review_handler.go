package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SubmitReviewRequest represents the review submission payload
type SubmitReviewRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	UserID    int64   `json:"userId" validate:"required,gt=0"`
	Rating    int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   *string `json:"comment"`
}

// UpdateStatusRequest represents the moderation payload
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReviewHandler handles HTTP requests for review moderation
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers all review routes. submitLimiter guards review
// submission only.
func (h *ReviewHandler) RegisterRoutes(r chi.Router, submitLimiter func(http.Handler) http.Handler) {
	if submitLimiter == nil {
		submitLimiter = func(next http.Handler) http.Handler { return next }
	}
	r.With(submitLimiter).Post("/api/Product", h.Submit)
	r.Delete("/api/Product/{id}", h.Delete)
	r.Get("/api/Product/average-rating/{id}", h.AverageRating)

	r.Put("/Admin/{id}", h.UpdateStatus)
	r.Get("/Admin/reviews", h.ListForModeration)
	r.Get("/Reviews", h.ListApproved)
}

// Submit handles review submission
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Review validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	review, err := h.reviewService.Submit(r.Context(), req.ProductID, req.UserID, req.Rating, req.Comment)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

// Delete removes a review
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewService.Delete(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, review)
}

// AverageRating returns the mean rating of a product
func (h *ReviewHandler) AverageRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	avg, err := h.reviewService.AverageRating(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, avg)
}

// UpdateStatus sets the moderation status of a review
func (h *ReviewHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Status update validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	review, err := h.reviewService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, review)
}

// ListForModeration returns every review in moderation order
func (h *ReviewHandler) ListForModeration(w http.ResponseWriter, r *http.Request) {
	details, err := h.reviewService.ListForModeration(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, details)
}

// ListApproved returns approved reviews, optionally for ?productId=
func (h *ReviewHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	productID, err := optionalQueryID(r, "productId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := h.reviewService.ListApproved(r.Context(), productID)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, details)
}
