package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ApplyDiscountRequest represents the discount update payload. The range is
// checked by the catalog service.
type ApplyDiscountRequest struct {
	Discount *int `json:"discount" validate:"required"`
}

// CategoryResponse is one entry of the category list
type CategoryResponse struct {
	CategoryName string `json:"categoryName"`
}

// CountResponse carries the product count
type CountResponse struct {
	Count int `json:"count"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalogService service.CatalogService
	publicBaseURL  string
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler. An empty publicBaseURL
// makes share links point at the host the request arrived on.
func NewProductHandler(catalogService service.CatalogService, publicBaseURL string, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		publicBaseURL:  publicBaseURL,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/Product", h.ListAll)
	r.Get("/api/Product/{id}", h.GetByID)
	r.Get("/api/Product/share/facebook/{productId}", h.ShareOnFacebook)

	r.Get("/filterOnCategory", h.FilterByCategory)
	r.Get("/filterByPrice", h.FilterByPrice)
	r.Get("/getCategories", h.ListCategories)
	r.Put("/applyDiscount/{id}", h.ApplyDiscount)
	r.Get("/countProducts", h.CountProducts)
	r.Get("/discountedProducts", h.ListDiscounted)
}

// ListAll returns every product view
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	views, err := h.catalogService.ListAll(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// GetByID returns a single product view
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.catalogService.GetByID(r.Context(), id)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// ShareOnFacebook redirects to the Facebook share dialog for a product
func (h *ProductHandler) ShareOnFacebook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "productId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	baseURL := h.publicBaseURL
	if baseURL == "" {
		baseURL = requestBaseURL(r)
	}

	shareURL, err := h.catalogService.ShareURL(r.Context(), id, baseURL)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	http.Redirect(w, r, shareURL, http.StatusFound)
}

// FilterByCategory returns the products of one category
func (h *ProductHandler) FilterByCategory(w http.ResponseWriter, r *http.Request) {
	views, err := h.catalogService.FilterByCategory(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// FilterByPrice returns the products priced within the min/max query bounds
func (h *ProductHandler) FilterByPrice(w http.ResponseWriter, r *http.Request) {
	min, err := optionalQueryDecimal(r, "min")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	max, err := optionalQueryDecimal(r, "max")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	views, err := h.catalogService.FilterByPriceRange(r.Context(), min, max)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// ListCategories returns the distinct category names
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	names, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}

	categories := make([]CategoryResponse, 0, len(names))
	for _, name := range names {
		categories = append(categories, CategoryResponse{CategoryName: name})
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ApplyDiscount sets the discount percentage of a product
func (h *ProductHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ApplyDiscountRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Discount request validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	result, err := h.catalogService.ApplyDiscount(r.Context(), id, *req.Discount)
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// CountProducts returns the number of products
func (h *ProductHandler) CountProducts(w http.ResponseWriter, r *http.Request) {
	count, err := h.catalogService.CountAll(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, CountResponse{Count: count})
}

// ListDiscounted returns the products on sale
func (h *ProductHandler) ListDiscounted(w http.ResponseWriter, r *http.Request) {
	views, err := h.catalogService.ListDiscounted(r.Context())
	if err != nil {
		middleware.RespondWithAppError(w, r, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views)
}
