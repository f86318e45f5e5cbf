package transport

import (
	"net/http"
	"strconv"

	"github.com/manhcun265/LVM-shop-manager/internal/domain"
	"github.com/manhcun265/LVM-shop-manager/internal/middleware"
	"github.com/manhcun265/LVM-shop-manager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPageSize = 10

// ProductRequest is the payload for product create and update. The image
// URL list replaces the product's image set entirely.
type ProductRequest struct {
	Name       string   `json:"name" validate:"required"`
	Price      float64  `json:"price" validate:"gte=0"`
	CategoryID string   `json:"category_id" validate:"required,uuid"`
	Detail     string   `json:"detail"`
	ImageURLs  []string `json:"image_urls"`
}

// UpdateStatusRequest is the payload for product status changes.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateProductResponse returns the identity of a created product.
type CreateProductResponse struct {
	ID string `json:"id"`
}

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	lifecycle service.ProductService
	query     service.ProductQuery
	logger    *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(lifecycle service.ProductService, query service.ProductQuery, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		lifecycle: lifecycle,
		query:     query,
		logger:    logger,
	}
}

// RegisterRoutes registers all product routes. Reads are public;
// lifecycle operations require an authenticated user for attribution.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/history", h.History)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Put("/{id}/status", h.UpdateStatus)
		})
	})
}

// Create handles product creation.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	actingUserID, ok := actingUser(w, r)
	if !ok {
		return
	}

	id, err := h.lifecycle.Create(r.Context(), service.ProductInput{
		Name:         req.Name,
		Price:        req.Price,
		CategoryID:   categoryID,
		Detail:       req.Detail,
		ImageURLs:    req.ImageURLs,
		ActingUserID: actingUserID,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CreateProductResponse{ID: id.String()})
}

// Update handles product updates.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	actingUserID, ok := actingUser(w, r)
	if !ok {
		return
	}

	err = h.lifecycle.Update(r.Context(), id, service.ProductInput{
		Name:         req.Name,
		Price:        req.Price,
		CategoryID:   categoryID,
		Detail:       req.Detail,
		ImageURLs:    req.ImageURLs,
		ActingUserID: actingUserID,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles product deletion.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	actingUserID, ok := actingUser(w, r)
	if !ok {
		return
	}

	if err := h.lifecycle.Delete(r.Context(), id, actingUserID); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus handles product status changes.
func (h *ProductHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !decodeBody(w, r, h.logger, &req) {
		return
	}

	status, err := domain.ParseProductStatus(req.Status)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	actingUserID, ok := actingUser(w, r)
	if !ok {
		return
	}

	if err := h.lifecycle.UpdateStatus(r.Context(), id, status, actingUserID); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search handles filtered, paginated product listing. Query parameters:
// keyword, category_id, page (zero-indexed), page_size.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	var keyword *string
	if k := r.URL.Query().Get("keyword"); k != "" {
		keyword = &k
	}

	var categoryID *uuid.UUID
	if c := r.URL.Query().Get("category_id"); c != "" {
		parsed, err := uuid.Parse(c)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		categoryID = &parsed
	}

	page := queryInt(r, "page", 0)
	pageSize := queryInt(r, "page_size", defaultPageSize)

	result, err := h.query.Search(r.Context(), keyword, categoryID, page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Get handles single product detail reads.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := h.query.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// History returns a product's audit trail, including for deleted products.
func (h *ProductHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	history, err := h.query.History(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, history)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func actingUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
