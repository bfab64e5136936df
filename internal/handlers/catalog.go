package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"zshop-storefront-api/internal/pagination"
	"zshop-storefront-api/internal/services"
)

// CatalogHandler serves products, categories and variant resolution.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts handles GET /v1/products - one page, filtered on the shop API.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := pagination.ParseProductQuery(r.URL.Query())

	page, err := h.catalog.Products(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load products")
		return
	}
	slog.Debug("Products listed", "page", page.Meta.Page, "count", len(page.Data), "total", page.Meta.Total)
	writeJSONResponse(w, http.StatusOK, page)
}

// AllProducts handles GET /v1/products/all - every product, unpaginated.
func (h *CatalogHandler) AllProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.AllProducts(r.Context(), r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load products")
		return
	}
	writeJSONResponse(w, http.StatusOK, nonNil(list))
}

// Collection returns the handler for one curated list.
func (h *CatalogHandler) Collection(c services.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.catalog.Collection(r.Context(), c)
		if err != nil {
			writeServiceError(w, r, err, "Failed to load products")
			return
		}
		writeJSONResponse(w, http.StatusOK, nonNil(list))
	}
}

// ByCategory handles GET /v1/products/category/{categoryId}.
func (h *CatalogHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.ByCategory(r.Context(), mux.Vars(r)["categoryId"])
	if err != nil {
		writeServiceError(w, r, err, "Failed to load products")
		return
	}
	writeJSONResponse(w, http.StatusOK, nonNil(list))
}

// Metadata handles GET /v1/products/metadata.
func (h *CatalogHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.catalog.Metadata(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load product metadata")
		return
	}
	writeJSONResponse(w, http.StatusOK, meta)
}

// GetProduct handles GET /v1/products/{productId}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), mux.Vars(r)["productId"])
	if err != nil {
		writeServiceError(w, r, err, "Failed to load product")
		return
	}
	writeJSONResponse(w, http.StatusOK, p)
}

// ResolveVariant handles POST /v1/products/{productId}/variants/resolve.
func (h *CatalogHandler) ResolveVariant(w http.ResponseWriter, r *http.Request) {
	var req services.ResolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.catalog.ResolveVariant(r.Context(), mux.Vars(r)["productId"], req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load product")
		return
	}
	writeJSONResponse(w, http.StatusOK, view)
}

// Categories handles GET /v1/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load categories")
		return
	}
	writeJSONResponse(w, http.StatusOK, nonNil(list))
}

// GetCategory handles GET /v1/categories/{categoryId}.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.Category(r.Context(), mux.Vars(r)["categoryId"])
	if err != nil {
		writeServiceError(w, r, err, "Failed to load category")
		return
	}
	writeJSONResponse(w, http.StatusOK, c)
}

// nonNil keeps empty collections encoded as [] instead of null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
