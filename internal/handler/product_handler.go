package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// ProductHandler handles product HTTP requests
type ProductHandler struct {
	productService service.ProductService
	logger         *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		respondInvalidJSON(w)
		return
	}

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondCreated(w, product)
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondInvalidID(w, "product")
		return
	}

	var input service.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		respondInvalidJSON(w)
		return
	}

	product, err := h.productService.Update(r.Context(), id, input)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, product)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)

	filter := models.ProductFilter{
		NameContains: q.getString("name"),
		PriceGte:     q.getDecimal("price_gte"),
		PriceLte:     q.getDecimal("price_lte"),
		StockGte:     q.getOptionalInt("stock_gte"),
		StockLte:     q.getOptionalInt("stock_lte"),
		StockBelow:   q.getOptionalInt("stock_below"),
		OrderBy:      q.getOrderBy(models.ProductSortFields),
		Page:         q.getInt("page"),
		PageSize:     q.getInt("page_size"),
	}
	if q.err != nil {
		handleError(w, r, q.err, h.logger)
		return
	}

	result, err := h.productService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondInvalidID(w, "product")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, product)
}

// RestockLowStock handles POST /products/restock-low-stock. The body is optional.
func (h *ProductHandler) RestockLowStock(w http.ResponseWriter, r *http.Request) {
	var req service.RestockRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondInvalidJSON(w)
		return
	}

	result, err := h.productService.RestockLowStock(r.Context(), req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, result)
}
