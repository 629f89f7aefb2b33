package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// OrderHandler handles order HTTP requests
type OrderHandler struct {
	orderService service.OrderService
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input service.OrderInput
	if err := decodeJSON(r, &input); err != nil {
		respondInvalidJSON(w)
		return
	}

	order, err := h.orderService.Create(r.Context(), input)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondCreated(w, order)
}

// ListOrders handles GET /orders. order_date_gte and order_date_lte take RFC
// 3339 timestamps or YYYY-MM-DD dates; a date is a UTC calendar day, and as
// order_date_lte it includes the whole day.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)

	filter := models.OrderFilter{
		CustomerID:           q.getID("customer_id"),
		CustomerNameContains: q.getString("customer_name"),
		ProductID:            q.getID("product_id"),
		Status:               q.getString("status"),
		OrderDateGte:         q.getTime("order_date_gte"),
		OrderDateLte:         q.getTimeUpTo("order_date_lte"),
		TotalGte:             q.getDecimal("total_gte"),
		TotalLte:             q.getDecimal("total_lte"),
		OrderBy:              q.getOrderBy(models.OrderSortFields),
		Page:                 q.getInt("page"),
		PageSize:             q.getInt("page_size"),
	}
	if q.err != nil {
		handleError(w, r, q.err, h.logger)
		return
	}

	result, err := h.orderService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// GetOrder handles GET /orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondInvalidID(w, "order")
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, order)
}

// UpdateOrderStatus handles PATCH /orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondInvalidID(w, "order")
		return
	}

	var req service.UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondInvalidJSON(w)
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, req)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, order)
}
