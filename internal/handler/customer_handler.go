package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input service.CustomerInput
	if err := decodeJSON(r, &input); err != nil {
		respondInvalidJSON(w)
		return
	}

	result, err := h.customerService.Create(r.Context(), input)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondCreated(w, result)
}

// BulkCreateCustomers handles POST /customers/bulk
func (h *CustomerHandler) BulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	var inputs []service.CustomerInput
	if err := decodeJSON(r, &inputs); err != nil {
		respondInvalidJSON(w)
		return
	}

	result, err := h.customerService.BulkCreate(r.Context(), inputs)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)

	filter := models.CustomerFilter{
		NameContains:  q.getString("name"),
		EmailContains: q.getString("email"),
		PhonePrefix:   q.getString("phone_prefix"),
		OrderBy:       q.getOrderBy(models.CustomerSortFields),
		Page:          q.getInt("page"),
		PageSize:      q.getInt("page_size"),
	}
	if q.err != nil {
		handleError(w, r, q.err, h.logger)
		return
	}

	result, err := h.customerService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// GetCustomer handles GET /customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondInvalidID(w, "customer")
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// DeleteCustomer handles DELETE /customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondInvalidID(w, "customer")
		return
	}

	if err := h.customerService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
