package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the handlers mounted by NewRouter
type Handlers struct {
	Health    *HealthHandler
	Customers *CustomerHandler
	Products  *ProductHandler
	Orders    *OrderHandler
	Reports   *ReportHandler
	Jobs      *JobHandler
}

// NewRouter registers every route on a chi router
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware)

	r.Get("/health", h.Health.Health)
	r.Get("/hello", h.Reports.Hello)

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.Customers.CreateCustomer)
		r.Post("/bulk", h.Customers.BulkCreateCustomers)
		r.Get("/", h.Customers.ListCustomers)
		r.Get("/{id}", h.Customers.GetCustomer)
		r.Delete("/{id}", h.Customers.DeleteCustomer)
	})

	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.Products.CreateProduct)
		r.Get("/", h.Products.ListProducts)
		r.Post("/restock-low-stock", h.Products.RestockLowStock)
		r.Get("/{id}", h.Products.GetProduct)
		r.Put("/{id}", h.Products.UpdateProduct)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.Orders.CreateOrder)
		r.Get("/", h.Orders.ListOrders)
		r.Get("/{id}", h.Orders.GetOrder)
		r.Patch("/{id}/status", h.Orders.UpdateOrderStatus)
	})

	r.Get("/reports/summary", h.Reports.Summary)
	r.Post("/jobs/{name}", h.Jobs.EnqueueJob)

	return r
}
