package memstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/models"
)

type orderRepo struct {
	s *Store
}

var orderOrdering = map[string]func(a, b *models.Order) int{
	"id":           func(a, b *models.Order) int { return compareInt64(a.ID, b.ID) },
	"order_date":   func(a, b *models.Order) int { return compareTime(a.OrderDate, b.OrderDate) },
	"total_amount": func(a, b *models.Order) int { return a.TotalAmount.Cmp(b.TotalAmount) },
	"status":       func(a, b *models.Order) int { return strings.Compare(a.Status, b.Status) },
	"customer_id":  func(a, b *models.Order) int { return compareInt64(a.CustomerID, b.CustomerID) },
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	defer r.s.lock()()

	if _, ok := r.s.d.customers[order.CustomerID]; !ok {
		return fmt.Errorf("failed to create order: customer %d does not exist", order.CustomerID)
	}

	ids := order.ProductIDs()
	for _, id := range ids {
		if _, ok := r.s.d.products[id]; !ok {
			return fmt.Errorf("failed to associate order products: product %d does not exist", id)
		}
	}

	r.s.d.nextOrder++
	order.ID = r.s.d.nextOrder

	row := orderRow{order: *order, productIDs: ids}
	row.order.Customer = nil
	row.order.Products = nil
	r.s.d.orders[order.ID] = row
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	defer r.s.lock()()

	row, ok := r.s.d.orders[id]
	if !ok {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}
	return r.materialize(row), nil
}

func (r *orderRepo) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, int64, error) {
	defer r.s.lock()()

	orders := []*models.Order{}
	for _, row := range r.s.d.orders {
		order := r.materialize(row)
		if !matchOrder(order, row.productIDs, filter) {
			continue
		}
		orders = append(orders, order)
	}

	sortRecords(orders, filter.OrderBy, orderOrdering, func(o *models.Order) int64 { return o.ID })
	total := int64(len(orders))

	return paginate(orders, filter.Page, filter.PageSize), total, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	defer r.s.lock()()

	row, ok := r.s.d.orders[id]
	if !ok {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("order with ID %d not found", id))
	}
	row.order.Status = status
	r.s.d.orders[id] = row
	return nil
}

// materialize attaches the current customer and products to a stored order
func (r *orderRepo) materialize(row orderRow) *models.Order {
	order := row.order

	if c, ok := r.s.d.customers[order.CustomerID]; ok {
		customer := copyCustomer(c)
		order.Customer = &customer
	}

	order.Products = make([]*models.Product, 0, len(row.productIDs))
	for _, id := range row.productIDs {
		if p, ok := r.s.d.products[id]; ok {
			order.Products = append(order.Products, &p)
		}
	}
	sortRecords(order.Products, nil, productOrdering, func(p *models.Product) int64 { return p.ID })

	return &order
}

func matchOrder(o *models.Order, productIDs []int64, f models.OrderFilter) bool {
	switch {
	case f.CustomerID > 0 && o.CustomerID != f.CustomerID:
		return false
	case f.CustomerNameContains != "" && (o.Customer == nil || !containsFold(o.Customer.Name, f.CustomerNameContains)):
		return false
	case f.Status != "" && o.Status != f.Status:
		return false
	case f.OrderDateGte != nil && o.OrderDate.Before(*f.OrderDateGte):
		return false
	case f.OrderDateLte != nil && o.OrderDate.After(*f.OrderDateLte):
		return false
	case f.TotalGte != nil && o.TotalAmount.LessThan(*f.TotalGte):
		return false
	case f.TotalLte != nil && o.TotalAmount.GreaterThan(*f.TotalLte):
		return false
	}

	if f.ProductID > 0 {
		for _, id := range productIDs {
			if id == f.ProductID {
				return true
			}
		}
		return false
	}
	return true
}
