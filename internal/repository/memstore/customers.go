package memstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/models"
)

type customerRepo struct {
	s *Store
}

var customerOrdering = map[string]func(a, b *models.Customer) int{
	"id":         func(a, b *models.Customer) int { return compareInt64(a.ID, b.ID) },
	"name":       func(a, b *models.Customer) int { return strings.Compare(a.Name, b.Name) },
	"email":      func(a, b *models.Customer) int { return strings.Compare(a.Email, b.Email) },
	"created_at": func(a, b *models.Customer) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	defer r.s.lock()()

	for _, existing := range r.s.d.customers {
		if existing.Email == customer.Email {
			return models.ErrAlreadyExistsWithMsg("email", "Email already exists")
		}
	}

	r.s.d.nextCustomer++
	customer.ID = r.s.d.nextCustomer
	customer.CreatedAt = r.s.now()
	r.s.d.customers[customer.ID] = copyCustomer(*customer)
	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	defer r.s.lock()()

	c, ok := r.s.d.customers[id]
	if !ok {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}
	out := copyCustomer(c)
	return &out, nil
}

func (r *customerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	defer r.s.lock()()

	for _, c := range r.s.d.customers {
		if c.Email == email {
			out := copyCustomer(c)
			return &out, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with email %s not found", email))
}

func (r *customerRepo) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error) {
	defer r.s.lock()()

	customers := []*models.Customer{}
	for _, c := range r.s.d.customers {
		if filter.NameContains != "" && !containsFold(c.Name, filter.NameContains) {
			continue
		}
		if filter.EmailContains != "" && !containsFold(c.Email, filter.EmailContains) {
			continue
		}
		if filter.PhonePrefix != "" && (c.Phone == nil || !strings.HasPrefix(*c.Phone, filter.PhonePrefix)) {
			continue
		}
		out := copyCustomer(c)
		customers = append(customers, &out)
	}

	sortRecords(customers, filter.OrderBy, customerOrdering, func(c *models.Customer) int64 { return c.ID })
	total := int64(len(customers))

	return paginate(customers, filter.Page, filter.PageSize), total, nil
}

func (r *customerRepo) Delete(ctx context.Context, id int64) error {
	defer r.s.lock()()

	if _, ok := r.s.d.customers[id]; !ok {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}
	delete(r.s.d.customers, id)

	for orderID, o := range r.s.d.orders {
		if o.order.CustomerID == id {
			delete(r.s.d.orders, orderID)
		}
	}
	return nil
}

func copyCustomer(c models.Customer) models.Customer {
	if c.Phone != nil {
		phone := *c.Phone
		c.Phone = &phone
	}
	return c
}
