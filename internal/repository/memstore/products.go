package memstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/models"
)

type productRepo struct {
	s *Store
}

var productOrdering = map[string]func(a, b *models.Product) int{
	"id":         func(a, b *models.Product) int { return compareInt64(a.ID, b.ID) },
	"name":       func(a, b *models.Product) int { return strings.Compare(a.Name, b.Name) },
	"price":      func(a, b *models.Product) int { return a.Price.Cmp(b.Price) },
	"stock":      func(a, b *models.Product) int { return compareInt64(int64(a.Stock), int64(b.Stock)) },
	"created_at": func(a, b *models.Product) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	defer r.s.lock()()

	r.s.d.nextProduct++
	product.ID = r.s.d.nextProduct
	product.CreatedAt = r.s.now()
	r.s.d.products[product.ID] = *product
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	defer r.s.lock()()

	p, ok := r.s.d.products[id]
	if !ok {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("product with ID %d not found", id))
	}
	return &p, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	defer r.s.lock()()

	seen := make(map[int64]bool, len(ids))
	products := []*models.Product{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.s.d.products[id]; ok {
			products = append(products, &p)
		}
	}

	sortRecords(products, nil, productOrdering, func(p *models.Product) int64 { return p.ID })
	return products, nil
}

func (r *productRepo) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int64, error) {
	defer r.s.lock()()

	products := []*models.Product{}
	for _, p := range r.s.d.products {
		if !matchProduct(p, filter) {
			continue
		}
		p := p
		products = append(products, &p)
	}

	sortRecords(products, filter.OrderBy, productOrdering, func(p *models.Product) int64 { return p.ID })
	total := int64(len(products))

	return paginate(products, filter.Page, filter.PageSize), total, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	defer r.s.lock()()

	existing, ok := r.s.d.products[product.ID]
	if !ok {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("product with ID %d not found", product.ID))
	}
	product.CreatedAt = existing.CreatedAt
	r.s.d.products[product.ID] = *product
	return nil
}

func (r *productRepo) RestockBelow(ctx context.Context, threshold, amount int) ([]*models.Product, error) {
	defer r.s.lock()()

	updated := []*models.Product{}
	for id, p := range r.s.d.products {
		if p.Stock >= threshold {
			continue
		}
		p.Stock += amount
		r.s.d.products[id] = p
		p := p
		updated = append(updated, &p)
	}

	sortRecords(updated, nil, productOrdering, func(p *models.Product) int64 { return p.ID })
	return updated, nil
}

func matchProduct(p models.Product, f models.ProductFilter) bool {
	switch {
	case f.NameContains != "" && !containsFold(p.Name, f.NameContains):
		return false
	case f.PriceGte != nil && p.Price.LessThan(*f.PriceGte):
		return false
	case f.PriceLte != nil && p.Price.GreaterThan(*f.PriceLte):
		return false
	case f.StockGte != nil && p.Stock < *f.StockGte:
		return false
	case f.StockLte != nil && p.Stock > *f.StockLte:
		return false
	case f.StockBelow != nil && p.Stock >= *f.StockBelow:
		return false
	}
	return true
}
