// Package memstore is an in-memory repository.Store. It backs the API when
// DB_DRIVER=memory and serves as the store in service and handler tests.
//
// Transactions work on a copy of the data that replaces the live data on
// commit. A top-level transaction holds the store lock for its whole
// duration, so transactions are serialized.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/repository"
)

type orderRow struct {
	order      models.Order
	productIDs []int64
}

type data struct {
	customers    map[int64]models.Customer
	products     map[int64]models.Product
	orders       map[int64]orderRow
	nextCustomer int64
	nextProduct  int64
	nextOrder    int64
}

func newData() *data {
	return &data{
		customers: make(map[int64]models.Customer),
		products:  make(map[int64]models.Product),
		orders:    make(map[int64]orderRow),
	}
}

func (d *data) clone() *data {
	c := &data{
		customers:    make(map[int64]models.Customer, len(d.customers)),
		products:     make(map[int64]models.Product, len(d.products)),
		orders:       make(map[int64]orderRow, len(d.orders)),
		nextCustomer: d.nextCustomer,
		nextProduct:  d.nextProduct,
		nextOrder:    d.nextOrder,
	}
	for id, cu := range d.customers {
		c.customers[id] = cu
	}
	for id, p := range d.products {
		c.products[id] = p
	}
	for id, o := range d.orders {
		o.productIDs = append([]int64(nil), o.productIDs...)
		c.orders[id] = o
	}
	return c
}

// Store implements repository.Store in memory
type Store struct {
	mu   *sync.Mutex
	d    *data
	inTx bool
	now  func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		mu:  &sync.Mutex{},
		d:   newData(),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// lock serializes access outside transactions; inside one the lock is
// already held by the enclosing WithTx.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Customers() repository.CustomerRepository { return &customerRepo{s} }
func (s *Store) Products() repository.ProductRepository   { return &productRepo{s} }
func (s *Store) Orders() repository.OrderRepository       { return &orderRepo{s} }
func (s *Store) Reports() repository.ReportRepository     { return &reportRepo{s} }

// WithTx runs fn against a copy of the data and keeps the copy only when fn
// succeeds. Nested calls behave like savepoints.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unlock := s.lock()
	defer unlock()

	working := s.d.clone()
	if err := fn(&Store{mu: s.mu, d: working, inTx: true, now: s.now}); err != nil {
		return err
	}

	*s.d = *working
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortRecords orders records by the given fields, falling back to id
func sortRecords[T any](records []T, fields []models.SortField, less map[string]func(a, b T) int, id func(T) int64) {
	sort.SliceStable(records, func(i, j int) bool {
		for _, f := range fields {
			cmp, ok := less[f.Field]
			if !ok {
				continue
			}
			c := cmp(records[i], records[j])
			if f.Desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return id(records[i]) < id(records[j])
	})
}

// paginate slices records the way the SQL store applies LIMIT/OFFSET
func paginate[T any](records []T, page, pageSize int) []T {
	if !models.IsPaginated(page, pageSize) {
		return records
	}
	models.ValidateAndSetDefaults(&page, &pageSize)
	start := models.CalculateOffset(page, pageSize)
	if start > len(records) {
		start = len(records)
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}
