package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// MemoryRepository keeps the catalog in process memory. It backs tests and
// single-terminal demo deployments that run without PostgreSQL.
type MemoryRepository struct {
	mu       sync.Mutex
	products map[int64]Product
	nextID   int64
	now      func() time.Time
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products: make(map[int64]Product),
		nextID:   1,
		now:      time.Now,
	}
}

// WithNow overrides the repository clock for tests.
func (m *MemoryRepository) WithNow(fn func() time.Time) {
	if fn != nil {
		m.now = fn
	}
}

func (m *MemoryRepository) List(ctx context.Context, search string) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(search)
	var products []Product
	for _, p := range m.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle) &&
			!strings.Contains(strings.ToLower(p.Barcode), needle) {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id int64) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	return p, nil
}

func (m *MemoryRepository) GetByBarcode(ctx context.Context, barcode string) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if barcode != "" {
		for _, p := range m.products {
			if p.Barcode == barcode {
				return p, nil
			}
		}
	}
	return Product{}, fmt.Errorf("barcode %s: %w", barcode, httpx.ErrNotFound)
}

func (m *MemoryRepository) SearchByName(ctx context.Context, name string) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(name)
	var products []Product
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (m *MemoryRepository) Create(ctx context.Context, product Product) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if product.Barcode != "" {
		for _, existing := range m.products {
			if existing.Barcode == product.Barcode {
				return Product{}, fmt.Errorf("barcode %s already registered: %w", product.Barcode, httpx.ErrDuplicate)
			}
		}
	}

	now := m.now()
	product.ID = m.nextID
	product.CreatedAt = now
	product.UpdatedAt = now
	m.nextID++
	m.products[product.ID] = product
	return product, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id int64, product Product) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	existing.Name = product.Name
	existing.Category = product.Category
	existing.Barcode = product.Barcode
	existing.Supplier = product.Supplier
	existing.Description = product.Description
	existing.Price = product.Price
	existing.MinStock = product.MinStock
	existing.UpdatedAt = m.now()
	m.products[id] = existing
	return existing, nil
}

func (m *MemoryRepository) AdjustQuantity(ctx context.Context, id int64, delta int) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	p.Quantity += delta
	if p.Quantity < 0 {
		p.Quantity = 0
	}
	p.UpdatedAt = m.now()
	m.products[id] = p
	return p, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	delete(m.products, id)
	return nil
}

func (m *MemoryRepository) ListLowStock(ctx context.Context) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var products []Product
	for _, p := range m.products {
		if p.LowStock() {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Quantity != products[j].Quantity {
			return products[i].Quantity < products[j].Quantity
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}
