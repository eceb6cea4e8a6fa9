package catalog

import (
	"time"
)

// Product is a sellable item tracked by the store.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	Supplier    string    `json:"supplier,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"min_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LowStock reports whether the on-hand quantity is at or under the
// minimum-stock threshold.
func (p Product) LowStock() bool {
	return p.Quantity <= p.MinStock
}

// CreateProductInput carries the fields accepted by the inventory add form.
type CreateProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category"`
	Barcode     string  `json:"barcode"`
	Supplier    string  `json:"supplier"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	MinStock    int     `json:"min_stock" validate:"gte=0"`
}

// UpdateProductInput carries the fields accepted by the manual edit form.
type UpdateProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category"`
	Barcode     string  `json:"barcode"`
	Supplier    string  `json:"supplier"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	MinStock    int     `json:"min_stock" validate:"gte=0"`
}
