// Package cart holds the line items of a single, not-yet-committed sale.
package cart

import (
	"github.com/meridian-pos/meridian-pos/internal/catalog"
)

// Line pairs a product with a requested quantity. Name and price are carried
// along so the register can render the cart without re-reading the catalog.
type Line struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart is the transient, session-scoped collection of lines. At most one
// line exists per product ID.
type Cart struct {
	Lines []Line `json:"lines"`
}

// AddItem adds one unit of the product. An existing line for the same
// product is incremented instead of duplicated. No stock check happens here;
// availability is settled at checkout.
func (c *Cart) AddItem(p catalog.Product) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
}

// SetQuantity sets a line's quantity to an absolute value. Zero or negative
// removes the line.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem drops the line for the product unconditionally.
func (c *Cart) RemoveItem(productID int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties all lines.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Total sums price * quantity over all lines. It is recomputed on every
// call; nothing is cached.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}
