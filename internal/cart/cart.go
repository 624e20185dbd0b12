// Package cart holds the per-session shopping cart. It never talks to the
// database: lines carry the price snapshot taken when the product was added.
package cart

import (
	"github.com/shopspring/decimal"
)

// Snapshot is the catalog data captured when a product first enters the cart.
type Snapshot struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageRef  string          `json:"image_ref,omitempty"`
}

type Line struct {
	Snapshot
	Quantity int `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines in insertion order, at most one per product.
type Cart struct {
	Items []Line `json:"items"`
}

func New() *Cart {
	return &Cart{Items: []Line{}}
}

func (c *Cart) index(productID uint) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add increments an existing line or appends a new one. An existing line keeps
// its first snapshot.
func (c *Cart) Add(s Snapshot, quantity int) {
	if quantity <= 0 {
		return
	}
	if i := c.index(s.ProductID); i >= 0 {
		c.Items[i].Quantity += quantity
		return
	}
	c.Items = append(c.Items, Line{Snapshot: s, Quantity: quantity})
}

// UpdateQuantity replaces the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(productID uint, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

func (c *Cart) Remove(productID uint) {
	if i := c.index(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = []Line{}
}

func (c *Cart) Get(productID uint) (Line, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Items[i], true
	}
	return Line{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) TotalQuantity() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Items {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy safe to iterate while the cart is mutated.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.Items))
	copy(out, c.Items)
	return out
}
