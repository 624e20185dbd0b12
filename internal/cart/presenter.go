package cart

import "github.com/shopspring/decimal"

type LineView struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	ImageRef  string          `json:"image_ref,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type View struct {
	Items         []LineView      `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type BadgeView struct {
	TotalQuantity int `json:"total_quantity"`
}

// Present projects the cart for the cart and checkout pages. A nil cart
// renders as empty.
func Present(c *Cart) View {
	if c == nil {
		c = New()
	}
	v := View{
		Items:         make([]LineView, 0, len(c.Items)),
		TotalQuantity: c.TotalQuantity(),
		TotalAmount:   c.TotalAmount(),
	}
	for _, l := range c.Items {
		v.Items = append(v.Items, LineView{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			ImageRef:  l.ImageRef,
			Subtotal:  l.Subtotal(),
		})
	}
	return v
}

func Badge(c *Cart) BadgeView {
	if c == nil {
		return BadgeView{}
	}
	return BadgeView{TotalQuantity: c.TotalQuantity()}
}
