package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/cart"
)

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest.Quantity is required; an explicit 0 removes the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

type AddToCartResponse struct {
	cart.View
	Added   int  `json:"added"`
	Clamped bool `json:"clamped"`
}

type CheckoutSummaryResponse struct {
	Cart          cart.View `json:"cart"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
}

type PlaceOrderResponse struct {
	OrderID     uint            `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
