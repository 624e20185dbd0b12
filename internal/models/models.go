package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPaid       = "paid"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// MissingProductSuffix marks order items whose product vanished between
// cart-add and checkout.
const MissingProductSuffix = " (Product Missing)"

type Product struct {
	ID            uint            `gorm:"primaryKey"                       json:"id"`
	Name          string          `gorm:"not null"                         json:"name"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null"      json:"price"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	ImagePath     string          `                                        json:"image_path"`
	CreatedAt     time.Time       `                                        json:"created_at"`
	UpdatedAt     time.Time       `                                        json:"updated_at"`
}

type Order struct {
	ID                   uint            `gorm:"primaryKey"                  json:"id"`
	UserID               *uuid.UUID      `gorm:"type:uuid;index"             json:"user_id,omitempty"`
	CustomerName         string          `gorm:"size:255;not null"           json:"customer_name"`
	CustomerEmail        string          `gorm:"size:255;not null"           json:"customer_email"`
	ShippingAddressLine1 string          `gorm:"size:255;not null"           json:"shipping_address_line1"`
	ShippingAddressLine2 string          `gorm:"size:255"                    json:"shipping_address_line2,omitempty"`
	ShippingCity         string          `gorm:"size:255;not null"           json:"shipping_city"`
	ShippingState        string          `gorm:"size:255;not null"           json:"shipping_state"`
	ShippingPostalCode   string          `gorm:"size:10;not null"            json:"shipping_postal_code"`
	ShippingCountry      string          `gorm:"size:255;not null"           json:"shipping_country"`
	TotalAmount          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status               string          `gorm:"size:32;not null;index"      json:"status"`
	CreatedAt            time.Time       `gorm:"index"                       json:"created_at"`
	UpdatedAt            time.Time       `                                   json:"updated_at"`
	Items                []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	ID              uint            `gorm:"primaryKey"                  json:"id"`
	OrderID         uint            `gorm:"index;not null"              json:"order_id"`
	ProductID       *uint           `gorm:"index"                       json:"product_id"`
	ProductName     string          `gorm:"type:text;not null"          json:"product_name"`
	Quantity        int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_at_purchase"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
