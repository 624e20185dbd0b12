package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/repo"
)

// Reservation is the outcome of one check-and-decrement.
type Reservation struct {
	ProductID uint
	Quantity  int
	// Missing means the product row is gone; nothing was reserved and the
	// order line is kept as an annotated record.
	Missing bool
}

// InventoryGuard is the only writer of products.stock_quantity.
type InventoryGuard struct{}

// Reserve must run on a transaction-bound repo. The decrement is a single
// conditional update, so two transactions racing for the last unit cannot
// both match.
func (g *InventoryGuard) Reserve(ctx context.Context, tx *repo.GormRepo, productID uint, quantity int) (Reservation, error) {
	res := Reservation{ProductID: productID, Quantity: quantity}
	if quantity <= 0 {
		return res, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	ok, err := tx.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return res, fmt.Errorf("decrement stock: %w", err)
	}
	if ok {
		return res, nil
	}

	p, err := tx.GetProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		res.Missing = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("reload product: %w", err)
	}

	return res, &InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Requested:   quantity,
		Available:   p.StockQuantity,
	}
}
