package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartService struct {
	Repo     *repo.GormRepo
	Sessions session.Store
}

// AddResult reports what actually went into the cart.
type AddResult struct {
	Cart    *cart.Cart
	Added   int
	Clamped bool
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

// AddToCart snapshots the product's current name, price and image. A request
// above the units on hand is reduced to what is in stock; the final check
// happens again at checkout.
func (s *CartService) AddToCart(ctx context.Context, sessionID string, productID uint, quantity int) (*AddResult, error) {
	if productID == 0 {
		return nil, &ValidationError{Fields: map[string]string{"product_id": "this field is required"}}
	}
	if quantity <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"quantity": "must be at least 1"}}
	}

	p, err := s.Repo.GetProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product not found: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p.StockQuantity <= 0 {
		return nil, fmt.Errorf("%s: %w", p.Name, ErrOutOfStock)
	}

	res := &AddResult{Added: quantity}
	if quantity > p.StockQuantity {
		res.Added = p.StockQuantity
		res.Clamped = true
		logging.FromContext(ctx).With("svc", "cart").Info("cart_add_clamped",
			"product_id", p.ID, "requested", quantity, "added", res.Added)
	}

	c, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	c.Add(cart.Snapshot{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  p.ImagePath,
	}, res.Added)

	if err := s.Sessions.Save(ctx, sessionID, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	res.Cart = c
	return res, nil
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateCartItem(ctx context.Context, sessionID string, productID uint, quantity int) (*cart.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) {
		c.UpdateQuantity(productID, quantity)
	})
}

func (s *CartService) RemoveFromCart(ctx context.Context, sessionID string, productID uint) (*cart.Cart, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) {
		c.Remove(productID)
	})
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return cart.New(), nil
}

func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(c *cart.Cart)) (*cart.Cart, error) {
	c, err := s.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	fn(c)
	if err := s.Sessions.Save(ctx, sessionID, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}
