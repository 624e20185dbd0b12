package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type checkoutState string

const (
	stateValidating checkoutState = "validating"
	stateReserving  checkoutState = "reserving"
	statePersisting checkoutState = "persisting"
	stateCommitted  checkoutState = "committed"
	stateFailed     checkoutState = "failed"
)

type OrderEvents interface {
	PublishOrderPlaced(ctx context.Context, o *models.Order) error
}

type OrderPlacer struct {
	Repo     *repo.GormRepo
	Sessions session.Store
	Guard    *InventoryGuard
	// Optional; nil skips event publishing.
	Events OrderEvents
}

// Summary loads the cart shown on the checkout page.
func (p *OrderPlacer) Summary(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := p.Sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return c, nil
}

// PlaceOrder turns the session cart into a pending order. Stock for every
// line is reserved and the order written in one transaction; on any failure
// nothing is persisted and the cart is left as it was.
func (p *OrderPlacer) PlaceOrder(ctx context.Context, sessionID string, info ShippingInfo, userID *uuid.UUID) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "session_id", sessionID)
	step := func(s checkoutState, args ...any) {
		l.Info("checkout_state", append([]any{"state", string(s)}, args...)...)
	}

	step(stateValidating)
	if err := info.Validate(); err != nil {
		step(stateFailed, "reason", "validation", "error", err)
		return nil, err
	}

	c, err := p.Summary(ctx, sessionID)
	if err != nil {
		step(stateFailed, "error", err)
		return nil, err
	}
	lines := c.Lines()

	var order *models.Order
	err = p.Repo.InTx(ctx, func(tx *repo.GormRepo) error {
		step(stateReserving, "lines", len(lines))

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			res, err := p.Guard.Reserve(ctx, tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			items = append(items, orderItem(line, res, l))
		}

		step(statePersisting)
		order = &models.Order{
			UserID:               userID,
			CustomerName:         info.CustomerName,
			CustomerEmail:        info.CustomerEmail,
			ShippingAddressLine1: info.ShippingAddressLine1,
			ShippingAddressLine2: info.ShippingAddressLine2,
			ShippingCity:         info.ShippingCity,
			ShippingState:        info.ShippingState,
			ShippingPostalCode:   info.ShippingPostalCode,
			ShippingCountry:      info.ShippingCountry,
			TotalAmount:          c.TotalAmount(),
			Status:               models.StatusPending,
			Items:                items,
		}
		if _, err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		step(stateFailed, "error", err)
		return nil, err
	}
	step(stateCommitted, "order_id", order.ID, "total_amount", order.TotalAmount.StringFixed(2))

	if err := p.Sessions.Delete(ctx, sessionID); err != nil {
		l.Error("checkout_clear_cart_error", "order_id", order.ID, "error", err)
	}

	if p.Events != nil {
		if err := p.Events.PublishOrderPlaced(ctx, order); err != nil {
			l.Warn("checkout_event_error", "order_id", order.ID, "error", err)
		}
	}

	return order, nil
}

func orderItem(line cart.Line, res Reservation, l *slog.Logger) models.OrderItem {
	item := models.OrderItem{
		ProductName:     line.Name,
		Quantity:        line.Quantity,
		PriceAtPurchase: line.UnitPrice,
	}
	if res.Missing {
		l.Warn("checkout_product_missing", "product_id", line.ProductID, "name", line.Name)
		item.ProductName += models.MissingProductSuffix
		return item
	}
	id := line.ProductID
	item.ProductID = &id
	return item
}
