package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/testdb"
)

func (f *fixture) add(t *testing.T, sessionID string, p *models.Product, q int) {
	t.Helper()
	_, err := f.cart.AddToCart(context.Background(), sessionID, p.ID, q)
	require.NoError(t, err)
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "20.00", 5)
	b := f.product(t, "B", "10.00", 5)
	f.add(t, "s1", a, 1)
	f.add(t, "s1", b, 1)
	user := uuid.New()

	order, err := f.placer.PlaceOrder(ctx, "s1", validShipping(), &user)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "30.00", order.TotalAmount.StringFixed(2))
	require.NotNil(t, order.UserID)
	assert.Equal(t, user, *order.UserID)

	saved, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, saved.Items, 2)
	assert.Equal(t, "A", saved.Items[0].ProductName)
	assert.Equal(t, "20.00", saved.Items[0].PriceAtPurchase.StringFixed(2))
	assert.Equal(t, "B", saved.Items[1].ProductName)
	assert.Equal(t, "10.00", saved.Items[1].PriceAtPurchase.StringFixed(2))
	assert.Equal(t, "30.00", saved.TotalAmount.StringFixed(2))

	assert.Equal(t, 4, f.stock(t, a.ID))
	assert.Equal(t, 4, f.stock(t, b.ID))

	c, err := f.cart.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	assert.Equal(t, []uint{order.ID}, f.events.orders)
}

func TestPlaceOrder_GuestHasNoUser(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", "20.00", 5)
	f.add(t, "guest", a, 2)

	order, err := f.placer.PlaceOrder(context.Background(), "guest", validShipping(), nil)
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
	assert.Equal(t, "40.00", order.TotalAmount.StringFixed(2))
}

func TestPlaceOrder_UsesCartPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "20.00", 5)
	f.add(t, "s1", a, 1)

	require.NoError(t, f.repo.DB.Model(&models.Product{}).Where("id = ?", a.ID).
		Update("price", decimal.RequireFromString("99.00")).Error)

	order, err := f.placer.PlaceOrder(ctx, "s1", validShipping(), nil)
	require.NoError(t, err)
	assert.Equal(t, "20.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, "20.00", order.Items[0].PriceAtPurchase.StringFixed(2))
}

func TestPlaceOrder_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "20.00", 5)
	b := f.product(t, "B", "10.00", 2)
	f.add(t, "s1", a, 1)
	f.add(t, "s1", b, 2)

	// stock drops after the items were added
	require.NoError(t, f.repo.DB.Model(&models.Product{}).Where("id = ?", b.ID).Update("stock_quantity", 1).Error)

	_, err := f.placer.PlaceOrder(ctx, "s1", validShipping(), nil)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "B", stockErr.ProductName)
	assert.Equal(t, "not enough stock for product: B", err.Error())

	orders, items := f.counts(t)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Equal(t, 5, f.stock(t, a.ID), "earlier line must be rolled back")
	assert.Equal(t, 1, f.stock(t, b.ID))

	c, err := f.cart.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, c.TotalQuantity())
	assert.Empty(t, f.events.orders)
}

func TestPlaceOrder_QuantityAboveStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "20.00", 1)
	f.add(t, "s1", a, 1)
	_, err := f.cart.UpdateCartItem(ctx, "s1", a.ID, 2)
	require.NoError(t, err)

	_, err = f.placer.PlaceOrder(ctx, "s1", validShipping(), nil)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	orders, items := f.counts(t)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Equal(t, 1, f.stock(t, a.ID))
}

func TestPlaceOrder_ValidationTouchesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "20.00", 5)
	f.add(t, "s1", a, 1)

	info := validShipping()
	info.CustomerName = ""
	_, err := f.placer.PlaceOrder(ctx, "s1", info, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "customer_name")

	orders, _ := f.counts(t)
	assert.Zero(t, orders)
	assert.Equal(t, 5, f.stock(t, a.ID))
	c, err := f.cart.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalQuantity())
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.placer.PlaceOrder(context.Background(), "nobody", validShipping(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.placer.Summary(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_MissingProductIsAnnotated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", "20.00", 5)
	gone := f.product(t, "Gone", "7.50", 5)
	f.add(t, "s1", a, 1)
	f.add(t, "s1", gone, 2)

	require.NoError(t, f.repo.DB.Delete(&models.Product{}, gone.ID).Error)

	order, err := f.placer.PlaceOrder(ctx, "s1", validShipping(), nil)
	require.NoError(t, err)
	assert.Equal(t, "35.00", order.TotalAmount.StringFixed(2))

	saved, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, saved.Items, 2)
	assert.NotNil(t, saved.Items[0].ProductID)
	assert.Nil(t, saved.Items[1].ProductID)
	assert.Equal(t, "Gone (Product Missing)", saved.Items[1].ProductName)
	assert.Equal(t, 2, saved.Items[1].Quantity)
	assert.Equal(t, "7.50", saved.Items[1].PriceAtPurchase.StringFixed(2))
	assert.Equal(t, 4, f.stock(t, a.ID))
}

func TestPlaceOrder_MissingProductLongName(t *testing.T) {
	missingLongName(t, newFixture(t))
}

func TestPlaceOrder_MissingProductLongName_Postgres(t *testing.T) {
	missingLongName(t, newFixtureOn(t, testdb.Postgres(t)))
}

func missingLongName(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	name := strings.Repeat("n", 255)
	gone := f.product(t, name, "3.00", 5)
	f.add(t, "s1", gone, 1)

	require.NoError(t, f.repo.DB.Delete(&models.Product{}, gone.ID).Error)

	order, err := f.placer.PlaceOrder(ctx, "s1", validShipping(), nil)
	require.NoError(t, err)

	saved, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	assert.Nil(t, saved.Items[0].ProductID)
	assert.Equal(t, name+models.MissingProductSuffix, saved.Items[0].ProductName)
}

func TestPlaceOrder_EventFailureDoesNotFailCheckout(t *testing.T) {
	f := newFixture(t)
	f.events.err = errBroker
	a := f.product(t, "A", "20.00", 5)
	f.add(t, "s1", a, 1)

	order, err := f.placer.PlaceOrder(context.Background(), "s1", validShipping(), nil)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestPlaceOrder_CancelledContext(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", "20.00", 5)
	f.add(t, "s1", a, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.placer.PlaceOrder(ctx, "s1", validShipping(), nil)
	require.Error(t, err)

	orders, _ := f.counts(t)
	assert.Zero(t, orders)
	assert.Equal(t, 5, f.stock(t, a.ID))
}

func TestPlaceOrder_ConcurrentLastUnit(t *testing.T) {
	raceLastUnit(t, newFixture(t))
}

func TestPlaceOrder_ConcurrentLastUnit_Postgres(t *testing.T) {
	raceLastUnit(t, newFixtureOn(t, testdb.Postgres(t)))
}

func raceLastUnit(t *testing.T, f *fixture) {
	t.Helper()
	a := f.product(t, "A", "20.00", 1)
	f.add(t, "s1", a, 1)
	f.add(t, "s2", a, 1)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, sid := range []string{"s1", "s2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.placer.PlaceOrder(context.Background(), sid, validShipping(), nil)
		}()
	}
	wg.Wait()

	var ok, stockFail int
	loser := ""
	for i, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrInsufficientStock):
			stockFail++
			loser = []string{"s1", "s2"}[i]
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, stockFail)

	orders, items := f.counts(t)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(1), items)
	assert.Equal(t, 0, f.stock(t, a.ID))

	c, err := f.cart.GetCart(context.Background(), loser)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalQuantity())
}
