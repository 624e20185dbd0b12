package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/testdb"
)

type fixture struct {
	repo     *repo.GormRepo
	sessions *session.RedisStore
	events   *fakeEvents
	cart     *CartService
	placer   *OrderPlacer
	orders   *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, testdb.SQLite(t))
}

func newFixtureOn(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := &repo.GormRepo{DB: db}
	store := session.NewRedisStore(client, time.Hour)
	ev := &fakeEvents{}

	return &fixture{
		repo:     r,
		sessions: store,
		events:   ev,
		cart:     &CartService{Repo: r, Sessions: store},
		placer:   &OrderPlacer{Repo: r, Sessions: store, Guard: &InventoryGuard{}, Events: ev},
		orders:   &OrderService{Repo: r},
	}
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *models.Product {
	t.Helper()
	p, err := f.repo.CreateProduct(context.Background(), &models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		ImagePath:     "products/" + name + ".jpg",
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.repo.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

func (f *fixture) counts(t *testing.T) (orders, items int64) {
	t.Helper()
	require.NoError(t, f.repo.DB.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, f.repo.DB.Model(&models.OrderItem{}).Count(&items).Error)
	return orders, items
}

func validShipping() ShippingInfo {
	return ShippingInfo{
		CustomerName:         "Jane Doe",
		CustomerEmail:        "jane@example.com",
		ShippingAddressLine1: "1 Main St",
		ShippingCity:         "Springfield",
		ShippingState:        "IL",
		ShippingPostalCode:   "62701",
		ShippingCountry:      "US",
	}
}

type fakeEvents struct {
	mu     sync.Mutex
	orders []uint
	err    error
}

func (f *fakeEvents) PublishOrderPlaced(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, o.ID)
	return nil
}

var errBroker = errors.New("broker down")
