package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	calls  int
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func order() *models.Order {
	pid := uint(5)
	return &models.Order{
		ID:          42,
		TotalAmount: decimal.RequireFromString("30.00"),
		Status:      models.StatusPending,
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Items: []models.OrderItem{
			{ProductID: &pid, ProductName: "A", Quantity: 1, PriceAtPurchase: decimal.RequireFromString("20.00")},
			{ProductName: "B (Product Missing)", Quantity: 1, PriceAtPurchase: decimal.RequireFromString("10.00")},
		},
	}
}

func TestPublishOrderPlaced(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := NewPublisher(w)

	require.NoError(t, p.PublishOrderPlaced(context.Background(), order()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeOrderPlaced, string(msg.Headers[0].Value))

	var ev OrderPlaced
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, uint(42), ev.OrderID)
	assert.Nil(t, ev.UserID)
	assert.Equal(t, "30", ev.TotalAmount.String())
	require.Len(t, ev.Items, 2)
	assert.Nil(t, ev.Items[1].ProductID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishOrderPlaced_BreakerOpens(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{err: errors.New("broker down")}
	p := NewPublisher(w)

	for range 3 {
		assert.Error(t, p.PublishOrderPlaced(context.Background(), order()))
	}
	err := p.PublishOrderPlaced(context.Background(), order())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, w.calls)
}
