package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(id uint, name, price string) Snapshot {
	return Snapshot{ProductID: id, Name: name, UnitPrice: decimal.RequireFromString(price), ImageRef: "img/" + name + ".png"}
}

func TestAdd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		adds  []int
		wantQ int
		lines int
	}{
		{name: "single", adds: []int{2}, wantQ: 2, lines: 1},
		{name: "repeated adds sum", adds: []int{1, 2, 3}, wantQ: 6, lines: 1},
		{name: "zero is ignored", adds: []int{0}, wantQ: 0, lines: 0},
		{name: "negative is ignored", adds: []int{2, -5}, wantQ: 2, lines: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := New()
			for _, q := range tt.adds {
				c.Add(snap(1, "mug", "9.99"), q)
			}
			assert.Len(t, c.Items, tt.lines)
			assert.Equal(t, tt.wantQ, c.TotalQuantity())
		})
	}
}

func TestAdd_FirstSnapshotWins(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(snap(1, "mug", "9.99"), 1)
	c.Add(snap(1, "mug v2", "12.00"), 1)

	l, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "mug", l.Name)
	assert.True(t, l.UnitPrice.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 2, l.Quantity)
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(snap(3, "c", "1"), 1)
	c.Add(snap(1, "a", "1"), 1)
	c.Add(snap(2, "b", "1"), 1)
	c.Add(snap(1, "a", "1"), 1)

	ids := []uint{}
	for _, l := range c.Lines() {
		ids = append(ids, l.ProductID)
	}
	assert.Equal(t, []uint{3, 1, 2}, ids)
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(snap(1, "a", "5"), 1)
	c.Add(snap(2, "b", "5"), 1)

	c.UpdateQuantity(1, 4)
	l, _ := c.Get(1)
	assert.Equal(t, 4, l.Quantity)

	c.UpdateQuantity(99, 3)
	assert.Len(t, c.Items, 2)

	removed := New()
	removed.Add(snap(1, "a", "5"), 4)
	removed.Add(snap(2, "b", "5"), 1)
	removed.Remove(1)

	c.UpdateQuantity(1, 0)
	assert.Equal(t, removed.Items, c.Items)

	c.UpdateQuantity(2, -1)
	assert.True(t, c.IsEmpty())
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(snap(1, "a", "5"), 1)
	c.Add(snap(2, "b", "5"), 1)

	c.Remove(42)
	assert.Len(t, c.Items, 2)

	c.Remove(1)
	_, ok := c.Get(1)
	assert.False(t, ok)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.TotalAmount().IsZero())
}

func TestTotalAmount(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(snap(1, "a", "20.00"), 1)
	c.Add(snap(2, "b", "10.00"), 1)
	c.Add(snap(3, "c", "0.10"), 3)

	assert.Equal(t, "30.30", c.TotalAmount().StringFixed(2))

	c.UpdateQuantity(1, 2)
	assert.Equal(t, "50.30", c.TotalAmount().StringFixed(2))
}
