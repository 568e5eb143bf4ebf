package cart

import (
	"context"
	"strings"
	"testing"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/ariefcatur/go-pizzaria-orders/internal/menu"
	"github.com/ariefcatur/go-pizzaria-orders/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(t *testing.T, id string) menu.Item {
	t.Helper()
	it, err := menu.Default().Item(id)
	require.NoError(t, err)
	return it
}

func TestAdd_AssignsCartLocalID(t *testing.T) {
	c := New("sess-1")
	coke := item(t, "coca-lata")

	l, err := Simple(coke, 2)
	require.NoError(t, err)
	a, err := c.Add(l)
	require.NoError(t, err)
	b, err := c.Add(l)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.ID, "coca-lata-"))
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, coke.ID, a.ID)
	assert.Len(t, c.Lines, 2)
}

func TestAdd_RejectsZeroQuantity(t *testing.T) {
	c := New("sess-1")
	_, err := c.Add(Line{Item: item(t, "agua"), Quantity: 0, UnitPrice: decimal.NewFromInt(4)})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSimple_RejectsPizza(t *testing.T) {
	_, err := Simple(item(t, "paulistana"), 1)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateQuantity_ScalesUnitPrice(t *testing.T) {
	c := New("sess-1")
	l, err := c.Add(Line{Kind: KindPizza, Item: item(t, "paulistana"), Quantity: 2, UnitPrice: decimal.RequireFromString("30.00")})
	require.NoError(t, err)
	assert.Equal(t, "60.00", pricing.Display(c.Totals().Subtotal))

	require.NoError(t, c.UpdateQuantity(l.ID, 3))

	got, err := c.Line(l.ID)
	require.NoError(t, err)
	assert.Equal(t, "90.00", pricing.Display(got.LineTotal()))
	assert.Equal(t, 3, c.Totals().ItemCount)
}

func TestUpdateQuantity_KeepsAdHocUnitPrice(t *testing.T) {
	c := New("sess-1")
	tiramisu := item(t, "tiramisu")
	l, err := c.Add(Line{Kind: KindSimple, Item: tiramisu, Quantity: 1, UnitPrice: decimal.RequireFromString("15.30")})
	require.NoError(t, err)

	require.NoError(t, c.UpdateQuantity(l.ID, 4))

	got, _ := c.Line(l.ID)
	assert.Equal(t, "61.20", pricing.Display(got.LineTotal()))
	assert.False(t, got.UnitPrice.Equal(tiramisu.Price))
}

func TestUpdateQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	for _, q := range []int{0, -2} {
		c := New("sess-1")
		l, err := Simple(item(t, "agua"), 1)
		require.NoError(t, err)
		added, err := c.Add(l)
		require.NoError(t, err)

		require.NoError(t, c.UpdateQuantity(added.ID, q))
		assert.True(t, c.Empty())
	}
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	c := New("sess-1")
	err := c.UpdateQuantity("nope", 2)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRemove_LastLineZeroesTotals(t *testing.T) {
	c := New("sess-1")
	l, _ := Simple(item(t, "coca-2l"), 2)
	added, err := c.Add(l)
	require.NoError(t, err)

	require.NoError(t, c.Remove(added.ID))

	tot := c.Totals()
	assert.True(t, tot.Subtotal.IsZero())
	assert.Equal(t, 0, tot.ItemCount)
	assert.True(t, apperr.IsKind(c.Remove(added.ID), apperr.KindNotFound))
}

func TestClear(t *testing.T) {
	c := New("sess-1")
	l, _ := Simple(item(t, "agua"), 3)
	_, _ = c.Add(l)
	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Totals().ItemCount)
}

func TestSnapshot_IsIndependent(t *testing.T) {
	c := New("sess-1")
	l, _ := Simple(item(t, "agua"), 1)
	added, _ := c.Add(l)

	snap := c.Snapshot()
	require.NoError(t, c.UpdateQuantity(added.ID, 5))

	assert.Equal(t, 1, snap[0].Quantity)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	c, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	l, _ := Simple(item(t, "suco-laranja"), 2)
	_, err = c.Add(l)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, c))

	// mutating the loaded copy does not leak into the store
	c.Clear()
	again, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, again.Lines, 1)

	require.NoError(t, s.Delete(ctx, "sess-1"))
	gone, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, gone.Empty())
}
