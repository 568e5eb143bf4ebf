package cart

import (
	"testing"

	"github.com/ariefcatur/go-pizzaria-orders/internal/apperr"
	"github.com/ariefcatur/go-pizzaria-orders/internal/menu"
	"github.com/ariefcatur/go-pizzaria-orders/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []menu.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func newConfigurator(t *testing.T, pizza string) *Configurator {
	t.Helper()
	c, err := NewConfigurator(menu.Default(), pizza)
	require.NoError(t, err)
	return c
}

func TestConfigurator_Defaults(t *testing.T) {
	c := newConfigurator(t, "paulistana")

	assert.Equal(t, menu.DefaultSize, c.Size().ID)
	assert.Equal(t, []string{"paulistana"}, ids(c.Flavors()))

	p, err := c.Price()
	require.NoError(t, err)
	assert.Equal(t, "45.00", pricing.Display(p))
}

func TestConfigurator_RejectsNonPizza(t *testing.T) {
	_, err := NewConfigurator(menu.Default(), "tiramisu")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = NewConfigurator(menu.Default(), "unknown")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestConfigurator_ToggleFlavorRespectsLimits(t *testing.T) {
	c := newConfigurator(t, "paulistana")

	require.NoError(t, c.ToggleFlavor("calabresa"))
	err := c.ToggleFlavor("margherita")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "media allows two flavors")

	require.NoError(t, c.ToggleFlavor("paulistana"))
	assert.Equal(t, []string{"calabresa"}, ids(c.Flavors()))

	err = c.ToggleFlavor("calabresa")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "last flavor cannot be removed")

	err = c.ToggleFlavor("coca-lata")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestConfigurator_ShrinkingSizeTruncatesFlavors(t *testing.T) {
	c := newConfigurator(t, "paulistana")
	require.NoError(t, c.SetSize("familia"))
	require.NoError(t, c.SetFlavors([]string{"chef", "paulistana", "quattro", "pepperoni"}))

	require.NoError(t, c.SetSize("grande"))
	assert.Equal(t, []string{"chef", "paulistana"}, ids(c.Flavors()))

	require.NoError(t, c.SetSize("pequena"))
	assert.Equal(t, []string{"chef"}, ids(c.Flavors()))

	require.NoError(t, c.SetSize("familia"))
	assert.Equal(t, []string{"chef"}, ids(c.Flavors()), "growing does not restore dropped flavors")
}

func TestConfigurator_SetFlavorsValidation(t *testing.T) {
	c := newConfigurator(t, "paulistana")

	assert.True(t, apperr.IsKind(c.SetFlavors(nil), apperr.KindValidation))
	assert.True(t, apperr.IsKind(c.SetFlavors([]string{"chef", "quattro", "pepperoni"}), apperr.KindValidation))
	assert.True(t, apperr.IsKind(c.SetFlavors([]string{"chef", "chef"}), apperr.KindValidation))
	assert.True(t, apperr.IsKind(c.SetFlavors([]string{"xyz"}), apperr.KindNotFound))
	assert.Equal(t, []string{"paulistana"}, ids(c.Flavors()), "failed updates keep the previous set")
}

func TestConfigurator_FullPizzaPrice(t *testing.T) {
	c := newConfigurator(t, "paulistana")
	require.NoError(t, c.SetSize("grande"))
	require.NoError(t, c.SetFlavors([]string{"paulistana", "chef"}))
	require.NoError(t, c.SetCrust("catupiry"))
	require.NoError(t, c.SetExtras([]string{"bacon", "queijo", "bacon"}))
	c.SetObservation("sem cebola")

	// (45+55)/2 * 1.3 + 8 + 5 + 4
	line, err := c.Line(2)
	require.NoError(t, err)

	assert.Equal(t, KindPizza, line.Kind)
	assert.Equal(t, "82.00", pricing.Display(line.UnitPrice))
	assert.Equal(t, "164.00", pricing.Display(line.LineTotal()))
	require.NotNil(t, line.Pizza)
	assert.Equal(t, "grande", line.Pizza.Size.ID)
	assert.Equal(t, "catupiry", line.Pizza.Crust.ID)
	assert.Len(t, line.Pizza.Extras, 2)
	assert.Equal(t, "sem cebola", line.Pizza.Observation)
}

func TestConfigurator_ToggleExtra(t *testing.T) {
	c := newConfigurator(t, "margherita")
	c.ToggleExtra("oregano")
	c.ToggleExtra("cebola")
	c.ToggleExtra("oregano")
	c.ToggleExtra("unknown")

	require.Len(t, c.Extras(), 1)
	assert.Equal(t, "cebola", c.Extras()[0].ID)

	p, err := c.Price()
	require.NoError(t, err)
	assert.Equal(t, "45.00", pricing.Display(p))
}

func TestConfigurator_LineRejectsZeroQuantity(t *testing.T) {
	c := newConfigurator(t, "margherita")
	_, err := c.Line(0)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestConfigurator_UnknownOptions(t *testing.T) {
	c := newConfigurator(t, "margherita")
	assert.True(t, apperr.IsKind(c.SetSize("xl"), apperr.KindNotFound))
	assert.True(t, apperr.IsKind(c.SetCrust("xl"), apperr.KindNotFound))
	assert.True(t, apperr.IsKind(c.SetExtras([]string{"xl"}), apperr.KindNotFound))
}
