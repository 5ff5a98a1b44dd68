package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comandero/pos-core/internal/modules/catalog"
	"github.com/comandero/pos-core/internal/modules/pricing"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func tieredGroup(label string, free int, extra float64) catalog.LabeledGroup {
	return catalog.LabeledGroup{
		ModifierGroup: catalog.ModifierGroup{
			Title:              "Proteina Adicional",
			SelectionType:      catalog.SelectionMultiple,
			FreeSelectionCount: intPtr(free),
			ExtraPrice:         floatPtr(extra),
			Options: []catalog.ModifierOption{
				{Name: "Carne", Price: 0},
				{Name: "Queso de Mano", Price: 1},
			},
		},
		DisplayLabel: label,
	}
}

func TestPrice_TieredGroup(t *testing.T) {
	item := &catalog.MenuItem{Name: "Cachapa", Price: 12}

	tests := []struct {
		name       string
		picks      []catalog.ModifierOption
		wantPrices []float64
		wantUnit   float64
	}{
		{
			name:       "single_pick_stays_free",
			picks:      []catalog.ModifierOption{{Name: "Carne", Price: 0}},
			wantPrices: []float64{0},
			wantUnit:   12,
		},
		{
			name: "duplicate_pick_charges_extra",
			picks: []catalog.ModifierOption{
				{Name: "Carne", Price: 0},
				{Name: "Carne", Price: 0},
			},
			wantPrices: []float64{0, 2},
			wantUnit:   14,
		},
		{
			name: "extra_tier_overrides_own_price",
			picks: []catalog.ModifierOption{
				{Name: "Queso de Mano", Price: 1},
				{Name: "Queso de Mano", Price: 1},
			},
			wantPrices: []float64{1, 2},
			wantUnit:   15,
		},
		{
			name: "selection_order_decides_the_free_slot",
			picks: []catalog.ModifierOption{
				{Name: "Carne", Price: 0},
				{Name: "Queso de Mano", Price: 1},
			},
			wantPrices: []float64{0, 2},
			wantUnit:   14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := []catalog.LabeledGroup{tieredGroup("Proteina Adicional", 1, 2)}
			selections := map[string][]catalog.ModifierOption{"Proteina Adicional": tt.picks}

			quote := pricing.Price(item, groups, selections, 1)

			assert.Equal(t, tt.wantUnit, quote.UnitTotal)
			got := make([]float64, len(quote.Priced))
			for i, pm := range quote.Priced {
				got[i] = pm.Option.Price
			}
			assert.Equal(t, tt.wantPrices, got)
		})
	}
}

func TestPrice_UntieredGroupChargesListedPrices(t *testing.T) {
	item := &catalog.MenuItem{Name: "Cachapa", Price: 12}
	groups := []catalog.LabeledGroup{{
		ModifierGroup: catalog.ModifierGroup{
			Title:         "Personaliza",
			SelectionType: catalog.SelectionMultiple,
			Options: []catalog.ModifierOption{
				{Name: "Extra Chimichurri", Price: 0.5},
			},
		},
		DisplayLabel: "Personaliza",
	}}
	selections := map[string][]catalog.ModifierOption{
		"Personaliza": {
			{Name: "Extra Chimichurri", Price: 0.5},
			{Name: "Extra Chimichurri", Price: 0.5},
		},
	}

	quote := pricing.Price(item, groups, selections, 1)

	// No tier policy: every pick at its own price, duplicates included.
	assert.Equal(t, 13.0, quote.UnitTotal)
}

func TestPrice_SingleSelectGroupSkipsTiering(t *testing.T) {
	item := &catalog.MenuItem{Name: "Parrilla", Price: 18}
	g := tieredGroup("Proteina Principal", 0, 2)
	g.SelectionType = catalog.SelectionSingle
	selections := map[string][]catalog.ModifierOption{
		"Proteina Principal": {{Name: "Carne", Price: 0}},
	}

	quote := pricing.Price(item, []catalog.LabeledGroup{g}, selections, 1)

	// Even with a zero free count, a single-select pick is never pushed into
	// the extra tier.
	assert.Equal(t, 18.0, quote.UnitTotal)
}

func TestPrice_ComboRelabeledGroups(t *testing.T) {
	item := &catalog.MenuItem{Name: "Parrilla Mixta", Price: 18}
	proteins := catalog.ModifierGroup{
		Title:         "Elige tu Proteina",
		SelectionType: catalog.SelectionSingle,
		Options: []catalog.ModifierOption{
			{Name: "Carne en Vara", Price: 0},
			{Name: "Puerco", Price: 0},
		},
	}
	groups := []catalog.LabeledGroup{
		{ModifierGroup: proteins, DisplayLabel: "Proteina Principal"},
		{ModifierGroup: proteins, DisplayLabel: "Segunda Proteina"},
	}
	selections := map[string][]catalog.ModifierOption{
		"Proteina Principal": {{Name: "Carne en Vara", Price: 0}},
		"Segunda Proteina":   {{Name: "Puerco", Price: 0}},
	}

	quote := pricing.Price(item, groups, selections, 1)

	// The same group under two labels keeps both picks, one per label.
	assert.Len(t, quote.Priced, 2)
	assert.Equal(t, "Proteina Principal", quote.Priced[0].GroupTitle)
	assert.Equal(t, "Segunda Proteina", quote.Priced[1].GroupTitle)
}

func TestPrice_UnknownLabelIsDropped(t *testing.T) {
	item := &catalog.MenuItem{Name: "Cachapa", Price: 12}
	groups := []catalog.LabeledGroup{tieredGroup("Proteina Adicional", 1, 2)}
	selections := map[string][]catalog.ModifierOption{
		"No Such Group": {{Name: "Carne", Price: 0}},
	}

	quote := pricing.Price(item, groups, selections, 1)

	assert.Empty(t, quote.Priced)
	assert.Equal(t, 12.0, quote.UnitTotal)
}

func TestPrice_QuantityAndRounding(t *testing.T) {
	item := &catalog.MenuItem{Name: "Sopa", Price: 4.2}

	quote := pricing.Price(item, nil, nil, 3)

	// 4.2 * 3 accumulates float noise; the quote is clamped to cents.
	assert.Equal(t, 4.2, quote.UnitTotal)
	assert.Equal(t, 12.6, quote.GrandTotal)
}

func TestPrice_QuantityFloorsToOne(t *testing.T) {
	item := &catalog.MenuItem{Name: "Sopa", Price: 5}

	quote := pricing.Price(item, nil, nil, 0)

	assert.Equal(t, 5.0, quote.GrandTotal)
}

func TestReplay_MatchesOriginalQuote(t *testing.T) {
	item := &catalog.MenuItem{Name: "Cachapa", Price: 12}
	groups := []catalog.LabeledGroup{tieredGroup("Proteina Adicional", 1, 2)}
	selections := map[string][]catalog.ModifierOption{
		"Proteina Adicional": {
			{Name: "Carne", Price: 0},
			{Name: "Queso de Mano", Price: 1},
		},
	}

	quote := pricing.Price(item, groups, selections, 2)

	// Replaying the stored, already-tiered prices must reproduce the quote
	// exactly; totals on receipts re-derive this way.
	stored := make([]catalog.ModifierOption, len(quote.Priced))
	for i, pm := range quote.Priced {
		stored[i] = pm.Option
	}
	unit, grand := pricing.Replay(item.Price, stored, 2)
	assert.Equal(t, quote.UnitTotal, unit)
	assert.Equal(t, quote.GrandTotal, grand)
}
