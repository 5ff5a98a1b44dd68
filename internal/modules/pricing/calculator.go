package pricing

import (
	"github.com/comandero/pos-core/internal/modules/catalog"
)

// SelectedModifier is one priced selection instance. GroupTitle holds the
// display label the group was shown under, which for combo relabeling is not
// necessarily the group's own title.
type SelectedModifier struct {
	GroupTitle string                 `json:"groupTitle"`
	Option     catalog.ModifierOption `json:"option"`
}

// Quote is the result of pricing one item with its selections.
type Quote struct {
	UnitTotal  float64            `json:"unitTotal"`
	GrandTotal float64            `json:"grandTotal"`
	Priced     []SelectedModifier `json:"pricedModifiers"`
}

// Price computes the unit and grand total for an item plus its modifier
// selections, and returns the canonical priced selection list.
//
// Selections are keyed by display label and priced per group in selection
// order. Groups without a tiered policy charge every pick at the option's own
// listed price, duplicates included. Tiered groups charge the first
// FreeSelectionCount picks at their own price and every later pick at the flat
// ExtraPrice. Single-select groups never hold more than one pick, so tiering
// is skipped for them and the pick always lands in the free tier.
//
// The function is pure: totals, receipts and dispatch messages all re-derive
// from the same stored selections, so an identical input must always produce
// an identical quote. A selection under a label with no group definition is
// dropped rather than failing the whole calculation.
func Price(item *catalog.MenuItem, groups []catalog.LabeledGroup, selections map[string][]catalog.ModifierOption, quantity int) Quote {
	if quantity < 1 {
		quantity = 1
	}

	var priced []SelectedModifier
	modifiersTotal := 0.0

	for _, group := range groups {
		picks := selections[group.DisplayLabel]
		if len(picks) == 0 {
			continue
		}

		tiered := group.Tiered() && group.SelectionType != catalog.SelectionSingle
		for i, opt := range picks {
			final := opt
			if tiered && i >= *group.FreeSelectionCount {
				final.Price = *group.ExtraPrice
			}
			modifiersTotal += final.Price
			priced = append(priced, SelectedModifier{GroupTitle: group.DisplayLabel, Option: final})
		}
	}

	unit := item.Price + modifiersTotal
	return Quote{
		UnitTotal:  round2(unit),
		GrandTotal: round2(unit * float64(quantity)),
		Priced:     priced,
	}
}

// Replay re-derives a line total from already-priced modifiers, as stored on
// an order item. The stored option prices are final (tier overrides applied
// at add-time), so the sum is a plain accumulation.
func Replay(basePrice float64, modifiers []catalog.ModifierOption, quantity int) (unitTotal, grandTotal float64) {
	if quantity < 1 {
		quantity = 1
	}
	unit := basePrice
	for _, m := range modifiers {
		unit += m.Price
	}
	return round2(unit), round2(unit * float64(quantity))
}

func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return float64(int64(v*100+0.5)) / 100
}
