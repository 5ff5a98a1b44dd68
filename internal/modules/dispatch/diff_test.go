package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandero/pos-core/internal/modules/dispatch"
	"github.com/comandero/pos-core/internal/modules/table"
)

func item(id, name string, qty int) table.OrderItem {
	return table.OrderItem{ID: id, Name: name, Quantity: qty, Status: table.ItemPending}
}

func TestComputeDelta(t *testing.T) {
	tests := []struct {
		name     string
		current  []table.OrderItem
		snapshot []table.OrderItem
		want     []table.OrderItem
	}{
		{
			name:    "everything_is_new_without_snapshot",
			current: []table.OrderItem{item("a", "Cachapa", 2), item("b", "Sopa", 1)},
			want:    []table.OrderItem{item("a", "Cachapa", 2), item("b", "Sopa", 1)},
		},
		{
			name:     "grown_line_yields_quantity_difference",
			current:  []table.OrderItem{item("a", "Cachapa", 3), item("b", "Sopa", 1)},
			snapshot: []table.OrderItem{item("a", "Cachapa", 2)},
			want:     []table.OrderItem{item("a", "Cachapa", 1), item("b", "Sopa", 1)},
		},
		{
			name:     "unchanged_lines_are_excluded",
			current:  []table.OrderItem{item("a", "Cachapa", 2)},
			snapshot: []table.OrderItem{item("a", "Cachapa", 2)},
			want:     nil,
		},
		{
			name:     "shrunk_lines_are_excluded",
			current:  []table.OrderItem{item("a", "Cachapa", 1)},
			snapshot: []table.OrderItem{item("a", "Cachapa", 2)},
			want:     nil,
		},
		{
			name: "cancelled_lines_are_excluded",
			current: []table.OrderItem{
				{ID: "a", Name: "Cachapa", Quantity: 2, Status: table.ItemCancelled},
				item("b", "Sopa", 1),
			},
			snapshot: []table.OrderItem{},
			want:     []table.OrderItem{item("b", "Sopa", 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dispatch.ComputeDelta(tt.current, tt.snapshot)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeDelta_DoesNotAliasCurrent(t *testing.T) {
	current := []table.OrderItem{item("a", "Cachapa", 3)}
	snapshot := []table.OrderItem{item("a", "Cachapa", 2)}

	got := dispatch.ComputeDelta(current, snapshot)

	require.Len(t, got, 1)
	got[0].Quantity = 99
	assert.Equal(t, 3, current[0].Quantity)
}

func TestItemsToSend(t *testing.T) {
	t.Run("first_dispatch_sends_the_full_order", func(t *testing.T) {
		tbl := &table.Table{
			Number: 1, Status: table.StatusDraft,
			Order: []table.OrderItem{item("a", "Cachapa", 2)},
		}

		items, action := dispatch.ItemsToSend(tbl)

		assert.Equal(t, dispatch.ActionNewOrder, action)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("later_dispatch_sends_only_the_delta", func(t *testing.T) {
		tbl := &table.Table{
			Number: 1, Status: table.StatusUnpaid,
			Order: []table.OrderItem{
				item("a", "Cachapa", 3),
				item("b", "Sopa", 1),
			},
			LastSentOrder: []table.OrderItem{item("a", "Cachapa", 2)},
		}

		items, action := dispatch.ItemsToSend(tbl)

		assert.Equal(t, dispatch.ActionAdditional, action)
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Equal(t, "Sopa", items[1].Name)
	})

	t.Run("nothing_pending_yields_empty_delta", func(t *testing.T) {
		tbl := &table.Table{
			Number: 1, Status: table.StatusUnpaid,
			Order:         []table.OrderItem{item("a", "Cachapa", 2)},
			LastSentOrder: []table.OrderItem{item("a", "Cachapa", 2)},
		}

		items, action := dispatch.ItemsToSend(tbl)

		assert.Equal(t, dispatch.ActionAdditional, action)
		assert.Empty(t, items)
	})
}
