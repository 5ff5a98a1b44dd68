package dispatch

import "github.com/comandero/pos-core/internal/modules/table"

// ActionType labels what a kitchen dispatch communicates.
type ActionType string

const (
	ActionNewOrder     ActionType = "Pedido Nuevo"
	ActionAdditional   ActionType = "Adicional"
	ActionCancellation ActionType = "Cancelacion"
)

// ComputeDelta returns the minimal item delta between the current order and
// the last-dispatched snapshot. Lines absent from the snapshot are included at
// full quantity; lines whose quantity grew are included as a synthetic line
// carrying only the difference; unchanged or shrunk lines are excluded, as are
// cancelled ones.
func ComputeDelta(current, snapshot []table.OrderItem) []table.OrderItem {
	sent := make(map[string]table.OrderItem, len(snapshot))
	for _, item := range snapshot {
		sent[item.ID] = item
	}

	var delta []table.OrderItem
	for _, item := range current {
		if item.Cancelled() {
			continue
		}
		prev, ok := sent[item.ID]
		if !ok {
			delta = append(delta, item.Clone())
			continue
		}
		if item.Quantity > prev.Quantity {
			diff := item.Clone()
			diff.Quantity = item.Quantity - prev.Quantity
			delta = append(delta, diff)
		}
	}
	return delta
}

// ItemsToSend resolves what the next dispatch for a table communicates: the
// full active list flagged as a new order when no snapshot exists yet, the
// delta flagged as additional otherwise.
func ItemsToSend(t *table.Table) ([]table.OrderItem, ActionType) {
	if len(t.LastSentOrder) == 0 {
		return ComputeDelta(t.ActiveItems(), nil), ActionNewOrder
	}
	return ComputeDelta(t.Order, t.LastSentOrder), ActionAdditional
}
