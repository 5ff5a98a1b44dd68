package table

import (
	"fmt"
	"time"

	"github.com/comandero/pos-core/internal/modules/catalog"
	"github.com/comandero/pos-core/internal/modules/pricing"
)

// Status is the lifecycle state of a table or takeout order.
type Status string

const (
	StatusAvailable Status = "disponible"
	StatusDraft     Status = "borrador"
	StatusUnpaid    Status = "no pagada"
	StatusPaid      Status = "pagada"
)

// OrderType distinguishes dine-in tables from takeout orders.
type OrderType string

const (
	OrderDineIn  OrderType = "mesa"
	OrderTakeout OrderType = "para llevar"
)

// TakeoutStartNumber is the first number assigned to ad hoc takeout orders so
// they never collide with the pre-provisioned table pool.
const TakeoutStartNumber = 101

// ItemStatus marks a line item. Cancelled lines are retained for audit but
// excluded from totals and dispatch diffs.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCancelled ItemStatus = "cancelled"
)

// OrderItem is one line of an order. Price is the base unit price frozen at
// the moment the line entered the order; later catalog changes never alter it.
// SelectedModifiers carry their final prices, with any tier override already
// applied at add-time.
type OrderItem struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	Price             float64                  `json:"price"`
	Quantity          int                      `json:"quantity"`
	SelectedModifiers []catalog.ModifierOption `json:"selectedModifiers"`
	Status            ItemStatus               `json:"status,omitempty"`
}

// Cancelled reports whether the line has been cancelled.
func (i *OrderItem) Cancelled() bool { return i.Status == ItemCancelled }

// Total re-derives the line total from the stored selections.
func (i *OrderItem) Total() float64 {
	_, grand := pricing.Replay(i.Price, i.SelectedModifiers, i.Quantity)
	return grand
}

// Clone deep-copies the line so snapshots never alias live order state.
func (i OrderItem) Clone() OrderItem {
	out := i
	out.SelectedModifiers = append([]catalog.ModifierOption(nil), i.SelectedModifiers...)
	return out
}

// Table is the unit of a dine-in or takeout order and its lifecycle state.
// LastSentOrder is the structural snapshot taken at the last successful
// kitchen dispatch; it is the diff baseline and is never mutated in place.
type Table struct {
	Number          int         `json:"number"`
	Status          Status      `json:"status"`
	Order           []OrderItem `json:"order"`
	OrderType       OrderType   `json:"orderType"`
	CustomerName    string      `json:"customerName,omitempty"`
	Observations    string      `json:"observations,omitempty"`
	LastSentOrder   []OrderItem `json:"lastSentOrder,omitempty"`
	SentToKitchenAt *time.Time  `json:"sentToKitchenAt,omitempty"`
	PaidAmount      float64     `json:"paidAmount,omitempty"`
	OrderCode       string      `json:"orderCode,omitempty"`
}

// NewTable provisions an empty dine-in table.
func NewTable(number int) Table {
	return Table{Number: number, Status: StatusAvailable, OrderType: OrderDineIn}
}

// ActiveItems returns the non-cancelled lines.
func (t *Table) ActiveItems() []OrderItem {
	var items []OrderItem
	for _, item := range t.Order {
		if !item.Cancelled() {
			items = append(items, item)
		}
	}
	return items
}

// Total sums the active lines, re-derived from stored selections.
func (t *Table) Total() float64 {
	total := 0.0
	for _, item := range t.Order {
		if !item.Cancelled() {
			total += item.Total()
		}
	}
	return total
}

// OrderIdentifier is the code shown to kitchen and admin: the explicit order
// code when set, otherwise M-<table> or LL-<takeout>.
func (t *Table) OrderIdentifier() string {
	if t.OrderCode != "" {
		return t.OrderCode
	}
	if t.OrderType == OrderTakeout {
		return fmt.Sprintf("LL-%d", t.Number)
	}
	return fmt.Sprintf("M-%d", t.Number)
}

// Editable reports whether order content may currently be mutated at all.
// Line-level rules on dispatched items apply on top of this.
func (t *Table) Editable() bool {
	return t.Status == StatusAvailable || t.Status == StatusDraft || t.Status == StatusUnpaid
}

// dispatched reports whether the line id is part of the current snapshot,
// which makes the line immutable until the table is freed.
func (t *Table) dispatched(itemID string) bool {
	for _, item := range t.LastSentOrder {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusAvailable: {StatusDraft},
	StatusDraft:     {StatusUnpaid, StatusAvailable},
	StatusUnpaid:    {StatusPaid},
	StatusPaid:      {StatusAvailable},
}

// CanTransition returns true if the status transition is valid.
func CanTransition(current, next Status) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}
