package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/comandero/pos-core/internal/modules/catalog"
	"github.com/comandero/pos-core/internal/modules/pricing"
)

// Validation errors. Each rejects the attempted operation synchronously with
// no state change; transitions are all-or-nothing.
var (
	ErrTableNotFound     = errors.New("table not found")
	ErrItemNotFound      = errors.New("order item not found")
	ErrNotEditable       = errors.New("table order is not editable in its current status")
	ErrLineLocked        = errors.New("item was already sent to kitchen and cannot be edited")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrEmptyDraft        = errors.New("cannot dispatch an order with no active items")
	ErrNothingToDispatch = errors.New("no new items to send to kitchen")
	ErrNoActiveItems     = errors.New("cannot collect payment for an order with no active items")
	ErrInvalidTransition = errors.New("invalid table status transition")
	ErrDestinationBusy   = errors.New("destination table must be available")
	ErrCannotCombine     = errors.New("destination table must be in service to combine")
	ErrItemCancelled     = errors.New("item is already cancelled")
)

// SelectionInput names one modifier pick within a labeled group. Repeating the
// same option represents duplicate picks.
type SelectionInput struct {
	GroupLabel string `json:"groupLabel"`
	Option     string `json:"option"`
}

// AddItemRequest is the payload for adding a line to a table's order.
type AddItemRequest struct {
	Item       string           `json:"item"`
	Quantity   int              `json:"quantity"`
	Selections []SelectionInput `json:"selections,omitempty"`
}

// SaleRecorder receives the finished order when payment is collected. Wired to
// the sales history module; nil disables recording.
type SaleRecorder interface {
	RecordSale(ctx context.Context, t *Table, waiter, method string, total float64) error
}

// OperationCounter tracks completed business operations. Satisfied by the
// settings service; nil disables counting.
type OperationCounter interface {
	BumpOperationCount(ctx context.Context) error
}

// Service owns every mutation of table state. Status, LastSentOrder and
// SentToKitchenAt are written here exclusively.
type Service interface {
	// EnsureTables provisions the dine-in pool up to total tables.
	EnsureTables(ctx context.Context, total int) error

	// List returns all tables.
	List(ctx context.Context) ([]Table, error)

	// Get returns one table by number.
	Get(ctx context.Context, number int) (*Table, error)

	// CreateTakeout provisions an ad hoc takeout order with an
	// auto-incrementing LL- code.
	CreateTakeout(ctx context.Context, customerName string) (*Table, error)

	// AddItem prices the selections against the catalog and appends (or
	// grows) a line. An available table becomes a draft on its first item.
	AddItem(ctx context.Context, number int, req AddItemRequest) (*Table, error)

	// UpdateQuantity changes a line's quantity. Lines included in the last
	// dispatch snapshot are immutable.
	UpdateQuantity(ctx context.Context, number int, itemID string, quantity int) (*Table, error)

	// RemoveItem deletes an undispatched line.
	RemoveItem(ctx context.Context, number int, itemID string) (*Table, error)

	// CancelItem marks a line cancelled. The line is retained for audit but
	// excluded from totals and future diffs. The caller is responsible for
	// producing the cancellation dispatch message.
	CancelItem(ctx context.Context, number int, itemID string) (*Table, *OrderItem, error)

	// UpdateDetails sets customer name and observations while the table is
	// mutable.
	UpdateDetails(ctx context.Context, number int, customerName, observations string) (*Table, error)

	// LockDispatch captures the current order into the snapshot, stamps
	// SentToKitchenAt, and moves a draft into service. Re-locking a table in
	// service advances the snapshot over the accumulated additions.
	LockDispatch(ctx context.Context, number int) (*Table, error)

	// Pay collects the full active total and moves the table to paid.
	Pay(ctx context.Context, number int, method, waiter string) (*Table, error)

	// Free returns a paid table (or an abandoned draft) to available,
	// clearing all order state. Takeout orders are removed from the pool.
	Free(ctx context.Context, number int) error

	// Move reassigns all content to an available destination table.
	Move(ctx context.Context, src, dst int) error

	// Combine merges a source's items into a destination already in service;
	// merged items count as new, undispatched additions on the destination.
	Combine(ctx context.Context, src, dst int) error
}

type service struct {
	repo    Repository
	catalog catalog.Service
	sales   SaleRecorder
	ops     OperationCounter
}

// NewService creates the table state machine service. sales and ops may be nil.
func NewService(repo Repository, cat catalog.Service, sales SaleRecorder, ops OperationCounter) Service {
	return &service{repo: repo, catalog: cat, sales: sales, ops: ops}
}

func (s *service) EnsureTables(ctx context.Context, total int) error {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	have := make(map[int]bool, len(tables))
	for _, t := range tables {
		have[t.Number] = true
	}
	added := false
	for n := 1; n <= total; n++ {
		if !have[n] {
			tables = append(tables, NewTable(n))
			added = true
		}
	}
	if !added {
		return nil
	}
	return s.repo.Save(ctx, tables)
}

func (s *service) List(ctx context.Context) ([]Table, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, number int) (*Table, error) {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tables {
		if tables[i].Number == number {
			return &tables[i], nil
		}
	}
	return nil, ErrTableNotFound
}

func (s *service) CreateTakeout(ctx context.Context, customerName string) (*Table, error) {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	next := TakeoutStartNumber
	for _, t := range tables {
		if t.OrderType == OrderTakeout && t.Number >= next {
			next = t.Number + 1
		}
	}
	t := Table{
		Number:       next,
		Status:       StatusAvailable,
		OrderType:    OrderTakeout,
		CustomerName: customerName,
		OrderCode:    fmt.Sprintf("LL-%d", next),
	}
	tables = append(tables, t)
	if err := s.repo.Save(ctx, tables); err != nil {
		return nil, err
	}
	log.Info().Int("number", next).Str("customer", customerName).Msg("table: takeout order created")
	return &t, nil
}

// mutate runs fn against a fresh read of the collection and persists the
// result only when fn succeeds, so a rejected operation leaves no trace.
func (s *service) mutate(ctx context.Context, number int, fn func(t *Table, all []Table) error) (*Table, error) {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range tables {
		if tables[i].Number == number {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrTableNotFound
	}
	if err := fn(&tables[idx], tables); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, tables); err != nil {
		return nil, err
	}
	t := tables[idx]
	return &t, nil
}

func (s *service) AddItem(ctx context.Context, number int, req AddItemRequest) (*Table, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	item, err := s.catalog.FindItem(ctx, req.Item)
	if err != nil {
		return nil, err
	}
	groups, err := s.catalog.GroupsFor(ctx, item)
	if err != nil {
		return nil, err
	}

	// Resolve selection names to option definitions, keyed by display label,
	// preserving pick order within each group.
	selections := make(map[string][]catalog.ModifierOption)
	for _, sel := range req.Selections {
		var group *catalog.LabeledGroup
		for i := range groups {
			if groups[i].DisplayLabel == sel.GroupLabel {
				group = &groups[i]
				break
			}
		}
		if group == nil {
			log.Warn().Str("item", req.Item).Str("label", sel.GroupLabel).
				Msg("table: selection references unknown group label, dropping")
			continue
		}
		opt, ok := group.Option(sel.Option)
		if !ok {
			return nil, fmt.Errorf("option %q not found in group %q", sel.Option, sel.GroupLabel)
		}
		selections[sel.GroupLabel] = append(selections[sel.GroupLabel], opt)
	}

	quote := pricing.Price(item, groups, selections, req.Quantity)
	mods := make([]catalog.ModifierOption, 0, len(quote.Priced))
	for _, pm := range quote.Priced {
		mods = append(mods, pm.Option)
	}

	return s.mutate(ctx, number, func(t *Table, _ []Table) error {
		if !t.Editable() {
			return ErrNotEditable
		}
		if t.Status == StatusAvailable {
			if !CanTransition(t.Status, StatusDraft) {
				return ErrInvalidTransition
			}
			t.Status = StatusDraft
		}

		// An identical undispatched line grows instead of duplicating, so a
		// repeat add shows up as a quantity delta on the next dispatch.
		for i := range t.Order {
			line := &t.Order[i]
			if !line.Cancelled() && line.Name == item.Name && modifiersEqual(line.SelectedModifiers, mods) {
				line.Quantity += req.Quantity
				return nil
			}
		}

		t.Order = append(t.Order, OrderItem{
			ID:                uuid.New().String(),
			Name:              item.Name,
			Price:             item.Price,
			Quantity:          req.Quantity,
			SelectedModifiers: mods,
			Status:            ItemPending,
		})
		return nil
	})
}

func (s *service) UpdateQuantity(ctx context.Context, number int, itemID string, quantity int) (*Table, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	return s.mutate(ctx, number, func(t *Table, _ []Table) error {
		if t.Status != StatusDraft && t.Status != StatusUnpaid {
			return ErrNotEditable
		}
		line := findItem(t, itemID)
		if line == nil {
			return ErrItemNotFound
		}
		if line.Cancelled() {
			return ErrItemCancelled
		}
		if t.Status == StatusUnpaid && t.dispatched(itemID) && quantity < line.Quantity {
			// Dispatched lines may only grow; shrinking what the kitchen
			// already received requires an explicit cancellation.
			return ErrLineLocked
		}
		line.Quantity = quantity
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, number int, itemID string) (*Table, error) {
	return s.mutate(ctx, number, func(t *Table, _ []Table) error {
		if t.Status != StatusDraft && t.Status != StatusUnpaid {
			return ErrNotEditable
		}
		if t.Status == StatusUnpaid && t.dispatched(itemID) {
			return ErrLineLocked
		}
		for i := range t.Order {
			if t.Order[i].ID == itemID {
				t.Order = append(t.Order[:i], t.Order[i+1:]...)
				return nil
			}
		}
		return ErrItemNotFound
	})
}

func (s *service) CancelItem(ctx context.Context, number int, itemID string) (*Table, *OrderItem, error) {
	var cancelled OrderItem
	t, err := s.mutate(ctx, number, func(t *Table, _ []Table) error {
		if t.Status != StatusUnpaid {
			return ErrNotEditable
		}
		line := findItem(t, itemID)
		if line == nil {
			return ErrItemNotFound
		}
		if line.Cancelled() {
			return ErrItemCancelled
		}
		line.Status = ItemCancelled
		cancelled = line.Clone()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int("table", number).Str("item", cancelled.Name).Msg("table: item cancelled")
	return t, &cancelled, nil
}

func (s *service) UpdateDetails(ctx context.Context, number int, customerName, observations string) (*Table, error) {
	return s.mutate(ctx, number, func(t *Table, _ []Table) error {
		if t.Status != StatusDraft && t.Status != StatusUnpaid {
			return ErrNotEditable
		}
		t.CustomerName = customerName
		t.Observations = observations
		return nil
	})
}

func (s *service) LockDispatch(ctx context.Context, number int) (*Table, error) {
	now := time.Now()
	return s.mutate(ctx, number, func(t *Table, _ []Table) error {
		active := t.ActiveItems()
		if len(active) == 0 {
			return ErrEmptyDraft
		}
		switch t.Status {
		case StatusDraft:
			if !CanTransition(t.Status, StatusUnpaid) {
				return ErrInvalidTransition
			}
			t.Status = StatusUnpaid
		case StatusUnpaid:
			if !hasUndispatched(t) {
				return ErrNothingToDispatch
			}
		default:
			return ErrNotEditable
		}

		snapshot := make([]OrderItem, 0, len(active))
		for _, item := range active {
			snapshot = append(snapshot, item.Clone())
		}
		t.LastSentOrder = snapshot
		t.SentToKitchenAt = &now
		return nil
	})
}

func (s *service) Pay(ctx context.Context, number int, method, waiter string) (*Table, error) {
	var total float64
	t, err := s.mutate(ctx, number, func(t *Table, _ []Table) error {
		if t.Status != StatusUnpaid {
			return ErrInvalidTransition
		}
		total = t.Total()
		if total <= 0 || len(t.ActiveItems()) == 0 {
			return ErrNoActiveItems
		}
		if !CanTransition(t.Status, StatusPaid) {
			return ErrInvalidTransition
		}
		t.Status = StatusPaid
		if total > t.PaidAmount {
			t.PaidAmount = total
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.sales != nil {
		if err := s.sales.RecordSale(ctx, t, waiter, method, total); err != nil {
			log.Error().Err(err).Int("table", number).Msg("table: failed to record sale")
		}
	}
	if s.ops != nil {
		if err := s.ops.BumpOperationCount(ctx); err != nil {
			log.Warn().Err(err).Msg("table: operation count bump failed")
		}
	}
	log.Info().Int("table", number).Str("method", method).Float64("total", total).Msg("table: payment collected")
	return t, nil
}

func (s *service) Free(ctx context.Context, number int) error {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range tables {
		if tables[i].Number == number {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrTableNotFound
	}
	t := &tables[idx]
	if t.Status != StatusPaid && t.Status != StatusDraft {
		return ErrInvalidTransition
	}
	if t.OrderType == OrderTakeout {
		tables = append(tables[:idx], tables[idx+1:]...)
	} else {
		reset(t)
	}
	return s.repo.Save(ctx, tables)
}

func (s *service) Move(ctx context.Context, src, dst int) error {
	if src == dst {
		return ErrDestinationBusy
	}
	tables, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	srcIdx, dstIdx := indexOf(tables, src), indexOf(tables, dst)
	if srcIdx < 0 || dstIdx < 0 {
		return ErrTableNotFound
	}
	from, to := &tables[srcIdx], &tables[dstIdx]
	if from.Status == StatusAvailable {
		return ErrNotEditable
	}
	if to.Status != StatusAvailable {
		return ErrDestinationBusy
	}

	to.Status = from.Status
	to.Order = from.Order
	to.CustomerName = from.CustomerName
	to.Observations = from.Observations
	to.LastSentOrder = from.LastSentOrder
	to.SentToKitchenAt = from.SentToKitchenAt
	to.PaidAmount = from.PaidAmount
	tables = releaseSource(tables, srcIdx)

	if err := s.repo.Save(ctx, tables); err != nil {
		return err
	}
	log.Info().Int("from", src).Int("to", dst).Msg("table: moved")
	return nil
}

func (s *service) Combine(ctx context.Context, src, dst int) error {
	if src == dst {
		return ErrCannotCombine
	}
	tables, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	srcIdx, dstIdx := indexOf(tables, src), indexOf(tables, dst)
	if srcIdx < 0 || dstIdx < 0 {
		return ErrTableNotFound
	}
	from, to := &tables[srcIdx], &tables[dstIdx]
	if from.Status == StatusAvailable {
		return ErrNotEditable
	}
	if to.Status != StatusDraft && to.Status != StatusUnpaid {
		return ErrCannotCombine
	}

	// Merged lines are absent from the destination snapshot, so the next
	// dispatch diff reports them as new additions.
	to.Order = append(to.Order, from.Order...)
	if from.Observations != "" {
		if to.Observations != "" {
			to.Observations += " / "
		}
		to.Observations += from.Observations
	}
	tables = releaseSource(tables, srcIdx)

	if err := s.repo.Save(ctx, tables); err != nil {
		return err
	}
	log.Info().Int("from", src).Int("to", dst).Msg("table: combined")
	return nil
}

// reset returns a table to a state structurally equal to a freshly
// provisioned one.
func reset(t *Table) {
	*t = NewTable(t.Number)
}

// releaseSource frees the source slot after a move or combine: dine-in tables
// return to the pool, ad hoc takeout orders leave the collection.
func releaseSource(tables []Table, idx int) []Table {
	if tables[idx].OrderType == OrderTakeout {
		return append(tables[:idx], tables[idx+1:]...)
	}
	reset(&tables[idx])
	return tables
}

func indexOf(tables []Table, number int) int {
	for i := range tables {
		if tables[i].Number == number {
			return i
		}
	}
	return -1
}

func findItem(t *Table, itemID string) *OrderItem {
	for i := range t.Order {
		if t.Order[i].ID == itemID {
			return &t.Order[i]
		}
	}
	return nil
}

// hasUndispatched reports whether any active line is new or has grown since
// the last snapshot.
func hasUndispatched(t *Table) bool {
	sent := make(map[string]int, len(t.LastSentOrder))
	for _, item := range t.LastSentOrder {
		sent[item.ID] = item.Quantity
	}
	for _, item := range t.Order {
		if item.Cancelled() {
			continue
		}
		prev, ok := sent[item.ID]
		if !ok || item.Quantity > prev {
			return true
		}
	}
	return false
}

func modifiersEqual(a, b []catalog.ModifierOption) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
