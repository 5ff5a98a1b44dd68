package dispatch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/comandero/pos-core/internal/modules/catalog"
	"github.com/comandero/pos-core/internal/modules/table"
)

// Dispatch is the outcome of a send action: what was communicated, as which
// action, and the payloads for the messaging collaborator.
type Dispatch struct {
	Action  ActionType        `json:"action"`
	Items   []table.OrderItem `json:"items"`
	Kitchen *Payload          `json:"kitchen,omitempty"`
	Admin   *Payload          `json:"admin,omitempty"`
	Table   *table.Table      `json:"table"`
}

// Service composes dispatch messages and drives the lock step that advances
// the snapshot.
type Service interface {
	// Preview composes the kitchen message for the pending delta without
	// locking anything.
	Preview(ctx context.Context, number int, waiter string) (*Dispatch, error)

	// Send composes the kitchen and admin payloads for the pending delta,
	// then locks the order: the snapshot advances and a draft moves into
	// service. Rejected when there is nothing to dispatch.
	Send(ctx context.Context, number int, waiter string) (*Dispatch, error)

	// CancelItem cancels one line and composes the stop-work notice for the
	// kitchen. Never diffed: the message carries exactly the cancelled item
	// at its original quantity.
	CancelItem(ctx context.Context, number int, itemID, waiter string) (*Dispatch, error)
}

// OperationCounter tracks completed business operations. Satisfied by the
// settings service; nil disables counting.
type OperationCounter interface {
	BumpOperationCount(ctx context.Context) error
}

type service struct {
	tables   table.Service
	catalog  catalog.Service
	composer *Composer
	ops      OperationCounter
}

// NewService creates the dispatch service. ops may be nil.
func NewService(tables table.Service, cat catalog.Service, composer *Composer, ops OperationCounter) Service {
	if composer == nil {
		composer = NewComposer()
	}
	return &service{tables: tables, catalog: cat, composer: composer, ops: ops}
}

func (s *service) Preview(ctx context.Context, number int, waiter string) (*Dispatch, error) {
	t, err := s.tables.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	items, action := ItemsToSend(t)
	return s.build(ctx, t, waiter, action, items)
}

func (s *service) Send(ctx context.Context, number int, waiter string) (*Dispatch, error) {
	t, err := s.tables.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	// The message must diff against the snapshot as it is now; composing
	// after the lock would always yield an empty delta.
	items, action := ItemsToSend(t)
	d, err := s.build(ctx, t, waiter, action, items)
	if err != nil {
		return nil, err
	}

	locked, err := s.tables.LockDispatch(ctx, number)
	if err != nil {
		return nil, err
	}
	d.Table = locked

	if s.ops != nil {
		if err := s.ops.BumpOperationCount(ctx); err != nil {
			log.Warn().Err(err).Msg("dispatch: operation count bump failed")
		}
	}
	log.Info().Int("table", number).Str("action", string(action)).Int("items", len(items)).
		Msg("dispatch: order sent to kitchen")
	return d, nil
}

func (s *service) CancelItem(ctx context.Context, number int, itemID, waiter string) (*Dispatch, error) {
	t, cancelled, err := s.tables.CancelItem(ctx, number, itemID)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, t, waiter, ActionCancellation, []table.OrderItem{*cancelled})
}

func (s *service) build(ctx context.Context, t *table.Table, waiter string, action ActionType, items []table.OrderItem) (*Dispatch, error) {
	profile, err := s.catalog.Profile(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dispatch{Action: action, Items: items, Table: t}
	if profile.KitchenWhatsappNumber != "" {
		d.Kitchen = &Payload{
			To:   profile.KitchenWhatsappNumber,
			Text: s.composer.KitchenMessage(t, waiter, action, items),
		}
	}
	if profile.AdminWhatsappNumber != "" && action != ActionCancellation {
		d.Admin = &Payload{
			To:   profile.AdminWhatsappNumber,
			Text: s.composer.AdminMessage(t, waiter),
		}
	}
	return d, nil
}
