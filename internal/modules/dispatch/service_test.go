package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandero/pos-core/internal/modules/catalog"
	"github.com/comandero/pos-core/internal/modules/dispatch"
	"github.com/comandero/pos-core/internal/modules/table"
)

type mockTableRepo struct {
	tables []table.Table
}

func (m *mockTableRepo) List(ctx context.Context) ([]table.Table, error) { return m.tables, nil }
func (m *mockTableRepo) Save(ctx context.Context, tables []table.Table) error {
	m.tables = tables
	return nil
}

type profileRepo struct {
	profile *catalog.StoreProfile
}

func (r profileRepo) GetProfile(ctx context.Context) (*catalog.StoreProfile, bool, error) {
	return r.profile, true, nil
}

// newDispatch wires the dispatch service over a real table state machine and a
// profile that has both outbound numbers configured.
func newDispatch(t *testing.T) (dispatch.Service, table.Service) {
	t.Helper()
	profile := catalog.DefaultProfile()
	profile.KitchenWhatsappNumber = "584120000001"
	profile.AdminWhatsappNumber = "584120000002"
	cat := catalog.NewService(profileRepo{profile: profile})

	tables := table.NewService(&mockTableRepo{tables: []table.Table{table.NewTable(1)}}, cat, nil, nil)
	composer := &dispatch.Composer{Now: func() time.Time {
		return time.Date(2025, 3, 14, 19, 30, 0, 0, time.UTC)
	}}
	return dispatch.NewService(tables, cat, composer, nil), tables
}

func TestService_SendFirstDispatch(t *testing.T) {
	svc, tables := newDispatch(t)
	ctx := context.Background()

	_, err := tables.AddItem(ctx, 1, table.AddItemRequest{Item: "Picadillo llanero", Quantity: 2})
	require.NoError(t, err)

	d, err := svc.Send(ctx, 1, "Maria")
	require.NoError(t, err)

	assert.Equal(t, dispatch.ActionNewOrder, d.Action)
	require.Len(t, d.Items, 1)
	assert.Equal(t, 2, d.Items[0].Quantity)

	require.NotNil(t, d.Kitchen)
	assert.Equal(t, "584120000001", d.Kitchen.To)
	assert.Contains(t, d.Kitchen.Text, "*--- NUEVO PEDIDO ---*")
	assert.Contains(t, d.Kitchen.Text, "*2x Picadillo llanero*")

	require.NotNil(t, d.Admin)
	assert.Equal(t, "584120000002", d.Admin.To)
	assert.Contains(t, d.Admin.Text, "*Total:* Bs. 16.00")

	// The returned table reflects the lock.
	assert.Equal(t, table.StatusUnpaid, d.Table.Status)
	assert.Len(t, d.Table.LastSentOrder, 1)
}

func TestService_SendComposesBeforeAdvancingSnapshot(t *testing.T) {
	svc, tables := newDispatch(t)
	ctx := context.Background()

	_, err := tables.AddItem(ctx, 1, table.AddItemRequest{Item: "Picadillo llanero", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Send(ctx, 1, "Maria")
	require.NoError(t, err)

	// Grow the dispatched line and add a new one.
	_, err = tables.AddItem(ctx, 1, table.AddItemRequest{Item: "Picadillo llanero", Quantity: 1})
	require.NoError(t, err)
	_, err = tables.AddItem(ctx, 1, table.AddItemRequest{Item: "Costilla (con arepa y queso)", Quantity: 1})
	require.NoError(t, err)

	d, err := svc.Send(ctx, 1, "Maria")
	require.NoError(t, err)

	// The message carries only the delta, computed against the snapshot as
	// it stood before this send advanced it.
	assert.Equal(t, dispatch.ActionAdditional, d.Action)
	require.Len(t, d.Items, 2)
	assert.Equal(t, 1, d.Items[0].Quantity)
	assert.Equal(t, "Costilla (con arepa y queso)", d.Items[1].Name)
	assert.Contains(t, d.Kitchen.Text, "*1x Picadillo llanero*")
	assert.NotContains(t, d.Kitchen.Text, "*3x Picadillo llanero*")
}

func TestService_SendNothingPending(t *testing.T) {
	svc, tables := newDispatch(t)
	ctx := context.Background()

	_, err := tables.AddItem(ctx, 1, table.AddItemRequest{Item: "Picadillo llanero", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Send(ctx, 1, "Maria")
	require.NoError(t, err)

	_, err = svc.Send(ctx, 1, "Maria")
	assert.ErrorIs(t, err, table.ErrNothingToDispatch)
}

func TestService_PreviewDoesNotLock(t *testing.T) {
	svc, tables := newDispatch(t)
	ctx := context.Background()

	_, err := tables.AddItem(ctx, 1, table.AddItemRequest{Item: "Picadillo llanero", Quantity: 2})
	require.NoError(t, err)

	d, err := svc.Preview(ctx, 1, "Maria")
	require.NoError(t, err)
	assert.Equal(t, dispatch.ActionNewOrder, d.Action)

	// Previewing leaves the table a draft with no snapshot.
	got, err := tables.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, table.StatusDraft, got.Status)
	assert.Empty(t, got.LastSentOrder)
}

func TestService_CancelItem(t *testing.T) {
	svc, tables := newDispatch(t)
	ctx := context.Background()

	got, err := tables.AddItem(ctx, 1, table.AddItemRequest{Item: "Picadillo llanero", Quantity: 3})
	require.NoError(t, err)
	itemID := got.Order[0].ID
	_, err = svc.Send(ctx, 1, "Maria")
	require.NoError(t, err)

	d, err := svc.CancelItem(ctx, 1, itemID, "Maria")
	require.NoError(t, err)

	// The notice carries the whole cancelled line, never a diff, and the
	// admin summary is skipped.
	assert.Equal(t, dispatch.ActionCancellation, d.Action)
	require.Len(t, d.Items, 1)
	assert.Equal(t, 3, d.Items[0].Quantity)
	assert.Contains(t, d.Kitchen.Text, "CANCELACION")
	assert.Nil(t, d.Admin)
}
