package dispatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/comandero/pos-core/internal/modules/catalog"
	"github.com/comandero/pos-core/internal/modules/dispatch"
	"github.com/comandero/pos-core/internal/modules/table"
)

func pinnedComposer() *dispatch.Composer {
	return &dispatch.Composer{Now: func() time.Time {
		return time.Date(2025, 3, 14, 19, 30, 0, 0, time.UTC)
	}}
}

func TestComposer_KitchenMessageNewOrder(t *testing.T) {
	tbl := &table.Table{
		Number:       4,
		Status:       table.StatusDraft,
		OrderType:    table.OrderDineIn,
		CustomerName: "Pedro",
		Observations: "sin picante",
		Order: []table.OrderItem{{
			ID: "a", Name: "Cachapa con Queso de Mano", Quantity: 2,
			SelectedModifiers: []catalog.ModifierOption{
				{Name: "Carne en Vara", Price: 0},
				{Name: "Extra Chimichurri", Price: 0.5},
			},
		}},
	}

	got := pinnedComposer().KitchenMessage(tbl, "Maria", dispatch.ActionNewOrder, tbl.ActiveItems())

	want := "*--- NUEVO PEDIDO ---*\n" +
		"*HORA: 19:30*\n\n" +
		"*Pedido:* M-4\n" +
		"*Cliente:* Pedro\n" +
		"*Mesonero:* Maria\n\n" +
		"*--- PRODUCTOS ---*\n" +
		"*2x Cachapa con Queso de Mano*\n" +
		"  - Carne en Vara\n" +
		"  - Extra Chimichurri\n" +
		"\n*--- OBSERVACIONES ---*\n" +
		"sin picante"
	assert.Equal(t, want, got)
}

func TestComposer_KitchenMessageEmptyDelta(t *testing.T) {
	tbl := &table.Table{Number: 2, OrderType: table.OrderDineIn}

	got := pinnedComposer().KitchenMessage(tbl, "Maria", dispatch.ActionAdditional, nil)

	assert.Equal(t, "*Pedido:* M-2\n*Mesonero:* Maria\n\nNo hay productos nuevos para enviar a cocina.", got)
}

func TestComposer_KitchenMessageCancellation(t *testing.T) {
	tbl := &table.Table{Number: 7, OrderType: table.OrderDineIn, Observations: "sin sal"}
	cancelled := []table.OrderItem{{ID: "a", Name: "Sopa", Quantity: 2, Status: table.ItemCancelled}}

	got := pinnedComposer().KitchenMessage(tbl, "Maria", dispatch.ActionCancellation, cancelled)

	// The stop-work notice carries the cancelled line at its full quantity
	// and never the table observations.
	assert.Contains(t, got, "CANCELACION")
	assert.Contains(t, got, "*2x Sopa*")
	assert.NotContains(t, got, "OBSERVACIONES")
}

func TestComposer_KitchenMessageTakeoutIdentifier(t *testing.T) {
	tbl := &table.Table{
		Number: 101, OrderType: table.OrderTakeout, OrderCode: "LL-101",
		Order: []table.OrderItem{{ID: "a", Name: "Sopa", Quantity: 1}},
	}

	got := pinnedComposer().KitchenMessage(tbl, "Maria", dispatch.ActionNewOrder, tbl.ActiveItems())

	assert.Contains(t, got, "*Pedido:* LL-101")
}

func TestComposer_AdminMessage(t *testing.T) {
	tbl := &table.Table{
		Number: 4, OrderType: table.OrderDineIn, CustomerName: "Pedro",
		Order: []table.OrderItem{{ID: "a", Name: "Sopa", Price: 8, Quantity: 2}},
	}

	got := pinnedComposer().AdminMessage(tbl, "Maria")

	want := "*RESUMEN DE PEDIDO*\n\n" +
		"*Pedido:* M-4\n" +
		"*Cliente:* Pedro\n" +
		"*Mesonero:* Maria\n" +
		"*Total:* Bs. 16.00\n\n" +
		"_La comanda oficial fue enviada a cocina._"
	assert.Equal(t, want, got)
}

func TestPayload_WhatsAppLink(t *testing.T) {
	p := dispatch.Payload{To: "584120000000", Text: "*Pedido:* M-4\nhola"}

	got := p.WhatsAppLink()

	assert.Equal(t, "https://wa.me/584120000000?text=%2APedido%3A%2A+M-4%0Ahola", got)
}
