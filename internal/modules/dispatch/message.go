package dispatch

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/comandero/pos-core/internal/modules/table"
)

// Payload is the handoff to the outbound messaging collaborator: a destination
// identifier and the plain message text. Delivery itself is out of scope; a
// human taps send.
type Payload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// WhatsAppLink renders the payload as a click-to-chat URL.
func (p Payload) WhatsAppLink() string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", p.To, url.QueryEscape(p.Text))
}

// Composer builds the deterministic dispatch message texts. The clock is a
// field so tests can pin the HORA line.
type Composer struct {
	Now func() time.Time
}

// NewComposer returns a Composer on the wall clock.
func NewComposer() *Composer { return &Composer{Now: time.Now} }

func (c *Composer) timestamp() string {
	return c.Now().Format("15:04")
}

// KitchenMessage composes the itemized kitchen dispatch for the given items
// and action flag.
func (c *Composer) KitchenMessage(t *table.Table, waiter string, action ActionType, items []table.OrderItem) string {
	var b strings.Builder

	switch action {
	case ActionCancellation:
		b.WriteString("*--- ‼️ CANCELACION ‼️ ---*\n")
	case ActionNewOrder:
		b.WriteString("*--- NUEVO PEDIDO ---*\n")
	default:
		b.WriteString("*--- ADICIONAL ---*\n")
	}
	fmt.Fprintf(&b, "*HORA: %s*\n\n", c.timestamp())

	fmt.Fprintf(&b, "*Pedido:* %s\n", t.OrderIdentifier())
	if t.CustomerName != "" {
		fmt.Fprintf(&b, "*Cliente:* %s\n", t.CustomerName)
	}
	fmt.Fprintf(&b, "*Mesonero:* %s\n\n", waiter)

	if len(items) == 0 && action != ActionCancellation {
		return fmt.Sprintf("*Pedido:* %s\n*Mesonero:* %s\n\nNo hay productos nuevos para enviar a cocina.",
			t.OrderIdentifier(), waiter)
	}

	b.WriteString("*--- PRODUCTOS ---*\n")
	for _, item := range items {
		fmt.Fprintf(&b, "*%dx %s*\n", item.Quantity, item.Name)
		for _, mod := range item.SelectedModifiers {
			fmt.Fprintf(&b, "  - %s\n", mod.Name)
		}
	}

	if obs := strings.TrimSpace(t.Observations); obs != "" && action != ActionCancellation {
		b.WriteString("\n*--- OBSERVACIONES ---*\n")
		b.WriteString(obs)
	}

	return b.String()
}

// AdminMessage composes the short order summary sent to the administration as
// a record; the official comanda goes to the kitchen.
func (c *Composer) AdminMessage(t *table.Table, waiter string) string {
	var b strings.Builder
	b.WriteString("*RESUMEN DE PEDIDO*\n\n")
	fmt.Fprintf(&b, "*Pedido:* %s\n", t.OrderIdentifier())
	if t.CustomerName != "" {
		fmt.Fprintf(&b, "*Cliente:* %s\n", t.CustomerName)
	}
	fmt.Fprintf(&b, "*Mesonero:* %s\n", waiter)
	fmt.Fprintf(&b, "*Total:* Bs. %.2f\n\n", t.Total())
	b.WriteString("_La comanda oficial fue enviada a cocina._")
	return b.String()
}
