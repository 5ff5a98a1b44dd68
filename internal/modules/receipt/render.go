package receipt

import (
	"fmt"
	"strings"

	"github.com/comandero/pos-core/internal/modules/dispatch"
	"github.com/comandero/pos-core/internal/modules/table"
)

// PrintType distinguishes the original comanda from a reprint.
type PrintType string

const (
	PrintOriginal PrintType = "ORIGINAL"
	PrintCopy     PrintType = "COPIA"
)

// Receipt renders the payment receipt for a finished order.
func (c *Codec) Receipt(items []table.OrderItem, customerName, paymentMethod, notes, waiter string) []byte {
	var b strings.Builder
	now := c.Now()

	total := 0.0
	for _, item := range items {
		if !item.Cancelled() {
			total += item.Total()
		}
	}

	b.WriteString(cmdInit)
	b.WriteString(cmdCodePage)

	b.WriteString(alignCenter)
	b.WriteString(styleLarge)
	b.WriteString(cleanText(c.BusinessName) + "\n")
	b.WriteString(styleNormal)
	b.WriteString("RECIBO DE PEDIDO\n")
	b.WriteString(alignLeft)

	b.WriteString(formatLine("REF: "+customerName, now.Format("15:04"), c.Width))
	fmt.Fprintf(&b, "FECHA: %s\n", now.Format("02/01/2006"))
	fmt.Fprintf(&b, "ATENDIDO POR: %s\n", cleanText(waiter))
	b.WriteString(c.divider())

	b.WriteString(formatLine("PRODUCTO", "TOTAL", c.Width))
	b.WriteString(c.divider())

	for _, item := range items {
		if item.Cancelled() {
			continue
		}
		b.WriteString(styleBold)
		b.WriteString(formatLine(
			fmt.Sprintf("%dX %s", item.Quantity, item.Name),
			fmt.Sprintf("$%.2f", item.Total()),
			c.Width,
		))
		b.WriteString(styleNormal)
		for _, mod := range item.SelectedModifiers {
			line := " + " + mod.Name
			if mod.Price > 0 {
				line += fmt.Sprintf(" ($%.2f)", mod.Price)
			}
			b.WriteString(truncate(cleanText(line), c.Width) + "\n")
		}
	}

	b.WriteString(c.divider())

	b.WriteString(alignRight)
	b.WriteString(styleLarge)
	fmt.Fprintf(&b, "TOTAL: $%.2f\n", total)
	b.WriteString(styleNormal)

	b.WriteString(alignLeft)
	b.WriteString(formatLine("METODO:", paymentMethod, c.Width))

	if notes != "" {
		b.WriteString(c.divider())
		b.WriteString("NOTAS:\n")
		b.WriteString(cleanText(notes) + "\n")
	}

	b.WriteString("\n" + alignCenter)
	b.WriteString("GRACIAS POR SU COMPRA!\n")
	b.WriteString(cmdFeedCut)

	return []byte(b.String())
}

// Comanda renders the full kitchen ticket for a table, either the original or
// a reprint copy.
func (c *Codec) Comanda(t *table.Table, waiter string, printType PrintType) []byte {
	var b strings.Builder

	b.WriteString(cmdInit)
	b.WriteString(cmdCodePage)
	b.WriteString(alignCenter)
	b.WriteString(styleBold)
	if printType == PrintCopy {
		b.WriteString("--- COPIA ---\n")
	} else {
		b.WriteString(cleanText(c.BusinessName) + "\n")
	}
	b.WriteString(styleNormal)
	b.WriteString("COMANDA DE COCINA\n\n")
	b.WriteString(alignLeft)

	b.WriteString(formatLine(identifierLabel(t), c.Now().Format("15:04"), c.Width))
	fmt.Fprintf(&b, "MESONERO: %s\n", cleanText(waiter))
	if t.CustomerName != "" {
		fmt.Fprintf(&b, "CLIENTE: %s\n", cleanText(t.CustomerName))
	}
	b.WriteString(c.divider())

	c.writeItems(&b, t.ActiveItems())

	if obs := strings.TrimSpace(t.Observations); obs != "" {
		b.WriteString(c.divider())
		b.WriteString("NOTAS:\n")
		b.WriteString(cleanText(obs) + "\n")
	}

	b.WriteString(cmdFeedCut)
	return []byte(b.String())
}

// KitchenTicket renders a dispatch delta (or cancellation) for the kitchen
// printer, flagged with the action so staff can tell a stop-work notice from
// an addition at a glance.
func (c *Codec) KitchenTicket(t *table.Table, waiter string, action dispatch.ActionType, items []table.OrderItem) []byte {
	var b strings.Builder

	b.WriteString(cmdInit)
	b.WriteString(cmdCodePage)
	b.WriteString(alignCenter)
	b.WriteString(styleLarge)
	b.WriteString(cleanText(string(action)) + "\n")
	b.WriteString(styleNormal)
	b.WriteString(cleanText(c.BusinessName) + "\n")
	b.WriteString(alignLeft)

	b.WriteString(formatLine(identifierLabel(t), c.Now().Format("15:04"), c.Width))
	fmt.Fprintf(&b, "MESONERO: %s\n", cleanText(waiter))
	b.WriteString(c.divider())

	c.writeItems(&b, items)

	if action != dispatch.ActionCancellation {
		if obs := strings.TrimSpace(t.Observations); obs != "" {
			b.WriteString(c.divider())
			b.WriteString("OBS:\n")
			b.WriteString(cleanText(obs) + "\n")
		}
	}

	b.WriteString(cmdFeedCut)
	return []byte(b.String())
}

// TestPrint renders the printer self-test page.
func (c *Codec) TestPrint() []byte {
	var b strings.Builder
	now := c.Now()

	b.WriteString(cmdInit)
	b.WriteString(cmdCodePage)
	b.WriteString(alignCenter)
	b.WriteString(styleLarge)
	b.WriteString(cleanText(c.BusinessName) + "\n")
	b.WriteString(styleNormal)
	b.WriteString(c.divider())
	b.WriteString("PRUEBA DE IMPRESION OK\n")
	b.WriteString(c.divider())
	b.WriteString(alignLeft)
	fmt.Fprintf(&b, "ANCHO: %d CARACTERES\n", c.Width)
	b.WriteString("ESTA ES UNA PRUEBA DE TEXTO\n")
	b.WriteString("LIMPIO DE ACENTOS Y ENES.\n\n")
	b.WriteString(alignCenter)
	fmt.Fprintf(&b, "FECHA: %s\n", now.Format("02/01/2006"))
	fmt.Fprintf(&b, "HORA: %s\n", now.Format("15:04:05"))
	b.WriteString(cmdFeedCut)

	return []byte(b.String())
}

// writeItems emits one emphasized quantity x name line per item followed by
// one indented sub-line per modifier.
func (c *Codec) writeItems(b *strings.Builder, items []table.OrderItem) {
	for _, item := range items {
		b.WriteString(styleBold)
		fmt.Fprintf(b, "%dX %s\n", item.Quantity, cleanText(item.Name))
		b.WriteString(styleNormal)
		for _, mod := range item.SelectedModifiers {
			fmt.Fprintf(b, "  + %s\n", cleanText(mod.Name))
		}
	}
}

func identifierLabel(t *table.Table) string {
	if t.OrderType == table.OrderTakeout {
		return fmt.Sprintf("PEDIDO #%d", t.Number)
	}
	return fmt.Sprintf("MESA: %d", t.Number)
}

func truncate(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s
}
