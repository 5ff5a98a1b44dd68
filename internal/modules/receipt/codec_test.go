package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comandero/pos-core/internal/modules/catalog"
	"github.com/comandero/pos-core/internal/modules/table"
)

func pinnedCodec(width int) *Codec {
	return &Codec{
		BusinessName: "Mi Ranchito Mar y Lena",
		Width:        width,
		Now: func() time.Time {
			return time.Date(2025, 3, 14, 19, 30, 0, 0, time.UTC)
		},
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ñoño Café", "NONO CAFE"},
		{"Parrilla Mixta", "PARRILLA MIXTA"},
		{"Jalapeño y Maíz", "JALAPENO Y MAIZ"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanText(tt.in))
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
		width int
		want  string
	}{
		{
			name:  "pads_between_columns",
			left:  "2X SOPA",
			right: "$16.00",
			width: 30,
			want:  "2X SOPA                 $16.00\n",
		},
		{
			name:  "truncates_the_left_column_first",
			left:  "CANTIDAD MUY LARGA DE PRODUCTO EXTENDIDO",
			right: "$12.00",
			width: 30,
			want:  "CANTIDAD MUY LARGA DE P $12.00\n",
		},
		{
			name:  "wide_paper",
			left:  "PRODUCTO",
			right: "TOTAL",
			width: 42,
			want:  "PRODUCTO                             TOTAL\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatLine(tt.left, tt.right, tt.width)
			assert.Equal(t, tt.want, got)
			assert.Len(t, strings.TrimSuffix(got, "\n"), tt.width)
		})
	}
}

func TestWidthForPaper(t *testing.T) {
	assert.Equal(t, WidthNarrow, WidthForPaper("58mm"))
	assert.Equal(t, WidthWide, WidthForPaper("80mm"))
	assert.Equal(t, WidthNarrow, WidthForPaper(""))
}

func receiptItems() []table.OrderItem {
	return []table.OrderItem{
		{
			ID: "a", Name: "Cachapa con Queso de Mano", Price: 12, Quantity: 1,
			SelectedModifiers: []catalog.ModifierOption{
				{Name: "Carne en Vara", Price: 0},
				{Name: "Queso de Mano", Price: 1},
			},
		},
		{ID: "b", Name: "Picadillo llanero", Price: 8, Quantity: 2},
	}
}

func TestReceipt_Envelope(t *testing.T) {
	c := pinnedCodec(WidthNarrow)

	out := c.Receipt(receiptItems(), "Pedro", "Efectivo", "", "Maria")

	assert.True(t, bytes.HasPrefix(out, []byte(cmdInit+cmdCodePage)))
	assert.True(t, bytes.HasSuffix(out, []byte(cmdFeedCut)))
}

func TestReceipt_ContentAndTotals(t *testing.T) {
	c := pinnedCodec(WidthNarrow)

	out := string(c.Receipt(receiptItems(), "Pedro", "Efectivo", "para llevar", "Maria"))

	assert.Contains(t, out, "MI RANCHITO MAR Y LENA\n")
	assert.Contains(t, out, "FECHA: 14/03/2025\n")
	assert.Contains(t, out, "ATENDIDO POR: MARIA\n")
	// 13 + 16, re-derived from the stored selections.
	assert.Contains(t, out, "TOTAL: $29.00\n")
	assert.Contains(t, out, " + CARNE EN VARA\n")
	assert.Contains(t, out, " + QUESO DE MANO ($1.00)\n")
	assert.Contains(t, out, "NOTAS:\nPARA LLEVAR\n")
}

func TestReceipt_SkipsCancelledLines(t *testing.T) {
	c := pinnedCodec(WidthNarrow)
	items := receiptItems()
	items[1].Status = table.ItemCancelled

	out := string(c.Receipt(items, "", "Efectivo", "", "Maria"))

	assert.NotContains(t, out, "PICADILLO")
	assert.Contains(t, out, "TOTAL: $13.00\n")
}

func TestReceipt_Deterministic(t *testing.T) {
	c := pinnedCodec(WidthNarrow)

	first := c.Receipt(receiptItems(), "Pedro", "Efectivo", "", "Maria")
	second := c.Receipt(receiptItems(), "Pedro", "Efectivo", "", "Maria")

	assert.Equal(t, first, second)
}

func TestReceipt_TextLinesFitWidth(t *testing.T) {
	for _, width := range []int{WidthNarrow, WidthWide} {
		c := pinnedCodec(width)
		out := string(c.Receipt(receiptItems(), "Pedro", "Efectivo", "", "Maria"))

		for _, line := range strings.Split(out, "\n") {
			// Strip the command prefixes; only visible text counts.
			for _, cmd := range []string{cmdInit, cmdCodePage, alignLeft, alignCenter, alignRight, styleNormal, styleLarge, styleBold, "\x1d\x56\x41\x03"} {
				line = strings.ReplaceAll(line, cmd, "")
			}
			assert.LessOrEqual(t, len(line), width, "line %q overflows width %d", line, width)
		}
	}
}

func TestComanda(t *testing.T) {
	c := pinnedCodec(WidthNarrow)
	tbl := &table.Table{
		Number: 4, Status: table.StatusUnpaid, OrderType: table.OrderDineIn,
		CustomerName: "Pedro", Observations: "sin picante",
		Order: receiptItems(),
	}

	original := string(c.Comanda(tbl, "Maria", PrintOriginal))
	reprint := string(c.Comanda(tbl, "Maria", PrintCopy))

	assert.Contains(t, original, "MI RANCHITO MAR Y LENA\n")
	assert.Contains(t, original, "COMANDA DE COCINA\n")
	assert.Contains(t, original, "MESA: 4")
	assert.Contains(t, original, "MESONERO: MARIA\n")
	assert.Contains(t, original, "CLIENTE: PEDRO\n")
	assert.Contains(t, original, "NOTAS:\nSIN PICANTE\n")

	assert.Contains(t, reprint, "--- COPIA ---\n")
	assert.NotContains(t, reprint, "MI RANCHITO MAR Y LENA\n")
}

func TestComanda_TakeoutIdentifier(t *testing.T) {
	c := pinnedCodec(WidthNarrow)
	tbl := &table.Table{
		Number: 101, OrderType: table.OrderTakeout, OrderCode: "LL-101",
		Order: receiptItems(),
	}

	out := string(c.Comanda(tbl, "Maria", PrintOriginal))

	assert.Contains(t, out, "PEDIDO #101")
}

func TestTestPrint(t *testing.T) {
	c := pinnedCodec(WidthWide)

	out := string(c.TestPrint())

	require.True(t, strings.HasPrefix(out, cmdInit+cmdCodePage))
	assert.Contains(t, out, "PRUEBA DE IMPRESION OK\n")
	assert.Contains(t, out, "ANCHO: 42 CARACTERES\n")
	assert.Contains(t, out, "FECHA: 14/03/2025\n")
	assert.Contains(t, out, "HORA: 19:30:00\n")
}
