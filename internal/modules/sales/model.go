package sales

import (
	"time"

	"github.com/google/uuid"

	"github.com/comandero/pos-core/internal/modules/table"
)

// RecordType distinguishes sales from refunds in the history log.
type RecordType string

const (
	TypeSale   RecordType = "sale"
	TypeRefund RecordType = "refund"
)

// SaleRecord is one append-only entry in the sales history. Records are never
// mutated; a refund appends an inverse entry.
type SaleRecord struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"` // 2006-01-02
	Time         string            `json:"time"` // 15:04
	TableNumber  int               `json:"tableNumber"`
	Waiter       string            `json:"waiter"`
	Total        float64           `json:"total"`
	Order        []table.OrderItem `json:"order"`
	Type         RecordType        `json:"type"`
	Notes        string            `json:"notes,omitempty"`
	OrderCode    string            `json:"orderCode,omitempty"`
	CustomerName string            `json:"customerName,omitempty"`
	RefundOf     string            `json:"refundOf,omitempty"`
}

func newRecord(t *table.Table, waiter string, total float64, at time.Time) SaleRecord {
	return SaleRecord{
		ID:           uuid.New().String(),
		Date:         at.Format("2006-01-02"),
		Time:         at.Format("15:04"),
		TableNumber:  t.Number,
		Waiter:       waiter,
		Total:        total,
		Order:        append([]table.OrderItem(nil), t.Order...),
		Type:         TypeSale,
		OrderCode:    t.OrderCode,
		CustomerName: t.CustomerName,
	}
}
