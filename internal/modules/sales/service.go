package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/comandero/pos-core/internal/modules/table"
	"github.com/comandero/pos-core/internal/store"
)

// KeySalesHistory is the store namespace for the sales log.
const KeySalesHistory = "salesHistory"

var ErrRecordNotFound = errors.New("sale record not found")
var ErrAlreadyRefunded = errors.New("sale was already refunded")

// Service is the append-only sales history log.
type Service interface {
	// RecordSale appends a sale entry for a paid table. Implements the table
	// module's SaleRecorder hook.
	RecordSale(ctx context.Context, t *table.Table, waiter, method string, total float64) error

	// Refund appends an inverse entry for an existing sale.
	Refund(ctx context.Context, saleID, reason string) (*SaleRecord, error)

	// List returns records, newest first, optionally filtered to one date
	// (2006-01-02).
	List(ctx context.Context, date string) ([]SaleRecord, error)

	// TotalForDay sums sales minus refunds for a date.
	TotalForDay(ctx context.Context, date string) (float64, error)
}

type service struct {
	kv  *store.Store
	now func() time.Time
}

// NewService creates the sales history service.
func NewService(kv *store.Store) Service {
	return &service{kv: kv, now: time.Now}
}

func (s *service) load() ([]SaleRecord, error) {
	var records []SaleRecord
	if _, err := s.kv.Get(KeySalesHistory, &records); err != nil {
		return nil, fmt.Errorf("load sales history: %w", err)
	}
	return records, nil
}

func (s *service) RecordSale(ctx context.Context, t *table.Table, waiter, method string, total float64) error {
	records, err := s.load()
	if err != nil {
		return err
	}
	rec := newRecord(t, waiter, total, s.now())
	if method != "" {
		rec.Notes = "Pago: " + method
	}
	records = append(records, rec)
	if err := s.kv.Set(KeySalesHistory, records); err != nil {
		return err
	}
	log.Info().Str("id", rec.ID).Int("table", t.Number).Float64("total", total).Msg("sales: sale recorded")
	return nil
}

func (s *service) Refund(ctx context.Context, saleID, reason string) (*SaleRecord, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	var original *SaleRecord
	for i := range records {
		if records[i].ID == saleID {
			if records[i].Type != TypeSale {
				return nil, ErrAlreadyRefunded
			}
			original = &records[i]
			break
		}
	}
	if original == nil {
		return nil, ErrRecordNotFound
	}
	for _, r := range records {
		if r.Type == TypeRefund && r.RefundOf == saleID {
			return nil, ErrAlreadyRefunded
		}
	}

	now := s.now()
	refund := *original
	refund.ID = uuid.New().String()
	refund.Date = now.Format("2006-01-02")
	refund.Time = now.Format("15:04")
	refund.Total = -original.Total
	refund.Type = TypeRefund
	refund.Notes = reason
	refund.RefundOf = saleID

	records = append(records, refund)
	if err := s.kv.Set(KeySalesHistory, records); err != nil {
		return nil, err
	}
	log.Info().Str("sale", saleID).Float64("total", refund.Total).Msg("sales: refund recorded")
	return &refund, nil
}

func (s *service) List(ctx context.Context, date string) ([]SaleRecord, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []SaleRecord
	for i := len(records) - 1; i >= 0; i-- {
		if date == "" || records[i].Date == date {
			out = append(out, records[i])
		}
	}
	return out, nil
}

func (s *service) TotalForDay(ctx context.Context, date string) (float64, error) {
	records, err := s.load()
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, r := range records {
		if r.Date == date {
			total += r.Total
		}
	}
	return total, nil
}
