package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/comandero/pos-core/internal/store"
)

// KeySettings is the store namespace for the app settings record.
const KeySettings = "settings"

// PaperWidth is the configured thermal printer paper size.
type PaperWidth string

const (
	Paper58mm PaperWidth = "58mm"
	Paper80mm PaperWidth = "80mm"
)

// RateSource picks which exchange rate drives bolivar conversion.
type RateSource string

const (
	RateBCV      RateSource = "bcv"
	RateParallel RateSource = "parallel"
)

// AppSettings is the single business-settings record. Persisted versionless;
// absent key falls back to Defaults.
type AppSettings struct {
	TotalTables          int        `json:"totalTables"`
	PrinterPaperWidth    PaperWidth `json:"printerPaperWidth"`
	ExchangeRateBCV      float64    `json:"exchangeRateBCV"`
	ExchangeRateParallel float64    `json:"exchangeRateParallel"`
	ActiveExchangeRate   RateSource `json:"activeExchangeRate"`
	AdminPIN             string     `json:"adminPin,omitempty"`
	OperationCount       int        `json:"operationCount"`
}

// ActiveRate returns the exchange rate currently in effect.
func (s *AppSettings) ActiveRate() float64 {
	if s.ActiveExchangeRate == RateParallel {
		return s.ExchangeRateParallel
	}
	return s.ExchangeRateBCV
}

// Defaults is the settings record used until the shop saves its own.
func Defaults() AppSettings {
	return AppSettings{
		TotalTables:        12,
		PrinterPaperWidth:  Paper58mm,
		ExchangeRateBCV:    1,
		ActiveExchangeRate: RateBCV,
	}
}

var ErrInvalidSettings = errors.New("invalid settings")

// Service reads and writes the settings record through the KV store.
type Service interface {
	Get(ctx context.Context) (AppSettings, error)
	Update(ctx context.Context, s AppSettings) (AppSettings, error)

	// BumpOperationCount increments the rolling operation counter used by
	// dispatch and payment actions.
	BumpOperationCount(ctx context.Context) error
}

type service struct{ kv *store.Store }

func NewService(kv *store.Store) Service { return &service{kv: kv} }

func (s *service) Get(ctx context.Context) (AppSettings, error) {
	cfg := Defaults()
	ok, err := s.kv.Get(KeySettings, &cfg)
	if err != nil {
		return Defaults(), fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return Defaults(), nil
	}
	return cfg, nil
}

func (s *service) Update(ctx context.Context, cfg AppSettings) (AppSettings, error) {
	if cfg.TotalTables < 1 {
		return AppSettings{}, fmt.Errorf("%w: totalTables must be at least 1", ErrInvalidSettings)
	}
	if cfg.PrinterPaperWidth != Paper58mm && cfg.PrinterPaperWidth != Paper80mm {
		return AppSettings{}, fmt.Errorf("%w: printerPaperWidth must be 58mm or 80mm", ErrInvalidSettings)
	}
	if cfg.ActiveExchangeRate != RateBCV && cfg.ActiveExchangeRate != RateParallel {
		return AppSettings{}, fmt.Errorf("%w: activeExchangeRate must be bcv or parallel", ErrInvalidSettings)
	}
	if err := s.kv.Set(KeySettings, cfg); err != nil {
		return AppSettings{}, err
	}
	return cfg, nil
}

func (s *service) BumpOperationCount(ctx context.Context) error {
	cfg, err := s.Get(ctx)
	if err != nil {
		return err
	}
	cfg.OperationCount++
	return s.kv.Set(KeySettings, cfg)
}
