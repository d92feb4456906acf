package services

import (
	"errors"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
)

// Sentinel errors used across the trade and settlement paths. Handlers map
// them to HTTP status codes; everything else is an internal failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// Settlement directions for manual cash movements against a customer account.
const (
	DirectionCollect  = "collect"
	DirectionDisburse = "disburse"
)

// License tiers.
const (
	TierNormal  = "NORMAL"
	TierPremium = "PREMIUM"
)

// PriceService supplies buy/sell quotes per symbol. Calls never fail: on any
// upstream trouble the fixed fallback table is returned instead, so
// price-dependent reads stay available.
type PriceService interface {
	GetQuotes() map[string]models.Quote
}

// LedgerService applies trades, manual settlements, and opening-stock
// adjustments. Each call is one all-or-nothing unit of work against vault,
// customer, and product state.
type LedgerService interface {
	RecordTransaction(t *models.Transaction) error
	SettleCustomer(customerID int64, amount float64, direction string) (float64, error)
	AdjustVault(symbol string, amount float64) (float64, error)
	ListTransactions(since time.Time) ([]models.Transaction, error)
}

// MarginService produces shop-facing prices from live quotes plus the
// configured offsets, and analyzes recent trades for margin drift.
type MarginService interface {
	SmartPrices() (map[string]models.SmartPrice, error)
	Suggestions() ([]models.MarginSuggestion, error)
	Margins() ([]models.Margin, error)
	UpdateMargin(m models.Margin) error
}

// ReportService derives read-only views over the ledger. All methods degrade
// to zeroed output under total price-feed failure rather than erroring.
type ReportService interface {
	Valuation() (*models.ValuationSnapshot, error)
	Daily() (*models.DailyReport, error)
	PnL() (float64, error)
	Analytics() (*models.AnalyticsReport, error)
}

// LicenseService resolves the entitlement tier from persisted settings, once
// per request. There is no process-wide tier state.
type LicenseService interface {
	CurrentTier() string
	Activate(key string) (string, error)
}

// EmailService sends the owner's end-of-day summary.
type EmailService interface {
	SendDailySummary(toEmail string, snapshot *models.ValuationSnapshot, daily *models.DailyReport) error
}
