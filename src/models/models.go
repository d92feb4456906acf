package models

import "time"

// Trade sides, from the shop's point of view. "initial" marks opening-stock
// and recount entries written by vault adjustments; they carry no prices and
// are skipped by the margin analysis.
const (
	SideBuy     = "buy"
	SideSell    = "sell"
	SideInitial = "initial"
)

// Payment types accepted on a trade. Anything else is rejected up front.
const (
	PaymentCash = "Cash"
	PaymentDebt = "Debt"
)

// Vault is one running balance of the shop's safe, keyed by symbol
// ("TRY", "USD", "GA" for fine gold grams, ...). Balances are signed and may
// go negative when the shop is short a commodity.
type Vault struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	Balance     float64   `json:"balance"`
	LastUpdated time.Time `json:"last_updated"`
}

// Customer is a running account. BalanceTRY is signed: positive means the
// customer owes the shop. BalanceGold is kept separately in fine-gold grams.
type Customer struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	BalanceTRY  float64   `json:"balance_try"`
	BalanceGold float64   `json:"balance_gold"`
	CreatedAt   time.Time `json:"created_at"`
}

// Product is a manufactured item (ring, bracelet, ...). Weight is in grams,
// Purity a fraction (0.916 for 22k). Listings only show StockQty > 0.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Weight    float64   `json:"weight"`
	Purity    float64   `json:"purity"`
	LaborCost float64   `json:"labor_cost"`
	StockQty  int64     `json:"stock_qty"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is one append-only ledger entry. Rows are never updated or
// deleted; every vault/customer/stock mutation traces back to exactly one.
type Transaction struct {
	ID          int64     `json:"id"`
	Side        string    `json:"side"`
	Symbol      string    `json:"symbol"`
	Qty         float64   `json:"qty"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
	PaymentType string    `json:"payment_type"`
	CustomerID  *int64    `json:"customer_id,omitempty"`
	ProductID   *int64    `json:"product_id,omitempty"`
	Timestamp   time.Time `json:"ts"`
}

// Margin holds per-symbol offsets applied on top of the live quote:
// the shop buys below the market buy price and sells above the market sell.
type Margin struct {
	ID         int64   `json:"id"`
	Symbol     string  `json:"symbol"`
	BuyMargin  float64 `json:"buy_margin"`
	SellMargin float64 `json:"sell_margin"`
}

// Quote is one buy/sell pair from the price feed. Nil means the feed had no
// usable figure for that side.
type Quote struct {
	Buy  *float64 `json:"buy"`
	Sell *float64 `json:"sell"`
}

// BuyOrZero returns the buy quote, or 0 when missing.
func (q Quote) BuyOrZero() float64 {
	if q.Buy == nil {
		return 0
	}
	return *q.Buy
}

// SellOrZero returns the sell quote, or 0 when missing.
func (q Quote) SellOrZero() float64 {
	if q.Sell == nil {
		return 0
	}
	return *q.Sell
}

// SmartPrice is a margin-adjusted shop-facing price pair.
type SmartPrice struct {
	SuggestedBuy  float64 `json:"suggested_buy"`
	SuggestedSell float64 `json:"suggested_sell"`
}

// MarginSuggestion is advisory output of the trade-history analysis. Applying
// it is a separate, explicit margin update.
type MarginSuggestion struct {
	Symbol    string  `json:"symbol"`
	Type      string  `json:"type"`
	Suggested float64 `json:"suggested"`
	Message   string  `json:"msg"`
}

// ProductStockSummary aggregates manufactured stock for the valuation report.
type ProductStockSummary struct {
	TotalWeightHas float64 `json:"total_weight_has"`
	TotalLaborTRY  float64 `json:"total_labor_tl"`
}

// ValuationSnapshot is the point-in-time net position of the shop: raw vault
// balances, manufactured stock, and the grand total re-expressed per currency.
type ValuationSnapshot struct {
	Balances     map[string]float64  `json:"balances"`
	ProductStock ProductStockSummary `json:"product_stock"`
	TotalGoldHas float64             `json:"total_gold_has"`
	Valuation    map[string]float64  `json:"valuation"`
}

// DailyReport is today's realized profit plus the day's trades.
type DailyReport struct {
	Profit       float64       `json:"profit"`
	Transactions []Transaction `json:"transactions"`
}

// AnalyticsReport summarizes the last 30 days of trading.
type AnalyticsReport struct {
	Volume        VolumeSummary  `json:"volume"`
	CategorySales LabelledSeries `json:"category_sales"`
	SymbolSales   LabelledSeries `json:"symbol_sales"`
}

type VolumeSummary struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

type LabelledSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}
