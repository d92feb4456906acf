package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

type reportServiceImpl struct {
	db     *sql.DB
	prices PriceService
}

func NewReportService(db *sql.DB, prices PriceService) ReportService {
	return &reportServiceImpl{db: db, prices: prices}
}

// Valuation aggregates every holding into one multi-currency snapshot:
// raw vault balances, the fine-gold equivalent locked in manufactured stock,
// labor value, and the grand total re-expressed in TRY/USD/EUR/gold grams.
// Vault and product rows are read inside one database transaction so a
// concurrent trade cannot produce a mixed view. The report never fails on a
// dead price feed; the fallback table keeps it defined.
func (s *reportServiceImpl) Valuation() (*models.ValuationSnapshot, error) {
	dbTx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning snapshot read: %w", err)
	}
	defer dbTx.Rollback()

	balances := make(map[string]float64)
	rows, err := dbTx.Query(`SELECT symbol, balance FROM vault`)
	if err != nil {
		return nil, fmt.Errorf("error reading vault: %w", err)
	}
	for rows.Next() {
		var symbol string
		var balance float64
		if err := rows.Scan(&symbol, &balance); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning vault row: %w", err)
		}
		balances[symbol] = balance
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating vault rows: %w", err)
	}
	rows.Close()

	var productHas, laborTRY float64
	rows, err = dbTx.Query(`SELECT weight, purity, labor_cost, stock_qty FROM products WHERE stock_qty > 0`)
	if err != nil {
		return nil, fmt.Errorf("error reading products: %w", err)
	}
	for rows.Next() {
		var weight, purity, laborCost float64
		var stockQty int64
		if err := rows.Scan(&weight, &purity, &laborCost, &stockQty); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning product row: %w", err)
		}
		productHas += weight * purity * float64(stockQty)
		laborTRY += laborCost * float64(stockQty)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	rows.Close()

	quotes := s.prices.GetQuotes()

	totalTRY := balances[models.SymbolCash] + laborTRY
	for _, sym := range []string{"GA", "USD", "EUR"} {
		totalTRY += balances[sym] * quotes[sym].BuyOrZero()
	}

	// Manufactured stock is valued as if its fine-gold weight sat in the GA
	// balance. Non-positive quotes divide as 1 so a dead feed cannot blow up
	// the conversion.
	pGA := divisor(quotes["GA"])
	pUSD := divisor(quotes["USD"])
	pEUR := divisor(quotes["EUR"])
	totalTRY += productHas * pGA

	return &models.ValuationSnapshot{
		Balances: balances,
		ProductStock: models.ProductStockSummary{
			TotalWeightHas: utils.RoundFloat(productHas, 3),
			TotalLaborTRY:  utils.RoundFloat(laborTRY, 2),
		},
		TotalGoldHas: utils.RoundFloat(balances[models.SymbolFineGold]+productHas, 3),
		Valuation: map[string]float64{
			"TRY": utils.RoundFloat(totalTRY, 2),
			"USD": utils.RoundFloat(totalTRY/pUSD, 2),
			"EUR": utils.RoundFloat(totalTRY/pEUR, 2),
			"GA":  utils.RoundFloat(totalTRY/pGA, 3),
		},
	}, nil
}

// divisor returns the buy quote usable as a conversion divisor; non-positive
// or missing quotes become 1.
func divisor(q models.Quote) float64 {
	buy := q.BuyOrZero()
	if buy <= 0 {
		return 1
	}
	return buy
}

// profit is the spread earned against the reference buy quote: sells above
// it gain, buys below it gain. Opening entries carry no prices and are
// skipped.
func profit(txs []models.Transaction, quotes map[string]models.Quote) float64 {
	var total float64
	for _, t := range txs {
		if t.Side == models.SideInitial {
			continue
		}
		sym := t.Symbol
		if sym == "" {
			sym = models.SymbolFineGold
		}
		q, ok := quotes[sym]
		if !ok {
			q = quotes[models.SymbolFineGold]
		}
		ref := q.BuyOrZero()
		if t.Side == models.SideSell {
			total += (t.UnitPrice - ref) * t.Qty
		} else {
			total += (ref - t.UnitPrice) * t.Qty
		}
	}
	return total
}

// Daily reports today's realized profit and lists today's trades.
func (s *reportServiceImpl) Daily() (*models.DailyReport, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	txs, err := model.ListTransactions(s.db, dayStart)
	if err != nil {
		return nil, fmt.Errorf("error loading today's transactions: %w", err)
	}
	quotes := s.prices.GetQuotes()

	if txs == nil {
		txs = []models.Transaction{}
	}
	return &models.DailyReport{
		Profit:       utils.RoundFloat(profit(txs, quotes), 2),
		Transactions: txs,
	}, nil
}

// PnL is the all-time realized spread over the full ledger.
func (s *reportServiceImpl) PnL() (float64, error) {
	txs, err := model.ListTransactions(s.db, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("error loading transactions: %w", err)
	}
	quotes := s.prices.GetQuotes()
	return utils.RoundFloat(profit(txs, quotes), 2), nil
}

// Analytics summarizes the last 30 days: buy/sell volume plus sell totals
// broken down by product category and by symbol.
func (s *reportServiceImpl) Analytics() (*models.AnalyticsReport, error) {
	since := time.Now().AddDate(0, 0, -30)
	txs, err := model.ListTransactions(s.db, since)
	if err != nil {
		return nil, fmt.Errorf("error loading transactions: %w", err)
	}
	productCategories, err := model.ProductCategories(s.db)
	if err != nil {
		return nil, fmt.Errorf("error loading product categories: %w", err)
	}

	var totalBuy, totalSell float64
	categorySales := make(map[string]float64)
	symbolSales := make(map[string]float64)

	for _, t := range txs {
		switch t.Side {
		case models.SideBuy:
			totalBuy += t.TotalPrice
		case models.SideSell:
			totalSell += t.TotalPrice
		default:
			continue
		}

		if t.Side != models.SideSell {
			continue
		}
		if t.ProductID != nil {
			category := productCategories[*t.ProductID]
			if category == "" {
				category = "Ürün"
			}
			categorySales[category] += t.TotalPrice
		} else if t.Symbol != "" && t.Symbol != models.SymbolProduct {
			symbolSales[t.Symbol] += t.TotalPrice
		}
	}

	report := &models.AnalyticsReport{
		Volume: models.VolumeSummary{
			Buy:  utils.RoundFloat(totalBuy, 2),
			Sell: utils.RoundFloat(totalSell, 2),
		},
	}
	for label, value := range categorySales {
		report.CategorySales.Labels = append(report.CategorySales.Labels, label)
		report.CategorySales.Values = append(report.CategorySales.Values, value)
	}
	for label, value := range symbolSales {
		report.SymbolSales.Labels = append(report.SymbolSales.Labels, label)
		report.SymbolSales.Values = append(report.SymbolSales.Values, value)
	}
	return report, nil
}
