package services

import (
	"testing"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuationEmptyShop(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db, &stubPrices{quotes: FallbackQuotes()})

	snapshot, err := reports.Valuation()
	require.NoError(t, err)

	assert.Empty(t, snapshot.Balances)
	assert.Equal(t, 0.0, snapshot.TotalGoldHas)
	assert.Equal(t, 0.0, snapshot.ProductStock.TotalWeightHas)
	assert.Equal(t, 0.0, snapshot.Valuation["TRY"])
	assert.Equal(t, 0.0, snapshot.Valuation["USD"])
	assert.Equal(t, 0.0, snapshot.Valuation["GA"])
}

func TestValuationAggregatesHoldings(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	reports := NewReportService(db, &stubPrices{quotes: FallbackQuotes()})

	_, err := ledger.AdjustVault(models.SymbolCash, 10000)
	require.NoError(t, err)
	_, err = ledger.AdjustVault(models.SymbolFineGold, 2)
	require.NoError(t, err)

	// Two rings: 10g x 0.916 purity x 2 pieces = 18.32 has grams, 1000 TL labor.
	mustCreateProduct(t, db, "Alyans", 10, 2)

	snapshot, err := reports.Valuation()
	require.NoError(t, err)

	assert.Equal(t, 18.32, snapshot.ProductStock.TotalWeightHas)
	assert.Equal(t, 1000.0, snapshot.ProductStock.TotalLaborTRY)
	assert.Equal(t, 20.32, snapshot.TotalGoldHas)

	// 10000 cash + 1000 labor + 2 GA * 3000 + 18.32 has * 3000 = 71960 TL.
	assert.Equal(t, 71960.0, snapshot.Valuation["TRY"])
	assert.Equal(t, 2116.47, snapshot.Valuation["USD"])
	assert.Equal(t, 1944.86, snapshot.Valuation["EUR"])
	assert.Equal(t, 23.987, snapshot.Valuation["GA"])
}

func TestValuationSurvivesMissingQuotes(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	reports := NewReportService(db, &stubPrices{quotes: map[string]models.Quote{}})

	_, err := ledger.AdjustVault(models.SymbolCash, 5000)
	require.NoError(t, err)
	_, err = ledger.AdjustVault(models.SymbolFineGold, 3)
	require.NoError(t, err)

	snapshot, err := reports.Valuation()
	require.NoError(t, err)

	// Unquoted holdings contribute nothing and conversion divisors fall back
	// to 1, so the report stays defined instead of dividing by zero.
	assert.Equal(t, 5000.0, snapshot.Valuation["TRY"])
	assert.Equal(t, 5000.0, snapshot.Valuation["USD"])
	assert.Equal(t, 5000.0, snapshot.Valuation["GA"])
}

func TestDailyReport(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db, &stubPrices{quotes: FallbackQuotes()})

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	// Sold 2g at 3100 against a 3000 reference: +200. Bought 5g at 2950: +250.
	insertTrade(t, db, models.SideSell, "GA", 2, 3100, 6200, nil, now)
	insertTrade(t, db, models.SideBuy, "GA", 5, 2950, 14750, nil, now)
	insertTrade(t, db, models.SideSell, "GA", 10, 3100, 31000, nil, yesterday)

	report, err := reports.Daily()
	require.NoError(t, err)

	assert.Equal(t, 450.0, report.Profit)
	assert.Len(t, report.Transactions, 2)
}

func TestDailyReportEmptyDay(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db, &stubPrices{quotes: FallbackQuotes()})

	report, err := reports.Daily()
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Profit)
	assert.NotNil(t, report.Transactions)
	assert.Empty(t, report.Transactions)
}

func TestPnLCoversFullHistory(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db, &stubPrices{quotes: FallbackQuotes()})

	insertTrade(t, db, models.SideSell, "GA", 2, 3100, 6200, nil, time.Now().AddDate(0, -2, 0))
	insertTrade(t, db, models.SideSell, "GA", 1, 3050, 3050, nil, time.Now())
	insertTrade(t, db, models.SideInitial, "GA", 100, 0, 0, nil, time.Now())

	total, err := reports.PnL()
	require.NoError(t, err)
	assert.Equal(t, 250.0, total)
}

func TestAnalyticsBreakdowns(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db, &stubPrices{quotes: FallbackQuotes()})
	prodID := mustCreateProduct(t, db, "Burma Bilezik", 15, 5)

	now := time.Now()
	insertTrade(t, db, models.SideSell, models.SymbolProduct, 1, 45000, 45000, &prodID, now)
	insertTrade(t, db, models.SideSell, "USD", 100, 35, 3500, nil, now)
	insertTrade(t, db, models.SideBuy, "GA", 10, 2950, 29500, nil, now)
	insertTrade(t, db, models.SideInitial, "GA", 50, 0, 0, nil, now)
	// Too old for the 30-day window.
	insertTrade(t, db, models.SideSell, "USD", 10, 35, 350, nil, now.AddDate(0, 0, -45))

	report, err := reports.Analytics()
	require.NoError(t, err)

	assert.Equal(t, 29500.0, report.Volume.Buy)
	assert.Equal(t, 48500.0, report.Volume.Sell)

	require.Len(t, report.CategorySales.Labels, 1)
	assert.Equal(t, "Yüzük", report.CategorySales.Labels[0])
	assert.Equal(t, 45000.0, report.CategorySales.Values[0])

	require.Len(t, report.SymbolSales.Labels, 1)
	assert.Equal(t, "USD", report.SymbolSales.Labels[0])
	assert.Equal(t, 3500.0, report.SymbolSales.Values[0])
}

func TestAnalyticsCategoryFallback(t *testing.T) {
	db := newTestDB(t)
	reports := NewReportService(db, &stubPrices{quotes: FallbackQuotes()})

	uncategorized := &models.Product{Name: "Hurda", Weight: 5, StockQty: 1}
	require.NoError(t, model.CreateProduct(db, uncategorized))

	soldOut := mustCreateProduct(t, db, "Gremse", 15, 1)
	_, err := db.Exec(`UPDATE products SET stock_qty = 0 WHERE id = ?`, soldOut)
	require.NoError(t, err)

	now := time.Now()
	insertTrade(t, db, models.SideSell, models.SymbolProduct, 1, 8000, 8000, &uncategorized.ID, now)
	insertTrade(t, db, models.SideSell, models.SymbolProduct, 1, 30000, 30000, &soldOut, now)
	// Deleted product: the ledger row outlives the catalog entry.
	dangling := int64(999)
	insertTrade(t, db, models.SideSell, models.SymbolProduct, 1, 5000, 5000, &dangling, now)

	report, err := reports.Analytics()
	require.NoError(t, err)

	sales := make(map[string]float64)
	for i, label := range report.CategorySales.Labels {
		sales[label] = report.CategorySales.Values[i]
	}
	// Sold-out items keep their category; unlabelled and dangling references
	// fall back to the generic bucket.
	assert.Equal(t, 30000.0, sales["Yüzük"])
	assert.Equal(t, 13000.0, sales["Ürün"])
}
