package services

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/config"
	"github.com/rojhatkeles/Kuyumcu-AI/src/database"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	config.Cfg = &config.AppConfig{
		PriceFeedTimeout: 2 * time.Second,
		PriceCacheTTL:    time.Minute,
		GoldOunceUSD:     2750.0,
	}
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	db := database.DB
	t.Cleanup(func() { db.Close() })
	return db
}

// stubPrices serves a fixed quote table so price-dependent services can be
// tested without the live feed.
type stubPrices struct {
	quotes map[string]models.Quote
}

func (s *stubPrices) GetQuotes() map[string]models.Quote { return s.quotes }

func mustCreateCustomer(t *testing.T, db *sql.DB, name, phone string) int64 {
	t.Helper()
	c := &models.Customer{FullName: name, Phone: phone}
	require.NoError(t, model.CreateCustomer(db, c))
	return c.ID
}

func mustCreateProduct(t *testing.T, db *sql.DB, name string, weight float64, stock int64) int64 {
	t.Helper()
	p := &models.Product{Name: name, Category: "Yüzük", Weight: weight, LaborCost: 500, StockQty: stock}
	require.NoError(t, model.CreateProduct(db, p))
	return p.ID
}

// insertTrade writes a ledger row directly with an explicit timestamp, for
// report and margin tests that need history at known instants.
func insertTrade(t *testing.T, db *sql.DB, side, symbol string, qty, unitPrice, totalPrice float64, productID *int64, ts time.Time) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO transactions (side, symbol, qty, unit_price, total_price, payment_type, product_id, ts)
		VALUES (?, ?, ?, ?, ?, 'Cash', ?, ?)`,
		side, symbol, qty, unitPrice, totalPrice, productID, ts)
	require.NoError(t, err)
}

func vaultBalance(t *testing.T, db *sql.DB, symbol string) float64 {
	t.Helper()
	balances, err := model.VaultBalances(db)
	require.NoError(t, err)
	return balances[symbol]
}
