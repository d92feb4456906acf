package model

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/database"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	db := database.DB
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserPasswordRoundtrip(t *testing.T) {
	var u User
	require.NoError(t, u.HashPassword("s3cret-pass"))
	assert.NotEqual(t, "s3cret-pass", u.Password)
	assert.NoError(t, u.CheckPassword("s3cret-pass"))
	assert.Error(t, u.CheckPassword("wrong"))
}

func TestUserCreateAndLookup(t *testing.T) {
	db := newTestDB(t)

	u := &User{Username: "owner"}
	require.NoError(t, u.HashPassword("s3cret-pass"))
	require.NoError(t, u.CreateUser(db))
	assert.NotZero(t, u.ID)
	assert.Equal(t, "cashier", u.Role)

	found, err := GetUserByUsername(db, "owner")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.NoError(t, found.CheckPassword("s3cret-pass"))

	_, err = GetUserByUsername(db, "nobody")
	assert.Error(t, err)

	n, err := CountUsers(db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)

	session := &Session{
		UserID:    1,
		Token:     "tok-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, CreateSession(db, session))

	found, err := GetSessionByToken(db, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.UserID)

	require.NoError(t, DeleteSessionByToken(db, "tok-1"))
	_, err = GetSessionByToken(db, "tok-1")
	assert.Error(t, err)

	// Logout is idempotent.
	assert.NoError(t, DeleteSessionByToken(db, "tok-1"))
}

func TestSessionExpiryAndBlocking(t *testing.T) {
	db := newTestDB(t)

	expired := &Session{UserID: 1, Token: "tok-old", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, CreateSession(db, expired))
	_, err := GetSessionByToken(db, "tok-old")
	assert.Error(t, err)

	blocked := &Session{UserID: 1, Token: "tok-blocked", IsBlocked: true, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, CreateSession(db, blocked))
	_, err = GetSessionByToken(db, "tok-blocked")
	assert.Error(t, err)
}

func TestVaultAdjustCreatesRowOnDemand(t *testing.T) {
	db := newTestDB(t)

	tx, err := db.Begin()
	require.NoError(t, err)

	balance, err := AdjustVaultTx(tx, "GA", 12.5)
	require.NoError(t, err)
	assert.Equal(t, 12.5, balance)

	balance, err = AdjustVaultTx(tx, "GA", -20)
	require.NoError(t, err)
	assert.Equal(t, -7.5, balance)

	require.NoError(t, tx.Commit())

	balances, err := VaultBalances(db)
	require.NoError(t, err)
	assert.Equal(t, -7.5, balances["GA"])
}

func TestCustomerCreateAndCount(t *testing.T) {
	db := newTestDB(t)

	c := &models.Customer{FullName: "Ali Veli", Phone: "05551112233"}
	require.NoError(t, CreateCustomer(db, c))
	assert.NotZero(t, c.ID)

	found, err := GetCustomerByID(db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ali Veli", found.FullName)
	assert.Equal(t, 0.0, found.BalanceTRY)

	// Phone is unique.
	dup := &models.Customer{FullName: "Ali Veli 2", Phone: "05551112233"}
	assert.Error(t, CreateCustomer(db, dup))

	n, err := CountCustomers(db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProductListingsHideSoldOut(t *testing.T) {
	db := newTestDB(t)

	inStock := &models.Product{Name: "Alyans", Weight: 8, StockQty: 2}
	require.NoError(t, CreateProduct(db, inStock))
	assert.Equal(t, 0.916, inStock.Purity)

	soldOut := &models.Product{Name: "Gremse", Weight: 15, StockQty: 1}
	require.NoError(t, CreateProduct(db, soldOut))

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, AdjustStockTx(tx, soldOut.ID, -1))
	require.NoError(t, tx.Commit())

	products, err := ListProductsInStock(db)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Alyans", products[0].Name)

	// Sold-out items stay reachable by ID for history.
	p, err := GetProductByID(db, soldOut.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.StockQty)
}

func TestProductCategoriesIncludesSoldOut(t *testing.T) {
	db := newTestDB(t)

	ring := &models.Product{Name: "Alyans", Category: "Yüzük", Weight: 8, StockQty: 0}
	require.NoError(t, CreateProduct(db, ring))
	scrap := &models.Product{Name: "Hurda", Weight: 5, StockQty: 2}
	require.NoError(t, CreateProduct(db, scrap))

	categories, err := ProductCategories(db)
	require.NoError(t, err)
	assert.Equal(t, "Yüzük", categories[ring.ID])
	assert.Equal(t, "", categories[scrap.ID])
	assert.Len(t, categories, 2)
}

func TestSettingsUpsert(t *testing.T) {
	db := newTestDB(t)

	value, err := GetSetting(db, "license_tier")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, SetSetting(db, "license_tier", "PREMIUM"))
	require.NoError(t, SetSetting(db, "license_tier", "NORMAL"))

	value, err = GetSetting(db, "license_tier")
	require.NoError(t, err)
	assert.Equal(t, "NORMAL", value)
}

func TestMarginUpsertAndLookup(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, UpsertMargin(db, models.Margin{Symbol: "USD", BuyMargin: 0.5, SellMargin: 1.2}))
	require.NoError(t, UpsertMargin(db, models.Margin{Symbol: "USD", BuyMargin: 0.6, SellMargin: 1.4}))

	bySymbol, err := MarginsBySymbol(db)
	require.NoError(t, err)
	assert.Equal(t, 0.6, bySymbol["USD"].BuyMargin)
	assert.Equal(t, 1.4, bySymbol["USD"].SellMargin)

	all, err := ListMargins(db)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListTransactionsSinceFilter(t *testing.T) {
	db := newTestDB(t)

	insert := func(ts time.Time) {
		_, err := db.Exec(`
			INSERT INTO transactions (side, symbol, qty, unit_price, total_price, payment_type, ts)
			VALUES ('sell', 'GA', 1, 3050, 3050, 'Cash', ?)`, ts)
		require.NoError(t, err)
	}
	now := time.Now()
	insert(now.AddDate(0, 0, -10))
	insert(now.Add(-time.Hour))
	insert(now)

	all, err := ListTransactions(db, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	recent, err := ListTransactions(db, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	// Newest first.
	require.NotEmpty(t, recent)
	assert.True(t, !recent[0].Timestamp.Before(recent[len(recent)-1].Timestamp))

	limited, err := RecentTransactions(db, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
