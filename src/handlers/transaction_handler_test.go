package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/config"
	"github.com/rojhatkeles/Kuyumcu-AI/src/database"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	config.Cfg = &config.AppConfig{
		NormalTierMaxCustomers: 20,
		NormalTierMaxUsers:     1,
		NormalTierHistoryDays:  7,
	}
	os.Exit(m.Run())
}

// normalTierLicense resolves to NORMAL: nothing is persisted and the license
// server address never answers.
func normalTierLicense() services.LicenseService {
	return services.NewLicenseService(database.DB, "http://127.0.0.1:1", &http.Client{Timeout: time.Second})
}

func setupHandlerTest(t *testing.T) (*TransactionHandler, *CustomerHandler) {
	t.Helper()
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { database.DB.Close() })

	ledger := services.NewLedgerService(database.DB)
	license := normalTierLicense()
	return NewTransactionHandler(ledger, license), NewCustomerHandler(ledger, license)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleCreateTransaction(t *testing.T) {
	txHandler, _ := setupHandlerTest(t)

	rec := postJSON(t, txHandler.HandleCreateTransaction, "/api/transactions", map[string]any{
		"side":        "sell",
		"symbol":      "GA",
		"qty":         2.0,
		"unit_price":  3050.0,
		"total_price": 6100.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Cash", created.PaymentType)

	balances, err := model.VaultBalances(database.DB)
	require.NoError(t, err)
	assert.Equal(t, 6100.0, balances["TRY"])
}

func TestHandleCreateTransactionErrorMapping(t *testing.T) {
	txHandler, _ := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	txHandler.HandleCreateTransaction(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, txHandler.HandleCreateTransaction, "/api/transactions", map[string]any{
		"side": "swap", "symbol": "GA", "qty": 1.0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, txHandler.HandleCreateTransaction, "/api/transactions", map[string]any{
		"side": "sell", "symbol": "GA", "qty": 1.0, "payment_type": "Debt", "customer_id": 999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListTransactionsFreeTierWindow(t *testing.T) {
	txHandler, _ := setupHandlerTest(t)

	insert := func(ts time.Time) {
		_, err := database.DB.Exec(`
			INSERT INTO transactions (side, symbol, qty, unit_price, total_price, payment_type, ts)
			VALUES ('sell', 'GA', 1, 3050, 3050, 'Cash', ?)`, ts)
		require.NoError(t, err)
	}
	insert(time.Now())
	insert(time.Now().AddDate(0, 0, -10))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()
	txHandler.HandleListTransactions(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var txs []models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	assert.Len(t, txs, 1)
}

func TestHandleCreateCustomerFreeTierCap(t *testing.T) {
	_, custHandler := setupHandlerTest(t)

	oldMax := config.Cfg.NormalTierMaxCustomers
	config.Cfg.NormalTierMaxCustomers = 1
	defer func() { config.Cfg.NormalTierMaxCustomers = oldMax }()

	rec := postJSON(t, custHandler.HandleCreateCustomer, "/api/customers", map[string]any{
		"full_name": "Ali Veli", "phone": "05551112233",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, custHandler.HandleCreateCustomer, "/api/customers", map[string]any{
		"full_name": "Ayşe Yılmaz", "phone": "05551112244",
	})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestHandleCreateCustomerValidation(t *testing.T) {
	_, custHandler := setupHandlerTest(t)

	rec := postJSON(t, custHandler.HandleCreateCustomer, "/api/customers", map[string]any{
		"full_name": "  ", "phone": "05551112233",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCustomerPayment(t *testing.T) {
	_, custHandler := setupHandlerTest(t)

	customer := &models.Customer{FullName: "Ali Veli", Phone: "05551112233"}
	require.NoError(t, model.CreateCustomer(database.DB, customer))
	_, err := database.DB.Exec(`UPDATE customers SET balance_try = 5000 WHERE id = ?`, customer.ID)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]any{"amount": 2000.0, "direction": "collect"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/customers/%d/payment", customer.ID), bytes.NewReader(body))
	req.SetPathValue("id", fmt.Sprint(customer.ID))
	rec := httptest.NewRecorder()
	custHandler.HandleCustomerPayment(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message    string  `json:"message"`
		NewBalance float64 `json:"new_balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3000.0, resp.NewBalance)
}

func TestRequirePremiumBlocksFreeTier(t *testing.T) {
	setupHandlerTest(t)

	premium := NewLicenseMiddleware(normalTierLicense())
	handler := premium.RequirePremium(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/reports/analytics", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	// Premium persisted in settings unlocks the same route.
	require.NoError(t, model.SetSetting(database.DB, "license_tier", "PREMIUM"))
	require.NoError(t, model.SetSetting(database.DB, "license_key", "PRO-TEST-1"))
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
