package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/config"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

type TransactionHandler struct {
	ledger  services.LedgerService
	license services.LicenseService
}

func NewTransactionHandler(ledger services.LedgerService, license services.LicenseService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, license: license}
}

// HandleCreateTransaction records one trade and settles it atomically.
func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Side        string  `json:"side"`
		Symbol      string  `json:"symbol"`
		Qty         float64 `json:"qty"`
		UnitPrice   float64 `json:"unit_price"`
		TotalPrice  float64 `json:"total_price"`
		PaymentType string  `json:"payment_type"`
		CustomerID  *int64  `json:"customer_id"`
		ProductID   *int64  `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx := &models.Transaction{
		Side:        payload.Side,
		Symbol:      payload.Symbol,
		Qty:         payload.Qty,
		UnitPrice:   payload.UnitPrice,
		TotalPrice:  payload.TotalPrice,
		PaymentType: payload.PaymentType,
		CustomerID:  payload.CustomerID,
		ProductID:   payload.ProductID,
	}

	if err := h.ledger.RecordTransaction(tx); err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSON(w, tx, http.StatusCreated)
}

// HandleListTransactions lists ledger entries newest first. The free tier
// only sees the recent history window.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if h.license.CurrentTier() == services.TierNormal {
		since = time.Now().AddDate(0, 0, -config.Cfg.NormalTierHistoryDays)
	}

	txs, err := h.ledger.ListTransactions(since)
	if err != nil {
		utils.SendJSONError(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	utils.SendJSON(w, txs, http.StatusOK)
}

// sendServiceError maps the service error taxonomy onto HTTP status codes.
func sendServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	default:
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}
