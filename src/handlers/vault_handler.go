package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rojhatkeles/Kuyumcu-AI/src/database"
	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

type VaultHandler struct {
	ledger services.LedgerService
}

func NewVaultHandler(ledger services.LedgerService) *VaultHandler {
	return &VaultHandler{ledger: ledger}
}

// HandleListVault returns the shop's raw balances per symbol.
func (h *VaultHandler) HandleListVault(w http.ResponseWriter, r *http.Request) {
	balances, err := model.ListVault(database.DB)
	if err != nil {
		utils.SendJSONError(w, "Failed to list vault", http.StatusInternalServerError)
		return
	}
	if balances == nil {
		balances = []models.Vault{}
	}
	utils.SendJSON(w, balances, http.StatusOK)
}

// HandleUpdateVault applies an opening-stock or recount correction. The
// amount is a signed delta; the change lands in the ledger as an "initial"
// entry.
func (h *VaultHandler) HandleUpdateVault(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Symbol string  `json:"symbol"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	newBalance, err := h.ledger.AdjustVault(payload.Symbol, payload.Amount)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSON(w, map[string]interface{}{
		"status":      "ok",
		"new_balance": newBalance,
	}, http.StatusOK)
}
