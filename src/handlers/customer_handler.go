package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rojhatkeles/Kuyumcu-AI/src/config"
	"github.com/rojhatkeles/Kuyumcu-AI/src/database"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

type CustomerHandler struct {
	ledger  services.LedgerService
	license services.LicenseService
}

func NewCustomerHandler(ledger services.LedgerService, license services.LicenseService) *CustomerHandler {
	return &CustomerHandler{ledger: ledger, license: license}
}

func (h *CustomerHandler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := model.ListCustomers(database.DB)
	if err != nil {
		utils.SendJSONError(w, "Failed to list customers", http.StatusInternalServerError)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	utils.SendJSON(w, customers, http.StatusOK)
}

// HandleCreateCustomer opens a new running account. The free tier caps the
// number of accounts.
func (h *CustomerHandler) HandleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Address  string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.FullName) == "" || strings.TrimSpace(payload.Phone) == "" {
		utils.SendJSONError(w, "full_name and phone are required", http.StatusBadRequest)
		return
	}

	if h.license.CurrentTier() == services.TierNormal {
		count, err := model.CountCustomers(database.DB)
		if err != nil {
			utils.SendJSONError(w, "Failed to check customer count", http.StatusInternalServerError)
			return
		}
		if count >= config.Cfg.NormalTierMaxCustomers {
			utils.SendJSONError(w,
				"Cari Limitiniz Doldu (20/20). Sınırsız müşteri kaydı için Kuyumcu Pro Premium'a geçin.",
				http.StatusPaymentRequired)
			return
		}
	}

	customer := &models.Customer{
		FullName: payload.FullName,
		Phone:    payload.Phone,
		Email:    payload.Email,
		Address:  payload.Address,
	}
	if err := model.CreateCustomer(database.DB, customer); err != nil {
		logger.L.Error("Failed to create customer", "phone", payload.Phone, "error", err)
		utils.SendJSONError(w, "Failed to create customer", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, customer, http.StatusCreated)
}

// HandleCustomerPayment applies a manual collect/disburse cash movement
// against the customer's running balance.
func (h *CustomerHandler) HandleCustomerPayment(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid customer id", http.StatusBadRequest)
		return
	}

	var payload struct {
		Amount    float64 `json:"amount"`
		Direction string  `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	newBalance, err := h.ledger.SettleCustomer(customerID, payload.Amount, payload.Direction)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSON(w, map[string]interface{}{
		"message":     "İşlem başarılı",
		"new_balance": newBalance,
	}, http.StatusOK)
}
