package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

type MarginHandler struct {
	margins services.MarginService
}

func NewMarginHandler(margins services.MarginService) *MarginHandler {
	return &MarginHandler{margins: margins}
}

func (h *MarginHandler) HandleListMargins(w http.ResponseWriter, r *http.Request) {
	margins, err := h.margins.Margins()
	if err != nil {
		utils.SendJSONError(w, "Failed to load margins", http.StatusInternalServerError)
		return
	}
	if margins == nil {
		margins = []models.Margin{}
	}
	utils.SendJSON(w, margins, http.StatusOK)
}

func (h *MarginHandler) HandleUpdateMargin(w http.ResponseWriter, r *http.Request) {
	var payload models.Margin
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Symbol == "" {
		utils.SendJSONError(w, "Symbol is required", http.StatusBadRequest)
		return
	}
	if err := h.margins.UpdateMargin(payload); err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
