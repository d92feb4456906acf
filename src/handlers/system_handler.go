package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

type SystemHandler struct {
	license services.LicenseService
}

func NewSystemHandler(license services.LicenseService) *SystemHandler {
	return &SystemHandler{license: license}
}

func (h *SystemHandler) HandleGetTier(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]string{"tier": h.license.CurrentTier()}, http.StatusOK)
}

func (h *SystemHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Key == "" {
		utils.SendJSONError(w, "Key is required", http.StatusBadRequest)
		return
	}

	message, err := h.license.Activate(payload.Key)
	if err != nil {
		sendServiceError(w, err)
		return
	}
	utils.SendJSON(w, map[string]string{"message": message, "tier": services.TierPremium}, http.StatusOK)
}
