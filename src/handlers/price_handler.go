package handlers

import (
	"net/http"

	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

type PriceHandler struct {
	prices  services.PriceService
	margins services.MarginService
}

func NewPriceHandler(prices services.PriceService, margins services.MarginService) *PriceHandler {
	return &PriceHandler{prices: prices, margins: margins}
}

// HandleGetPrices returns the raw quote table (live or fallback).
func (h *PriceHandler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, h.prices.GetQuotes(), http.StatusOK)
}

// HandleGetSmartPrices returns margin-adjusted shop-facing prices. The read
// is idempotent, so an ETag lets clients skip unchanged tables.
func (h *PriceHandler) HandleGetSmartPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.margins.SmartPrices()
	if err != nil {
		utils.SendJSONError(w, "Failed to compute smart prices", http.StatusInternalServerError)
		return
	}

	if etag, err := utils.GenerateETag(prices); err == nil {
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	utils.SendJSON(w, prices, http.StatusOK)
}

// HandleGetSuggestions returns the advisory margin-drift analysis.
func (h *PriceHandler) HandleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.margins.Suggestions()
	if err != nil {
		utils.SendJSONError(w, "Failed to compute suggestions", http.StatusInternalServerError)
		return
	}
	if suggestions == nil {
		suggestions = []models.MarginSuggestion{}
	}
	utils.SendJSON(w, suggestions, http.StatusOK)
}
