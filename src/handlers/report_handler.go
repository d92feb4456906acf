package handlers

import (
	"net/http"

	"github.com/rojhatkeles/Kuyumcu-AI/src/config"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

type ReportHandler struct {
	reports services.ReportService
	email   services.EmailService
}

func NewReportHandler(reports services.ReportService, email services.EmailService) *ReportHandler {
	return &ReportHandler{reports: reports, email: email}
}

// HandleValuation returns the multi-currency net-worth snapshot.
func (h *ReportHandler) HandleValuation(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.reports.Valuation()
	if err != nil {
		utils.SendJSONError(w, "Failed to compute valuation", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, snapshot, http.StatusOK)
}

func (h *ReportHandler) HandleDailyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Daily()
	if err != nil {
		utils.SendJSONError(w, "Failed to compute daily report", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}

func (h *ReportHandler) HandlePnL(w http.ResponseWriter, r *http.Request) {
	total, err := h.reports.PnL()
	if err != nil {
		utils.SendJSONError(w, "Failed to compute profit", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]float64{"total_profit": total}, http.StatusOK)
}

func (h *ReportHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Analytics()
	if err != nil {
		utils.SendJSONError(w, "Failed to compute analytics", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}

// HandleSendDailySummary emails the owner today's figures.
func (h *ReportHandler) HandleSendDailySummary(w http.ResponseWriter, r *http.Request) {
	toEmail := config.Cfg.OwnerEmail
	if toEmail == "" {
		utils.SendJSONError(w, "Owner e-mail is not configured", http.StatusBadRequest)
		return
	}

	snapshot, err := h.reports.Valuation()
	if err != nil {
		utils.SendJSONError(w, "Failed to compute valuation", http.StatusInternalServerError)
		return
	}
	daily, err := h.reports.Daily()
	if err != nil {
		utils.SendJSONError(w, "Failed to compute daily report", http.StatusInternalServerError)
		return
	}

	if err := h.email.SendDailySummary(toEmail, snapshot, daily); err != nil {
		logger.L.Error("Failed to send daily summary", "error", err, "to", toEmail)
		utils.SendJSONError(w, "Failed to send daily summary", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]string{"message": "Günlük özet gönderildi"}, http.StatusOK)
}
