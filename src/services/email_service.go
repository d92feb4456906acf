package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/rojhatkeles/Kuyumcu-AI/src/config"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
)

// NewEmailService picks the provider from config. Incomplete provider
// configuration falls back to the mock rather than failing startup; the
// summary email is a convenience, not a dependency.
func NewEmailService() EmailService {
	if config.Cfg == nil {
		slog.Error("Configuration (config.Cfg) is nil. Email service will default to mock.")
		return &MockEmailService{}
	}

	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		if config.Cfg.MailgunDomain == "" || config.Cfg.MailgunPrivateAPIKey == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SenderEmail missing). Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", config.Cfg.MailgunDomain)
		return &MailgunEmailService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
		}
	case "smtp":
		if config.Cfg.SMTPServer == "" || config.Cfg.SMTPUser == "" || config.Cfg.SMTPPassword == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("SMTP configuration incomplete. Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		return &SMTPEmailService{
			SMTPServer:   config.Cfg.SMTPServer,
			SMTPPort:     config.Cfg.SMTPPort,
			SMTPUser:     config.Cfg.SMTPUser,
			SMTPPassword: config.Cfg.SMTPPassword,
			SenderEmail:  config.Cfg.SenderEmail,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

// summaryBody renders the owner's end-of-day text: the day's profit and the
// shop's total valuation per currency.
func summaryBody(snapshot *models.ValuationSnapshot, daily *models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Günlük Özet — %s\n\n", time.Now().Format("02.01.2006"))
	fmt.Fprintf(&b, "Bugünkü kâr: %.2f TL (%d işlem)\n\n", daily.Profit, len(daily.Transactions))
	b.WriteString("Kasa Değerlemesi:\n")
	for _, cur := range []string{"TRY", "USD", "EUR", "GA"} {
		fmt.Fprintf(&b, "  %s: %.2f\n", cur, snapshot.Valuation[cur])
	}
	fmt.Fprintf(&b, "\nToplam has altın: %.3f gr\n", snapshot.TotalGoldHas)
	return b.String()
}

type MailgunEmailService struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
}

func (s *MailgunEmailService) SendDailySummary(toEmail string, snapshot *models.ValuationSnapshot, daily *models.DailyReport) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	subject := fmt.Sprintf("Kuyumcu Pro Günlük Özet — %s", time.Now().Format("02.01.2006"))

	message := s.mg.NewMessage(from, subject, summaryBody(snapshot, daily), toEmail)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()
	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send daily summary via Mailgun", "error", err, "to", toEmail, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Daily summary sent successfully via Mailgun", "to", toEmail, "id", id)
	return nil
}

type SMTPEmailService struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

func (s *SMTPEmailService) SendDailySummary(toEmail string, snapshot *models.ValuationSnapshot, daily *models.DailyReport) error {
	from := s.SenderEmail
	to := []string{toEmail}
	subject := fmt.Sprintf("Kuyumcu Pro Günlük Özet — %s", time.Now().Format("02.01.2006"))

	header := make(map[string]string)
	header["From"] = from
	header["To"] = toEmail
	header["Subject"] = subject
	header["MIME-version"] = "1.0"
	header["Content-Type"] = "text/plain; charset=\"UTF-8\""
	message := ""
	for k, v := range header {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + summaryBody(snapshot, daily)

	auth := smtp.PlainAuth("", s.SMTPUser, s.SMTPPassword, s.SMTPServer)
	addr := fmt.Sprintf("%s:%d", s.SMTPServer, s.SMTPPort)
	if err := smtp.SendMail(addr, auth, from, to, []byte(message)); err != nil {
		logger.L.Error("Failed to send daily summary via SMTP", "error", err, "to", toEmail)
		return fmt.Errorf("failed to send daily summary via SMTP: %w", err)
	}
	logger.L.Info("Daily summary sent successfully via SMTP", "to", toEmail)
	return nil
}

type MockEmailService struct{}

func (s *MockEmailService) SendDailySummary(toEmail string, snapshot *models.ValuationSnapshot, daily *models.DailyReport) error {
	logger.L.Info("MOCK EMAIL: daily summary",
		"to", toEmail, "profit", daily.Profit, "totalTRY", snapshot.Valuation["TRY"])
	return nil
}
