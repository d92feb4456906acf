package services

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
)

// Settings keys for the persisted entitlement state.
const (
	settingLicenseTier = "license_tier"
	settingLicenseKey  = "license_key"
)

// Offline rule: keys issued by the license server carry this prefix, so
// activation can still be honored when the server is unreachable.
const offlineKeyPrefix = "PRO-"

type licenseServiceImpl struct {
	db         *sql.DB
	httpClient *http.Client
	serverURL  string
}

// NewLicenseService creates the entitlement resolver. The tier is read from
// persisted settings on every call; there is no process-wide tier flag.
func NewLicenseService(db *sql.DB, serverURL string, httpClient *http.Client) LicenseService {
	return &licenseServiceImpl{
		db:         db,
		httpClient: httpClient,
		serverURL:  strings.TrimSuffix(serverURL, "/"),
	}
}

// CurrentTier resolves the tier for one request. A stored PREMIUM tier is
// honored as long as a key is on file; Activate already vetted the key (key
// shape only matters at offline activation time). A PREMIUM tier without any
// key is inconsistent state and degrades to NORMAL, persisted as such.
func (s *licenseServiceImpl) CurrentTier() string {
	tier, err := model.GetSetting(s.db, settingLicenseTier)
	if err != nil {
		logger.L.Error("Failed to read license tier, defaulting to NORMAL", "error", err)
		return TierNormal
	}
	if tier != TierPremium {
		return TierNormal
	}

	key, err := model.GetSetting(s.db, settingLicenseKey)
	if err != nil {
		logger.L.Error("Failed to read license key, defaulting to NORMAL", "error", err)
		return TierNormal
	}
	if key == "" {
		if err := model.SetSetting(s.db, settingLicenseTier, TierNormal); err != nil {
			logger.L.Error("Failed to persist tier downgrade", "error", err)
		}
		return TierNormal
	}
	return TierPremium
}

// Activate verifies the key with the license server and persists PREMIUM on
// success. When the server cannot be reached at all, the offline prefix rule
// decides instead; a reachable server rejecting the key is final.
func (s *licenseServiceImpl) Activate(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: missing license key", ErrValidation)
	}

	verifyURL := fmt.Sprintf("%s/api/license/verify?key=%s", s.serverURL, url.QueryEscape(key))
	resp, err := s.httpClient.Get(verifyURL)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			if err := s.persistPremium(key); err != nil {
				return "", err
			}
			return "Lisans doğrulandı! Premium aktif.", nil
		}
		return "", fmt.Errorf("%w: geçersiz veya süresi dolmuş lisans anahtarı", ErrValidation)
	}

	logger.L.Warn("License server unreachable, applying offline rule", "error", err)
	if strings.HasPrefix(key, offlineKeyPrefix) {
		if err := s.persistPremium(key); err != nil {
			return "", err
		}
		return "Offline doğrulama başarılı! Premium aktif.", nil
	}
	return "", fmt.Errorf("lisans sunucusuna bağlanılamadı: %w", err)
}

func (s *licenseServiceImpl) persistPremium(key string) error {
	if err := model.SetSetting(s.db, settingLicenseTier, TierPremium); err != nil {
		return fmt.Errorf("error persisting license tier: %w", err)
	}
	if err := model.SetSetting(s.db, settingLicenseKey, key); err != nil {
		return fmt.Errorf("error persisting license key: %w", err)
	}
	return nil
}
