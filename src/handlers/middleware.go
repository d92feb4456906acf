package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rojhatkeles/Kuyumcu-AI/src/database"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

// AuthMiddleware validates the bearer token and its session, then stores the
// user ID on the request context.
func (h *UserHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.L.Debug("AuthMiddleware: Authorization header missing", "path", r.URL.Path)
			utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenString == "" {
			utils.SendJSONError(w, "Malformed token", http.StatusUnauthorized)
			return
		}

		userIDStr, err := h.authService.ValidateToken(tokenString)
		if err != nil {
			logger.L.Warn("AuthMiddleware: Token validation failed", "path", r.URL.Path, "error", err)
			utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		if _, err := model.GetSessionByToken(database.DB, tokenString); err != nil {
			logger.L.Warn("AuthMiddleware: Session validation failed", "path", r.URL.Path, "error", err)
			utils.SendJSONError(w, "Invalid or expired session", http.StatusUnauthorized)
			return
		}

		userIDInt, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			logger.L.Error("AuthMiddleware: Invalid user ID format in token", "userIDStr", userIDStr, "error", err)
			utils.SendJSONError(w, "Invalid user ID in token", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userIDInt)
		next(w, r.WithContext(ctx))
	}
}

// LicenseMiddleware gates premium endpoints. The tier is resolved from
// persisted settings once per request, never from process state.
type LicenseMiddleware struct {
	license services.LicenseService
}

func NewLicenseMiddleware(license services.LicenseService) *LicenseMiddleware {
	return &LicenseMiddleware{license: license}
}

func (m *LicenseMiddleware) RequirePremium(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.license.CurrentTier() != services.TierPremium {
			utils.SendJSONError(w, "Bu özellik sadece Kuyumcu Pro Premium üyeleri içindir.", http.StatusPaymentRequired)
			return
		}
		next(w, r)
	}
}
