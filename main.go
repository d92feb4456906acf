package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rojhatkeles/Kuyumcu-AI/src/config"
	"github.com/rojhatkeles/Kuyumcu-AI/src/database"
	"github.com/rojhatkeles/Kuyumcu-AI/src/handlers"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/security"
	"github.com/rojhatkeles/Kuyumcu-AI/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
			"http://localhost:5173": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Kuyumcu backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	priceService := services.NewPriceService()
	ledgerService := services.NewLedgerService(database.DB)
	marginService := services.NewMarginService(database.DB, priceService)
	reportService := services.NewReportService(database.DB, priceService)
	licenseService := services.NewLicenseService(database.DB, config.Cfg.LicenseServerURL, &http.Client{Timeout: config.Cfg.LicenseServerTimeout})
	emailService := services.NewEmailService()

	userHandler := handlers.NewUserHandler(authService, licenseService)
	txHandler := handlers.NewTransactionHandler(ledgerService, licenseService)
	customerHandler := handlers.NewCustomerHandler(ledgerService, licenseService)
	productHandler := handlers.NewProductHandler()
	vaultHandler := handlers.NewVaultHandler(ledgerService)
	priceHandler := handlers.NewPriceHandler(priceService, marginService)
	marginHandler := handlers.NewMarginHandler(marginService)
	reportHandler := handlers.NewReportHandler(reportService, emailService)
	systemHandler := handlers.NewSystemHandler(licenseService)
	premium := handlers.NewLicenseMiddleware(licenseService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	// Public routes
	apiRouter.HandleFunc("POST /api/auth/login", userHandler.LoginUserHandler)
	apiRouter.HandleFunc("POST /api/auth/register", userHandler.RegisterUserHandler)
	apiRouter.HandleFunc("POST /api/auth/logout", userHandler.AuthMiddleware(userHandler.LogoutUserHandler))
	apiRouter.HandleFunc("GET /api/prices", priceHandler.HandleGetPrices)
	apiRouter.HandleFunc("GET /api/system/tier", systemHandler.HandleGetTier)
	apiRouter.HandleFunc("POST /api/system/activate", systemHandler.HandleActivate)

	// Protected routes
	auth := userHandler.AuthMiddleware
	apiRouter.HandleFunc("GET /api/prices/smart", auth(priceHandler.HandleGetSmartPrices))
	apiRouter.HandleFunc("GET /api/ai/suggestions", auth(premium.RequirePremium(priceHandler.HandleGetSuggestions)))
	apiRouter.HandleFunc("GET /api/settings/margins", auth(marginHandler.HandleListMargins))
	apiRouter.HandleFunc("POST /api/settings/margins", auth(marginHandler.HandleUpdateMargin))

	apiRouter.HandleFunc("POST /api/transactions", auth(txHandler.HandleCreateTransaction))
	apiRouter.HandleFunc("GET /api/transactions", auth(txHandler.HandleListTransactions))

	apiRouter.HandleFunc("GET /api/customers", auth(customerHandler.HandleListCustomers))
	apiRouter.HandleFunc("POST /api/customers", auth(customerHandler.HandleCreateCustomer))
	apiRouter.HandleFunc("POST /api/customers/{id}/payment", auth(customerHandler.HandleCustomerPayment))

	apiRouter.HandleFunc("GET /api/products", auth(productHandler.HandleListProducts))
	apiRouter.HandleFunc("POST /api/products", auth(productHandler.HandleCreateProduct))

	apiRouter.HandleFunc("GET /api/vault", auth(vaultHandler.HandleListVault))
	apiRouter.HandleFunc("POST /api/vault/update", auth(vaultHandler.HandleUpdateVault))

	apiRouter.HandleFunc("GET /api/reports/kasa", auth(reportHandler.HandleValuation))
	apiRouter.HandleFunc("GET /api/reports/daily", auth(reportHandler.HandleDailyReport))
	apiRouter.HandleFunc("GET /api/reports/pnl", auth(premium.RequirePremium(reportHandler.HandlePnL)))
	apiRouter.HandleFunc("GET /api/reports/analytics", auth(premium.RequirePremium(reportHandler.HandleAnalytics)))
	apiRouter.HandleFunc("POST /api/reports/daily-email", auth(premium.RequirePremium(reportHandler.HandleSendDailySummary)))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Kuyumcu backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
