package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	JWTSecret    string
	Port         string
	DatabasePath string
	LogLevel     string

	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Price feed (TCMB daily rates XML) settings. The feed is best effort:
	// on any failure the fixed fallback table is used instead.
	PriceFeedURL     string
	PriceFeedTimeout time.Duration
	PriceCacheTTL    time.Duration
	GoldOunceUSD     float64

	// License server used by activation; offline key rules apply when it is
	// unreachable.
	LicenseServerURL     string
	LicenseServerTimeout time.Duration

	// Free-tier limits.
	NormalTierMaxCustomers int
	NormalTierMaxUsers     int
	NormalTierHistoryDays  int

	EmailServiceProvider string

	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	MailgunDomain        string
	MailgunPrivateAPIKey string

	SenderEmail string
	SenderName  string
	OwnerEmail  string
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	jwtSecret := getEnv("JWT_SECRET", "kuyumcu-pro-insecure-development-jwt-secret-min-32-bytes")
	if jwtSecret == "kuyumcu-pro-insecure-development-jwt-secret-min-32-bytes" {
		log.Println("WARNING: Using default insecure JWT_SECRET. Set JWT_SECRET environment variable for production.")
	}

	goldOunceStr := getEnv("GOLD_OUNCE_USD", "2750.0")
	goldOunce, err := strconv.ParseFloat(goldOunceStr, 64)
	if err != nil || goldOunce <= 0 {
		log.Printf("WARNING: Invalid GOLD_OUNCE_USD '%s'. Using default 2750.0. Error: %v", goldOunceStr, err)
		goldOunce = 2750.0
	}

	Cfg = &AppConfig{
		JWTSecret:    jwtSecret,
		Port:         getEnv("PORT", "8000"),
		DatabasePath: getEnv("DATABASE_PATH", "./kuyumcu.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		AccessTokenExpiry:  getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 60*time.Minute),
		RefreshTokenExpiry: getEnvAsDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),

		PriceFeedURL:     getEnv("PRICE_FEED_URL", "https://www.tcmb.gov.tr/kurlar/today.xml"),
		PriceFeedTimeout: getEnvAsDuration("PRICE_FEED_TIMEOUT", 10*time.Second),
		PriceCacheTTL:    getEnvAsDuration("PRICE_CACHE_TTL", time.Minute),
		GoldOunceUSD:     goldOunce,

		LicenseServerURL:     getEnv("LICENSE_SERVER_URL", "http://127.0.0.1:8080"),
		LicenseServerTimeout: getEnvAsDuration("LICENSE_SERVER_TIMEOUT", 2*time.Second),

		NormalTierMaxCustomers: getEnvAsInt("NORMAL_TIER_MAX_CUSTOMERS", 20),
		NormalTierMaxUsers:     getEnvAsInt("NORMAL_TIER_MAX_USERS", 1),
		NormalTierHistoryDays:  getEnvAsInt("NORMAL_TIER_HISTORY_DAYS", 7),

		EmailServiceProvider: getEnv("EMAIL_SERVICE_PROVIDER", "mock"),

		SMTPServer:   getEnv("SMTP_SERVER", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		MailgunDomain:        getEnv("MAILGUN_DOMAIN", ""),
		MailgunPrivateAPIKey: getEnv("MAILGUN_PRIVATE_API_KEY", ""),

		SenderEmail: getEnv("SENDER_EMAIL", "noreply@example.com"),
		SenderName:  getEnv("SENDER_NAME", "Kuyumcu Pro"),
		OwnerEmail:  getEnv("OWNER_EMAIL", ""),
	}

	if Cfg.EmailServiceProvider == "mailgun" {
		if Cfg.MailgunDomain == "" {
			log.Fatalf("FATAL: MAILGUN_DOMAIN is required when EMAIL_SERVICE_PROVIDER is 'mailgun', but it's not set in environment or .env file.")
		}
		if Cfg.MailgunPrivateAPIKey == "" {
			log.Fatalf("FATAL: MAILGUN_PRIVATE_API_KEY is required when EMAIL_SERVICE_PROVIDER is 'mailgun', but it's not set in environment or .env file.")
		}
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, PriceFeed=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.PriceFeedURL)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
