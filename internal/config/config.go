package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	FrontendURL  string
	SupportEmail string

	// Checkout
	FreeShippingThreshold decimal.Decimal
	ShippingFlatFee       decimal.Decimal

	// Wallet redirect (Easypaisa)
	WalletPaymentBaseURL string
	WalletQRCodeBaseURL  string
	WalletCallbackToken  string

	Bank BankAccount

	// Admin
	JWTSecret         string
	AdminEmail        string
	AdminPasswordHash string

	SMTP SMTPConfig

	GeminiAPIKey string
	GeminiModel  string

	NotifierPollInterval time.Duration
	NotifierBatchSize    int
	NotifierMaxAttempts  int
}

type BankAccount struct {
	AccountTitle  string `json:"accountTitle"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	IBAN          string `json:"iban"`
	Branch        string `json:"branch"`
	SwiftCode     string `json:"swiftCode"`
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		AppPort:    getEnv("APP_PORT", "5000"),
		AppEnv:     getEnv("APP_ENV", "development"),

		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		SupportEmail: getEnv("SUPPORT_EMAIL", "support@himalayanshilajit.com"),

		FreeShippingThreshold: getDecimal("SHIPPING_FREE_THRESHOLD", "50"),
		ShippingFlatFee:       getDecimal("SHIPPING_FLAT_FEE", "9.99"),

		WalletPaymentBaseURL: getEnv("EASYPAISA_PAYMENT_URL", "https://easypaisa.com.pk/payment"),
		WalletQRCodeBaseURL:  getEnv("EASYPAISA_QR_URL", "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="),
		WalletCallbackToken:  os.Getenv("EASYPAISA_CALLBACK_TOKEN"),

		Bank: BankAccount{
			AccountTitle:  getEnv("BANK_ACCOUNT_TITLE", "Himalayan Shilajit"),
			AccountNumber: getEnv("BANK_ACCOUNT_NUMBER", "1234567890123"),
			BankName:      getEnv("BANK_NAME", "Bank Name"),
			IBAN:          getEnv("BANK_IBAN", "PK00XXXX0000000000000000"),
			Branch:        getEnv("BANK_BRANCH", "Main Branch"),
			SwiftCode:     getEnv("BANK_SWIFT", "SWIFTCODE"),
		},

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnv("SMTP_FROM", "noreply@himalayanshilajit.com"),
		},

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),

		NotifierPollInterval: getDuration("NOTIFIER_POLL_INTERVAL", 10*time.Second),
		NotifierBatchSize:    getInt("NOTIFIER_BATCH_SIZE", 20),
		NotifierMaxAttempts:  getInt("NOTIFIER_MAX_ATTEMPTS", 5),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.IsProduction() && cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getDecimal(key, fallback string) decimal.Decimal {
	v := getEnv(key, fallback)
	d, err := decimal.NewFromString(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return decimal.RequireFromString(fallback)
	}
	return d
}
