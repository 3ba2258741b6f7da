package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	AWS       AWSConfig
	Payment   PaymentConfig
	Email     EmailConfig
	Sheets    SheetsConfig
	Offerings OfferingsConfig
	Admin     AdminConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
	AppEnv             string // development | staging | production
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds admin session token settings.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// AWSConfig holds AWS credentials and the gated-resources bucket.
type AWSConfig struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	ResourcesBucket      string
	PresignExpireMinutes int
}

// PaymentConfig holds gateway credentials and access-grant policy.
//
// CallbackSecret signs the confirm redirect (HMAC over the transaction id).
// DummyEnabled turns on the development-only bypass that reports success
// without contacting a gateway; it is ignored when AppEnv is production.
type PaymentConfig struct {
	GatewayBaseURL    string
	GatewayKeyID      string
	GatewayKeySecret  string
	CallbackSecret    string
	DummyEnabled      bool
	GrantTTLHours     int // how long issued access tokens stay valid
	GatewayRetries    int // retries on transient gateway errors
	GatewayTimeoutSec int
	WorkshopPriceINR  int
	CohortPriceINR    int
}

// EmailConfig for the transactional email HTTP API (ZeptoMail-compatible).
type EmailConfig struct {
	APIURL       string
	APIKey       string
	FromAddress  string
	FromName     string
	VerifyAPIURL string // deliverability check upstream; empty disables the probe
}

// SheetsConfig holds the spreadsheet-append webhook settings.
// Every accepted form submission is mirrored as one flat row.
type SheetsConfig struct {
	WebhookURL string
	Secret     string
}

// OfferingsConfig holds per-offering meeting links and upsell targets.
type OfferingsConfig struct {
	WorkshopMeetingURL string
	CohortMeetingURL   string
	WorkshopUpsellURL  string
	CohortUpsellURL    string
	BrochureObjectKey  string
}

// AdminConfig seeds the initial staff account when no admins exist.
type AdminConfig struct {
	Email    string
	Password string
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// IsProduction reports whether the server runs with production settings.
func (c ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// DummyPayAllowed reports whether the dummy-pay bypass may be used.
// Never true in production regardless of the flag.
func (c *Config) DummyPayAllowed() bool {
	return c.Payment.DummyEnabled && !c.Server.IsProduction()
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	jwtExpire, _ := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "24"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			AppEnv:             getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", "postgres://localhost:5432/academy?sslmode=disable"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "academy"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireHours: jwtExpire,
		},
		AWS: AWSConfig{
			Region:               getEnv("AWS_REGION", ""),
			AccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			ResourcesBucket:      getEnv("AWS_S3_RESOURCES_BUCKET", "academy-gated-resources"),
			PresignExpireMinutes: getEnvInt("AWS_PRESIGN_EXPIRE_MINUTES", 15),
		},
		Payment: PaymentConfig{
			GatewayBaseURL:    getEnv("PAYMENT_GATEWAY_BASE_URL", ""),
			GatewayKeyID:      getEnv("PAYMENT_GATEWAY_KEY_ID", ""),
			GatewayKeySecret:  getEnv("PAYMENT_GATEWAY_KEY_SECRET", ""),
			CallbackSecret:    getEnv("PAYMENT_CALLBACK_SECRET", "change-me-in-production"),
			DummyEnabled:      getEnv("PAYMENT_DUMMY_ENABLED", "true") == "true",
			GrantTTLHours:     getEnvInt("ACCESS_GRANT_TTL_HOURS", 48),
			GatewayRetries:    getEnvInt("PAYMENT_GATEWAY_RETRIES", 2),
			GatewayTimeoutSec: getEnvInt("PAYMENT_GATEWAY_TIMEOUT_SEC", 15),
			WorkshopPriceINR:  getEnvInt("WORKSHOP_PRICE_INR", 99),
			CohortPriceINR:    getEnvInt("COHORT_PRICE_INR", 4999),
		},
		Email: EmailConfig{
			APIURL:       getEnv("EMAIL_API_URL", ""),
			APIKey:       getEnv("EMAIL_API_KEY", ""),
			FromAddress:  getEnv("EMAIL_FROM_ADDRESS", "noreply@chiplogic.academy"),
			FromName:     getEnv("EMAIL_FROM_NAME", "ChipLogic Academy"),
			VerifyAPIURL: getEnv("EMAIL_VERIFY_API_URL", ""),
		},
		Sheets: SheetsConfig{
			WebhookURL: getEnv("SHEETS_WEBHOOK_URL", ""),
			Secret:     getEnv("SHEETS_WEBHOOK_SECRET", ""),
		},
		Offerings: OfferingsConfig{
			WorkshopMeetingURL: getEnv("WORKSHOP_MEETING_URL", ""),
			CohortMeetingURL:   getEnv("COHORT_MEETING_URL", ""),
			WorkshopUpsellURL:  getEnv("WORKSHOP_UPSELL_URL", "/cohort"),
			CohortUpsellURL:    getEnv("COHORT_UPSELL_URL", ""),
			BrochureObjectKey:  getEnv("BROCHURE_OBJECT_KEY", "brochures/vlsi-course-brochure.pdf"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
