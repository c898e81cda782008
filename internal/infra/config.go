package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	AppBaseURL  string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	EmailFrom     string
	EmailFromName string

	BillingAPIKey        string
	BillingBaseURL       string
	BillingWebhookSecret string
	BillingPriceStandard string
	BillingPricePro      string

	GeoIPDBPath    string
	DefaultLocale  string
	AllowedOrigins []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

const minJWTSecretLength = 32

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:3000"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  time.Minute * time.Duration(getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 15)),
		RefreshTokenTTL: time.Hour * time.Duration(getEnvInt("REFRESH_TOKEN_TTL_HOURS", 24*7)),

		SMTPHost:      getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "CloudVault"),

		BillingAPIKey:        os.Getenv("BILLING_API_KEY"),
		BillingBaseURL:       getEnv("BILLING_BASE_URL", "https://api.stripe.com/v1"),
		BillingWebhookSecret: os.Getenv("BILLING_WEBHOOK_SECRET"),
		BillingPriceStandard: os.Getenv("BILLING_PRICE_ID_STANDARD"),
		BillingPricePro:      os.Getenv("BILLING_PRICE_ID_PRO"),

		GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", getEnv("APP_BASE_URL", "http://localhost:3000"))),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < minJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production hardening enabled.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
