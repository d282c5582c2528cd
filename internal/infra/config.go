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
	AppEnv        string
	Port          string
	DatabaseURL   string
	JWTSecret     string
	PublicBaseURL string

	GoogleClientID     string
	GoogleClientSecret string
	GithubClientID     string
	GithubClientSecret string

	// Platform-level gateway credentials, used when a creator has not
	// configured their own pair.
	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	MinAmount       int64
	Currency        string
	GeoIPDBPath     string
	AllowedOrigins  []string
	RateLimitPerMin int

	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	LedgerWriteTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GithubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GithubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),

		MinAmount:       int64(getEnvInt("MIN_AMOUNT", 100)),
		Currency:        getEnv("CURRENCY", "PKR"),
		GeoIPDBPath:     os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins:  splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),

		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		LedgerWriteTimeout: time.Second * time.Duration(getEnvInt("LEDGER_WRITE_TIMEOUT_SECONDS", 5)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.MinAmount <= 0 {
		return nil, fmt.Errorf("MIN_AMOUNT must be positive")
	}

	// One half of a credential pair is as good as none.
	if (cfg.RazorpayKeyID == "") != (cfg.RazorpayKeySecret == "") {
		return nil, fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set together")
	}

	return cfg, nil
}

// PlatformGatewayConfigured reports whether fallback gateway credentials exist.
func (c *Config) PlatformGatewayConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}
