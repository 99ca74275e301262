package config

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// Feature flags read by the confirmation flow.
	AutoActivateNewUsers     bool
	EmailsEnable             bool
	ServerURL                string
	ConfirmationResetTimeout time.Duration // minimum interval between two resends

	AccountStore   string // "dynamo" | "memory"
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	EmailTemplateBucket string // optional S3 bucket overriding the embedded templates

	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	AllowedOrigins []string // CORS allowed origins
	RateLimitRPS   float64
	RateLimitBurst int
	TrustedProxies []netip.Prefix // peers allowed to set X-Forwarded-For / X-Real-Ip
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts   string
	Deliveries string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:                  getEnv("APP_PORT", "3000"),
		AppEnv:                   getEnv("APP_ENV", "development"),
		AutoActivateNewUsers:     getEnvBool("AUTO_ACTIVATE_NEW_USERS", false),
		EmailsEnable:             getEnvBool("EMAILS_ENABLE", false),
		ServerURL:                strings.TrimRight(getEnv("SERVER_URL", "http://localhost:3000"), "/"),
		ConfirmationResetTimeout: getEnvDuration("CONFIRMATION_RESET_TIMEOUT", 5*time.Minute),
		AccountStore:             getEnv("ACCOUNT_STORE", "dynamo"),
		AWSRegion:                getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:           getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:           getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:             getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Accounts:   getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			Deliveries: getEnv("DYNAMO_TABLE_DELIVERIES", "email_deliveries"),
		},
		EmailTemplateBucket: getEnv("EMAIL_TEMPLATE_BUCKET", ""),
		SMTPHost:            getEnv("SMTP_HOST", "localhost"),
		SMTPPort:            getEnvInt("SMTP_PORT", 1025),
		SMTPFrom:            getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:        getEnv("SMTP_USERNAME", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		AllowedOrigins:      strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		RateLimitRPS:        getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 10),
		TrustedProxies:      getEnvPrefixes("TRUSTED_PROXIES"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

// getEnvPrefixes parses a comma-separated list of CIDRs or bare IPs. Invalid entries are skipped.
func getEnvPrefixes(key string) []netip.Prefix {
	var out []netip.Prefix
	for _, v := range strings.Split(os.Getenv(key), ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if p, err := netip.ParsePrefix(v); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(v); err == nil {
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return out
}
