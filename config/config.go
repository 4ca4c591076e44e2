// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultIdeaPriceCents is the fixed submission fee in minor units.
	DefaultIdeaPriceCents = 100

	defaultApprovalTemplate = "Congrats! This idea has been initially screened and we are looking into creating this."
	defaultRejectionPrefix  = "Thanks for submitting. We are not looking into this idea right now: "
)

// Stripe holds the payment processor credentials. An empty SecretKey means
// the gateway is unavailable, not misconfigured startup.
type Stripe struct {
	SecretKey     string
	WebhookSecret string
}

// Config is the full application configuration, loaded once from the
// environment and passed explicitly to the pieces that need it.
type Config struct {
	Port        string
	AppURL      string
	AppEnv      string
	CORSOrigins string

	JWTSecret string
	// AdminEmails is the fallback admin allow-list, lowercased. A trusted
	// role claim takes precedence over it.
	AdminEmails map[string]bool

	IdeaPriceCents   int64
	ApprovalTemplate string
	RejectionPrefix  string

	Stripe Stripe
}

// Load reads configuration from the environment. Only JWT_SECRET is hard
// required; payment credentials may be absent (checkout then fails with a
// gateway-unavailable error instead of at startup).
func Load() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set")
	}
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "3000"),
		AppURL:      getEnv("APP_URL", "http://localhost:3000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		JWTSecret:   jwtSecret,
		AdminEmails: parseAdminEmails(os.Getenv("ADMIN_EMAILS")),

		IdeaPriceCents:   getEnvInt64("IDEA_PRICE_CENTS", DefaultIdeaPriceCents),
		ApprovalTemplate: getEnv("APPROVAL_TEMPLATE", defaultApprovalTemplate),
		RejectionPrefix:  getEnv("REJECTION_PREFIX", defaultRejectionPrefix),

		Stripe: Stripe{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		},
	}

	if cfg.IdeaPriceCents <= 0 {
		return nil, fmt.Errorf("IDEA_PRICE_CENTS must be positive, got %d", cfg.IdeaPriceCents)
	}
	return cfg, nil
}

// IsAdminEmail checks the allow-list fallback.
func (c *Config) IsAdminEmail(email string) bool {
	return c.AdminEmails[strings.ToLower(strings.TrimSpace(email))]
}

func parseAdminEmails(raw string) map[string]bool {
	emails := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		email := strings.ToLower(strings.TrimSpace(part))
		if email != "" {
			emails[email] = true
		}
	}
	return emails
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultVal
	}
	return parsed
}
