package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	CORSAllowedOrigins []string
	RedisURL           string
	LoginRateLimit     string

	// External OAuth Providers
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// PDF rendering
	ChromeRemoteURL  string
	PDFRenderTimeout time.Duration
	CurrencyLabel    string

	// Invoice numbering
	InvoiceNumberTemplate string
	InvoiceNumberPad      int
	InvoiceNumberPerOwner bool

	// Bootstrap administrator, created at startup when absent.
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "720h")
	viper.SetDefault("JWT_ISSUER", "invoice-management-app")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("CHROME_REMOTE_URL", "")
	viper.SetDefault("PDF_RENDER_TIMEOUT", "30s")
	viper.SetDefault("CURRENCY_LABEL", "Fcfa")
	viper.SetDefault("INVOICE_NUMBER_TEMPLATE", "FAC-{year}-{num}")
	viper.SetDefault("INVOICE_NUMBER_PAD", 4)
	viper.SetDefault("INVOICE_NUMBER_PER_OWNER", false)
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("ADMIN_NAME", "Administrator")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", 720*time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set. Google sign-in will not function.")
	}

	cfg.ChromeRemoteURL = viper.GetString("CHROME_REMOTE_URL")
	cfg.PDFRenderTimeout = durationOrDefault("PDF_RENDER_TIMEOUT", 30*time.Second)
	cfg.CurrencyLabel = viper.GetString("CURRENCY_LABEL")

	cfg.InvoiceNumberTemplate = viper.GetString("INVOICE_NUMBER_TEMPLATE")
	cfg.InvoiceNumberPad = viper.GetInt("INVOICE_NUMBER_PAD")
	cfg.InvoiceNumberPerOwner = viper.GetBool("INVOICE_NUMBER_PER_OWNER")
	// Owners share the invoice_number unique index, so per-owner counters
	// need the owner in the rendered number.
	if cfg.InvoiceNumberPerOwner && !strings.Contains(cfg.InvoiceNumberTemplate, "{userId}") {
		return nil, fmt.Errorf("INVOICE_NUMBER_PER_OWNER requires {userId} in INVOICE_NUMBER_TEMPLATE (got %q)", cfg.InvoiceNumberTemplate)
	}

	cfg.AdminEmail = viper.GetString("ADMIN_EMAIL")
	cfg.AdminPassword = viper.GetString("ADMIN_PASSWORD")
	cfg.AdminName = viper.GetString("ADMIN_NAME")

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
