package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer = "iptv-reseller-app"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	MigrationsPath    string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Single administrator account; the password is stored as a bcrypt hash.
	AdminUsername     string
	AdminPasswordHash string
	LoginRateLimit    string // ulule/limiter format, e.g. "5-M"

	// Ledger policies
	SaleReverseOnDelete bool
	LedgerStrictPoints  bool

	DefaultPageLimit int
	MaxPageLimit     int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "12h")
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("SALE_REVERSE_ON_DELETE", false)
	v.SetDefault("LEDGER_STRICT_POINTS", true)
	v.SetDefault("DEFAULT_PAGE_LIMIT", 20)
	v.SetDefault("MAX_PAGE_LIMIT", 100)

	v.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = v.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// e.g. "60m", "12h"
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = v.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.AdminUsername = v.GetString("ADMIN_USERNAME")
	cfg.AdminPasswordHash = v.GetString("ADMIN_PASSWORD_HASH")
	if cfg.AdminPasswordHash == "" {
		log.Println("Warning: ADMIN_PASSWORD_HASH not set. Login will reject every attempt.")
	}

	cfg.LoginRateLimit = v.GetString("LOGIN_RATE_LIMIT")
	if cfg.LoginRateLimit == "" {
		cfg.LoginRateLimit = "5-M"
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")
	cfg.SaleReverseOnDelete = v.GetBool("SALE_REVERSE_ON_DELETE")
	cfg.LedgerStrictPoints = v.GetBool("LEDGER_STRICT_POINTS")

	cfg.DefaultPageLimit = v.GetInt("DEFAULT_PAGE_LIMIT")
	if cfg.DefaultPageLimit <= 0 {
		cfg.DefaultPageLimit = 20
	}
	cfg.MaxPageLimit = v.GetInt("MAX_PAGE_LIMIT")
	if cfg.MaxPageLimit < cfg.DefaultPageLimit {
		log.Printf("Warning: MAX_PAGE_LIMIT (%d) below DEFAULT_PAGE_LIMIT. Using %d.\n", cfg.MaxPageLimit, cfg.DefaultPageLimit)
		cfg.MaxPageLimit = cfg.DefaultPageLimit
	}

	return cfg, nil
}
