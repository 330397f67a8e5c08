package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// HTTP server configuration
	ListenAddr string

	// Database configuration
	DatabaseURL string

	// Auth configuration
	JWTSecret string

	// Identity provider (auth service) admin API
	IdentityProviderURL string
	IdentityServiceKey  string

	// Payment rail (optional; empty URL means not configured)
	PaymentRailURL         string
	PaymentRailDestination string

	// Ledger rules
	MaxWinAmount            decimal.Decimal // cap on computed winnings per prediction
	AnnualSubscriptionPrice decimal.Decimal
	BonusBetAmount          decimal.Decimal // periodic grant for annual subscribers
	BonusBetIntervalMonths  int
	GrowthCashWaitDays      int // annual-tier waiting period before growth cash withdrawal

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		IdentityProviderURL: strings.TrimRight(os.Getenv("IDENTITY_PROVIDER_URL"), "/"),
		IdentityServiceKey:  os.Getenv("IDENTITY_SERVICE_KEY"),

		PaymentRailURL:         strings.TrimRight(os.Getenv("PAYMENT_RAIL_URL"), "/"),
		PaymentRailDestination: os.Getenv("PAYMENT_RAIL_DESTINATION"),

		// Ledger rule defaults
		MaxWinAmount:            decimal.NewFromInt(1000),
		AnnualSubscriptionPrice: decimal.NewFromInt(150),
		BonusBetAmount:          decimal.NewFromInt(25),
		BonusBetIntervalMonths:  4,
		GrowthCashWaitDays:      90,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}
	if port := os.Getenv("PORT"); port != "" && !strings.HasPrefix(port, ":") {
		config.ListenAddr = ":" + port
	}

	// Override rule defaults if environment variables are set
	if maxWin := os.Getenv("MAX_WIN_AMOUNT"); maxWin != "" {
		if parsed, err := decimal.NewFromString(maxWin); err == nil {
			config.MaxWinAmount = parsed
		}
	}
	if price := os.Getenv("ANNUAL_SUBSCRIPTION_PRICE"); price != "" {
		if parsed, err := decimal.NewFromString(price); err == nil {
			config.AnnualSubscriptionPrice = parsed
		}
	}
	if wait := os.Getenv("GROWTH_CASH_WAIT_DAYS"); wait != "" {
		if parsed, err := strconv.Atoi(wait); err == nil {
			config.GrowthCashWaitDays = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
	}

	return config, nil
}

// PaymentRailConfigured reports whether a transfer rail is available.
// An unconfigured rail is a valid deployment; account closures then park
// in the pending-manual-withdrawal state.
func (c *Config) PaymentRailConfigured() bool {
	return c.PaymentRailURL != ""
}
