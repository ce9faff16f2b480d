package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Platform    PlatformConfig
	CardGateway CardGatewayConfig
	PayFast     WalletGatewayConfig
	EasyPay     WalletGatewayConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	Admin       AdminConfig
}

// PlatformConfig is used to call the platform API that owns products,
// orders, users and payments.
type PlatformConfig struct {
	BaseURL    string // e.g. http://platform:4000; required
	ServiceKey string // PLATFORM_SERVICE_KEY: storefront-to-platform credential
}

// CardGatewayConfig holds the card processor credentials. The
// publishable key is served to browsing clients for tokenization; the
// secret key never leaves the server.
type CardGatewayConfig struct {
	SecretKey      string
	PublishableKey string
	BaseURL        string // override for tests; empty means the processor default
}

// WalletGatewayConfig holds one mobile-wallet gateway's settings.
type WalletGatewayConfig struct {
	MerchantID  string
	Secret      string // shared secret used to sign/verify gateway exchanges
	InitiateURL string
	CallbackURL string // public URL the gateway redirects the shopper back to
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AdminConfig struct {
	ServiceKeyHash string // bcrypt hash of the back-office automation key
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Platform: PlatformConfig{
			BaseURL:    strings.TrimSpace(getEnvOrViper("PLATFORM_BASE_URL", "")),
			ServiceKey: strings.TrimSpace(getEnvOrViper("PLATFORM_SERVICE_KEY", "")),
		},
		CardGateway: CardGatewayConfig{
			SecretKey:      strings.TrimSpace(getEnvOrViper("CARD_SECRET_KEY", "")),
			PublishableKey: strings.TrimSpace(getEnvOrViper("CARD_PUBLISHABLE_KEY", "")),
			BaseURL:        strings.TrimSpace(getEnvOrViper("CARD_BASE_URL", "")),
		},
		PayFast: WalletGatewayConfig{
			MerchantID:  strings.TrimSpace(getEnvOrViper("PAYFAST_MERCHANT_ID", "")),
			Secret:      strings.TrimSpace(getEnvOrViper("PAYFAST_SECRET", "")),
			InitiateURL: strings.TrimSpace(getEnvOrViper("PAYFAST_INITIATE_URL", "")),
			CallbackURL: strings.TrimSpace(getEnvOrViper("PAYFAST_CALLBACK_URL", "")),
		},
		EasyPay: WalletGatewayConfig{
			MerchantID:  strings.TrimSpace(getEnvOrViper("EASYPAY_MERCHANT_ID", "")),
			Secret:      strings.TrimSpace(getEnvOrViper("EASYPAY_SECRET", "")),
			InitiateURL: strings.TrimSpace(getEnvOrViper("EASYPAY_INITIATE_URL", "")),
			CallbackURL: strings.TrimSpace(getEnvOrViper("EASYPAY_CALLBACK_URL", "")),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Admin: AdminConfig{
			ServiceKeyHash: strings.TrimSpace(getEnvOrViper("ADMIN_SERVICE_KEY_HASH", "")),
		},
	}

	// Validate required fields
	if cfg.Platform.BaseURL == "" {
		return nil, fmt.Errorf("PLATFORM_BASE_URL is required")
	}
	if cfg.CardGateway.SecretKey == "" {
		return nil, fmt.Errorf("CARD_SECRET_KEY is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
