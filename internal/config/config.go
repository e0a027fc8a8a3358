package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	Shopify        ShopifyConfig
	AllowedOrigins []string // ALLOWED_ORIGINS: comma-separated storefront origins; "*" allows any
}

type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-10")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "3000"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Shopify: ShopifyConfig{
			ShopDomain:  strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2024-10"),
		},
		AllowedOrigins: splitOrigins(getEnvOrViper("ALLOWED_ORIGINS", "*")),
	}

	// Validate required fields
	if cfg.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Shopify.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_ACCESS_TOKEN is required")
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
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
