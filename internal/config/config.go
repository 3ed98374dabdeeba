package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Table source
	SourceBackend string // memory | webapp | sheets
	WebAppURL     string
	SeedDataDir   string

	// Google Sheets (direct source)
	GoogleSpreadsheetID         string
	GoogleReferralsSheetName    string
	GoogleTransactionsSheetName string

	// AMQP (optional refresh notifications)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Refresh worker
	RefreshInterval time.Duration
	RefreshUserID   string

	// Response cache
	CacheTTL  time.Duration
	CacheSize int
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		SourceBackend: getEnv("SOURCE_BACKEND", "memory"),
		WebAppURL:     getEnv("WEBAPP_URL", ""),
		SeedDataDir:   getEnv("SEED_DATA_DIR", "./data"),

		GoogleSpreadsheetID:         getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleReferralsSheetName:    getEnv("GOOGLE_REFERRALS_SHEET_NAME", "Referrals"),
		GoogleTransactionsSheetName: getEnv("GOOGLE_TRANSACTIONS_SHEET_NAME", "BonusTransactions"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "refboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "dataset_refreshed"),

		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
		RefreshUserID:   getEnv("REFRESH_USER_ID", ""),

		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize: getEnvInt("CACHE_SIZE", 100),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate source backend
	validBackends := []string{"memory", "webapp", "sheets"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.SourceBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid source backend '%s': must be one of %v", c.SourceBackend, validBackends))
	}

	// Validate web app URL if backend is webapp
	if c.SourceBackend == "webapp" {
		if c.WebAppURL == "" {
			errors = append(errors, "WEBAPP_URL is required when using webapp backend")
		} else if parsedURL, err := url.Parse(c.WebAppURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid WEBAPP_URL '%s': %v", c.WebAppURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid WEBAPP_URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.SourceBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleReferralsSheetName == "" {
			errors = append(errors, "Google referrals sheet name is required when using sheets backend")
		}
		if c.GoogleTransactionsSheetName == "" {
			errors = append(errors, "Google transactions sheet name is required when using sheets backend")
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate refresh worker configuration
	if c.RefreshInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 1 second", c.RefreshInterval))
	} else if c.RefreshInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 24 hours", c.RefreshInterval))
	}

	// Validate cache configuration
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
