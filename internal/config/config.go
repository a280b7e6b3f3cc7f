package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults. The inventory address is the only external endpoint the
// orchestrator knows about.
const (
	DefaultPort             = "8081"
	DefaultInventoryBaseURL = "http://localhost:8080"
	DefaultInventoryUserID  = 1
	DefaultNotificationTTL  = 8 * time.Second
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable; a .env file is honored for local development.
type Config struct {
	Env              string        // application environment ("development", "production")
	Port             string        // HTTP port the gateway listens on
	InventoryBaseURL string        // base address of the Inventory Service
	InventoryUserID  int64         // user id sent on hold requests
	NotificationTTL  time.Duration // how long booking success notifications stay visible

	// ClearSelectionAfterPayment settles sessions back to browsing after a
	// resolved payment instead of keeping the flight selected.
	ClearSelectionAfterPayment bool
}

// Load reads configuration from the environment, falling back to defaults
// for anything unset.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:                        getEnv("APP_ENV", "development"),
		Port:                       getEnv("APP_PORT", DefaultPort),
		InventoryBaseURL:           getEnv("INVENTORY_BASE_URL", DefaultInventoryBaseURL),
		InventoryUserID:            getEnvInt64("INVENTORY_USER_ID", DefaultInventoryUserID),
		NotificationTTL:            getEnvSeconds("NOTIFICATION_TTL_SECONDS", DefaultNotificationTTL),
		ClearSelectionAfterPayment: getEnvBool("CLEAR_SELECTION_AFTER_PAYMENT", false),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
