package config

import (
	"fmt"
	"time"
)

// Account store kinds for the stand-in server
const (
	AccountStoreMemory   = "memory"
	AccountStorePostgres = "postgres"
)

// ServerConfig holds configuration for the stand-in login site
type ServerConfig struct {
	Port string
	// GlitchDelay is how long performance_glitch_user waits after login
	GlitchDelay  time.Duration
	AccountStore string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) (ServerConfig, error) {
	config := ServerConfig{
		Port:         getenv("PORT"),
		AccountStore: getenv("ACCOUNT_STORE"),
	}
	if config.Port == "" {
		config.Port = "8080" // Default to port 8080
	}
	if config.AccountStore == "" {
		config.AccountStore = AccountStoreMemory
	}
	if config.AccountStore != AccountStoreMemory && config.AccountStore != AccountStorePostgres {
		return config, fmt.Errorf("ACCOUNT_STORE must be %s or %s", AccountStoreMemory, AccountStorePostgres)
	}

	delay, err := durationEnv(getenv, "GLITCH_DELAY", 5*time.Second)
	if err != nil {
		return config, err
	}
	if delay < 0 {
		return config, fmt.Errorf("GLITCH_DELAY must not be negative")
	}
	config.GlitchDelay = delay

	return config, nil
}
