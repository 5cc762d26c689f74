package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset outside release mode.
const DevJWTSecret = "dev-insecure-secret-change-me"

// Config holds all configuration for the application.
type Config struct {
	Port                             string        `mapstructure:"PORT"`
	GinMode                          string        `mapstructure:"GIN_MODE"`
	StoreBackend                     string        `mapstructure:"STORE_BACKEND"` // "file" or "firestore"
	DataDir                          string        `mapstructure:"DATA_DIR"`
	FirebaseProjectID                string        `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string        `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	JWTSecret                        string        `mapstructure:"JWT_SECRET"`
	JWTTTL                           time.Duration `mapstructure:"JWT_TTL"`
	BcryptCost                       int           `mapstructure:"BCRYPT_COST"`
	ClientURL                        string        `mapstructure:"CLIENT_URL"`
}

var keys = []string{
	"PORT",
	"GIN_MODE",
	"STORE_BACKEND",
	"DATA_DIR",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"JWT_SECRET",
	"JWT_TTL",
	"BCRYPT_COST",
	"CLIENT_URL",
}

// LoadConfig loads configuration from environment variables using Viper.
// If CONFIG_FILE names a file (yaml, json, toml...), its values sit beneath
// the environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	v.SetDefault("PORT", "5000")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("STORE_BACKEND", "file")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("JWT_TTL", "720h")
	v.SetDefault("BCRYPT_COST", 12)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.BindEnv("CONFIG_FILE"); err != nil {
		return nil, fmt.Errorf("failed to bind CONFIG_FILE: %w", err)
	}
	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and fills development fallbacks.
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case "", "file", "json":
		c.StoreBackend = "file"
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required for the file store backend")
		}
	case "firestore":
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore store backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of file, firestore (got %q)", c.StoreBackend)
	}

	if c.JWTSecret == "" {
		if c.IsRelease() {
			return errors.New("JWT_SECRET is required in release mode")
		}
		c.JWTSecret = DevJWTSecret
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be a positive duration")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31 (got %d)", c.BcryptCost)
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return strings.ToLower(c.GinMode) == "release"
}
