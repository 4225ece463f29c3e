// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Application
	AppEnv          string        `mapstructure:"APP_ENV"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseWebAPIKey             string `mapstructure:"FIREBASE_WEB_API_KEY"`

	// Identity Toolkit endpoints. Overridable for tests and emulators.
	IdentityToolkitBaseURL string        `mapstructure:"IDENTITY_TOOLKIT_BASE_URL"`
	SecureTokenBaseURL     string        `mapstructure:"SECURE_TOKEN_BASE_URL"`
	ProviderTimeout        time.Duration `mapstructure:"PROVIDER_TIMEOUT_SECONDS"`

	// Document store
	UsersCollection string `mapstructure:"USERS_COLLECTION"`

	// Session handling
	SessionFilePath           string        `mapstructure:"SESSION_FILE_PATH"`
	SplashDuration            time.Duration `mapstructure:"SPLASH_DURATION_MS"`
	SessionRefreshJobSchedule string        `mapstructure:"SESSION_REFRESH_JOB_SCHEDULE"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("FIREBASE_PROJECT_ID", "") // Optional
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")
	v.SetDefault("FIREBASE_WEB_API_KEY", "")

	v.SetDefault("IDENTITY_TOOLKIT_BASE_URL", "https://identitytoolkit.googleapis.com/v1")
	v.SetDefault("SECURE_TOKEN_BASE_URL", "https://securetoken.googleapis.com/v1")
	v.SetDefault("PROVIDER_TIMEOUT_SECONDS", 15)

	v.SetDefault("USERS_COLLECTION", "users")

	v.SetDefault("SESSION_FILE_PATH", "")
	// Matches the splash animation sequence length: 800ms fade + 500ms logo +
	// 400ms tagline + 1000ms hold.
	v.SetDefault("SPLASH_DURATION_MS", 2700)
	v.SetDefault("SESSION_REFRESH_JOB_SCHEDULE", "@every 45m")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ShutdownTimeout = time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second
	cfg.ProviderTimeout = time.Duration(v.GetInt("PROVIDER_TIMEOUT_SECONDS")) * time.Second
	cfg.SplashDuration = time.Duration(v.GetInt("SPLASH_DURATION_MS")) * time.Millisecond

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.FirebaseServiceAccountKeyPath) == "" {
		return nil, fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(cfg.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", cfg.FirebaseServiceAccountKeyPath)
	}
	if strings.TrimSpace(cfg.FirebaseWebAPIKey) == "" {
		return nil, fmt.Errorf("FATAL: FIREBASE_WEB_API_KEY is not set. This is required for Identity Toolkit credential operations")
	}

	return &cfg, nil
}
