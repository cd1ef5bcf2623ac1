package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries everything the composition root needs. Values come from the
// environment (optionally seeded from a .env file); every knob has a default
// except the registry token and database credentials.
type Config struct {
	AppEnv   string
	HTTPPort int

	Database DatabaseConfig
	Registry RegistryConfig
	Sync     SyncConfig

	// ServiceToken secret for the manual trigger endpoints (HS256).
	AuthSecret string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the lib/pq connection string shared by sqlx and GORM.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RegistryConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type SyncConfig struct {
	FacilityInterval    time.Duration
	ParticipantInterval time.Duration
	WindowDays          int
	// StaleRunThreshold decides when a lingering IN_PROGRESS ledger row no
	// longer blocks a new scheduled run.
	StaleRunThreshold time.Duration
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("HTTP_PORT", 8080)
	viper.SetDefault("PG_HOST", "localhost")
	viper.SetDefault("PG_PORT", 5432)
	viper.SetDefault("PG_SSLMODE", "disable")
	viper.SetDefault("REGISTRY_TIMEOUT", "10s")
	viper.SetDefault("FACILITY_SYNC_INTERVAL", "24h")
	viper.SetDefault("PARTICIPANT_SYNC_INTERVAL", "24h")
	viper.SetDefault("PARTICIPANT_SYNC_WINDOW_DAYS", 3)
	viper.SetDefault("SYNC_STALE_RUN_THRESHOLD", "1h")

	cfg := &Config{
		AppEnv:   viper.GetString("APP_ENV"),
		HTTPPort: viper.GetInt("HTTP_PORT"),
		Database: DatabaseConfig{
			Host:     viper.GetString("PG_HOST"),
			Port:     viper.GetInt("PG_PORT"),
			User:     viper.GetString("PG_USER"),
			Password: viper.GetString("PG_PASSWORD"),
			Name:     viper.GetString("PG_DB"),
			SSLMode:  viper.GetString("PG_SSLMODE"),
		},
		Registry: RegistryConfig{
			BaseURL: viper.GetString("REGISTRY_BASE_URL"),
			Token:   viper.GetString("REGISTRY_TOKEN"),
			Timeout: viper.GetDuration("REGISTRY_TIMEOUT"),
		},
		Sync: SyncConfig{
			FacilityInterval:    viper.GetDuration("FACILITY_SYNC_INTERVAL"),
			ParticipantInterval: viper.GetDuration("PARTICIPANT_SYNC_INTERVAL"),
			WindowDays:          viper.GetInt("PARTICIPANT_SYNC_WINDOW_DAYS"),
			StaleRunThreshold:   viper.GetDuration("SYNC_STALE_RUN_THRESHOLD"),
		},
		AuthSecret: viper.GetString("SERVICE_AUTH_SECRET"),
	}

	if cfg.Registry.BaseURL == "" {
		return nil, fmt.Errorf("REGISTRY_BASE_URL is required")
	}
	if cfg.Database.User == "" || cfg.Database.Name == "" {
		return nil, fmt.Errorf("PG_USER and PG_DB are required")
	}

	return cfg, nil
}
