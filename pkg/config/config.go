package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	API       APIConfig
	Auth      AuthConfig
	Dashboard DashboardConfig
	DevServer DevServerConfig
	Log       LogConfig
}

// APIConfig points the console at its backend.
type APIConfig struct {
	BaseURL  string
	Prefix   string
	Timeout  time.Duration
	PageSize int
}

// AuthConfig carries the login identity used on startup.
type AuthConfig struct {
	Email    string
	Password string
}

// DashboardConfig governs the KPI poller.
type DashboardConfig struct {
	Enabled         bool
	RefreshInterval time.Duration
}

// DevServerConfig configures the bundled in-memory API.
type DevServerConfig struct {
	Port      int
	JWTSecret string
	TokenTTL  time.Duration
	SeedEmail string
	SeedPass  string
	AdminName string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL:  strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Prefix:   v.GetString("API_PREFIX"),
		Timeout:  parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
		PageSize: v.GetInt("API_PAGE_SIZE"),
	}

	cfg.Auth = AuthConfig{
		Email:    v.GetString("AUTH_EMAIL"),
		Password: v.GetString("AUTH_PASSWORD"),
	}

	cfg.Dashboard = DashboardConfig{
		Enabled:         v.GetBool("ENABLE_DASHBOARD"),
		RefreshInterval: parseDuration(v.GetString("DASHBOARD_REFRESH_INTERVAL"), time.Minute),
	}

	cfg.DevServer = DevServerConfig{
		Port:      v.GetInt("DEVSERVER_PORT"),
		JWTSecret: v.GetString("DEVSERVER_JWT_SECRET"),
		TokenTTL:  parseDuration(v.GetString("DEVSERVER_TOKEN_TTL"), 24*time.Hour),
		SeedEmail: v.GetString("DEVSERVER_SEED_EMAIL"),
		SeedPass:  v.GetString("DEVSERVER_SEED_PASSWORD"),
		AdminName: v.GetString("DEVSERVER_SEED_NAME"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("API_PAGE_SIZE", 20)

	v.SetDefault("AUTH_EMAIL", "")
	v.SetDefault("AUTH_PASSWORD", "")

	v.SetDefault("ENABLE_DASHBOARD", true)
	v.SetDefault("DASHBOARD_REFRESH_INTERVAL", "1m")

	v.SetDefault("DEVSERVER_PORT", 8080)
	v.SetDefault("DEVSERVER_JWT_SECRET", "dev_secret")
	v.SetDefault("DEVSERVER_TOKEN_TTL", "24h")
	v.SetDefault("DEVSERVER_SEED_EMAIL", "admin@sma.sch.id")
	v.SetDefault("DEVSERVER_SEED_PASSWORD", "admin123")
	v.SetDefault("DEVSERVER_SEED_NAME", "Administrator")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
