package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the registry service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	SQLitePath      string
	RedisURL        string
	NATSServerURL   string
	AuditSubject    string
	AdminCode       string
	SummaryCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("REGISTRO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Registro API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("sqlite.path", "data/app.db")
	v.SetDefault("audit.subject", "registro.audit")
	v.SetDefault("summary.cache_ttl", "5m")

	ttlString := v.GetString("summary.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		SQLitePath:      v.GetString("sqlite.path"),
		RedisURL:        v.GetString("redis.url"),
		NATSServerURL:   v.GetString("nats.url"),
		AuditSubject:    v.GetString("audit.subject"),
		AdminCode:       v.GetString("admin.code"),
		SummaryCacheTTL: ttl,
	}

	if cfg.AdminCode == "" {
		return Config{}, fmt.Errorf("admin code must be provided")
	}

	return cfg, nil
}
