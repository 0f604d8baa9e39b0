package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Env string
}

type DatabaseConfig struct {
	Path string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	PrometheusPort string
}

type BusinessConfig struct {
	OrderListLimit int
	SeedDemoData   bool
}

func Load() *Config {
	_ = godotenv.Load()

	listLimit, _ := strconv.Atoi(getEnv("ORDER_LIST_LIMIT", "50"))
	metricsEnabled, _ := strconv.ParseBool(getEnv("METRICS_ENABLED", "false"))
	seedDemo, _ := strconv.ParseBool(getEnv("SEED_DEMO_DATA", "true"))

	cfg := &Config{
		Server: ServerConfig{
			Env: getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "orders.db"),
		},
		Observ: ObservabilityConfig{
			MetricsEnabled: metricsEnabled,
			PrometheusPort: getEnv("PROMETHEUS_PORT", "9090"),
		},
		Business: BusinessConfig{
			OrderListLimit: listLimit,
			SeedDemoData:   seedDemo,
		},
	}

	log.Printf("Config loaded: env=%s, db=%s", cfg.Server.Env, cfg.Database.Path)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
