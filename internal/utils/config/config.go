package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vaultpay/chainwatch/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Postgres    DBConnection
	Blockchain  BlockchainConfig
	Reconcile   ReconcileConfig
}

type ApiServerConfig struct {
	AllowedOrigins string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

// ReconcileConfig bounds one reconciliation invocation and sets the cron
// cadence between invocations.
type ReconcileConfig struct {
	BatchLimit int
	Interval   string
	Timeout    string
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// will not override env variables that already exist
	godotenv.Load(".env." + env)

	return &AppConfig{
		Environment: environments.Environment(env),
		ApiServer: ApiServerConfig{
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: os.Getenv("DB_SSL_MODE"),
		},
		Blockchain: newBlockchainConfig(),
		Reconcile: ReconcileConfig{
			BatchLimit: envVarAtoiDefault("RECONCILE_BATCH_LIMIT", 25),
			Interval:   envVarDefault("RECONCILE_INTERVAL", "2m"),
			Timeout:    envVarDefault("RECONCILE_TIMEOUT", "90s"),
		},
	}
}

func envVarDefault(envName, fallback string) string {
	value := os.Getenv(envName)
	if value == "" {
		return fallback
	}

	return value
}

func envVarAtoiDefault(envName string, fallback int) int {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}

	return value
}
