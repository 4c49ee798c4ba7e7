package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SimulationConfig struct {
	// Seed drives every random draw of a run. The same seed over the same
	// batch reproduces the same portfolio.
	Seed        uint64
	AsOf        time.Time
	Parallelism int
	BatchLimit  int
	// ParamsFile optionally overrides the built-in parameter catalog.
	ParamsFile string
}

type Config struct {
	DB            DatabaseConfig
	Kafka         KafkaConfig
	Sim           SimulationConfig
	LogLevel      string
	LogFormat     string
	MigrationsURL string
	ServiceName   string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

func Load() Config {
	return Config{
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "loansim"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "loansim"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "loansim-events"),
		},
		Sim: SimulationConfig{
			Seed:        getEnvUint64("SIM_SEED", 1),
			AsOf:        getEnvTime("SIM_AS_OF", time.Time{}),
			Parallelism: getEnvInt("SIM_PARALLELISM", 0),
			BatchLimit:  getEnvInt("SIM_BATCH_LIMIT", 10000),
			ParamsFile:  getEnv("SIM_PARAMS_FILE", ""),
		},
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		MigrationsURL: getEnv("MIGRATIONS_URL", "file://internal/infrastructure/postgres/migrations"),
		ServiceName:   "loansim",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvUint64(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			return u
		}
	}
	return fallback
}

func getEnvTime(key string, fallback time.Time) time.Time {
	if v := os.Getenv(key); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t.UTC()
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.UTC()
		}
	}
	return fallback
}
