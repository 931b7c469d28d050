package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Oracle   OracleConfig
	Advisor  AdvisorConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

// OracleConfig points at the managed AI endpoints that generate
// recommendations and listing enrichment.
type OracleConfig struct {
	BaseURL           string
	BasicAuthUsername string
	BasicAuthPassword string
	Timeout           time.Duration
}

type AdvisorConfig struct {
	// FreshnessWindow bounds how long a generated insight batch stays
	// valid before the oracle is consulted again.
	FreshnessWindow time.Duration
	// SoldWindow is how far back completed sales feed the oracle.
	SoldWindow time.Duration
	// SessionTTL bounds the redis dismissal set to the session lifetime.
	SessionTTL time.Duration
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	oracleTimeout, err := time.ParseDuration(getEnv("ORACLE_TIMEOUT", "30s"))
	if err != nil {
		return nil, errors.New("invalid oracle timeout")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ResellPilot API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "resellpilot"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Oracle: OracleConfig{
			BaseURL:           getEnv("ORACLE_BASE_URL", ""),
			BasicAuthUsername: getEnv("ORACLE_BASIC_AUTH_USERNAME", ""),
			BasicAuthPassword: getEnv("ORACLE_BASIC_AUTH_PASSWORD", ""),
			Timeout:           oracleTimeout,
		},
		Advisor: AdvisorConfig{
			FreshnessWindow: 30 * time.Minute,
			SoldWindow:      60 * 24 * time.Hour,
			SessionTTL:      24 * time.Hour,
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Oracle.BaseURL == "" {
		return nil, errors.New("missing oracle base url")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
