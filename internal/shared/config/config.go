package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr       = ":9000"
	defaultTokenTTL       = 24 * time.Hour
	defaultMigrationsPath = "file://internal/shared/db/migrations/sql"
	defaultArchiveBuffer  = 256
	defaultNATSPrefix     = "auction.events"
)

// DBConfig holds postgres connection settings, an empty Host disables persistence
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Config struct {
	AppEnv            string
	HTTPAddr          string
	JWTSecret         string
	TokenTTL          time.Duration
	DB                DBConfig
	MigrationsPath    string
	ArchiveBuffer     int
	NATSURL           string
	NATSSubjectPrefix string
}

// Load reads the .env file if it exists and then the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:            os.Getenv("APP_ENV"),
		HTTPAddr:          getEnv("HTTP_ADDR", defaultHTTPAddr),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
		NATSURL:           os.Getenv("NATS_URL"),
		NATSSubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", defaultNATSPrefix),
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}

	var err error
	cfg.TokenTTL, err = getDuration("TOKEN_TTL", defaultTokenTTL)
	if err != nil {
		return nil, err
	}
	cfg.ArchiveBuffer, err = getInt("ARCHIVE_BUFFER", defaultArchiveBuffer)
	if err != nil {
		return nil, err
	}
	if cfg.ArchiveBuffer <= 0 {
		return nil, fmt.Errorf("config: ARCHIVE_BUFFER must be positive, got %d", cfg.ArchiveBuffer)
	}
	return cfg, nil
}

func (c *Config) PersistenceEnabled() bool { return c.DB.Host != "" }

func (c *Config) NATSEnabled() bool { return c.NATSURL != "" }

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
