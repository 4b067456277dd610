package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App    AppConfig
	DB     DBConfig
	Auth   AuthConfig
	Logger LoggerConfig
	SMTP   SMTPConfig
}

type AppConfig struct {
	Name string
	Env  string
	Host string
	Port string
}

type DBConfig struct {
	// DSN is either a postgres:// URL or a sqlite file path for local dev.
	DSN string
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type LoggerConfig struct {
	Level string
}

// SMTPConfig configures outbound email. An empty Host disables delivery;
// the mailer then only logs what it would have sent.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads configuration from environment variables, applying defaults
// where possible. A .env file is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	ttlHours := getEnvAsInt("JWT_TTL_HOURS", 24)

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "expertdesk"),
			Env:  getEnv("APP_ENV", "development"),
			Host: getEnv("APP_HOST", "0.0.0.0"),
			Port: getEnv("APP_PORT", "8080"),
		},
		DB: DBConfig{
			DSN: dsn,
		},
		Auth: AuthConfig{
			JWTSecret:  secret,
			TokenTTL:   time.Duration(ttlHours) * time.Hour,
			BcryptCost: getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("EMAIL_FROM", "noreply@expertdesk.local"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
