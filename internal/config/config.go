package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// JWTSecret signs session tokens. When empty the token service fails
	// closed and no login can complete.
	JWTSecret string

	// WebhookURL — if set, new tickets and user replies are announced on the
	// support chat channel (POST of a Discord-style embed payload).
	WebhookURL string
	// WebpageURL is the public base URL used in webhook links back to the
	// admin panel.
	WebpageURL string

	// AuthRPS caps per-IP requests to POST /api/auth.
	AuthRPS float64

	SMTP struct {
		Host     string
		Port     string
		User     string
		Password string
		From     string
	}

	Kafka struct {
		Brokers     string
		TicketTopic string
	}

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:    getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:   firstEnv("APP_PORT", "HTTP_PORT", "8090"),
		AppEnv:     getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		WebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		WebpageURL: getEnv("WEBPAGE_URL", "http://localhost:3000"),
		AuthRPS:    getEnvFloat("AUTH_RATE_LIMIT_RPS", 1),
	}
	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	cfg.SMTP.Port = getEnv("SMTP_PORT", "587")
	cfg.SMTP.User = getEnv("SMTP_USER", "")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")
	cfg.SMTP.From = getEnv("SMTP_FROM", "Support Panel <noreply@supportpanel.test>")
	cfg.Kafka.Brokers = getEnv("KAFKA_BROKERS", "")
	cfg.Kafka.TicketTopic = getEnv("KAFKA_TICKET_TOPIC", "")
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "support")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("config: DB_HOST and DB_DATABASE are required")
	}
	if c.JWTSecret == "" && c.AppEnv == "production" {
		return errors.New("config: in production JWT_SECRET is required")
	}
	if c.AppEnv == "production" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
