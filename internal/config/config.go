package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	Port         string
	DBConn       string
	LogLevel     string
	JWTSecret    string
	DataDir      string
	SOFRFeedURL  string
	CronSpec     string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	OpsEmail     string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBConn:       getEnv("DB_CONN", "host=localhost port=5432 user=loans password=loans dbname=loans sslmode=disable"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		DataDir:      getEnv("DATA_DIR", "data"),
		SOFRFeedURL:  getEnv("SOFR_FEED_URL", "https://markets.example.com/feeds/term-sofr.xml"),
		CronSpec:     getEnv("RECONCILE_CRON", "0 6 * * *"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "25"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "loans@example.com"),
		OpsEmail:     getEnv("OPS_EMAIL", "servicing@example.com"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
