package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	LogSQL         string
	JWTSecret      string
	JWTExpiration  time.Duration
	ServerPort     string

	Location           *time.Location
	HourlyRateFallback float64

	SyncBaseURL string
	SyncTimeout time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads the configuration from the environment, after merging in a
// .env file from the working directory when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not read .env: %v", err)
	}

	return &Config{
		DatabaseDriver:     getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseURL:        getEnv("DATABASE_URL", "data/payroll.db"),
		LogSQL:             getEnv("LOG_SQL", "warn"),
		JWTSecret:          getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration:      getDuration("JWT_EXPIRATION", 24*time.Hour),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Location:           getLocation("TIMEZONE"),
		HourlyRateFallback: getFloat("HOURLY_RATE_FALLBACK", 15.0),
		SyncBaseURL:        getEnv("SYNC_BASE_URL", ""),
		SyncTimeout:        getDuration("SYNC_TIMEOUT", 15*time.Second),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
	}
}

func (c *Config) SyncEnabled() bool {
	return c.SyncBaseURL != ""
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid %s=%q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
		log.Printf("Invalid %s=%q, using %.2f", key, value, defaultValue)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid %s=%q, using %s", key, value, defaultValue)
	}
	return defaultValue
}

func getLocation(key string) *time.Location {
	name := os.Getenv(key)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Unknown %s=%q, using local time", key, name)
		return time.Local
	}
	return loc
}
