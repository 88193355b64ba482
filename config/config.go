// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret (required in production).
	JWTSecret string
	// AdminUsers may manage the handicap adjustment table.
	AdminUsers []string

	// Server
	Debug          bool
	Port           string
	TLSDomains     []string
	CORSOrigins    []string
	MetricsEnabled bool

	// Signin attempts allowed per second per client IP, and the burst on top.
	SigninRate  float64
	SigninBurst int

	// MySQL – legacy golf database, used only by cmd/migrate.
	MySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "golf")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "golf")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":5000")
	v.SetDefault("TLS_DOMAINS", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("ADMIN_USERS", "admin")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("SIGNIN_RATE", 1.0)
	v.SetDefault("SIGNIN_BURST", 5)
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBUser:         v.GetString("DB_USER"),
		DBPass:         v.GetString("DB_PASS"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBName:         v.GetString("DB_NAME"),
		DBSSLMode:      v.GetString("DB_SSLMODE"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		AdminUsers:     splitTrimmed(v.GetString("ADMIN_USERS")),
		Debug:          v.GetBool("DEBUG"),
		Port:           v.GetString("PORT"),
		TLSDomains:     splitTrimmed(v.GetString("TLS_DOMAINS")),
		CORSOrigins:    splitTrimmed(v.GetString("CORS_ORIGINS")),
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		SigninRate:     v.GetFloat64("SIGNIN_RATE"),
		SigninBurst:    v.GetInt("SIGNIN_BURST"),
		MySQLDSN:       v.GetString("MYSQL_DSN"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// IsAdmin reports whether username is listed in ADMIN_USERS (case-insensitive).
func (c *Config) IsAdmin(username string) bool {
	normalized := strings.ToLower(strings.TrimSpace(username))
	for _, admin := range c.AdminUsers {
		if normalized == strings.ToLower(admin) {
			return true
		}
	}
	return false
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if !c.Debug && len(c.TLSDomains) == 0 {
		log.Fatal("config: TLS_DOMAINS must be set outside debug mode")
	}
	if c.SigninRate <= 0 || c.SigninBurst < 1 {
		log.Fatal("config: SIGNIN_RATE must be positive and SIGNIN_BURST at least 1")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
