package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Ledger     LedgerConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	// RosterFile seeds employees when Driver is memory.
	RosterFile string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type LedgerConfig struct {
	TimeZone        string
	LockTimeout     time.Duration
	HolidaysFile    string
	AccrualInterval time.Duration
}

type AttendanceConfig struct {
	FullDay time.Duration
	HalfDay time.Duration
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris-ledger"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RosterFile: getEnv("EMPLOYEES_FILE", ""),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Ledger configuration
	lockTimeout, err := getEnvDuration("LEDGER_LOCK_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}
	accrualInterval, err := getEnvDuration("ACCRUAL_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	config.Ledger = LedgerConfig{
		TimeZone:        getEnv("LEDGER_TIMEZONE", "UTC"),
		LockTimeout:     lockTimeout,
		HolidaysFile:    getEnv("HOLIDAYS_FILE", ""),
		AccrualInterval: accrualInterval,
	}

	// Attendance thresholds
	fullDay, err := getEnvDuration("ATTENDANCE_FULL_DAY", 8*time.Hour)
	if err != nil {
		return nil, err
	}
	halfDay, err := getEnvDuration("ATTENDANCE_HALF_DAY", 4*time.Hour)
	if err != nil {
		return nil, err
	}

	config.Attendance = AttendanceConfig{
		FullDay: fullDay,
		HalfDay: halfDay,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid LEDGER_TIMEZONE: %w", err)
	}
	if c.Ledger.LockTimeout <= 0 {
		return fmt.Errorf("LEDGER_LOCK_TIMEOUT must be positive")
	}
	if c.Ledger.AccrualInterval <= 0 {
		return fmt.Errorf("ACCRUAL_INTERVAL must be positive")
	}
	if c.Attendance.HalfDay <= 0 || c.Attendance.FullDay < c.Attendance.HalfDay {
		return fmt.Errorf("ATTENDANCE_HALF_DAY must be positive and not exceed ATTENDANCE_FULL_DAY")
	}
	return nil
}

// Location resolves the ledger time zone used to assign events to days.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Ledger.TimeZone)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
