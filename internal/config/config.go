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

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Timesheet TimesheetConfig
	Cron      CronConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// JWTConfig holds the shared secret of the identity provider tokens
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	Version        string
	LogLevel       string
	AllowedOrigins []string
}

// StorageConfig holds local attachment storage settings
type StorageConfig struct {
	BasePath string
	BaseURL  string
}

// RedisConfig enables the mirror cache when Addr is set
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

type TimesheetConfig struct {
	DailyTargetMinutes int
	MinBreakMinutes    int
	Timezone           string
	MaxPeriodDays      int
	BatchConcurrency   int
}

type CronConfig struct {
	Enabled          bool
	SnapshotInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Info("No .env file found, using environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}
	maxConnLifetime, err := getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "ponto"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: maxConnLifetime,
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		Version:        getEnv("APP_VERSION", "v1.0.0"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{"http://localhost:3000"}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%d/uploads", appPort)),
	}

	// Redis configuration
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	redisTTL, err := getEnvDuration("REDIS_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		Prefix:   getEnv("REDIS_PREFIX", "ponto"),
		TTL:      redisTTL,
	}

	// Timesheet rules
	target, err := getEnvInt("TIMESHEET_DAILY_TARGET_MINUTES", 480)
	if err != nil {
		return nil, err
	}
	minBreak, err := getEnvInt("TIMESHEET_MIN_BREAK_MINUTES", 0)
	if err != nil {
		return nil, err
	}
	maxPeriod, err := getEnvInt("TIMESHEET_MAX_PERIOD_DAYS", 62)
	if err != nil {
		return nil, err
	}
	concurrency, err := getEnvInt("TIMESHEET_BATCH_CONCURRENCY", 8)
	if err != nil {
		return nil, err
	}

	config.Timesheet = TimesheetConfig{
		DailyTargetMinutes: target,
		MinBreakMinutes:    minBreak,
		Timezone:           getEnv("TIMESHEET_TIMEZONE", "America/Sao_Paulo"),
		MaxPeriodDays:      maxPeriod,
		BatchConcurrency:   concurrency,
	}

	// Scheduled jobs
	snapshotInterval, err := getEnvDuration("CRON_SNAPSHOT_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	config.Cron = CronConfig{
		Enabled:          getEnv("CRON_ENABLED", "true") == "true",
		SnapshotInterval: snapshotInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Timesheet.DailyTargetMinutes < 0 || c.Timesheet.DailyTargetMinutes > 24*60 {
		return fmt.Errorf("TIMESHEET_DAILY_TARGET_MINUTES must be between 0 and 1440")
	}
	if c.Timesheet.MinBreakMinutes < 0 {
		return fmt.Errorf("TIMESHEET_MIN_BREAK_MINUTES must not be negative")
	}
	if c.Timesheet.MaxPeriodDays < 1 {
		return fmt.Errorf("TIMESHEET_MAX_PERIOD_DAYS must be at least 1")
	}
	if c.Timesheet.BatchConcurrency < 1 {
		return fmt.Errorf("TIMESHEET_BATCH_CONCURRENCY must be at least 1")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMESHEET_TIMEZONE: %w", err)
	}
	if c.Cron.Enabled && c.Cron.SnapshotInterval <= 0 {
		return fmt.Errorf("CRON_SNAPSHOT_INTERVAL must be positive")
	}
	return nil
}

// Location returns the timezone dates are reconciled in
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timesheet.Timezone)
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

func getEnvInt(key string, fallback int) (int, error) {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
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
