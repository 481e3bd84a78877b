package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config captures runtime configuration for both processes. The API server
// ignores the IMAP section; the importer validates it before connecting.
type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	IMAP      IMAPConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type HTTPConfig struct {
	Port          int
	ShutdownGrace int
}

type DatabaseConfig struct {
	URL            string
	AutoMigrate    bool
	MigrationsPath string
}

// IMAPConfig holds mailbox credentials for the email importer. Host, username
// and password carry no defaults: all three must be supplied together.
type IMAPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	TimeoutSeconds int
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	defaultHTTPPort       = 8080
	defaultShutdownGrace  = 15
	defaultMigrationsPath = "migrations"
	defaultAutoMigrate    = true
	defaultIMAPPort       = 993
	defaultIMAPTimeout    = 30
	defaultServiceName    = "grafline-tracking"
	defaultServiceVersion = "0.1.0"
	defaultEnvironment    = "development"
	defaultLogLevel       = "info"
	defaultOTelSampleRate = 1.0
)

// ErrIMAPConfigIncomplete marks missing mailbox credentials. Fatal for the
// importer: it aborts before any connection attempt.
var ErrIMAPConfigIncomplete = errors.New(
	"IMAP credentials are not fully configured: set IMAP_HOST, IMAP_USERNAME and IMAP_PASSWORD",
)

// Load reads configuration from environment variables, applying defaults when needed.
func Load() (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}

	dbCfg := loadDatabaseConfig()

	imapCfg, err := loadIMAPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading IMAP config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	serviceCfg := loadServiceConfig()

	return &Config{
		HTTP:      httpCfg,
		Database:  dbCfg,
		IMAP:      imapCfg,
		Telemetry: telCfg,
		Service:   serviceCfg,
	}, nil
}

// Validate reports whether the mailbox settings are complete enough to
// attempt a connection.
func (c IMAPConfig) Validate() error {
	if c.Host == "" || c.Username == "" || c.Password == "" {
		return ErrIMAPConfigIncomplete
	}
	return nil
}

// Addr returns the host:port dial address for the IMAP server.
func (c IMAPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadHTTPConfig() (HTTPConfig, error) {
	port := defaultHTTPPort
	if value, ok := os.LookupEnv("API_HTTP_PORT"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("invalid API_HTTP_PORT: %w", err)
		}
		port = parsed
	}

	shutdownGrace := defaultShutdownGrace
	if value, ok := os.LookupEnv("API_SHUTDOWN_GRACE_SECONDS"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("invalid API_SHUTDOWN_GRACE_SECONDS: %w", err)
		}
		shutdownGrace = parsed
	}

	return HTTPConfig{
		Port:          port,
		ShutdownGrace: shutdownGrace,
	}, nil
}

func loadDatabaseConfig() DatabaseConfig {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = buildDatabaseURL()
	}

	autoMigrate := defaultAutoMigrate
	if value, ok := os.LookupEnv("AUTO_MIGRATE"); ok {
		autoMigrate = value == "true"
	}

	migrationsPath := getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath)

	return DatabaseConfig{
		URL:            databaseURL,
		AutoMigrate:    autoMigrate,
		MigrationsPath: migrationsPath,
	}
}

func loadIMAPConfig() (IMAPConfig, error) {
	port := defaultIMAPPort
	if value, ok := os.LookupEnv("IMAP_PORT"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return IMAPConfig{}, fmt.Errorf("invalid IMAP_PORT: %w", err)
		}
		port = parsed
	}

	timeout := defaultIMAPTimeout
	if value, ok := os.LookupEnv("IMAP_TIMEOUT_SECONDS"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return IMAPConfig{}, fmt.Errorf("invalid IMAP_TIMEOUT_SECONDS: %w", err)
		}
		timeout = parsed
	}

	return IMAPConfig{
		Host:           os.Getenv("IMAP_HOST"),
		Port:           port,
		Username:       os.Getenv("IMAP_USERNAME"),
		Password:       os.Getenv("IMAP_PASSWORD"),
		TimeoutSeconds: timeout,
	}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", defaultLogLevel)
	otelEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	enableTracing := getBoolEnv("OTEL_ENABLE_TRACING", true)
	enableMetrics := getBoolEnv("OTEL_ENABLE_METRICS", true)

	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      logLevel,
		OTelEndpoint:  otelEndpoint,
		EnableTracing: enableTracing,
		EnableMetrics: enableMetrics,
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func buildDatabaseURL() string {
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", "grafline")
	sslMode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbName, sslMode,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}
