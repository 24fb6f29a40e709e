// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for the
// storage file and schema version, logging, admin provisioning, metrics, and
// observability. Values may also come from .env files (see LoadDotenv).
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CurrentSchemaVersion is the schema version the store is built for.
const CurrentSchemaVersion = 4

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "hospital-store")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// AdminSeed holds credentials for an admin account created on open when
// it does not exist yet. Both fields empty disables seeding.
type AdminSeed struct {
	Username string
	Password string
}

// Enabled reports whether an admin should be seeded.
func (a AdminSeed) Enabled() bool { return a.Username != "" }

// Config holds all configuration values for the application.
type Config struct {
	// Storage
	DBPath        string        // SQLite file path
	SchemaVersion int           // target PRAGMA user_version
	BusyTimeout   time.Duration // SQLite busy_timeout
	SlowQuery     time.Duration // slow statement log threshold (0 disables)

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // console logs in dev

	// Admin provisioning
	Admin AdminSeed

	// Sorting of department names
	CollationLocale string // BCP 47 tag, e.g. "tr"

	// Metrics
	MetricsNamespace string

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadDotenv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped; unreadable or malformed files are errors. With no
// paths it tries ".env".
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Storage
		DBPath:        getenv("DB_PATH", "hospital.db"),
		SchemaVersion: getint("SCHEMA_VERSION", CurrentSchemaVersion),
		BusyTimeout:   getdur("DB_BUSY_TIMEOUT", 5*time.Second),
		SlowQuery:     getdur("DB_SLOW_QUERY", 200*time.Millisecond),

		// Logging
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// Admin provisioning
		Admin: AdminSeed{
			Username: strings.TrimSpace(getenv("ADMIN_SEED_USERNAME", "")),
			Password: getenv("ADMIN_SEED_PASSWORD", ""),
		},

		CollationLocale:  getenv("COLLATION_LOCALE", "tr"),
		MetricsNamespace: getenv("METRICS_NAMESPACE", "hospital"),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "hospital-store"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.SchemaVersion < 1 {
		return cfg, errors.New("SCHEMA_VERSION must be >= 1")
	}
	if cfg.BusyTimeout < 0 {
		return cfg, errors.New("DB_BUSY_TIMEOUT must be >= 0")
	}
	if cfg.SlowQuery < 0 {
		return cfg, errors.New("DB_SLOW_QUERY must be >= 0")
	}
	if (cfg.Admin.Username == "") != (cfg.Admin.Password == "") {
		return cfg, errors.New("ADMIN_SEED_USERNAME and ADMIN_SEED_PASSWORD must be set together")
	}
	if strings.TrimSpace(cfg.MetricsNamespace) == "" {
		return cfg, errors.New("METRICS_NAMESPACE must not be empty")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
