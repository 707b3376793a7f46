package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"

	"bibliotech/internal/infrastructure/database"
)

// Remote backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config is the whole application configuration, read from the environment.
type Config struct {
	App      AppConfig
	Log      LogConfig
	Remote   RemoteConfig
	Database *database.DBConfig
	Redis    RedisConfig
	Notify   NotifyConfig
	MinIO    MinIOConfig
	Snapshot SnapshotConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	// Locale is the BCP 47 tag used to collate sorted text columns.
	Locale string
}

type LogConfig struct {
	Level string
}

type RemoteConfig struct {
	Backend string // postgres or memory
	// AutoMigrate applies the embedded schema on startup.
	AutoMigrate bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
	DB       int
	Channel  string
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SnapshotConfig drives the worker that uploads workbook snapshots of both
// lists. Snapshots need Redis for the task queue and MinIO for storage.
type SnapshotConfig struct {
	Enabled bool
	Cron    string // asynq cron spec, UTC
	Prefix  string // object key prefix
	Keep    int    // newest snapshots kept; 0 keeps all
}

type NotifyConfig struct {
	// History is how many notifications the API keeps for GET /notifications.
	History int
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	db, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "BiblioTech"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Locale:      getEnv("APP_LOCALE", "en"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Remote: RemoteConfig{
			Backend:     strings.ToLower(getEnv("REMOTE_BACKEND", BackendPostgres)),
			AutoMigrate: getEnvBool("REMOTE_AUTO_MIGRATE", true),
		},
		Database: db,
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Channel:  getEnv("REDIS_CHANNEL", "bibliotech:notifications"),
		},
		Notify: NotifyConfig{
			History: getEnvInt("NOTIFY_HISTORY", 50),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "bibliotech"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Snapshot: SnapshotConfig{
			Enabled: getEnvBool("SNAPSHOT_ENABLED", false),
			Cron:    getEnv("SNAPSHOT_CRON", "0 3 * * *"),
			Prefix:  getEnv("SNAPSHOT_PREFIX", "snapshots/"),
			Keep:    getEnvInt("SNAPSHOT_KEEP", 14),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	err := validation.Errors{
		"APP_ENV":        validation.Validate(c.App.Environment, validation.Required, validation.In("development", "staging", "production")),
		"APP_PORT":       validation.Validate(c.App.Port, validation.Required),
		"APP_LOCALE":     validation.Validate(c.App.Locale, validation.Required, validation.By(isLanguageTag)),
		"LOG_LEVEL":      validation.Validate(c.Log.Level, validation.In("trace", "debug", "info", "warn", "error")),
		"REMOTE_BACKEND": validation.Validate(c.Remote.Backend, validation.Required, validation.In(BackendPostgres, BackendMemory)),
		"REDIS_CHANNEL":  validation.Validate(c.Redis.Channel, validation.When(c.Redis.Enabled, validation.Required)),
		"NOTIFY_HISTORY": validation.Validate(c.Notify.History, validation.Min(1)),
		"SNAPSHOT_CRON":  validation.Validate(c.Snapshot.Cron, validation.When(c.Snapshot.Enabled, validation.Required)),
		"SNAPSHOT_KEEP":  validation.Validate(c.Snapshot.Keep, validation.Min(0)),
		"MINIO_BUCKET":   validation.Validate(c.MinIO.Bucket, validation.When(c.Snapshot.Enabled, validation.Required)),
	}.Filter()
	if err != nil {
		return err
	}

	if c.App.Environment == "production" && c.Remote.Backend == BackendPostgres && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD must be set in production")
	}
	return nil
}

// Language returns the parsed locale. Validate guarantees it parses.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.App.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func isLanguageTag(value any) error {
	s, _ := value.(string)
	if _, err := language.Parse(s); err != nil {
		return fmt.Errorf("not a language tag: %q", s)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
