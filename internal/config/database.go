package config

import (
	"fmt"
	"strconv"
	"time"

	"bibliotech/internal/infrastructure/database"
)

// dbEnv reads typed DB_* values. The first malformed value is kept and the
// remaining reads return zero values.
type dbEnv struct {
	err error
}

func (e *dbEnv) int(key, def string) int {
	if e.err != nil {
		return 0
	}
	v, err := strconv.Atoi(getEnv(key, def))
	if err != nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (e *dbEnv) duration(key, def string) time.Duration {
	if e.err != nil {
		return 0
	}
	v, err := time.ParseDuration(getEnv(key, def))
	if err != nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

// LoadDatabaseConfig reads the pgx pool settings. Only the remote Postgres
// backend uses them.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	var env dbEnv
	cfg := &database.DBConfig{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              env.int("DB_PORT", "5432"),
		Username:          getEnv("DB_USER", "bibliotech"),
		Password:          getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "bibliotech"),
		SSLMode:           getEnv("DB_SSLMODE", "disable"),
		MaxConns:          int32(env.int("DB_MAX_CONNECTIONS", "10")),
		MinConns:          int32(env.int("DB_MIN_CONNECTIONS", "1")),
		MaxConnLifetime:   env.duration("DB_MAX_CONN_LIFETIME", "5m"),
		MaxConnIdleTime:   env.duration("DB_MAX_CONN_IDLE_TIME", "1m"),
		HealthCheckPeriod: env.duration("DB_HEALTH_CHECK_PERIOD", "1m"),
		MaxRetries:        env.int("DB_MAX_RETRIES", "5"),
		RetryDelay:        env.duration("DB_RETRY_DELAY", "1s"),
		ConnectTimeout:    env.duration("DB_CONNECT_TIMEOUT", "10s"),
	}
	if env.err != nil {
		return nil, env.err
	}
	return cfg, nil
}
