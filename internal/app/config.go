package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/landcontract-backend/internal/data/db"
	"github.com/yungbote/landcontract-backend/internal/observability"
	"github.com/yungbote/landcontract-backend/internal/platform/envutil"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

type Config struct {
	Port           string
	Environment    string
	JWTSecretKey   string
	SessionTTL     time.Duration
	AllowedOrigins []string

	StoreBackend    string
	SQLitePath      string
	Postgres        db.PostgresConfig
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisPrefix     string
	PurgeInterval   time.Duration
	SeedPath        string
	SeedHashCost    int
	ShutdownTimeout time.Duration

	Timezone           string
	AllowReliquidation bool

	MetricsEnabled bool
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	env := envutil.String("APP_ENV", "development", log)
	return Config{
		Port:           envutil.String("PORT", "8080", log),
		Environment:    env,
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		SessionTTL:     envutil.Duration("SESSION_TTL", 12*time.Hour, log),
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil, log),

		StoreBackend: strings.ToLower(envutil.String("STORE_BACKEND", BackendSQLite, log)),
		SQLitePath:   envutil.String("STORE_SQLITE_PATH", "data/landcontract.db", log),
		Postgres: db.PostgresConfig{
			Host:     envutil.String("POSTGRES_HOST", "localhost", log),
			Port:     envutil.String("POSTGRES_PORT", "5432", log),
			User:     envutil.String("POSTGRES_USER", "postgres", log),
			Password: envutil.String("POSTGRES_PASSWORD", "", log),
			Name:     envutil.String("POSTGRES_NAME", "landcontract", log),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
		},
		RedisAddr:       envutil.String("REDIS_ADDR", "", log),
		RedisPassword:   envutil.String("REDIS_PASSWORD", "", log),
		RedisDB:         envutil.Int("REDIS_DB", 0, log),
		RedisPrefix:     envutil.String("REDIS_PREFIX", "landcontract:", log),
		PurgeInterval:   envutil.Duration("STORE_PURGE_INTERVAL", 10*time.Minute, log),
		SeedPath:        envutil.String("SEED_PATH", "", log),
		SeedHashCost:    envutil.Int("SEED_HASH_COST", 0, log),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second, log),

		Timezone:           envutil.String("CONTRACT_TIMEZONE", "Asia/Ho_Chi_Minh", log),
		AllowReliquidation: envutil.Bool("CONTRACT_ALLOW_RELIQUIDATION", false, log),

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "landcontract-api", log),
			Environment: env,
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 100, log)) / 100,
		},
	}
}

// Location resolves the numbering time zone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load CONTRACT_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}
