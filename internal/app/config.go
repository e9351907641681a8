package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/anchorrisk/anchorrisk-backend/internal/data/db"
	"github.com/anchorrisk/anchorrisk-backend/internal/observability"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/envutil"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/gcp"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/neo4jdb"
	"github.com/anchorrisk/anchorrisk-backend/internal/realtime/bus"
)

type HTTPConfig struct {
	Addr        string   `yaml:"addr" validate:"required"`
	CORSOrigins []string `yaml:"cors_origins"`

	// Simulate endpoints are limited per client; zero disables the limiter.
	SimulateRPS   float64 `yaml:"simulate_rps" validate:"gte=0"`
	SimulateBurst int     `yaml:"simulate_burst" validate:"gte=0"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

type IDConfig struct {
	HashSalt string `yaml:"hash_salt"`
	HashIDs  bool   `yaml:"hash_ids"`
}

type ScorerConfig struct {
	URL        string        `yaml:"url" validate:"omitempty,url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxRetries int           `yaml:"max_retries" validate:"gte=0,lte=10"`
}

type Config struct {
	LogMode string `yaml:"log_mode" validate:"oneof=development dev production prod test"`

	HTTP   HTTPConfig   `yaml:"http"`
	Auth   AuthConfig   `yaml:"auth"`
	IDs    IDConfig     `yaml:"ids"`
	Scorer ScorerConfig `yaml:"scorer"`

	Neo4j   neo4jdb.Config           `yaml:"neo4j"`
	DB      db.Config                `yaml:"db"`
	Bus     bus.Config               `yaml:"bus"`
	Archive gcp.ArchiveConfig        `yaml:"archive"`
	Otel    observability.OtelConfig `yaml:"otel"`

	// FixturesPath seeds the in-memory household store when Neo4j is not configured.
	FixturesPath string `yaml:"fixtures_path"`
}

func defaultConfig() Config {
	return Config{
		LogMode: "development",
		HTTP: HTTPConfig{
			Addr:          ":8080",
			SimulateRPS:   5,
			SimulateBurst: 10,
		},
		Scorer: ScorerConfig{
			Timeout:    15 * time.Second,
			MaxRetries: 2,
		},
		Otel: observability.OtelConfig{
			ServiceName: "anchorrisk-backend",
			Environment: "development",
			SampleRatio: 1,
		},
	}
}

// LoadConfig applies defaults, then the YAML file named by
// ANCHORRISK_CONFIG_PATH, then environment variables. A .env file in the
// working directory is loaded first when present.
func LoadConfig(log *logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("could not load .env", "error", err)
	}

	cfg := defaultConfig()
	if path := envutil.String("ANCHORRISK_CONFIG_PATH", ""); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
		log.Info("loaded config file", "path", path)
	}
	applyEnv(&cfg)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)

	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr)
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTP.Addr = ":" + port
	}
	if origins := envutil.String("CORS_ORIGINS", ""); origins != "" {
		cfg.HTTP.CORSOrigins = splitList(origins)
	}
	cfg.HTTP.SimulateRPS = envutil.Float("SIMULATE_RATE_LIMIT_RPS", cfg.HTTP.SimulateRPS)
	cfg.HTTP.SimulateBurst = envutil.Int("SIMULATE_RATE_LIMIT_BURST", cfg.HTTP.SimulateBurst)

	cfg.Auth.JWTSecret = envutil.String("JWT_SECRET_KEY", cfg.Auth.JWTSecret)
	cfg.Auth.Issuer = envutil.String("JWT_ISSUER", cfg.Auth.Issuer)

	cfg.IDs.HashSalt = envutil.String("HASH_SALT", cfg.IDs.HashSalt)
	cfg.IDs.HashIDs = envutil.Bool("HASH_IDS", cfg.IDs.HashIDs)

	cfg.Scorer.URL = envutil.String("ML_SERVICE_URL", cfg.Scorer.URL)
	cfg.Scorer.APIKey = envutil.String("ML_SERVICE_API_KEY", cfg.Scorer.APIKey)
	cfg.Scorer.Timeout = envutil.Seconds("ML_SERVICE_TIMEOUT_SECONDS", cfg.Scorer.Timeout)
	cfg.Scorer.MaxRetries = envutil.Int("ML_SERVICE_MAX_RETRIES", cfg.Scorer.MaxRetries)

	cfg.Neo4j.URI = envutil.String("NEO4J_URI", cfg.Neo4j.URI)
	cfg.Neo4j.User = envutil.String("NEO4J_USER", cfg.Neo4j.User)
	cfg.Neo4j.Password = envutil.String("NEO4J_PASSWORD", cfg.Neo4j.Password)
	cfg.Neo4j.Database = envutil.String("NEO4J_DATABASE", cfg.Neo4j.Database)
	cfg.Neo4j.Timeout = envutil.Seconds("NEO4J_TIMEOUT_SECONDS", cfg.Neo4j.Timeout)
	cfg.Neo4j.MaxPoolSize = envutil.Int("NEO4J_MAX_POOL_SIZE", cfg.Neo4j.MaxPoolSize)

	cfg.DB.PostgresDSN = envutil.String("POSTGRES_DSN", cfg.DB.PostgresDSN)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath)

	cfg.Bus.Addr = envutil.String("REDIS_ADDR", cfg.Bus.Addr)
	cfg.Bus.Password = envutil.String("REDIS_PASSWORD", cfg.Bus.Password)
	cfg.Bus.DB = envutil.Int("REDIS_DB", cfg.Bus.DB)
	cfg.Bus.Channel = envutil.String("REDIS_CHANNEL", cfg.Bus.Channel)

	cfg.Archive.Bucket = envutil.String("REPORT_BUCKET", cfg.Archive.Bucket)
	cfg.Archive.Prefix = envutil.String("REPORT_PREFIX", cfg.Archive.Prefix)
	cfg.Archive.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.Archive.EmulatorHost)
	cfg.Archive.Credentials = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", cfg.Archive.Credentials)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Environment = envutil.String("APP_ENV", cfg.Otel.Environment)
	cfg.Otel.Version = envutil.String("APP_VERSION", cfg.Otel.Version)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.Otel.SampleRatio)

	cfg.FixturesPath = envutil.String("HOUSEHOLD_FIXTURES_PATH", cfg.FixturesPath)
}

func validateConfig(cfg Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.IDs.HashIDs && strings.TrimSpace(cfg.IDs.HashSalt) == "" {
		return errors.New("invalid config: HASH_IDS requires HASH_SALT")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
