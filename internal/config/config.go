package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	API        APIConfig
	Credential CredentialConfig
	Redis      RedisConfig
	Log        LogConfig
	Tracing    TracingConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CredentialBackend string

const (
	BackendSQLite CredentialBackend = "sqlite"
	BackendRedis  CredentialBackend = "redis"
	BackendMemory CredentialBackend = "memory"
)

type CredentialConfig struct {
	Backend CredentialBackend
	Path    string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

type TracingConfig struct {
	Enabled bool
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// LoadDotEnv reads .env files into the process environment when present.
// Variables already set win over file values.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func Load() (Config, error) {
	cfg := Config{}

	var missing, invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return def
	}
	dur := func(key string, def time.Duration) time.Duration {
		v := opt(key, "")
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		v := opt(key, "")
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return n
	}
	boolean := func(key string) bool {
		v := opt(key, "")
		if v == "" {
			return false
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, key)
		}
		return b
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "jobboard-admin"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    opt("HTTP_PORT", "8080"),
	}

	cfg.API = APIConfig{
		BaseURL: opt("API_BASE_URL", "http://localhost:5000/api"),
		Timeout: dur("API_TIMEOUT", 15*time.Second),
	}

	cfg.Credential = CredentialConfig{
		Backend: CredentialBackend(strings.ToLower(opt("CREDENTIAL_BACKEND", string(BackendSQLite)))),
		Path:    opt("CREDENTIAL_PATH", "jobboard-credentials.db"),
	}
	switch cfg.Credential.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		cfg.Redis = RedisConfig{
			Host:     req("REDIS_HOST"),
			Port:     opt("REDIS_PORT", "6379"),
			Password: opt("REDIS_PASSWORD", ""),
			DB:       integer("REDIS_DB", 0),
		}
	default:
		invalid = append(invalid, "CREDENTIAL_BACKEND")
	}

	cfg.Log = LogConfig{
		Level:  opt("LOG_LEVEL", "info"),
		Format: opt("LOG_FORMAT", "text"),
	}
	cfg.Tracing = TracingConfig{Enabled: boolean("TRACING_ENABLED")}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
