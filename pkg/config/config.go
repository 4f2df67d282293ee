package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// SessionBackendFile and SessionBackendRedis select where tokens persist.
const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

type Config struct {
	Env string

	API      APIConfig
	Session  SessionConfig
	Redis    RedisConfig
	Log      LogConfig
	Mock     MockConfig
	Database DatabaseConfig
}

// APIConfig points the client at the dashboard API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig controls durable session persistence.
type SessionConfig struct {
	Backend  string
	FilePath string
	RedisKey string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

// MockConfig configures the bundled mock API server.
type MockConfig struct {
	Port               int
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Backend            string
	Seed               bool
	DailyTarget        int
	AllowedOrigins     []string
}

// DatabaseConfig is used by the mock server's postgres backend.
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
	}

	cfg.Session = SessionConfig{
		Backend:  v.GetString("SESSION_BACKEND"),
		FilePath: v.GetString("SESSION_FILE"),
		RedisKey: v.GetString("SESSION_REDIS_KEY"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Mock = MockConfig{
		Port:               v.GetInt("MOCK_PORT"),
		JWTSecret:          v.GetString("MOCK_JWT_SECRET"),
		AccessTokenExpiry:  parseDuration(v.GetString("MOCK_JWT_EXPIRATION"), 15*time.Minute),
		RefreshTokenExpiry: parseDuration(v.GetString("MOCK_REFRESH_EXPIRATION"), 7*24*time.Hour),
		Backend:            v.GetString("MOCK_BACKEND"),
		Seed:               v.GetBool("MOCK_SEED"),
		DailyTarget:        v.GetInt("MOCK_DAILY_TARGET"),
		AllowedOrigins:     splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:8081")
	v.SetDefault("API_TIMEOUT", "15s")

	v.SetDefault("SESSION_BACKEND", SessionBackendFile)
	v.SetDefault("SESSION_FILE", ".dashboard-session.json")
	v.SetDefault("SESSION_REDIS_KEY", "dashboard:session")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MOCK_PORT", 8081)
	v.SetDefault("MOCK_JWT_SECRET", "dev_secret")
	v.SetDefault("MOCK_JWT_EXPIRATION", "15m")
	v.SetDefault("MOCK_REFRESH_EXPIRATION", "168h")
	v.SetDefault("MOCK_BACKEND", "memory")
	v.SetDefault("MOCK_SEED", true)
	v.SetDefault("MOCK_DAILY_TARGET", 55)
	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "warehouse_dashboard")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
