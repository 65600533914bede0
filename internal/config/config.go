package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-only-secret-change-me"

// Config holds the application configuration
type Config struct {
	Port   string
	IsProd bool

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	DBDebug     bool

	JWTSecret string
	JWTTTL    time.Duration

	TimeZone string

	PresenceBackend string // memory | redis
	PresenceTimeout time.Duration
	RedisAddr       string
	RedisPass       string
	RedisDB         int

	LogLevel  string
	LogFormat string

	DefaultResetPassword string
	SeedAdminPhone       string
	SeedAdminPassword    string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) *Config {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	dur := func(key string, def time.Duration) time.Duration {
		if d, err := time.ParseDuration(getenv(key)); err == nil && d > 0 {
			return d
		}
		return def
	}
	redisDB, _ := strconv.Atoi(getenv("REDIS_DB"))
	isProd := getenv("IS_PROD") == "true"

	secret := getenv("JWT_SECRET")
	if secret == "" && !isProd {
		secret = devJWTSecret
	}

	return &Config{
		Port:   get("PORT", "3000"),
		IsProd: isProd,

		DatabaseURL: getenv("DATABASE_URL"),
		DBHost:      get("DB_HOST", "localhost"),
		DBUser:      get("DB_USER", "postgres"),
		DBPassword:  getenv("DB_PASSWORD"),
		DBName:      get("DB_NAME", "gang_admin"),
		DBPort:      get("DB_PORT", "5432"),
		DBDebug:     getenv("DB_DEBUG") == "true",

		JWTSecret: secret,
		JWTTTL:    dur("JWT_TTL", time.Hour),

		TimeZone: get("APP_TIMEZONE", "Asia/Bangkok"),

		PresenceBackend: get("PRESENCE_BACKEND", "memory"),
		PresenceTimeout: dur("PRESENCE_TIMEOUT", 30*time.Second),
		RedisAddr:       get("REDIS_ADDR", "localhost:6379"),
		RedisPass:       getenv("REDIS_PASS"),
		RedisDB:         redisDB,

		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "text"),

		DefaultResetPassword: get("DEFAULT_RESET_PASSWORD", "user123"),
		SeedAdminPhone:       getenv("SEED_ADMIN_PHONE"),
		SeedAdminPassword:    getenv("SEED_ADMIN_PASSWORD"),
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.IsProd && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must not use the development default in production")
	}
	switch c.PresenceBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown PRESENCE_BACKEND %q", c.PresenceBackend)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.TimeZone, err)
	}
	if len(c.DefaultResetPassword) < 6 {
		return errors.New("DEFAULT_RESET_PASSWORD must be at least 6 characters")
	}
	return nil
}

// Location returns the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
