package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// DBDriver selects the backing store: "sqlite" (in-memory reference
	// deployment) or "postgres".
	DBDriver string
	DBUrl    string

	JWTSecret string
	TokenTTL  time.Duration

	SeedFixtures  bool
	StrictEmailMX bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheEnabled  bool
	CacheTTL      time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	// QueueURL enables the RabbitMQ event publisher when non-empty.
	QueueURL string
}

func Load() *Config {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBUrl:    getEnv("DATABASE_URL", "file::memory:?cache=shared"),

		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),

		SeedFixtures:  getBool("SEED_FIXTURES", true),
		StrictEmailMX: getBool("STRICT_EMAIL_CHECK", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		CacheEnabled:  getBool("CACHE_ENABLED", true),
		CacheTTL:      getDuration("CACHE_TTL", 30*time.Second),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 100),

		QueueURL: getEnv("QUEUE_URL", ""),
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
