package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	FollowStoreMongo     = "mongo"
	FollowStoreCassandra = "cassandra"
)

type Config struct {
	MongoURI      string
	MongoDatabase string
	ServerPort    string
	Environment   string
	JWTSecret     string

	// Social graph storage and per-follower locking
	FollowStore       string
	CassandraHosts    []string
	CassandraKeyspace string
	RedisURL          string
	LockTTL           time.Duration

	// Track file storage
	HDFSNamenode string
	HDFSBaseDir  string

	// Subscription expiry sweep; empty schedule disables it
	SweepSchedule string

	RateLimitPerSecond float64
	RateLimitBurst     int

	// Bootstrap accounts written by the seed command
	SeedAdminUsername string
	SeedAdminPassword string

	// Logging
	LogFilePath   string
	LogHMACKey    string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	return &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "music_service"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		FollowStore:       getEnv("FOLLOW_STORE", FollowStoreMongo),
		CassandraHosts:    getEnvAsList("CASSANDRA_HOSTS", []string{"localhost"}),
		CassandraKeyspace: getEnv("CASSANDRA_KEYSPACE", "music_social"),
		RedisURL:          getEnv("REDIS_URL", ""),
		LockTTL:           getEnvAsDuration("LOCK_TTL", 5*time.Second),

		HDFSNamenode: getEnv("HDFS_NAMENODE", ""),
		HDFSBaseDir:  getEnv("HDFS_BASE_DIR", "/music/tracks"),

		SweepSchedule: getEnv("SUBSCRIPTION_SWEEP_SCHEDULE", "@every 1h"),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 100),

		SeedAdminUsername: getEnv("SEED_ADMIN_USERNAME", "administrator"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),

		LogFilePath:   getEnv("LOG_FILE_PATH", "/var/log/music-service/app.log"),
		LogHMACKey:    getEnv("LOG_HMAC_KEY", "default-hmac-key-change-in-production"),
		LogMaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
	}
}

func (c *Config) Validate() error {
	switch c.FollowStore {
	case FollowStoreMongo, FollowStoreCassandra:
	default:
		return fmt.Errorf("unsupported FOLLOW_STORE %q", c.FollowStore)
	}
	if c.Environment == "production" && c.JWTSecret == "your-secret-key-change-in-production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.RateLimitPerSecond <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
