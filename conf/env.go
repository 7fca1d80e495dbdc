package conf

import (
	"os"
	"strconv"
	"time"
)

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// SchedulerConfig holds the round scheduler knobs read from the environment.
type SchedulerConfig struct {
	// Interval between round starts.
	Interval time.Duration
	// RoundDuration is the hard deadline for a whole round.
	RoundDuration time.Duration
	// Workers bounds how many checks run concurrently.
	Workers int
	// CheckTimeout is the per-check wall-clock limit when a check type
	// does not declare its own.
	CheckTimeout time.Duration
}

func GetSchedulerConfigFromEnv() SchedulerConfig {
	return SchedulerConfig{
		Interval:      time.Duration(getEnvIntOrDefault("ROUND_INTERVAL_SECONDS", 60)) * time.Second,
		RoundDuration: time.Duration(getEnvIntOrDefault("ROUND_DEADLINE_SECONDS", 45)) * time.Second,
		Workers:       getEnvIntOrDefault("ROUND_WORKERS", 10),
		CheckTimeout:  time.Duration(getEnvIntOrDefault("CHECK_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

// GetChecksFileFromEnv returns the path of the TOML check type definitions.
func GetChecksFileFromEnv() string {
	return getEnvOrDefault("CHECKS_FILE", "checks.toml")
}

// GetChecksBinDirFromEnv returns the directory that relative check program
// paths are resolved against.
func GetChecksBinDirFromEnv() string {
	return getEnvOrDefault("CHECKS_BIN_DIR", "")
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func GetRedisConfigFromEnv() RedisConfig {
	return RedisConfig{
		Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvIntOrDefault("REDIS_DB", 0),
	}
}

func GetHttpAddressFromEnv() string {
	return getEnvOrDefault("HTTP_ADDRESS", ":8080")
}
