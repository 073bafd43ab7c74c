package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ironsheep/histogram-update/internal/logger"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Defaults
const (
	DefaultRedisAddr   = "127.0.0.1:6379"
	DefaultRedisPrefix = "frames"
	DefaultFrameTTL    = 10 * time.Minute
)

type Config struct {
	LogLevel    logger.Level
	Store       string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
	FrameTTL    time.Duration
}

// Load reads the given dotenv files (".env" when none are named) and then the
// process environment. Missing files are ignored, variables already set in
// the environment win, and malformed values fall back to their defaults.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{
		LogLevel:    logger.LevelInfo,
		Store:       StoreMemory,
		RedisAddr:   DefaultRedisAddr,
		RedisPrefix: DefaultRedisPrefix,
		FrameTTL:    DefaultFrameTTL,
	}

	if level, err := logger.ParseLevel(os.Getenv("HISTOGRAM_LOG_LEVEL")); err == nil {
		cfg.LogLevel = level
	}

	switch strings.ToLower(strings.TrimSpace(os.Getenv("HISTOGRAM_STORE"))) {
	case StoreRedis:
		cfg.Store = StoreRedis
	}

	if v := strings.TrimSpace(os.Getenv("HISTOGRAM_REDIS_ADDR")); v != "" {
		cfg.RedisAddr = v
	}
	if v, err := strconv.Atoi(os.Getenv("HISTOGRAM_REDIS_DB")); err == nil && v >= 0 {
		cfg.RedisDB = v
	}
	if v := strings.TrimSpace(os.Getenv("HISTOGRAM_REDIS_PREFIX")); v != "" {
		cfg.RedisPrefix = v
	}
	if v, err := time.ParseDuration(os.Getenv("HISTOGRAM_FRAME_TTL")); err == nil && v >= 0 {
		cfg.FrameTTL = v
	}

	return cfg, nil
}
