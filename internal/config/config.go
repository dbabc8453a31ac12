package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	DBDSN       string
	HTTPAddr    string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SlotCacheTTL  time.Duration

	SlotGenerationSchedule string
	Location               *time.Location

	CORSAllowOrigins []string
	AdminEmails      []string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:            valueOr(getenv("ENV"), "development"),
		DBDSN:                  getenv("DB_DSN"),
		HTTPAddr:               valueOr(getenv("HTTP_ADDR"), ":8080"),
		JWTSecret:              getenv("JWT_SECRET"),
		JWTIssuer:              valueOr(getenv("JWT_ISSUER"), "hospital-api"),
		RedisAddr:              getenv("REDIS_ADDR"),
		RedisPassword:          getenv("REDIS_PASSWORD"),
		SlotGenerationSchedule: valueOr(getenv("SLOT_GENERATION_SCHEDULE"), "@every 24h"),
		CORSAllowOrigins:       splitList(valueOr(getenv("CORS_ALLOW_ORIGINS"), "*")),
		AdminEmails:            splitList(getenv("ADMIN_EMAILS")),
	}

	var err error

	if cfg.JWTTTL, err = time.ParseDuration(valueOr(getenv("JWT_TTL"), "1h")); err != nil {
		return nil, fmt.Errorf("parse JWT_TTL: %w", err)
	}

	if cfg.SlotCacheTTL, err = time.ParseDuration(valueOr(getenv("SLOT_CACHE_TTL"), "1m")); err != nil {
		return nil, fmt.Errorf("parse SLOT_CACHE_TTL: %w", err)
	}

	if cfg.RedisDB, err = strconv.Atoi(valueOr(getenv("REDIS_DB"), "0")); err != nil {
		return nil, fmt.Errorf("parse REDIS_DB: %w", err)
	}

	if cfg.Location, err = time.LoadLocation(valueOr(getenv("TIMEZONE"), "Local")); err != nil {
		return nil, fmt.Errorf("load TIMEZONE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	return nil
}

// CacheEnabled включён ли кэш слотов в Redis
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
