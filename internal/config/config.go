package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32         `mapstructure:"DB_MIN_CONNS"`
	ScheduleForDays int           `mapstructure:"SCHEDULE_FOR_DAYS"`
	RedisURL        string        `mapstructure:"REDIS_URL"`
	DoctorCacheTTL  time.Duration `mapstructure:"DOCTOR_CACHE_TTL"`
	AuthSigningKey  string        `mapstructure:"AUTH_SIGNING_KEY"`
	AuthIssuer      string        `mapstructure:"AUTH_ISSUER"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS    float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

var keys = []string{
	"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"SCHEDULE_FOR_DAYS", "REDIS_URL", "DOCTOR_CACHE_TTL",
	"AUTH_SIGNING_KEY", "AUTH_ISSUER", "CORS_ORIGINS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REQUEST_TIMEOUT",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("SCHEDULE_FOR_DAYS", 30)
	v.SetDefault("DOCTOR_CACHE_TTL", "5m")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("REQUEST_TIMEOUT", "30s")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	for i := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Warn().Msg("server is running in DEVELOPMENT mode (ENV=development): every request is treated as admin")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if c.ScheduleForDays <= 0 {
		return fmt.Errorf("SCHEDULE_FOR_DAYS must be positive, got %d", c.ScheduleForDays)
	}
	if !c.IsDev() && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY is required outside development (current ENV=%q)", c.Env)
	}
	if c.AuthSigningKey != "" && len(c.AuthSigningKey) < 32 {
		return fmt.Errorf("AUTH_SIGNING_KEY must be at least 32 bytes, got %d", len(c.AuthSigningKey))
	}
	if c.DBMinConns < 0 || c.DBMaxConns < 1 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid pool size: DB_MIN_CONNS=%d DB_MAX_CONNS=%d", c.DBMinConns, c.DBMaxConns)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.DoctorCacheTTL < 0 {
		return fmt.Errorf("DOCTOR_CACHE_TTL must not be negative")
	}
	return nil
}
