package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"resortdesk/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseDSN string `mapstructure:"DATABASE_DSN"`
	Migrations  string `mapstructure:"MIGRATIONS_DIR"`

	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`

	WorkerIntervalSeconds int `mapstructure:"WORKER_INTERVAL_SECONDS"`

	RateLimitWindowSeconds int `mapstructure:"RATE_LIMIT_WINDOW_SECONDS"`
	RateLimitRequests      int `mapstructure:"RATE_LIMIT_REQUESTS"`

	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	SMTPFromName  string `mapstructure:"SMTP_FROM_NAME"`
	SMTPFromEmail string `mapstructure:"SMTP_FROM_EMAIL"`

	// CANCELLATION_TIERS=14:100:full,7:50:partial,3:25:partial,0:0:none
	CancellationTiers string `mapstructure:"CANCELLATION_TIERS"`
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_DSN", "resortdesk.db")
	viper.SetDefault("MIGRATIONS_DIR", "internal/database/migrations")
	viper.SetDefault("JWT_TTL_HOURS", 24)
	viper.SetDefault("WORKER_INTERVAL_SECONDS", 30)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "ResortDesk")

	viper.BindEnv("PORT")
	viper.BindEnv("DATABASE_DSN")
	viper.BindEnv("MIGRATIONS_DIR")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("JWT_TTL_HOURS")
	viper.BindEnv("WORKER_INTERVAL_SECONDS")
	viper.BindEnv("RATE_LIMIT_WINDOW_SECONDS")
	viper.BindEnv("RATE_LIMIT_REQUESTS")
	viper.BindEnv("SMTP_HOST")
	viper.BindEnv("SMTP_PORT")
	viper.BindEnv("SMTP_USER")
	viper.BindEnv("SMTP_PASSWORD")
	viper.BindEnv("SMTP_FROM_NAME")
	viper.BindEnv("SMTP_FROM_EMAIL")
	viper.BindEnv("CANCELLATION_TIERS")

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("unable to decode config: %v", err)
	}
	return &cfg
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c *Config) WorkerInterval() time.Duration {
	return time.Duration(c.WorkerIntervalSeconds) * time.Second
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

// Tiers parses the cancellation policy override. An empty value means the
// built-in defaults apply.
func (c *Config) Tiers() ([]domain.PolicyTier, error) {
	return ParseTiers(c.CancellationTiers)
}

// ParseTiers reads "days:percent:type" triples separated by commas.
func ParseTiers(raw string) ([]domain.PolicyTier, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var tiers []domain.PolicyTier
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid tier %q, expected days:percent:type", part)
		}

		days, err := strconv.Atoi(fields[0])
		if err != nil || days < 0 {
			return nil, fmt.Errorf("invalid tier days in %q", part)
		}
		percent, err := strconv.Atoi(fields[1])
		if err != nil || percent < 0 || percent > 100 {
			return nil, fmt.Errorf("invalid tier percent in %q", part)
		}

		refundType := domain.RefundType(fields[2])
		switch refundType {
		case domain.RefundFull, domain.RefundPartial, domain.RefundCredit, domain.RefundNone:
		default:
			return nil, fmt.Errorf("invalid tier type in %q", part)
		}

		tiers = append(tiers, domain.PolicyTier{
			DaysBeforeCheckIn: days,
			RefundPercent:     percent,
			RefundType:        refundType,
		})
	}
	return tiers, nil
}
