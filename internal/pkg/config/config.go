package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// DatabaseURL selects PostgreSQL when set; otherwise SQLitePath is used.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Scheduler
	PollInterval        time.Duration `mapstructure:"POLL_INTERVAL"`
	TickTimeout         time.Duration `mapstructure:"TICK_TIMEOUT"`
	DispatchConcurrency int           `mapstructure:"DISPATCH_CONCURRENCY"`
	MaxDispatchAttempts int           `mapstructure:"MAX_DISPATCH_ATTEMPTS"`
	ReminderMessage     string        `mapstructure:"REMINDER_MESSAGE"`

	// NotifyChannels lists the delivery channels in fan-out order (log, line, fcm, twilio).
	NotifyChannels []string `mapstructure:"NOTIFY_CHANNELS"`

	LineChannelSecret      string `mapstructure:"LINE_CHANNEL_SECRET"`
	LineChannelAccessToken string `mapstructure:"LINE_CHANNEL_ACCESS_TOKEN"`

	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`

	// Redis is optional; when RedisAddr is empty ticks are only serialized in-process.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int           `mapstructure:"REDIS_LOCK_DB"`
	TickLockTTL   time.Duration `mapstructure:"TICK_LOCK_TTL"`

	RateLimitPerSecond float64  `mapstructure:"RATE_LIMIT_PER_SECOND"`
	RateLimitBurst     int      `mapstructure:"RATE_LIMIT_BURST"`
	CORSAllowOrigins   []string `mapstructure:"CORS_ALLOW_ORIGINS"`
}

var defaults = map[string]interface{}{
	"PORT":                      "8080",
	"ENV":                       "development",
	"LOG_LEVEL":                 "info",
	"DATABASE_URL":              "",
	"SQLITE_PATH":               "reminders.db",
	"JWT_SECRET":                "",
	"POLL_INTERVAL":             "1m",
	"TICK_TIMEOUT":              "50s",
	"DISPATCH_CONCURRENCY":      1,
	"MAX_DISPATCH_ATTEMPTS":     0,
	"REMINDER_MESSAGE":          "Time to workout",
	"NOTIFY_CHANNELS":           "log",
	"LINE_CHANNEL_SECRET":       "",
	"LINE_CHANNEL_ACCESS_TOKEN": "",
	"FIREBASE_CREDENTIALS_FILE": "",
	"TWILIO_ACCOUNT_SID":        "",
	"TWILIO_AUTH_TOKEN":         "",
	"TWILIO_FROM_NUMBER":        "",
	"REDIS_ADDR":                "",
	"REDIS_PASSWORD":            "",
	"REDIS_LOCK_DB":             0,
	"TICK_LOCK_TTL":             "5m",
	"RATE_LIMIT_PER_SECOND":     20.0,
	"RATE_LIMIT_BURST":          40,
	"CORS_ALLOW_ORIGINS":        "*",
}

// Load reads configuration from a .env file (if present), an optional
// config.yaml in the working directory or ./config, and the environment.
// Environment variables win over the file; defaults fill the rest.
func Load() (*Config, error) {
	// Errors are ignored if the file doesn't exist; existing env vars are not overridden.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.NotifyChannels = splitList(c.NotifyChannels)
	c.CORSAllowOrigins = splitList(c.CORSAllowOrigins)
	if c.DispatchConcurrency < 1 {
		c.DispatchConcurrency = 1
	}
	if c.MaxDispatchAttempts < 0 {
		c.MaxDispatchAttempts = 0
	}
}

// Validate checks the values that have no usable fallback.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid POLL_INTERVAL %s: must be positive", c.PollInterval)
	}
	if c.TickTimeout <= 0 {
		return fmt.Errorf("invalid TICK_TIMEOUT %s: must be positive", c.TickTimeout)
	}
	if strings.TrimSpace(c.ReminderMessage) == "" {
		return fmt.Errorf("REMINDER_MESSAGE must not be empty")
	}
	if len(c.NotifyChannels) == 0 {
		return fmt.Errorf("NOTIFY_CHANNELS must name at least one channel")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// splitList flattens comma separated entries so both "a,b" and ["a","b"] work.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
