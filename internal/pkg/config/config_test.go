package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" {
		t.Fatalf("unexpected server defaults: port=%s env=%s", cfg.Port, cfg.Env)
	}
	if cfg.PollInterval != time.Minute || cfg.TickTimeout != 50*time.Second {
		t.Fatalf("unexpected scheduler defaults: interval=%s timeout=%s", cfg.PollInterval, cfg.TickTimeout)
	}
	if cfg.DispatchConcurrency != 1 || cfg.MaxDispatchAttempts != 0 {
		t.Fatalf("unexpected dispatch defaults: %+v", cfg)
	}
	if cfg.ReminderMessage != "Time to workout" {
		t.Fatalf("message = %q", cfg.ReminderMessage)
	}
	if !reflect.DeepEqual(cfg.NotifyChannels, []string{"log"}) {
		t.Fatalf("channels = %v", cfg.NotifyChannels)
	}
	if cfg.RedisAddr != "" || cfg.IsProduction() {
		t.Fatalf("unexpected optional defaults: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", " Production ")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("DISPATCH_CONCURRENCY", "-3")
	t.Setenv("MAX_DISPATCH_ATTEMPTS", "5")
	t.Setenv("NOTIFY_CHANNELS", "LINE, fcm,,twilio")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.example.com,https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.IsProduction() {
		t.Fatalf("env = %q, want production", cfg.Env)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("interval = %s", cfg.PollInterval)
	}
	if cfg.DispatchConcurrency != 1 {
		t.Fatalf("concurrency = %d, want clamp to 1", cfg.DispatchConcurrency)
	}
	if cfg.MaxDispatchAttempts != 5 {
		t.Fatalf("max attempts = %d", cfg.MaxDispatchAttempts)
	}
	if !reflect.DeepEqual(cfg.NotifyChannels, []string{"line", "fcm", "twilio"}) {
		t.Fatalf("channels = %v", cfg.NotifyChannels)
	}
	if len(cfg.CORSAllowOrigins) != 2 {
		t.Fatalf("origins = %v", cfg.CORSAllowOrigins)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		JWTSecret:       "secret",
		PollInterval:    time.Minute,
		TickTimeout:     time.Second,
		ReminderMessage: "Time to workout",
		NotifyChannels:  []string{"log"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(c *Config){
		"JWT_SECRET":       func(c *Config) { c.JWTSecret = "" },
		"POLL_INTERVAL":    func(c *Config) { c.PollInterval = 0 },
		"TICK_TIMEOUT":     func(c *Config) { c.TickTimeout = -time.Second },
		"REMINDER_MESSAGE": func(c *Config) { c.ReminderMessage = "  " },
		"NOTIFY_CHANNELS":  func(c *Config) { c.NotifyChannels = nil },
	}
	for key, mutate := range cases {
		c := valid
		mutate(&c)
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), key) {
			t.Fatalf("%s: got %v, want an error naming the key", key, err)
		}
	}
}
