package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
telegram:
  token: "123:abc"
  owner_user_ids: [42]
  group_log: ""
  poll_timeout: "10s"
logging:
  level: "debug"
  console: true
  file:
    enabled: false
    path: ""
  telegram:
    enabled: false
    thread_id: 0
    min_level: "warn"
    rate_per_sec: 1
storage:
  path: "./phrasebot.db"
srs:
  initial_review_count: 3
  desired_retention: 0.9
reminders:
  enabled: true
  schedule: "0 9 * * *"
  chat_id: "42"
`)
	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.SRS.InitialReviewCount != 3 {
		t.Fatalf("initial_review_count = %d, want 3", cfg.SRS.InitialReviewCount)
	}
	if cfg.SRS.DesiredRetention != 0.9 {
		t.Fatalf("desired_retention = %v, want 0.9", cfg.SRS.DesiredRetention)
	}
	if !cfg.Reminders.Enabled || cfg.ReminderSchedule() != "0 9 * * *" {
		t.Fatalf("reminders = %+v", cfg.Reminders)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := m.Get(); got != cfg {
		t.Fatal("Get should return the committed config")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json", `{"telegram":{"token":"t"},"bogus_section":{}}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json", `{"telegram":{"token":"t"}}{"extra":1}`)
	if _, err := NewManager(path).Parse(); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	base := func() *Config {
		return &Config{
			Telegram: TelegramConfig{Token: "123:abc", PollTimeout: "10s"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Telegram.Token = " " }, wantErr: "telegram.token"},
		{name: "bad poll timeout", mutate: func(c *Config) { c.Telegram.PollTimeout = "soon" }, wantErr: "poll_timeout"},
		{name: "review count too low", mutate: func(c *Config) { c.SRS.InitialReviewCount = 1 }, wantErr: "initial_review_count"},
		{name: "review count too high", mutate: func(c *Config) { c.SRS.InitialReviewCount = 11 }, wantErr: "initial_review_count"},
		{name: "review count in range", mutate: func(c *Config) { c.SRS.InitialReviewCount = 10 }},
		{name: "retention too high", mutate: func(c *Config) { c.SRS.DesiredRetention = 1.5 }, wantErr: "desired_retention"},
		{name: "bad cron", mutate: func(c *Config) { c.Reminders.Schedule = "every tuesday" }, wantErr: "reminders.schedule"},
		{name: "good cron", mutate: func(c *Config) { c.Reminders.Schedule = "*/30 * * * *" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultsWhenOmitted(t *testing.T) {
	t.Parallel()
	cfg := &Config{}
	if got := cfg.InitialReviewCount(); got != 5 {
		t.Fatalf("InitialReviewCount = %d, want 5", got)
	}
	if got := cfg.DesiredRetention(); got != 0.95 {
		t.Fatalf("DesiredRetention = %v, want 0.95", got)
	}
	if got := cfg.ReminderSchedule(); got != defaultReminderSchedule {
		t.Fatalf("ReminderSchedule = %q", got)
	}
}

func TestSummarizeConfigChange(t *testing.T) {
	t.Parallel()
	oldCfg := &Config{Telegram: TelegramConfig{Token: "t", PollTimeout: "10s"}}
	newCfg := &Config{
		Telegram: TelegramConfig{Token: "t", PollTimeout: "30s"},
		SRS:      SRSConfig{InitialReviewCount: 4},
	}
	changed, _ := SummarizeConfigChange(oldCfg, newCfg)
	want := []string{"srs", "telegram"}
	if len(changed) != len(want) {
		t.Fatalf("changed = %v, want %v", changed, want)
	}
	for i := range want {
		if changed[i] != want[i] {
			t.Fatalf("changed = %v, want %v", changed, want)
		}
	}
}
