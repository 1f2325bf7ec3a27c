package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"phrasebot/internal/srs"
)

const (
	defaultReminderSchedule = "0 9 * * *"
)

// Validate checks the config for structural problems that should block a
// commit: missing token, malformed durations, out-of-range scheduling knobs,
// unparseable reminder cron specs. It is used as the reload validator so a
// bad edit never replaces a good running config.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}
	if c.SRS.InitialReviewCount != 0 {
		if err := srs.ValidateInitialReviewCount(c.SRS.InitialReviewCount); err != nil {
			return fmt.Errorf("srs.initial_review_count: %w", err)
		}
	}
	if r := c.SRS.DesiredRetention; r != 0 && (r < 0 || r > 1) {
		return fmt.Errorf("srs.desired_retention: must be in (0, 1], got %v", r)
	}
	if spec := strings.TrimSpace(c.Reminders.Schedule); spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("reminders.schedule: %w", err)
		}
	}
	return nil
}

// InitialReviewCount returns the configured warm-up budget, falling back to
// the engine default when omitted.
func (c *Config) InitialReviewCount() int {
	if c == nil || c.SRS.InitialReviewCount == 0 {
		return srs.DefaultInitialReviewCount
	}
	return c.SRS.InitialReviewCount
}

// DesiredRetention returns the configured retention target, falling back to
// the engine default when omitted.
func (c *Config) DesiredRetention() float64 {
	if c == nil || c.SRS.DesiredRetention == 0 {
		return srs.DefaultRetention
	}
	return c.SRS.DesiredRetention
}

// ReminderSchedule returns the cron spec for due-card reminders,
// falling back to a daily morning run when omitted.
func (c *Config) ReminderSchedule() string {
	if c == nil {
		return defaultReminderSchedule
	}
	if spec := strings.TrimSpace(c.Reminders.Schedule); spec != "" {
		return spec
	}
	return defaultReminderSchedule
}
