package notifier

import (
	kit "phrasebot/internal/transport"
)

// Config controls the reminder service.
type Config struct {
	Enabled bool
	// Schedule is a standard 5-field cron expression.
	Schedule string
	Chat     kit.ChatTarget
}
