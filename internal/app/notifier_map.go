package app

import (
	"fmt"
	"strconv"
	"strings"

	"phrasebot/internal/notifier"
	kit "phrasebot/internal/transport"
)

// mapReminderConfig converts the reminders section into the notifier config.
// When no chat is configured the reminder goes to the first owner.
func mapReminderConfig(cfg *Config) (notifier.Config, error) {
	var out notifier.Config
	if cfg == nil {
		return out, nil
	}
	rc := cfg.Reminders

	out.Enabled = rc.Enabled
	out.Schedule = cfg.ReminderSchedule()

	if raw := strings.TrimSpace(rc.ChatID); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return out, fmt.Errorf("reminders.chat_id: invalid %q: %w", raw, err)
		}
		out.Chat = kit.ChatTarget{ChatID: chatID, ThreadID: rc.ThreadID}
	} else if len(cfg.Telegram.OwnerUserIDs) > 0 {
		out.Chat = kit.ChatTarget{ChatID: cfg.Telegram.OwnerUserIDs[0]}
	} else if out.Enabled {
		return out, fmt.Errorf("reminders.chat_id is required when no owners are configured")
	}

	return out, nil
}
