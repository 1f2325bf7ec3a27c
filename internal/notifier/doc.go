// Package notifier sends scheduled due-card reminders.
//
// A cron entry fires on the configured schedule, counts the cards that are
// currently due and, when there are any, nudges the learner's chat. The
// schedule and target chat are hot-reloadable via Apply.
package notifier
