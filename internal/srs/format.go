package srs

import (
	"fmt"
	"time"
)

// FormatInterval renders a scheduling interval the way rating buttons and
// simulated timelines show it: the largest unit that keeps the number small.
// Sub-minute intervals collapse to "<1m".
func FormatInterval(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	const (
		day   = 24 * time.Hour
		month = 30 * day
		year  = 365 * day
	)
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < day:
		h := d.Hours()
		if h == float64(int(h)) {
			return fmt.Sprintf("%dh", int(h))
		}
		return fmt.Sprintf("%.1fh", h)
	case d < month:
		days := float64(d) / float64(day)
		if days == float64(int(days)) {
			return fmt.Sprintf("%dd", int(days))
		}
		return fmt.Sprintf("%.1fd", days)
	case d < year:
		return fmt.Sprintf("%.1fmo", float64(d)/float64(month))
	default:
		return fmt.Sprintf("%.1fy", float64(d)/float64(year))
	}
}
