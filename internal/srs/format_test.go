package srs

import (
	"testing"
	"time"
)

func TestFormatInterval(t *testing.T) {
	t.Parallel()
	const day = 24 * time.Hour
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-5 * time.Minute, "<1m"},
		{0, "<1m"},
		{30 * time.Second, "<1m"},
		{1 * time.Minute, "1m"},
		{3 * time.Minute, "3m"},
		{59 * time.Minute, "59m"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1.5h"},
		{23 * time.Hour, "23h"},
		{day, "1d"},
		{36 * time.Hour, "1.5d"},
		{29 * day, "29d"},
		{45 * day, "1.5mo"},
		{365 * day, "1.0y"},
		{540 * day, "1.5y"},
	}
	for _, tt := range tests {
		if got := FormatInterval(tt.d); got != tt.want {
			t.Fatalf("FormatInterval(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
