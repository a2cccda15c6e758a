package usage

import (
	"time"

	"resume-builder/internal/subscriptions"
)

// Usage is a user's AI generation allowance for the current week.
type Usage struct {
	Level     subscriptions.Level `json:"level"`
	Limit     int                 `json:"limit"`
	Used      int                 `json:"used"`
	Remaining int                 `json:"remaining"`
	WeekStart time.Time           `json:"weekStart"`
	ResetsAt  time.Time           `json:"resetsAt"`
}

func newUsage(level subscriptions.Level, limit, used int, weekStart time.Time) Usage {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		Level:     level,
		Limit:     limit,
		Used:      used,
		Remaining: remaining,
		WeekStart: weekStart,
		ResetsAt:  weekStart.AddDate(0, 0, 7),
	}
}
