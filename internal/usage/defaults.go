package usage

import (
	"time"

	"resume-builder/internal/subscriptions"
)

// Limits are weekly AI generation allowances per paid tier. Free gets none.
type Limits struct {
	Pro     int
	ProPlus int
}

// DefaultLimits apply when configuration leaves them unset.
var DefaultLimits = Limits{Pro: 50, ProPlus: 200}

// For returns the weekly allowance for level.
func (l Limits) For(level subscriptions.Level) int {
	switch level {
	case subscriptions.LevelProPlus:
		return l.ProPlus
	case subscriptions.LevelPro:
		return l.Pro
	default:
		return 0
	}
}

// WeekStart returns midnight UTC of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
