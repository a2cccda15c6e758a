package subscriptions

import "strings"

// Level is a subscription tier.
type Level string

const (
	LevelFree    Level = "free"
	LevelPro     Level = "pro"
	LevelProPlus Level = "pro_plus"
)

// ParseLevel maps s to a Level. Anything unrecognized is free.
func ParseLevel(s string) Level {
	l, _ := parseLevel(s)
	return l
}

func parseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelFree:
		return LevelFree, true
	case LevelPro:
		return LevelPro, true
	case LevelProPlus:
		return LevelProPlus, true
	default:
		return LevelFree, false
	}
}

// Valid reports whether l is one of the known tiers.
func (l Level) Valid() bool {
	_, ok := parseLevel(string(l))
	return ok
}
