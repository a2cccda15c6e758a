package subscriptions

import "time"

// Subscription mirrors the billing provider's view of a user's plan.
type Subscription struct {
	UserID            string
	CustomerID        string
	SubscriptionID    string
	PriceID           string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Plans maps billing price ids to tiers.
type Plans struct {
	ProPriceID     string
	ProPlusPriceID string
}

// PriceFor returns the price id that grants level.
func (p Plans) PriceFor(level Level) string {
	switch level {
	case LevelPro:
		return p.ProPriceID
	case LevelProPlus:
		return p.ProPlusPriceID
	default:
		return ""
	}
}
