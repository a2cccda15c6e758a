package generation

import "errors"

var (
	ErrUpgradeRequired    = errors.New("upgrade to use AI tools")
	ErrQuotaExceeded      = errors.New("AI quota exceeded, try again later")
	ErrServiceUnavailable = errors.New("AI service temporarily unavailable")
)
