package subscriptions

import "errors"

var (
	ErrNotFound     = errors.New("subscription not found")
	ErrUnknownPrice = errors.New("invalid subscription")
	ErrInvalidLevel = errors.New("invalid subscription level")
)
