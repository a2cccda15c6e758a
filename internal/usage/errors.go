package usage

import "errors"

// ErrLimitReached indicates the user exceeded their weekly allowance.
var ErrLimitReached = errors.New("limit reached")
