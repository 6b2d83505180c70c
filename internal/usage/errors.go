package usage

import "errors"

// ErrLimitReached indicates the tenant exhausted its screening quota.
var ErrLimitReached = errors.New("limit reached")
