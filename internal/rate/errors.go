package rate

import "errors"

// ErrStoreUnavailable wraps failures of the backing counter store.
var ErrStoreUnavailable = errors.New("rate limit store unavailable")
