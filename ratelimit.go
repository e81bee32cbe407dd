package shopauth

import (
	"context"
	"strings"
)

// RateLimitScope names a rate-limit policy.
type RateLimitScope string

const (
	// ScopeRegister is keyed by client IP.
	ScopeRegister RateLimitScope = "register"
	// ScopeLogin is keyed by client IP.
	ScopeLogin RateLimitScope = "login"
	// ScopeUser is keyed by user id and covers address, profile, account,
	// MFA and cart mutations.
	ScopeUser RateLimitScope = "user"
	// ScopeReview is keyed by user id.
	ScopeReview RateLimitScope = "review"
)

// CheckRateLimit records a hit for key under scope and reports whether the
// caller is over budget. A failing store never blocks traffic: the error is
// logged and counted and the call is allowed.
func (e *Engine) CheckRateLimit(ctx context.Context, scope RateLimitScope, key string) bool {
	if e == nil {
		return false
	}
	limiter, ok := e.limiters[scope]
	if !ok {
		return false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}

	limited, err := limiter.Limited(ctx, key)
	if err != nil {
		e.metricInc(MetricRateLimitStoreError)
		e.log.Warn(ctx, "rate limit store failed, allowing request", "scope", string(scope), "err", err)
		return false
	}
	if limited {
		e.emitRateLimit(ctx, scope, key)
		switch scope {
		case ScopeLogin:
			e.metricInc(MetricLoginRateLimited)
		case ScopeRegister:
			e.metricInc(MetricRegisterRateLimited)
		}
	}
	return limited
}
