package shopauth

import (
	"time"

	internalaudit "github.com/naazbookdepot/shopauth/internal/audit"
	"github.com/naazbookdepot/shopauth/internal/logging"
	"github.com/naazbookdepot/shopauth/internal/rate"
	"github.com/naazbookdepot/shopauth/jwt"
	"github.com/naazbookdepot/shopauth/password"
)

// Engine is the storefront authentication core. Build it with [Builder].
type Engine struct {
	config       Config
	users        UserStore
	limiterStore RateLimitStore
	limiters     map[RateLimitScope]*rate.Limiter
	audit        *internalaudit.Dispatcher
	metrics      *Metrics
	hasher       *password.Hasher
	dummyHash    string
	sessions     *jwt.Manager
	totp         *totpManager
	log          logging.Logger
	now          func() time.Time
}

// Close drains the audit dispatcher. The Engine must not be used after.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() Config {
	if e == nil {
		return DefaultConfig()
	}
	return cloneConfig(e.config)
}

// Cookies returns the cookie settings the HTTP layer must use.
func (e *Engine) Cookies() CookieConfig {
	if e == nil {
		return DefaultConfig().Cookies
	}
	return e.config.Cookies
}

func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) AuditDelivered() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Delivered()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// PruneRateLimits drops stale entries when the limiter store keeps them in
// process memory. It returns the number removed; shared stores expire keys
// on their own and report 0.
func (e *Engine) PruneRateLimits(now time.Time) int {
	if e == nil {
		return 0
	}
	pruner, ok := e.limiterStore.(interface{ Prune(time.Time) int })
	if !ok {
		return 0
	}
	return pruner.Prune(now)
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}
