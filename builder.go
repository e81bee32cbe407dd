package shopauth

import (
	"errors"
	"time"

	internalaudit "github.com/naazbookdepot/shopauth/internal/audit"
	"github.com/naazbookdepot/shopauth/internal/logging"
	"github.com/naazbookdepot/shopauth/internal/rate"
	"github.com/naazbookdepot/shopauth/jwt"
	"github.com/naazbookdepot/shopauth/password"
	"github.com/redis/go-redis/v9"
)

const dummyPassword = "shopauth-timing-equalizer"

// RateLimitStore is the counter backend behind every rate-limit policy.
// internal/rate provides an in-memory and a Redis implementation.
type RateLimitStore = rate.Store

// Builder assembles an Engine. Configure it during initialization, call
// Build once, then discard it.
type Builder struct {
	config Config

	users        UserStore
	limiterStore RateLimitStore
	auditSink    AuditSink
	logger       logging.Logger
	now          func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

func (b *Builder) WithUserStore(users UserStore) *Builder {
	b.users = users
	return b
}

// WithLimiterStore sets the rate-limit backend. Without it Build uses an
// in-memory store.
func (b *Builder) WithLimiterStore(store RateLimitStore) *Builder {
	b.limiterStore = store
	return b
}

// WithRedis shares rate-limit counters across replicas through client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	if client == nil {
		return b
	}
	b.limiterStore = rate.NewRedisStore(client)
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithLogger(log logging.Logger) *Builder {
	b.logger = log
	return b
}

// WithClock replaces time.Now. Tests use it to move session expiry.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires every component.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.users == nil {
		return nil, errors.New("user store required")
	}

	now := b.now
	if now == nil {
		now = time.Now
	}
	log := b.logger
	if log == nil {
		log = logging.Nop{}
	}

	engine := &Engine{
		config: cloneConfig(cfg),
		users:  b.users,
		log:    log.With("module", "shopauth"),
		now:    now,
	}

	// -------- RATE LIMITERS --------
	store := b.limiterStore
	if store == nil {
		store = rate.NewMemoryStoreWithClock(now)
	}
	engine.limiterStore = store
	engine.limiters = map[RateLimitScope]*rate.Limiter{
		ScopeRegister: newScopeLimiter(store, cfg.RateLimit, ScopeRegister, cfg.RateLimit.Register),
		ScopeLogin:    newScopeLimiter(store, cfg.RateLimit, ScopeLogin, cfg.RateLimit.Login),
		ScopeUser:     newScopeLimiter(store, cfg.RateLimit, ScopeUser, cfg.RateLimit.User),
		ScopeReview:   newScopeLimiter(store, cfg.RateLimit, ScopeReview, cfg.RateLimit.Review),
	}

	// -------- OBSERVABILITY --------
	sink := b.auditSink
	if sink == nil {
		sink = NewLoggerSink(log)
	}
	overflow := internalaudit.Block
	if cfg.Audit.DropIfFull {
		overflow = internalaudit.Drop
	}
	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		Overflow:   overflow,
	}, sink)
	engine.metrics = NewMetrics(cfg.Metrics)

	// -------- CREDENTIALS --------
	hasher, err := password.NewHasher(password.Config{
		Memory:           cfg.Password.Memory,
		Time:             cfg.Password.Time,
		Parallelism:      cfg.Password.Parallelism,
		SaltLength:       cfg.Password.SaltLength,
		KeyLength:        cfg.Password.KeyLength,
		MaxPasswordBytes: cfg.Password.MaxBytes,
	}, cfg.Password.BcryptCost)
	if err != nil {
		engine.audit.Close()
		return nil, err
	}
	engine.hasher = hasher
	engine.dummyHash, err = hasher.Hash(dummyPassword)
	if err != nil {
		engine.audit.Close()
		return nil, err
	}

	// -------- SESSIONS --------
	sessions, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.Session.MaxAge,
		UpdateAge:     cfg.Session.UpdateAge,
		SigningMethod: jwt.SigningMethod(cfg.Session.SigningMethod),
		PrivateKey:    cloneBytes(cfg.Session.Secret),
		PublicKey:     cloneBytes(cfg.Session.PublicKey),
		Issuer:        cfg.Session.Issuer,
	})
	if err != nil {
		engine.audit.Close()
		return nil, err
	}
	engine.sessions = sessions

	engine.totp = newTOTPManager(cfg.TOTP)

	b.built = true

	return engine, nil
}

func newScopeLimiter(store RateLimitStore, cfg RateLimitConfig, scope RateLimitScope, p RateLimitPolicy) *rate.Limiter {
	return rate.New(store, rate.Config{
		Prefix: cfg.Prefix + ":" + string(scope),
		Limit:  p.Limit,
		Window: p.Window,
	})
}
