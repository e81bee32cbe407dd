package shopauth

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Config is the engine configuration tree. Start from DefaultConfig and
// override what differs.
type Config struct {
	Session   SessionConfig
	Cookies   CookieConfig
	TOTP      TOTPConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls session token lifetime and signing.
type SessionConfig struct {
	MaxAge        time.Duration
	UpdateAge     time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	Secret        []byte
	PublicKey     []byte
	Issuer        string
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig names the cookies and header the HTTP layer uses.
type CookieConfig struct {
	SessionName  string
	CallbackName string
	CSRFName     string
	CSRFHeader   string
	Path         string
	Secure       bool
	SameSite     http.SameSite
}

/*
====================================
TOTP CONFIG
====================================
*/

// TOTPConfig controls MFA secret generation and code verification.
type TOTPConfig struct {
	Issuer     string
	Digits     int
	Period     int
	Skew       int
	Algorithm  string
	SecretSize int
	QRSize     int
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds argon2id parameters for new hashes and the bcrypt
// cost used when verifying or seeding legacy hashes.
type PasswordConfig struct {
	Memory         uint32 // KiB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	MaxBytes       int
	BcryptCost     int
	UpgradeOnLogin bool
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitPolicy is a ceiling of Limit hits per Window for one key.
type RateLimitPolicy struct {
	Limit  int
	Window time.Duration
}

// RateLimitConfig holds one policy per scope.
type RateLimitConfig struct {
	Prefix   string
	Register RateLimitPolicy
	Login    RateLimitPolicy
	User     RateLimitPolicy
	Review   RateLimitPolicy

	// PruneInterval is how often the in-memory store drops stale entries.
	PruneInterval time.Duration
}

/*
====================================
OBSERVABILITY CONFIG
====================================
*/

// AuditConfig controls the audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the storefront defaults. Session.Secret is left
// empty and must be supplied.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			MaxAge:        30 * 24 * time.Hour,
			UpdateAge:     24 * time.Hour,
			SigningMethod: "hs256",
		},
		Cookies: CookieConfig{
			SessionName:  "__Secure-next-auth.session-token",
			CallbackName: "__Secure-next-auth.callback-url",
			CSRFName:     "__Host-next-auth.csrf-token",
			CSRFHeader:   "x-csrf-token",
			Path:         "/",
			Secure:       false,
			SameSite:     http.SameSiteLaxMode,
		},
		TOTP: TOTPConfig{
			Issuer:     "NaazBookDepot",
			Digits:     6,
			Period:     30,
			Skew:       1,
			Algorithm:  "SHA1",
			SecretSize: 32,
			QRSize:     200,
		},
		Password: PasswordConfig{
			Memory:         64 * 1024,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			MaxBytes:       1024,
			BcryptCost:     10,
			UpgradeOnLogin: true,
		},
		RateLimit: RateLimitConfig{
			Prefix:        "shopauth:rl",
			Register:      RateLimitPolicy{Limit: 5, Window: time.Minute},
			Login:         RateLimitPolicy{Limit: 10, Window: time.Minute},
			User:          RateLimitPolicy{Limit: 10, Window: time.Minute},
			Review:        RateLimitPolicy{Limit: 5, Window: time.Minute},
			PruneInterval: 5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.Secret = cloneBytes(cfg.Session.Secret)
	out.Session.PublicKey = cloneBytes(cfg.Session.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	// Session
	if c.Session.MaxAge <= 0 {
		return errors.New("Session MaxAge must be > 0")
	}
	if c.Session.UpdateAge < 0 || c.Session.UpdateAge > c.Session.MaxAge {
		return errors.New("Session UpdateAge must be within [0, MaxAge]")
	}
	switch strings.ToLower(c.Session.SigningMethod) {
	case "hs256":
		if len(c.Session.Secret) < 32 {
			return errors.New("hs256 requires a Secret of at least 32 bytes")
		}
	case "ed25519":
		if len(c.Session.Secret) == 0 || len(c.Session.PublicKey) == 0 {
			return errors.New("ed25519 requires Secret (private key) and PublicKey")
		}
	default:
		return errors.New("unsupported Session SigningMethod")
	}

	// Cookies
	if c.Cookies.SessionName == "" || c.Cookies.CSRFName == "" || c.Cookies.CSRFHeader == "" {
		return errors.New("Cookies SessionName, CSRFName and CSRFHeader are required")
	}
	if strings.HasPrefix(c.Cookies.CSRFName, "__Host-") && c.Cookies.Path != "/" {
		return errors.New("__Host- cookies require Path \"/\"")
	}

	// TOTP
	if c.TOTP.Issuer == "" {
		return errors.New("TOTP Issuer must be set")
	}
	if c.TOTP.Digits != 6 && c.TOTP.Digits != 8 {
		return errors.New("TOTP Digits must be 6 or 8")
	}
	if c.TOTP.Period <= 0 {
		return errors.New("TOTP Period must be > 0")
	}
	if c.TOTP.Skew < 0 || c.TOTP.Skew > 3 {
		return errors.New("TOTP Skew must be between 0 and 3")
	}
	switch strings.ToUpper(c.TOTP.Algorithm) {
	case "SHA1", "SHA256", "SHA512":
	default:
		return errors.New("TOTP Algorithm must be SHA1, SHA256 or SHA512")
	}
	if c.TOTP.SecretSize < 16 {
		return errors.New("TOTP SecretSize must be >= 16")
	}
	if c.TOTP.QRSize <= 0 {
		return errors.New("TOTP QRSize must be > 0")
	}

	// Rate limits
	for name, p := range map[string]RateLimitPolicy{
		"Register": c.RateLimit.Register,
		"Login":    c.RateLimit.Login,
		"User":     c.RateLimit.User,
		"Review":   c.RateLimit.Review,
	} {
		if p.Limit < 0 {
			return errors.New("RateLimit " + name + " Limit must be >= 0")
		}
		if p.Limit > 0 && p.Window <= 0 {
			return errors.New("RateLimit " + name + " Window must be > 0")
		}
	}
	if c.RateLimit.PruneInterval < 0 {
		return errors.New("RateLimit PruneInterval must be >= 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}
