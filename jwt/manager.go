package jwt

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod selects the JWS algorithm used for session tokens.
type SigningMethod string

const (
	// MethodHS256 signs with a shared secret. Default for the storefront.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

// ErrorSessionExpired is the marker Refresh writes into the error claim of
// an expired token.
const ErrorSessionExpired = "SessionExpired"

var (
	// ErrTokenInvalid is returned by Parse for malformed, tampered, or
	// wrongly signed tokens.
	ErrTokenInvalid = errors.New("invalid session token")
	// ErrTokenExpired is returned by Reissue for tokens carrying the
	// expiry marker.
	ErrTokenExpired = errors.New("session token expired")
)

// Config controls token lifetime and signing.
type Config struct {
	// TTL is the lifetime written into exp on Issue and Reissue.
	TTL time.Duration
	// UpdateAge is how old a valid token must be before it is re-signed
	// with a fresh expiry. Zero disables sliding.
	UpdateAge     time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

// Manager signs and verifies session tokens. Safe for concurrent use.
type Manager struct {
	config Config
}

// Subject is the authenticated user a token is issued for.
type Subject struct {
	ID         string
	Email      string
	Name       string
	Role       string
	MFAEnabled bool
	LastLogin  time.Time
}

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	UserID      string `json:"id"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role"`
	LastLogin   string `json:"lastLogin"`
	Fingerprint string `json:"fingerprint,omitempty"`
	MFAEnabled  bool   `json:"mfaEnabled,omitempty"`
	Error       string `json:"error,omitempty"`
	jwt.RegisteredClaims
}

// Expired reports whether the claims carry the expiry marker.
func (c *SessionClaims) Expired() bool {
	return c != nil && c.Error == ErrorSessionExpired
}

func (c *SessionClaims) clone() *SessionClaims {
	out := *c
	if c.Audience != nil {
		out.Audience = append(jwt.ClaimStrings(nil), c.Audience...)
	}
	return &out
}

// Fingerprint returns the hex SHA-256 of a user agent, or "" when the user
// agent is empty.
func Fingerprint(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(userAgent))
	return hex.EncodeToString(sum[:])
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.UpdateAge < 0 || cfg.UpdateAge > cfg.TTL {
		return nil, errors.New("invalid UpdateAge configuration")
	}
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodHS256
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("ed25519 requires private key")
		}
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key")
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// TTL returns the configured token lifetime.
func (j *Manager) TTL() time.Duration {
	return j.config.TTL
}

// Issue mints a token for subject. The fingerprint claim is set only when
// userAgent is non-empty.
func (j *Manager) Issue(subject Subject, userAgent string, now time.Time) (string, *SessionClaims, error) {
	if subject.ID == "" {
		return "", nil, errors.New("subject id required")
	}
	lastLogin := subject.LastLogin
	if lastLogin.IsZero() {
		lastLogin = now
	}

	claims := &SessionClaims{
		UserID:      subject.ID,
		Email:       subject.Email,
		Name:        subject.Name,
		Role:        subject.Role,
		LastLogin:   lastLogin.UTC().Format(time.RFC3339),
		Fingerprint: Fingerprint(userAgent),
		MFAEnabled:  subject.MFAEnabled,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.ID,
			Issuer:    j.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.config.TTL)),
		},
	}

	token, err := j.sign(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Parse verifies the signature and algorithm of tokenStr. Time based claims
// are not validated here: an expired but authentic token parses, and
// Refresh decides what its expiry means.
func (j *Manager) Parse(tokenStr string) (*SessionClaims, error) {
	if tokenStr == "" {
		return nil, ErrTokenInvalid
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{j.method().Alg()}),
		jwt.WithoutClaimsValidation(),
	}
	parser := jwt.NewParser(options...)

	token, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != j.method().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return j.verifyKey()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	if j.config.Issuer != "" && claims.Issuer != j.config.Issuer {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrTokenInvalid)
	}

	return claims, nil
}

// Refresh returns a copy of claims. When exp is missing or not after now
// the copy carries the SessionExpired marker. Input claims are not mutated.
func (j *Manager) Refresh(claims *SessionClaims, now time.Time) *SessionClaims {
	if claims == nil {
		return nil
	}
	out := claims.clone()
	if out.ExpiresAt == nil || !now.Before(out.ExpiresAt.Time) {
		out.Error = ErrorSessionExpired
	}
	return out
}

// NeedsReissue reports whether a valid token is older than UpdateAge.
func (j *Manager) NeedsReissue(claims *SessionClaims, now time.Time) bool {
	if claims == nil || claims.Expired() || j.config.UpdateAge <= 0 {
		return false
	}
	if claims.IssuedAt == nil {
		return true
	}
	return now.Sub(claims.IssuedAt.Time) >= j.config.UpdateAge
}

// Reissue signs a copy of claims with iat=now and a fresh expiry. Expired
// claims are refused.
func (j *Manager) Reissue(claims *SessionClaims, now time.Time) (string, *SessionClaims, error) {
	if claims == nil {
		return "", nil, ErrTokenInvalid
	}
	if claims.Expired() {
		return "", nil, ErrTokenExpired
	}

	out := claims.clone()
	out.IssuedAt = jwt.NewNumericDate(now)
	out.ExpiresAt = jwt.NewNumericDate(now.Add(j.config.TTL))

	token, err := j.sign(out)
	if err != nil {
		return "", nil, err
	}
	return token, out, nil
}

func (j *Manager) sign(claims *SessionClaims) (string, error) {
	token := jwt.NewWithClaims(j.method(), claims)

	signKey, err := j.signKey()
	if err != nil {
		return "", err
	}
	return token.SignedString(signKey)
}

func (j *Manager) method() jwt.SigningMethod {
	switch j.config.SigningMethod {
	case MethodEd25519:
		return jwt.SigningMethodEdDSA
	default:
		return jwt.SigningMethodHS256
	}
}

func (j *Manager) signKey() (interface{}, error) {
	switch j.config.SigningMethod {
	case MethodEd25519:
		return parseEdPrivateKey(j.config.PrivateKey)
	default:
		return j.config.PrivateKey, nil
	}
}

func (j *Manager) verifyKey() (interface{}, error) {
	switch j.config.SigningMethod {
	case MethodEd25519:
		return parseEdPublicKey(j.config.PublicKey)
	default:
		return j.config.PrivateKey, nil
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
