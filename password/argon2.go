package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	algorithmID = "argon2id"

	// DefaultMaxPasswordBytes caps plaintext length when Config leaves
	// MaxPasswordBytes at zero.
	DefaultMaxPasswordBytes = 1024
)

// Lower bounds accepted from configuration and from stored hashes.
var floor = params{memory: 8 * 1024, time: 1, parallelism: 1, keyLength: 16}

const minSaltLength = 16

var (
	// ErrEmptyPassword is returned when hashing an empty plaintext.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordTooLong is returned when plaintext exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
	// ErrUnsupportedHash is returned for stored hashes of an unknown scheme.
	ErrUnsupportedHash = errors.New("unsupported password hash")
	// ErrMalformedHash is returned for argon2id strings that do not parse.
	ErrMalformedHash = errors.New("malformed argon2id hash")
)

// Config holds argon2id cost parameters.
type Config struct {
	Memory           uint32 // KiB
	Time             uint32
	Parallelism      uint8
	SaltLength       uint32
	KeyLength        uint32
	MaxPasswordBytes int
}

func (c Config) params() params {
	return params{memory: c.Memory, time: c.Time, parallelism: c.Parallelism, keyLength: c.KeyLength}
}

// params are the costs recorded in an argon2id PHC string.
type params struct {
	memory      uint32
	time        uint32
	parallelism uint8
	keyLength   uint32
}

// weakerThan reports whether p falls short of want on any cost, or uses a
// different key length.
func (p params) weakerThan(want params) bool {
	return p.memory < want.memory ||
		p.time < want.time ||
		p.parallelism < want.parallelism ||
		p.keyLength != want.keyLength
}

// phc is a decoded $argon2id$v=19$m=..,t=..,p=..$salt$key string.
type phc struct {
	params
	salt []byte
	key  []byte
}

func (h phc) String() string {
	enc := base64.RawStdEncoding
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID, argon2.Version, h.memory, h.time, h.parallelism,
		enc.EncodeToString(h.salt), enc.EncodeToString(h.key))
}

func decodePHC(s string) (phc, error) {
	var h phc
	parts := strings.Split(s, "$")
	if len(parts) != 6 || parts[0] != "" {
		return h, ErrMalformedHash
	}
	if parts[1] != algorithmID {
		return h, ErrUnsupportedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return h, ErrMalformedHash
	}
	if version != argon2.Version {
		return h, fmt.Errorf("%w: argon2 version %d", ErrUnsupportedHash, version)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.parallelism); err != nil {
		return h, ErrMalformedHash
	}

	// Stored strings may or may not carry base64 padding.
	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(parts[4], "=")); err != nil {
		return h, ErrMalformedHash
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(parts[5], "=")); err != nil {
		return h, ErrMalformedHash
	}
	h.keyLength = uint32(len(h.key))

	if len(h.salt) < minSaltLength || h.keyLength == 0 || h.below(floor) {
		return h, ErrMalformedHash
	}
	return h, nil
}

// below reports whether any cost of p is under the matching cost of limit.
func (p params) below(limit params) bool {
	return p.memory < limit.memory || p.time < limit.time || p.parallelism < limit.parallelism
}

// Argon2 hashes new passwords with argon2id and verifies PHC strings.
type Argon2 struct {
	config Config
}

// NewArgon2 validates cfg and returns a hasher.
func NewArgon2(cfg Config) (*Argon2, error) {
	if cfg.MaxPasswordBytes == 0 {
		cfg.MaxPasswordBytes = DefaultMaxPasswordBytes
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Argon2{config: cfg}, nil
}

func validateConfig(cfg Config) error {
	switch {
	case cfg.params().below(floor):
		return fmt.Errorf("argon2id costs below m=%d,t=%d,p=%d", floor.memory, floor.time, floor.parallelism)
	case cfg.KeyLength < floor.keyLength:
		return fmt.Errorf("argon2id key length must be >= %d", floor.keyLength)
	case cfg.SaltLength < minSaltLength:
		return fmt.Errorf("argon2id salt length must be >= %d", minSaltLength)
	case cfg.MaxPasswordBytes < 0:
		return errors.New("password max bytes must be >= 0")
	}
	return nil
}

func (a *Argon2) checkLength(password string) error {
	if len(password) > a.config.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Hash returns a PHC encoded argon2id hash of password. The raw string bytes
// are hashed as given, without Unicode normalization.
func (a *Argon2) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if err := a.checkLength(password); err != nil {
		return "", err
	}

	h := phc{params: a.config.params(), salt: make([]byte, a.config.SaltLength)}
	if _, err := rand.Read(h.salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	h.key = argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.parallelism, h.keyLength)
	return h.String(), nil
}

// Verify reports whether password matches encodedHash in constant time. The
// costs recorded in encodedHash are used, not the current config.
func (a *Argon2) Verify(password string, encodedHash string) (bool, error) {
	if err := a.checkLength(password); err != nil {
		return false, err
	}
	h, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.parallelism, h.keyLength)
	return subtle.ConstantTimeCompare(key, h.key) == 1, nil
}

// NeedsUpgrade reports whether encodedHash was produced with weaker
// parameters than the current config.
func (a *Argon2) NeedsUpgrade(encodedHash string) (bool, error) {
	h, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}
	return h.params.weakerThan(a.config.params()), nil
}
