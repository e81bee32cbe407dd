package password

import "strings"

// Hasher hashes new passwords with argon2id and verifies both argon2id and
// bcrypt hashes, so rows written by the previous storefront keep working.
type Hasher struct {
	argon  *Argon2
	bcrypt *Bcrypt
}

// NewHasher builds a Hasher. bcryptCost 0 selects DefaultBcryptCost.
func NewHasher(cfg Config, bcryptCost int) (*Hasher, error) {
	a, err := NewArgon2(cfg)
	if err != nil {
		return nil, err
	}
	b, err := NewBcrypt(bcryptCost)
	if err != nil {
		return nil, err
	}
	return &Hasher{argon: a, bcrypt: b}, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	return h.argon.Hash(password)
}

// Verify dispatches on the stored hash prefix.
func (h *Hasher) Verify(password string, encodedHash string) (bool, error) {
	switch {
	case IsBcrypt(encodedHash):
		return h.bcrypt.Verify(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$"+algorithmID+"$"):
		return h.argon.Verify(password, encodedHash)
	default:
		return false, ErrUnsupportedHash
	}
}

// NeedsRehash is true for bcrypt hashes and for argon2id hashes made with
// weaker parameters.
func (h *Hasher) NeedsRehash(encodedHash string) bool {
	if IsBcrypt(encodedHash) {
		return true
	}
	upgrade, err := h.argon.NeedsUpgrade(encodedHash)
	return err == nil && upgrade
}
