package shopauth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

const csrfTokenBytes = 32

// VerifyCSRF reports whether the header token and the cookie token are both
// present and byte-equal. The comparison runs in constant time.
func VerifyCSRF(header, cookie string) bool {
	if header == "" || cookie == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(cookie)) == 1
}

// NewCSRFToken returns 32 random bytes, hex encoded.
func NewCSRFToken() (string, error) {
	raw := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// CheckCSRF is VerifyCSRF plus a metric and an audit event on rejection.
func (e *Engine) CheckCSRF(ctx context.Context, header, cookie string) bool {
	if VerifyCSRF(header, cookie) {
		return true
	}
	e.metricInc(MetricCSRFRejected)
	e.emitAudit(ctx, auditEventCSRFRejected, false, "", ErrCSRFInvalid, func() map[string]string {
		return map[string]string{
			"header_present": boolString(header != ""),
			"cookie_present": boolString(cookie != ""),
		}
	})
	return false
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
