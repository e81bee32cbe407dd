// Package shopauth is the authentication and session core of the Naaz Book
// Depot storefront: credential verification, signed session tokens with
// user-agent fingerprints and expiry markers, CSRF double-submit checks,
// keyed rate limiting, and TOTP enrollment.
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build].
//
// # Architecture boundaries
//
// shopauth is the public surface. It exposes [Engine], [Builder], [Config]
// and the value types handlers need ([Identity], [SessionView],
// [TOTPSetup]). Persistence is reached only through [UserStore]; rate-limit
// counters live behind the internal/rate Store.
//
// # What this package must NOT do
//
//   - Import HTTP routing or SQL packages. Handlers and repositories depend
//     on shopauth, never the reverse.
//   - Return a session view for a token carrying the SessionExpired marker.
//   - Let a user store failure turn into a successful login.
package shopauth
