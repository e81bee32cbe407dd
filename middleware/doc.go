// Package middleware adapts the shopauth engine to net/http.
//
// # Chain
//
//   - [ClientContext] attaches client IP, user agent and request id.
//   - [Guard] loads the session cookie through Engine.Authenticate and
//     refreshes the cookie when the engine re-signs the token.
//   - [CSRF] rejects mutating requests whose x-csrf-token header does not
//     match the CSRF cookie.
//   - [RequireSession] answers 401 when no session was loaded.
//   - [RequireRole] adds a 403 for sessions without the needed role.
//   - [RateLimit] applies one engine rate-limit scope.
//   - [RequestLogger] logs one line per request.
//
// Handlers read the session with [SessionFromContext].
//
// # What this package must NOT do
//
//   - Parse or sign tokens directly (the engine does).
//   - Access the user store.
package middleware
