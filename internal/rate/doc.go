// Package rate implements fixed-window request counters keyed by client IP or
// user id.
//
// # Window semantics
//
// A key's window opens on its first hit. Hits inside the window increment the
// counter until it reaches the limit; further hits are rejected without being
// counted. Once more than one window length has passed since the window opened,
// the next hit starts a fresh window with a count of one.
//
// # Stores
//
//   - [MemoryStore]: process-local map, the default for single-instance runs.
//   - [RedisStore]: shared counters for horizontally scaled deployments.
//
// # What this package must NOT do
//
//   - Decide which endpoints are limited or with which ceiling (the Engine owns
//     policies).
//   - Be imported outside the shopauth module.
package rate
