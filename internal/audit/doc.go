// Package audit relays security events from the engine to a sink without
// blocking request handling.
//
// # Components
//
//   - [Sink]: event consumer (channel, JSON writer, structured logger, no-op).
//   - [Dispatcher]: buffered relay with drop-if-full or block-if-full
//     semantics, drained on Close.
//   - [Event]: the audit record.
//
// The package decides nothing about which events exist; the engine does.
package audit
