// Package transport defines the abstract upstream feed transport.
//
// The relay consumes one external message feed through this interface:
//   - Connect: open the connection to the feed endpoint
//   - Subscribe / Unsubscribe: apply or drop a topic filter
//   - Recv: block for the next raw message
//   - Close: release the connection
//
// The wire format carried over the transport is UTF-8 text with fields
// separated by single ASCII spaces; parsing is the relay's concern, not the
// transport's. The production implementation is a ZeroMQ SUB socket in
// internal/zmqfeed; tests substitute an in-memory fake.
package transport
